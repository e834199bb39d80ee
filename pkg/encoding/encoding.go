// Package encoding classifies and transcodes the byte encodings found in
// exported Access/VBA module files (.bas/.cls). Classification is a pure
// function over the file's bytes; transcoding converts between the detected
// source encoding and UTF-8 without a byte-order mark.
package encoding

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Label identifies the byte encoding of a module file.
type Label string

// The closed set of labels Classify can return.
const (
	LabelASCII   Label = "ascii-only"
	LabelUTF8    Label = "utf8"
	LabelUTF8BOM Label = "utf8-bom"
	LabelANSI    Label = "ansi-cp1252"
	LabelUTF16LE Label = "utf16-le"
	LabelUTF16BE Label = "utf16-be"
	LabelUnknown Label = "binary-or-unknown"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Risky reports whether a file with this label should trip a strict check.
// Only plain 7-bit ASCII and BOM-less UTF-8 are safe to commit as-is.
func (l Label) Risky() bool {
	return l != LabelASCII && l != LabelUTF8
}

// Decodable reports whether Decode can produce text for this label.
func (l Label) Decodable() bool {
	return l != LabelUnknown
}

// Classify maps raw file content to an encoding label. First match wins:
// empty, UTF-8 BOM, UTF-16 BOMs, NUL bytes, strict UTF-8, strict
// Windows-1252, otherwise binary-or-unknown. It never fails.
func Classify(data []byte) Label {
	if len(data) == 0 {
		return LabelASCII
	}
	if bytes.HasPrefix(data, bomUTF8) {
		return LabelUTF8BOM
	}
	if bytes.HasPrefix(data, bomUTF16LE) {
		return LabelUTF16LE
	}
	if bytes.HasPrefix(data, bomUTF16BE) {
		return LabelUTF16BE
	}
	// Exported VBA text never contains NUL, but NUL is valid ASCII and valid
	// UTF-8, so it has to be rejected before the UTF-8 pass.
	if bytes.IndexByte(data, 0x00) >= 0 {
		return LabelUnknown
	}
	if utf8.Valid(data) {
		if isASCII(data) {
			return LabelASCII
		}
		return LabelUTF8
	}
	if decodableCP1252(data) {
		return LabelANSI
	}
	return LabelUnknown
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

// decodableCP1252 reports whether every byte maps to a rune in Windows-1252.
// The charmap decoder substitutes U+FFFD for the five unassigned bytes
// (0x81 0x8D 0x8F 0x90 0x9D) instead of failing, so strictness is checked
// per byte up front.
func decodableCP1252(data []byte) bool {
	for _, b := range data {
		if b < 0x80 {
			continue
		}
		if charmap.Windows1252.DecodeByte(b) == utf8.RuneError {
			return false
		}
	}
	return true
}

// Decode converts raw file bytes to text using the source encoding the label
// names. LabelUnknown is not decodable. A UTF-8 BOM is stripped, UTF-16
// decoding consumes the BOM, and ill-formed payloads are rejected rather
// than silently replaced.
func Decode(data []byte, label Label) (string, error) {
	switch label {
	case LabelASCII, LabelUTF8:
		return string(data), nil
	case LabelUTF8BOM:
		payload := bytes.TrimPrefix(data, bomUTF8)
		if !utf8.Valid(payload) {
			return "", errors.New("payload after UTF-8 BOM is not valid UTF-8")
		}
		return string(payload), nil
	case LabelANSI:
		if !decodableCP1252(data) {
			return "", errors.New("bytes outside the Windows-1252 repertoire")
		}
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", errors.Wrap(err, "windows-1252 decode")
		}
		return string(decoded), nil
	case LabelUTF16LE, LabelUTF16BE:
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		decoded, err := dec.Bytes(data)
		if err != nil {
			return "", errors.Wrap(err, "utf-16 decode")
		}
		// The decoder substitutes U+FFFD for lone surrogates and truncated
		// code units; VBA exports never contain the replacement char, so its
		// presence means the payload was not valid UTF-16.
		if strings.ContainsRune(string(decoded), utf8.RuneError) {
			return "", errors.New("ill-formed UTF-16 payload")
		}
		return string(decoded), nil
	default:
		return "", errors.Errorf("%s content is not decodable", label)
	}
}

// Encode converts text back to bytes in the encoding the label names.
// Used by mojibake repair, which preserves each file's original encoding;
// normalization always re-encodes as plain UTF-8 instead.
func Encode(text string, label Label) ([]byte, error) {
	switch label {
	case LabelANSI:
		encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, errors.Wrap(err, "windows-1252 encode")
		}
		return encoded, nil
	case LabelASCII:
		if !isASCII([]byte(text)) {
			return nil, errors.New("text is no longer pure ASCII")
		}
		return []byte(text), nil
	default:
		return []byte(text), nil
	}
}

// Guess returns a best-effort charset name for content Classify could not
// place, using the chardet detector. The guess is an annotation for reports
// only and never influences the Label. Returns "" when detection fails.
func Guess(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return ""
	}
	return result.Charset
}
