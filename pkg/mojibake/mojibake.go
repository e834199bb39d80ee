// Package mojibake detects and repairs text that went through a wrong
// decode somewhere in the export pipeline, most commonly UTF-8 bytes read
// as Windows-1252. Repairs are accepted only when they strictly reduce the
// count of suspicious character sequences, so a repair can never make a
// clean file worse.
package mojibake

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/vbakit/vbakit/pkg/encoding"
)

// suspiciousTokens are the character sequences that almost never occur in
// legitimate VBA source but show up constantly in mis-decoded text: the
// UTF-8 lead bytes as CP1252 letters, and the replacement character.
var suspiciousTokens = []string{
	"Ã",       // Ã
	"Â",       // Â
	"â€", // â€, the lead pair of mis-decoded punctuation
	"�",       // replacement character
}

// SpanishDefaults maps the replacement-character corruptions that appear in
// Spanish-language Access modules back to their intended words.
var SpanishDefaults = map[string]string{
	"m�todo":         "método",
	"S�":             "Sí",
	"ra�z":           "raíz",
	"edici�n":        "edición",
	"p_A�o":          "p_Año",
	"par�metro":      "parámetro",
	"Prop�sito":      "Propósito",
	"Par�metros":     "Parámetros",
	"seg�n":          "según",
	"jer�rquico":     "jerárquico",
	"L�gica":         "Lógica",
	"M�xDeIDEdicion": "MáxDeIDEdicion",
	"conexi�n":       "conexión",
	"Validaci�n":     "Validación",
	"l�gica":         "lógica",
	"publicaci�n":    "publicación",
	"�Desea":         "¿Desea",
	"acci�n":         "acción",
	"M�nDeIDEdicion": "MínDeIDEdicion",
	"jer�rquica":     "jerárquica",
	"num�rico":       "numérico",
	"par�metros":     "parámetros",
	"Construcci�n":   "Construcción",
	"Ejecuci�n":      "Ejecución",
	"visualizaci�n":  "visualización",
	"Nemot�cnico":    "Nemotécnico",
	"validaci�n":     "validación",
	"Telef�nica":     "Telefónica",
	"�rbol":          "árbol",
	"S�lo":           "Sólo",
	"a�o":            "año",
	"n�mero":         "número",
	"est�":           "está",
	"T�CNICA":        "TÉCNICA",
}

// Score counts suspicious token occurrences in text. Zero means the text
// shows no sign of mis-decoding.
func Score(text string) int {
	score := 0
	for _, token := range suspiciousTokens {
		score += strings.Count(text, token)
	}
	return score
}

// RepairDoubleEncoded undoes a UTF-8-read-as-CP1252 decode by round-tripping
// the text back through Windows-1252 and decoding it as UTF-8. The repair is
// kept only when it lowers the mojibake score. When the whole text will not
// round-trip (mixed corruption), each line is repaired independently.
func RepairDoubleEncoded(text string) (string, bool) {
	if repaired, ok := roundTrip(text); ok {
		if Score(repaired) < Score(text) {
			return repaired, true
		}
		return text, false
	}

	lines := strings.SplitAfter(text, "\n")
	changed := false
	for i, line := range lines {
		repaired, ok := roundTrip(line)
		if !ok {
			continue
		}
		if Score(repaired) < Score(line) {
			lines[i] = repaired
			changed = true
		}
	}
	if !changed {
		return text, false
	}
	repaired := strings.Join(lines, "")
	if Score(repaired) < Score(text) {
		return repaired, true
	}
	return text, false
}

func roundTrip(text string) (string, bool) {
	encoded, err := encoding.Encode(text, encoding.LabelANSI)
	if err != nil {
		return "", false
	}
	if encoding.Classify(encoded) != encoding.LabelUTF8 {
		return "", false
	}
	decoded, err := encoding.Decode(encoded, encoding.LabelUTF8)
	if err != nil {
		return "", false
	}
	return decoded, true
}

// ApplyMap replaces every key of mapping with its value and reports whether
// anything changed.
func ApplyMap(text string, mapping map[string]string) (string, bool) {
	result := text
	for from, to := range mapping {
		result = strings.ReplaceAll(result, from, to)
	}
	return result, result != text
}

// LoadMap reads a replacement map from a JSON file of {corrupted: intended}
// pairs.
func LoadMap(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read replacement map")
	}
	mapping := make(map[string]string)
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, errors.Wrap(err, "failed to parse replacement map")
	}
	return mapping, nil
}
