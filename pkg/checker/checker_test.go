package checker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbakit/vbakit/pkg/encoding"
)

func writeBytes(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestCheckCleanTree(t *testing.T) {
	tmpDir := t.TempDir()
	ascii := writeBytes(t, tmpDir, "Module1.bas", []byte("Option Explicit\r\n"))
	utf8File := writeBytes(t, tmpDir, "Module2.bas", []byte("' año\r\n"))

	report := Check(context.Background(), []string{ascii, utf8File})
	require.Len(t, report.Records, 2)
	assert.Equal(t, encoding.LabelASCII, report.Records[0].Label)
	assert.Equal(t, encoding.LabelUTF8, report.Records[1].Label)
	assert.Equal(t, int64(17), report.Records[0].Size)
	assert.False(t, report.Risky())
	assert.False(t, report.MixedText)
	assert.NoError(t, report.Err())
}

func TestCheckSingleAnsiFileIsRisky(t *testing.T) {
	tmpDir := t.TempDir()
	ansi := writeBytes(t, tmpDir, "Legacy.bas", []byte("' a\xf1o\r\n"))

	report := Check(context.Background(), []string{ansi})
	require.Len(t, report.Records, 1)
	assert.Equal(t, encoding.LabelANSI, report.Records[0].Label)
	assert.True(t, report.Risky())
	assert.False(t, report.MixedText)
}

func TestCheckMixedTextEncodings(t *testing.T) {
	tmpDir := t.TempDir()
	utf8File := writeBytes(t, tmpDir, "New.bas", []byte("' año\r\n"))
	ansi := writeBytes(t, tmpDir, "Old.bas", []byte("' a\xf1o\r\n"))

	report := Check(context.Background(), []string{utf8File, ansi})
	assert.True(t, report.MixedText)
	assert.True(t, report.Risky())
	assert.Equal(t, 1, report.LabelCounts[encoding.LabelUTF8])
	assert.Equal(t, 1, report.LabelCounts[encoding.LabelANSI])
}

func TestCheckProblemEncodings(t *testing.T) {
	tmpDir := t.TempDir()
	bom := writeBytes(t, tmpDir, "Bom.bas", []byte("\xef\xbb\xbfOption Explicit"))

	report := Check(context.Background(), []string{bom})
	assert.True(t, report.Problem)
	assert.True(t, report.Risky())
}

func TestCheckUnknownGetsGuess(t *testing.T) {
	tmpDir := t.TempDir()
	binary := writeBytes(t, tmpDir, "Blob.bas", []byte{0x4D, 0x5A, 0x00, 0x01, 0x02})

	report := Check(context.Background(), []string{binary})
	require.Len(t, report.Records, 1)
	assert.Equal(t, encoding.LabelUnknown, report.Records[0].Label)
	// Guess may legitimately be empty for short binary blobs; only the label matters.
	assert.True(t, report.Risky())
}

func TestCheckReadFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.bas")

	report := Check(context.Background(), []string{missing})
	require.Len(t, report.Records, 1)
	assert.Error(t, report.Records[0].Err)
	assert.True(t, report.Risky())
	assert.Error(t, report.Err())
}
