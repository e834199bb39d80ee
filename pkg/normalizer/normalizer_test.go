package normalizer

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

func readBytes(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestNormalizeUTF8IsNoOp(t *testing.T) {
	tmpDir := t.TempDir()
	original := []byte("' año de edición\r\nOption Explicit\r\n")
	path := writeBytes(t, tmpDir, "Module1.bas", original)

	result := NormalizeFile(context.Background(), path, Options{})
	assert.Equal(t, ActionSkipped, result.Action)
	assert.Equal(t, encoding.LabelUTF8, result.Label)
	assert.Equal(t, original, readBytes(t, path))
}

func TestNormalizeASCIIIsNoOp(t *testing.T) {
	tmpDir := t.TempDir()
	original := []byte("Option Explicit\r\n")
	path := writeBytes(t, tmpDir, "Module1.bas", original)

	result := NormalizeFile(context.Background(), path, Options{})
	assert.Equal(t, ActionSkipped, result.Action)
	assert.Equal(t, original, readBytes(t, path))
}

func TestNormalizeStripsBOM(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeBytes(t, tmpDir, "Module1.bas", []byte("\xef\xbb\xbf' año\r\n"))

	result := NormalizeFile(context.Background(), path, Options{})
	require.Equal(t, ActionConverted, result.Action)
	assert.Equal(t, encoding.LabelUTF8BOM, result.Label)

	after := readBytes(t, path)
	assert.Equal(t, []byte("' año\r\n"), after)
	assert.Equal(t, encoding.LabelUTF8, encoding.Classify(after))
}

func TestNormalizeCP1252(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeBytes(t, tmpDir, "Legacy.bas", []byte("' conexi\xf3n\r\n"))

	result := NormalizeFile(context.Background(), path, Options{})
	require.Equal(t, ActionConverted, result.Action)
	assert.Equal(t, encoding.LabelANSI, result.Label)
	assert.Equal(t, []byte("' conexión\r\n"), readBytes(t, path))
}

func TestNormalizeUTF16(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeBytes(t, tmpDir, "Wide.bas", []byte("\xff\xfeh\x00\xe9\x00"))

	result := NormalizeFile(context.Background(), path, Options{})
	require.Equal(t, ActionConverted, result.Action)
	assert.Equal(t, encoding.LabelUTF16LE, result.Label)
	assert.Equal(t, []byte("hé"), readBytes(t, path))
}

func TestNormalizeDryRun(t *testing.T) {
	tmpDir := t.TempDir()
	original := []byte("\xef\xbb\xbfOption Explicit\r\n")
	path := writeBytes(t, tmpDir, "Module1.bas", original)

	result := NormalizeFile(context.Background(), path, Options{DryRun: true, Backup: true})
	assert.Equal(t, ActionDryRun, result.Action)
	assert.Equal(t, original, readBytes(t, path), "dry run must not mutate the file")
	assert.NoFileExists(t, path+DefaultBackupExt, "dry run must not create backups")
	assert.NotEmpty(t, result.NewText)
}

func TestNormalizeBackup(t *testing.T) {
	tmpDir := t.TempDir()
	original := []byte("' a\xf1o\r\n")
	path := writeBytes(t, tmpDir, "Legacy.bas", original)

	result := NormalizeFile(context.Background(), path, Options{Backup: true})
	require.Equal(t, ActionConverted, result.Action)
	assert.Equal(t, path+DefaultBackupExt, result.BackupPath)
	assert.Equal(t, original, readBytes(t, result.BackupPath), "backup must be a byte-exact copy")
	assert.Equal(t, []byte("' año\r\n"), readBytes(t, path))
}

func TestNormalizeBackupExists(t *testing.T) {
	tmpDir := t.TempDir()
	original := []byte("' a\xf1o\r\n")
	path := writeBytes(t, tmpDir, "Legacy.bas", original)
	writeBytes(t, tmpDir, "Legacy.bas.bak", []byte("stale"))

	result := NormalizeFile(context.Background(), path, Options{Backup: true})
	assert.Equal(t, ActionFailed, result.Action)
	assert.Error(t, result.Err)
	assert.Equal(t, original, readBytes(t, path), "original must be untouched")
	assert.Equal(t, []byte("stale"), readBytes(t, path+".bak"))
}

func TestNormalizeCustomBackupExt(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeBytes(t, tmpDir, "Legacy.bas", []byte("' a\xf1o\r\n"))

	result := NormalizeFile(context.Background(), path, Options{Backup: true, BackupExt: ".orig"})
	require.Equal(t, ActionConverted, result.Action)
	assert.Equal(t, path+".orig", result.BackupPath)
	assert.FileExists(t, path+".orig")
}

func TestNormalizeBinaryFails(t *testing.T) {
	tmpDir := t.TempDir()
	original := []byte{0x4D, 0x5A, 0x00, 0x01}
	path := writeBytes(t, tmpDir, "Blob.bas", original)

	result := NormalizeFile(context.Background(), path, Options{})
	assert.Equal(t, ActionFailed, result.Action)
	assert.Equal(t, encoding.LabelUnknown, result.Label)
	assert.Error(t, result.Err)
	assert.Equal(t, original, readBytes(t, path), "failed files must be left untouched")
}

func TestNormalizeInvalidBOMPayloadFails(t *testing.T) {
	tmpDir := t.TempDir()
	original := []byte("\xef\xbb\xbf\xff\xff")
	path := writeBytes(t, tmpDir, "Bad.bas", original)

	result := NormalizeFile(context.Background(), path, Options{})
	assert.Equal(t, ActionFailed, result.Action)
	assert.Equal(t, encoding.LabelUTF8BOM, result.Label)
	assert.Equal(t, original, readBytes(t, path))
}

func TestNormalizeBatchContinuesPastFailures(t *testing.T) {
	tmpDir := t.TempDir()
	binary := writeBytes(t, tmpDir, "Blob.bas", []byte{0x00, 0x01})
	bom := writeBytes(t, tmpDir, "Bom.bas", []byte("\xef\xbb\xbfhello"))
	missing := filepath.Join(tmpDir, "gone.bas")

	results, err := Normalize(context.Background(), []string{binary, missing, bom}, Options{})
	require.Len(t, results, 3)
	assert.Equal(t, ActionFailed, results[0].Action)
	assert.Equal(t, ActionFailed, results[1].Action)
	assert.Equal(t, ActionConverted, results[2].Action)
	assert.Error(t, err)
	assert.Equal(t, []byte("hello"), readBytes(t, bom))
}

func TestNormalizeRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeBytes(t, tmpDir, "Module1.bas", []byte("\xef\xbb\xbf' año\r\n"))

	first := NormalizeFile(context.Background(), path, Options{})
	require.Equal(t, ActionConverted, first.Action)

	second := NormalizeFile(context.Background(), path, Options{})
	assert.Equal(t, ActionSkipped, second.Action)
	assert.Equal(t, encoding.LabelUTF8, second.Label)
}
