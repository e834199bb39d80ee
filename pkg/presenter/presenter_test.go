package presenter

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestPresenter() (*TerminalPresenter, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewWithOptions(out, errOut, ColorNever), out, errOut
}

func TestError(t *testing.T) {
	p, out, errOut := newTestPresenter()

	p.Error(errors.New("boom"), "reading file")
	assert.Empty(t, out.String())
	assert.Equal(t, "[ERROR] reading file: boom\n", errOut.String())

	errOut.Reset()
	p.Error(nil, "ignored")
	assert.Empty(t, errOut.String())
}

func TestErrorWithoutContext(t *testing.T) {
	p, _, errOut := newTestPresenter()
	p.Error(errors.New("boom"), "")
	assert.Equal(t, "[ERROR] boom\n", errOut.String())
}

func TestMessages(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Success("converted")
	p.Warning("skipping")
	p.Info("3 files scanned")
	p.Section("summary")

	assert.Contains(t, out.String(), "✓ converted")
	assert.Contains(t, out.String(), "⚠ skipping")
	assert.Contains(t, out.String(), "3 files scanned")
	assert.Contains(t, out.String(), "summary\n-------\n")
}

func TestQuietMode(t *testing.T) {
	p, out, errOut := newTestPresenter()
	p.SetQuiet(true)
	assert.True(t, p.IsQuiet())

	p.Success("converted")
	p.Warning("skipping")
	p.Info("hello")
	p.Section("summary")
	assert.Empty(t, out.String())

	// errors still surface in quiet mode
	p.Error(errors.New("boom"), "")
	assert.NotEmpty(t, errOut.String())
}

func TestDefaultPresenterSwap(t *testing.T) {
	p, out, _ := newTestPresenter()
	previous := SetDefault(p)
	defer SetDefault(previous)

	Info("via default")
	assert.Contains(t, out.String(), "via default")
}
