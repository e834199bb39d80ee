// Package normalizer rewrites module files as UTF-8 without a byte-order
// mark, decoding each file with whatever source encoding the classifier
// detected. Files already in the target form are left byte-identical.
package normalizer

import (
	"bytes"
	"context"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/vbakit/vbakit/pkg/encoding"
	"github.com/vbakit/vbakit/pkg/logger"
)

// Action describes what happened to one file.
type Action string

// Per-file outcomes.
const (
	ActionSkipped   Action = "skipped-already-utf8"
	ActionConverted Action = "converted"
	ActionFailed    Action = "failed"
	ActionDryRun    Action = "dry-run-would-convert"
)

// DefaultBackupExt is the suffix appended to a file's name for its backup copy.
const DefaultBackupExt = ".bak"

// Options controls how files are rewritten.
type Options struct {
	// DryRun reports what would change without writing anything, backups included.
	DryRun bool
	// Backup copies the original bytes to <path><BackupExt> before overwriting.
	Backup bool
	// BackupExt defaults to DefaultBackupExt when empty.
	BackupExt string
}

// Result is the outcome for a single file.
type Result struct {
	Path       string
	Label      encoding.Label
	Size       int64
	Action     Action
	BackupPath string
	// OldRaw and NewText carry the before/after content for files that would
	// convert, so callers can render a byte-level diff on dry runs. OldRaw is
	// the original bytes as-is; the interesting lines are exactly the ones
	// whose byte representation changes.
	OldRaw  string
	NewText string
	Err     error
}

// NormalizeFile classifies, decodes, and rewrites a single file as UTF-8
// without a BOM. The original file is never touched on failure, and the
// backup copy is fully written before the original is overwritten.
func NormalizeFile(ctx context.Context, path string, opts Options) Result {
	log := logger.G(ctx).WithField("path", path)
	result := Result{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Warn("failed to read file")
		result.Action = ActionFailed
		result.Err = errors.Wrap(err, "read")
		return result
	}
	result.Size = int64(len(data))
	result.Label = encoding.Classify(data)

	if result.Label == encoding.LabelUTF8 {
		result.Action = ActionSkipped
		return result
	}
	if !result.Label.Decodable() {
		result.Action = ActionFailed
		result.Err = errors.Errorf("cannot decode %s content", result.Label)
		return result
	}

	text, err := encoding.Decode(data, result.Label)
	if err != nil {
		log.WithError(err).Warn("failed to decode file")
		result.Action = ActionFailed
		result.Err = err
		return result
	}

	converted := []byte(text)
	if bytes.Equal(converted, data) {
		// ascii-only files re-encode to themselves; nothing to write.
		result.Action = ActionSkipped
		return result
	}

	result.OldRaw = string(data)
	result.NewText = text
	if opts.DryRun {
		result.Action = ActionDryRun
		return result
	}

	info, err := os.Stat(path)
	if err != nil {
		result.Action = ActionFailed
		result.Err = errors.Wrap(err, "stat")
		return result
	}

	if opts.Backup {
		ext := opts.BackupExt
		if ext == "" {
			ext = DefaultBackupExt
		}
		backupPath := path + ext
		if _, err := os.Stat(backupPath); err == nil {
			result.Action = ActionFailed
			result.Err = errors.Errorf("backup already exists: %s", backupPath)
			return result
		}
		if err := os.WriteFile(backupPath, data, info.Mode()); err != nil {
			result.Action = ActionFailed
			result.Err = errors.Wrap(err, "write backup")
			return result
		}
		result.BackupPath = backupPath
	}

	if err := os.WriteFile(path, converted, info.Mode()); err != nil {
		log.WithError(err).Error("failed to write file")
		result.Action = ActionFailed
		result.Err = errors.Wrap(err, "write")
		return result
	}

	log.WithField("label", result.Label).Info("converted to utf-8")
	result.Action = ActionConverted
	return result
}

// Normalize processes every path in order. A failure on one file never stops
// the batch; the aggregated error collects everything that went wrong.
func Normalize(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	results := make([]Result, 0, len(paths))
	var errs *multierror.Error
	for _, path := range paths {
		result := NormalizeFile(ctx, path, opts)
		if result.Err != nil {
			errs = multierror.Append(errs, errors.Wrap(result.Err, path))
		}
		results = append(results, result)
	}
	return results, errs.ErrorOrNil()
}
