package mojibake

import (
	"context"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/vbakit/vbakit/pkg/encoding"
	"github.com/vbakit/vbakit/pkg/logger"
)

// Action describes what happened to one file during a repair run.
type Action string

// Per-file outcomes. ActionOK means the file showed nothing to repair.
const (
	ActionOK           Action = "ok"
	ActionDryRun       Action = "dry-run"
	ActionWrite        Action = "write"
	ActionSkip         Action = "skip"
	ActionDecodeError  Action = "decode-error"
	ActionBackupExists Action = "backup-exists"
	ActionError        Action = "error"
)

// Failed reports whether a strict run should count this outcome against the
// exit status.
func (a Action) Failed() bool {
	return a == ActionSkip || a == ActionDecodeError || a == ActionBackupExists || a == ActionError
}

// Options controls a repair run.
type Options struct {
	// Apply writes repairs in place; the default is a dry run.
	Apply bool
	// Backup copies the original bytes to <path><BackupExt> before writing.
	Backup    bool
	BackupExt string
	// FixDoubleEncoded enables the UTF-8-in-CP1252 round-trip repair.
	FixDoubleEncoded bool
	// Mapping holds explicit corrupted→intended replacements, applied after
	// the round-trip repair.
	Mapping map[string]string
}

// Result is the outcome for a single file.
type Result struct {
	Path        string
	Label       encoding.Label
	Size        int64
	Action      Action
	ScoreBefore int
	ScoreAfter  int
	Err         error
}

// FixFile repairs mojibake in one file. The repaired text is written back in
// the file's own detected encoding; repair never changes a file's encoding.
func FixFile(ctx context.Context, path string, opts Options) Result {
	log := logger.G(ctx).WithField("path", path)
	result := Result{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Warn("failed to read file")
		result.Action = ActionError
		result.Err = errors.Wrap(err, "read")
		return result
	}
	result.Size = int64(len(data))
	result.Label = encoding.Classify(data)

	if !result.Label.Decodable() {
		result.Action = ActionSkip
		result.Err = errors.Errorf("cannot decode %s content", result.Label)
		return result
	}

	text, err := encoding.Decode(data, result.Label)
	if err != nil {
		result.Action = ActionDecodeError
		result.Err = err
		return result
	}

	result.ScoreBefore = Score(text)
	changed := false

	if opts.FixDoubleEncoded {
		if repaired, ok := RepairDoubleEncoded(text); ok {
			text = repaired
			changed = true
		}
	}
	if len(opts.Mapping) > 0 {
		if mapped, ok := ApplyMap(text, opts.Mapping); ok {
			text = mapped
			changed = true
		}
	}
	result.ScoreAfter = Score(text)

	if !changed {
		result.Action = ActionOK
		return result
	}
	if !opts.Apply {
		result.Action = ActionDryRun
		return result
	}

	encoded, err := encoding.Encode(text, result.Label)
	if err != nil {
		result.Action = ActionError
		result.Err = err
		return result
	}

	info, err := os.Stat(path)
	if err != nil {
		result.Action = ActionError
		result.Err = errors.Wrap(err, "stat")
		return result
	}

	if opts.Backup {
		ext := opts.BackupExt
		if ext == "" {
			ext = ".bak"
		}
		backupPath := path + ext
		if _, err := os.Stat(backupPath); err == nil {
			result.Action = ActionBackupExists
			result.Err = errors.Errorf("backup already exists: %s", backupPath)
			return result
		}
		if err := os.WriteFile(backupPath, data, info.Mode()); err != nil {
			result.Action = ActionError
			result.Err = errors.Wrap(err, "write backup")
			return result
		}
	}

	if err := os.WriteFile(path, encoded, info.Mode()); err != nil {
		log.WithError(err).Error("failed to write file")
		result.Action = ActionError
		result.Err = errors.Wrap(err, "write")
		return result
	}

	log.WithField("score_before", result.ScoreBefore).
		WithField("score_after", result.ScoreAfter).
		Info("repaired mojibake")
	result.Action = ActionWrite
	return result
}

// Fix processes every path in order, continuing past per-file failures.
func Fix(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	results := make([]Result, 0, len(paths))
	var errs *multierror.Error
	for _, path := range paths {
		result := FixFile(ctx, path, opts)
		if result.Err != nil {
			errs = multierror.Append(errs, errors.Wrap(result.Err, path))
		}
		results = append(results, result)
	}
	return results, errs.ErrorOrNil()
}
