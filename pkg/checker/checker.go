// Package checker classifies the byte encoding of each file in a set and
// accumulates the findings a strict check cares about: risky encodings,
// mixed text encodings across the set, and read failures.
package checker

import (
	"context"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/vbakit/vbakit/pkg/encoding"
	"github.com/vbakit/vbakit/pkg/logger"
)

// FileRecord captures one file's classification. Records live only for the
// duration of a run; nothing is persisted.
type FileRecord struct {
	Path  string
	Label encoding.Label
	Size  int64
	Guess string // advisory chardet hint, set only for binary-or-unknown content
	Err   error
}

// Report aggregates the per-file records of a single run.
type Report struct {
	Records     []FileRecord
	LabelCounts map[encoding.Label]int

	// MixedText is true when both utf8 and ansi-cp1252 plain-text files were
	// seen, which is how a mojibake-prone tree usually looks. Informational;
	// ansi-cp1252 files are risky on their own.
	MixedText bool
	// Problem is true when any risky label or unreadable file was seen.
	Problem bool

	errs *multierror.Error
}

// Risky reports whether the run found anything a strict check should fail on.
func (r *Report) Risky() bool {
	return r.Problem
}

// Err returns the accumulated per-file read errors, nil when every file was
// readable.
func (r *Report) Err() error {
	return r.errs.ErrorOrNil()
}

// Check reads and classifies every path. A file that cannot be read is
// recorded as an error line rather than aborting the batch.
func Check(ctx context.Context, paths []string) *Report {
	log := logger.G(ctx)
	report := &Report{
		LabelCounts: make(map[encoding.Label]int),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("failed to read file")
			report.Records = append(report.Records, FileRecord{Path: path, Err: err})
			report.errs = multierror.Append(report.errs, errors.Wrapf(err, "read %s", path))
			report.Problem = true
			continue
		}

		record := FileRecord{
			Path:  path,
			Label: encoding.Classify(data),
			Size:  int64(len(data)),
		}
		if record.Label == encoding.LabelUnknown {
			record.Guess = encoding.Guess(data)
		}
		log.WithField("path", path).WithField("label", record.Label).Debug("classified file")

		report.Records = append(report.Records, record)
		report.LabelCounts[record.Label]++
	}

	report.MixedText = report.LabelCounts[encoding.LabelUTF8] > 0 &&
		report.LabelCounts[encoding.LabelANSI] > 0
	for label, count := range report.LabelCounts {
		if count > 0 && label.Risky() {
			report.Problem = true
		}
	}
	return report
}
