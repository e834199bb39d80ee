package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vbakit/vbakit/pkg/checker"
	"github.com/vbakit/vbakit/pkg/encoding"
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Report the text encoding of module files",
	Long: `Classify each exported module file as ascii-only, utf8, utf8-bom,
ansi-cp1252, utf16-le, utf16-be, or binary-or-unknown.

Without explicit file arguments, --root is scanned recursively for the
configured extensions. With --strict, any finding other than plain ASCII
or BOM-less UTF-8 fails the command.

Examples:
  vbakit check --root src/modules
  vbakit check Module1.bas Form_Main.cls
  vbakit check --root . --extensions .bas,.cls --strict`,
	Run: func(cmd *cobra.Command, args []string) {
		config := getScanConfigFromFlags(cmd)
		files := resolveInputs(args, config)

		report := checker.Check(cmd.Context(), files)

		fmt.Println("file\tbytes\tclass")
		for _, record := range report.Records {
			if record.Err != nil {
				fmt.Printf("%s\t-\terror: %v\n", record.Path, record.Err)
				continue
			}
			fmt.Printf("%s\t%d\t%s", record.Path, record.Size, record.Label)
			if record.Guess != "" {
				fmt.Printf("\t(detector guess: %s)", record.Guess)
			}
			fmt.Println()
		}

		fmt.Println("\nsummary:")
		labels := make([]string, 0, len(report.LabelCounts))
		for label := range report.LabelCounts {
			labels = append(labels, string(label))
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Printf("%s\t%d\n", label, report.LabelCounts[encoding.Label(label)])
		}
		fmt.Printf("mixed_text_encodings\t%t\n", report.MixedText)
		fmt.Printf("problem_encodings\t%t\n", report.Problem)

		if config.Strict && report.Risky() {
			os.Exit(exitStrict)
		}
	},
}

func init() {
	addScanFlags(checkCmd)
	rootCmd.AddCommand(checkCmd)
}
