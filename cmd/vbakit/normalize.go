package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/cobra"

	"github.com/vbakit/vbakit/pkg/normalizer"
)

// NormalizeConfig holds the normalize-specific flags on top of the shared
// scan flags.
type NormalizeConfig struct {
	DryRun    bool
	Diff      bool
	Backup    bool
	BackupExt string
}

// NewNormalizeConfig returns a NormalizeConfig with default values
func NewNormalizeConfig() *NormalizeConfig {
	return &NormalizeConfig{
		BackupExt: normalizer.DefaultBackupExt,
	}
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize [files...]",
	Short: "Rewrite module files as UTF-8 without a BOM",
	Long: `Convert each module file to UTF-8 without a byte-order mark, decoding it
with whatever source encoding was detected. Files already in that form are
left byte-identical; binary or undecodable files are reported as failed and
left untouched.

Examples:
  vbakit normalize --root src/modules --dry-run --diff
  vbakit normalize --root src/modules --backup
  vbakit normalize Legacy.bas --backup --backup-ext .orig --strict`,
	Run: func(cmd *cobra.Command, args []string) {
		scanConfig := getScanConfigFromFlags(cmd)
		config := getNormalizeConfigFromFlags(cmd)
		files := resolveInputs(args, scanConfig)

		results, _ := normalizer.Normalize(cmd.Context(), files, normalizer.Options{
			DryRun:    config.DryRun,
			Backup:    config.Backup,
			BackupExt: config.BackupExt,
		})

		// Strict mode fails on risky findings, not just hard failures: a file
		// that needed converting means the tree was not clean.
		risky := false
		actionCounts := make(map[normalizer.Action]int)
		labelCounts := make(map[string]int)

		fmt.Println("file\tbytes\tclass\taction")
		for _, result := range results {
			actionCounts[result.Action]++
			if result.Label != "" {
				labelCounts[string(result.Label)]++
				if result.Label.Risky() {
					risky = true
				}
			}
			if result.Action == normalizer.ActionFailed {
				risky = true
				fmt.Printf("%s\t%d\t%s\t%s (%v)\n", result.Path, result.Size, result.Label, result.Action, result.Err)
				continue
			}
			fmt.Printf("%s\t%d\t%s\t%s\n", result.Path, result.Size, result.Label, result.Action)

			if config.Diff && result.Action == normalizer.ActionDryRun {
				fmt.Print(udiff.Unified(result.Path, result.Path, result.OldRaw, result.NewText))
			}
		}

		fmt.Println("\nsummary:")
		for _, label := range sortedKeys(labelCounts) {
			fmt.Printf("class_%s\t%d\n", label, labelCounts[label])
		}
		actions := make([]string, 0, len(actionCounts))
		for action := range actionCounts {
			actions = append(actions, string(action))
		}
		sort.Strings(actions)
		for _, action := range actions {
			fmt.Printf("action_%s\t%d\n", action, actionCounts[normalizer.Action(action)])
		}

		if scanConfig.Strict && risky {
			os.Exit(exitStrict)
		}
	},
}

func getNormalizeConfigFromFlags(cmd *cobra.Command) *NormalizeConfig {
	config := NewNormalizeConfig()
	if dryRun, err := cmd.Flags().GetBool("dry-run"); err == nil {
		config.DryRun = dryRun
	}
	if diff, err := cmd.Flags().GetBool("diff"); err == nil {
		config.Diff = diff
	}
	if backup, err := cmd.Flags().GetBool("backup"); err == nil {
		config.Backup = backup
	}
	if backupExt, err := cmd.Flags().GetString("backup-ext"); err == nil && backupExt != "" {
		config.BackupExt = backupExt
	}
	return config
}

func sortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	defaults := NewNormalizeConfig()
	addScanFlags(normalizeCmd)
	normalizeCmd.Flags().Bool("dry-run", defaults.DryRun, "Report intended actions without writing files")
	normalizeCmd.Flags().Bool("diff", defaults.Diff, "With --dry-run, print a unified diff of pending changes")
	normalizeCmd.Flags().Bool("backup", defaults.Backup, "Copy each file to <path><backup-ext> before overwriting")
	normalizeCmd.Flags().String("backup-ext", defaults.BackupExt, "Backup file suffix")
	rootCmd.AddCommand(normalizeCmd)
}
