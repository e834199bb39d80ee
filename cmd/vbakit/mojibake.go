package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vbakit/vbakit/pkg/mojibake"
	"github.com/vbakit/vbakit/pkg/presenter"
)

// MojibakeConfig holds the mojibake-specific flags on top of the shared
// scan flags.
type MojibakeConfig struct {
	Apply           bool
	Backup          bool
	BackupExt       string
	NoFixUTF8       bool
	MapPath         string
	FixMap          bool
	SpanishDefaults bool
}

// NewMojibakeConfig returns a MojibakeConfig with default values
func NewMojibakeConfig() *MojibakeConfig {
	return &MojibakeConfig{
		BackupExt: ".bak",
	}
}

var mojibakeCmd = &cobra.Command{
	Use:   "mojibake [files...]",
	Short: "Detect and repair common mojibake in module files",
	Long: `Repair text that was decoded with the wrong encoding somewhere in the
export pipeline, most commonly UTF-8 bytes read as Windows-1252 ("aÃ±o"
instead of "año"). Repairs are accepted only when they reduce the number
of suspicious character sequences, and each file is written back in its
own detected encoding.

The default is a dry run; pass --apply to write repairs in place.

Examples:
  vbakit mojibake --root src/modules
  vbakit mojibake --root src/modules --apply --backup
  vbakit mojibake Legacy.bas --spanish-defaults --apply
  vbakit mojibake Legacy.bas --map fixes.json --fix-map --apply`,
	Run: func(cmd *cobra.Command, args []string) {
		scanConfig := getScanConfigFromFlags(cmd)
		config := getMojibakeConfigFromFlags(cmd)
		files := resolveInputs(args, scanConfig)

		mapping := make(map[string]string)
		applyMap := false
		if config.SpanishDefaults {
			for from, to := range mojibake.SpanishDefaults {
				mapping[from] = to
			}
			applyMap = true
		}
		if config.MapPath != "" {
			loaded, err := mojibake.LoadMap(config.MapPath)
			if err != nil {
				presenter.Error(err, "Failed to load replacement map")
				os.Exit(exitUsage)
			}
			for from, to := range loaded {
				mapping[from] = to
			}
		}
		if config.FixMap {
			applyMap = true
		}
		if !applyMap {
			mapping = nil
		}

		results, _ := mojibake.Fix(cmd.Context(), files, mojibake.Options{
			Apply:            config.Apply,
			Backup:           config.Backup,
			BackupExt:        config.BackupExt,
			FixDoubleEncoded: !config.NoFixUTF8,
			Mapping:          mapping,
		})

		failed := false
		actionCounts := make(map[string]int)
		labelCounts := make(map[string]int)

		fmt.Println("file\tbytes\tclass\taction\tmojibake_before\tmojibake_after")
		for _, result := range results {
			actionCounts[string(result.Action)]++
			if result.Label != "" {
				labelCounts[string(result.Label)]++
			}
			if result.Action.Failed() {
				failed = true
			}
			fmt.Printf("%s\t%d\t%s\t%s\t%d\t%d\n",
				result.Path, result.Size, result.Label, result.Action,
				result.ScoreBefore, result.ScoreAfter)
		}

		fmt.Println("\nsummary:")
		for _, label := range sortedKeys(labelCounts) {
			fmt.Printf("class_%s\t%d\n", label, labelCounts[label])
		}
		for _, action := range sortedKeys(actionCounts) {
			fmt.Printf("action_%s\t%d\n", action, actionCounts[action])
		}

		if scanConfig.Strict && failed {
			os.Exit(exitStrict)
		}
	},
}

func getMojibakeConfigFromFlags(cmd *cobra.Command) *MojibakeConfig {
	config := NewMojibakeConfig()
	if apply, err := cmd.Flags().GetBool("apply"); err == nil {
		config.Apply = apply
	}
	if backup, err := cmd.Flags().GetBool("backup"); err == nil {
		config.Backup = backup
	}
	if backupExt, err := cmd.Flags().GetString("backup-ext"); err == nil && backupExt != "" {
		config.BackupExt = backupExt
	}
	if noFixUTF8, err := cmd.Flags().GetBool("no-fix-utf8"); err == nil {
		config.NoFixUTF8 = noFixUTF8
	}
	if mapPath, err := cmd.Flags().GetString("map"); err == nil {
		config.MapPath = mapPath
	}
	if fixMap, err := cmd.Flags().GetBool("fix-map"); err == nil {
		config.FixMap = fixMap
	}
	if spanish, err := cmd.Flags().GetBool("spanish-defaults"); err == nil {
		config.SpanishDefaults = spanish
	}
	return config
}

func init() {
	defaults := NewMojibakeConfig()
	addScanFlags(mojibakeCmd)
	mojibakeCmd.Flags().Bool("apply", defaults.Apply, "Write repairs in place (default is dry-run)")
	mojibakeCmd.Flags().Bool("backup", defaults.Backup, "Copy each file to <path><backup-ext> before overwriting")
	mojibakeCmd.Flags().String("backup-ext", defaults.BackupExt, "Backup file suffix")
	mojibakeCmd.Flags().Bool("no-fix-utf8", defaults.NoFixUTF8, "Disable the UTF-8-in-CP1252 round-trip repair")
	mojibakeCmd.Flags().String("map", defaults.MapPath, "JSON file with explicit replacements (applied with --fix-map)")
	mojibakeCmd.Flags().Bool("fix-map", defaults.FixMap, "Apply replacements from --map")
	mojibakeCmd.Flags().Bool("spanish-defaults", defaults.SpanishDefaults, "Apply built-in replacements for common Spanish mojibake")
	rootCmd.AddCommand(mojibakeCmd)
}
