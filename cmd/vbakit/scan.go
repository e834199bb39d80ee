package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vbakit/vbakit/pkg/presenter"
	"github.com/vbakit/vbakit/pkg/scanner"
)

// ScanConfig holds the input-selection flags shared by check, normalize,
// and mojibake.
type ScanConfig struct {
	Root       string
	Extensions []string
	Strict     bool
}

// NewScanConfig returns a ScanConfig with default values
func NewScanConfig() *ScanConfig {
	return &ScanConfig{
		Root:       ".",
		Extensions: scanner.DefaultExtensions,
	}
}

func addScanFlags(cmd *cobra.Command) {
	defaults := NewScanConfig()
	cmd.Flags().String("root", defaults.Root, "Root directory to scan when no files are given")
	cmd.Flags().StringSlice("extensions", defaults.Extensions, "Extensions to match when scanning (case-insensitive)")
	cmd.Flags().Bool("strict", defaults.Strict, "Exit non-zero when risky or failed files are found")
}

func getScanConfigFromFlags(cmd *cobra.Command) *ScanConfig {
	config := NewScanConfig()
	if root, err := cmd.Flags().GetString("root"); err == nil {
		config.Root = root
	}
	// Flag wins over the config file, which wins over the built-in default.
	if cmd.Flags().Changed("extensions") {
		if extensions, err := cmd.Flags().GetStringSlice("extensions"); err == nil {
			config.Extensions = extensions
		}
	} else if viper.IsSet("extensions") {
		config.Extensions = viper.GetStringSlice("extensions")
	}
	if strict, err := cmd.Flags().GetBool("strict"); err == nil {
		config.Strict = strict
	}
	return config
}

// resolveInputs turns positional args plus scan flags into the file list, or
// exits with a usage error when nothing resolves.
func resolveInputs(args []string, config *ScanConfig) []string {
	files, err := scanner.Resolve(args, config.Root, config.Extensions)
	if err != nil {
		presenter.Error(err, "Failed to resolve input files")
		os.Exit(exitUsage)
	}
	if len(files) == 0 {
		presenter.Warning("No files found")
		os.Exit(exitUsage)
	}
	return files
}
