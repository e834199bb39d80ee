package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vbakit/vbakit/pkg/logger"
	"github.com/vbakit/vbakit/pkg/presenter"
)

// Exit codes shared by every subcommand.
const (
	exitOK     = 0
	exitStrict = 1
	exitUsage  = 2
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("VBAKIT")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.vbakit")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "vbakit",
	Short: "Toolkit for exported Access/VBA module files",
	Long: `vbakit inspects and normalizes the text encoding of Access/VBA modules
exported as .bas/.cls files, repairs common mojibake, and manages the
skill bundles this repository packages.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if err := logger.SetLogLevel(viper.GetString("log-level")); err != nil {
			presenter.Error(err, "Invalid log level")
			os.Exit(exitUsage)
		}
		logger.SetLogFormat(viper.GetString("log-format"))

		if quiet, err := cmd.Flags().GetBool("quiet"); err == nil {
			presenter.SetQuiet(quiet)
		}
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
		os.Exit(exitUsage)
	},
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress informational output")

	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(exitUsage)
	}
}
