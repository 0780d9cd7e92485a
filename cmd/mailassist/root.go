package main

import (
	"os"

	"github.com/ajramos/mailassist/internal/config"
	"github.com/ajramos/mailassist/internal/version"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags
type globalOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "mailassist",
		Short: "Privacy-filtered AI assistant for Mail and selected text",
		Long: `mailassist captures the text you are working on (Mail compose or viewer
window, the current selection or the clipboard), removes sensitive content and
asks a language model to help with it.

Requests containing more than a few sensitive items are never sent.`,
		Version:       version.GetVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"Path to JSON configuration file (default: ~/.config/mailassist/config.json)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Log debug output to stderr as well as the log file")

	root.AddCommand(
		newAskCmd(opts),
		newActionCmd(opts),
		newContextCmd(opts),
		newFilterCmd(opts),
		newConfigCmd(opts),
		newDoctorCmd(opts),
		newSetupCmd(opts),
		newHistoryCmd(opts),
		newDaemonCmd(opts),
		newVersionCmd(),
	)
	return root
}

// getConfigPath returns the configuration file path using the following priority:
// 1. CLI flag
// 2. Environment variable MAILASSIST_CONFIG
// 3. Default path ~/.config/mailassist/config.json
func getConfigPath(flagValue string) string {
	if flagValue != "" {
		return config.ExpandPath(flagValue)
	}
	if envPath := os.Getenv(config.EnvConfigPath); envPath != "" {
		return config.ExpandPath(envPath)
	}
	return config.DefaultConfigPath()
}
