package main

import (
	"fmt"

	"github.com/ajramos/mailassist/internal/config"
	"github.com/ajramos/mailassist/internal/logging"
	"github.com/spf13/cobra"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and change settings",
	}

	get := &cobra.Command{
		Use:       "get <key>",
		Short:     "Print one setting",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := loadManager(g, logging.Discard())
			if err != nil {
				return err
			}
			v, err := mgr.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}

	set := &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one setting and save the file",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := loadManager(g, logging.Discard())
			if err != nil {
				return err
			}
			if err := mgr.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), okStyle.Render(fmt.Sprintf("Saved %s to %s", args[0], mgr.Path())))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print every setting (secrets masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := loadManager(g, logging.Discard())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, key := range config.Keys() {
				v, err := mgr.Get(key)
				if err != nil {
					return err
				}
				if config.IsSecret(key) {
					v = maskSecret(v)
				}
				fmt.Fprintf(out, "%-20s %s\n", key, v)
			}
			return nil
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), getConfigPath(g.configPath))
		},
	}

	cmd.AddCommand(get, set, list, path)
	return cmd
}

// maskSecret keeps the prefix and the last four characters
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "********"
	}
	return s[:3] + "..." + s[len(s)-4:]
}
