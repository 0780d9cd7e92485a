package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ajramos/mailassist/internal/logging"
	"github.com/ajramos/mailassist/internal/privacy"
	"github.com/spf13/cobra"
)

func newFilterCmd(g *globalOptions) *cobra.Command {
	var (
		redacted   bool
		asJSON     bool
		categories []string
	)

	cmd := &cobra.Command{
		Use:   "filter [text...]",
		Short: "Check text for sensitive content",
		Long: `Runs the sensitive-content filter with the configured categories and prints
the privacy status. Text is read from standard input when no arguments are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := loadManager(g, logging.Discard())
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}

			enabled := mgr.GetConfig().PrivacyCategories()
			if len(categories) > 0 {
				enabled = privacy.NewSet()
				for _, name := range categories {
					c, err := privacy.ParseCategory(name)
					if err != nil {
						return err
					}
					enabled[c] = true
				}
			}

			verdict := privacy.Filter(text, enabled)
			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(verdict)
			case redacted:
				fmt.Fprint(out, verdict.SafeText)
				return nil
			}
			printVerdict(out, verdict)
			return nil
		},
	}

	cmd.Flags().BoolVar(&redacted, "redacted", false, "Print the redacted text instead of the status")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full verdict as JSON")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Check only these categories instead of the configured ones")
	return cmd
}

func printVerdict(out io.Writer, v privacy.Verdict) {
	switch {
	case v.Safe:
		fmt.Fprintln(out, okStyle.Render("Safe"))
		return
	case v.Blocked:
		fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("Blocked: %d items filtered", v.FilteredCount)))
	default:
		fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("Filtered: %d items", v.FilteredCount)))
	}

	counts := v.CountByCategory()
	for _, c := range privacy.AllCategories() {
		if n := counts[c]; n > 0 {
			fmt.Fprintf(out, "  %-12s %d\n", c, n)
		}
	}
}
