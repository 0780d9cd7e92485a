package main

import (
	"fmt"
	"strings"

	"github.com/ajramos/mailassist/internal/db"
	"github.com/ajramos/mailassist/internal/render"
	"github.com/spf13/cobra"
)

func newHistoryCmd(g *globalOptions) *cobra.Command {
	var (
		limit    int
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent requests (redacted text only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, g, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if !a.history.Enabled() {
				fmt.Fprintln(out, dimStyle.Render("History is disabled (history-enabled=false)."))
				return nil
			}
			if clearAll {
				if err := a.history.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, okStyle.Render("History cleared."))
				return nil
			}

			entries, err := a.history.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, dimStyle.Render("No requests yet."))
				return nil
			}
			for _, e := range entries {
				printHistoryEntry(cmd, e)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete every entry")
	return cmd
}

func printHistoryEntry(cmd *cobra.Command, e db.HistoryEntry) {
	out := cmd.OutOrStdout()
	header := fmt.Sprintf("%s  %-9s  %-7s  %-9s", e.CreatedAt.Format("2006-01-02 15:04"), e.Action, e.ContextKind, e.Source)
	if e.FilteredCount > 0 {
		header += warnStyle.Render(fmt.Sprintf("  %d filtered", e.FilteredCount))
	}
	fmt.Fprintln(out, titleStyle.Render(header))
	fmt.Fprintf(out, "  Prompt: %s\n", render.TruncateWidth(oneLine(e.Prompt), previewWidth))
	if e.Error != "" {
		fmt.Fprintf(out, "  %s\n", errorStyle.Render("Error: "+e.Error))
		return
	}
	fmt.Fprintf(out, "  Result: %s\n", render.TruncateWidth(oneLine(e.Response), previewWidth))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
