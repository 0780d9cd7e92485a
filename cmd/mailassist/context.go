package main

import (
	"encoding/json"
	"fmt"

	"github.com/ajramos/mailassist/internal/mailctx"
	"github.com/ajramos/mailassist/internal/render"
	"github.com/ajramos/mailassist/internal/services"
	"github.com/spf13/cobra"
)

const previewWidth = 60

func newContextCmd(g *globalOptions) *cobra.Command {
	var (
		all    bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "context",
		Short: "Show what Mail is currently showing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, g, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			a.contexts.SetThreadMode(all)
			snap := a.contexts.Describe(ctx)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			printContext(cmd, snap)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every selected message")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the context as JSON")
	return cmd
}

func printContext(cmd *cobra.Command, snap services.ContextSnapshot) {
	out := cmd.OutOrStdout()
	mc := snap.Context

	switch mc.Kind {
	case mailctx.KindNone:
		if mc.Reason == mailctx.ReasonNotActive {
			fmt.Fprintln(out, dimStyle.Render("No mail context: Mail is not the active application."))
		} else {
			fmt.Fprintln(out, dimStyle.Render("No mail context: "+mc.Reason))
		}
		return
	case mailctx.KindError:
		fmt.Fprintln(out, warnStyle.Render("No mail context: "+mc.Reason))
		return
	}

	fmt.Fprintln(out, titleStyle.Render(snap.Label))
	switch mc.Kind {
	case mailctx.KindCompose, mailctx.KindViewer:
		if mc.Sender != "" {
			fmt.Fprintf(out, "From:    %s\n", mc.Sender)
		}
		fmt.Fprintf(out, "Subject: %s\n", mc.Subject)
		fmt.Fprintf(out, "Content: %s\n", preview(mc.Content))
	case mailctx.KindMailbox:
		for i, m := range mc.Messages {
			fmt.Fprintf(out, "%2d. %s  %s\n", i+1,
				render.FitWidth(m.Sender, 28), render.TruncateWidth(m.Subject, previewWidth))
		}
	}

	reply := warnStyle.Render("unavailable")
	if snap.ReplyEnabled {
		reply = okStyle.Render("available")
	}
	fmt.Fprintf(out, "Reply:   %s\n", reply)
}

func preview(s string) string {
	s = render.PlainText(s)
	if s == "" {
		return dimStyle.Render("(empty)")
	}
	first := s
	for i, r := range s {
		if r == '\n' {
			first = s[:i] + " ..."
			break
		}
	}
	return render.TruncateWidth(first, previewWidth)
}
