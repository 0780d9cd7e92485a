package main

import (
	"fmt"
	"strings"

	"github.com/ajramos/mailassist/internal/services"
	"github.com/spf13/cobra"
)

func newActionCmd(g *globalOptions) *cobra.Command {
	var (
		ro     resultOptions
		prompt string
		dryRun bool
	)

	names := make([]string, 0, len(services.Actions()))
	for _, a := range services.Actions() {
		names = append(names, string(a))
	}

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("action <%s>", strings.Join(names, "|")),
		Short: "Run a quick action on the current text",
		Long: `Runs one of the predefined prompts. In Mail, summarize names the sender of the
message being read and reply works on the selected message or thread. Use --prompt
to replace the predefined prompt while keeping the captured text.`,
		Example: `  mailassist action summarize
  mailassist action reply --thread --copy
  mailassist action improve --prompt "Shorten this to two sentences"`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := services.ParseAction(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, g, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			ro.configure(a.view)
			a.contexts.SetThreadMode(ro.thread)

			var result string
			switch {
			case dryRun:
				p, err := a.quick.Prepare(ctx, action)
				if err != nil {
					a.view.ShowError(services.UserMessage(err))
					return shown(err)
				}
				a.text.ClearStage()
				return printPrepared(cmd, p)
			case strings.TrimSpace(prompt) != "":
				if _, err := a.quick.Prepare(ctx, action); err != nil {
					a.view.ShowError(services.UserMessage(err))
					return shown(err)
				}
				result, err = a.assistant.Submit(ctx, prompt)
			default:
				result, err = a.quick.Run(ctx, action)
			}
			if err != nil {
				return shown(err)
			}
			return a.deliver(ctx, result, ro.copy, ro.apply, cmd.ErrOrStderr())
		},
	}

	ro.bind(cmd)
	cmd.Flags().StringVar(&prompt, "prompt", "", "Prompt to use instead of the predefined one")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the prompt and captured text without calling the model")
	return cmd
}

func printPrepared(cmd *cobra.Command, p services.PreparedAction) error {
	out := cmd.OutOrStdout()
	if label := p.Context.Label(); label != "" {
		fmt.Fprintln(out, dimStyle.Render(label))
	}
	fmt.Fprintf(out, "%s %s\n", titleStyle.Render("Prompt:"), p.Prompt)
	fmt.Fprintf(out, "%s %d characters (%s)\n", titleStyle.Render("Text:"), len(p.Text), p.Source)
	return nil
}
