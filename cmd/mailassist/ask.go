package main

import (
	"strings"

	"github.com/spf13/cobra"
)

// resultOptions control what happens with a model response
type resultOptions struct {
	copy     bool
	apply    bool
	markdown bool
	thread   bool
	wrap     int
}

func (o *resultOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.copy, "copy", false, "Copy the result to the clipboard")
	cmd.Flags().BoolVar(&o.apply, "apply", false, "Type the result into the active application")
	cmd.Flags().BoolVar(&o.markdown, "markdown", false, "Render the result as Markdown")
	cmd.Flags().BoolVar(&o.thread, "thread", false, "Use every selected message in Mail instead of the first one")
	cmd.Flags().IntVar(&o.wrap, "wrap", 0, "Wrap the printed result at this many columns (0 disables)")
}

func (o *resultOptions) configure(v *cliView) {
	v.markdown = o.markdown
	v.wrap = o.wrap
	if o.wrap > 0 {
		v.width = o.wrap
	}
}

func newAskCmd(g *globalOptions) *cobra.Command {
	var (
		ro   resultOptions
		text string
	)

	cmd := &cobra.Command{
		Use:   "ask <prompt...>",
		Short: "Ask the assistant about the current text",
		Long: `Runs a prompt against the text you are working on. The text is taken from
the Mail compose or viewer window, then the current selection, then the clipboard.
Use --text to supply the text directly.`,
		Example: `  mailassist ask "Make this more polite"
  mailassist ask --thread --markdown "What are the open questions?"
  mailassist ask --text "Hola, ¿qué tal?" "Translate to English"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, g, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			ro.configure(a.view)
			a.contexts.SetThreadMode(ro.thread)

			prompt := strings.Join(args, " ")
			var result string
			if cmd.Flags().Changed("text") {
				result, err = a.assistant.RunWithText(ctx, prompt, text)
			} else {
				result, err = a.assistant.Submit(ctx, prompt)
			}
			if err != nil {
				return shown(err)
			}
			return a.deliver(ctx, result, ro.copy, ro.apply, cmd.ErrOrStderr())
		},
	}

	ro.bind(cmd)
	cmd.Flags().StringVar(&text, "text", "", "Text to process instead of acquiring it")
	return cmd
}
