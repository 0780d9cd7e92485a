package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ajramos/mailassist/internal/capability"
	"github.com/ajramos/mailassist/internal/llm"
	"github.com/ajramos/mailassist/internal/mailctx"
	"github.com/spf13/cobra"
)

type checkLevel int

const (
	checkOK checkLevel = iota
	checkWarn
	checkFail
)

type check struct {
	name   string
	level  checkLevel
	detail string
}

func newDoctorCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check permissions, helper and API configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, g, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			printChecks(cmd.OutOrStdout(), a.diagnose(ctx))
			return nil
		},
	}
}

func (a *app) diagnose(ctx context.Context) []check {
	cfg := a.config.GetConfig()
	var checks []check

	if _, err := os.Stat(a.config.Path()); err == nil {
		checks = append(checks, check{"Configuration", checkOK, a.config.Path()})
	} else {
		checks = append(checks, check{"Configuration", checkWarn, "no file yet, run `mailassist setup`"})
	}

	switch cfg.AIProvider {
	case "ollama":
		o := llm.NewOllama(cfg.AIEndpoint, cfg.AIModel, cfg.GetAITimeout())
		if o.IsAvailable(ctx) {
			checks = append(checks, check{"Ollama", checkOK, o.Endpoint})
		} else {
			checks = append(checks, check{"Ollama", checkFail, "not reachable at " + o.Endpoint})
		}
	case "bedrock":
		checks = append(checks, check{"Bedrock", checkOK, "credentials from the AWS default chain, model " + cfg.AIModel})
	default:
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
			checks = append(checks, check{"OpenAI API key", checkFail, "not configured"})
		} else {
			checks = append(checks, check{"OpenAI API key", checkOK, maskSecret(cfg.OpenAIAPIKey) + ", model " + cfg.AIModel})
		}
	}

	if a.runner.Available() {
		checks = append(checks, check{"osascript", checkOK, a.runner.Binary})
	} else {
		checks = append(checks, check{"osascript", checkFail, "not found, Mail context and selection are unavailable"})
	}

	st := a.caps.Status(ctx)
	checks = append(checks,
		check{"Capabilities", levelFor(st.Ready(), checkWarn), fmt.Sprintf("%s provider", a.caps.Name())},
		check{"Accessibility", levelFor(st.Accessibility, checkWarn), grantDetail(st.Accessibility)},
		check{"Text selection", levelFor(st.TextSelection, checkWarn), grantDetail(st.TextSelection)},
		check{"Context menu", levelFor(st.ContextMenu, checkWarn), contextMenuDetail(a.caps)},
	)

	mc := a.resolver.Resolve(ctx)
	switch mc.Kind {
	case mailctx.KindError:
		checks = append(checks, check{"Mail automation", checkWarn, mc.Reason})
	case mailctx.KindNone:
		checks = append(checks, check{"Mail automation", checkOK, "Mail is not the active application"})
	default:
		checks = append(checks, check{"Mail automation", checkOK, mc.Label()})
	}

	if capability.Unsupported() {
		checks = append(checks, check{"Clipboard", checkFail, "no clipboard utility available"})
	} else {
		checks = append(checks, check{"Clipboard", checkOK, "available"})
	}

	switch {
	case !cfg.HistoryEnabled:
		checks = append(checks, check{"History", checkOK, "disabled"})
	case a.history.Enabled():
		n, _ := a.history.Count(ctx)
		checks = append(checks, check{"History", checkOK, fmt.Sprintf("%d entries in %s", n, cfg.GetHistoryPath())})
	default:
		checks = append(checks, check{"History", checkWarn, "could not open " + cfg.GetHistoryPath()})
	}

	checks = append(checks, check{"Privacy filter", checkOK, cfg.PrivacyCategories().String()})
	return checks
}

func levelFor(ok bool, otherwise checkLevel) checkLevel {
	if ok {
		return checkOK
	}
	return otherwise
}

func grantDetail(granted bool) string {
	if granted {
		return "granted"
	}
	return "not granted (System Settings > Privacy & Security)"
}

func contextMenuDetail(p capability.Provider) string {
	if _, ok := p.(*capability.Helper); ok {
		return "provided by the native helper"
	}
	return "needs the native helper (helper-path)"
}

func printChecks(out io.Writer, checks []check) {
	width := 0
	for _, c := range checks {
		width = max(width, len(c.name))
	}
	for _, c := range checks {
		var mark string
		switch c.level {
		case checkOK:
			mark = okStyle.Render("✓")
		case checkWarn:
			mark = warnStyle.Render("!")
		default:
			mark = errorStyle.Render("✗")
		}
		fmt.Fprintf(out, "%s %-*s  %s\n", mark, width, c.name, dimStyle.Render(c.detail))
	}
}
