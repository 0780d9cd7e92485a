package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ajramos/mailassist/internal/config"
	"github.com/ajramos/mailassist/internal/logging"
	"github.com/spf13/cobra"
)

var errInvalidAPIKey = errors.New("OpenAI API keys start with \"sk-\"")

func newSetupCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Run interactive setup wizard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := loadManager(g, logging.Discard())
			if err != nil {
				return err
			}
			return runSetupWizard(cmd.InOrStdin(), cmd.OutOrStdout(), mgr)
		},
	}
}

// validateAPIKey accepts OpenAI secret keys only
func validateAPIKey(key string) error {
	if !strings.HasPrefix(strings.TrimSpace(key), "sk-") {
		return errInvalidAPIKey
	}
	return nil
}

// runSetupWizard asks for the API key, model and privacy categories and saves them
func runSetupWizard(in io.Reader, out io.Writer, mgr *config.Manager) error {
	r := bufio.NewReader(in)
	cfg := mgr.GetConfig()
	path := mgr.Path()

	fmt.Fprintln(out, titleStyle.Render("mailassist setup"))
	fmt.Fprintln(out)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "Configuration file: %s\n", path)
	} else {
		fmt.Fprintf(out, "Will create configuration file: %s\n", path)
	}
	fmt.Fprintln(out)

	for {
		current := "not set"
		if cfg.OpenAIAPIKey != "" {
			current = maskSecret(cfg.OpenAIAPIKey)
		}
		key, err := ask(r, out, fmt.Sprintf("OpenAI API key [%s]: ", current))
		if err != nil {
			return err
		}
		if key == "" {
			break
		}
		if err := validateAPIKey(key); err != nil {
			fmt.Fprintln(out, errorStyle.Render(err.Error()))
			continue
		}
		cfg.OpenAIAPIKey = key
		break
	}

	model, err := ask(r, out, fmt.Sprintf("Model [%s]: ", cfg.AIModel))
	if err != nil {
		return err
	}
	if model != "" {
		cfg.AIModel = model
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Privacy filter: matching text is replaced before it leaves this machine.")
	toggles := []struct {
		label string
		value *bool
	}{
		{"Filter API keys and tokens", &cfg.FilterAPIKeys},
		{"Filter passwords and logins", &cfg.FilterCredentials},
		{"Filter card, SSN and routing numbers", &cfg.FilterFinancial},
		{"Filter email addresses", &cfg.FilterEmails},
		{"Filter phone numbers", &cfg.FilterPhones},
	}
	for _, t := range toggles {
		on, err := askBool(r, out, t.label, *t.value)
		if err != nil {
			return err
		}
		*t.value = on
	}

	if err := mgr.UpdateConfig(cfg); err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, okStyle.Render("Saved "+path))
	if cfg.OpenAIAPIKey == "" && (cfg.AIProvider == "" || cfg.AIProvider == "openai") {
		fmt.Fprintln(out, warnStyle.Render("No API key configured; requests will fail until one is added."))
	}
	fmt.Fprintln(out, "Run `mailassist doctor` to check permissions.")
	return nil
}

// ask prints prompt and returns the trimmed answer; EOF counts as an empty answer
func ask(r *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func askBool(r *bufio.Reader, out io.Writer, label string, current bool) (bool, error) {
	hint := "[y/N]"
	if current {
		hint = "[Y/n]"
	}
	answer, err := ask(r, out, fmt.Sprintf("%s %s: ", label, hint))
	if err != nil {
		return current, err
	}
	switch strings.ToLower(answer) {
	case "":
		return current, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
