package config

import (
	"os"
	"path/filepath"
	"strings"
)

// LoadTemplate loads a template with proper priority: file first, then inline, then fallback
func LoadTemplate(templatePath, inlinePrompt, fallbackPrompt string) string {
	if strings.TrimSpace(templatePath) != "" {
		fullPath := ExpandPath(templatePath)
		if !filepath.IsAbs(fullPath) {
			fullPath = filepath.Join(ConfigDir(), fullPath)
		}
		if content, err := os.ReadFile(fullPath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	if strings.TrimSpace(inlinePrompt) != "" {
		return inlinePrompt
	}
	return fallbackPrompt
}

// resolvePrompt splits a prompt value into its template path ("@file") or inline text
func resolvePrompt(value, fallback string) string {
	if strings.HasPrefix(value, "@") {
		return LoadTemplate(value[1:], "", fallback)
	}
	return LoadTemplate("", value, fallback)
}

// GetSystemPrompt returns the base system prompt
func (c *Config) GetSystemPrompt() string {
	return resolvePrompt(c.PromptSystem, DefaultSystemPrompt)
}

// GetComposePrompt returns the system prompt addition for compose windows
func (c *Config) GetComposePrompt() string {
	return resolvePrompt(c.PromptCompose, DefaultComposePrompt)
}

// GetMailboxPrompt returns the system prompt addition for mailbox threads
func (c *Config) GetMailboxPrompt() string {
	return resolvePrompt(c.PromptMailbox, DefaultMailboxPrompt)
}

// GetActionPrompt returns the prompt of a quick action, or "" for an unknown action
func (c *Config) GetActionPrompt(action string) string {
	switch action {
	case "summarize":
		return resolvePrompt(c.PromptSummarize, DefaultSummarizePrompt)
	case "translate":
		return resolvePrompt(c.PromptTranslate, DefaultTranslatePrompt)
	case "improve":
		return resolvePrompt(c.PromptImprove, DefaultImprovePrompt)
	case "reply":
		return resolvePrompt(c.PromptReply, DefaultReplyPrompt)
	default:
		return ""
	}
}
