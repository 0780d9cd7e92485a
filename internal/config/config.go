package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ajramos/mailassist/internal/privacy"
)

// Environment variables consulted by the loader
const (
	EnvConfigPath = "MAILASSIST_CONFIG"
	EnvOpenAIKey  = "OPENAI_API_KEY"
)

const (
	DefaultModel    = "gpt-4.1-mini"
	DefaultProvider = "openai"
	DefaultTimeout  = 60 * time.Second
)

// Default prompts
const (
	DefaultSystemPrompt    = "You are a helpful AI assistant for email and text processing."
	DefaultComposePrompt   = " The user is composing an email. Provide concise, professional assistance."
	DefaultMailboxPrompt   = " The user is working with email threads. Help them understand and respond to conversations."
	DefaultSummarizePrompt = "Please summarize this text concisely, highlighting the key points:"
	DefaultTranslatePrompt = "Please translate this text to English (or if it's already in English, ask me which language to translate to):"
	DefaultImprovePrompt   = "Please improve this text for clarity, tone, and professionalism:"
	DefaultReplyPrompt     = "Help me draft a professional email reply to this:"
)

// Config is the persisted key-value configuration. JSON field names are the keys
// accepted by Get and Set.
type Config struct {
	OpenAIAPIKey string `json:"openai-api-key"`
	AIModel      string `json:"ai-model"`
	AIProvider   string `json:"ai-provider"`
	AIEndpoint   string `json:"ai-endpoint"`
	AIRegion     string `json:"ai-region"`
	AITimeout    string `json:"ai-timeout"`

	FilterAPIKeys     bool `json:"filter-api-keys"`
	FilterCredentials bool `json:"filter-credentials"`
	FilterFinancial   bool `json:"filter-financial"`
	FilterEmails      bool `json:"filter-emails"`
	FilterPhones      bool `json:"filter-phones"`

	// Prompt values starting with '@' name a template file relative to the config directory
	PromptSystem    string `json:"prompt-system"`
	PromptCompose   string `json:"prompt-compose"`
	PromptMailbox   string `json:"prompt-mailbox"`
	PromptSummarize string `json:"prompt-summarize"`
	PromptTranslate string `json:"prompt-translate"`
	PromptImprove   string `json:"prompt-improve"`
	PromptReply     string `json:"prompt-reply"`

	HistoryEnabled bool   `json:"history-enabled"`
	HistoryPath    string `json:"history-path"`
	HelperPath     string `json:"helper-path"`
	LogFile        string `json:"log-file"`
	MarkdownStyle  string `json:"markdown-style"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		AIModel:           DefaultModel,
		AIProvider:        DefaultProvider,
		AITimeout:         DefaultTimeout.String(),
		FilterAPIKeys:     true,
		FilterCredentials: true,
		FilterFinancial:   true,
		HistoryEnabled:    true,
		MarkdownStyle:     "auto",
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if configPath == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	return cfg, nil
}

// ConfigDir is the directory holding config, logs and history
func ConfigDir() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return filepath.Dir(ExpandPath(p))
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mailassist")
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.json")
}

// DefaultLogPath returns the default log file path
func DefaultLogPath() string {
	return filepath.Join(ConfigDir(), "mailassist.log")
}

// DefaultHistoryPath returns the default request history database path
func DefaultHistoryPath() string {
	return filepath.Join(ConfigDir(), "history.db")
}

// ExpandPath expands a leading ~ to the home directory
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

// SaveConfig saves the configuration to a file. The file holds an API key, so it is
// written owner-readable only.
func (c *Config) SaveConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// GetAITimeout returns the parsed provider timeout
func (c *Config) GetAITimeout() time.Duration {
	if c.AITimeout != "" {
		if d, err := time.ParseDuration(c.AITimeout); err == nil && d > 0 {
			return d
		}
	}
	return DefaultTimeout
}

// GetLogPath returns the log file, honouring log-file
func (c *Config) GetLogPath() string {
	if c.LogFile != "" {
		return ExpandPath(c.LogFile)
	}
	return DefaultLogPath()
}

// GetHistoryPath returns the history database, honouring history-path
func (c *Config) GetHistoryPath() string {
	if c.HistoryPath != "" {
		return ExpandPath(c.HistoryPath)
	}
	return DefaultHistoryPath()
}

// PrivacyCategories returns the enabled filter categories
func (c *Config) PrivacyCategories() privacy.Set {
	var off []privacy.Category
	for cat, on := range map[privacy.Category]bool{
		privacy.APIKeys:     c.FilterAPIKeys,
		privacy.Credentials: c.FilterCredentials,
		privacy.Financial:   c.FilterFinancial,
		privacy.Emails:      c.FilterEmails,
		privacy.Phones:      c.FilterPhones,
	} {
		if !on {
			off = append(off, cat)
		}
	}
	return privacy.AllEnabled().Without(off...)
}

// Keys lists every configuration key in sorted order
func Keys() []string {
	t := reflect.TypeOf(Config{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		keys = append(keys, t.Field(i).Tag.Get("json"))
	}
	sort.Strings(keys)
	return keys
}

// IsSecret reports whether a key's value must not be printed
func IsSecret(key string) bool {
	return strings.HasSuffix(key, "-api-key")
}

// Get returns the string form of a key's value
func (c *Config) Get(key string) (string, error) {
	f, err := c.field(key)
	if err != nil {
		return "", err
	}
	if f.Kind() == reflect.Bool {
		return strconv.FormatBool(f.Bool()), nil
	}
	return f.String(), nil
}

// Set parses value into the field for key
func (c *Config) Set(key, value string) error {
	f, err := c.field(key)
	if err != nil {
		return err
	}
	switch f.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s expects true or false, got %q", key, value)
		}
		f.SetBool(b)
	default:
		if key == "ai-timeout" && value != "" {
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("%s expects a duration like 60s: %w", key, err)
			}
		}
		f.SetString(value)
	}
	return nil
}

func (c *Config) field(key string) (reflect.Value, error) {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("json") == key {
			return v.Field(i), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("unknown config key %q", key)
}
