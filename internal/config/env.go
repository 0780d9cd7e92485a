package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file from the config directory, then from the working
// directory. Variables already set in the environment win.
func LoadEnv() {
	if dir := ConfigDir(); dir != "" {
		_ = godotenv.Load(filepath.Join(dir, ".env"))
	}
	_ = godotenv.Load(".env")
}

// ApplyEnv overrides file values with environment variables
func (c *Config) ApplyEnv() {
	if key := os.Getenv(EnvOpenAIKey); key != "" {
		c.OpenAIAPIKey = key
	}
}
