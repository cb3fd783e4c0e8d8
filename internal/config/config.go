package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Session struct {
		Path string `yaml:"path"`
	} `yaml:"session"`
	AI struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"ai"`
	Training struct {
		Type     string `yaml:"type"`
		Audience string `yaml:"audience"`
		Industry string `yaml:"industry"`
		Goals    string `yaml:"goals"`
	} `yaml:"training"`
}

// LoadConfig reads the YAML config, then applies .env and environment variable
// overrides. A missing config file yields defaults, not an error, so the CLI
// works out of the box.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	var cfg Config
	cfg.Session.Path = "pathcraft.db"

	// 2. Load YAML config when present
	if file, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with environment variables if present
	if apiKey := os.Getenv("PATHCRAFT_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if provider := os.Getenv("PATHCRAFT_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}

	return &cfg, nil
}
