package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fractalmind-ai/wordtok/internal/tokenizer"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	envBind        = "WORDTOK_BIND"
	envPort        = "WORDTOK_PORT"
	envExtraTokens = "WORDTOK_EXTRA_TOKENS"
)

// Config represents the main configuration
type Config struct {
	Gateway   *GatewayConfig   `yaml:"gateway"`
	Tokenizer *TokenizerConfig `yaml:"tokenizer"`
}

// GatewayConfig contains gateway settings
type GatewayConfig struct {
	Port           int      `yaml:"port"`
	Bind           string   `yaml:"bind"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// TokenizerConfig contains settings applied to every tokenizer the gateway creates
type TokenizerConfig struct {
	// ExtraTokens are registered after the seed vocabulary, in order.
	ExtraTokens []string `yaml:"extraTokens,omitempty"`
}

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Gateway: &GatewayConfig{
			Port: 18790,
			Bind: "127.0.0.1",
		},
		Tokenizer: &TokenizerConfig{},
	}
}

// Validate checks field values and reports the offending path.
func (c *Config) Validate() error {
	if c.Gateway != nil {
		if c.Gateway.Port < 0 || c.Gateway.Port > 65535 {
			return fmt.Errorf("invalid gateway.port: %d", c.Gateway.Port)
		}
		for i, origin := range c.Gateway.AllowedOrigins {
			if strings.TrimSpace(origin) == "" {
				return fmt.Errorf("invalid gateway.allowedOrigins[%d]: must be non-empty", i)
			}
		}
	}
	if c.Tokenizer != nil {
		for i, token := range c.Tokenizer.ExtraTokens {
			if token == "" {
				return fmt.Errorf("invalid tokenizer.extraTokens[%d]: must be non-empty", i)
			}
			if strings.IndexFunc(token, tokenizer.IsSpace) >= 0 {
				return fmt.Errorf("invalid tokenizer.extraTokens[%d]: %q contains whitespace", i, token)
			}
		}
	}
	return nil
}

// ApplyEnv loads envFile (if it exists) and overrides config values from
// WORDTOK_* environment variables. Variables already set in the process
// environment take precedence over the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	if bind := strings.TrimSpace(os.Getenv(envBind)); bind != "" {
		c.gateway().Bind = bind
	}
	if raw := strings.TrimSpace(os.Getenv(envPort)); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envPort, err)
		}
		c.gateway().Port = port
	}
	if raw := strings.TrimSpace(os.Getenv(envExtraTokens)); raw != "" {
		tokens := make([]string, 0)
		for _, token := range strings.Split(raw, ",") {
			if token = strings.TrimSpace(token); token != "" {
				tokens = append(tokens, token)
			}
		}
		if c.Tokenizer == nil {
			c.Tokenizer = &TokenizerConfig{}
		}
		c.Tokenizer.ExtraTokens = tokens
	}

	return c.Validate()
}

func (c *Config) gateway() *GatewayConfig {
	if c.Gateway == nil {
		c.Gateway = DefaultConfig().Gateway
	}
	return c.Gateway
}
