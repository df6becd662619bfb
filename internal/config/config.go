package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// DefaultModel is used when neither config nor environment override it
const DefaultModel = "claude-haiku-4-5-20251001"

// Config represents the application configuration
type Config struct {
	DataRoot  string          `yaml:"data_root"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	GitLab    GitLabConfig    `yaml:"gitlab"`
	GitHub    GitHubConfig    `yaml:"github"`
	Git       GitConfig       `yaml:"git"`
}

// AnthropicConfig represents Anthropic API configuration
type AnthropicConfig struct {
	APIKey            string `yaml:"api_key"`
	Model             string `yaml:"model"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	MaxTokens         int    `yaml:"max_tokens"`
	RetryCount        int    `yaml:"retry_count"`
	RetryDelaySeconds int    `yaml:"retry_delay_seconds"`
}

// GitLabConfig holds the instance-wide GitLab defaults; projects may carry
// their own ID/URL/token which take precedence
type GitLabConfig struct {
	URL            string `yaml:"url"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxIssues      int    `yaml:"max_issues"`
}

// GitHubConfig holds the instance-wide GitHub defaults
type GitHubConfig struct {
	APIURL         string `yaml:"api_url"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxIssues      int    `yaml:"max_issues"`
}

// GitConfig represents git history reading configuration
type GitConfig struct {
	MaxCommits int `yaml:"max_commits"`
}

// LoadConfig loads configuration from a YAML file. A missing file is not an
// error: defaults plus environment variables are enough to run.
func LoadConfig(configPath string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config.applyDefaults()
	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// DefaultConfigPath returns ~/.devbot/config.yaml
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".devbot", "config.yaml")
}

func (c *Config) applyDefaults() {
	if c.DataRoot == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DataRoot = filepath.Join(home, ".devbot", "data")
		} else {
			c.DataRoot = "data"
		}
	}
	if c.Anthropic.Model == "" {
		c.Anthropic.Model = DefaultModel
	}
	if c.Anthropic.TimeoutSeconds <= 0 {
		c.Anthropic.TimeoutSeconds = 120
	}
	if c.Anthropic.MaxTokens <= 0 {
		c.Anthropic.MaxTokens = 2048
	}
	if c.Anthropic.RetryCount <= 0 {
		c.Anthropic.RetryCount = 3
	}
	if c.Anthropic.RetryDelaySeconds <= 0 {
		c.Anthropic.RetryDelaySeconds = 5
	}
	if c.GitLab.URL == "" {
		c.GitLab.URL = "https://gitlab.com"
	}
	if c.GitLab.TimeoutSeconds <= 0 {
		c.GitLab.TimeoutSeconds = 30
	}
	if c.GitLab.MaxIssues <= 0 {
		c.GitLab.MaxIssues = 500
	}
	if c.GitHub.APIURL == "" {
		c.GitHub.APIURL = "https://api.github.com"
	}
	if c.GitHub.TimeoutSeconds <= 0 {
		c.GitHub.TimeoutSeconds = 30
	}
	if c.GitHub.MaxIssues <= 0 {
		c.GitHub.MaxIssues = 500
	}
	if c.Git.MaxCommits <= 0 {
		c.Git.MaxCommits = 300
	}
}

// applyEnv lets environment variables fill in credentials that are usually
// kept out of the config file
func (c *Config) applyEnv() {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && c.Anthropic.APIKey == "" {
		c.Anthropic.APIKey = v
	}
	if v := os.Getenv("DEVBOT_MODEL"); v != "" {
		c.Anthropic.Model = v
	}
	if v := os.Getenv("GITLAB_PRIVATE_TOKEN"); v != "" && c.GitLab.Token == "" {
		c.GitLab.Token = v
	}
	if v := os.Getenv("GITLAB_URL"); v != "" && c.GitLab.URL == "https://gitlab.com" {
		c.GitLab.URL = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" && c.GitHub.Token == "" {
		c.GitHub.Token = v
	}
	if v := os.Getenv("GITHUB_API_URL"); v != "" && c.GitHub.APIURL == "https://api.github.com" {
		c.GitHub.APIURL = v
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DataRoot == "" {
		return fmt.Errorf("data_root is required")
	}
	if c.Anthropic.Model == "" {
		return fmt.Errorf("anthropic model is required")
	}
	return nil
}

// RequireAnthropicKey fails with a remediation hint when no API key is
// configured; called by commands that actually invoke the LLM
func (c *Config) RequireAnthropicKey() error {
	if c.Anthropic.APIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is not set (export it or add anthropic.api_key to %s)", DefaultConfigPath())
	}
	return nil
}
