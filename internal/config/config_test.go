package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err, "a missing config file is not an error")

	assert.NotEmpty(t, cfg.DataRoot)
	assert.Equal(t, DefaultModel, cfg.Anthropic.Model)
	assert.Equal(t, 120, cfg.Anthropic.TimeoutSeconds)
	assert.Equal(t, 3, cfg.Anthropic.RetryCount)
	assert.Equal(t, "https://gitlab.com", cfg.GitLab.URL)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIURL)
	assert.Equal(t, 500, cfg.GitLab.MaxIssues)
	assert.Equal(t, 300, cfg.Git.MaxCommits)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("DEVBOT_MODEL", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `data_root: /tmp/devbot-data
anthropic:
  api_key: file-key
  model: claude-test
  max_tokens: 512
gitlab:
  url: https://gitlab.example.com
  max_issues: 50
git:
  max_commits: 42
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/devbot-data", cfg.DataRoot)
	assert.Equal(t, "file-key", cfg.Anthropic.APIKey)
	assert.Equal(t, "claude-test", cfg.Anthropic.Model)
	assert.Equal(t, 512, cfg.Anthropic.MaxTokens)
	assert.Equal(t, "https://gitlab.example.com", cfg.GitLab.URL)
	assert.Equal(t, 50, cfg.GitLab.MaxIssues)
	assert.Equal(t, 42, cfg.Git.MaxCommits)
	assert.Equal(t, 30, cfg.GitLab.TimeoutSeconds, "unset fields still get defaults")
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("anthropic: [not a map"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	t.Setenv("DEVBOT_MODEL", "claude-env")
	t.Setenv("GITLAB_PRIVATE_TOKEN", "glpat-x")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Anthropic.APIKey)
	assert.Equal(t, "claude-env", cfg.Anthropic.Model)
	assert.Equal(t, "glpat-x", cfg.GitLab.Token)

	t.Run("file key beats env key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("anthropic:\n  api_key: file-key\n"), 0644))
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "file-key", cfg.Anthropic.APIKey)
	})
}

func TestRequireAnthropicKey(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	err := cfg.RequireAnthropicKey()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")

	cfg.Anthropic.APIKey = "k"
	require.NoError(t, cfg.RequireAnthropicKey())
}
