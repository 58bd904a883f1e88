package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etcher-be/igit/internal/adapter/rest"
)

func TestExpandEnvString(t *testing.T) {
	t.Setenv("TEST_HOST_TOKEN", "secret-token-123")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "expand ${VAR} syntax",
			input:    "${TEST_HOST_TOKEN}",
			expected: "secret-token-123",
		},
		{
			name:     "expand $VAR syntax",
			input:    "$TEST_HOST_TOKEN",
			expected: "secret-token-123",
		},
		{
			name:     "expand in middle of string",
			input:    "token:${TEST_HOST_TOKEN}:end",
			expected: "token:secret-token-123:end",
		},
		{
			name:     "leave non-existent var unchanged",
			input:    "${NONEXISTENT_VAR}",
			expected: "${NONEXISTENT_VAR}",
		},
		{
			name:     "handle empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "handle string without variables",
			input:    "plain-text",
			expected: "plain-text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvString(tt.input))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoaderOptions{ConfigPaths: []string{t.TempDir()}})
	require.NoError(t, err)

	assert.Equal(t, "30s", cfg.HTTP.Timeout)
	assert.Equal(t, 3, cfg.HTTP.MaxRetries)
	assert.Equal(t, 2.0, cfg.HTTP.BackoffMultiplier)
	assert.True(t, cfg.Logging.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "human", cfg.Logging.Format)
	assert.Equal(t, ".", cfg.Git.RepositoryDir)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
github:
  token: ${TEST_GITHUB_TOKEN}
gitlab:
  token: literal-token
  baseURL: https://gitlab.example.com/api/v4
http:
  timeout: 5s
  maxRetries: 1
logging:
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "igit.yaml"), []byte(content), 0o600))
	t.Setenv("TEST_GITHUB_TOKEN", "hub-secret")

	cfg, err := Load(LoaderOptions{ConfigPaths: []string{dir}})
	require.NoError(t, err)

	assert.Equal(t, "hub-secret", cfg.GitHub.Token)
	assert.Equal(t, "literal-token", cfg.GitLab.Token)
	assert.Equal(t, "https://gitlab.example.com/api/v4", cfg.GitLab.BaseURL)
	assert.Equal(t, "5s", cfg.HTTP.Timeout)
	assert.Equal(t, 1, cfg.HTTP.MaxRetries)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "igit.yaml"), []byte(":not yaml:["), 0o600))

	_, err := Load(LoaderOptions{ConfigPaths: []string{dir}})
	assert.Error(t, err)
}

func TestHTTPConfigConversion(t *testing.T) {
	h := HTTPConfig{
		Timeout:           "5s",
		MaxRetries:        7,
		InitialBackoff:    "100ms",
		MaxBackoff:        "1s",
		BackoffMultiplier: 3.0,
	}

	assert.Equal(t, 5*time.Second, h.TimeoutDuration())

	conf := h.RetryConfig()
	assert.Equal(t, 7, conf.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, conf.InitialBackoff)
	assert.Equal(t, time.Second, conf.MaxBackoff)
	assert.Equal(t, 3.0, conf.Multiplier)
}

func TestHTTPConfigBadValuesFallBack(t *testing.T) {
	h := HTTPConfig{Timeout: "soon", InitialBackoff: "-2s"}

	assert.Equal(t, 30*time.Second, h.TimeoutDuration())
	assert.Equal(t, rest.DefaultRetryConfig().InitialBackoff, h.RetryConfig().InitialBackoff)
}
