package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GHRECON_GITHUB_TOKEN", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yml"), false)
	require.NoError(t, err)

	assert.Equal(t, DefaultGitHubBaseURL, cfg.GitHub.BaseURL)
	assert.Equal(t, ProviderOllama, cfg.Inference.Provider)
	assert.Equal(t, DefaultOllamaModel, cfg.Inference.Model)
	assert.Equal(t, 5, cfg.Analyzer.Workers)
	assert.Equal(t, 5000, cfg.Analyzer.MaxContentChars)
	assert.Equal(t, []string{FormatJSON, FormatMarkdown}, cfg.Report.Formats)
	assert.Equal(t, 256, CacheSize(cfg))
	assert.Empty(t, cfg.GitHub.Token)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigRequiredFileMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"), true)
	assert.Error(t, err)
}

func TestLoadConfigFromYAML(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GHRECON_GITHUB_TOKEN", "")

	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
logger:
  level: debug
github:
  max_depth: 3
inference:
  model: llama3
  timeout: 30s
  cache_size: 0
analyzer:
  workers: 2
report:
  formats: [json, sarif]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 3, cfg.GitHub.MaxDepth)
	assert.Equal(t, "llama3", cfg.Inference.Model)
	assert.Equal(t, 30*time.Second, cfg.Inference.Timeout)
	assert.Equal(t, 0, CacheSize(cfg))
	assert.Equal(t, 2, cfg.Analyzer.Workers)
	assert.True(t, HasFormat(cfg, FormatSARIF))
	assert.False(t, HasFormat(cfg, FormatMarkdown))
}

func TestUpdateConfigFromEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "generic")
	t.Setenv("GHRECON_GITHUB_TOKEN", "specific")
	t.Setenv("GHRECON_MODEL", "codellama")

	cfg := &Config{}
	UpdateConfigFromEnv(cfg)

	assert.Equal(t, "specific", cfg.GitHub.Token)
	assert.Equal(t, "codellama", cfg.Inference.Model)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		ApplyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "unknown provider",
			mutate:  func(cfg *Config) { cfg.Inference.Provider = "openai" },
			wantErr: `YAML global config: inference directive is invalid: unsupported provider "openai", expected one of: ollama, gemini`,
		},
		{
			name:    "gemini without api key",
			mutate:  func(cfg *Config) { cfg.Inference.Provider = ProviderGemini },
			wantErr: `YAML global config: inference directive is invalid: api_key is required for the "gemini" provider`,
		},
		{
			name:    "too many workers",
			mutate:  func(cfg *Config) { cfg.Analyzer.Workers = 100 },
			wantErr: "YAML global config: analyzer directive is invalid: workers must be between 1 and 64: 100",
		},
		{
			name:    "unbounded depth",
			mutate:  func(cfg *Config) { cfg.GitHub.MaxDepth = 1000 },
			wantErr: "YAML global config: github directive is invalid: max_depth must be between 1 and 64: 1000",
		},
		{
			name:    "unknown format",
			mutate:  func(cfg *Config) { cfg.Report.Formats = []string{"pdf"} },
			wantErr: `YAML global config: report directive is invalid: unsupported format "pdf", expected one of: json, md, sarif`,
		},
		{
			name:    "bucket without region",
			mutate:  func(cfg *Config) { cfg.Report.S3.Bucket = "reports" },
			wantErr: "YAML global config: report directive is invalid: s3.region is required when s3.bucket is set",
		},
		{
			name: "proxy port out of range",
			mutate: func(cfg *Config) {
				cfg.HTTPClient.Proxy = Proxy{Host: "proxy.local", Port: 70000}
			},
			wantErr: "YAML global config: http_client directive is invalid: port must be between 1 and 65535, got 70000",
		},
		{
			name:    "negative timeout",
			mutate:  func(cfg *Config) { cfg.Inference.Timeout = -time.Second },
			wantErr: `YAML global config: inference directive is invalid: invalid duration for "timeout": -1s cannot be negative`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}
