package config

import (
	"crypto/tls"
	"time"
)

const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"

	FormatJSON     = "json"
	FormatMarkdown = "md"
	FormatSARIF    = "sarif"

	DefaultGitHubBaseURL   = "https://api.github.com/"
	DefaultOllamaURL       = "http://localhost:11434"
	DefaultOllamaModel     = "mistral"
	DefaultGeminiModel     = "gemini-2.0-flash"
	DefaultMaxContentChars = 5000
)

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	Timeout         time.Duration
	TLSClientConfig *tls.Config
	Proxy           string
}

// RestyHttpClientConfig holds additional configuration settings for the resty http client.
type RestyHttpClientConfig struct {
	BaseHTTPConfig
	Debug bool
}

// DefaultHttpConfig returns the general base configuration applicable to all HTTP clients.
func DefaultHttpConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		Timeout: 30 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		Proxy: "",
	}
}

// DefaultRestyConfig returns a specific http config to Resty.
func DefaultRestyConfig() RestyHttpClientConfig {
	return RestyHttpClientConfig{
		BaseHTTPConfig: DefaultHttpConfig(),
		Debug:          false,
	}
}

// ApplyDefaults fills every unset field with its default value.
func ApplyDefaults(cfg *Config) {
	cfg.GitHub.BaseURL = SetThen(cfg.GitHub.BaseURL, DefaultGitHubBaseURL)
	cfg.GitHub.MaxDepth = SetThen(cfg.GitHub.MaxDepth, 10)
	cfg.GitHub.MaxFiles = SetThen(cfg.GitHub.MaxFiles, 1000)
	cfg.GitHub.PerPage = SetThen(cfg.GitHub.PerPage, 100)

	cfg.Inference.Provider = SetThen(cfg.Inference.Provider, ProviderOllama)
	cfg.Inference.URL = SetThen(cfg.Inference.URL, DefaultOllamaURL)
	if cfg.Inference.Provider == ProviderGemini {
		cfg.Inference.Model = SetThen(cfg.Inference.Model, DefaultGeminiModel)
	}
	cfg.Inference.Model = SetThen(cfg.Inference.Model, DefaultOllamaModel)
	cfg.Inference.Timeout = SetThen(cfg.Inference.Timeout, 120*time.Second)
	if cfg.Inference.CacheSize == nil {
		size := 256
		cfg.Inference.CacheSize = &size
	}

	cfg.Analyzer.Workers = SetThen(cfg.Analyzer.Workers, 5)
	cfg.Analyzer.MaxContentChars = SetThen(cfg.Analyzer.MaxContentChars, DefaultMaxContentChars)

	cfg.Report.OutputDir = SetThen(cfg.Report.OutputDir, ".")
	if len(cfg.Report.Formats) == 0 {
		cfg.Report.Formats = []string{FormatJSON, FormatMarkdown}
	}

	cfg.Server.Address = SetThen(cfg.Server.Address, ":8000")
	cfg.Server.RequestsPerMinute = SetThen(cfg.Server.RequestsPerMinute, 30)
}

// HasFormat reports whether the report format is enabled.
func HasFormat(cfg *Config, format string) bool {
	if cfg == nil {
		return false
	}
	for _, f := range cfg.Report.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// CacheSize returns the configured completion cache size, 0 when caching is off.
func CacheSize(cfg *Config) int {
	if cfg == nil || cfg.Inference.CacheSize == nil {
		return 0
	}
	return *cfg.Inference.CacheSize
}
