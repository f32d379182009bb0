package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateHTTPConfig(&cfg.HTTPClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := ValidateGitHubConfig(&cfg.GitHub); err != nil {
		return fmt.Errorf("YAML global config: github directive is invalid: %w", err)
	}
	if err := ValidateInferenceConfig(&cfg.Inference); err != nil {
		return fmt.Errorf("YAML global config: inference directive is invalid: %w", err)
	}
	if err := ValidateAnalyzerConfig(&cfg.Analyzer); err != nil {
		return fmt.Errorf("YAML global config: analyzer directive is invalid: %w", err)
	}
	if err := ValidateReportConfig(&cfg.Report); err != nil {
		return fmt.Errorf("YAML global config: report directive is invalid: %w", err)
	}
	if cfg.Server.RequestsPerMinute < 0 {
		return fmt.Errorf("YAML global config: server directive is invalid: requests_per_minute cannot be negative: %d", cfg.Server.RequestsPerMinute)
	}
	return nil
}

// ValidateHTTPConfig checks if the HTTP configurations have valid values.
func ValidateHTTPConfig(httpConfig *HTTPClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if err := validateDuration(httpConfig.Timeout, "timeout", 100*time.Second); err != nil {
		return err
	}
	return validateProxy(&httpConfig.Proxy)
}

// ValidateGitHubConfig checks the repository source settings.
func ValidateGitHubConfig(gh *GitHub) error {
	if gh == nil {
		return fmt.Errorf("github configuration is nil")
	}
	if _, err := url.Parse(gh.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if gh.MaxDepth < 1 || gh.MaxDepth > 64 {
		return fmt.Errorf("max_depth must be between 1 and 64: %d", gh.MaxDepth)
	}
	if gh.MaxFiles < 1 {
		return fmt.Errorf("max_files must be positive: %d", gh.MaxFiles)
	}
	if gh.PerPage < 1 || gh.PerPage > 100 {
		return fmt.Errorf("per_page must be between 1 and 100: %d", gh.PerPage)
	}
	return nil
}

// ValidateInferenceConfig checks the language model backend settings.
func ValidateInferenceConfig(inf *Inference) error {
	if inf == nil {
		return fmt.Errorf("inference configuration is nil")
	}
	switch inf.Provider {
	case ProviderOllama:
		if _, err := url.Parse(inf.URL); err != nil {
			return fmt.Errorf("invalid url: %w", err)
		}
	case ProviderGemini:
		if inf.APIKey == "" {
			return fmt.Errorf("api_key is required for the %q provider", ProviderGemini)
		}
	default:
		return fmt.Errorf("unsupported provider %q, expected one of: %s, %s", inf.Provider, ProviderOllama, ProviderGemini)
	}
	if strings.TrimSpace(inf.Model) == "" {
		return fmt.Errorf("model must be specified")
	}
	if err := validateDuration(inf.Timeout, "timeout", 1*time.Hour); err != nil {
		return err
	}
	if inf.CacheSize != nil && *inf.CacheSize < 0 {
		return fmt.Errorf("cache_size cannot be negative: %d", *inf.CacheSize)
	}
	if inf.Temperature < 0 || inf.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2: %v", inf.Temperature)
	}
	return nil
}

// ValidateAnalyzerConfig checks the worker pool and prompt settings.
func ValidateAnalyzerConfig(a *Analyzer) error {
	if a == nil {
		return fmt.Errorf("analyzer configuration is nil")
	}
	if a.Workers < 1 || a.Workers > 64 {
		return fmt.Errorf("workers must be between 1 and 64: %d", a.Workers)
	}
	if a.MaxContentChars < 1 {
		return fmt.Errorf("max_content_chars must be positive: %d", a.MaxContentChars)
	}
	return nil
}

// ValidateReportConfig checks the report formats.
func ValidateReportConfig(r *Report) error {
	if r == nil {
		return fmt.Errorf("report configuration is nil")
	}
	for _, f := range r.Formats {
		switch f {
		case FormatJSON, FormatMarkdown, FormatSARIF:
		default:
			return fmt.Errorf("unsupported format %q, expected one of: %s, %s, %s", f, FormatJSON, FormatMarkdown, FormatSARIF)
		}
	}
	if r.S3.Bucket != "" && r.S3.Region == "" {
		return fmt.Errorf("s3.region is required when s3.bucket is set")
	}
	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy checks if the given Proxy settings are valid.
func validateProxy(proxy *Proxy) error {
	if proxy == nil {
		return fmt.Errorf("proxy configuration is nil")
	}

	// If host or port is not set, skip further validation
	if proxy.Host == "" || proxy.Port == 0 {
		return nil
	}

	if err := validateHost(&proxy.Host); err != nil {
		return err
	}

	return validatePort(proxy.Port)
}

// validateHost ensures the host includes a scheme; adds "http" if missing.
func validateHost(host *string) error {
	if host == nil {
		return fmt.Errorf("host string pointer is nil")
	}

	if !strings.Contains(*host, "://") {
		*host = "http://" + *host
	}
	*host = strings.TrimRight(*host, "/")

	if _, err := url.Parse(*host); err != nil {
		return fmt.Errorf("invalid host URL: %w", err)
	}

	return nil
}

// validatePort checks if the port part of the proxy configuration is valid.
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}
