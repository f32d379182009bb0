package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config is the global ghrecon configuration.
type Config struct {
	Logger     Logger     `yaml:"logger"`
	HTTPClient HTTPClient `yaml:"http_client"`
	GitHub     GitHub     `yaml:"github"`
	Inference  Inference  `yaml:"inference"`
	Analyzer   Analyzer   `yaml:"analyzer"`
	Report     Report     `yaml:"report"`
	Server     Server     `yaml:"server"`
}

type Logger struct {
	Level string `yaml:"level"`
}

type HTTPClient struct {
	Debug           *bool           `yaml:"debug"`
	Timeout         time.Duration   `yaml:"timeout"`
	TLSClientConfig TLSClientConfig `yaml:"tls_client_config"`
	Proxy           Proxy           `yaml:"proxy"`
}

type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GitHub holds settings of the repository source.
type GitHub struct {
	BaseURL  string `yaml:"base_url"`
	Token    string `yaml:"token"`
	MaxDepth int    `yaml:"max_depth"`
	MaxFiles int    `yaml:"max_files"`
	PerPage  int    `yaml:"per_page"`
}

// Inference holds settings of the language model backend.
type Inference struct {
	Provider    string        `yaml:"provider"`
	URL         string        `yaml:"url"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	Timeout     time.Duration `yaml:"timeout"`
	CacheSize   *int          `yaml:"cache_size"`
	Temperature float64       `yaml:"temperature"`
}

type Analyzer struct {
	Workers         int `yaml:"workers"`
	MaxContentChars int `yaml:"max_content_chars"`
}

type Report struct {
	OutputDir string   `yaml:"output_dir"`
	Formats   []string `yaml:"formats"`
	S3        S3       `yaml:"s3"`
}

type S3 struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
	Prefix string `yaml:"prefix"`
}

type Server struct {
	Address           string `yaml:"address"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

// ValidateConfigPath checks that the path points to a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return fmt.Errorf("failed to decode %q: %w", configPath, err)
	}

	return nil
}

// LoadConfig reads the configuration file and applies environment overrides and defaults.
// When required is false a missing file is not an error and defaults are used.
func LoadConfig(configPath string, required bool) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(configPath); err == nil || required {
		if err := LoadYAML(configPath, cfg); err != nil {
			return nil, err
		}
	}

	UpdateConfigFromEnv(cfg)
	ApplyDefaults(cfg)
	return cfg, nil
}

// UpdateConfigFromEnv sets configuration values from environment variables, if they are set.
func UpdateConfigFromEnv(cfg *Config) {
	envVars := []struct {
		name string
		val  *string
	}{
		{"GITHUB_TOKEN", &cfg.GitHub.Token},
		{"GHRECON_GITHUB_TOKEN", &cfg.GitHub.Token},
		{"GHRECON_LOG_LEVEL", &cfg.Logger.Level},
		{"GHRECON_OLLAMA_URL", &cfg.Inference.URL},
		{"GHRECON_MODEL", &cfg.Inference.Model},
		{"GEMINI_API_KEY", &cfg.Inference.APIKey},
		{"GHRECON_OUTPUT_DIR", &cfg.Report.OutputDir},
	}

	// later entries win, so GHRECON_GITHUB_TOKEN beats GITHUB_TOKEN
	for _, env := range envVars {
		if v := os.Getenv(env.name); v != "" {
			*env.val = v
		}
	}
}
