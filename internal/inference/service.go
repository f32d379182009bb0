package inference

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/ghrecon/pkg/shared/config"
)

// Service turns a prompt into a free-text completion.
type Service interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Name identifies the backend and model, e.g. "ollama:mistral".
	Name() string
}

// New builds the configured backend, wrapped in a completion cache when cache_size > 0.
func New(ctx context.Context, cfg *config.Config, logger hclog.Logger) (Service, error) {
	var svc Service
	switch cfg.Inference.Provider {
	case config.ProviderOllama, "":
		svc = NewOllama(cfg, logger)
	case config.ProviderGemini:
		gemini, err := NewGemini(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		svc = gemini
	default:
		return nil, fmt.Errorf("unsupported inference provider %q", cfg.Inference.Provider)
	}

	logger.Debug("inference service initialized", "service", svc.Name(), "cache_size", config.CacheSize(cfg))
	return NewCached(svc, config.CacheSize(cfg))
}
