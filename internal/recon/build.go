package recon

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/ghrecon/internal/analyzer"
	"github.com/scan-io-git/ghrecon/internal/inference"
	"github.com/scan-io-git/ghrecon/internal/source"
	"github.com/scan-io-git/ghrecon/pkg/shared/config"
)

// NewFromConfig wires the GitHub client, the inference service and the analyzers into a Runner.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger hclog.Logger) (*Runner, error) {
	src, err := source.New(cfg, logger.Named("source"))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	svc, err := inference.New(ctx, cfg, logger.Named("inference"))
	if err != nil {
		return nil, fmt.Errorf("failed to create inference service: %w", err)
	}

	analyzerLogger := logger.Named("analyzer")
	files := analyzer.NewFileAnalyzer(src, svc, cfg, analyzerLogger)
	repos := analyzer.NewRepositoryAnalyzer(files, cfg, analyzerLogger)

	return NewRunner(src, repos, logger), nil
}
