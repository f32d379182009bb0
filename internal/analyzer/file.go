package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/ghrecon/internal/inference"
	"github.com/scan-io-git/ghrecon/internal/source"
	"github.com/scan-io-git/ghrecon/pkg/shared/config"
)

var errEmptyCompletion = errors.New("empty completion")

// ContentRetriever returns the text of a repository file, or false when it is unavailable.
type ContentRetriever interface {
	FetchContent(ctx context.Context, owner, repo, path string) (string, bool)
}

// FileAnalyzer sends one file to the inference service.
type FileAnalyzer struct {
	retriever ContentRetriever
	service   inference.Service
	logger    hclog.Logger
	maxChars  int
	timeout   time.Duration
}

func NewFileAnalyzer(retriever ContentRetriever, service inference.Service, cfg *config.Config, logger hclog.Logger) *FileAnalyzer {
	return &FileAnalyzer{
		retriever: retriever,
		service:   service,
		logger:    logger,
		maxChars:  cfg.Analyzer.MaxContentChars,
		timeout:   cfg.Inference.Timeout,
	}
}

// Analyze returns the raw completion for file. It returns false when the content is
// unavailable, the call fails or times out, or the completion is empty.
func (a *FileAnalyzer) Analyze(ctx context.Context, owner, repo string, file source.FileDescriptor) (string, bool) {
	content, ok := a.retriever.FetchContent(ctx, owner, repo, file.Path)
	if !ok {
		a.logger.Debug("file content unavailable, skipping", "repository", repo, "path", file.Path)
		return "", false
	}

	prompt, truncated := BuildPrompt(file.Name, repo, content, a.maxChars)
	if truncated {
		a.logger.Debug("file content truncated, issues past the limit are not analysed",
			"repository", repo, "path", file.Path, "limit", a.maxChars)
	}

	a.logger.Debug("analysing file", "repository", repo, "path", file.Path, "service", a.service.Name())
	completion, err := a.generate(ctx, prompt)
	if err != nil {
		a.logger.Warn("inference failed, skipping file", "repository", repo, "path", file.Path, "error", err)
		return "", false
	}
	return completion, true
}

type generateResult struct {
	completion string
	err        error
}

// generate bounds the call with the configured timeout even when the service ignores its context.
func (a *FileAnalyzer) generate(ctx context.Context, prompt string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	done := make(chan generateResult, 1)
	go func() {
		completion, err := a.service.Generate(ctx, prompt)
		done <- generateResult{completion: completion, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("inference call aborted: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		if strings.TrimSpace(res.completion) == "" {
			return "", errEmptyCompletion
		}
		return res.completion, nil
	}
}
