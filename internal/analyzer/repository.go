package analyzer

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/ghrecon/internal/findings"
	"github.com/scan-io-git/ghrecon/internal/source"
	"github.com/scan-io-git/ghrecon/pkg/shared"
	"github.com/scan-io-git/ghrecon/pkg/shared/config"
)

// FileAnalysis keeps the raw completion of one file next to how it was parsed.
type FileAnalysis struct {
	Repository string          `json:"repository"`
	File       string          `json:"file"`
	Path       string          `json:"path"`
	Status     findings.Status `json:"status"`
	Completion string          `json:"completion,omitempty"`
}

// RepositoryResult is the analysis of one repository.
type RepositoryResult struct {
	Repository string              `json:"repository"`
	Findings   findings.FindingSet `json:"-"`
	Files      []FileAnalysis      `json:"files"`
}

// RepositoryAnalyzer fans the qualifying files of a repository out to a bounded pool of FileAnalyzer calls.
type RepositoryAnalyzer struct {
	files   *FileAnalyzer
	workers int
	logger  hclog.Logger
}

func NewRepositoryAnalyzer(files *FileAnalyzer, cfg *config.Config, logger hclog.Logger) *RepositoryAnalyzer {
	return &RepositoryAnalyzer{
		files:   files,
		workers: cfg.Analyzer.Workers,
		logger:  logger,
	}
}

type fileOutcome struct {
	file       source.FileDescriptor
	completion string
	ok         bool
}

// Analyze returns the merged findings of repo. Findings of different files are merged
// in the order the calls complete.
func (r *RepositoryAnalyzer) Analyze(ctx context.Context, repo source.RepositoryRef) RepositoryResult {
	result := RepositoryResult{
		Repository: repo.Name,
		Findings:   findings.NewFindingSet(),
		Files:      []FileAnalysis{},
	}

	var qualifying []source.FileDescriptor
	for _, f := range repo.Files {
		if IsQualifying(f.Name) {
			qualifying = append(qualifying, f)
		}
	}
	if len(qualifying) == 0 {
		r.logger.Debug("no qualifying files in repository", "repository", repo.Name, "files", len(repo.Files))
		return result
	}

	r.logger.Info("analysing repository", "repository", repo.Name, "files", len(qualifying), "workers", r.workers)
	outcomes := make(chan fileOutcome, len(qualifying))
	shared.ForEveryWithBoundedGoroutines(r.workers, qualifying, func(_ int, file source.FileDescriptor) {
		completion, ok := r.files.Analyze(ctx, repo.OwnerLogin, repo.Name, file)
		outcomes <- fileOutcome{file: file, completion: completion, ok: ok}
	})
	close(outcomes)

	for o := range outcomes {
		fa := FileAnalysis{
			Repository: repo.Name,
			File:       o.file.Name,
			Path:       o.file.Path,
			Status:     findings.StatusSkipped,
		}
		if o.ok {
			extraction := findings.ExtractFile(o.completion, findings.Source{
				Repository: repo.Name,
				File:       o.file.Name,
				Path:       o.file.Path,
			})
			fa.Status = extraction.Status()
			fa.Completion = o.completion
			result.Findings.Merge(extraction.Findings)
		}
		result.Files = append(result.Files, fa)
	}

	r.logger.Info("repository analysed", "repository", repo.Name,
		"high", result.Findings.Count(findings.SeverityHigh),
		"medium", result.Findings.Count(findings.SeverityMedium),
		"low", result.Findings.Count(findings.SeverityLow))
	return result
}
