package recon

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/ghrecon/internal/analyzer"
	"github.com/scan-io-git/ghrecon/internal/findings"
	"github.com/scan-io-git/ghrecon/internal/source"
)

// Source lists what is analysed.
type Source interface {
	ListRepositories(ctx context.Context, username string) []source.RepositoryRef
	ListFiles(ctx context.Context, owner, repo, path string) []source.FileDescriptor
	GetProfile(ctx context.Context, username string) *source.Profile
}

// RepositoryAnalyzer produces the findings of one repository.
type RepositoryAnalyzer interface {
	Analyze(ctx context.Context, repo source.RepositoryRef) analyzer.RepositoryResult
}

// Result is the outcome of one reconnaissance run.
type Result struct {
	RunID        string
	Username     string
	Profile      *source.Profile
	Repositories []source.RepositoryRef
	Findings     findings.FindingSet
	Files        []analyzer.FileAnalysis
	StartedAt    time.Time
	FinishedAt   time.Time
}

// RepositoryNames returns the names of the analysed repositories in listing order.
func (r *Result) RepositoryNames() []string {
	names := make([]string, 0, len(r.Repositories))
	for _, repo := range r.Repositories {
		names = append(names, repo.Name)
	}
	return names
}

// Runner drives a run: repositories are processed one at a time, in listing order.
type Runner struct {
	source   Source
	analyzer RepositoryAnalyzer
	logger   hclog.Logger
}

func NewRunner(src Source, ra RepositoryAnalyzer, logger hclog.Logger) *Runner {
	return &Runner{source: src, analyzer: ra, logger: logger}
}

// Run analyses every repository of username.
func (r *Runner) Run(ctx context.Context, username string) *Result {
	result := r.newResult(ctx, username)

	repos := r.source.ListRepositories(ctx, username)
	r.logger.Info("repositories found", "username", username, "count", len(repos))
	r.analyze(ctx, result, repos)

	return result
}

// RunRepository analyses a single repository of owner.
func (r *Runner) RunRepository(ctx context.Context, owner, repo string) *Result {
	result := r.newResult(ctx, owner)
	r.analyze(ctx, result, []source.RepositoryRef{{Name: repo, OwnerLogin: owner}})
	return result
}

func (r *Runner) newResult(ctx context.Context, username string) *Result {
	result := &Result{
		RunID:        uuid.New().String(),
		Username:     username,
		Repositories: []source.RepositoryRef{},
		Findings:     findings.NewFindingSet(),
		Files:        []analyzer.FileAnalysis{},
		StartedAt:    time.Now().UTC(),
	}
	r.logger.Info("starting reconnaissance", "run_id", result.RunID, "username", username)
	result.Profile = r.source.GetProfile(ctx, username)
	return result
}

func (r *Runner) analyze(ctx context.Context, result *Result, repos []source.RepositoryRef) {
	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("run cancelled, remaining repositories are not analysed", "run_id", result.RunID, "error", err)
			break
		}
		if repo.OwnerLogin == "" {
			repo.OwnerLogin = result.Username
		}

		repo.Files = r.source.ListFiles(ctx, repo.OwnerLogin, repo.Name, "")
		r.logger.Debug("repository files listed", "repository", repo.Name, "files", len(repo.Files))

		repoResult := r.analyzer.Analyze(ctx, repo)
		result.Findings.Merge(repoResult.Findings)
		result.Files = append(result.Files, repoResult.Files...)
		result.Repositories = append(result.Repositories, repo)
	}

	result.FinishedAt = time.Now().UTC()
	r.logger.Info("reconnaissance finished", "run_id", result.RunID,
		"repositories", len(result.Repositories), "findings", result.Findings.Total())
}
