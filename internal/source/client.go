package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v47/github"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"

	"github.com/scan-io-git/ghrecon/pkg/shared/config"
	"github.com/scan-io-git/ghrecon/pkg/shared/httpclient"
)

// Client lists repositories and files of GitHub users and retrieves file contents.
// Every upstream failure is logged and degrades to an empty result.
type Client struct {
	api      *github.Client
	logger   hclog.Logger
	maxDepth int
	maxFiles int
	perPage  int
}

// New creates a client from the global configuration. The token, when present,
// is attached to every request; without it calls are anonymous.
func New(cfg *config.Config, logger hclog.Logger) (*Client, error) {
	base := httpclient.New(logger, cfg).GetClient()

	httpClient := base
	if cfg.GitHub.Token != "" {
		httpClient = &http.Client{
			Timeout: base.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GitHub.Token}),
				Base:   base.Transport,
			},
		}
	} else {
		logger.Warn("no GitHub token provided, anonymous access will be used and API rate limits may apply")
	}

	api := github.NewClient(httpClient)
	baseURL, err := parseBaseURL(cfg.GitHub.BaseURL)
	if err != nil {
		return nil, err
	}
	api.BaseURL = baseURL

	return &Client{
		api:      api,
		logger:   logger,
		maxDepth: cfg.GitHub.MaxDepth,
		maxFiles: cfg.GitHub.MaxFiles,
		perPage:  cfg.GitHub.PerPage,
	}, nil
}

// parseBaseURL makes sure the API base URL ends with a slash, as go-github requires.
func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub base URL %q: %w", raw, err)
	}
	return u, nil
}

// ListRepositories returns the public repositories of username, following pagination.
func (c *Client) ListRepositories(ctx context.Context, username string) []RepositoryRef {
	result := []RepositoryRef{}
	if username == "" {
		return result
	}

	c.logger.Info("fetching list of repositories", "username", username)
	opt := &github.RepositoryListOptions{
		ListOptions: github.ListOptions{PerPage: c.perPage},
	}
	for {
		repos, resp, err := c.api.Repositories.List(ctx, username, opt)
		if err != nil {
			// a partial listing is discarded, the user is treated as having no repositories
			c.logger.Warn("failed to list repositories", "username", username, "page", opt.Page, "fetched", len(result), "error", err)
			return []RepositoryRef{}
		}

		for _, repo := range repos {
			if ref, ok := toRepositoryRef(repo); ok {
				result = append(result, ref)
			}
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	c.logger.Debug("successfully fetched all repositories", "username", username, "total", len(result))
	return result
}

// ListFiles walks the repository tree depth-first starting at path and returns files only.
// The walk stops at the configured depth and file count.
func (c *Client) ListFiles(ctx context.Context, owner, repo, path string) []FileDescriptor {
	w := &walker{client: c, owner: owner, repo: repo, files: []FileDescriptor{}}
	w.walk(ctx, path, 0)
	return w.files
}

type walker struct {
	client    *Client
	owner     string
	repo      string
	files     []FileDescriptor
	truncated bool
}

func (w *walker) walk(ctx context.Context, path string, depth int) {
	c := w.client
	if depth >= c.maxDepth {
		c.logger.Warn("maximum directory depth reached, skipping subtree",
			"repository", w.owner+"/"+w.repo, "path", path, "max_depth", c.maxDepth)
		return
	}

	_, entries, _, err := c.api.Repositories.GetContents(ctx, w.owner, w.repo, path, nil)
	if err != nil {
		c.logger.Warn("failed to list directory", "repository", w.owner+"/"+w.repo, "path", path, "error", err)
		return
	}

	for _, entry := range entries {
		if len(w.files) >= c.maxFiles {
			if !w.truncated {
				w.truncated = true
				c.logger.Warn("maximum number of files reached, listing truncated",
					"repository", w.owner+"/"+w.repo, "max_files", c.maxFiles)
			}
			return
		}

		switch Kind(entry.GetType()) {
		case KindFile:
			w.files = append(w.files, FileDescriptor{
				Name: entry.GetName(),
				Path: entry.GetPath(),
				Kind: KindFile,
			})
		case KindDirectory:
			w.walk(ctx, entry.GetPath(), depth+1)
		}
	}
}

// FetchContent returns the decoded text of a file. Anything that is not a base64
// encoded file yields false; invalid UTF-8 sequences are replaced.
func (c *Client) FetchContent(ctx context.Context, owner, repo, path string) (string, bool) {
	file, _, _, err := c.api.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		c.logger.Warn("failed to fetch file content", "repository", owner+"/"+repo, "path", path, "error", err)
		return "", false
	}
	if file == nil {
		c.logger.Debug("path is not a file", "repository", owner+"/"+repo, "path", path)
		return "", false
	}
	if file.GetEncoding() != "base64" {
		c.logger.Debug("unsupported content encoding, skipping", "path", path, "encoding", file.GetEncoding())
		return "", false
	}

	content, err := file.GetContent()
	if err != nil {
		c.logger.Debug("failed to decode file content", "path", path, "error", err)
		return "", false
	}
	return strings.ToValidUTF8(content, "\uFFFD"), true
}

// GetProfile returns the public profile of username, or nil when it cannot be fetched.
func (c *Client) GetProfile(ctx context.Context, username string) *Profile {
	user, _, err := c.api.Users.Get(ctx, username)
	if err != nil {
		c.logger.Warn("failed to retrieve user info", "username", username, "error", err)
		return nil
	}
	return &Profile{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		Company:     user.GetCompany(),
		Location:    user.GetLocation(),
		Bio:         user.GetBio(),
		Blog:        user.GetBlog(),
		HTMLURL:     user.GetHTMLURL(),
		PublicRepos: user.GetPublicRepos(),
		Followers:   user.GetFollowers(),
	}
}

// toRepositoryRef converts a go-github repository. ok=false if repo is nil or unnamed.
func toRepositoryRef(repo *github.Repository) (RepositoryRef, bool) {
	if repo == nil || repo.GetName() == "" {
		return RepositoryRef{}, false
	}
	return RepositoryRef{
		Name:        repo.GetName(),
		OwnerLogin:  repo.GetOwner().GetLogin(),
		Description: repo.GetDescription(),
		HTMLURL:     repo.GetHTMLURL(),
		Language:    repo.GetLanguage(),
		Fork:        repo.GetFork(),
	}, true
}
