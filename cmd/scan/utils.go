package scan

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gitsight/go-vcsurl"

	"github.com/scan-io-git/ghrecon/internal/source"
	"github.com/scan-io-git/ghrecon/pkg/shared/config"
)

// target is what a scan analyses: every repository of Username, or only Repository.
type target struct {
	Username   string
	Repository string
}

// parseRepoURL extracts owner and repository from a github.com repository URL.
func parseRepoURL(raw string) (target, error) {
	info, err := vcsurl.Parse(raw)
	if err != nil {
		return target{}, fmt.Errorf("provided repository URL %q is not valid: %w", raw, err)
	}
	if info.Host != vcsurl.GitHub {
		return target{}, fmt.Errorf("only github.com repositories are supported, got %q", info.Host)
	}
	if info.Username == "" || info.Name == "" {
		return target{}, fmt.Errorf("repository URL %q must include an owner and a repository name", raw)
	}
	return target{Username: info.Username, Repository: info.Name}, nil
}

// resolveTarget picks the scan target from the --repo flag, the positional argument, or stdin.
func resolveTarget(options *RunOptionsScan, args []string, in io.Reader, out io.Writer) (target, error) {
	switch {
	case options.RepoURL != "":
		return parseRepoURL(options.RepoURL)
	case len(args) == 1:
		return target{Username: args[0]}, nil
	default:
		username, err := readUsername(in, out)
		if err != nil {
			return target{}, err
		}
		return target{Username: username}, nil
	}
}

// readUsername prompts for a username and reads one line.
func readUsername(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter GitHub username: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read username: %w", err)
	}
	username := strings.TrimSpace(line)
	if err := source.ValidateUsername(username); err != nil {
		return "", err
	}
	return username, nil
}

// applyScanOptions overrides configuration values with the flags that were set.
func applyScanOptions(cfg *config.Config, options *RunOptionsScan) {
	if options.OutputDir != "" {
		cfg.Report.OutputDir = options.OutputDir
	}
	if len(options.Formats) > 0 {
		cfg.Report.Formats = options.Formats
	}
	if options.Workers > 0 {
		cfg.Analyzer.Workers = options.Workers
	}
	if options.Model != "" {
		cfg.Inference.Model = options.Model
	}
}
