package scan

import (
	"fmt"

	"github.com/scan-io-git/ghrecon/internal/source"
	"github.com/scan-io-git/ghrecon/pkg/shared/config"
)

var allowedFormats = []string{config.FormatJSON, config.FormatMarkdown, config.FormatSARIF}

// validateScanArgs validates the arguments provided to the scan command.
func validateScanArgs(options *RunOptionsScan, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("invalid argument(s) received, only one positional argument is allowed")
	}

	if len(args) == 1 {
		if options.RepoURL != "" {
			return fmt.Errorf("you cannot use both a username argument and the 'repo' flag at the same time")
		}
		if err := source.ValidateUsername(args[0]); err != nil {
			return err
		}
	}

	if options.RepoURL != "" {
		if _, err := parseRepoURL(options.RepoURL); err != nil {
			return err
		}
	}

	if options.Workers < 0 {
		return fmt.Errorf("the 'workers' flag must be a positive number")
	}

	for _, f := range options.Formats {
		if !isAllowedFormat(f) {
			return fmt.Errorf("unsupported report format %q, allowed formats: %v", f, allowedFormats)
		}
	}

	return nil
}

func isAllowedFormat(format string) bool {
	for _, allowed := range allowedFormats {
		if format == allowed {
			return true
		}
	}
	return false
}
