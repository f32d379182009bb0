package scan

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/ghrecon/internal/findings"
	"github.com/scan-io-git/ghrecon/internal/recon"
	"github.com/scan-io-git/ghrecon/internal/report"
	"github.com/scan-io-git/ghrecon/pkg/shared/config"
	"github.com/scan-io-git/ghrecon/pkg/shared/errors"
)

// RunOptionsScan holds the arguments of the scan command.
type RunOptionsScan struct {
	RepoURL   string
	OutputDir string
	Formats   []string
	Workers   int
	Model     string
	Baseline  string
}

// Global variables for configuration and command arguments
var (
	AppConfig   *config.Config
	logger      hclog.Logger
	scanOptions RunOptionsScan

	exampleScanUsage = `  # Analyse every public repository of a user
  ghrecon scan alice

  # Analyse one repository only
  ghrecon scan --repo https://github.com/alice/demo

  # Ask for the username interactively and write JSON and SARIF reports to ./reports
  ghrecon scan -o ./reports -f json,sarif

  # Show which findings are new since a previous JSON report
  ghrecon scan alice --baseline ./reports/osint_report_alice.json`
)

// ScanCmd represents the command for scan command.
var ScanCmd = &cobra.Command{
	Use:                   "scan [--repo URL] [--output/-o DIR] [--format/-f FORMAT,...] [--workers/-j N] [--model MODEL] [--baseline REPORT] [USERNAME]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleScanUsage,
	Short:                 "Analyse the public repositories of a GitHub user for security risks",
	Long: `Lists the public repositories of a GitHub user, sends every source and configuration
file to a language model and writes the severity-bucketed findings to a report.

When neither a username nor --repo is given, the username is read from stdin.`,
	RunE: runScanCommand,
}

// Init initializes the global configuration variable and the logger.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runScanCommand(cmd *cobra.Command, args []string) error {
	if err := validateScanArgs(&scanOptions, args); err != nil {
		logger.Error("invalid scan arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid scan arguments: %w", err), errors.ExitCodeInvalidArgs)
	}

	applyScanOptions(AppConfig, &scanOptions)
	if err := config.ValidateConfig(AppConfig); err != nil {
		logger.Error("invalid configuration", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeInvalidArgs)
	}

	t, err := resolveTarget(&scanOptions, args, cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		logger.Error("failed to determine scan target", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to determine scan target: %w", err), errors.ExitCodeInvalidArgs)
	}

	var baseline *report.Document
	if scanOptions.Baseline != "" {
		baseline, err = report.LoadDocument(scanOptions.Baseline)
		if err != nil {
			logger.Error("failed to load baseline report", "error", err)
			return errors.NewCommandError(err, errors.ExitCodeInvalidArgs)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runner, err := recon.NewFromConfig(ctx, AppConfig, logger)
	if err != nil {
		logger.Error("failed to initialize the pipeline", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeInvalidArgs)
	}
	emitter, err := report.NewEmitter(AppConfig, logger.Named("report"))
	if err != nil {
		logger.Error("failed to initialize the report emitter", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeInvalidArgs)
	}

	var result *recon.Result
	if t.Repository != "" {
		result = runner.RunRepository(ctx, t.Username, t.Repository)
	} else {
		result = runner.Run(ctx, t.Username)
	}

	doc, artifacts, err := emitter.Emit(ctx, result)
	if err != nil {
		logger.Error("failed to save report", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeReportWrite)
	}

	printSummary(cmd.OutOrStdout(), result, artifacts)
	if baseline != nil {
		summary := compareBaseline(baseline.Findings, doc.Findings)
		logger.Info("compared with baseline", "new", len(summary.New), "known", summary.Known, "resolved", len(summary.Resolved))
		printBaseline(cmd.OutOrStdout(), scanOptions.Baseline, summary)
	}
	logger.Info("scan command completed successfully", "run_id", result.RunID)
	return nil
}

// printSummary prints the analysed repositories, finding counts and written reports.
func printSummary(w io.Writer, result *recon.Result, artifacts []report.Artifact) {
	fmt.Fprintf(w, "Found %d repositories for %s.\n", len(result.Repositories), result.Username)
	for _, name := range result.RepositoryNames() {
		fmt.Fprintf(w, "- %s\n", name)
	}
	fmt.Fprintln(w, "\nFindings:")
	for _, s := range findings.Severities {
		fmt.Fprintf(w, "  %-26s %d\n", s.Marker()+":", result.Findings.Count(s))
	}
	fmt.Fprintln(w, "\nReports:")
	for _, a := range artifacts {
		location := a.Path
		if a.Location != "" {
			location += " (" + a.Location + ")"
		}
		fmt.Fprintf(w, "  %s\n", location)
	}
}

func init() {
	ScanCmd.Flags().StringVar(&scanOptions.RepoURL, "repo", "", "URL of a single GitHub repository to analyse (e.g., https://github.com/alice/demo).")
	ScanCmd.Flags().StringVarP(&scanOptions.OutputDir, "output", "o", "", "Directory where reports are written. Overrides report.output_dir.")
	ScanCmd.Flags().StringSliceVarP(&scanOptions.Formats, "format", "f", nil, "Report formats to write: json, md, sarif. Overrides report.formats.")
	ScanCmd.Flags().IntVarP(&scanOptions.Workers, "workers", "j", 0, "Number of files analysed concurrently. Overrides analyzer.workers.")
	ScanCmd.Flags().StringVar(&scanOptions.Model, "model", "", "Model name passed to the inference service. Overrides inference.model.")
	ScanCmd.Flags().StringVar(&scanOptions.Baseline, "baseline", "", "Previous JSON report; new, known and resolved findings are listed against it.")
	ScanCmd.Flags().BoolP("help", "h", false, "Show help for the scan command.")
}
