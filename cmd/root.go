package cmd

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/ghrecon/cmd/scan"
	"github.com/scan-io-git/ghrecon/cmd/serve"
	"github.com/scan-io-git/ghrecon/cmd/version"
	"github.com/scan-io-git/ghrecon/pkg/shared/config"
	"github.com/scan-io-git/ghrecon/pkg/shared/errors"
	"github.com/scan-io-git/ghrecon/pkg/shared/logger"
)

const defaultConfigFile = "config.yml"

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "ghrecon [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "ghrecon is an OSINT reconnaissance tool for GitHub users.",
		Long: `ghrecon lists the public repositories of a GitHub user, asks a language model to review
	their source and configuration files and reports the security findings by severity.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml, optional)")
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(scan.ScanCmd)
	rootCmd.AddCommand(serve.ServeCmd)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		return exitCode(err)
	}
	return 0
}

// exitCode maps a command error to its exit code, 1 when none is attached.
func exitCode(err error) int {
	var cmdErr *errors.CommandError
	if stderrors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return errors.ExitCodeInvalidArgs
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env file - %v\n", err)
		os.Exit(errors.ExitCodeInvalidArgs)
	}

	path, required := cfgFile, true
	if path == "" {
		path, required = defaultConfigFile, false
	}

	var err error
	AppConfig, err = config.LoadConfig(path, required)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing config file function is crashed - %v\n", err)
		os.Exit(errors.ExitCodeInvalidArgs)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitCodeInvalidArgs)
	}

	scan.Init(AppConfig, logger.NewLogger(AppConfig, "scan"))
	serve.Init(AppConfig, logger.NewLogger(AppConfig, "serve"))
}
