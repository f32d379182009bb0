package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/ghrecon/cmd/version"
	"github.com/scan-io-git/ghrecon/internal/recon"
	"github.com/scan-io-git/ghrecon/internal/report"
	"github.com/scan-io-git/ghrecon/internal/server"
	"github.com/scan-io-git/ghrecon/pkg/shared/config"
	"github.com/scan-io-git/ghrecon/pkg/shared/errors"
)

// Global variables for configuration and command arguments
var (
	AppConfig *config.Config
	logger    hclog.Logger
	address   string

	exampleServeUsage = `  # Serve the lookup API on the configured address
  ghrecon serve

  # Serve on a custom address
  ghrecon serve --address 127.0.0.1:9000

  # Run a lookup
  curl -X POST localhost:8000/github_lookup/ -d '{"username":"alice"}'`
)

// ServeCmd represents the command for serve command.
var ServeCmd = &cobra.Command{
	Use:                   "serve [--address ADDRESS]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleServeUsage,
	Short:                 "Serve the reconnaissance pipeline over HTTP",
	RunE:                  runServeCommand,
}

// Init initializes the global configuration variable and the logger.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errors.NewCommandError(fmt.Errorf("the serve command takes no positional arguments"), errors.ExitCodeInvalidArgs)
	}
	if address != "" {
		AppConfig.Server.Address = address
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	if !logger.IsDebug() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(AppConfig, runner, emitter, version.CoreVersion, logger.Named("server"))
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server stopped with an error", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}

func init() {
	ServeCmd.Flags().StringVar(&address, "address", "", "Address to listen on. Overrides server.address.")
	ServeCmd.Flags().BoolP("help", "h", false, "Show help for the serve command.")
}
