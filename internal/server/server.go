package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/ghrecon/internal/recon"
	"github.com/scan-io-git/ghrecon/internal/report"
	"github.com/scan-io-git/ghrecon/internal/source"
	"github.com/scan-io-git/ghrecon/pkg/shared/config"
)

const welcomeMessage = "Welcome to OSINT AI Recon Web API"

// Runner runs the reconnaissance of one user.
type Runner interface {
	Run(ctx context.Context, username string) *recon.Result
}

// Emitter persists a finished run.
type Emitter interface {
	Emit(ctx context.Context, result *recon.Result) (*report.Document, []report.Artifact, error)
}

// LookupRequest is the body of POST /github_lookup/.
type LookupRequest struct {
	Username string `json:"username"`
}

// LookupResponse is returned by POST /github_lookup/.
type LookupResponse struct {
	GitHubUsername string              `json:"github_username"`
	Repositories   []string            `json:"repositories"`
	AIAnalysis     map[string][]string `json:"ai_analysis"`
	Report         *report.Document    `json:"report"`
	Artifacts      []report.Artifact   `json:"artifacts"`
}

type Server struct {
	address string
	version string
	runner  Runner
	emitter Emitter
	limiter *RateLimiter
	logger  hclog.Logger
}

func New(cfg *config.Config, runner Runner, emitter Emitter, version string, logger hclog.Logger) *Server {
	return &Server{
		address: cfg.Server.Address,
		version: version,
		runner:  runner,
		emitter: emitter,
		limiter: NewRateLimiter(cfg.Server.RequestsPerMinute),
		logger:  logger,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))

	router.GET("/", s.handleHome)
	router.GET("/health", s.handleHealth)
	router.POST("/github_lookup/", s.limiter.Middleware(), s.handleLookup)
	return router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", s.address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": welcomeMessage})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ghrecon",
		"version": s.version,
	})
}

func (s *Server) handleLookup(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := source.ValidateUsername(req.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := s.runner.Run(c.Request.Context(), req.Username)
	doc, artifacts, err := s.emitter.Emit(c.Request.Context(), result)
	if err != nil {
		s.logger.Error("failed to save report", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, LookupResponse{
		GitHubUsername: req.Username,
		Repositories:   result.RepositoryNames(),
		AIAnalysis:     doc.AIAnalysis,
		Report:         doc,
		Artifacts:      artifacts,
	})
}
