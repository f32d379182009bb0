package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	texttemplate "text/template"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/ghrecon/internal/recon"
	"github.com/scan-io-git/ghrecon/internal/template"
	"github.com/scan-io-git/ghrecon/pkg/shared/config"
	"github.com/scan-io-git/ghrecon/pkg/shared/errors"
	"github.com/scan-io-git/ghrecon/pkg/shared/files"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Artifact is one written report file.
type Artifact struct {
	Format   string `json:"format"`
	Path     string `json:"path"`
	Location string `json:"location,omitempty"`
}

// Emitter persists run results in every configured format.
type Emitter struct {
	outputDir string
	formats   []string
	markdown  *texttemplate.Template
	uploader  Uploader
	logger    hclog.Logger
	now       func() time.Time
}

// NewEmitter creates an emitter. An S3 uploader is attached when report.s3.bucket is set.
func NewEmitter(cfg *config.Config, logger hclog.Logger) (*Emitter, error) {
	md, err := template.NewMarkdownTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown template: %w", err)
	}

	outputDir, err := files.ExpandPath(cfg.Report.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to expand output dir: %w", err)
	}

	e := &Emitter{
		outputDir: outputDir,
		formats:   cfg.Report.Formats,
		markdown:  md,
		logger:    logger,
		now:       time.Now,
	}
	if cfg.Report.S3.Bucket != "" {
		uploader, err := NewS3Uploader(cfg.Report.S3)
		if err != nil {
			return nil, err
		}
		e.uploader = uploader
	}
	return e, nil
}

// WithUploader replaces the remote uploader.
func (e *Emitter) WithUploader(u Uploader) *Emitter {
	e.uploader = u
	return e
}

// FileName returns the artifact name for a target and format, e.g. osint_report_alice.json.
func FileName(target, format string) string {
	name := unsafeNameChars.ReplaceAllString(target, "_")
	if name == "" {
		name = "unknown"
	}
	return fmt.Sprintf("osint_report_%s.%s", name, format)
}

// Emit writes the report of result. Any write or upload failure is returned as
// *errors.ReportWriteError.
func (e *Emitter) Emit(ctx context.Context, result *recon.Result) (*Document, []Artifact, error) {
	doc := NewDocument(result, e.now())

	var artifacts []Artifact
	for _, format := range e.formats {
		data, err := e.render(doc, format)
		if err != nil {
			return doc, artifacts, errors.NewReportWriteError(FileName(doc.Target, format), err)
		}

		name := FileName(doc.Target, format)
		path := filepath.Join(e.outputDir, name)
		if err := files.WriteFile(path, data); err != nil {
			return doc, artifacts, errors.NewReportWriteError(path, err)
		}
		artifact := Artifact{Format: format, Path: path}

		if e.uploader != nil {
			location, err := e.uploader.Upload(ctx, name, bytes.NewReader(data))
			if err != nil {
				return doc, artifacts, errors.NewReportWriteError(location, err)
			}
			artifact.Location = location
		}

		e.logger.Info("report saved", "format", format, "path", path, "location", artifact.Location)
		artifacts = append(artifacts, artifact)
	}
	return doc, artifacts, nil
}

func (e *Emitter) render(doc *Document, format string) ([]byte, error) {
	switch format {
	case config.FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case config.FormatMarkdown:
		var buf bytes.Buffer
		if err := e.markdown.Execute(&buf, doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case config.FormatSARIF:
		return renderSARIF(doc)
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}
