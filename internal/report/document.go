package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/scan-io-git/ghrecon/internal/analyzer"
	"github.com/scan-io-git/ghrecon/internal/findings"
	"github.com/scan-io-git/ghrecon/internal/recon"
	"github.com/scan-io-git/ghrecon/internal/source"
)

// Section is one severity block of the markdown report.
type Section struct {
	Title string
	Texts []string
}

// Document is the persisted form of a run. The first three keys keep the
// layout earlier reports used.
type Document struct {
	Target             string                  `json:"target"`
	GitHubRepositories []string                `json:"github_repositories"`
	AIAnalysis         map[string][]string     `json:"ai_analysis"`
	RunID              string                  `json:"run_id"`
	GeneratedAt        time.Time               `json:"generated_at"`
	Profile            *source.Profile         `json:"profile,omitempty"`
	Findings           []findings.Finding      `json:"findings"`
	Files              []analyzer.FileAnalysis `json:"files"`

	Sections []Section `json:"-"`
}

// NewDocument builds the report of a finished run.
func NewDocument(result *recon.Result, generatedAt time.Time) *Document {
	doc := &Document{
		Target:             result.Username,
		GitHubRepositories: result.RepositoryNames(),
		AIAnalysis:         result.Findings.Rendered(),
		RunID:              result.RunID,
		GeneratedAt:        generatedAt.UTC(),
		Profile:            result.Profile,
		Findings:           []findings.Finding{},
		Files:              result.Files,
	}
	if doc.Files == nil {
		doc.Files = []analyzer.FileAnalysis{}
	}

	for _, s := range findings.Severities {
		doc.Findings = append(doc.Findings, result.Findings[s]...)
		doc.Sections = append(doc.Sections, Section{Title: s.Marker(), Texts: result.Findings.Texts(s)})
	}
	return doc
}

// LoadDocument reads a JSON report written by a previous run.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %q: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse report %q: %w", path, err)
	}
	return &doc, nil
}
