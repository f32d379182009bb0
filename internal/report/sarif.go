package report

import (
	"bytes"
	"fmt"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/ghrecon/internal/findings"
)

const (
	toolName = "ghrecon"
	toolURI  = "https://github.com/scan-io-git/ghrecon"
)

func ruleID(s findings.Severity) string {
	return fmt.Sprintf("ghrecon/%s-risk", s)
}

// renderSARIF emits one run with a rule per severity and a result per finding.
// Locations point at "<repository>/<path>".
func renderSARIF(doc *Document) ([]byte, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	for _, s := range findings.Severities {
		run.AddRule(ruleID(s)).
			WithDescription(s.Marker()).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: s.SARIFLevel(),
			})
	}

	for _, f := range doc.Findings {
		path := f.Path
		if path == "" {
			path = f.File
		}
		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.Repository + "/" + path)),
		)

		result := sarif.NewRuleResult(ruleID(f.Severity)).
			WithMessage(sarif.NewTextMessage(f.Text)).
			WithLevel(f.Severity.SARIFLevel()).
			WithLocations([]*sarif.Location{location})
		run.AddResult(result)
	}
	report.AddRun(run)

	var buf bytes.Buffer
	if err := report.PrettyWrite(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode SARIF report: %w", err)
	}
	return buf.Bytes(), nil
}
