package scan

import (
	"fmt"
	"io"

	"github.com/scan-io-git/ghrecon/internal/findings"
	"github.com/scan-io-git/ghrecon/pkg/issuecorrelation"
)

// rerated is a known finding whose severity changed in the current run.
type rerated struct {
	Previous findings.Finding
	Current  findings.Finding
}

// baselineSummary is the outcome of comparing a run with a previous report.
type baselineSummary struct {
	New      []findings.Finding
	Known    int
	Rerated  []rerated
	Resolved []findings.Finding
}

func findingKeys(list []findings.Finding) []issuecorrelation.FindingKey {
	keys := make([]issuecorrelation.FindingKey, 0, len(list))
	for i, f := range list {
		path := f.Path
		if path == "" {
			path = f.File
		}
		keys = append(keys, issuecorrelation.FindingKey{
			ID:         i,
			Repository: f.Repository,
			Path:       path,
			Severity:   string(f.Severity),
			Issue:      f.Issue,
			TextHash:   issuecorrelation.TextHash(f.Text),
		})
	}
	return keys
}

// compareBaseline correlates the current findings with the findings of a previous report.
func compareBaseline(previous, current []findings.Finding) baselineSummary {
	c := issuecorrelation.NewCorrelator(findingKeys(current), findingKeys(previous))
	c.Process()

	var summary baselineSummary
	for _, k := range c.UnmatchedCurrent() {
		summary.New = append(summary.New, current[k.ID])
	}
	for _, k := range c.UnmatchedKnown() {
		summary.Resolved = append(summary.Resolved, previous[k.ID])
	}
	for _, m := range c.Matches() {
		for _, k := range m.Current {
			if k.Severity != m.Known.Severity {
				summary.Rerated = append(summary.Rerated, rerated{Previous: previous[m.Known.ID], Current: current[k.ID]})
			}
		}
	}
	summary.Known = len(current) - len(summary.New)
	return summary
}

func printBaseline(w io.Writer, path string, summary baselineSummary) {
	fmt.Fprintf(w, "\nCompared with %s:\n", path)
	fmt.Fprintf(w, "  new: %d, known: %d, resolved: %d\n", len(summary.New), summary.Known, len(summary.Resolved))
	for _, f := range summary.New {
		fmt.Fprintf(w, "  + [%s] %s/%s: %s\n", f.Severity, f.Repository, f.File, f.Issue)
	}
	for _, r := range summary.Rerated {
		fmt.Fprintf(w, "  ~ [%s -> %s] %s/%s: %s\n", r.Previous.Severity, r.Current.Severity, r.Current.Repository, r.Current.File, r.Current.Issue)
	}
	for _, f := range summary.Resolved {
		fmt.Fprintf(w, "  - [%s] %s/%s: %s\n", f.Severity, f.Repository, f.File, f.Issue)
	}
}
