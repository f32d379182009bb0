package findings

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Status describes what the extractor saw in a completion.
type Status string

const (
	StatusFindings  Status = "findings"
	StatusNoMarkers Status = "no-markers"
	StatusNoIssues  Status = "markers-no-issues"
	// content or completion was unavailable, the file was not parsed
	StatusSkipped Status = "skipped"
)

var (
	// "**Impact:**", "Impact:", "➜ **Recommendation:**"
	labelRegex = regexp.MustCompile(`\*{0,2}\b(Impact|Recommendations?)\b\*{0,2}\s*:\*{0,2}`)
	bulletRegex = regexp.MustCompile(`^[-•*]\s+`)
	// a line holding nothing but a repeated issue label
	strayIssueRegex = regexp.MustCompile(`(?i)^[\s\-*•>]*\**\s*Issue\s*:\s*\**\s*$`)
)

// Source identifies the file a completion belongs to.
type Source struct {
	Repository string
	File       string
	Path       string
}

// Extraction is the outcome of parsing one completion.
type Extraction struct {
	Findings FindingSet
	Markers  []Severity
}

// Status reports whether findings were produced, and if not, whether the model used the section headers.
func (e Extraction) Status() Status {
	switch {
	case e.Findings.Total() > 0:
		return StatusFindings
	case len(e.Markers) == 0:
		return StatusNoMarkers
	default:
		return StatusNoIssues
	}
}

// Extract parses one model completion into severity-bucketed findings for a single file.
// A completion without any section header yields an empty set.
func Extract(raw, repository, file string) FindingSet {
	return ExtractFile(raw, Source{Repository: repository, File: file}).Findings
}

// ExtractFile parses a completion and also reports which section headers were present.
func ExtractFile(raw string, src Source) Extraction {
	p := newParser(src)
	for _, line := range strings.Split(raw, "\n") {
		p.feed(strings.TrimRight(line, "\r"))
	}
	p.flush()
	return Extraction{Findings: p.result, Markers: p.markersSeen}
}

type parseState int

const (
	statePreamble parseState = iota
	stateSeverityBlock
	stateIssue
)

type parser struct {
	src      Source
	state    parseState
	severity Severity
	lines    []string

	result      FindingSet
	seen        map[Severity]map[string]struct{}
	markersSeen []Severity
}

func newParser(src Source) *parser {
	seen := make(map[Severity]map[string]struct{}, len(Severities))
	for _, s := range Severities {
		seen[s] = map[string]struct{}{}
	}
	return &parser{
		src:    src,
		state:  statePreamble,
		result: NewFindingSet(),
		seen:   seen,
	}
}

// feed advances the state machine by one line.
func (p *parser) feed(line string) {
	severity, idx, end := findMarker(line)
	if idx < 0 {
		p.feedIssueText(line)
		return
	}
	if isDecoration(line[:idx]) {
		p.enterSeverity(severity)
		p.feed(line[end:])
		return
	}
	// a header quoted inside issue text is not a block boundary
	p.feedIssueText(stripMarkers(line))
}

// isDecoration reports whether text before a header is only styling ("###", "🔴", "**", "1.").
func isDecoration(prefix string) bool {
	if strings.Contains(prefix, IssueMarker) {
		return false
	}
	for _, r := range prefix {
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// stripMarkers removes every section header literal and collapses the whitespace left behind.
func stripMarkers(line string) string {
	for _, m := range markers {
		line = strings.ReplaceAll(line, m.text, "")
	}
	return strings.Join(strings.Fields(line), " ")
}

// feedIssueText handles a line, or a part of one, that holds no section header.
func (p *parser) feedIssueText(line string) {
	if p.state == statePreamble {
		return
	}
	for {
		idx := strings.Index(line, IssueMarker)
		if idx < 0 {
			break
		}
		p.appendLine(line[:idx])
		p.flush()
		p.state = stateIssue
		line = line[idx+len(IssueMarker):]
	}
	p.appendLine(line)
}

func (p *parser) enterSeverity(s Severity) {
	p.flush()
	p.state = stateSeverityBlock
	p.severity = s
	for _, seen := range p.markersSeen {
		if seen == s {
			return
		}
	}
	p.markersSeen = append(p.markersSeen, s)
}

func (p *parser) appendLine(line string) {
	if p.state != stateIssue {
		return
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strayIssueRegex.MatchString(trimmed) {
		return
	}
	p.lines = append(p.lines, trimmed)
}

// flush closes the open issue, if any, and files it under the current severity.
func (p *parser) flush() {
	if p.state != stateIssue {
		return
	}
	lines := p.lines
	p.lines = nil
	p.state = stateSeverityBlock
	if len(lines) == 0 {
		return
	}

	f := buildFinding(p.src, p.severity, lines)
	if _, dup := p.seen[p.severity][f.Text]; dup {
		return
	}
	p.seen[p.severity][f.Text] = struct{}{}
	p.result.Add(f)
}

// findMarker returns the earliest section header on the line and its bounds, or -1.
func findMarker(line string) (Severity, int, int) {
	bestIdx, bestEnd := -1, -1
	var best Severity
	for _, m := range markers {
		if idx := strings.Index(line, m.text); idx >= 0 && (bestIdx < 0 || idx < bestIdx) {
			bestIdx, bestEnd, best = idx, idx+len(m.text), m.severity
		}
	}
	return best, bestIdx, bestEnd
}

// buildFinding renders a candidate issue. The first line always carries the Issue label,
// labelled Impact and Recommendation lines become sub-bullets, anything else continues the issue text.
func buildFinding(src Source, severity Severity, lines []string) Finding {
	f := Finding{
		Repository: src.Repository,
		File:       src.File,
		Path:       src.Path,
		Severity:   severity,
	}

	var issue, subBullets []string
	for _, line := range lines {
		loc := labelRegex.FindStringSubmatchIndex(line)
		if loc == nil {
			issue = append(issue, line)
			continue
		}
		value := strings.TrimSpace(line[loc[1]:])
		switch label := line[loc[2]:loc[3]]; {
		case label == "Impact":
			f.Impact = joinNonEmpty(f.Impact, value)
		default:
			f.Recommendation = joinNonEmpty(f.Recommendation, value)
		}
		subBullets = append(subBullets, bulletRegex.ReplaceAllString(line, ""))
	}
	f.Issue = strings.Join(issue, " ")

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", src.Repository, src.File)
	b.WriteString(strings.TrimSpace(IssueMarker + " " + f.Issue))
	for _, sub := range subBullets {
		b.WriteString("\n  - ")
		b.WriteString(sub)
	}
	f.Text = b.String()
	return f
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
