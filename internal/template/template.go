package template

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"
)

//go:embed report.md.tmpl
var markdownReport string

// add adds two integers and returns the result.
// helper function for markdown template
func add(a, b int) int {
	return a + b
}

// ordinalDate returns a string with the ordinal number of the day
func ordinalDate(day int) string {
	suffix := "th"
	switch day {
	case 1, 21, 31:
		suffix = "st"
	case 2, 22:
		suffix = "nd"
	case 3, 23:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", day, suffix)
}

// formatDateTime formats a time.Time object into a human readable UTC string.
func formatDateTime(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s %s %d %02d:%02d:%02d UTC", ordinalDate(t.Day()), t.Month(), t.Year(), t.Hour(), t.Minute(), t.Second())
}

// indent prefixes every line after the first, so multi-line findings stay inside a list item.
func indent(spaces int, s string) string {
	pad := strings.Repeat(" ", spaces)
	return strings.ReplaceAll(s, "\n", "\n"+pad)
}

// NewMarkdownTemplate parses the built-in markdown report template.
func NewMarkdownTemplate() (*template.Template, error) {
	return template.New("report.md").
		Funcs(template.FuncMap{
			"add":            add,
			"formatDateTime": formatDateTime,
			"indent":         indent,
		}).
		Parse(markdownReport)
}
