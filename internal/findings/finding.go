package findings

// Severity is the risk bucket of a finding.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Severities lists every bucket in report order.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

// Section headers the model is asked to use. They are matched literally.
const (
	MarkerHigh   = "High Risk Issues"
	MarkerMedium = "Medium Risk Issues"
	MarkerLow    = "Low Risk / Best Practices"

	// IssueMarker opens every issue inside a section.
	IssueMarker = "- **Issue:**"
)

var markers = []struct {
	severity Severity
	text     string
}{
	{SeverityHigh, MarkerHigh},
	{SeverityMedium, MarkerMedium},
	{SeverityLow, MarkerLow},
}

// Marker returns the section header for the severity.
func (s Severity) Marker() string {
	for _, m := range markers {
		if m.severity == s {
			return m.text
		}
	}
	return ""
}

// SARIFLevel maps the severity onto a SARIF result level.
func (s Severity) SARIFLevel() string {
	switch s {
	case SeverityHigh:
		return "error"
	case SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

// Finding is one security observation about one file. Findings are built by the
// extractor and not modified afterwards.
type Finding struct {
	Repository     string   `json:"repository"`
	File           string   `json:"file"`
	Path           string   `json:"path,omitempty"`
	Severity       Severity `json:"severity"`
	Issue          string   `json:"issue"`
	Impact         string   `json:"impact,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	Text           string   `json:"text"`
}

// FindingSet groups findings by severity. All three buckets are always present.
type FindingSet map[Severity][]Finding

// NewFindingSet returns a set with every severity bucket initialised.
func NewFindingSet() FindingSet {
	fs := make(FindingSet, len(Severities))
	for _, s := range Severities {
		fs[s] = []Finding{}
	}
	return fs
}

// Add appends f to the bucket of its severity.
func (fs FindingSet) Add(f Finding) {
	fs[f.Severity] = append(fs[f.Severity], f)
}

// Merge appends every bucket of other to fs, keeping order.
func (fs FindingSet) Merge(other FindingSet) {
	for _, s := range Severities {
		fs[s] = append(fs[s], other[s]...)
	}
}

// Count returns the number of findings of one severity.
func (fs FindingSet) Count(s Severity) int {
	return len(fs[s])
}

// Total returns the number of findings across all buckets.
func (fs FindingSet) Total() int {
	total := 0
	for _, s := range Severities {
		total += len(fs[s])
	}
	return total
}

// Texts returns the rendered text of every finding of one severity.
func (fs FindingSet) Texts(s Severity) []string {
	texts := make([]string, 0, len(fs[s]))
	for _, f := range fs[s] {
		texts = append(texts, f.Text)
	}
	return texts
}

// Rendered returns the rendered findings keyed by severity name.
func (fs FindingSet) Rendered() map[string][]string {
	out := make(map[string][]string, len(Severities))
	for _, s := range Severities {
		out[string(s)] = fs.Texts(s)
	}
	return out
}
