package scan

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/ghrecon/internal/findings"
)

func TestCompareBaseline(t *testing.T) {
	previous := []findings.Finding{
		{Repository: "demo", File: "app.py", Path: "src/app.py", Severity: findings.SeverityHigh, Issue: "Hardcoded secret", Text: "[demo] app.py\n- **Issue:** Hardcoded secret"},
		{Repository: "demo", File: "db.go", Path: "db.go", Severity: findings.SeverityMedium, Issue: "SQL injection", Text: "[demo] db.go\n- **Issue:** SQL injection"},
	}
	current := []findings.Finding{
		{Repository: "demo", File: "app.py", Path: "src/app.py", Severity: findings.SeverityHigh, Issue: "Hardcoded secret", Text: "[demo] app.py\n- **Issue:**  Hardcoded   secret"},
		{Repository: "demo", File: ".travis.yml", Path: ".travis.yml", Severity: findings.SeverityLow, Issue: "No pinned image", Text: "[demo] .travis.yml\n- **Issue:** No pinned image"},
	}

	summary := compareBaseline(previous, current)
	assert.Equal(t, 1, summary.Known)
	require.Len(t, summary.New, 1)
	assert.Equal(t, ".travis.yml", summary.New[0].File)
	require.Len(t, summary.Resolved, 1)
	assert.Equal(t, "db.go", summary.Resolved[0].File)
	assert.Empty(t, summary.Rerated)
}

func TestCompareBaselineReportsRerated(t *testing.T) {
	previous := []findings.Finding{
		{Repository: "demo", File: "app.py", Path: "app.py", Severity: findings.SeverityMedium, Issue: "Debug mode enabled", Text: "[demo] app.py\n- **Issue:** Debug mode enabled"},
	}
	current := []findings.Finding{
		{Repository: "demo", File: "app.py", Path: "app.py", Severity: findings.SeverityHigh, Issue: "Debug mode enabled", Text: "[demo] app.py\n- **Issue:** Debug mode enabled"},
	}

	summary := compareBaseline(previous, current)
	assert.Equal(t, 1, summary.Known)
	assert.Empty(t, summary.New)
	assert.Empty(t, summary.Resolved)
	require.Len(t, summary.Rerated, 1)
	assert.Equal(t, findings.SeverityMedium, summary.Rerated[0].Previous.Severity)
	assert.Equal(t, findings.SeverityHigh, summary.Rerated[0].Current.Severity)
}

func TestCompareBaselineFallsBackToFileName(t *testing.T) {
	previous := []findings.Finding{{Repository: "demo", File: "app.py", Issue: "Weak hash"}}
	current := []findings.Finding{{Repository: "demo", File: "app.py", Issue: "Weak hash"}}

	summary := compareBaseline(previous, current)
	assert.Equal(t, 1, summary.Known)
	assert.Empty(t, summary.New)
	assert.Empty(t, summary.Resolved)
}

func TestPrintBaseline(t *testing.T) {
	var buf bytes.Buffer
	printBaseline(&buf, "old.json", baselineSummary{
		New:   []findings.Finding{{Repository: "demo", File: "a.py", Severity: findings.SeverityHigh, Issue: "Token"}},
		Known: 2,
		Rerated: []rerated{{
			Previous: findings.Finding{Severity: findings.SeverityLow},
			Current:  findings.Finding{Repository: "demo", File: "c.py", Severity: findings.SeverityMedium, Issue: "Weak hash"},
		}},
		Resolved: []findings.Finding{{Repository: "demo", File: "b.py", Severity: findings.SeverityLow, Issue: "Debug"}},
	})

	out := buf.String()
	assert.Contains(t, out, "Compared with old.json:")
	assert.Contains(t, out, "new: 1, known: 2, resolved: 1")
	assert.Contains(t, out, "+ [High] demo/a.py: Token")
	assert.Contains(t, out, "~ [Low -> Medium] demo/c.py: Weak hash")
	assert.Contains(t, out, "- [Low] demo/b.py: Debug")
}
