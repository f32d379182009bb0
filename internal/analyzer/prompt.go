package analyzer

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/ghrecon/internal/findings"
)

const fence = "```"

// qualifyingSuffixes is matched case-sensitively against the file name.
var qualifyingSuffixes = []string{
	".py", ".js", ".java", ".c", ".cpp", ".go", ".yml", ".yaml", ".json",
	".html", ".xml", ".travis.yml", ".gitignore", "robots.txt", ".env", ".swift",
}

// IsQualifying reports whether a file with this name is sent for analysis.
func IsQualifying(name string) bool {
	for _, suffix := range qualifyingSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// BuildPrompt renders the analysis prompt for one file. Content longer than maxChars
// runes is cut, and truncated is true.
func BuildPrompt(fileName, repoName, content string, maxChars int) (prompt string, truncated bool) {
	if maxChars > 0 {
		runes := []rune(content)
		if len(runes) > maxChars {
			content = string(runes[:maxChars])
			truncated = true
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze the file `%s` from the GitHub repository `%s` for security risks.\n", fileName, repoName)
	sb.WriteString("Look for hardcoded secrets and credentials, injection flaws, insecure configuration, ")
	sb.WriteString("exposed sensitive data and weak security practices, and explain how a penetration tester could exploit them.\n\n")
	sb.WriteString("Group the issues under these section headers, omitting a section when it has no issues:\n")
	for _, s := range findings.Severities {
		fmt.Fprintf(&sb, "%s\n", s.Marker())
	}
	sb.WriteString("\nWrite every issue in exactly this format:\n")
	sb.WriteString(findings.IssueMarker + " <short description>\n")
	sb.WriteString("  **Impact:** <what an attacker gains>\n")
	sb.WriteString("  ➜ **Recommendation:** <how to fix or mitigate it>\n\n")
	sb.WriteString("File content:\n")
	sb.WriteString(fence + "\n")
	sb.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(fence + "\n")

	return sb.String(), truncated
}
