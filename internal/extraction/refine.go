package extraction

import (
	"regexp"
	"strings"
)

// headerLine matches the structured "Field: value" lines that Airtable
// already stores as dedicated columns. They add noise to embeddings so the
// refiner drops them.
var headerLine = regexp.MustCompile(`(?i)^(Name|Title|Country|Role|Industry|Bio|Rate|Status|English|Eligibility|Email|Phone|Address|Linkedin):\s*`)

const maxRefinedLines = 20

// RefineContent reduces raw resume text to its most substantial lines:
// lines longer than 20 characters that are not structured header fields,
// capped at the first 20 such lines. Control characters are stripped so the
// result is safe to store and to send to the embeddings API.
func RefineContent(content string) string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 20 {
			continue
		}
		if headerLine.MatchString(line) {
			continue
		}
		kept = append(kept, line)
		if len(kept) == maxRefinedLines {
			break
		}
	}

	refined := strings.Join(kept, "\n")
	refined = strings.Map(func(r rune) rune {
		if r == 0 || (r < 32 && r != '\n' && r != '\t') {
			return -1
		}
		return r
	}, refined)
	return strings.TrimSpace(refined)
}
