package extract

import (
	"html"
	"regexp"
	"strings"
)

// Pre-compiled regular expressions for HTML stripping.
var (
	headTag      = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	cellClose    = regexp.MustCompile(`(?i)</t[dh]>`)
	rowClose     = regexp.MustCompile(`(?i)</tr>`)
	allTags      = regexp.MustCompile(`<[^>]+>`)
	spaceRuns    = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlineRuns  = regexp.MustCompile(`\n+`)
)

// HTML strips markup from an HTML rendering and returns normalised
// plain text. Table cell and row boundaries become whitespace before the
// generic tag pass so that adjacent cell values ("Ja: 50", "Nej: 30" in
// a vote table) never concatenate. Every remaining tag is replaced with
// a space, never deleted, so adjacent words cannot merge either.
// Malformed input is handled like any other: the function never fails.
func HTML(raw []byte) string {
	content := string(raw)

	// Whole-block removals first: head, style, script, comments.
	content = headTag.ReplaceAllString(content, " ")
	content = styleTag.ReplaceAllString(content, " ")
	content = scriptTag.ReplaceAllString(content, " ")
	content = htmlComments.ReplaceAllString(content, " ")

	// Table boundaries before the generic tag pass.
	content = cellClose.ReplaceAllString(content, " ")
	content = rowClose.ReplaceAllString(content, "\n")

	// Replace every remaining tag with a single space.
	content = allTags.ReplaceAllString(content, " ")

	// Decode entities (&nbsp;, &amp;, &auml;, ...).
	content = html.UnescapeString(content)
	content = strings.ReplaceAll(content, "\u00a0", " ")

	return normalise(content)
}

// normalise collapses whitespace runs to single spaces and newline runs
// to single newlines, trims every line and drops empty ones.
func normalise(content string) string {
	content = spaceRuns.ReplaceAllString(content, " ")
	content = newlineRuns.ReplaceAllString(content, "\n")

	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
