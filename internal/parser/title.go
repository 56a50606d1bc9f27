package parser

import (
	"regexp"
	"strings"
)

// DefaultTitle is used when nothing is left of a line after stripping its time and markers.
const DefaultTitle = "Work item"

// listMarker matches leading bullets ("-", "*") and numbering ("1.", "2)").
// Bare digits are left alone so times like "25:00" survive intact.
var listMarker = regexp.MustCompile(`^(?:[-*\s]|\d+[.)])+`)

// ExtractTitle removes the span of m (if any) and a leading bullet or
// numbering prefix from line.
func ExtractTitle(line string, m *TimeMatch) string {
	if m != nil {
		line = strings.TrimSpace(line[:m.Start]) + " " + strings.TrimSpace(line[m.End:])
	}
	title := strings.TrimSpace(listMarker.ReplaceAllString(strings.TrimSpace(line), ""))
	if title == "" {
		return DefaultTitle
	}
	return title
}
