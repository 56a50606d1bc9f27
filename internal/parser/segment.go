package parser

import (
	"regexp"
	"strings"
)

var lineBreaks = regexp.MustCompile(`\n+`)

// SplitLines splits raw log text into trimmed, non-empty lines in source order.
func SplitLines(raw string) []string {
	parts := lineBreaks.Split(raw, -1)
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		lines = append(lines, p)
	}
	return lines
}
