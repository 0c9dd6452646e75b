package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func CollapseWhitespace(s string) string {
	s = strings.Trim(s, " \n\t")
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// FirstLine returns the text before the first newline, trimmed.
// Cells scraped off the portal sometimes carry a second line with
// an annotation that callers need to discard.
func FirstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.Trim(line, " \n\t\r")
}
