package project

import (
	"regexp"
	"strings"
)

var hrefPattern = regexp.MustCompile(`href="([^"]+)"`)

// CleanLink extracts the target of an HTML anchor, or returns the trimmed
// value when it is already a bare URL.
func CleanLink(link string) string {
	if link == "" {
		return ""
	}
	if m := hrefPattern.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	return strings.TrimSpace(link)
}
