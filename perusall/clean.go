// Package perusall recovers readable text from raw Perusall annotation
// exports, which arrive as serialized widget dumps rather than plain prose.
package perusall

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	strField  = regexp.MustCompile(`'str':\s*'([^']*)'`)
	spaceRuns = regexp.MustCompile(`\s+`)
	sentences = regexp.MustCompile(`\. ([A-Z])`)
)

// Clean extracts the 'str' segments from a raw export, normalizes spacing and
// restores paragraph breaks at sentence boundaries.
func Clean(raw string) string {
	matches := strField.FindAllStringSubmatch(raw, -1)

	pieces := make([]string, 0, len(matches))
	for _, m := range matches {
		if text := strings.TrimSpace(m[1]); text != "" {
			pieces = append(pieces, text)
		}
	}

	res := strings.Join(pieces, " ")
	res = strings.TrimSpace(spaceRuns.ReplaceAllString(res, " "))

	return sentences.ReplaceAllString(res, ".\n\n$1")
}

// OutputPath derives the default destination for a cleaned export,
// e.g. export.perusall -> export_cleaned.perusall.
func OutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_cleaned" + ext
}
