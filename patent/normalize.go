package patent

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Mode selects how whitespace is normalized before extraction.
type Mode string

const (
	// Collapse turns every whitespace run, newlines included, into one space.
	Collapse Mode = "collapse"
	// Lines collapses whitespace inside each line but keeps line breaks.
	Lines Mode = "lines"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	horizontalRun = regexp.MustCompile(`[^\S\n]+`)
)

// Normalize prepares raw OCR text for the rule table. With nfkc set,
// compatibility characters OCR tends to emit (ligatures, no-break spaces,
// full-width digits) are folded first.
//
// Collapse mode is lossy: rules that anchor on line breaks never match its
// output.
func Normalize(text string, mode Mode, nfkc bool) string {
	if nfkc {
		text = norm.NFKC.String(text)
	}
	if mode == Lines {
		return normalizeLines(text)
	}
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(text), " ")
}

func normalizeLines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(horizontalRun.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
