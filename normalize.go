package heritage

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalization rules, applied in order.
var (
	whitespaceRe = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)
	lineBreakRe  = regexp.MustCompile(`(?i)<\s*br\s*/?\s*>`)
	newlinesRe   = regexp.MustCompile(` *\n[ \n]*`)
)

// maxFragmentQuote bounds how much of a bad fragment is quoted in errors.
const maxFragmentQuote = 40

// Normalize cleans an HTML text fragment into a human-readable string.
//
// Runs of whitespace (including newlines) collapse to a single space, every
// <br>, <BR/> or < br / > marker becomes a newline, runs of newlines (and the
// spaces between them) collapse to one newline, and the result is trimmed.
//
// Normalize is idempotent: a string already in normal form is returned
// unchanged, so the newlines produced by line-break markers survive a second
// pass.
//
// Fragments that are not valid UTF-8 return an ENORMALIZE error.
func Normalize(fragment string) (string, error) {
	if !utf8.ValidString(fragment) {
		return "", Errorf(ENORMALIZE, "invalid UTF-8 in fragment %q", quoteFragment(fragment))
	}
	if isNormalized(fragment) {
		return fragment, nil
	}

	s := whitespaceRe.ReplaceAllString(fragment, " ")
	s = lineBreakRe.ReplaceAllString(s, "\n")
	s = newlinesRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s), nil
}

// isNormalized reports whether s is a fixed point of Normalize: no line-break
// markup, no whitespace other than single spaces and single newlines, no
// space next to a newline, and nothing to trim.
func isNormalized(s string) bool {
	if s == "" {
		return true
	}
	if lineBreakRe.MatchString(s) {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return false
	}

	prevSpace := false
	for _, r := range s {
		if !unicode.IsSpace(r) {
			prevSpace = false
			continue
		}
		if (r != ' ' && r != '\n') || prevSpace {
			return false
		}
		prevSpace = true
	}
	return true
}

// quoteFragment shortens a fragment for display in error messages.
func quoteFragment(s string) string {
	if len(s) <= maxFragmentQuote {
		return s
	}
	return s[:maxFragmentQuote] + "..."
}
