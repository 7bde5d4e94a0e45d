// Package wikitext strips MediaWiki markup from lemma and translation
// candidates and validates cleaned lemmas. All regexes are compiled once at
// package init; hot paths only call precompiled patterns.
package wikitext

import (
	"regexp"
	"strings"
)

var (
	numberedPrefixRe = regexp.MustCompile(`^\s*(?:'''\d+\.'''|\d+\.)\s*`)
	boldItalicRe     = regexp.MustCompile(`'{2,3}`)
	wikiLinkRe       = regexp.MustCompile(`\[\[(?:[^|\]]*\|)?([^\]]*)\]\]`)
	templateRe       = regexp.MustCompile(`\{\{([^{}]*)\}\}`)
	langIndicatorRe  = regexp.MustCompile(`\s*\([a-z]{2,3}\)\s*$`)
	genderSymbolRe   = regexp.MustCompile(`\(?'{0,2}[♀♂]'{0,2}\)?`)
	multiSpaceRe     = regexp.MustCompile(`\s{2,}`)
)

// edgePunct is trimmed from both ends of a cleaned string. Hyphens are
// deliberately kept: Ido affix lemmas like "-ala" are legitimate.
const edgePunct = ".,;:!?*#%()\"'«»„“”"

// Clean transforms a candidate lemma or translation term by stripping wiki
// markup in a fixed order. The result may be empty; callers must validate.
func Clean(s string) string {
	if s == "" {
		return ""
	}

	// Numbered-definition prefix: '''1.''' or 1. at the start.
	s = numberedPrefixRe.ReplaceAllString(s, "")

	// Bold and italic quoting.
	s = boldItalicRe.ReplaceAllString(s, "")

	// Numbered prefix again, in case it was hidden inside bold markup.
	s = numberedPrefixRe.ReplaceAllString(s, "")

	// Wiki links: [[target|display]] -> display, [[target]] -> target.
	s = wikiLinkRe.ReplaceAllString(s, "$1")

	// Templates, innermost first so nested constructs resolve bottom-up.
	for templateRe.MatchString(s) {
		prev := s
		s = templateRe.ReplaceAllStringFunc(s, expandTemplate)
		if s == prev {
			break
		}
	}

	// Gender symbols.
	s = genderSymbolRe.ReplaceAllString(s, "")

	// Trailing language indicator like " (io)".
	s = langIndicatorRe.ReplaceAllString(s, "")

	// Whitespace and edge punctuation.
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = strings.Trim(s, edgePunct)
	s = strings.TrimSpace(s)

	return s
}

// CleanAll cleans each candidate and drops the ones that come back empty.
func CleanAll(candidates []string) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if cleaned := Clean(c); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
