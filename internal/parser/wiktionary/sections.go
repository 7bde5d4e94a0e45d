package wiktionary

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	h2Re = regexp.MustCompile(`(?m)^==([^=].*?)==\s*$`)
	h3Re = regexp.MustCompile(`(?m)^===+([^=].*?)===+\s*$`)

	langueTemplateRe = regexp.MustCompile(`\{\{langue\|([a-z]{2,3})\}\}`)

	senseNumberRe = regexp.MustCompile(`'''(\d+)\.'''\s*`)
)

// languageSectionNames maps a dump language code to the header names that
// open its own-language section.
var languageSectionNames = map[string][]string{
	"io": {"Ido", "{{io}}"},
	"eo": {"Esperanto", "{{eo}}"},
	"en": {"English"},
	"fr": {"Français", "français"},
}

// LanguageSection returns the slice of text belonging to the language
// section of sourceLang, or "" when the page has no such section. Ido and
// Esperanto dumps use plain `== Ido ==` headers; French uses
// `== {{langue|fr}} ==`; English uses `==English==`.
func LanguageSection(text, sourceLang string) string {
	locs := h2Re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		// Pages without any level-2 header are treated as one unnamed
		// section; only the dump's own language may claim them.
		if sourceLang == "io" {
			return text
		}
		return ""
	}

	for i, loc := range locs {
		header := strings.TrimSpace(text[loc[2]:loc[3]])
		if !headerMatchesLanguage(header, sourceLang) {
			continue
		}
		start := loc[1]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		return text[start:end]
	}
	return ""
}

func headerMatchesLanguage(header, sourceLang string) bool {
	if m := langueTemplateRe.FindStringSubmatch(header); m != nil {
		return m[1] == sourceLang
	}
	for _, name := range languageSectionNames[sourceLang] {
		if strings.EqualFold(header, name) {
			return true
		}
	}
	return false
}

// Subsection is one POS subsection of a language section.
type Subsection struct {
	Header string
	Body   string
}

// Subsections splits a language section on level-3 headers. Text before the
// first header is returned as a subsection with an empty header so pages
// without POS subsections still yield their translations.
func Subsections(section string) []Subsection {
	locs := h3Re.FindAllStringSubmatchIndex(section, -1)
	if len(locs) == 0 {
		return []Subsection{{Body: section}}
	}

	var subs []Subsection
	if lead := section[:locs[0][0]]; strings.TrimSpace(lead) != "" {
		subs = append(subs, Subsection{Body: lead})
	}
	for i, loc := range locs {
		end := len(section)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		subs = append(subs, Subsection{
			Header: strings.TrimSpace(section[loc[2]:loc[3]]),
			Body:   section[loc[1]:end],
		})
	}
	return subs
}

// SenseBlock is one numbered meaning inside a subsection.
type SenseBlock struct {
	ID    string // "1", "2", ...; "" for the implicit single sense
	Gloss string
	Body  string
}

// SenseBlocks splits a subsection body into numbered sense blocks. Senses
// are opened by '''N.''' markers or by definition-list lines starting with
// '#'. A body without markers is one implicit sense.
func SenseBlocks(body string) []SenseBlock {
	marks := senseNumberRe.FindAllStringSubmatchIndex(body, -1)
	if len(marks) > 0 {
		var blocks []SenseBlock
		for i, m := range marks {
			end := len(body)
			if i+1 < len(marks) {
				end = marks[i+1][0]
			}
			id := body[m[2]:m[3]]
			block := body[m[1]:end]
			blocks = append(blocks, SenseBlock{
				ID:    id,
				Gloss: firstDefinitionLine(block),
				Body:  block,
			})
		}
		return blocks
	}

	// Definition-list style: each top-level "# ..." line is one sense,
	// carrying the lines up to the next definition.
	lines := strings.Split(body, "\n")
	var blocks []SenseBlock
	var current *SenseBlock
	var rest []string

	flush := func() {
		if current != nil {
			current.Body = strings.Join(rest, "\n")
			blocks = append(blocks, *current)
		}
		current = nil
		rest = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && !strings.HasPrefix(trimmed, "#:") && !strings.HasPrefix(trimmed, "#*") {
			flush()
			current = &SenseBlock{
				ID:    "",
				Gloss: strings.TrimSpace(strings.TrimLeft(trimmed, "#")),
			}
			continue
		}
		rest = append(rest, line)
	}
	flush()

	if len(blocks) == 0 {
		return []SenseBlock{{Body: body}}
	}
	for i := range blocks {
		blocks[i].ID = numberedID(i)
	}
	return blocks
}

func numberedID(i int) string {
	return strconv.Itoa(i + 1)
}

// firstDefinitionLine returns the text of the sense's first line, used as
// the gloss.
func firstDefinitionLine(block string) string {
	line := block
	if idx := strings.IndexByte(block, '\n'); idx >= 0 {
		line = block[:idx]
	}
	return strings.TrimSpace(line)
}
