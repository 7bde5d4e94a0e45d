package wikitext

import (
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text unchanged",
			in:   "hundo",
			want: "hundo",
		},
		{
			name: "empty string",
			in:   "",
			want: "",
		},
		{
			name: "numbered prefix with language indicator",
			in:   "'''1.''' tu (io)",
			want: "tu",
		},
		{
			name: "bold wiki link keeps display text",
			in:   "'''[[altra|ALTRA]]'''",
			want: "ALTRA",
		},
		{
			name: "translation template plus qualifier",
			in:   "{{tr|io|hundo}} {{qualifier|common}}",
			want: "hundo common",
		},
		{
			name: "bold stripped",
			in:   "'''abelo'''",
			want: "abelo",
		},
		{
			name: "italic stripped",
			in:   "''abelo''",
			want: "abelo",
		},
		{
			name: "bare numbered prefix",
			in:   "2. kato",
			want: "kato",
		},
		{
			name: "wiki link without display",
			in:   "[[hundo]]",
			want: "hundo",
		},
		{
			name: "wiki link with display",
			in:   "[[hundo|hundi]]",
			want: "hundi",
		},
		{
			name: "language code template removed",
			in:   "{{io}} hundo",
			want: "hundo",
		},
		{
			name: "zero argument template removed",
			in:   "{{shablono}} vorto",
			want: "vorto",
		},
		{
			name: "single argument template unwrapped",
			in:   "{{substantivo|domo}}",
			want: "domo",
		},
		{
			name: "t-check skipped",
			in:   "{{t-check|eo|dubinda}}",
			want: "",
		},
		{
			name: "gender symbol removed",
			in:   "kato (''♀'')",
			want: "kato",
		},
		{
			name: "leading star trimmed",
			in:   "* hundo",
			want: "hundo",
		},
		{
			name: "whitespace collapsed",
			in:   "  granda   hundo  ",
			want: "granda hundo",
		},
		{
			name: "hyphen kept at edges",
			in:   "-ala",
			want: "-ala",
		},
		{
			name: "trailing punctuation trimmed",
			in:   "hundo.",
			want: "hundo",
		},
		{
			name: "nested template resolves innermost first",
			in:   "{{t|eo|{{l|eo|hundo}}}}",
			want: "hundo",
		},
		{
			name: "esperanto diacritics survive",
			in:   "'''ĉevalo'''",
			want: "ĉevalo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanAll(t *testing.T) {
	got := CleanAll([]string{"'''hundo'''", "{{t-needed|eo}}", "[[kato]]"})
	if len(got) != 2 || got[0] != "hundo" || got[1] != "kato" {
		t.Errorf("CleanAll = %v", got)
	}
}

func TestIsValidLemma(t *testing.T) {
	tests := []struct {
		name  string
		lemma string
		want  bool
	}{
		{"ordinary lemma", "hundo", true},
		{"two letters", "tu", true},
		{"single letter rejected", "a", false},
		{"empty rejected", "", false},
		{"unresolved bold rejected", "'''abelo", false},
		{"unresolved link rejected", "[[hundo", false},
		{"unresolved template rejected", "{{hundo}}", false},
		{"leading digit rejected", "1hundo", false},
		{"leading paren rejected", "(hundo)", false},
		{"esperanto diacritic accepted", "ĉaro", true},
		{"short colon accepted", "ab:cd", true},
		{"long title with colon rejected", "Kategorio: tre longa artiklo-titulo pri kozo", false},
		{"acronym rejected", "UNESCO", false},
		{"short uppercase accepted", "NATO", true},
		{"proper noun accepted", "Parizo", true},
		{"hyphenated accepted", "bel-arto", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidLemma(tt.lemma); got != tt.want {
				t.Errorf("IsValidLemma(%q) = %v, want %v", tt.lemma, got, tt.want)
			}
		})
	}
}

func TestIsValidOrganizationLemma(t *testing.T) {
	if !IsValidOrganizationLemma("UNESCO") {
		t.Error("organization acronyms should be accepted")
	}
	if IsValidOrganizationLemma("x") {
		t.Error("length rule still applies to organizations")
	}
}

func TestStripAnnotations(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{{qualifier|rare}} hundo", " hundo"},
		{"hundo {{q|formal}}", "hundo "},
		{"{{lb|en|zoology}} kato", " kato"},
		{"{{t|eo|hundo}}", "{{t|eo|hundo}}"},
	}
	for _, tt := range tests {
		if got := StripAnnotations(tt.in); got != tt.want {
			t.Errorf("StripAnnotations(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractTemplateWords(t *testing.T) {
	in := "* Esperanto: {{t|eo|hundo}}, {{t+|eo|ĉaro}}, {{t-check|eo|dubinda}}, {{trad|io|kato}}"
	got := ExtractTemplateWords(in)

	want := []TemplateWord{
		{Lang: "eo", Word: "hundo"},
		{Lang: "eo", Word: "ĉaro"},
		{Lang: "io", Word: "kato"},
	}
	if len(got) != len(want) {
		t.Fatalf("ExtractTemplateWords = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
