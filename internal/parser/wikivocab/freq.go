package wikivocab

import (
	"regexp"
	"sort"
	"strings"
)

var tokenRe = regexp.MustCompile(`\p{L}{2,}`)

// FrequencyCounter accumulates token counts over article text. Tokens are
// lowercased; single letters are ignored.
type FrequencyCounter struct {
	counts map[string]int
}

// NewFrequencyCounter returns an empty counter.
func NewFrequencyCounter() *FrequencyCounter {
	return &FrequencyCounter{counts: make(map[string]int)}
}

// Add tokenizes text and counts every token.
func (f *FrequencyCounter) Add(text string) {
	for _, tok := range tokenRe.FindAllString(text, -1) {
		f.counts[strings.ToLower(tok)]++
	}
}

// Count returns the occurrences of token seen so far.
func (f *FrequencyCounter) Count(token string) int {
	return f.counts[strings.ToLower(token)]
}

// RankedToken is one row of the frequency ranking.
type RankedToken struct {
	Token string
	Count int
}

// Ranking returns the deterministic frequency ranking.
func (f *FrequencyCounter) Ranking() []RankedToken {
	ranked := make([]RankedToken, 0, len(f.counts))
	for tok, n := range f.counts {
		ranked = append(ranked, RankedToken{Token: tok, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Token < ranked[j].Token
	})
	return ranked
}

// TopN returns the set of the n most frequent tokens.
func (f *FrequencyCounter) TopN(n int) map[string]bool {
	ranked := f.Ranking()
	if n > len(ranked) {
		n = len(ranked)
	}
	top := make(map[string]bool, n)
	for _, rt := range ranked[:n] {
		top[rt.Token] = true
	}
	return top
}
