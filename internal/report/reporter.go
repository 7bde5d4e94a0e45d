// Package report renders the human-readable statistics, coverage and
// conflict audits emitted at the end of a pipeline run.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/idolinguo/idoeo-extractor/internal/bidix"
	"github.com/idolinguo/idoeo-extractor/internal/domain"
	"github.com/idolinguo/idoeo-extractor/internal/merge"
	"github.com/idolinguo/idoeo-extractor/internal/parser/wikivocab"
)

// Rejections aggregates every category a dropped entry can land in, so
// the statistics report accounts for all of them.
type Rejections struct {
	InvalidLemmas     int
	SchemaViolations  int
	FrequencyGated    int
	DuplicatesRemoved int
}

// Statistics renders entry counts by source, part of speech and paradigm,
// plus the rejection categories.
func Statistics(entries []domain.Entry, surface []bidix.SurfaceEntry, rej Rejections) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Dictionary statistics\n")
	fmt.Fprintf(&b, "=====================\n\n")
	fmt.Fprintf(&b, "Entries:         %d\n", len(entries))
	fmt.Fprintf(&b, "Surface entries: %d\n\n", len(surface))

	bySource := map[domain.ProvenanceTag]int{}
	for i := range entries {
		for _, tag := range entries[i].Provenance {
			bySource[tag]++
		}
	}
	b.WriteString("By source:\n")
	for _, tag := range domain.AllProvenanceTags() {
		if n, ok := bySource[tag]; ok {
			fmt.Fprintf(&b, "  %-24s %d\n", tag, n)
		}
	}

	byPOS := lo.CountValuesBy(entries, func(e domain.Entry) domain.PartOfSpeech { return e.POS })
	b.WriteString("\nBy part of speech:\n")
	writeSortedCounts(&b, byPOS)

	byParadigm := lo.CountValuesBy(entries, func(e domain.Entry) domain.ParadigmID { return e.Morphology.Paradigm })
	b.WriteString("\nBy paradigm:\n")
	writeSortedCounts(&b, byParadigm)

	b.WriteString("\nRejections:\n")
	fmt.Fprintf(&b, "  %-24s %d\n", "invalid_lemma", rej.InvalidLemmas)
	fmt.Fprintf(&b, "  %-24s %d\n", "schema_violation", rej.SchemaViolations)
	fmt.Fprintf(&b, "  %-24s %d\n", "frequency_gated", rej.FrequencyGated)
	fmt.Fprintf(&b, "  %-24s %d\n", "duplicate", rej.DuplicatesRemoved)

	return b.String()
}

func writeSortedCounts[K ~string](b *strings.Builder, counts map[K]int) {
	keys := lo.Keys(counts)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		name := string(k)
		if name == "" {
			name = "(none)"
		}
		fmt.Fprintf(b, "  %-24s %d\n", name, counts[k])
	}
}

// Coverage renders how much of the top-N frequency list the final
// dictionary covers, and which high-frequency lemmas are missing.
func Coverage(entries []domain.Entry, ranking []wikivocab.RankedToken, topN int) string {
	if topN > len(ranking) {
		topN = len(ranking)
	}

	have := make(map[string]bool, len(entries))
	for i := range entries {
		have[strings.ToLower(entries[i].Lemma)] = true
	}

	var missing []string
	covered := 0
	for _, rt := range ranking[:topN] {
		if have[rt.Token] {
			covered++
		} else {
			missing = append(missing, rt.Token)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Frequency coverage (top %d)\n", topN)
	fmt.Fprintf(&b, "===========================\n\n")
	if topN > 0 {
		fmt.Fprintf(&b, "Covered: %d/%d (%.1f%%)\n\n", covered, topN, 100*float64(covered)/float64(topN))
	} else {
		b.WriteString("Covered: 0/0\n\n")
	}
	b.WriteString("Missing high-frequency lemmas:\n")
	for _, m := range missing {
		fmt.Fprintf(&b, "  %s\n", m)
	}
	return b.String()
}

// Conflicts renders the conflict audit grouped by kind.
func Conflicts(conflicts []merge.Conflict) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conflict audit\n")
	fmt.Fprintf(&b, "==============\n\n")
	fmt.Fprintf(&b, "Total: %d\n", len(conflicts))

	byKind := lo.GroupBy(conflicts, func(c merge.Conflict) merge.ConflictKind { return c.Kind })
	kinds := lo.Keys(byKind)
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, kind := range kinds {
		fmt.Fprintf(&b, "\n%s (%d):\n", kind, len(byKind[kind]))
		for _, c := range byKind[kind] {
			fmt.Fprintf(&b, "  %s/%s: %s\n", c.Language, c.Lemma, c.Detail)
		}
	}
	return b.String()
}
