package domain

// SourceInfo holds the per-source confidence default and conflict priority.
// Priority governs single-valued conflict resolution: higher wins.
type SourceInfo struct {
	Confidence float64
	Priority   int
	Enabled    bool
}

// SourceTable maps every known source tag to its settings. It is built once
// from defaults plus configuration overrides and passed explicitly through
// the pipeline.
type SourceTable map[ProvenanceTag]SourceInfo

// DefaultSourceTable returns the built-in confidence and priority table.
// All sources start enabled.
func DefaultSourceTable() SourceTable {
	return SourceTable{
		SourceIoWiktionary:     {Confidence: 1.0, Priority: 100, Enabled: true},
		SourceEoWiktionary:     {Confidence: 1.0, Priority: 90, Enabled: true},
		SourceIoWikipedia:      {Confidence: 0.9, Priority: 50, Enabled: true},
		SourceEnWiktionaryVia:  {Confidence: 0.8, Priority: 40, Enabled: true},
		SourceFrWiktionaryMean: {Confidence: 0.7, Priority: 35, Enabled: true},
		SourceFrWiktionaryVia:  {Confidence: 0.7, Priority: 30, Enabled: true},
		SourceWikidata:         {Confidence: 0.6, Priority: 20, Enabled: true},
	}
}

// Confidence returns the default confidence for tag, 0 for unknown tags.
func (t SourceTable) Confidence(tag ProvenanceTag) float64 {
	return t[tag].Confidence
}

// Priority returns the conflict priority for tag, 0 for unknown tags.
func (t SourceTable) Priority(tag ProvenanceTag) int {
	return t[tag].Priority
}

// Enabled reports whether the source should contribute to the pipeline.
func (t SourceTable) Enabled(tag ProvenanceTag) bool {
	return t[tag].Enabled
}

// MaxConfidence returns the maximum default confidence over tags.
// Aggregation takes the max, never an average, so repeated merging
// cannot drift.
func (t SourceTable) MaxConfidence(tags []ProvenanceTag) float64 {
	var maxConf float64
	for _, tag := range tags {
		if c := t.Confidence(tag); c > maxConf {
			maxConf = c
		}
	}
	return maxConf
}

// HighestPriority returns the tag with the highest priority among tags.
// Ties keep the earlier tag.
func (t SourceTable) HighestPriority(tags []ProvenanceTag) ProvenanceTag {
	var best ProvenanceTag
	bestPrio := -1
	for _, tag := range tags {
		if p := t.Priority(tag); p > bestPrio {
			best = tag
			bestPrio = p
		}
	}
	return best
}
