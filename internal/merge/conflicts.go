package merge

import "github.com/idolinguo/idoeo-extractor/internal/domain"

// ConflictKind labels one row of the conflicts report.
type ConflictKind string

const (
	ConflictPOS       ConflictKind = "pos_conflict"
	ConflictParadigm  ConflictKind = "paradigm_conflict"
	ConflictDuplicate ConflictKind = "duplicate_translation"
)

// Conflict is one audit row. Conflicts never fail the pipeline; they are
// collected for the report.
type Conflict struct {
	Kind     ConflictKind    `json:"kind"`
	Language domain.Language `json:"language"`
	Lemma    string          `json:"lemma"`
	Detail   string          `json:"detail"`
}
