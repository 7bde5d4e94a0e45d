package domain

import "errors"

// Sentinel errors used across all layers.
var (
	// ErrMalformedDump means the outer structure of an input dump is
	// unrecoverable (unreadable bz2, truncated XML root, bad SQL block).
	ErrMalformedDump = errors.New("malformed dump")

	// ErrStateCorrupt means the pipeline state file exists but cannot be
	// read. The pipeline refuses to run until the operator removes or
	// repairs it.
	ErrStateCorrupt = errors.New("state file corrupt")

	// ErrValidation marks a cleaned lemma or term the validator rejected.
	ErrValidation = errors.New("validation error")

	// ErrUnknownStage is returned when from_stage names no pipeline stage.
	ErrUnknownStage = errors.New("unknown stage")

	// ErrNotFound is returned by the dictionary store for missing lemmas.
	ErrNotFound = errors.New("not found")
)
