package config

import (
	"fmt"
	"strings"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
)

// Validate checks cross-field constraints and the source override list.
func (c *Config) Validate() error {
	var errs []string

	if c.Pipeline.WikiTopN <= 0 {
		errs = append(errs, "pipeline.wiki_top_n must be positive")
	}
	if c.Pipeline.ProgressEvery <= 0 {
		errs = append(errs, "pipeline.progress_every must be positive")
	}
	if c.Pipeline.Workers < 0 {
		errs = append(errs, "pipeline.workers must not be negative")
	}
	if c.Pipeline.WorkDir == "" {
		errs = append(errs, "pipeline.work_dir must be set")
	}
	if c.Pipeline.OutDir == "" {
		errs = append(errs, "pipeline.out_dir must be set")
	}

	for _, src := range c.Sources {
		if !domain.ProvenanceTag(src.Tag).IsValid() {
			errs = append(errs, fmt.Sprintf("sources: unknown tag %q", src.Tag))
		}
		if src.Confidence != nil && (*src.Confidence < 0 || *src.Confidence > 1) {
			errs = append(errs, fmt.Sprintf("sources: %s confidence must be in [0,1]", src.Tag))
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q not recognized", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// SourceTable builds the effective source table: built-in defaults with
// the configured overrides applied.
func (c *Config) SourceTable() domain.SourceTable {
	table := domain.DefaultSourceTable()
	for _, src := range c.Sources {
		tag := domain.ProvenanceTag(src.Tag)
		info, ok := table[tag]
		if !ok {
			continue
		}
		if src.Enabled != nil {
			info.Enabled = *src.Enabled
		}
		if src.Priority != nil {
			info.Priority = *src.Priority
		}
		if src.Confidence != nil {
			info.Confidence = *src.Confidence
		}
		table[tag] = info
	}
	return table
}
