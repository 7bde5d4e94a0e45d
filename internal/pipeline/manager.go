// Package pipeline models the extraction pipeline as a DAG of named
// stages with declared input and output artifacts, persisted per-stage
// status, content-based skipping and resume-from-failure semantics.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
)

// Stage is one node of the pipeline DAG. Inputs and Outputs are artifact
// paths; Run must only read declared inputs and write declared outputs
// with write-then-rename semantics.
type Stage struct {
	Name    string
	Inputs  []string
	Outputs []string
	Run     func(ctx context.Context) error
}

// RunOptions control one pipeline invocation.
type RunOptions struct {
	// Force reruns every stage regardless of cache.
	Force bool
	// FromStage forces a rerun of the named stage and every descendant.
	FromStage string
}

// StatusRow is one line of the status table.
type StatusRow struct {
	Name   string
	Status StageStatus
	Error  string
}

// Manager executes stages in declaration order (a valid topological order
// of the DAG) and persists state after every transition.
type Manager struct {
	log       *slog.Logger
	stages    []Stage
	statePath string
	state     *State
}

// NewManager loads (or initializes) the state file. An unreadable state
// file is refused: the operator must remove or repair it.
func NewManager(log *slog.Logger, statePath string, stages []Stage) (*Manager, error) {
	state, err := LoadState(statePath)
	if err != nil {
		return nil, err
	}
	return &Manager{log: log, stages: stages, statePath: statePath, state: state}, nil
}

// Status reports the persisted per-stage table in execution order.
func (m *Manager) Status() []StatusRow {
	rows := make([]StatusRow, 0, len(m.stages))
	for _, st := range m.stages {
		ss := m.state.Stages[st.Name]
		if ss.Status == "" {
			ss.Status = StatusPending
		}
		rows = append(rows, StatusRow{Name: st.Name, Status: ss.Status, Error: ss.Error})
	}
	return rows
}

// Run executes the pipeline. A stage is skipped when its outputs are
// cached (§cache rules) or its inputs are missing; otherwise it runs. The
// first stage failure aborts the pipeline after persisting state, so an
// argument-less rerun resumes from the failed stage.
func (m *Manager) Run(ctx context.Context, opts RunOptions) error {
	forced, err := m.forcedSet(opts)
	if err != nil {
		return err
	}

	for _, st := range m.stages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		switch {
		case !forced[st.Name] && m.cached(st):
			m.log.Info("stage cached", slog.String("stage", st.Name))
			m.setStatus(st.Name, StatusSkipped, nil, nil, "")
			continue
		case m.inputsMissing(st):
			m.log.Warn("stage inputs missing, skipping", slog.String("stage", st.Name))
			m.setStatus(st.Name, StatusSkipped, nil, nil, "")
			continue
		}

		start := time.Now().UTC()
		m.setStatus(st.Name, StatusRunning, &start, nil, "")
		m.log.Info("stage started", slog.String("stage", st.Name))

		err := st.Run(ctx)
		end := time.Now().UTC()

		if err != nil {
			m.setStatus(st.Name, StatusFailed, &start, &end, err.Error())
			m.log.Error("stage failed",
				slog.String("stage", st.Name),
				slog.String("error", err.Error()),
				slog.Duration("duration", end.Sub(start)),
			)
			return fmt.Errorf("stage %s: %w", st.Name, err)
		}

		m.setStatus(st.Name, StatusCompleted, &start, &end, "")
		m.log.Info("stage completed",
			slog.String("stage", st.Name),
			slog.Duration("duration", end.Sub(start)),
		)
	}
	return nil
}

// forcedSet resolves RunOptions into the set of stages that must rerun.
func (m *Manager) forcedSet(opts RunOptions) (map[string]bool, error) {
	forced := make(map[string]bool)
	if opts.Force {
		for _, st := range m.stages {
			forced[st.Name] = true
		}
		return forced, nil
	}
	if opts.FromStage == "" {
		return forced, nil
	}

	found := false
	for _, st := range m.stages {
		if st.Name == opts.FromStage {
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownStage, opts.FromStage)
	}

	// The named stage plus every transitive consumer of its outputs.
	dirty := make(map[string]bool)
	for _, st := range m.stages {
		if st.Name == opts.FromStage {
			forced[st.Name] = true
			for _, out := range st.Outputs {
				dirty[out] = true
			}
			continue
		}
		if !forced[st.Name] {
			for _, in := range st.Inputs {
				if dirty[in] {
					forced[st.Name] = true
					break
				}
			}
		}
		if forced[st.Name] {
			for _, out := range st.Outputs {
				dirty[out] = true
			}
		}
	}
	return forced, nil
}

// cached reports whether the stage may be skipped: marked completed or
// skipped in the state, all outputs exist, and no output is older than the
// newest input.
func (m *Manager) cached(st Stage) bool {
	// A cache-skipped stage stays skippable: its outputs were produced by
	// an earlier completed run.
	status := m.state.Stages[st.Name].Status
	if status != StatusCompleted && status != StatusSkipped {
		return false
	}

	var newestInput time.Time
	for _, in := range st.Inputs {
		fi, err := os.Stat(in)
		if err != nil {
			return false
		}
		if fi.ModTime().After(newestInput) {
			newestInput = fi.ModTime()
		}
	}
	for _, out := range st.Outputs {
		fi, err := os.Stat(out)
		if err != nil {
			return false
		}
		if fi.ModTime().Before(newestInput) {
			return false
		}
	}
	return true
}

// inputsMissing reports whether any declared input is absent. Such a stage
// is recorded as skipped without failing the pipeline.
func (m *Manager) inputsMissing(st Stage) bool {
	for _, in := range st.Inputs {
		if _, err := os.Stat(in); err != nil {
			return true
		}
	}
	return false
}

func (m *Manager) setStatus(name string, status StageStatus, start, end *time.Time, errMsg string) {
	prev := m.state.Stages[name]
	ss := StageState{Status: status, StartTime: start, EndTime: end, Error: errMsg}
	if start == nil {
		ss.StartTime = prev.StartTime
	}
	if end == nil && status != StatusRunning {
		ss.EndTime = prev.EndTime
	}
	m.state.Stages[name] = ss

	if err := m.state.Save(m.statePath); err != nil {
		m.log.Error("persist state", slog.String("error", err.Error()))
	}
}
