package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func countingStage(name string, counter *int, inputs, outputs []string) Stage {
	return Stage{
		Name:    name,
		Inputs:  inputs,
		Outputs: outputs,
		Run: func(context.Context) error {
			*counter++
			for _, out := range outputs {
				if err := WriteTextFile(out, "artifact"); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func TestManagerRunAndResumeCache(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.txt")
	mid := filepath.Join(dir, "mid.txt")
	out := filepath.Join(dir, "out.txt")
	statePath := filepath.Join(dir, "state.yaml")
	touch(t, in)

	var aRuns, bRuns int
	stages := []Stage{
		countingStage("parse", &aRuns, []string{in}, []string{mid}),
		countingStage("build", &bRuns, []string{mid}, []string{out}),
	}

	m, err := NewManager(discardLogger(), statePath, stages)
	require.NoError(t, err)
	require.NoError(t, m.Run(context.Background(), RunOptions{}))
	assert.Equal(t, 1, aRuns)
	assert.Equal(t, 1, bRuns)

	// Second run: everything cached, zero executions.
	m2, err := NewManager(discardLogger(), statePath, stages)
	require.NoError(t, err)
	require.NoError(t, m2.Run(context.Background(), RunOptions{}))
	assert.Equal(t, 1, aRuns)
	assert.Equal(t, 1, bRuns)

	for _, row := range m2.Status() {
		assert.Equal(t, StatusSkipped, row.Status, row.Name)
	}

	// Third run still cached.
	m3, err := NewManager(discardLogger(), statePath, stages)
	require.NoError(t, err)
	require.NoError(t, m3.Run(context.Background(), RunOptions{}))
	assert.Equal(t, 1, aRuns)
	assert.Equal(t, 1, bRuns)
}

func TestManagerForce(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.txt")
	out := filepath.Join(dir, "out.txt")
	statePath := filepath.Join(dir, "state.yaml")
	touch(t, in)

	var runs int
	stages := []Stage{countingStage("only", &runs, []string{in}, []string{out})}

	m, err := NewManager(discardLogger(), statePath, stages)
	require.NoError(t, err)
	require.NoError(t, m.Run(context.Background(), RunOptions{}))
	require.NoError(t, m.Run(context.Background(), RunOptions{Force: true}))
	assert.Equal(t, 2, runs)
}

func TestManagerFromStageRerunsDescendants(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.txt")
	mid := filepath.Join(dir, "mid.txt")
	out := filepath.Join(dir, "out.txt")
	other := filepath.Join(dir, "other.txt")
	statePath := filepath.Join(dir, "state.yaml")
	touch(t, in)

	var aRuns, bRuns, cRuns int
	stages := []Stage{
		countingStage("parse", &aRuns, []string{in}, []string{mid}),
		countingStage("unrelated", &cRuns, []string{in}, []string{other}),
		countingStage("build", &bRuns, []string{mid}, []string{out}),
	}

	m, err := NewManager(discardLogger(), statePath, stages)
	require.NoError(t, err)
	require.NoError(t, m.Run(context.Background(), RunOptions{}))

	m2, err := NewManager(discardLogger(), statePath, stages)
	require.NoError(t, err)
	require.NoError(t, m2.Run(context.Background(), RunOptions{FromStage: "parse"}))

	assert.Equal(t, 2, aRuns, "forced stage reruns")
	assert.Equal(t, 2, bRuns, "descendant reruns")
	assert.Equal(t, 1, cRuns, "unrelated stage stays cached")
}

func TestManagerUnknownFromStage(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(discardLogger(), filepath.Join(dir, "state.yaml"), nil)
	require.NoError(t, err)

	err = m.Run(context.Background(), RunOptions{FromStage: "nope"})
	assert.Error(t, err)
}

func TestManagerFailureAbortsAndResumes(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.txt")
	mid := filepath.Join(dir, "mid.txt")
	out := filepath.Join(dir, "out.txt")
	statePath := filepath.Join(dir, "state.yaml")
	touch(t, in)

	boom := errors.New("boom")
	fail := true
	var downstreamRuns int

	stages := []Stage{
		{
			Name:    "flaky",
			Inputs:  []string{in},
			Outputs: []string{mid},
			Run: func(context.Context) error {
				if fail {
					return boom
				}
				return WriteTextFile(mid, "ok")
			},
		},
		countingStage("after", &downstreamRuns, []string{mid}, []string{out}),
	}

	m, err := NewManager(discardLogger(), statePath, stages)
	require.NoError(t, err)

	err = m.Run(context.Background(), RunOptions{})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, downstreamRuns, "no partial downstream execution")

	rows := m.Status()
	assert.Equal(t, StatusFailed, rows[0].Status)
	assert.Equal(t, "boom", rows[0].Error)

	// Resume without arguments: failed stage reruns.
	fail = false
	m2, err := NewManager(discardLogger(), statePath, stages)
	require.NoError(t, err)
	require.NoError(t, m2.Run(context.Background(), RunOptions{}))
	assert.Equal(t, 1, downstreamRuns)
}

func TestManagerMissingInputSkips(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.yaml")

	var runs int
	stages := []Stage{
		countingStage("needy", &runs, []string{filepath.Join(dir, "absent.txt")}, []string{filepath.Join(dir, "out.txt")}),
	}

	m, err := NewManager(discardLogger(), statePath, stages)
	require.NoError(t, err)
	require.NoError(t, m.Run(context.Background(), RunOptions{}))
	assert.Equal(t, 0, runs)
	assert.Equal(t, StatusSkipped, m.Status()[0].Status)
}

func TestStateCorruptRefused(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.yaml")
	require.NoError(t, os.WriteFile(statePath, []byte("{not yaml: ["), 0o644))

	_, err := NewManager(discardLogger(), statePath, nil)
	assert.Error(t, err)
}

func TestStatePreservesUnknownStages(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.yaml")

	s := &State{Stages: map[string]StageState{
		"legacy": {Status: StatusCompleted},
	}}
	require.NoError(t, s.Save(statePath))

	loaded, err := LoadState(statePath)
	require.NoError(t, err)
	loaded.Stages["current"] = StageState{Status: StatusFailed, Error: "x"}
	require.NoError(t, loaded.Save(statePath))

	again, err := LoadState(statePath)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, again.Stages["legacy"].Status)
	assert.Equal(t, StatusFailed, again.Stages["current"].Status)
}

func TestJSONLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.jsonl")

	type rec struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}
	in := []rec{{"a", 1}, {"b", 2}}
	require.NoError(t, WriteJSONL(path, in))

	out, err := ReadJSONL[rec](path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestJSONLWriterAbortKeepsOldArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.jsonl")
	require.NoError(t, WriteTextFile(path, "old"))

	w, err := NewJSONLWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(map[string]int{"x": 1}))
	w.Abort()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}
