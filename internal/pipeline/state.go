package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/idolinguo/idoeo-extractor/internal/domain"
)

// StageStatus is the persisted lifecycle state of one stage.
type StageStatus string

const (
	StatusPending   StageStatus = "pending"
	StatusRunning   StageStatus = "running"
	StatusCompleted StageStatus = "completed"
	StatusFailed    StageStatus = "failed"
	StatusSkipped   StageStatus = "skipped"
)

// StageState is one row of the state file.
type StageState struct {
	Status    StageStatus `yaml:"status"`
	StartTime *time.Time  `yaml:"start_time,omitempty"`
	EndTime   *time.Time  `yaml:"end_time,omitempty"`
	Error     string      `yaml:"error,omitempty"`
}

// State is the persisted pipeline state. Stages not known to this build
// are retained verbatim on save.
type State struct {
	LastUpdate time.Time             `yaml:"last_update"`
	Stages     map[string]StageState `yaml:"stages"`
}

// LoadState reads the state file. A missing file yields a fresh state; an
// unreadable one is ErrStateCorrupt and the operator must remove or repair
// it before the pipeline will run.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &State{Stages: make(map[string]StageState)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStateCorrupt, path, err)
	}

	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrStateCorrupt, path, err)
	}
	if s.Stages == nil {
		s.Stages = make(map[string]StageState)
	}
	return &s, nil
}

// Save writes the state atomically: temp file in the same directory, then
// rename.
func (s *State) Save(path string) error {
	s.LastUpdate = time.Now().UTC()

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.yaml")
	if err != nil {
		return fmt.Errorf("temp state file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}
