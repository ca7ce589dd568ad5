package runner

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrStateNotFound is returned when no persisted run state exists yet.
var ErrStateNotFound = errors.New("runner: state not found")

// StateStore persists run state snapshots.
type StateStore interface {
	Load() (State, error)
	Save(State) error
}

// Repository stores run state as JSON inside the runs directory.
type Repository struct {
	path string
}

// NewRepository creates a repository rooted at the given runs directory.
func NewRepository(runsDir string) *Repository {
	return &Repository{path: filepath.Join(runsDir, "state.json")}
}

// Load reads the persisted state if present.
func (r *Repository) Load() (State, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, ErrStateNotFound
		}
		return State{}, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, err
	}
	return state, nil
}

// Save writes the run state to disk. The write goes through a temp file and
// a rename so concurrent readers never observe a partially written snapshot.
func (r *Repository) Save(state State) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	encoded, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "state-*.json.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(append(encoded, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

// NopStore discards saves and never finds state. Used when persistence is
// disabled.
type NopStore struct{}

// Load implements StateStore.
func (NopStore) Load() (State, error) {
	return State{}, ErrStateNotFound
}

// Save implements StateStore.
func (NopStore) Save(State) error {
	return nil
}
