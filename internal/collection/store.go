package collection

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PersistenceError wraps a failure to read or write a collection record.
type PersistenceError struct {
	Path string
	Op   string // "load" or "save"
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store persists collection records as JSON files under a data directory.
type Store struct {
	dataDir string
}

func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// Path returns the state file location for a collection.
func (s *Store) Path(spec Spec) string {
	return filepath.Join(s.dataDir, spec.StateFile)
}

// Load reads a collection record. The on-disk format is a bare JSON array
// of movie objects, the same shape the earlier script wrote, so existing
// state files keep working. A missing file is an empty record, not an
// error: first run starts from nothing. Files holding a bare array of
// titles are accepted and upgraded on the next Save.
func (s *Store) Load(spec Spec) (*Record, error) {
	path := s.Path(spec)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Record{}, nil
		}
		return nil, &PersistenceError{Path: path, Op: "load", Err: err}
	}

	var movies []MovieRef
	if err := json.Unmarshal(data, &movies); err == nil {
		return &Record{Movies: movies}, nil
	}

	var legacy []string
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, &PersistenceError{Path: path, Op: "load",
			Err: fmt.Errorf("unrecognized state format: %w", err)}
	}
	var rec Record
	for _, title := range legacy {
		rec.Append(MovieRef{Title: title})
	}
	return &rec, nil
}

// Save writes a collection record atomically: the JSON is written to a
// temp file in the same directory, synced, then renamed over the state
// file. A crash mid-write leaves the previous state intact.
func (s *Store) Save(spec Spec, rec *Record) error {
	path := s.Path(spec)

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return &PersistenceError{Path: path, Op: "save", Err: err}
	}

	movies := rec.Movies
	if movies == nil {
		movies = []MovieRef{}
	}
	data, err := json.MarshalIndent(movies, "", "  ")
	if err != nil {
		return &PersistenceError{Path: path, Op: "save", Err: err}
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dataDir, spec.StateFile+".tmp-*")
	if err != nil {
		return &PersistenceError{Path: path, Op: "save", Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &PersistenceError{Path: path, Op: "save", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &PersistenceError{Path: path, Op: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &PersistenceError{Path: path, Op: "save", Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &PersistenceError{Path: path, Op: "save", Err: err}
	}

	return nil
}
