// The snapshot store keeps the latest known Program snapshot per
// program id in a single JSON document. Every mutation is a whole-file
// read-modify-write; program counts are small, so the O(n) cost is
// acceptable. There is no concurrent-writer protection: two racing
// invocations are last-writer-wins.

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/yotaki/bancheck/internal/models"
)

// Store provides all functions to read and write the programs document.
type Store struct {
	path string
	now  func() time.Time
}

// document is the persisted envelope.
type document struct {
	Programs    []*models.Program `json:"programs"`
	LastUpdated time.Time         `json:"lastUpdated"`
}

// New creates a Store backed by the document at path.
func New(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// LoadAll returns every stored snapshot in file order. A missing
// document is an empty store, not an error; a malformed document is
// always surfaced so corruption cannot be mistaken for emptiness.
func (s *Store) LoadAll() ([]*models.Program, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &models.StorageError{Op: "load programs", Cause: err}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &models.StorageError{Op: "load programs", Cause: fmt.Errorf("parse %s: %w", s.path, err)}
	}
	return doc.Programs, nil
}

// Find returns the snapshot for id, or nil when the id is not stored.
// An absent program is a normal outcome, not an error.
func (s *Store) Find(id string) (*models.Program, error) {
	programs, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, p := range programs {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

// Save stores program, replacing an existing snapshot with the same id
// in place or appending a new one, then rewrites the whole document.
func (s *Store) Save(program *models.Program) error {
	programs, err := s.LoadAll()
	if err != nil {
		return err
	}

	replaced := false
	for i, p := range programs {
		if p.ID == program.ID {
			programs[i] = program
			replaced = true
			break
		}
	}
	if !replaced {
		programs = append(programs, program)
	}

	if err := s.write(programs); err != nil {
		return &models.StorageError{Op: "save program", Cause: err}
	}
	return nil
}

// Delete removes the snapshot for id and rewrites the document.
func (s *Store) Delete(id string) error {
	programs, err := s.LoadAll()
	if err != nil {
		return err
	}

	idx := -1
	for i, p := range programs {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &models.ProgramNotFoundError{ProgramID: id}
	}

	programs = append(programs[:idx], programs[idx+1:]...)
	if err := s.write(programs); err != nil {
		return &models.StorageError{Op: "delete program", Cause: err}
	}
	return nil
}

// ListIDs returns the ids of every stored program in file order.
func (s *Store) ListIDs() ([]string, error) {
	programs, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(programs))
	for _, p := range programs {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// write serializes the full document and replaces the backing file
// atomically via a temp file and rename, so a crash mid-write never
// leaves a truncated document behind.
func (s *Store) write(programs []*models.Program) error {
	if programs == nil {
		programs = []*models.Program{}
	}
	doc := document{Programs: programs, LastUpdated: s.now()}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
