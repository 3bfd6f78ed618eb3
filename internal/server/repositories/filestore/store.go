// Package filestore implements the user, clip and usage repositories on top
// of a single JSON document on local disk. Every read-modify-write runs under
// one in-process mutex; the file is replaced atomically on each write.
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/natorvoice/natorvoice/internal/filex"
	"github.com/natorvoice/natorvoice/internal/server/models"
)

// document is the on-disk layout.
type document struct {
	Users          map[string]models.User   `json:"users"`
	UserByEmail    map[string]string        `json:"userByEmail"`
	ClipsByUser    map[string][]models.Clip `json:"clipsByUser"`
	UsageByUserDay map[string]int           `json:"usageByUserDay"`
}

func emptyDocument() *document {
	return &document{
		Users:          map[string]models.User{},
		UserByEmail:    map[string]string{},
		ClipsByUser:    map[string][]models.Clip{},
		UsageByUserDay: map[string]int{},
	}
}

// Store owns the JSON document. Use Users, Clips and Usage to get the
// repository views.
type Store struct {
	path string
	mu   sync.Mutex
}

// Open prepares a store at path, creating the parent directory.
func Open(path string) (*Store, error) {
	if _, err := filex.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return &Store{path: path}, nil
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

// Users returns the user repository backed by s.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Clips returns the clip repository backed by s.
func (s *Store) Clips() *ClipRepository { return &ClipRepository{s: s} }

// Usage returns the usage repository backed by s.
func (s *Store) Usage() *UsageRepository { return &UsageRepository{s: s} }

// read loads the document. A missing or unreadable file reads as empty.
// Callers hold s.mu.
func (s *Store) read() *document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return emptyDocument()
	}

	doc := emptyDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return emptyDocument()
	}
	if doc.Users == nil {
		doc.Users = map[string]models.User{}
	}
	if doc.UserByEmail == nil {
		doc.UserByEmail = map[string]string{}
	}
	if doc.ClipsByUser == nil {
		doc.ClipsByUser = map[string][]models.Clip{}
	}
	if doc.UsageByUserDay == nil {
		doc.UsageByUserDay = map[string]int{}
	}
	return doc
}

// write persists doc. Callers hold s.mu.
func (s *Store) write(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	if err := filex.WriteFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}

// view runs fn against a fresh snapshot of the document.
func (s *Store) view(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.read())
}

// update runs fn against the document and writes it back if fn succeeds.
func (s *Store) update(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.read()
	if err := fn(doc); err != nil {
		return err
	}
	return s.write(doc)
}
