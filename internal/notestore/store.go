// Package notestore holds the authoritative in-memory note collection.
//
// Notes are kept newest-created first. Update never repositions a note and
// Delete preserves the relative order of the remainder. The store accepts
// whatever text the caller submits: trimming and rejecting empty notes is
// the caller's job. Unknown categories are normalized to the catalog default.
package notestore

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/quill/internal/apperr"
	"github.com/starford/quill/internal/models"
)

// Store is safe for concurrent use. Mutations are serialized; reads may run
// in parallel. Every returned Note is a copy.
type Store struct {
	mu      sync.RWMutex
	notes   []models.Note
	catalog *models.Catalog
	now     func() time.Time
	newID   func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// New creates an empty store. A nil catalog means the built-in one.
func New(catalog *models.Catalog, opts ...Option) *Store {
	if catalog == nil {
		catalog = models.DefaultCatalog()
	}
	s := &Store{
		catalog: catalog,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the category catalog the store normalizes against.
func (s *Store) Catalog() *models.Catalog {
	return s.catalog
}

// List returns the full collection in current order.
func (s *Store) List() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Get returns the note with the given id.
func (s *Store) Get(id string) (models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Note{}, apperr.ErrNotFound
	}
	return s.notes[i], nil
}

// Create prepends a new note and returns it.
func (s *Store) Create(title, content, category string) models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := models.Note{
		ID:        s.newID(),
		Title:     title,
		Content:   content,
		Category:  s.catalog.Resolve(category),
		CreatedAt: now,
		UpdatedAt: now,
	}

	notes := make([]models.Note, 0, len(s.notes)+1)
	notes = append(notes, n)
	s.notes = append(notes, s.notes...)
	return n
}

// Update merges fields into the note with the given id.
func (s *Store) Update(id string, fields models.NoteFields) (models.Note, error) {
	return s.UpdateIf(id, fields, nil)
}

// UpdateIf is Update with a check run on the merged note before it is
// stored. A check error leaves the collection unchanged and is returned
// as is. A nil check accepts every merge.
func (s *Store) UpdateIf(id string, fields models.NoteFields, check func(models.Note) error) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Note{}, apperr.ErrNotFound
	}

	n := s.notes[i]
	fields.Apply(&n)
	if fields.Category != nil {
		n.Category = s.catalog.Resolve(n.Category)
	}
	now := s.now()
	// Keep UpdatedAt monotonic even if the clock steps back.
	if now.After(n.UpdatedAt) {
		n.UpdatedAt = now
	}
	if check != nil {
		if err := check(n); err != nil {
			return models.Note{}, err
		}
	}
	s.notes[i] = n
	return n, nil
}

// Delete removes the note with the given id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return apperr.ErrNotFound
	}
	notes := make([]models.Note, 0, len(s.notes)-1)
	notes = append(notes, s.notes[:i]...)
	s.notes = append(notes, s.notes[i+1:]...)
	return nil
}

// Query returns the notes whose title or content contains search
// (case-insensitive) and whose category matches the filter. An empty
// search matches every note; models.CategoryAll matches every category.
func (s *Store) Query(search, category string) []models.Note {
	lower := strings.ToLower(search)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Note, 0, len(s.notes))
	for _, n := range s.notes {
		if n.Matches(lower) && models.MatchesFilter(n.Category, category) {
			out = append(out, n)
		}
	}
	return out
}

// Reset replaces the collection with notes, in the given order. Missing
// ids and timestamps are filled in and categories are normalized.
func (s *Store) Reset(notes []models.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]models.Note, len(notes))
	for i, n := range notes {
		if n.ID == "" {
			n.ID = s.newID()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		if n.UpdatedAt.Before(n.CreatedAt) {
			n.UpdatedAt = n.CreatedAt
		}
		n.Category = s.catalog.Resolve(n.Category)
		out[i] = n
	}
	s.notes = out
}

func (s *Store) indexOf(id string) int {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}
