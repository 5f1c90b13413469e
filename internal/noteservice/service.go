package noteservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/quill/internal/models"
	"github.com/starford/quill/internal/notestore"
)

// Event kinds passed to EventCallback.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// EventCallback is called after every successful mutation.
type EventCallback func(kind string, note models.Note)

// NoteView is a note as presented to callers, with its category accent.
type NoteView struct {
	models.Note
	Accent string `json:"accent"`
}

// CategoryList is the category catalog as presented to callers.
type CategoryList struct {
	Default string            `json:"default"`
	Items   []models.Category `json:"items"`
}

// SeedNote describes a sample note loaded at startup. Age is how long ago
// the note was created.
type SeedNote struct {
	Title    string        `yaml:"title"`
	Content  string        `yaml:"content"`
	Category string        `yaml:"category"`
	Age      time.Duration `yaml:"age"`
}

// Service coordinates the note store with change notification.
type Service struct {
	store  *notestore.Store
	logger *slog.Logger
	onEvt  EventCallback
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithEventCallback registers the mutation callback.
func WithEventCallback(cb EventCallback) Option {
	return func(s *Service) {
		s.onEvt = cb
	}
}

// WithClock overrides the time source used for seeding.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new note service over store.
func NewService(store *notestore.Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Categories returns the category catalog.
func (s *Service) Categories(_ context.Context) CategoryList {
	c := s.store.Catalog()
	return CategoryList{Default: c.Default(), Items: c.Items()}
}

// ListNotes returns every note, newest-created first.
func (s *Service) ListNotes(_ context.Context) []NoteView {
	return s.views(s.store.List())
}

// SearchNotes filters notes by free text and category. An empty category
// is treated as models.CategoryAll.
func (s *Service) SearchNotes(_ context.Context, search, category string) []NoteView {
	if category == "" {
		category = models.CategoryAll
	}
	return s.views(s.store.Query(search, category))
}

// GetNote returns a single note.
func (s *Service) GetNote(_ context.Context, id string) (*NoteView, error) {
	n, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return s.view(n), nil
}

// CreateNote stores a new note. The caller is expected to have trimmed
// and validated the text.
func (s *Service) CreateNote(_ context.Context, title, content, category string) *NoteView {
	n := s.store.Create(title, content, category)
	s.logger.Debug("note created", slog.String("id", n.ID), slog.String("category", n.Category))
	s.emit(EventCreated, n)
	return s.view(n)
}

// UpdateNote merges fields into an existing note. A merge that would leave
// the note with neither title nor content is rejected with a validation
// error and the note is left unchanged.
func (s *Service) UpdateNote(_ context.Context, id string, fields models.NoteFields) (*NoteView, error) {
	n, err := s.store.UpdateIf(id, fields, checkText)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("note updated", slog.String("id", n.ID))
	s.emit(EventUpdated, n)
	return s.view(n), nil
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(_ context.Context, id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.logger.Debug("note deleted", slog.String("id", id))
	s.emit(EventDeleted, models.Note{ID: id})
	return nil
}

// Seed replaces the collection with the given sample notes, keeping their
// order. No events are emitted.
func (s *Service) Seed(_ context.Context, seed []SeedNote) {
	now := s.now()
	notes := make([]models.Note, len(seed))
	for i, sn := range seed {
		created := now.Add(-sn.Age)
		notes[i] = models.Note{
			Title:     sn.Title,
			Content:   sn.Content,
			Category:  sn.Category,
			CreatedAt: created,
			UpdatedAt: created,
		}
	}
	s.store.Reset(notes)
	s.logger.Info("notes seeded", slog.Int("count", len(notes)))
}

func (s *Service) emit(kind string, n models.Note) {
	if s.onEvt != nil {
		s.onEvt(kind, n)
	}
}

func (s *Service) view(n models.Note) *NoteView {
	return &NoteView{Note: n, Accent: s.store.Catalog().Accent(n.Category)}
}

func (s *Service) views(notes []models.Note) []NoteView {
	out := make([]NoteView, len(notes))
	for i, n := range notes {
		out[i] = *s.view(n)
	}
	return out
}

func checkText(n models.Note) error {
	return models.ValidateText(n.Title, n.Content)
}
