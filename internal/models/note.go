// Package models defines the domain types for Quill.
package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// EmptyNoteMessage is reported for a note with neither title nor content.
const EmptyNoteMessage = "title or content is required"

// Note is a single user-authored entry.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteFields is a partial update. Nil fields are left untouched.
type NoteFields struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Category *string `json:"category,omitempty"`
}

// Empty reports whether no field is set.
func (f NoteFields) Empty() bool {
	return f.Title == nil && f.Content == nil && f.Category == nil
}

// Apply merges the set fields into n. Timestamps are not touched.
func (f NoteFields) Apply(n *Note) {
	if f.Title != nil {
		n.Title = *f.Title
	}
	if f.Content != nil {
		n.Content = *f.Content
	}
	if f.Category != nil {
		n.Category = *f.Category
	}
}

// ValidateText rejects a note whose trimmed title and content are both empty.
func ValidateText(title, content string) error {
	return validation.Validate(strings.TrimSpace(title),
		validation.Required.When(strings.TrimSpace(content) == "").Error(EmptyNoteMessage),
	)
}

// Matches reports whether the lower-cased search text occurs in the
// lower-cased title or content. Callers lower-case search once per query.
func (n Note) Matches(lowerSearch string) bool {
	if lowerSearch == "" {
		return true
	}
	return containsFold(n.Title, lowerSearch) || containsFold(n.Content, lowerSearch)
}

func containsFold(s, lowerSub string) bool {
	return strings.Contains(strings.ToLower(s), lowerSub)
}
