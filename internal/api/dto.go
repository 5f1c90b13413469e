package api

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/quill/internal/models"
	"github.com/starford/quill/internal/noteservice"
)

const noFieldsMsg = "at least one of title, content or category is required"

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title    string `json:"title" example:"Project Ideas"`
	Content  string `json:"content" example:"- dashboard\n- chat app"`
	Category string `json:"category,omitempty" example:"Ideas"`
}

// Normalize trims the free-text fields.
func (r *CreateNoteRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.Category = strings.TrimSpace(r.Category)
}

// Validate rejects a note whose title and content are both empty.
func (r CreateNoteRequest) Validate() error {
	return models.ValidateText(r.Title, r.Content)
}

// UpdateNoteRequest is the request body for a partial update. Omitted
// fields are left unchanged.
type UpdateNoteRequest struct {
	Title    *string `json:"title,omitempty" example:"Project Ideas v2"`
	Content  *string `json:"content,omitempty"`
	Category *string `json:"category,omitempty" example:"Work"`
}

// Normalize trims the free-text fields that are set.
func (r *UpdateNoteRequest) Normalize() {
	for _, p := range []*string{r.Title, r.Content, r.Category} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

// Validate rejects an update that sets no field. Whether the merged note
// keeps a title or content is checked by the service against the stored note.
func (r UpdateNoteRequest) Validate() error {
	return validation.Validate(r.Fields(), validation.By(func(v any) error {
		if v.(models.NoteFields).Empty() {
			return errors.New(noFieldsMsg)
		}
		return nil
	}))
}

// Fields converts the request to a store update.
func (r UpdateNoteRequest) Fields() models.NoteFields {
	return models.NoteFields{Title: r.Title, Content: r.Content, Category: r.Category}
}

// NoteDetail is a single note in a response (aliased from the domain layer).
type NoteDetail = noteservice.NoteView

// CategoryListResponse is the category catalog response (aliased from the domain layer).
type CategoryListResponse = noteservice.CategoryList

// NoteListResponse wraps a filtered note listing.
type NoteListResponse struct {
	Notes []NoteDetail `json:"notes" validate:"required"`
	Total int          `json:"total" example:"3" validate:"required"`
}
