package quote

import (
	pkgerrors "mapkeeper/pkg/errors"
)

// Quote is a single highlighted passage from the user's corpus. Quotes are
// immutable once ingested; the store hands out copies of the same records for
// the lifetime of a process.
type Quote struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Author    string   `json:"author,omitempty"`
	BookTitle string   `json:"book_title,omitempty"`
	Page      *int     `json:"page,omitempty"`
	Location  *int     `json:"location,omitempty"`
	AddedAt   string   `json:"added_at,omitempty"`
	Tags      []string `json:"tags"`
	Notes     string   `json:"notes,omitempty"`
	Source    string   `json:"source,omitempty"`
	Color     string   `json:"color,omitempty"`
}

// Validate enforces the record invariants: a unique non-empty id and
// non-empty text. Uniqueness across a snapshot is the store's concern.
func (q *Quote) Validate() error {
	if q.ID == "" {
		return pkgerrors.NewValidationError("quote id cannot be empty")
	}
	if q.Text == "" {
		return pkgerrors.NewValidationError("quote text cannot be empty")
	}
	return nil
}

// Rationale explains why a suggested quote connects to the seed. It is always
// non-null from the caller's point of view: upstream failures degrade to a
// fallback rationale instead of omission.
type Rationale struct {
	Title     string   `json:"title"`
	Rationale string   `json:"rationale"`
	Labels    []string `json:"labels"`
}

// Connection labels carried in Rationale.Labels.
const (
	LabelAdjacent = "adjacent"
	LabelOblique  = "oblique"
	LabelWildcard = "wildcard"
)

// ValidLabel reports whether s is one of the known connection labels.
func ValidLabel(s string) bool {
	switch s {
	case LabelAdjacent, LabelOblique, LabelWildcard:
		return true
	}
	return false
}
