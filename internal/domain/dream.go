package domain

import (
	"strings"
	"time"
)

// DreamRecord is a user's written dream. Tags, category and visualization
// are referenced by id and loaded explicitly (see internal/loader).
type DreamRecord struct {
	ID              int64
	UserID          int64
	CategoryID      *int64
	VisualizationID *int64
	Title           string
	Content         string
	Privacy         Privacy
	CreatedAt       time.Time
	// UpdatedAt is maintained by the database; nil until the first update.
	UpdatedAt *time.Time
}

// IsPublic reports whether the dream is visible to everyone.
func (d *DreamRecord) IsPublic() bool {
	return d.Privacy == PrivacyPublic
}

// Validate checks the fields required before the dream is persisted.
func (d *DreamRecord) Validate() error {
	var errs []FieldError
	if d.UserID <= 0 {
		errs = append(errs, FieldError{Field: "user_id", Message: "required"})
	}
	if strings.TrimSpace(d.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "required"})
	}
	if d.Privacy != "" && !d.Privacy.IsValid() {
		errs = append(errs, FieldError{Field: "privacy", Message: "unknown privacy"})
	}
	return validationResult(errs)
}

// DreamUpdateParams carries a partial update of a dream. Nil fields are left
// unchanged. ClearCategory detaches the dream from its category.
type DreamUpdateParams struct {
	Title         *string
	Content       *string
	Privacy       *Privacy
	CategoryID    *int64
	ClearCategory bool
}

// IsEmpty reports whether the params change nothing.
func (p DreamUpdateParams) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Privacy == nil && p.CategoryID == nil && !p.ClearCategory
}

// Validate rejects values that would violate the dream's invariants.
func (p DreamUpdateParams) Validate() error {
	var errs []FieldError
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "must not be empty"})
	}
	if p.Privacy != nil && !p.Privacy.IsValid() {
		errs = append(errs, FieldError{Field: "privacy", Message: "unknown privacy"})
	}
	if p.CategoryID != nil && p.ClearCategory {
		errs = append(errs, FieldError{Field: "category_id", Message: "cannot set and clear at once"})
	}
	return validationResult(errs)
}
