package domain

import (
	"strings"
	"time"
)

// Visualization is a generated asset attached to at most one dream.
// Generation metadata is optional; Duration is nil for still images.
type Visualization struct {
	ID        int64
	Prompt    *string
	Generator *string
	FilePath  string
	Mime      *string
	Width     *int
	Height    *int
	Duration  *int
	Status    VisualizationStatus
	CreatedAt time.Time
}

// Validate checks the fields required before the visualization is persisted.
// An empty status is accepted and defaulted to PENDING by the repository.
func (v *Visualization) Validate() error {
	var errs []FieldError
	if strings.TrimSpace(v.FilePath) == "" {
		errs = append(errs, FieldError{Field: "file_path", Message: "required"})
	}
	if v.Width != nil && *v.Width <= 0 {
		errs = append(errs, FieldError{Field: "width", Message: "must be positive"})
	}
	if v.Height != nil && *v.Height <= 0 {
		errs = append(errs, FieldError{Field: "height", Message: "must be positive"})
	}
	if v.Duration != nil && *v.Duration < 0 {
		errs = append(errs, FieldError{Field: "duration", Message: "must not be negative"})
	}
	if v.Status != "" && !v.Status.IsValid() {
		errs = append(errs, FieldError{Field: "status", Message: "unknown status"})
	}
	return validationResult(errs)
}
