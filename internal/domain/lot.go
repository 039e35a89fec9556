package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Lot is a marketplace listing derived from a dream record.
type Lot struct {
	ID               int64
	DreamRecordID    *int64
	Title            string
	Description      *string
	Price            *decimal.Decimal
	Status           LotStatus
	SubmittedAt      time.Time
	ReviewedAt       *time.Time
	ModerationReason *string
}

// Validate checks the fields required before the lot is persisted.
func (l *Lot) Validate() error {
	var errs []FieldError
	if l.DreamRecordID == nil {
		errs = append(errs, FieldError{Field: "dream_record_id", Message: "required"})
	}
	if strings.TrimSpace(l.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "required"})
	}
	errs = append(errs, validatePrice(l.Price)...)
	if l.Status != "" && !l.Status.IsValid() {
		errs = append(errs, FieldError{Field: "status", Message: "unknown status"})
	}
	return validationResult(errs)
}

// LotUpdateParams carries seller-editable lot fields. Nil fields are left
// unchanged; status moves only through moderation.
type LotUpdateParams struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
}

// IsEmpty reports whether the params change nothing.
func (p LotUpdateParams) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil
}

// Validate rejects values that would violate the lot's invariants.
func (p LotUpdateParams) Validate() error {
	var errs []FieldError
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "must not be empty"})
	}
	errs = append(errs, validatePrice(p.Price)...)
	return validationResult(errs)
}

func validatePrice(price *decimal.Decimal) []FieldError {
	switch {
	case price == nil:
		return nil
	case price.IsNegative():
		return []FieldError{{Field: "price", Message: "must not be negative"}}
	case !FitsMoney(*price, PricePrecision):
		return []FieldError{{Field: "price", Message: moneyMessage(PricePrecision)}}
	}
	return nil
}

// ArchiveRequest is the input of the lot archival workflow.
type ArchiveRequest struct {
	LotID   int64
	AdminID int64
	Reason  string
}

// Validate checks the identifiers before the archival procedure is called.
func (r ArchiveRequest) Validate() error {
	var errs []FieldError
	if r.LotID <= 0 {
		errs = append(errs, FieldError{Field: "lot_id", Message: "required"})
	}
	if r.AdminID <= 0 {
		errs = append(errs, FieldError{Field: "admin_id", Message: "required"})
	}
	return validationResult(errs)
}
