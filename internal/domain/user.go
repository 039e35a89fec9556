package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UserAccount is a marketplace participant. YandexID is set only for
// accounts linked to the external identity provider.
type UserAccount struct {
	ID        int64
	YandexID  *string
	Username  string
	Email     string
	Role      UserRole
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// Validate checks the fields required before the account is persisted.
// An empty role is accepted and defaulted to USER by the repository.
func (u *UserAccount) Validate() error {
	var errs []FieldError
	if strings.TrimSpace(u.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "required"})
	} else if !strings.Contains(u.Email, "@") {
		errs = append(errs, FieldError{Field: "email", Message: "invalid format"})
	}
	if strings.TrimSpace(u.Username) == "" {
		errs = append(errs, FieldError{Field: "username", Message: "required"})
	}
	if u.YandexID != nil && strings.TrimSpace(*u.YandexID) == "" {
		errs = append(errs, FieldError{Field: "yandex_id", Message: "must not be empty when set"})
	}
	if u.Role != "" && !u.Role.IsValid() {
		errs = append(errs, FieldError{Field: "role", Message: "unknown role"})
	}
	if u.Balance.IsNegative() {
		errs = append(errs, FieldError{Field: "balance", Message: "must not be negative"})
	} else if !FitsMoney(u.Balance, MoneyPrecision) {
		errs = append(errs, FieldError{Field: "balance", Message: moneyMessage(MoneyPrecision)})
	}
	return validationResult(errs)
}
