package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the completed sale of a lot. A lot is sold at most once.
type Transaction struct {
	ID              int64
	BuyerID         int64
	SellerID        int64
	LotID           int64
	Amount          decimal.Decimal
	Fee             decimal.Decimal
	TransactionDate time.Time
}

// Validate checks the fields required before the transaction is persisted.
func (t *Transaction) Validate() error {
	var errs []FieldError
	if t.BuyerID <= 0 {
		errs = append(errs, FieldError{Field: "buyer_id", Message: "required"})
	}
	if t.SellerID <= 0 {
		errs = append(errs, FieldError{Field: "seller_id", Message: "required"})
	}
	if t.BuyerID > 0 && t.BuyerID == t.SellerID {
		errs = append(errs, FieldError{Field: "buyer_id", Message: "buyer and seller must differ"})
	}
	if t.LotID <= 0 {
		errs = append(errs, FieldError{Field: "lot_id", Message: "required"})
	}
	errs = append(errs, validateMoney(t.Amount, t.Fee)...)
	return validationResult(errs)
}

// ValidateMoney checks an amount/fee pair as accepted by Transaction updates.
func ValidateMoney(amount, fee decimal.Decimal) error {
	return validationResult(validateMoney(amount, fee))
}

func validateMoney(amount, fee decimal.Decimal) []FieldError {
	var errs []FieldError
	if amount.IsNegative() {
		errs = append(errs, FieldError{Field: "amount", Message: "must not be negative"})
	} else if !FitsMoney(amount, MoneyPrecision) {
		errs = append(errs, FieldError{Field: "amount", Message: moneyMessage(MoneyPrecision)})
	}
	if fee.IsNegative() {
		errs = append(errs, FieldError{Field: "fee", Message: "must not be negative"})
	} else if !FitsMoney(fee, MoneyPrecision) {
		errs = append(errs, FieldError{Field: "fee", Message: moneyMessage(MoneyPrecision)})
	}
	if fee.GreaterThan(amount) {
		errs = append(errs, FieldError{Field: "fee", Message: "must not exceed amount"})
	}
	return errs
}
