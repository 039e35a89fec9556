package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Column precisions of the money columns. All of them store cents.
const (
	MoneyScale     = 2
	MoneyPrecision = 19 // balance, amount, fee
	PricePrecision = 10 // lot price
)

// FitsMoney reports whether d can be stored in a NUMERIC(precision, 2)
// column without rounding or overflow.
func FitsMoney(d decimal.Decimal, precision int32) bool {
	if !d.Equal(d.Round(MoneyScale)) {
		return false
	}
	return d.Abs().LessThan(decimal.New(1, precision-MoneyScale))
}

func moneyMessage(precision int32) string {
	return fmt.Sprintf("must have at most %d integer digits and %d decimal places",
		precision-MoneyScale, MoneyScale)
}
