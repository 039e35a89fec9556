package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFitsMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value     string
		precision int32
		want      bool
	}{
		{"0", PricePrecision, true},
		{"19.99", PricePrecision, true},
		{"19.990", PricePrecision, true},
		{"19.999", PricePrecision, false},
		{"99999999.99", PricePrecision, true},
		{"100000000", PricePrecision, false},
		{"100000000", MoneyPrecision, true},
		{"99999999999999999.99", MoneyPrecision, true},
		{"100000000000000000", MoneyPrecision, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			if got := FitsMoney(decimal.RequireFromString(tt.value), tt.precision); got != tt.want {
				t.Errorf("FitsMoney(%s, %d) = %v, want %v", tt.value, tt.precision, got, tt.want)
			}
		})
	}
}
