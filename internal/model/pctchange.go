package model

import "github.com/shopspring/decimal"

// PctChange computes (close-prev)/prev*100 rounded to 2 decimal places,
// or nil when the previous close is zero. Decimal arithmetic keeps the
// rounding exact.
func PctChange(close, prev float64) *float64 {
	if prev == 0 {
		return nil
	}
	v, _ := decimal.NewFromFloat(close).
		Sub(decimal.NewFromFloat(prev)).
		Div(decimal.NewFromFloat(prev)).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return &v
}
