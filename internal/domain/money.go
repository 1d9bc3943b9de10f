package domain

import "github.com/shopspring/decimal"

// minorUnitExponent is the number of decimal places in the minor unit.
// Single-currency core: two decimal places (cents).
const minorUnitExponent = 2

// MinorUnits converts a boundary decimal amount into integer minor units,
// rounding to the nearest unit. Amounts are only ever decimal at the request
// boundary; once converted they stay integers all the way to storage.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(minorUnitExponent).Round(0).IntPart()
}

// FromMinorUnits converts integer minor units back to a decimal amount
// for presentation.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Shift(-minorUnitExponent)
}
