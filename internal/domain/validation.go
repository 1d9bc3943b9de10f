package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxReferenceLength = 50
	MaxNotesLength     = 1024
)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
}

// ValidateReference validates a caller-chosen transaction reference.
// The reference is the idempotency identity key, so it must be stable:
// non-empty and at most MaxReferenceLength bytes.
func ValidateReference(ref string) error {
	if ref == "" {
		return ErrInvalidReference
	}

	if len(ref) > MaxReferenceLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidReference, len(ref))
	}

	return nil
}

// ValidateAmount validates a boundary amount before conversion to minor units.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// ValidateCurrency validates a currency code.
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateNotes bounds the free-text description attached to an entry.
func ValidateNotes(notes string) error {
	if len(notes) > MaxNotesLength {
		return fmt.Errorf("%w: exceeds %d bytes", ErrInvalidNotes, MaxNotesLength)
	}

	return nil
}
