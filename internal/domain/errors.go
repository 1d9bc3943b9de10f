package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountInactive = errors.New("account is not active")

	// Chart of accounts errors
	ErrDebitChartAccountNotFound  = errors.New("missing associated debit chart account")
	ErrCreditChartAccountNotFound = errors.New("missing associated credit chart account")
	ErrChartAccountNotFound       = errors.New("chart account not found")
	ErrInvalidChartCategory       = errors.New("invalid chart account category")

	// Posting errors
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidReference = errors.New("transaction reference must be non-empty and at most 50 bytes")
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrInvalidNotes     = errors.New("notes too long")
	ErrEntryNotFound    = errors.New("journal entry not found")

	// Balance errors
	ErrBalanceNotFound = errors.New("account balance not found")

	// Idempotency errors
	ErrReplayPending  = errors.New("a request with this reference is still being processed")
	ErrReplayNotFound = errors.New("saved response not found")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)
