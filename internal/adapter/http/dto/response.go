package dto

import (
	"time"

	"github.com/thaliabank/corebank/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	AccountNumber string    `json:"account_number"`
	IBAN          string    `json:"iban"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		UserID:        a.UserID,
		AccountNumber: a.AccountNumber,
		IBAN:          a.IBAN,
		Currency:      a.Currency,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
	}
}

// JournalLineResponse represents one side of an entry in API responses.
type JournalLineResponse struct {
	ID          string `json:"id"`
	ChartID     string `json:"chart_id"`
	AmountMinor int64  `json:"amount_minor"`
	Type        string `json:"type"`
}

// JournalEntryResponse represents an entry with its lines in API responses.
type JournalEntryResponse struct {
	ID            string                `json:"id"`
	AccountID     string                `json:"account_id"`
	TransactionID string                `json:"transaction_id"`
	Reference     string                `json:"reference"`
	Description   string                `json:"description,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	Lines         []JournalLineResponse `json:"lines"`
}

// JournalEntryFromDomain converts an entry with lines to a response.
func JournalEntryFromDomain(e *domain.EntryWithLines) *JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			ID:          l.ID,
			ChartID:     l.ChartID,
			AmountMinor: l.AmountMinor,
			Type:        string(l.Type),
		}
	}

	return &JournalEntryResponse{
		ID:            e.Entry.ID,
		AccountID:     e.Entry.AccountID,
		TransactionID: e.Entry.TransactionID,
		Reference:     e.Entry.Reference,
		Description:   e.Entry.Description,
		CreatedAt:     e.Entry.CreatedAt,
		Lines:         lines,
	}
}

// JournalEntriesFromDomain converts entries with lines to responses.
func JournalEntriesFromDomain(entries []*domain.EntryWithLines) []*JournalEntryResponse {
	result := make([]*JournalEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = JournalEntryFromDomain(e)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
