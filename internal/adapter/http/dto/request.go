package dto

import (
	"github.com/shopspring/decimal"

	"github.com/thaliabank/corebank/internal/usecase"
)

// OpenAccountRequest represents a request to open a customer account.
type OpenAccountRequest struct {
	UserID   string `json:"user_id"`
	Currency string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenAccountRequest) ToUseCaseInput() usecase.OpenAccountInput {
	return usecase.OpenAccountInput{
		UserID:   r.UserID,
		Currency: r.Currency,
	}
}

// TransactionRequest represents a deposit or withdrawal request. The account
// comes from the authenticated caller, not the body.
type TransactionRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input for the given account.
func (r *TransactionRequest) ToUseCaseInput(accountID string) usecase.TransactionInput {
	return usecase.TransactionInput{
		AccountID: accountID,
		Amount:    r.Amount,
		Currency:  r.Currency,
		Reference: r.Reference,
		Notes:     r.Notes,
	}
}
