package usecase

import (
	"context"
	"time"

	"github.com/thaliabank/corebank/internal/domain"
)

// PostingEngine creates journal headers and their paired debit/credit lines.
// If Post returns success, the double-entry invariant holds for the new
// entry; if it fails at any point, the enclosing transaction discards every
// row it wrote.
type PostingEngine struct {
	journalRepo JournalRepository
	idGen       IDGenerator
	txIDPrefix  string
}

// NewPostingEngine creates a new PostingEngine. txIDPrefix is prepended to
// the generated external transaction identifiers.
func NewPostingEngine(journalRepo JournalRepository, idGen IDGenerator, txIDPrefix string) *PostingEngine {
	return &PostingEngine{
		journalRepo: journalRepo,
		idGen:       idGen,
		txIDPrefix:  txIDPrefix,
	}
}

// PostInput describes one financial event to record.
type PostInput struct {
	AccountID     string
	AmountMinor   int64
	DebitChartID  string
	CreditChartID string
	Reference     string
	Description   string
}

// Post records one entry with exactly one debit and one credit line, both
// carrying AmountMinor. The amount must be positive and both chart account
// IDs already resolved.
func (e *PostingEngine) Post(ctx context.Context, tx Transaction, input PostInput) (*domain.JournalEntry, error) {
	if input.AmountMinor <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	return e.post(ctx, tx, input)
}

// PostOpening records an account-opening funding entry. Opening entries may
// carry a zero amount: they anchor the account in the ledger before any
// money moves.
func (e *PostingEngine) PostOpening(ctx context.Context, tx Transaction, input PostInput) (*domain.JournalEntry, error) {
	if input.AmountMinor < 0 {
		return nil, domain.ErrInvalidAmount
	}

	return e.post(ctx, tx, input)
}

func (e *PostingEngine) post(ctx context.Context, tx Transaction, input PostInput) (*domain.JournalEntry, error) {
	if input.DebitChartID == "" {
		return nil, domain.ErrDebitChartAccountNotFound
	}

	if input.CreditChartID == "" {
		return nil, domain.ErrCreditChartAccountNotFound
	}

	entry := &domain.JournalEntry{
		ID:            e.idGen.Generate(),
		AccountID:     input.AccountID,
		TransactionID: e.txIDPrefix + e.idGen.Generate(),
		Reference:     input.Reference,
		Description:   input.Description,
		CreatedAt:     time.Now().UTC(),
	}

	if err := e.journalRepo.CreateEntry(ctx, tx, entry); err != nil {
		return nil, err
	}

	debit := &domain.JournalLine{
		ID:          e.idGen.Generate(),
		EntryID:     entry.ID,
		ChartID:     input.DebitChartID,
		AmountMinor: input.AmountMinor,
		Type:        domain.LineDebit,
	}

	credit := &domain.JournalLine{
		ID:          e.idGen.Generate(),
		EntryID:     entry.ID,
		ChartID:     input.CreditChartID,
		AmountMinor: input.AmountMinor,
		Type:        domain.LineCredit,
	}

	if err := e.journalRepo.CreateLines(ctx, tx, debit, credit); err != nil {
		return nil, err
	}

	return entry, nil
}
