package usecase

import (
	"context"

	"github.com/thaliabank/corebank/internal/domain"
)

// LedgerUseCase is the read-side journal browser. It never writes.
type LedgerUseCase struct {
	journalRepo JournalRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(journalRepo JournalRepository) *LedgerUseCase {
	return &LedgerUseCase{journalRepo: journalRepo}
}

// ListJournal lists journal entries with their lines.
func (uc *LedgerUseCase) ListJournal(ctx context.Context, filter JournalFilter) ([]*domain.EntryWithLines, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultJournalPageSize
	}

	if filter.Limit > MaxJournalPageSize {
		filter.Limit = MaxJournalPageSize
	}

	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return uc.journalRepo.List(ctx, filter)
}

// GetJournalEntry retrieves one entry with its lines.
func (uc *LedgerUseCase) GetJournalEntry(ctx context.Context, id string) (*domain.EntryWithLines, error) {
	return uc.journalRepo.GetEntry(ctx, id)
}
