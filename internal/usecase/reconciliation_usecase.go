package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaliabank/corebank/internal/infrastructure/metrics"
)

// ReconciliationUseCase verifies and repairs the derived state. The ledger
// is authoritative: when the balance cache disagrees with it, the cache is
// treated as corrupt and rebuilt.
type ReconciliationUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	journalRepo JournalRepository
	balanceRepo BalanceRepository
	cache       Cache
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewReconciliationUseCase creates a new ReconciliationUseCase. metrics may
// be nil.
func NewReconciliationUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	journalRepo JournalRepository,
	balanceRepo BalanceRepository,
	cache Cache,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		balanceRepo: balanceRepo,
		cache:       cache,
		logger:      logger.With().Str("component", "reconciliation").Logger(),
		metrics:     m,
	}
}

// ConsistencyReport is the result of a ledger verification pass.
type ConsistencyReport struct {
	Consistent         bool           `json:"consistent"`
	UnbalancedEntryIDs []string       `json:"unbalanced_entry_ids,omitempty"`
	Drifts             []BalanceDrift `json:"drifts,omitempty"`
	CheckedAt          time.Time      `json:"checked_at"`
}

// VerifyLedger checks the double-entry law over all entries and compares
// every cached balance against its re-derived ledger sum.
func (uc *ReconciliationUseCase) VerifyLedger(ctx context.Context) (*ConsistencyReport, error) {
	unbalanced, err := uc.journalRepo.FindUnbalanced(ctx, UnbalancedScanLimit)
	if err != nil {
		return nil, fmt.Errorf("scan for unbalanced entries: %w", err)
	}

	drifts, err := uc.balanceRepo.FindDrift(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan for balance drift: %w", err)
	}

	report := &ConsistencyReport{
		Consistent:         len(unbalanced) == 0 && len(drifts) == 0,
		UnbalancedEntryIDs: unbalanced,
		Drifts:             drifts,
		CheckedAt:          time.Now().UTC(),
	}

	if uc.metrics != nil {
		result := "consistent"
		if !report.Consistent {
			result = "inconsistent"
		}

		uc.metrics.ConsistencyChecks.WithLabelValues(result).Inc()
		uc.metrics.UnbalancedEntries.Set(float64(len(unbalanced)))
		uc.metrics.DriftedBalances.Set(float64(len(drifts)))
	}

	if !report.Consistent {
		uc.logger.Error().
			Int("unbalanced_entries", len(unbalanced)).
			Int("drifted_balances", len(drifts)).
			Msg("ledger consistency check failed")
	}

	return report, nil
}

// RebuildBalance re-derives one account's cached balance from the ledger.
func (uc *ReconciliationUseCase) RebuildBalance(ctx context.Context, accountID string) (int64, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return 0, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	balanceMinor, err := uc.balanceRepo.Recompute(ctx, tx, account.ID, account.ChartID)
	if err != nil {
		return 0, fmt.Errorf("recompute balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	if err := uc.cache.Delete(ctx, balanceCacheKey(account.ID)); err != nil {
		uc.logger.Warn().Err(err).Str("account_id", account.ID).Msg("failed to invalidate balance cache")
	}

	if uc.metrics != nil {
		uc.metrics.BalancesRebuilt.Inc()
	}

	uc.logger.Info().
		Str("account_id", account.ID).
		Int64("balance_minor", balanceMinor).
		Msg("balance cache rebuilt")

	return balanceMinor, nil
}
