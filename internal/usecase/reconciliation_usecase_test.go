package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaliabank/corebank/internal/domain"
	"github.com/thaliabank/corebank/internal/usecase"
	"github.com/thaliabank/corebank/internal/usecase/mocks"
)

type reconFixture struct {
	txManager   *mocks.MockTransactionManager
	accountRepo *mocks.MockAccountRepository
	journalRepo *mocks.MockJournalRepository
	balanceRepo *mocks.MockBalanceRepository
	cache       *mocks.MockCache
	uc          *usecase.ReconciliationUseCase
}

func newReconFixture() *reconFixture {
	txManager := mocks.NewMockTransactionManager()
	accountRepo := mocks.NewMockAccountRepository()
	journalRepo := mocks.NewMockJournalRepository()
	balanceRepo := mocks.NewMockBalanceRepository(journalRepo)
	cache := mocks.NewMockCache()

	uc := usecase.NewReconciliationUseCase(
		txManager,
		accountRepo,
		journalRepo,
		balanceRepo,
		cache,
		zerolog.Nop(),
		nil,
	)

	return &reconFixture{
		txManager:   txManager,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		balanceRepo: balanceRepo,
		cache:       cache,
		uc:          uc,
	}
}

func postBalancedEntry(t *testing.T, f *reconFixture, entryID, accountID string, amountMinor int64) {
	t.Helper()
	ctx := context.Background()

	entry := &domain.JournalEntry{
		ID:        entryID,
		AccountID: accountID,
		Reference: "REF-" + entryID,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.journalRepo.CreateEntry(ctx, nil, entry); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	debit := &domain.JournalLine{ID: entryID + "-d", EntryID: entryID, ChartID: "coa-asset", AmountMinor: amountMinor, Type: domain.LineDebit}
	credit := &domain.JournalLine{ID: entryID + "-c", EntryID: entryID, ChartID: "coa-liability", AmountMinor: amountMinor, Type: domain.LineCredit}
	if err := f.journalRepo.CreateLines(ctx, nil, debit, credit); err != nil {
		t.Fatalf("create lines: %v", err)
	}
}

func TestVerifyLedger_CleanLedger(t *testing.T) {
	f := newReconFixture()
	postBalancedEntry(t, f, "e1", "acc-1", 5000)
	postBalancedEntry(t, f, "e2", "acc-1", 2500)

	report, err := f.uc.VerifyLedger(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.Consistent {
		t.Errorf("clean ledger reported inconsistent: %+v", report)
	}

	if len(report.UnbalancedEntryIDs) != 0 || len(report.Drifts) != 0 {
		t.Errorf("clean ledger reported findings: %+v", report)
	}
}

func TestVerifyLedger_DetectsUnbalancedEntry(t *testing.T) {
	f := newReconFixture()
	ctx := context.Background()

	entry := &domain.JournalEntry{ID: "bad", AccountID: "acc-1", Reference: "REF-bad"}
	if err := f.journalRepo.CreateEntry(ctx, nil, entry); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	// A lone debit with no matching credit.
	debit := &domain.JournalLine{ID: "bad-d", EntryID: "bad", ChartID: "coa-asset", AmountMinor: 100, Type: domain.LineDebit}
	credit := &domain.JournalLine{ID: "bad-c", EntryID: "bad", ChartID: "coa-liability", AmountMinor: 99, Type: domain.LineCredit}
	if err := f.journalRepo.CreateLines(ctx, nil, debit, credit); err != nil {
		t.Fatalf("create lines: %v", err)
	}

	report, err := f.uc.VerifyLedger(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Consistent {
		t.Error("unequal debit and credit amounts went undetected")
	}

	if len(report.UnbalancedEntryIDs) != 1 || report.UnbalancedEntryIDs[0] != "bad" {
		t.Errorf("unbalanced ids = %v, want [bad]", report.UnbalancedEntryIDs)
	}
}

func TestVerifyLedger_ReportsBalanceDrift(t *testing.T) {
	f := newReconFixture()
	f.balanceRepo.FindDriftFunc = func(ctx context.Context) ([]usecase.BalanceDrift, error) {
		return []usecase.BalanceDrift{{AccountID: "acc-1", CachedMinor: 9000, DerivedMinor: 7500}}, nil
	}

	report, err := f.uc.VerifyLedger(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Consistent {
		t.Error("drifted balance went undetected")
	}

	if len(report.Drifts) != 1 || report.Drifts[0].AccountID != "acc-1" {
		t.Errorf("drifts = %+v", report.Drifts)
	}
}

func TestRebuildBalance_RederivesFromLedger(t *testing.T) {
	f := newReconFixture()
	ctx := context.Background()

	f.accountRepo.Put(&domain.Account{
		ID:       "acc-1",
		ChartID:  "coa-liability",
		Currency: "USD",
		Status:   domain.AccountActive,
	})
	postBalancedEntry(t, f, "e1", "acc-1", 5000)
	postBalancedEntry(t, f, "e2", "acc-1", 2500)

	// Poison the cache so invalidation is observable.
	if err := f.cache.Set(ctx, "balance:acc-1", []byte("stale"), time.Minute); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	balance, err := f.uc.RebuildBalance(ctx, "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if balance != 7500 {
		t.Errorf("rebuilt balance = %d, want 7500", balance)
	}

	stored, err := f.balanceRepo.Get(ctx, "acc-1")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if stored != 7500 {
		t.Errorf("stored balance = %d, want 7500", stored)
	}

	if f.cache.Has("balance:acc-1") {
		t.Error("stale cached balance survived the rebuild")
	}

	txs := f.txManager.Transactions()
	if len(txs) != 1 || !txs[0].Committed {
		t.Errorf("expected one committed transaction, got %+v", txs)
	}
}

func TestRebuildBalance_UnknownAccount(t *testing.T) {
	f := newReconFixture()

	_, err := f.uc.RebuildBalance(context.Background(), "missing")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}

	if len(f.txManager.Transactions()) != 0 {
		t.Error("lookup failure must not open a transaction")
	}
}
