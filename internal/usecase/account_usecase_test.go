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

type accountFixture struct {
	txManager   *mocks.MockTransactionManager
	accountRepo *mocks.MockAccountRepository
	chartRepo   *mocks.MockChartRepository
	journalRepo *mocks.MockJournalRepository
	balanceRepo *mocks.MockBalanceRepository
	cache       *mocks.MockCache
	uc          *usecase.AccountUseCase
}

func newAccountFixture() *accountFixture {
	txManager := mocks.NewMockTransactionManager()
	accountRepo := mocks.NewMockAccountRepository()
	chartRepo := mocks.NewMockChartRepository()
	chartRepo.Seed(domain.CategoryAsset, domain.CategoryLiability)
	journalRepo := mocks.NewMockJournalRepository()
	balanceRepo := mocks.NewMockBalanceRepository(journalRepo)
	cache := mocks.NewMockCache()

	posting := usecase.NewPostingEngine(journalRepo, mocks.NewMockIDGenerator(), "THA")

	uc := usecase.NewAccountUseCase(
		txManager,
		accountRepo,
		chartRepo,
		posting,
		balanceRepo,
		mocks.NewMockIDGenerator(),
		cache,
		30*time.Second,
		"US",
		zerolog.Nop(),
		nil,
	)

	return &accountFixture{
		txManager:   txManager,
		accountRepo: accountRepo,
		chartRepo:   chartRepo,
		journalRepo: journalRepo,
		balanceRepo: balanceRepo,
		cache:       cache,
		uc:          uc,
	}
}

func TestAccountUseCase_OpenAccount(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	account, err := f.uc.OpenAccount(ctx, usecase.OpenAccountInput{UserID: "user-1", Currency: "usd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if account.Status != domain.AccountPending {
		t.Errorf("status = %q, want pending", account.Status)
	}

	if account.Currency != "USD" {
		t.Errorf("currency = %q, want USD", account.Currency)
	}

	if account.ChartID != "coa-liability" {
		t.Errorf("chart id = %q, want liability chart account", account.ChartID)
	}

	if len(account.AccountNumber) != 10 {
		t.Errorf("account number %q is not 10 digits", account.AccountNumber)
	}

	if account.IBAN[:2] != "US" {
		t.Errorf("iban %q missing country prefix", account.IBAN)
	}

	// One zero-amount funding entry, balanced.
	entries := f.journalRepo.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 opening entry, got %d", len(entries))
	}

	got, err := f.journalRepo.GetEntry(ctx, entries[0].ID)
	if err != nil {
		t.Fatalf("get opening entry: %v", err)
	}

	if !got.Balanced() {
		t.Error("opening entry is not balanced")
	}

	if got.Lines[0].AmountMinor != 0 {
		t.Errorf("opening entry amount = %d, want 0", got.Lines[0].AmountMinor)
	}

	// Balance cache row initialized at zero.
	balance, err := f.balanceRepo.Get(ctx, account.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance != 0 {
		t.Errorf("initial balance = %d, want 0", balance)
	}

	txs := f.txManager.Transactions()
	if len(txs) != 1 || !txs[0].Committed {
		t.Errorf("expected exactly one committed transaction, got %+v", txs)
	}
}

func TestAccountUseCase_OpenAccount_MissingChartConfiguration(t *testing.T) {
	f := newAccountFixture()
	f.chartRepo.GetIDByCategoryFunc = func(ctx context.Context, tx usecase.Transaction, category domain.ChartCategory) (string, error) {
		return "", domain.ErrChartAccountNotFound
	}

	_, err := f.uc.OpenAccount(context.Background(), usecase.OpenAccountInput{UserID: "user-1", Currency: "USD"})
	if !errors.Is(err, domain.ErrDebitChartAccountNotFound) {
		t.Errorf("expected ErrDebitChartAccountNotFound, got %v", err)
	}

	txs := f.txManager.Transactions()
	if len(txs) != 1 || txs[0].Committed {
		t.Error("failed opening must not commit")
	}
}

func TestAccountUseCase_GetBalance_CachesReads(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	account, err := f.uc.OpenAccount(ctx, usecase.OpenAccountInput{UserID: "user-1", Currency: "USD"})
	if err != nil {
		t.Fatalf("open account: %v", err)
	}

	info, err := f.uc.GetBalance(ctx, account.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}

	if info.AmountMinor != 0 || info.Amount != "0.00" {
		t.Errorf("unexpected balance info: %+v", info)
	}

	// Second read must be served from the cache, not the store.
	f.balanceRepo.GetFunc = func(ctx context.Context, accountID string) (int64, error) {
		t.Error("cached read hit the store")
		return 0, nil
	}

	if _, err := f.uc.GetBalance(ctx, account.ID); err != nil {
		t.Fatalf("cached get balance: %v", err)
	}
}

func TestAccountUseCase_GetBalance_UnknownAccount(t *testing.T) {
	f := newAccountFixture()

	_, err := f.uc.GetBalance(context.Background(), "missing")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}
