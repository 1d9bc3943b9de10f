package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaliabank/corebank/internal/domain"
	"github.com/thaliabank/corebank/internal/infrastructure/metrics"
)

// AccountUseCase handles account opening and the hot balance read path.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	chartRepo   ChartRepository
	posting     *PostingEngine
	balanceRepo BalanceRepository
	idGen       IDGenerator
	cache       Cache
	cacheTTL    time.Duration
	countryCode string
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase. metrics may be nil.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	chartRepo ChartRepository,
	posting *PostingEngine,
	balanceRepo BalanceRepository,
	idGen IDGenerator,
	cache Cache,
	cacheTTL time.Duration,
	countryCode string,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		chartRepo:   chartRepo,
		posting:     posting,
		balanceRepo: balanceRepo,
		idGen:       idGen,
		cache:       cache,
		cacheTTL:    cacheTTL,
		countryCode: countryCode,
		logger:      logger.With().Str("component", "account").Logger(),
		metrics:     m,
	}
}

// OpenAccountInput represents input for opening a customer account.
type OpenAccountInput struct {
	UserID   string
	Currency string
}

// OpenAccount creates the account row, posts the zero-amount funding entry
// between the Asset and Liability chart accounts, and initializes the
// balance cache row, all in one transaction. No idempotency gating applies:
// account creation is a one-time event guarded by upstream uniqueness.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error) {
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	debitChartID, err := uc.chartRepo.GetIDByCategory(ctx, tx, domain.CategoryAsset)
	if err != nil {
		if errors.Is(err, domain.ErrChartAccountNotFound) {
			return nil, domain.ErrDebitChartAccountNotFound
		}
		return nil, err
	}

	creditChartID, err := uc.chartRepo.GetIDByCategory(ctx, tx, domain.CategoryLiability)
	if err != nil {
		if errors.Is(err, domain.ErrChartAccountNotFound) {
			return nil, domain.ErrCreditChartAccountNotFound
		}
		return nil, err
	}

	id := uc.idGen.Generate()
	account := &domain.Account{
		ID:            id,
		UserID:        input.UserID,
		AccountNumber: accountNumberFrom(id),
		IBAN:          ibanFrom(uc.countryCode, id),
		ChartID:       creditChartID,
		Currency:      strings.ToUpper(strings.TrimSpace(input.Currency)),
		Status:        domain.AccountPending,
		CreatedAt:     time.Now().UTC(),
	}

	if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	if _, err := uc.posting.PostOpening(ctx, tx, PostInput{
		AccountID:     account.ID,
		AmountMinor:   0,
		DebitChartID:  debitChartID,
		CreditChartID: creditChartID,
		Reference:     "OPEN-" + account.AccountNumber,
		Description:   "account opening",
	}); err != nil {
		return nil, err
	}

	if err := uc.balanceRepo.Init(ctx, tx, account.ID); err != nil {
		return nil, fmt.Errorf("initialize balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.AccountsOpened.Inc()
	}

	uc.logger.Info().
		Str("account_id", account.ID).
		Str("user_id", account.UserID).
		Msg("account opened")

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues("get").Inc()
	}

	return uc.accountRepo.GetByID(ctx, id)
}

// BalanceInfo is the read-side view of a cached account balance.
type BalanceInfo struct {
	AccountID   string    `json:"account_id"`
	AmountMinor int64     `json:"amount_minor"`
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency"`
	AsOf        time.Time `json:"as_of"`
}

// GetBalance serves the hot read path: the redis response cache first, the
// single account_balance row on a miss. It never aggregates ledger history.
func (uc *AccountUseCase) GetBalance(ctx context.Context, accountID string) (*BalanceInfo, error) {
	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues("balance_read").Inc()
	}

	key := balanceCacheKey(accountID)

	if cached, err := uc.cache.Get(ctx, key); err == nil {
		var info BalanceInfo
		if err := json.Unmarshal(cached, &info); err == nil {
			if uc.metrics != nil {
				uc.metrics.BalanceCacheHits.Inc()
			}

			return &info, nil
		}
	}

	if uc.metrics != nil {
		uc.metrics.BalanceCacheMisses.Inc()
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	balanceMinor, err := uc.balanceRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	info := &BalanceInfo{
		AccountID:   accountID,
		AmountMinor: balanceMinor,
		Amount:      domain.FromMinorUnits(balanceMinor).StringFixed(2),
		Currency:    account.Currency,
		AsOf:        time.Now().UTC(),
	}

	if payload, err := json.Marshal(info); err == nil {
		if err := uc.cache.Set(ctx, key, payload, uc.cacheTTL); err != nil {
			uc.logger.Warn().Err(err).Str("account_id", accountID).Msg("failed to cache balance")
		}
	}

	return info, nil
}

// accountNumberFrom derives a 10-digit account number from the whole account
// ID. Hashing the full ID keeps the entropy portion of the ULID in play;
// deriving from its leading characters would collapse IDs minted in the same
// millisecond onto one number.
func accountNumberFrom(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	v := h.Sum64()

	digits := make([]byte, 10)
	for i := range digits {
		digits[i] = '0' + byte(v%10)
		v /= 10
	}

	return string(digits)
}

func ibanFrom(countryCode, id string) string {
	return strings.ToUpper(countryCode) + "00" + accountNumberFrom(id)
}
