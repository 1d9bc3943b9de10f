package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/thaliabank/corebank/internal/domain"
	"github.com/thaliabank/corebank/internal/infrastructure/metrics"
)

// operation selects which side of the entry debits and which credits.
type operation struct {
	name           string
	debitCategory  domain.ChartCategory
	creditCategory domain.ChartCategory
}

// Cash movement conventions: a deposit increases the bank's cash asset and
// the customer liability; a withdrawal reverses both. The customer-visible
// balance is derived on the liability side.
var (
	opDeposit  = operation{name: "deposit", debitCategory: domain.CategoryAsset, creditCategory: domain.CategoryLiability}
	opWithdraw = operation{name: "withdrawal", debitCategory: domain.CategoryLiability, creditCategory: domain.CategoryAsset}
)

// TransactionUseCase sequences the idempotency gate, chart lookup, posting
// engine and balance cache into the two gateway operations.
type TransactionUseCase struct {
	txManager       TransactionManager
	chartRepo       ChartRepository
	posting         *PostingEngine
	balanceRepo     BalanceRepository
	idempotencyRepo IdempotencyRepository
	cache           Cache
	retrier         Retrier
	logger          zerolog.Logger
	metrics         *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase. metrics may be nil.
func NewTransactionUseCase(
	txManager TransactionManager,
	chartRepo ChartRepository,
	posting *PostingEngine,
	balanceRepo BalanceRepository,
	idempotencyRepo IdempotencyRepository,
	cache Cache,
	retrier Retrier,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:       txManager,
		chartRepo:       chartRepo,
		posting:         posting,
		balanceRepo:     balanceRepo,
		idempotencyRepo: idempotencyRepo,
		cache:           cache,
		retrier:         retrier,
		logger:          logger.With().Str("component", "transaction").Logger(),
		metrics:         m,
	}
}

// TransactionInput represents a validated cash deposit or withdrawal request.
type TransactionInput struct {
	AccountID string
	Amount    decimal.Decimal
	Currency  string
	Reference string
	Notes     string
}

// Receipt is the success payload captured for replay. Amount fields are
// serialized as strings so replayed bodies stay byte-stable.
type Receipt struct {
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id"`
	AccountID     string    `json:"account_id"`
	Balance       string    `json:"account_balance"`
	Currency      string    `json:"currency"`
	Timestamp     time.Time `json:"timestamp"`
	Fees          string    `json:"fees"`
}

// Deposit records a cash deposit. The returned response is HTTP-shaped and,
// when replayed is true, is the byte-identical capture of a previous attempt
// with the same (account, reference) pair.
func (uc *TransactionUseCase) Deposit(ctx context.Context, input TransactionInput) (*domain.CapturedResponse, bool, error) {
	return uc.run(ctx, opDeposit, input)
}

// Withdraw records a cash withdrawal.
func (uc *TransactionUseCase) Withdraw(ctx context.Context, input TransactionInput) (*domain.CapturedResponse, bool, error) {
	return uc.run(ctx, opWithdraw, input)
}

func (uc *TransactionUseCase) run(ctx context.Context, op operation, input TransactionInput) (*domain.CapturedResponse, bool, error) {
	resp, replayed, err := uc.process(ctx, op, input)
	if err != nil && uc.metrics != nil {
		uc.metrics.TransactionErrors.WithLabelValues(errorType(err)).Inc()
	}

	return resp, replayed, err
}

func (uc *TransactionUseCase) process(ctx context.Context, op operation, input TransactionInput) (*domain.CapturedResponse, bool, error) {
	// Validation happens before any store interaction.
	if err := domain.ValidateReference(input.Reference); err != nil {
		return nil, false, err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, false, err
	}

	if err := domain.ValidateNotes(input.Notes); err != nil {
		return nil, false, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, false, err
	}

	amountMinor := domain.MinorUnits(input.Amount)
	if amountMinor <= 0 {
		return nil, false, domain.ErrInvalidAmount
	}

	var (
		resp     *domain.CapturedResponse
		replayed bool
	)

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		resp, replayed, err = uc.attempt(ctx, op, input, amountMinor)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	return resp, replayed, nil
}

// attempt runs one transactional pass of the gateway sequence:
// admit, then chart lookup, posting, balance recompute and response capture,
// all committed as a single unit.
func (uc *TransactionUseCase) attempt(ctx context.Context, op operation, input TransactionInput, amountMinor int64) (*domain.CapturedResponse, bool, error) {
	start := time.Now()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	admitted, err := uc.idempotencyRepo.Admit(ctx, tx, input.AccountID, input.Reference, amountMinor)
	if err != nil {
		return nil, false, fmt.Errorf("idempotency admission: %w", err)
	}

	if !admitted {
		// The pair is already claimed. The saved response may belong to a
		// different, already-committed transaction, so it is fetched with a
		// fresh read outside this one.
		_ = tx.Rollback(ctx)

		saved, err := uc.idempotencyRepo.GetResponse(ctx, input.AccountID, input.Reference)
		if err != nil {
			return nil, false, err
		}

		if uc.metrics != nil {
			uc.metrics.TransactionsReplays.Inc()
		}

		uc.logger.Info().
			Str("account_id", input.AccountID).
			Str("reference", input.Reference).
			Str("operation", op.name).
			Msg("duplicate submission, replaying captured response")

		return saved, true, nil
	}

	debitChartID, err := uc.chartRepo.GetIDByCategory(ctx, tx, op.debitCategory)
	if err != nil {
		if errors.Is(err, domain.ErrChartAccountNotFound) {
			return nil, false, domain.ErrDebitChartAccountNotFound
		}
		return nil, false, err
	}

	creditChartID, err := uc.chartRepo.GetIDByCategory(ctx, tx, op.creditCategory)
	if err != nil {
		if errors.Is(err, domain.ErrChartAccountNotFound) {
			return nil, false, domain.ErrCreditChartAccountNotFound
		}
		return nil, false, err
	}

	entry, err := uc.posting.Post(ctx, tx, PostInput{
		AccountID:     input.AccountID,
		AmountMinor:   amountMinor,
		DebitChartID:  debitChartID,
		CreditChartID: creditChartID,
		Reference:     input.Reference,
		Description:   input.Notes,
	})
	if err != nil {
		return nil, false, err
	}

	liabilityChartID := creditChartID
	if op.debitCategory == domain.CategoryLiability {
		liabilityChartID = debitChartID
	}

	balanceMinor, err := uc.balanceRepo.Recompute(ctx, tx, input.AccountID, liabilityChartID)
	if err != nil {
		return nil, false, fmt.Errorf("recompute balance: %w", err)
	}

	resp, err := uc.buildResponse(entry, input, balanceMinor)
	if err != nil {
		return nil, false, err
	}

	if err := uc.idempotencyRepo.Capture(ctx, tx, input.AccountID, input.Reference, resp); err != nil {
		return nil, false, fmt.Errorf("capture response: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("commit transaction: %w", err)
	}

	// The cached read-side balance is stale after commit. Invalidation is
	// best effort; the account_balance row stays authoritative.
	if err := uc.cache.Delete(ctx, balanceCacheKey(input.AccountID)); err != nil {
		uc.logger.Warn().Err(err).Str("account_id", input.AccountID).Msg("failed to invalidate balance cache")
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsPosted.WithLabelValues(op.name).Inc()
		uc.metrics.TransactionAmount.WithLabelValues(op.name).Observe(float64(amountMinor))
		uc.metrics.TransactionDuration.Observe(time.Since(start).Seconds())
	}

	uc.logger.Info().
		Str("account_id", input.AccountID).
		Str("transaction_id", entry.TransactionID).
		Str("operation", op.name).
		Int64("amount_minor", amountMinor).
		Msg("transaction posted")

	return resp, false, nil
}

// errorType buckets a gateway failure for the error counter.
func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidReference),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidNotes):
		return "validation"
	case errors.Is(err, domain.ErrReplayPending):
		return "replay_pending"
	case errors.Is(err, domain.ErrDebitChartAccountNotFound),
		errors.Is(err, domain.ErrCreditChartAccountNotFound):
		return "configuration"
	default:
		return "infrastructure"
	}
}

func (uc *TransactionUseCase) buildResponse(entry *domain.JournalEntry, input TransactionInput, balanceMinor int64) (*domain.CapturedResponse, error) {
	receipt := Receipt{
		Status:        "success",
		TransactionID: entry.TransactionID,
		AccountID:     input.AccountID,
		Balance:       domain.FromMinorUnits(balanceMinor).StringFixed(2),
		Currency:      input.Currency,
		Timestamp:     entry.CreatedAt,
		Fees:          "0.00",
	}

	body, err := json.Marshal(receipt)
	if err != nil {
		return nil, fmt.Errorf("marshal receipt: %w", err)
	}

	return &domain.CapturedResponse{
		StatusCode: http.StatusOK,
		Headers: []domain.HeaderPair{
			{Name: "Content-Type", Value: []byte("application/json")},
		},
		Body: body,
	}, nil
}
