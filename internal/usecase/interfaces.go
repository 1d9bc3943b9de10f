package usecase

import (
	"context"
	"time"

	"github.com/thaliabank/corebank/internal/domain"
)

// AccountRepository defines data access for customer accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}

// ChartRepository defines read access to the chart of accounts.
// Category lookups run inside the caller's transaction so they observe
// the same snapshot as the writes that follow them.
type ChartRepository interface {
	GetIDByCategory(ctx context.Context, tx Transaction, category domain.ChartCategory) (string, error)
	Create(ctx context.Context, coa *domain.ChartOfAccount) error
	List(ctx context.Context) ([]*domain.ChartOfAccount, error)
}

// JournalFilter narrows the read-side journal browser.
type JournalFilter struct {
	AccountID string
	Reference string
	From      time.Time
	To        time.Time
	LineType  string
	Limit     int
	Offset    int
}

// JournalRepository defines data access for journal entries and lines.
type JournalRepository interface {
	CreateEntry(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	// CreateLines writes the debit/credit pair of an entry in one statement.
	CreateLines(ctx context.Context, tx Transaction, debit, credit *domain.JournalLine) error
	GetEntry(ctx context.Context, id string) (*domain.EntryWithLines, error)
	List(ctx context.Context, filter JournalFilter) ([]*domain.EntryWithLines, error)
	// FindUnbalanced returns IDs of entries violating the double-entry law.
	FindUnbalanced(ctx context.Context, limit int) ([]string, error)
}

// BalanceDrift reports a cached balance that disagrees with the ledger.
type BalanceDrift struct {
	AccountID    string
	CachedMinor  int64
	DerivedMinor int64
}

// BalanceRepository defines access to the derived per-account balance cache.
type BalanceRepository interface {
	Init(ctx context.Context, tx Transaction, accountID string) error
	// Recompute re-derives the balance from the account's ledger lines on the
	// given chart account and overwrites the cached row, returning the result.
	Recompute(ctx context.Context, tx Transaction, accountID, chartID string) (int64, error)
	Get(ctx context.Context, accountID string) (int64, error)
	FindDrift(ctx context.Context) ([]BalanceDrift, error)
}

// IdempotencyRepository defines the durable admission gate for
// (account, reference) pairs.
type IdempotencyRepository interface {
	// Admit inserts the admission row inside tx. It reports false when the
	// pair was already claimed, whether committed or still in flight.
	Admit(ctx context.Context, tx Transaction, accountID, reference string, amountMinor int64) (bool, error)
	// Capture stores the HTTP-shaped response on the admitted row, inside
	// the same transaction that performed the ledger write.
	Capture(ctx context.Context, tx Transaction, accountID, reference string, resp *domain.CapturedResponse) error
	// GetResponse reads the saved response outside any write transaction.
	// A claimed pair whose response is not yet captured yields
	// domain.ErrReplayPending.
	GetResponse(ctx context.Context, accountID, reference string) (*domain.CapturedResponse, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique, time-ordered IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs a transactional sequence on retryable store errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines the read-side response cache.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
