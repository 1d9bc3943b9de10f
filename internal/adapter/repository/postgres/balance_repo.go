package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thaliabank/corebank/internal/domain"
	"github.com/thaliabank/corebank/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository over the single-row
// account_balance cache. The cached value is always overwritten with a full
// re-derivation from journal lines, never patched incrementally.
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

const initBalanceSQL = `
INSERT INTO account_balance (account_id, balance_minor, updated_at)
VALUES ($1, 0, now())`

// Init creates the zero balance row for a new account.
func (r *BalanceRepository) Init(ctx context.Context, tx usecase.Transaction, accountID string) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, initBalanceSQL, accountID)

	return err
}

// recomputeBalanceSQL re-derives the balance from the account's lines on its
// liability chart account, credits positive and debits negative, and
// overwrites the cached row in the same statement.
const recomputeBalanceSQL = `
WITH derived AS (
    SELECT COALESCE(SUM(
        CASE l.line_type
            WHEN 'credit' THEN l.amount_minor
            ELSE -l.amount_minor
        END), 0) AS balance_minor
    FROM journal_line l
    JOIN journal_entry e ON e.id = l.entry_id
    WHERE e.account_id = $1
      AND l.chart_id = $2
)
INSERT INTO account_balance (account_id, balance_minor, updated_at)
SELECT $1, derived.balance_minor, now() FROM derived
ON CONFLICT (account_id) DO UPDATE
SET balance_minor = EXCLUDED.balance_minor,
    updated_at    = EXCLUDED.updated_at
RETURNING balance_minor`

// Recompute re-derives and stores the account balance inside tx.
func (r *BalanceRepository) Recompute(ctx context.Context, tx usecase.Transaction, accountID, chartID string) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var balanceMinor int64
	if err := pgxTx.QueryRow(ctx, recomputeBalanceSQL, accountID, chartID).Scan(&balanceMinor); err != nil {
		return 0, err
	}

	return balanceMinor, nil
}

const getBalanceSQL = `
SELECT balance_minor
FROM account_balance
WHERE account_id = $1`

// Get reads the cached balance row.
func (r *BalanceRepository) Get(ctx context.Context, accountID string) (int64, error) {
	var balanceMinor int64
	if err := r.pool.QueryRow(ctx, getBalanceSQL, accountID).Scan(&balanceMinor); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrBalanceNotFound
		}

		return 0, err
	}

	return balanceMinor, nil
}

// findDriftSQL compares every cached balance against the sum re-derived from
// the ledger on the account's own chart account.
const findDriftSQL = `
SELECT b.account_id, b.balance_minor, COALESCE(d.balance_minor, 0)
FROM account_balance b
JOIN user_account a ON a.id = b.account_id
LEFT JOIN LATERAL (
    SELECT SUM(
        CASE l.line_type
            WHEN 'credit' THEN l.amount_minor
            ELSE -l.amount_minor
        END) AS balance_minor
    FROM journal_line l
    JOIN journal_entry e ON e.id = l.entry_id
    WHERE e.account_id = b.account_id
      AND l.chart_id = a.chart_id
) d ON true
WHERE b.balance_minor <> COALESCE(d.balance_minor, 0)
ORDER BY b.account_id`

// FindDrift returns accounts whose cached balance disagrees with the ledger.
func (r *BalanceRepository) FindDrift(ctx context.Context) ([]usecase.BalanceDrift, error) {
	rows, err := r.pool.Query(ctx, findDriftSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drifts []usecase.BalanceDrift
	for rows.Next() {
		var d usecase.BalanceDrift
		if err := rows.Scan(&d.AccountID, &d.CachedMinor, &d.DerivedMinor); err != nil {
			return nil, err
		}
		drifts = append(drifts, d)
	}

	return drifts, rows.Err()
}
