package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thaliabank/corebank/internal/domain"
	"github.com/thaliabank/corebank/internal/usecase"
)

// IdempotencyRepository implements usecase.IdempotencyRepository on the
// idempotency table. The primary key on (account_id, reference) is the
// admission control: whichever transaction inserts the row first owns the
// pair, and everyone else replays.
type IdempotencyRepository struct {
	pool *pgxpool.Pool
}

// NewIdempotencyRepository creates a new IdempotencyRepository.
func NewIdempotencyRepository(pool *pgxpool.Pool) *IdempotencyRepository {
	return &IdempotencyRepository{pool: pool}
}

const admitSQL = `
INSERT INTO idempotency (account_id, reference, amount_minor, created_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (account_id, reference) DO NOTHING`

// Admit claims the (account, reference) pair inside tx. A zero rows-affected
// result means someone else holds the claim.
func (r *IdempotencyRepository) Admit(ctx context.Context, tx usecase.Transaction, accountID, reference string, amountMinor int64) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, admitSQL, accountID, reference, amountMinor)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

const captureSQL = `
UPDATE idempotency
SET response_status  = $3,
    response_headers = $4,
    response_body    = $5
WHERE account_id = $1 AND reference = $2`

// Capture stores the response on the admitted row, in the same transaction
// that wrote the ledger entry. The row must exist: Admit ran earlier in tx.
func (r *IdempotencyRepository) Capture(ctx context.Context, tx usecase.Transaction, accountID, reference string, resp *domain.CapturedResponse) error {
	pgxTx := tx.(*Tx).PgxTx()

	headers, err := json.Marshal(resp.Headers)
	if err != nil {
		return fmt.Errorf("marshal response headers: %w", err)
	}

	tag, err := pgxTx.Exec(ctx, captureSQL, accountID, reference, resp.StatusCode, headers, resp.Body)
	if err != nil {
		return err
	}

	if tag.RowsAffected() != 1 {
		return fmt.Errorf("no admitted row for account %s reference %s", accountID, reference)
	}

	return nil
}

const getResponseSQL = `
SELECT response_status, response_headers, response_body
FROM idempotency
WHERE account_id = $1 AND reference = $2`

// GetResponse reads the captured response for a replay. It runs against the
// pool, not a transaction: a fresh read observes a commit that may have
// landed after the replaying request lost the admission race.
func (r *IdempotencyRepository) GetResponse(ctx context.Context, accountID, reference string) (*domain.CapturedResponse, error) {
	var (
		status  *int
		headers []byte
		body    []byte
	)

	err := r.pool.QueryRow(ctx, getResponseSQL, accountID, reference).Scan(&status, &headers, &body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReplayNotFound
		}

		return nil, err
	}

	// The row exists but the owning transaction has not committed its
	// response yet.
	if status == nil {
		return nil, domain.ErrReplayPending
	}

	resp := &domain.CapturedResponse{
		StatusCode: *status,
		Body:       body,
	}

	if len(headers) > 0 {
		if err := json.Unmarshal(headers, &resp.Headers); err != nil {
			return nil, fmt.Errorf("unmarshal response headers: %w", err)
		}
	}

	return resp, nil
}
