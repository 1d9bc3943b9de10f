package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thaliabank/corebank/internal/domain"
	"github.com/thaliabank/corebank/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const createAccountSQL = `
INSERT INTO user_account (id, user_id, account_number, iban, chart_id, currency, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Create inserts a new account row within the given transaction.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, createAccountSQL,
		account.ID,
		account.UserID,
		account.AccountNumber,
		account.IBAN,
		account.ChartID,
		account.Currency,
		string(account.Status),
		timeToPgTimestamptz(account.CreatedAt),
	)

	return err
}

const getAccountByIDSQL = `
SELECT id, user_id, account_number, iban, chart_id, currency, status, created_at
FROM user_account
WHERE id = $1`

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, getAccountByIDSQL, id)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account   domain.Account
		status    string
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.AccountNumber,
		&account.IBAN,
		&account.ChartID,
		&account.Currency,
		&status,
		&createdAt,
	); err != nil {
		return nil, err
	}

	account.Status = domain.AccountStatus(status)
	account.CreatedAt = createdAt.Time

	return &account, nil
}

// Type conversion helpers shared by the postgres repositories.
func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
