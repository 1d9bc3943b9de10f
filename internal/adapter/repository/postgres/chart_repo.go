package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thaliabank/corebank/internal/domain"
	"github.com/thaliabank/corebank/internal/usecase"
)

// ChartRepository implements usecase.ChartRepository.
type ChartRepository struct {
	pool *pgxpool.Pool
}

// NewChartRepository creates a new ChartRepository.
func NewChartRepository(pool *pgxpool.Pool) *ChartRepository {
	return &ChartRepository{pool: pool}
}

const getChartIDByCategorySQL = `
SELECT id
FROM chart_of_account
WHERE category = $1
ORDER BY code
LIMIT 1`

// GetIDByCategory resolves the chart account for a category inside the
// posting transaction, so the chart configuration a posting sees is the one
// it commits against.
func (r *ChartRepository) GetIDByCategory(ctx context.Context, tx usecase.Transaction, category domain.ChartCategory) (string, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var id string
	if err := pgxTx.QueryRow(ctx, getChartIDByCategorySQL, string(category)).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrChartAccountNotFound
		}

		return "", err
	}

	return id, nil
}

const createChartSQL = `
INSERT INTO chart_of_account (id, code, name, category, currency)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (code) DO NOTHING`

// Create inserts a chart account. Seeding is idempotent on the code.
func (r *ChartRepository) Create(ctx context.Context, coa *domain.ChartOfAccount) error {
	_, err := r.pool.Exec(ctx, createChartSQL,
		coa.ID,
		coa.Code,
		coa.Name,
		string(coa.Category),
		coa.Currency,
	)

	return err
}

const listChartsSQL = `
SELECT id, code, name, category, currency
FROM chart_of_account
ORDER BY code`

// List returns every chart account.
func (r *ChartRepository) List(ctx context.Context) ([]*domain.ChartOfAccount, error) {
	rows, err := r.pool.Query(ctx, listChartsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charts []*domain.ChartOfAccount
	for rows.Next() {
		var (
			coa      domain.ChartOfAccount
			category string
		)
		if err := rows.Scan(&coa.ID, &coa.Code, &coa.Name, &category, &coa.Currency); err != nil {
			return nil, err
		}
		coa.Category = domain.ChartCategory(category)
		charts = append(charts, &coa)
	}

	return charts, rows.Err()
}
