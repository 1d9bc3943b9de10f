package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thaliabank/corebank/internal/domain"
	"github.com/thaliabank/corebank/internal/usecase"
)

// JournalRepository implements usecase.JournalRepository. The journal is
// append-only: there are no update or delete statements in this file.
type JournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

const createEntrySQL = `
INSERT INTO journal_entry (id, account_id, transaction_id, reference, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

// CreateEntry inserts the entry header within the given transaction.
func (r *JournalRepository) CreateEntry(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, createEntrySQL,
		entry.ID,
		entry.AccountID,
		entry.TransactionID,
		entry.Reference,
		entry.Description,
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

const createLinesSQL = `
INSERT INTO journal_line (id, entry_id, chart_id, amount_minor, line_type)
VALUES ($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10)`

// CreateLines writes the debit/credit pair in a single statement so an entry
// can never be observed with only one of its lines.
func (r *JournalRepository) CreateLines(ctx context.Context, tx usecase.Transaction, debit, credit *domain.JournalLine) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, createLinesSQL,
		debit.ID, debit.EntryID, debit.ChartID, debit.AmountMinor, string(debit.Type),
		credit.ID, credit.EntryID, credit.ChartID, credit.AmountMinor, string(credit.Type),
	)

	return err
}

const getEntrySQL = `
SELECT id, account_id, transaction_id, reference, description, created_at
FROM journal_entry
WHERE id = $1`

const getLinesSQL = `
SELECT id, entry_id, chart_id, amount_minor, line_type
FROM journal_line
WHERE entry_id = ANY($1)
ORDER BY line_type`

// GetEntry retrieves one entry with its lines.
func (r *JournalRepository) GetEntry(ctx context.Context, id string) (*domain.EntryWithLines, error) {
	row := r.pool.QueryRow(ctx, getEntrySQL, id)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	lines, err := r.linesFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}

	return &domain.EntryWithLines{Entry: *entry, Lines: lines[id]}, nil
}

// List pages through entries matching the filter, newest first, and attaches
// the lines of every entry on the page.
func (r *JournalRepository) List(ctx context.Context, filter usecase.JournalFilter) ([]*domain.EntryWithLines, error) {
	query, args := buildListQuery(filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		entries []*domain.JournalEntry
		ids     []string
	)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		ids = append(ids, entry.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, nil
	}

	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.EntryWithLines, 0, len(entries))
	for _, entry := range entries {
		out = append(out, &domain.EntryWithLines{Entry: *entry, Lines: lines[entry.ID]})
	}

	return out, nil
}

// buildListQuery assembles the filtered entry page query. Conditions are
// appended only for fields the caller set, with positional args.
func buildListQuery(filter usecase.JournalFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.AccountID != "" {
		add("e.account_id = $%d", filter.AccountID)
	}
	if filter.Reference != "" {
		add("e.reference = $%d", filter.Reference)
	}
	if !filter.From.IsZero() {
		add("e.created_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("e.created_at < $%d", filter.To)
	}
	if filter.LineType != "" {
		add("EXISTS (SELECT 1 FROM journal_line l WHERE l.entry_id = e.id AND l.line_type = $%d)", filter.LineType)
	}

	var sb strings.Builder
	sb.WriteString("SELECT e.id, e.account_id, e.transaction_id, e.reference, e.description, e.created_at FROM journal_entry e")
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	args = append(args, filter.Limit)
	sb.WriteString(fmt.Sprintf(" ORDER BY e.created_at DESC, e.id DESC LIMIT $%d", len(args)))
	args = append(args, filter.Offset)
	sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	return sb.String(), args
}

const findUnbalancedSQL = `
SELECT e.id
FROM journal_entry e
LEFT JOIN journal_line l ON l.entry_id = e.id
GROUP BY e.id
HAVING COUNT(*) FILTER (WHERE l.line_type = 'debit') <> 1
    OR COUNT(*) FILTER (WHERE l.line_type = 'credit') <> 1
    OR COALESCE(SUM(l.amount_minor) FILTER (WHERE l.line_type = 'debit'), 0)
       <> COALESCE(SUM(l.amount_minor) FILTER (WHERE l.line_type = 'credit'), 0)
ORDER BY e.id
LIMIT $1`

// FindUnbalanced scans for entries violating the one-debit, one-credit,
// equal-amounts shape. A healthy ledger returns nothing.
func (r *JournalRepository) FindUnbalanced(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx, findUnbalancedSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *JournalRepository) linesFor(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	rows, err := r.pool.Query(ctx, getLinesSQL, entryIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.JournalLine, len(entryIDs))
	for rows.Next() {
		var (
			line     domain.JournalLine
			lineType string
		)
		if err := rows.Scan(&line.ID, &line.EntryID, &line.ChartID, &line.AmountMinor, &lineType); err != nil {
			return nil, err
		}
		line.Type = domain.LineType(lineType)
		out[line.EntryID] = append(out[line.EntryID], line)
	}

	return out, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var (
		entry     domain.JournalEntry
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.TransactionID,
		&entry.Reference,
		&entry.Description,
		&createdAt,
	); err != nil {
		return nil, err
	}

	entry.CreatedAt = createdAt.Time

	return &entry, nil
}
