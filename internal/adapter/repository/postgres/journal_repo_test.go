package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"

	"github.com/thaliabank/corebank/internal/domain"
	"github.com/thaliabank/corebank/internal/usecase"
)

func TestCreateLinesWritesPairInOneStatement(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginTx(t, mockPool)

	mockPool.ExpectExec("INSERT INTO journal_line").
		WithArgs(
			"l1", "e1", "coa-asset", int64(10000), "debit",
			"l2", "e1", "coa-liability", int64(10000), "credit",
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	repo := NewJournalRepository(nil)
	err := repo.CreateLines(context.Background(), tx,
		&domain.JournalLine{ID: "l1", EntryID: "e1", ChartID: "coa-asset", AmountMinor: 10000, Type: domain.LineDebit},
		&domain.JournalLine{ID: "l2", EntryID: "e1", ChartID: "coa-liability", AmountMinor: 10000, Type: domain.LineCredit},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestBuildListQuery(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filter   usecase.JournalFilter
		want     []string
		wantArgs int
	}{
		{
			name:     "no filters",
			filter:   usecase.JournalFilter{Limit: 20},
			want:     []string{"ORDER BY e.created_at DESC"},
			wantArgs: 2,
		},
		{
			name:     "account filter",
			filter:   usecase.JournalFilter{AccountID: "acc-1", Limit: 20},
			want:     []string{"e.account_id = $1", "LIMIT $2", "OFFSET $3"},
			wantArgs: 3,
		},
		{
			name:     "all filters",
			filter:   usecase.JournalFilter{AccountID: "acc-1", Reference: "REF-1", From: from, To: from.AddDate(0, 1, 0), LineType: "debit", Limit: 20},
			want:     []string{"e.account_id = $1", "e.reference = $2", "e.created_at >= $3", "e.created_at < $4", "l.line_type = $5", "LIMIT $6", "OFFSET $7"},
			wantArgs: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildListQuery(tt.filter)
			for _, fragment := range tt.want {
				if !strings.Contains(query, fragment) {
					t.Errorf("query %q missing %q", query, fragment)
				}
			}
			if len(args) != tt.wantArgs {
				t.Errorf("got %d args, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestRecomputeReturnsDerivedBalance(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginTx(t, mockPool)

	mockPool.ExpectQuery("INSERT INTO account_balance").
		WithArgs("acc-1", "coa-liability").
		WillReturnRows(pgxmock.NewRows([]string{"balance_minor"}).AddRow(int64(7500)))

	repo := NewBalanceRepository(nil)
	balance, err := repo.Recompute(context.Background(), tx, "acc-1", "coa-liability")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 7500 {
		t.Errorf("balance = %d, want 7500", balance)
	}

	assertExpectations(t, mockPool)
}
