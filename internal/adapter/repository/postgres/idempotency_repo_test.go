package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"

	"github.com/thaliabank/corebank/internal/domain"
	"github.com/thaliabank/corebank/internal/usecase"
)

func beginTx(t *testing.T, pool pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	pool.ExpectBeginTx(serializableOpts)
	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return tx
}

func TestIdempotencyAdmitClaimsPair(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginTx(t, mockPool)

	mockPool.ExpectExec("INSERT INTO idempotency").
		WithArgs("acc-1", "REF-1", int64(10000)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewIdempotencyRepository(nil)
	admitted, err := repo.Admit(context.Background(), tx, "acc-1", "REF-1", 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !admitted {
		t.Fatal("first claim on the pair must be admitted")
	}

	assertExpectations(t, mockPool)
}

func TestIdempotencyAdmitLosesRace(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginTx(t, mockPool)

	// ON CONFLICT DO NOTHING reports zero rows when the pair exists.
	mockPool.ExpectExec("INSERT INTO idempotency").
		WithArgs("acc-1", "REF-1", int64(10000)).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	repo := NewIdempotencyRepository(nil)
	admitted, err := repo.Admit(context.Background(), tx, "acc-1", "REF-1", 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admitted {
		t.Fatal("conflicting claim must not be admitted")
	}

	assertExpectations(t, mockPool)
}

func TestIdempotencyCaptureRequiresAdmittedRow(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginTx(t, mockPool)

	mockPool.ExpectExec("UPDATE idempotency").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewIdempotencyRepository(nil)
	resp := &domain.CapturedResponse{StatusCode: 200, Body: []byte(`{"status":"ok"}`)}
	err := repo.Capture(context.Background(), tx, "acc-1", "REF-1", resp)
	if err == nil {
		t.Fatal("capture without an admitted row must fail")
	}

	assertExpectations(t, mockPool)
}
