package postgres

import (
	"context"
	"testing"
	"time"
)

func TestNewPoolInvalidURL(t *testing.T) {
	if _, err := NewPool(context.Background(), "not-a-url", 4, 1); err == nil {
		t.Fatal("expected error when parsing invalid URL")
	}
}

func TestNewPoolPingFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Port 1 is never a Postgres listener, so the ping must fail.
	if _, err := NewPool(ctx, "postgres://127.0.0.1:1/corebank", 1, 0); err == nil {
		t.Fatal("expected error when pool cannot connect")
	}
}
