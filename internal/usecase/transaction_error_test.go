package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/thaliabank/corebank/internal/domain"
)

func TestErrorTypeBuckets(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrInvalidAmount, "validation"},
		{fmt.Errorf("wrap: %w", domain.ErrInvalidReference), "validation"},
		{domain.ErrInvalidCurrency, "validation"},
		{domain.ErrReplayPending, "replay_pending"},
		{domain.ErrDebitChartAccountNotFound, "configuration"},
		{domain.ErrCreditChartAccountNotFound, "configuration"},
		{errors.New("connection reset"), "infrastructure"},
	}

	for _, tt := range tests {
		if got := errorType(tt.err); got != tt.want {
			t.Errorf("errorType(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
