package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/thaliabank/corebank/internal/domain"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestSeedChartsCoverEveryCategory(t *testing.T) {
	want := map[domain.ChartCategory]bool{
		domain.CategoryAsset:     false,
		domain.CategoryLiability: false,
		domain.CategoryEquity:    false,
		domain.CategoryIncome:    false,
		domain.CategoryExpense:   false,
		domain.CategoryMemoranda: false,
	}

	for _, coa := range seedCharts {
		seen, ok := want[coa.Category]
		if !ok {
			t.Errorf("unknown category %q in seed data", coa.Category)
			continue
		}
		if seen {
			t.Errorf("category %q seeded twice", coa.Category)
		}
		want[coa.Category] = true

		if coa.Code == "" || coa.Name == "" {
			t.Errorf("seed row for %q missing code or name", coa.Category)
		}
	}

	for category, seen := range want {
		if !seen {
			t.Errorf("category %q missing from seed data", category)
		}
	}
}

func TestVerifyLedgerReportsConsistent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/ledger/verify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"consistent":true,"checked_at":"2026-01-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	origURL, origTimeout := baseURL, timeout
	baseURL, timeout = srv.URL, time.Second
	defer func() { baseURL, timeout = origURL, origTimeout }()

	out := captureOutput(t, verifyLedger)

	if !strings.Contains(out, "Ledger consistent") {
		t.Fatalf("unexpected output: %q", out)
	}
}
