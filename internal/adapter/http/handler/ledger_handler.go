package handler

import (
	"net/http"

	"github.com/thaliabank/corebank/internal/usecase"
)

// LedgerHandler exposes ledger consistency operations.
type LedgerHandler struct {
	reconUC *usecase.ReconciliationUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(reconUC *usecase.ReconciliationUseCase) *LedgerHandler {
	return &LedgerHandler{reconUC: reconUC}
}

// Verify runs the double-entry and balance drift checks. An inconsistent
// ledger still returns the report, with a 200: the caller inspects it.
func (h *LedgerHandler) Verify(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconUC.VerifyLedger(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "consistency check failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// RebuildBalance re-derives one account's cached balance from the ledger.
func (h *LedgerHandler) RebuildBalance(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account_id", "")
		return
	}

	balanceMinor, err := h.reconUC.RebuildBalance(r.Context(), accountID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to rebuild balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"account_id":    accountID,
		"balance_minor": balanceMinor,
	})
}
