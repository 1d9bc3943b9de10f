package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/thaliabank/corebank/internal/adapter/http/dto"
	"github.com/thaliabank/corebank/internal/adapter/http/middleware"
	"github.com/thaliabank/corebank/internal/domain"
	"github.com/thaliabank/corebank/internal/usecase"
)

// TransactionHandler handles deposit and withdrawal requests.
type TransactionHandler struct {
	transactionUC *usecase.TransactionUseCase
	retryAfter    time.Duration
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC *usecase.TransactionUseCase, retryAfter time.Duration) *TransactionHandler {
	return &TransactionHandler{
		transactionUC: transactionUC,
		retryAfter:    retryAfter,
	}
}

// Deposit records a cash deposit for the authenticated account.
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.transactionUC.Deposit)
}

// Withdraw records a cash withdrawal for the authenticated account.
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.transactionUC.Withdraw)
}

func (h *TransactionHandler) handle(
	w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, usecase.TransactionInput) (*domain.CapturedResponse, bool, error),
) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing account identity", "")
		return
	}

	var req dto.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	resp, _, err := op(r.Context(), req.ToUseCaseInput(accountID))
	if err != nil {
		if errors.Is(err, domain.ErrReplayPending) {
			w.Header().Set("Retry-After", strconv.Itoa(int(h.retryAfter.Seconds())))
			writeError(w, http.StatusConflict, "request still in flight", err.Error())

			return
		}

		status := mapDomainError(err)
		writeError(w, status, "failed to post transaction", err.Error())

		return
	}

	writeCaptured(w, resp)
}

// writeCaptured replays a captured response verbatim. Replays must be
// byte-identical to the original answer, so the status, headers and body are
// written exactly as stored with nothing added.
func writeCaptured(w http.ResponseWriter, resp *domain.CapturedResponse) {
	for _, h := range resp.Headers {
		w.Header().Set(h.Name, string(h.Value))
	}

	w.WriteHeader(resp.StatusCode)
	w.Write(resp.Body)
}
