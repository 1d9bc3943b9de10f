package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thaliabank/corebank/internal/adapter/http/dto"
	"github.com/thaliabank/corebank/internal/usecase"
)

// JournalHandler serves the read-side journal browser.
type JournalHandler struct {
	ledgerUC *usecase.LedgerUseCase
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(ledgerUC *usecase.LedgerUseCase) *JournalHandler {
	return &JournalHandler{ledgerUC: ledgerUC}
}

// List lists journal entries, newest first. Filters come from query params.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.JournalFilter{
		AccountID: r.URL.Query().Get("account_id"),
		Reference: r.URL.Query().Get("reference"),
		LineType:  r.URL.Query().Get("line_type"),
		Limit:     parseIntQuery(r, "limit", 0),
		Offset:    parseIntQuery(r, "offset", 0),
	}

	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from timestamp", err.Error())
			return
		}
		filter.From = t
	}

	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to timestamp", err.Error())
			return
		}
		filter.To = t
	}

	entries, err := h.ledgerUC.ListJournal(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list journal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalEntriesFromDomain(entries))
}

// Get retrieves one journal entry with its lines.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.ledgerUC.GetJournalEntry(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get journal entry", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.JournalEntryFromDomain(entry))
}
