package ledger

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/chris/transit-tickets/pkg/api"
	"github.com/chris/transit-tickets/pkg/handlers/respond"
	"github.com/chris/transit-tickets/pkg/mapping"
	"github.com/chris/transit-tickets/pkg/models"
)

// BalanceChecker reads a ledger balance without changing it.
type BalanceChecker interface {
	Balance(ctx context.Context, creds models.CardCredentials) (int64, error)
}

// LedgerHandler holds the dependencies for ledger-related handlers.
type LedgerHandler struct {
	Payments BalanceChecker
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(payments BalanceChecker) *LedgerHandler {
	return &LedgerHandler{Payments: payments}
}

// GetBalance returns the balance of the ledger record matching the card.
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	var req api.BalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err)
		return
	}
	req.Normalize()
	if err := api.Validate(&req); err != nil {
		respond.BadRequest(w, err)
		return
	}

	creds, err := mapping.ToDomainCredentials(&req.CardDetails)
	if err != nil {
		respond.BadRequest(w, err)
		return
	}

	balance, err := h.Payments.Balance(r.Context(), creds)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, api.BalanceResponse{Balance: balance})
}
