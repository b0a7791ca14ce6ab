// Package respond writes JSON bodies and maps engine errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chris/transit-tickets/pkg/api"
	"github.com/chris/transit-tickets/pkg/lifecycle"
	"github.com/chris/transit-tickets/pkg/payment"
	"github.com/chris/transit-tickets/pkg/storage"
	"github.com/chris/transit-tickets/pkg/tickets"
	"github.com/chris/transit-tickets/pkg/timeout"
	"github.com/chris/transit-tickets/pkg/wallet"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// BadRequest reports a body that could not be decoded or validated.
func BadRequest(w http.ResponseWriter, err error) {
	var verr *api.ValidationError
	if errors.As(err, &verr) {
		http.Error(w, verr.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
}

// Error writes a human-readable message and the status for err.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := Status(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	http.Error(w, msg, status)
}

// Status returns the HTTP status and client message for err.
func Status(err error) (int, string) {
	var funds *payment.InsufficientFundsError
	var verr *api.ValidationError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, tickets.ErrTicketNotIssued):
		return http.StatusInternalServerError, "Your card was charged but the ticket could not be issued"
	case errors.As(err, &funds):
		return http.StatusPaymentRequired, fmt.Sprintf("Insufficient funds: balance %d, ticket costs %d", funds.Balance, funds.Price)
	case errors.Is(err, payment.ErrInsufficientFunds):
		return http.StatusPaymentRequired, "Insufficient funds"
	case errors.Is(err, payment.ErrInvalidCard):
		return http.StatusPaymentRequired, "Card details do not match any account"
	case errors.Is(err, payment.ErrTimeout):
		return http.StatusGatewayTimeout, "Payment timed out; check your balance before trying again"
	case errors.Is(err, timeout.ErrTimeout):
		return http.StatusGatewayTimeout, "The request timed out"
	case errors.Is(err, lifecycle.ErrNotFound):
		return http.StatusNotFound, "Ticket not found"
	case errors.Is(err, lifecycle.ErrNoMatchForScan):
		return http.StatusNotFound, "No ticket matches the scanned code"
	case errors.Is(err, lifecycle.ErrWrongState):
		return http.StatusConflict, "Ticket cannot make that change in its current state"
	case errors.Is(err, wallet.ErrCardNotFound):
		return http.StatusNotFound, "Saved card not found"
	case errors.Is(err, wallet.ErrUnusableCard):
		return http.StatusUnprocessableEntity, "Saved card cannot be used for payment"
	case errors.Is(err, payment.ErrStoreUnavailable),
		errors.Is(err, storage.ErrUnavailable),
		errors.Is(err, storage.ErrPermissionDenied),
		errors.Is(err, storage.ErrIndexMissing):
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
