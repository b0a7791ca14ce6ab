// Package handlers assembles the HTTP API from the per-resource handlers.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/chris/transit-tickets/pkg/api"
	"github.com/chris/transit-tickets/pkg/handlers/cards"
	"github.com/chris/transit-tickets/pkg/handlers/ledger"
	"github.com/chris/transit-tickets/pkg/handlers/tickets"
	"github.com/chris/transit-tickets/pkg/metrics"
	"github.com/chris/transit-tickets/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// ApiHandler implements api.ServerInterface by embedding one handler per resource.
type ApiHandler struct {
	*tickets.TicketsHandler
	*cards.CardsHandler
	*ledger.LedgerHandler
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(t *tickets.TicketsHandler, c *cards.CardsHandler, l *ledger.LedgerHandler) *ApiHandler {
	return &ApiHandler{TicketsHandler: t, CardsHandler: c, LedgerHandler: l}
}

// NewRouter mounts the API, the local WebSocket endpoint and the metrics
// endpoint. ws may be nil.
func NewRouter(h api.ServerInterface, ws http.Handler, logger *slog.Logger) chi.Router {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestLogger(logger))

	api.HandlerWithOptions(h, api.ChiServerOptions{BaseRouter: router})

	if ws != nil {
		router.Handle("/ws", ws)
	}
	router.Handle("/metrics", metrics.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return router
}
