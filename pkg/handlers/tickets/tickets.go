package tickets

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/chris/transit-tickets/pkg/api"
	"github.com/chris/transit-tickets/pkg/handlers/respond"
	"github.com/chris/transit-tickets/pkg/mapping"
	"github.com/chris/transit-tickets/pkg/qrcode"
	svc "github.com/chris/transit-tickets/pkg/tickets"
	"github.com/jonboulle/clockwork"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const maxQRSize = 2048

// TicketService is the purchase and scan flow behind the ticket endpoints.
type TicketService interface {
	Purchase(ctx context.Context, req svc.PurchaseRequest) (*svc.Receipt, error)
	PurchaseWithSavedCard(ctx context.Context, cardID string) (*svc.Receipt, error)
	Tickets(ctx context.Context) ([]svc.TicketView, error)
	Ticket(ctx context.Context, ticketID string) (*svc.TicketView, error)
	Scan(ctx context.Context, content string) (*svc.ScanResult, error)
	Activate(ctx context.Context, content, ticketID string) (*svc.TicketView, error)
}

// TicketsHandler holds the dependencies for ticket and scan handlers.
type TicketsHandler struct {
	Service TicketService
	Clock   clockwork.Clock
}

// NewTicketsHandler creates a new TicketsHandler.
func NewTicketsHandler(service TicketService, clock clockwork.Clock) *TicketsHandler {
	return &TicketsHandler{Service: service, Clock: clock}
}

// PurchaseTicket charges the card and issues a purchased ticket.
func (h *TicketsHandler) PurchaseTicket(w http.ResponseWriter, r *http.Request) {
	var req api.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err)
		return
	}
	req.Normalize()
	if err := api.Validate(&req); err != nil {
		respond.BadRequest(w, err)
		return
	}

	purchase, err := mapping.ToDomainPurchase(&req)
	if err != nil {
		respond.BadRequest(w, err)
		return
	}

	receipt, err := h.Service.Purchase(r.Context(), purchase)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiPurchase(receipt, h.Clock.Now()))
}

// PurchaseWithSavedCard buys a ticket with a saved card's details.
func (h *TicketsHandler) PurchaseWithSavedCard(w http.ResponseWriter, r *http.Request, cardId openapi_types.UUID) {
	receipt, err := h.Service.PurchaseWithSavedCard(r.Context(), cardId.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiPurchase(receipt, h.Clock.Now()))
}

// ListTickets returns every ticket, most recent purchase first.
func (h *TicketsHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	views, err := h.Service.Tickets(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiTickets(views))
}

// GetTicket returns one ticket with its observed status.
func (h *TicketsHandler) GetTicket(w http.ResponseWriter, r *http.Request, ticketId openapi_types.UUID) {
	view, err := h.Service.Ticket(r.Context(), ticketId.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiTicket(view))
}

// GetTicketQRCode renders the ticket's QR payload as a PNG.
func (h *TicketsHandler) GetTicketQRCode(w http.ResponseWriter, r *http.Request, ticketId openapi_types.UUID, params api.GetTicketQRCodeParams) {
	size := qrcode.DefaultSize
	if params.Size != nil {
		if *params.Size <= 0 || *params.Size > maxQRSize {
			http.Error(w, "size must be between 1 and 2048", http.StatusBadRequest)
			return
		}
		size = *params.Size
	}

	view, err := h.Service.Ticket(r.Context(), ticketId.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	png, err := qrcode.PNG(view.Ticket.QRCode, size)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// ScanCode gates a scanned code and lists the tickets it could activate.
// It never changes ticket state.
func (h *TicketsHandler) ScanCode(w http.ResponseWriter, r *http.Request) {
	var req api.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err)
		return
	}
	if err := api.Validate(&req); err != nil {
		respond.BadRequest(w, err)
		return
	}

	result, err := h.Service.Scan(r.Context(), req.Content)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiScan(result))
}

// ActivateTicket activates the ticket selected after a scan.
func (h *TicketsHandler) ActivateTicket(w http.ResponseWriter, r *http.Request) {
	var req api.ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err)
		return
	}
	if err := api.Validate(&req); err != nil {
		respond.BadRequest(w, err)
		return
	}

	view, err := h.Service.Activate(r.Context(), req.Content, req.TicketId)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiTicket(view))
}
