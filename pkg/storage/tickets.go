package storage

import (
	"context"

	"github.com/chris/transit-tickets/pkg/models"
)

// TicketReader defines the interface for reading ticket data.
type TicketReader interface {
	// GetTicket retrieves a ticket by its ID.
	GetTicket(ctx context.Context, ticketID string) (*models.Ticket, error)

	// ListTicketsByStatus retrieves tickets in the given status, most recent purchase first.
	ListTicketsByStatus(ctx context.Context, status models.TicketStatus) ([]models.Ticket, error)

	// ListTickets retrieves every ticket, most recent purchase first.
	ListTickets(ctx context.Context) ([]models.Ticket, error)
}

// TicketManager defines the interface for creating tickets and moving them
// through their states.
type TicketManager interface {
	// CreateTicket stores a new ticket. It fails with ErrAlreadyExists if the id is taken.
	CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error)

	// UpdateTicketStatus writes the ticket's status, activatedTime, validUntil and
	// qrCode only if the stored status still equals expected. A missing ticket
	// yields ErrNotFound, a different stored status yields ErrConditionFailed
	// together with the stored ticket.
	UpdateTicketStatus(ctx context.Context, ticket *models.Ticket, expected models.TicketStatus) (*models.Ticket, error)
}

// TicketStore combines the reader and manager interfaces.
type TicketStore interface {
	TicketReader
	TicketManager
}

// TicketFilter narrows a subscription. An empty filter matches everything.
type TicketFilter struct {
	Statuses []models.TicketStatus
}

// Match reports whether the ticket passes the filter.
func (f TicketFilter) Match(t *models.Ticket) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if t.Status == s {
			return true
		}
	}
	return false
}

// TicketSubscriber delivers ticket change-sets. The returned channel is lazy,
// infinite and non-restartable: it is closed only when ctx is done.
type TicketSubscriber interface {
	Subscribe(ctx context.Context, filter TicketFilter) (<-chan models.ChangeSet, error)
}
