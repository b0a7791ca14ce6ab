package websockets

import (
	"math"
	"time"

	"github.com/chris/transit-tickets/pkg/models"
)

// MessageType defines the type of a WebSocket message.
type MessageType string

const (
	// MessageTypeTicketUpdate is sent whenever a ticket record changes.
	MessageTypeTicketUpdate MessageType = "ticketUpdate"
	// MessageTypeCountdown carries the remaining time of every active ticket.
	MessageTypeCountdown MessageType = "countdown"
)

// Message represents a generic WebSocket message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// TicketUpdatePayload is the payload for a ticketUpdate message.
type TicketUpdatePayload struct {
	TicketID         string              `json:"ticket_id"`
	Change           models.ChangeKind   `json:"change"`
	Status           models.TicketStatus `json:"status"`
	ValidUntil       int64               `json:"valid_until,omitempty"`
	RemainingSeconds int64               `json:"remaining_seconds"`
}

// CountdownPayload is the payload for a countdown message.
type CountdownPayload struct {
	Tickets []CountdownEntry `json:"tickets"`
}

// CountdownEntry is the remaining time of one active ticket.
type CountdownEntry struct {
	TicketID         string `json:"ticket_id"`
	ValidUntil       int64  `json:"valid_until"`
	RemainingSeconds int64  `json:"remaining_seconds"`
}

// Seconds rounds a remaining duration up to whole seconds so a ticket with
// any time left never shows zero.
func Seconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(math.Ceil(d.Seconds()))
}

// NewTicketUpdate builds the message for a single ticket change observed at now.
func NewTicketUpdate(change models.TicketChange, now time.Time) Message {
	t := change.Ticket
	return Message{
		Type: MessageTypeTicketUpdate,
		Payload: TicketUpdatePayload{
			TicketID:         t.TicketId,
			Change:           change.Kind,
			Status:           t.StatusAt(now),
			ValidUntil:       t.ValidUntil,
			RemainingSeconds: Seconds(t.Remaining(now)),
		},
	}
}
