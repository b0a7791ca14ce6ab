package websockets

import (
	"context"
	"log/slog"

	"github.com/chris/transit-tickets/pkg/lifecycle"
	"github.com/chris/transit-tickets/pkg/models"
	"github.com/jonboulle/clockwork"
)

// Notifier turns ticket changes and countdown snapshots into client messages.
type Notifier struct {
	publisher Publisher
	clock     clockwork.Clock
}

// NewNotifier creates a Notifier that publishes through p.
func NewNotifier(p Publisher, clock clockwork.Clock) *Notifier {
	return &Notifier{publisher: p, clock: clock}
}

// Run publishes a ticketUpdate for every change received until the channel
// closes or ctx is done.
func (n *Notifier) Run(ctx context.Context, changes <-chan models.ChangeSet) {
	for {
		select {
		case <-ctx.Done():
			return
		case cs, ok := <-changes:
			if !ok {
				return
			}
			n.TicketsChanged(ctx, cs)
		}
	}
}

// TicketsChanged publishes one ticketUpdate per change in the set.
func (n *Notifier) TicketsChanged(ctx context.Context, cs models.ChangeSet) {
	now := n.clock.Now()
	for _, change := range cs.Changes {
		if err := n.publisher.Publish(ctx, NewTicketUpdate(change, now)); err != nil {
			slog.Error("failed to publish ticket update", "ticketId", change.Ticket.TicketId, "error", err)
		}
	}
}

// Countdown publishes a countdown snapshot. Its signature matches
// lifecycle.Manager.RunCountdown.
func (n *Notifier) Countdown(ctx context.Context, snapshot []lifecycle.Countdown) {
	entries := make([]CountdownEntry, 0, len(snapshot))
	for _, c := range snapshot {
		entries = append(entries, CountdownEntry{
			TicketID:         c.TicketId,
			ValidUntil:       c.ValidUntil,
			RemainingSeconds: Seconds(c.Remaining),
		})
	}

	msg := Message{Type: MessageTypeCountdown, Payload: CountdownPayload{Tickets: entries}}
	if err := n.publisher.Publish(ctx, msg); err != nil {
		slog.Error("failed to publish countdown", "error", err)
	}
}
