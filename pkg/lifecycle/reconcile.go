package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/chris/transit-tickets/pkg/metrics"
	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/timeout"
)

// Run consumes change-sets in delivery order until ctx is done or the channel
// is closed. It is the single reconciliation worker for tickets.
func (m *Manager) Run(ctx context.Context, changes <-chan models.ChangeSet) {
	for {
		select {
		case <-ctx.Done():
			return
		case cs, ok := <-changes:
			if !ok {
				return
			}
			m.Reconcile(ctx, cs)
		}
	}
}

// Reconcile folds a change-set into the tracked active set, then expires every
// tracked ticket whose window has elapsed. Failures to persist are logged and
// the ticket stays tracked, so the next change-set retries it.
func (m *Manager) Reconcile(ctx context.Context, cs models.ChangeSet) {
	now := m.clock.Now()
	for _, change := range cs.Changes {
		ticket := change.Ticket
		if change.Kind == models.REMOVED || ticket.Status != models.ACTIVE {
			m.untrack(ticket.TicketId)
			continue
		}

		m.mu.Lock()
		_, known := m.active[ticket.TicketId]
		m.mu.Unlock()

		m.track(ticket)
		if !known && ticket.StatusAt(now) == models.ACTIVE {
			// Activated elsewhere or before a restart.
			m.scheduleLocal(&ticket)
		}
	}

	m.expireOverdue(ctx, now)
}

func (m *Manager) expireOverdue(ctx context.Context, now time.Time) {

	m.mu.Lock()
	var overdue []string
	for id, t := range m.active {
		if t.StatusAt(now) == models.EXPIRED {
			overdue = append(overdue, id)
		}
	}
	m.mu.Unlock()

	sort.Strings(overdue)
	for _, id := range overdue {
		if err := m.Expire(ctx, id); err != nil {
			metrics.ReconcileFailures.Inc()
			slog.Error("failed to persist expired ticket, will retry", "ticketId", id, "error", err)
			if errors.Is(err, ErrNotFound) {
				m.untrack(id)
			}
		}
	}
}

// Resume loads active tickets from the store after a restart, expires the
// overdue ones and reschedules the rest.
func (m *Manager) Resume(ctx context.Context) error {
	active, err := timeout.Do(ctx, m.ioTimeout, func(ctx context.Context) ([]models.Ticket, error) {
		return m.tickets.ListTicketsByStatus(ctx, models.ACTIVE)
	})
	if err != nil {
		return fmt.Errorf("failed to load active tickets: %w", err)
	}

	changes := make([]models.TicketChange, 0, len(active))
	for _, t := range active {
		changes = append(changes, models.TicketChange{Kind: models.MODIFIED, Ticket: t})
	}
	m.Reconcile(ctx, models.ChangeSet{Changes: changes})

	slog.Info("resumed active tickets", "count", len(active))
	return nil
}

// Sweep is a stateless reconciliation pass over the store: every active ticket
// past its window is expired. It returns how many were expired.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	active, err := timeout.Do(ctx, m.ioTimeout, func(ctx context.Context) ([]models.Ticket, error) {
		return m.tickets.ListTicketsByStatus(ctx, models.ACTIVE)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to load active tickets: %w", err)
	}

	now := m.clock.Now()
	expired := 0
	var errs []error
	for _, t := range active {
		if t.StatusAt(now) != models.EXPIRED {
			continue
		}
		if err := m.Expire(ctx, t.TicketId); err != nil {
			metrics.ReconcileFailures.Inc()
			errs = append(errs, err)
			continue
		}
		expired++
	}
	return expired, errors.Join(errs...)
}

// Countdown is the time left on one tracked active ticket.
type Countdown struct {
	TicketId   string
	ValidUntil int64
	Remaining  time.Duration
}

// Remaining returns a snapshot of every tracked active ticket's remaining
// time at now, ordered by ticket id.
func (m *Manager) Remaining(now time.Time) []Countdown {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Countdown, 0, len(m.active))
	for id, t := range m.active {
		out = append(out, Countdown{TicketId: id, ValidUntil: t.ValidUntil, Remaining: t.Remaining(now)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TicketId < out[j].TicketId })
	return out
}

// RunCountdown calls publish with a fresh Remaining snapshot every interval
// until ctx is done. It never changes ticket state.
func (m *Manager) RunCountdown(ctx context.Context, interval time.Duration, publish func(context.Context, []Countdown)) {
	m.timers.Tick(ctx, interval, func(now time.Time) {
		if snapshot := m.Remaining(now); len(snapshot) > 0 {
			publish(ctx, snapshot)
		}
	})
}
