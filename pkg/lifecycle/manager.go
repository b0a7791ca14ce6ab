// Package lifecycle owns the ticket state machine: purchased -> active -> expired.
// Every transition is a conditional write on the ticket's current status, so
// concurrent callers resolve to exactly one winner.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/chris/transit-tickets/pkg/metrics"
	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/qrcode"
	"github.com/chris/transit-tickets/pkg/scheduler"
	"github.com/chris/transit-tickets/pkg/storage"
	"github.com/chris/transit-tickets/pkg/timeout"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Manager creates, activates and expires tickets and keeps the set of active
// tickets it has seen so it can expire them without any external call.
type Manager struct {
	tickets   storage.TicketStore
	registry  storage.QRRegistry
	timers    *scheduler.Timers
	durable   scheduler.ExpiryScheduler
	clock     clockwork.Clock
	ioTimeout time.Duration

	mu     sync.Mutex
	active map[string]models.Ticket
}

type Option func(*Manager)

// WithExpiryScheduler adds a durable scheduler alongside the in-process timers.
func WithExpiryScheduler(s scheduler.ExpiryScheduler) Option {
	return func(m *Manager) { m.durable = s }
}

// WithIOTimeout overrides the bound on each store call.
func WithIOTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.ioTimeout = d
		}
	}
}

// NewManager creates a Manager.
func NewManager(tickets storage.TicketStore, registry storage.QRRegistry, timers *scheduler.Timers, clock clockwork.Clock, opts ...Option) *Manager {
	m := &Manager{
		tickets:   tickets,
		registry:  registry,
		timers:    timers,
		clock:     clock,
		ioTimeout: timeout.IO,
		active:    make(map[string]models.Ticket),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create stores a new purchased ticket charged to cardID.
func (m *Manager) Create(ctx context.Context, cardID string, price int64) (*models.Ticket, error) {
	ticket := &models.Ticket{
		TicketId:     uuid.New().String(),
		CardId:       cardID,
		Price:        price,
		PurchaseTime: m.clock.Now().UnixMilli(),
		Status:       models.PURCHASED,
	}
	ticket.QRCode = qrcode.Encode(ticket)

	created, err := timeout.Do(ctx, m.ioTimeout, func(ctx context.Context) (*models.Ticket, error) {
		return m.tickets.CreateTicket(ctx, ticket)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket for card %s: %w", cardID, err)
	}

	slog.Info("ticket created", "ticketId", created.TicketId, "cardId", cardID)
	return created, nil
}

// Get returns the stored ticket.
func (m *Manager) Get(ctx context.Context, ticketID string) (*models.Ticket, error) {
	ticket, err := timeout.Do(ctx, m.ioTimeout, func(ctx context.Context) (*models.Ticket, error) {
		return m.tickets.GetTicket(ctx, ticketID)
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("ticket %s: %w", ticketID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get ticket %s: %w", ticketID, err)
	}
	return ticket, nil
}

// List returns every ticket, most recent purchase first.
func (m *Manager) List(ctx context.Context) ([]models.Ticket, error) {
	tickets, err := timeout.Do(ctx, m.ioTimeout, func(ctx context.Context) ([]models.Ticket, error) {
		return m.tickets.ListTickets(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// Activate moves a purchased ticket to active, starting its validity window,
// and schedules its expiry. Any other current status yields ErrWrongState and
// leaves the ticket untouched.
func (m *Manager) Activate(ctx context.Context, ticketID string) (*models.Ticket, error) {
	current, err := m.Get(ctx, ticketID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.Activations.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}
	if !current.Status.CanTransition(models.ACTIVE) {
		metrics.Activations.WithLabelValues("wrong_state").Inc()
		return nil, fmt.Errorf("cannot activate ticket %s in status %s: %w", ticketID, current.Status, ErrWrongState)
	}

	now := m.clock.Now()
	next := *current
	next.Status = models.ACTIVE
	next.ActivatedTime = now.UnixMilli()
	next.ValidUntil = next.ExpiresAt().UnixMilli()
	next.QRCode = qrcode.Encode(&next)

	activated, err := m.transition(ctx, &next, models.PURCHASED)
	if err != nil {
		if errors.Is(err, ErrWrongState) {
			metrics.Activations.WithLabelValues("wrong_state").Inc()
		}
		return nil, err
	}

	metrics.Activations.WithLabelValues("activated").Inc()
	slog.Info("ticket activated", "ticketId", ticketID, "validUntil", activated.ValidUntil)

	m.track(*activated)
	m.schedule(ctx, activated)
	return activated, nil
}

// Expire moves an active ticket to expired. It is idempotent: an already
// expired ticket is left as is and nil is returned.
func (m *Manager) Expire(ctx context.Context, ticketID string) error {
	current, err := m.Get(ctx, ticketID)
	if err != nil {
		return err
	}

	switch current.Status {
	case models.EXPIRED:
		m.untrack(ticketID)
		return nil
	case models.PURCHASED:
		return fmt.Errorf("cannot expire ticket %s that was never activated: %w", ticketID, ErrWrongState)
	}

	next := *current
	next.Status = models.EXPIRED
	next.QRCode = qrcode.Encode(&next)

	if _, err := m.transition(ctx, &next, models.ACTIVE); err != nil {
		if errors.Is(err, ErrWrongState) {
			// Lost against a concurrent expire.
			if stored, getErr := m.Get(ctx, ticketID); getErr == nil && stored.Status == models.EXPIRED {
				m.untrack(ticketID)
				return nil
			}
		}
		return err
	}

	metrics.Expirations.Inc()
	slog.Info("ticket expired", "ticketId", ticketID)
	m.untrack(ticketID)
	return nil
}

func (m *Manager) transition(ctx context.Context, next *models.Ticket, expected models.TicketStatus) (*models.Ticket, error) {
	updated, err := timeout.Do(ctx, m.ioTimeout, func(ctx context.Context) (*models.Ticket, error) {
		return m.tickets.UpdateTicketStatus(ctx, next, expected)
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("ticket %s: %w", next.TicketId, ErrNotFound)
		case errors.Is(err, storage.ErrConditionFailed):
			return nil, fmt.Errorf("ticket %s is no longer %s: %w", next.TicketId, expected, ErrWrongState)
		default:
			return nil, fmt.Errorf("failed to move ticket %s to %s: %w", next.TicketId, next.Status, err)
		}
	}
	return updated, nil
}

// ScanMatch is the result of gating a scanned code against the registry.
type ScanMatch struct {
	Code       string
	Transport  models.TransportType
	Candidates []models.Ticket
}

// Candidates gates code against the QR registry and returns every purchased
// ticket, most recent purchase first. It never picks one: the caller must
// present all of them and activate the user's explicit selection.
func (m *Manager) Candidates(ctx context.Context, code string) (*ScanMatch, error) {
	transport, err := m.gate(ctx, code)
	if err != nil {
		return nil, err
	}

	tickets, err := timeout.Do(ctx, m.ioTimeout, func(ctx context.Context) ([]models.Ticket, error) {
		return m.tickets.ListTicketsByStatus(ctx, models.PURCHASED)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list purchased tickets: %w", err)
	}
	if len(tickets) == 0 {
		return nil, fmt.Errorf("no purchased tickets for %s code %q: %w", transport, code, ErrNoMatchForScan)
	}

	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].PurchaseTime > tickets[j].PurchaseTime
	})

	return &ScanMatch{Code: code, Transport: transport, Candidates: tickets}, nil
}

// ActivateSelected re-checks the scan gate and activates the ticket the user chose.
func (m *Manager) ActivateSelected(ctx context.Context, code, ticketID string) (*models.Ticket, error) {
	if _, err := m.gate(ctx, code); err != nil {
		return nil, err
	}
	return m.Activate(ctx, ticketID)
}

func (m *Manager) gate(ctx context.Context, code string) (models.TransportType, error) {
	type lookup struct {
		transport models.TransportType
		ok        bool
	}
	res, err := timeout.Do(ctx, m.ioTimeout, func(ctx context.Context) (lookup, error) {
		transport, ok, err := m.registry.LookupCode(ctx, code)
		return lookup{transport, ok}, err
	})
	if err != nil {
		return "", fmt.Errorf("failed to look up scanned code: %w", err)
	}
	if !res.ok {
		return "", fmt.Errorf("code %q is not registered: %w", code, ErrNoMatchForScan)
	}
	return res.transport, nil
}

// schedule arms the local timer and, when configured, the durable scheduler.
func (m *Manager) schedule(ctx context.Context, ticket *models.Ticket) {
	m.scheduleLocal(ticket)

	if m.durable != nil {
		if err := m.durable.ScheduleExpiry(ctx, ticket.TicketId, ticket.ExpiresAt()); err != nil {
			slog.Warn("failed to schedule durable expiry", "ticketId", ticket.TicketId, "error", err)
		}
	}
}

// scheduleLocal arms a timer whose callback re-reads the ticket before acting,
// so firing after an independent expiry is a no-op.
func (m *Manager) scheduleLocal(ticket *models.Ticket) {
	ticketID := ticket.TicketId
	m.timers.Schedule(ticketID, ticket.ExpiresAt(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.ioTimeout)
		defer cancel()
		if err := m.Expire(ctx, ticketID); err != nil {
			slog.Error("scheduled expiry failed", "ticketId", ticketID, "error", err)
		}
	})
}

func (m *Manager) track(ticket models.Ticket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[ticket.TicketId] = ticket
	metrics.TrackedActive.Set(float64(len(m.active)))
}

func (m *Manager) untrack(ticketID string) {
	m.timers.Cancel(ticketID)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, ticketID)
	metrics.TrackedActive.Set(float64(len(m.active)))
}
