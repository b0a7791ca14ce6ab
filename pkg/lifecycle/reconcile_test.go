package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/scheduler"
	"github.com/chris/transit-tickets/pkg/storage"
	"github.com/chris/transit-tickets/pkg/storage/mocks"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestScheduledExpiryFires(t *testing.T) {
	m, store, fc := newTestManager(t)
	ticket, _ := m.Create(context.Background(), "ledger-1", 10)
	_, err := m.Activate(context.Background(), ticket.TicketId)
	require.NoError(t, err)

	fc.Advance(30*time.Minute - time.Second)
	assert.Never(t, func() bool {
		return stored(t, store, ticket.TicketId).Status == models.EXPIRED
	}, 50*time.Millisecond, 5*time.Millisecond)

	fc.Advance(2 * time.Second)
	assert.Eventually(t, func() bool {
		return stored(t, store, ticket.TicketId).Status == models.EXPIRED
	}, time.Second, 5*time.Millisecond)
}

func TestReconcileExpiresWithoutTimer(t *testing.T) {
	m, store, fc := newTestManager(t)
	ticket, _ := m.Create(context.Background(), "ledger-1", 10)
	activated, err := m.Activate(context.Background(), ticket.TicketId)
	require.NoError(t, err)

	// A second instance that never scheduled anything for this ticket.
	other := NewManager(store, store, scheduler.NewTimers(fc), fc)
	m.timers.Stop()
	fc.Advance(30*time.Minute + time.Second)

	other.Reconcile(context.Background(), models.ChangeSet{Changes: []models.TicketChange{
		{Kind: models.MODIFIED, Ticket: *activated},
	}})

	assert.Equal(t, models.EXPIRED, stored(t, store, ticket.TicketId).Status)
	assert.Empty(t, other.Remaining(fc.Now()))
}

func TestReconcileTracksActivationsFromElsewhere(t *testing.T) {
	m, store, fc := newTestManager(t)
	ticket, _ := m.Create(context.Background(), "ledger-1", 10)
	activated, _ := m.Activate(context.Background(), ticket.TicketId)

	other := NewManager(store, store, scheduler.NewTimers(fc), fc)
	other.Reconcile(context.Background(), models.ChangeSet{Changes: []models.TicketChange{
		{Kind: models.MODIFIED, Ticket: *activated},
	}})

	assert.Equal(t, []Countdown{{TicketId: ticket.TicketId, ValidUntil: activated.ValidUntil, Remaining: 20 * time.Minute}},
		other.Remaining(t0.Add(10*time.Minute)))
	assert.Equal(t, []string{ticket.TicketId}, other.timers.Pending())

	expired := *activated
	expired.Status = models.EXPIRED
	other.Reconcile(context.Background(), models.ChangeSet{Changes: []models.TicketChange{
		{Kind: models.MODIFIED, Ticket: expired},
	}})

	assert.Empty(t, other.Remaining(t0))
	assert.Empty(t, other.timers.Pending())
}

func TestReconcileRetriesFailedPersist(t *testing.T) {
	fc := clockwork.NewFakeClockAt(t0.Add(31 * time.Minute))
	tickets := mocks.NewTicketStore(t)
	registry := mocks.NewQRRegistry(t)
	m := NewManager(tickets, registry, scheduler.NewTimers(fc), fc)

	active := models.Ticket{TicketId: "t1", Status: models.ACTIVE, ActivatedTime: t0.UnixMilli(), ValidUntil: t0.Add(30 * time.Minute).UnixMilli()}
	expired := active
	expired.Status = models.EXPIRED

	tickets.On("GetTicket", mock.Anything, "t1").Return(&active, nil).Twice()
	tickets.On("UpdateTicketStatus", mock.Anything, mock.Anything, models.ACTIVE).Return(nil, storage.ErrUnavailable).Once()

	m.Reconcile(context.Background(), models.ChangeSet{Changes: []models.TicketChange{{Kind: models.MODIFIED, Ticket: active}}})

	require.Len(t, m.Remaining(fc.Now()), 1)

	tickets.On("UpdateTicketStatus", mock.Anything, mock.MatchedBy(func(next *models.Ticket) bool {
		return next.Status == models.EXPIRED && next.ActivatedTime == active.ActivatedTime
	}), models.ACTIVE).Return(&expired, nil).Once()

	m.Reconcile(context.Background(), models.ChangeSet{})

	assert.Empty(t, m.Remaining(fc.Now()))
}

func TestRunConsumesSubscription(t *testing.T) {
	m, store, fc := newTestManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := store.Subscribe(ctx, storage.TicketFilter{})
	require.NoError(t, err)
	done := make(chan struct{})
	go func() {
		m.Run(ctx, changes)
		close(done)
	}()

	other := NewManager(store, store, scheduler.NewTimers(clockwork.NewFakeClockAt(t0)), fc)
	ticket, _ := other.Create(ctx, "ledger-1", 10)
	_, err = other.Activate(ctx, ticket.TicketId)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(m.Remaining(fc.Now())) == 1 }, time.Second, 5*time.Millisecond)

	fc.Advance(30*time.Minute + time.Second)
	assert.Eventually(t, func() bool {
		return stored(t, store, ticket.TicketId).Status == models.EXPIRED && len(m.Remaining(fc.Now())) == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestResume(t *testing.T) {
	m, store, fc := newTestManager(t)
	overdue, _ := m.Create(context.Background(), "ledger-1", 10)
	_, _ = m.Activate(context.Background(), overdue.TicketId)
	fc.Advance(20 * time.Minute)
	fresh, _ := m.Create(context.Background(), "ledger-1", 10)
	_, _ = m.Activate(context.Background(), fresh.TicketId)
	m.timers.Stop()

	restartClock := clockwork.NewFakeClockAt(t0.Add(31 * time.Minute))
	restarted := NewManager(store, store, scheduler.NewTimers(restartClock), restartClock)
	require.NoError(t, restarted.Resume(context.Background()))

	assert.Equal(t, models.EXPIRED, stored(t, store, overdue.TicketId).Status)
	assert.Equal(t, models.ACTIVE, stored(t, store, fresh.TicketId).Status)
	assert.Equal(t, []string{fresh.TicketId}, restarted.timers.Pending())
	countdowns := restarted.Remaining(restartClock.Now())
	require.Len(t, countdowns, 1)
	assert.Equal(t, 19*time.Minute, countdowns[0].Remaining)
}

func TestSweep(t *testing.T) {
	m, store, fc := newTestManager(t)
	overdue, _ := m.Create(context.Background(), "ledger-1", 10)
	_, _ = m.Activate(context.Background(), overdue.TicketId)
	fc.Advance(20 * time.Minute)
	fresh, _ := m.Create(context.Background(), "ledger-1", 10)
	_, _ = m.Activate(context.Background(), fresh.TicketId)
	m.timers.Stop()

	sweepClock := clockwork.NewFakeClockAt(t0.Add(30 * time.Minute))
	sweeper := NewManager(store, store, scheduler.NewTimers(sweepClock), sweepClock)
	n, err := sweeper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.EXPIRED, stored(t, store, overdue.TicketId).Status)
	assert.Equal(t, models.ACTIVE, stored(t, store, fresh.TicketId).Status)
}

func TestRunCountdown(t *testing.T) {
	m, _, fc := newTestManager(t)
	ticket, _ := m.Create(context.Background(), "ledger-1", 10)
	_, err := m.Activate(context.Background(), ticket.TicketId)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	snapshots := make(chan []Countdown, 1)
	go m.RunCountdown(ctx, time.Second, func(_ context.Context, c []Countdown) {
		select {
		case snapshots <- c:
		default:
		}
	})

	// One expiry timer plus the countdown ticker.
	require.NoError(t, fc.BlockUntilContext(ctx, 2))
	fc.Advance(time.Second)

	select {
	case c := <-snapshots:
		require.Len(t, c, 1)
		assert.Equal(t, ticket.TicketId, c[0].TicketId)
		assert.Equal(t, 30*time.Minute-time.Second, c[0].Remaining)
	case <-time.After(time.Second):
		t.Fatal("no countdown published")
	}
}
