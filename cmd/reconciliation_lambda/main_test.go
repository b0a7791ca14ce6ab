package main

import (
	"context"
	"testing"
	"time"

	"github.com/chris/transit-tickets/pkg/lifecycle"
	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/scheduler"
	"github.com/chris/transit-tickets/pkg/storage/memory"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleRequestExpiresOverdueTickets(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	store := memory.New()
	ctx := context.Background()

	overdue := now.Add(-45 * time.Minute).UnixMilli()
	fresh := now.Add(-5 * time.Minute).UnixMilli()
	for id, activated := range map[string]int64{"overdue": overdue, "fresh": fresh} {
		_, err := store.CreateTicket(ctx, &models.Ticket{TicketId: id, Status: models.ACTIVE, ActivatedTime: activated, ValidUntil: activated + models.ValidityWindow.Milliseconds()})
		require.NoError(t, err)
	}

	timers := scheduler.NewTimers(clock)
	defer timers.Stop()
	h := &handler{tickets: lifecycle.NewManager(store, store, timers, clock)}

	require.NoError(t, h.HandleRequest(ctx))

	got, err := store.GetTicket(ctx, "overdue")
	require.NoError(t, err)
	assert.Equal(t, models.EXPIRED, got.Status)

	got, err = store.GetTicket(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, models.ACTIVE, got.Status)
}
