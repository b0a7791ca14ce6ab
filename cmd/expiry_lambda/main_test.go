package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/transit-tickets/pkg/lifecycle"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockExpirer struct{ mock.Mock }

func (m *mockExpirer) Expire(ctx context.Context, ticketID string) error {
	return m.Called(ctx, ticketID).Error(0)
}

type mockScheduler struct{ mock.Mock }

func (m *mockScheduler) ScheduleExpiry(ctx context.Context, ticketID string, at time.Time) error {
	return m.Called(ctx, ticketID, at).Error(0)
}

func record(id, body string) events.SQSMessage {
	return events.SQSMessage{MessageId: id, Body: body}
}

func TestHandleRequest(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	due := now.Add(-time.Second).UnixMilli()
	later := now.Add(20 * time.Minute)

	t.Run("Expires Due Tickets", func(t *testing.T) {
		tickets, sched := new(mockExpirer), new(mockScheduler)
		tickets.On("Expire", mock.Anything, "t1").Return(nil).Once()

		h := &handler{tickets: tickets, scheduler: sched, clock: clockwork.NewFakeClockAt(now)}
		resp, err := h.HandleRequest(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
			record("m1", fmt.Sprintf(`{"ticketId":"t1","expiresAt":%d}`, due)),
		}})

		require.NoError(t, err)
		assert.Empty(t, resp.BatchItemFailures)
		tickets.AssertExpectations(t)
		sched.AssertNotCalled(t, "ScheduleExpiry", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Re-enqueues Early Messages", func(t *testing.T) {
		tickets, sched := new(mockExpirer), new(mockScheduler)
		sched.On("ScheduleExpiry", mock.Anything, "t2", mock.MatchedBy(func(at time.Time) bool {
			return at.Equal(time.UnixMilli(later.UnixMilli()))
		})).Return(nil).Once()

		h := &handler{tickets: tickets, scheduler: sched, clock: clockwork.NewFakeClockAt(now)}
		resp, err := h.HandleRequest(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
			record("m2", fmt.Sprintf(`{"ticketId":"t2","expiresAt":%d}`, later.UnixMilli())),
		}})

		require.NoError(t, err)
		assert.Empty(t, resp.BatchItemFailures)
		sched.AssertExpectations(t)
		tickets.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything)
	})

	t.Run("Drops Unknown And Malformed", func(t *testing.T) {
		tickets, sched := new(mockExpirer), new(mockScheduler)
		tickets.On("Expire", mock.Anything, "gone").Return(fmt.Errorf("ticket gone: %w", lifecycle.ErrNotFound)).Once()

		h := &handler{tickets: tickets, scheduler: sched, clock: clockwork.NewFakeClockAt(now)}
		resp, err := h.HandleRequest(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
			record("m3", "not-json"),
			record("m4", fmt.Sprintf(`{"ticketId":"gone","expiresAt":%d}`, due)),
		}})

		require.NoError(t, err)
		assert.Empty(t, resp.BatchItemFailures)
		tickets.AssertExpectations(t)
	})

	t.Run("Reports Failures For Retry", func(t *testing.T) {
		tickets, sched := new(mockExpirer), new(mockScheduler)
		tickets.On("Expire", mock.Anything, "t1").Return(errors.New("throttled")).Once()
		tickets.On("Expire", mock.Anything, "t2").Return(nil).Once()

		h := &handler{tickets: tickets, scheduler: sched, clock: clockwork.NewFakeClockAt(now)}
		resp, err := h.HandleRequest(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
			record("m5", fmt.Sprintf(`{"ticketId":"t1","expiresAt":%d}`, due)),
			record("m6", fmt.Sprintf(`{"ticketId":"t2","expiresAt":%d}`, due)),
		}})

		require.NoError(t, err)
		assert.Equal(t, []events.SQSBatchItemFailure{{ItemIdentifier: "m5"}}, resp.BatchItemFailures)
		tickets.AssertExpectations(t)
	})
}
