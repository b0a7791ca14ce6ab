package scheduler

import (
	"context"
	"time"
)

// ExpiryScheduler defines the interface for a component that arranges for a
// ticket's expiry to be checked at a later time. Schedulers are accelerants:
// reconciliation still expires tickets whose scheduled check was lost.
type ExpiryScheduler interface {
	// ScheduleExpiry arranges for ticketID to be checked at or after at.
	ScheduleExpiry(ctx context.Context, ticketID string, at time.Time) error
}
