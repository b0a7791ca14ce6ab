package lifecycle

import "errors"

var (
	// ErrNotFound is returned for an unknown ticket id.
	ErrNotFound = errors.New("ticket not found")

	// ErrWrongState is returned when a transition is not legal from the ticket's current status.
	ErrWrongState = errors.New("ticket is in the wrong state")

	// ErrNoMatchForScan is returned when a scanned code is not registered or no purchased ticket can be activated.
	ErrNoMatchForScan = errors.New("no ticket matches the scanned code")
)
