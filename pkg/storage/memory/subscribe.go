package memory

import (
	"context"
	"sync"

	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/storage"
)

// subscriber queues change-sets without bound so that a slow consumer never
// blocks a writer holding the store lock.
type subscriber struct {
	filter storage.TicketFilter
	out    chan models.ChangeSet

	mu      sync.Mutex
	pending []models.ChangeSet
	wake    chan struct{}
	done    bool
}

// Subscribe returns a channel of change-sets for every ticket write committed
// after the call. The channel is closed when ctx is done.
func (s *Store) Subscribe(ctx context.Context, filter storage.TicketFilter) (<-chan models.ChangeSet, error) {
	sub := &subscriber{
		filter: filter,
		out:    make(chan models.ChangeSet),
		wake:   make(chan struct{}, 1),
	}

	s.mu.Lock()
	s.subscribers = append(s.subscribers, sub)
	s.mu.Unlock()

	go func() {
		sub.pump(ctx)
		s.unsubscribe(sub)
	}()

	return sub.out, nil
}

func (s *Store) unsubscribe(sub *subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, other := range s.subscribers {
		if other == sub {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			break
		}
	}
}

// publish must be called with s.mu held.
func (s *Store) publish(change models.TicketChange) {
	for _, sub := range s.subscribers {
		if sub.filter.Match(&change.Ticket) {
			sub.enqueue(models.ChangeSet{Changes: []models.TicketChange{change}})
		}
	}
}

func (sub *subscriber) enqueue(cs models.ChangeSet) {
	sub.mu.Lock()
	if sub.done {
		sub.mu.Unlock()
		return
	}
	sub.pending = append(sub.pending, cs)
	sub.mu.Unlock()

	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

func (sub *subscriber) pump(ctx context.Context) {
	defer func() {
		sub.mu.Lock()
		sub.done = true
		sub.pending = nil
		sub.mu.Unlock()
		close(sub.out)
	}()

	for {
		sub.mu.Lock()
		var next *models.ChangeSet
		if len(sub.pending) > 0 {
			cs := sub.pending[0]
			sub.pending = sub.pending[1:]
			next = &cs
		}
		sub.mu.Unlock()

		if next == nil {
			select {
			case <-ctx.Done():
				return
			case <-sub.wake:
				continue
			}
		}

		select {
		case <-ctx.Done():
			return
		case sub.out <- *next:
		}
	}
}
