// Package memory is an in-process implementation of the storage interfaces used
// for local development and engine tests. Every mutation is atomic per record and
// ticket writes are broadcast to subscribers in commit order.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/storage"
	"github.com/google/uuid"
)

// Store implements storage.Storage and storage.TicketSubscriber in memory.
type Store struct {
	mu          sync.Mutex
	tickets     map[string]models.Ticket
	ledger      map[string]models.LedgerRecord
	cards       map[string]models.SavedCard
	registry    map[string]models.TransportType
	connections map[string]struct{}
	subscribers []*subscriber
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		tickets:     make(map[string]models.Ticket),
		ledger:      make(map[string]models.LedgerRecord),
		cards:       make(map[string]models.SavedCard),
		registry:    make(map[string]models.TransportType),
		connections: make(map[string]struct{}),
	}
}

var (
	_ storage.Storage          = (*Store)(nil)
	_ storage.TicketSubscriber = (*Store)(nil)
)

func (s *Store) CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[ticket.TicketId]; ok {
		return nil, fmt.Errorf("ticket %s: %w", ticket.TicketId, storage.ErrAlreadyExists)
	}
	s.tickets[ticket.TicketId] = *ticket
	s.publish(models.TicketChange{Kind: models.ADDED, Ticket: *ticket})

	created := *ticket
	return &created, nil
}

func (s *Store) GetTicket(ctx context.Context, ticketID string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("ticket with ID %s: %w", ticketID, storage.ErrNotFound)
	}
	return &ticket, nil
}

func (s *Store) UpdateTicketStatus(ctx context.Context, ticket *models.Ticket, expected models.TicketStatus) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tickets[ticket.TicketId]
	if !ok {
		return nil, fmt.Errorf("ticket with ID %s: %w", ticket.TicketId, storage.ErrNotFound)
	}
	if current.Status != expected {
		return &current, fmt.Errorf("ticket %s is %s, not %s: %w", ticket.TicketId, current.Status, expected, storage.ErrConditionFailed)
	}

	current.Status = ticket.Status
	current.ActivatedTime = ticket.ActivatedTime
	current.ValidUntil = ticket.ValidUntil
	current.QRCode = ticket.QRCode
	s.tickets[ticket.TicketId] = current
	s.publish(models.TicketChange{Kind: models.MODIFIED, Ticket: current})

	return &current, nil
}

func (s *Store) ListTicketsByStatus(ctx context.Context, status models.TicketStatus) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tickets []models.Ticket
	for _, t := range s.tickets {
		if t.Status == status {
			tickets = append(tickets, t)
		}
	}
	sortNewestFirst(tickets)
	return tickets, nil
}

func (s *Store) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets := make([]models.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		tickets = append(tickets, t)
	}
	sortNewestFirst(tickets)
	return tickets, nil
}

func sortNewestFirst(tickets []models.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		if tickets[i].PurchaseTime == tickets[j].PurchaseTime {
			return tickets[i].TicketId < tickets[j].TicketId
		}
		return tickets[i].PurchaseTime > tickets[j].PurchaseTime
	})
}

func (s *Store) FindLedgerRecords(ctx context.Context, creds models.CardCredentials) ([]models.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []models.LedgerRecord
	for _, r := range s.ledger {
		if r.Matches(creds) {
			records = append(records, r)
		}
	}
	return records, nil
}

func (s *Store) DebitLedgerRecord(ctx context.Context, recordID string, amount int64) (*models.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.ledger[recordID]
	if !ok {
		return nil, fmt.Errorf("ledger record %s: %w", recordID, storage.ErrNotFound)
	}
	if record.Balance < amount {
		return &record, fmt.Errorf("ledger record %s balance %d below %d: %w", recordID, record.Balance, amount, storage.ErrConditionFailed)
	}
	record.Balance -= amount
	s.ledger[recordID] = record
	return &record, nil
}

func (s *Store) CreateLedgerRecord(ctx context.Context, record *models.LedgerRecord) (*models.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.Id == "" {
		record.Id = uuid.New().String()
	}
	if _, ok := s.ledger[record.Id]; ok {
		return nil, fmt.Errorf("ledger record %s: %w", record.Id, storage.ErrAlreadyExists)
	}
	s.ledger[record.Id] = *record
	created := *record
	return &created, nil
}

// LedgerRecord returns a copy of a ledger record, for assertions and tooling.
func (s *Store) LedgerRecord(recordID string) (models.LedgerRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ledger[recordID]
	return r, ok
}

func (s *Store) GetCard(ctx context.Context, cardID string) (*models.SavedCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[cardID]
	if !ok {
		return nil, fmt.Errorf("saved card %s: %w", cardID, storage.ErrNotFound)
	}
	return &card, nil
}

func (s *Store) CreateCard(ctx context.Context, card *models.SavedCard) (*models.SavedCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[card.Id]; ok {
		return nil, fmt.Errorf("saved card %s: %w", card.Id, storage.ErrAlreadyExists)
	}
	s.cards[card.Id] = *card
	created := *card
	return &created, nil
}

func (s *Store) DeleteCard(ctx context.Context, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[cardID]; !ok {
		return fmt.Errorf("saved card %s: %w", cardID, storage.ErrNotFound)
	}
	delete(s.cards, cardID)
	return nil
}

func (s *Store) ListCards(ctx context.Context) ([]models.SavedCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards := make([]models.SavedCard, 0, len(s.cards))
	for _, c := range s.cards {
		cards = append(cards, c)
	}
	return cards, nil
}

func (s *Store) LookupCode(ctx context.Context, code string) (models.TransportType, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transport, ok := s.registry[code]
	return transport, ok, nil
}

func (s *Store) PutCode(ctx context.Context, entry models.QRRegistryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry[entry.Code] = entry.Type
	return nil
}

func (s *Store) AddConnection(ctx context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[connectionID] = struct{}{}
	return nil
}

func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, connectionID)
	return nil
}

func (s *Store) GetAllConnections(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.connections))
	for id := range s.connections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
