// Package tickets orchestrates purchases and scans across the payment
// validator, the lifecycle manager and the wallet.
package tickets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/transit-tickets/pkg/lifecycle"
	"github.com/chris/transit-tickets/pkg/metrics"
	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/qrcode"
	"github.com/chris/transit-tickets/pkg/wallet"
	"github.com/jonboulle/clockwork"
)

// ErrTicketNotIssued is returned when the ledger was debited but the ticket
// could not be stored. Nothing compensates the debit.
var ErrTicketNotIssued = errors.New("card was charged but the ticket was not issued")

type Payments interface {
	ValidateAndCharge(ctx context.Context, creds models.CardCredentials, price int64) (string, error)
}

type Lifecycle interface {
	Create(ctx context.Context, cardID string, price int64) (*models.Ticket, error)
	Get(ctx context.Context, ticketID string) (*models.Ticket, error)
	List(ctx context.Context) ([]models.Ticket, error)
	Candidates(ctx context.Context, code string) (*lifecycle.ScanMatch, error)
	ActivateSelected(ctx context.Context, code, ticketID string) (*models.Ticket, error)
}

type Wallet interface {
	Save(ctx context.Context, card wallet.NewCard, nickname string) (*models.SavedCard, error)
	Credentials(ctx context.Context, cardID string) (models.CardCredentials, error)
}

type Service struct {
	payments  Payments
	lifecycle Lifecycle
	wallet    Wallet
	clock     clockwork.Clock
	price     int64
}

func NewService(payments Payments, lc Lifecycle, w Wallet, clock clockwork.Clock, price int64) *Service {
	return &Service{payments: payments, lifecycle: lc, wallet: w, clock: clock, price: price}
}

// Price is the flat fare charged per ticket.
func (s *Service) Price() int64 {
	return s.price
}

// PurchaseRequest carries validated card input. Card is only used when SaveCard is set.
type PurchaseRequest struct {
	Credentials models.CardCredentials
	SaveCard    bool
	Card        wallet.NewCard
	Nickname    string
}

// Receipt is the outcome of a successful purchase. SaveCardErr is set when the
// purchase succeeded but the opt-in save did not.
type Receipt struct {
	Ticket         *models.Ticket
	LedgerRecordID string
	SavedCard      *models.SavedCard
	SaveCardErr    error
}

// Purchase charges the fare and creates a purchased ticket.
func (s *Service) Purchase(ctx context.Context, req PurchaseRequest) (*Receipt, error) {
	recordID, err := s.payments.ValidateAndCharge(ctx, req.Credentials, s.price)
	if err != nil {
		return nil, err
	}

	ticket, err := s.lifecycle.Create(ctx, recordID, s.price)
	if err != nil {
		metrics.TicketsNotIssued.Inc()
		slog.Error("CRITICAL: ledger debited but ticket not created", "ledgerRecordId", recordID, "price", s.price, "error", err)
		return nil, fmt.Errorf("%w: ledger record %s was debited %d: %w", ErrTicketNotIssued, recordID, s.price, err)
	}
	metrics.TicketsIssued.Inc()

	receipt := &Receipt{Ticket: ticket, LedgerRecordID: recordID}
	if req.SaveCard {
		saved, err := s.wallet.Save(ctx, req.Card, req.Nickname)
		if err != nil {
			slog.Warn("ticket purchased but card not saved", "ticketId", ticket.TicketId, "error", err)
			receipt.SaveCardErr = err
		}
		receipt.SavedCard = saved
	}
	return receipt, nil
}

// PurchaseWithSavedCard replays a saved card's credentials. Payment failures
// surface unchanged.
func (s *Service) PurchaseWithSavedCard(ctx context.Context, cardID string) (*Receipt, error) {
	creds, err := s.wallet.Credentials(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return s.Purchase(ctx, PurchaseRequest{Credentials: creds})
}

// ScanResult describes a scanned payload and the tickets it could activate.
type ScanResult struct {
	Description qrcode.Description
	Match       *lifecycle.ScanMatch
}

// Scan gates a decoded scan string and lists activation candidates.
func (s *Service) Scan(ctx context.Context, content string) (*ScanResult, error) {
	desc := qrcode.Describe(content)
	match, err := s.lifecycle.Candidates(ctx, content)
	if err != nil {
		return nil, err
	}
	return &ScanResult{Description: desc, Match: match}, nil
}

// Activate activates the ticket the user selected for a scanned code.
func (s *Service) Activate(ctx context.Context, content, ticketID string) (*TicketView, error) {
	ticket, err := s.lifecycle.ActivateSelected(ctx, content, ticketID)
	if err != nil {
		return nil, err
	}
	view := s.view(*ticket)
	return &view, nil
}

// TicketView is a ticket with its status as observed now.
type TicketView struct {
	Ticket    models.Ticket
	Status    models.TicketStatus
	Remaining time.Duration
}

// Ticket returns one ticket with its observed status.
func (s *Service) Ticket(ctx context.Context, ticketID string) (*TicketView, error) {
	ticket, err := s.lifecycle.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	view := s.view(*ticket)
	return &view, nil
}

// Tickets returns every ticket, most recent purchase first, with observed
// status. An active ticket past its window is shown as expired even if the
// store has not caught up.
func (s *Service) Tickets(ctx context.Context) ([]TicketView, error) {
	tickets, err := s.lifecycle.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		views = append(views, s.view(t))
	}
	return views, nil
}

func (s *Service) view(t models.Ticket) TicketView {
	now := s.clock.Now()
	return TicketView{Ticket: t, Status: t.StatusAt(now), Remaining: t.Remaining(now)}
}
