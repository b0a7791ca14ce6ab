package models

import (
	"fmt"
	"strconv"
	"time"
)

// ValidityWindow is how long a ticket stays usable after activation.
const ValidityWindow = 30 * time.Minute

// TicketStatus defines the possible states of a ticket.
type TicketStatus string

const (
	PURCHASED TicketStatus = "purchased"
	ACTIVE    TicketStatus = "active"
	EXPIRED   TicketStatus = "expired"
)

// CanTransition reports whether moving from s to next is a legal step of the
// purchased -> active -> expired state machine.
func (s TicketStatus) CanTransition(next TicketStatus) bool {
	switch s {
	case PURCHASED:
		return next == ACTIVE
	case ACTIVE:
		return next == EXPIRED
	}
	return false
}

// Ticket represents the internal domain model for a transit ticket.
// Times are epoch milliseconds, matching the persisted record shape.
type Ticket struct {
	TicketId      string       `json:"ticketId" dynamodbav:"ticketId"`
	CardId        string       `json:"cardId" dynamodbav:"cardId"`
	Price         int64        `json:"price" dynamodbav:"price"`
	PurchaseTime  int64        `json:"purchaseTime" dynamodbav:"purchaseTime"`
	ValidUntil    int64        `json:"validUntil,omitempty" dynamodbav:"validUntil,omitempty"`
	Status        TicketStatus `json:"status" dynamodbav:"status"`
	QRCode        string       `json:"qrCode" dynamodbav:"qrCode"`
	ActivatedTime int64        `json:"activatedTime" dynamodbav:"activatedTime"`
}

// ExpiresAt returns the end of the validity window, or the zero time if the
// ticket was never activated.
func (t *Ticket) ExpiresAt() time.Time {
	if t.ActivatedTime == 0 {
		return time.Time{}
	}
	return time.UnixMilli(t.ActivatedTime).Add(ValidityWindow)
}

// Remaining returns the time left in the validity window at now. Tickets that
// are not active report zero.
func (t *Ticket) Remaining(now time.Time) time.Duration {
	if t.Status != ACTIVE || t.ActivatedTime == 0 {
		return 0
	}
	if d := t.ExpiresAt().Sub(now); d > 0 {
		return d
	}
	return 0
}

// StatusAt returns the status as observed at now. An active ticket whose window
// has elapsed is reported as expired even if the stored record still says active.
func (t *Ticket) StatusAt(now time.Time) TicketStatus {
	if t.Status == ACTIVE && t.ActivatedTime != 0 && !now.Before(t.ExpiresAt()) {
		return EXPIRED
	}
	return t.Status
}

// LedgerRecord is a balance-bearing account matched by card-like fields.
type LedgerRecord struct {
	Id              string `json:"id" dynamodbav:"id"`
	CardNumber      int64  `json:"card_number" dynamodbav:"card_number"`
	CVV             int    `json:"cvv" dynamodbav:"cvv"`
	ExpirationMonth int    `json:"expiration_month" dynamodbav:"expiration_month"`
	ExpirationYear  int    `json:"expiration_year" dynamodbav:"expiration_year"`
	Balance         int64  `json:"balance" dynamodbav:"balance"`
}

// Matches reports whether all four predicate fields equal the credentials.
func (r *LedgerRecord) Matches(c CardCredentials) bool {
	return r.CardNumber == c.Number &&
		r.CVV == c.CVV &&
		r.ExpirationMonth == c.ExpiryMonth &&
		r.ExpirationYear == c.ExpiryYear
}

// CardCredentials is the lookup predicate used against ledger records.
type CardCredentials struct {
	Number      int64
	CVV         int
	ExpiryMonth int
	ExpiryYear  int
}

// SavedCard is a user's stored card reference. It is independent of the ledger
// and may later fail to match any ledger record.
type SavedCard struct {
	Id             string `json:"id" dynamodbav:"id"`
	CardNumber     string `json:"cardNumber" dynamodbav:"cardNumber"`
	ExpiryMonth    int    `json:"expiryMonth" dynamodbav:"expiryMonth"`
	ExpiryYear     int    `json:"expiryYear" dynamodbav:"expiryYear"`
	CVV            string `json:"cvv" dynamodbav:"cvv"`
	CardHolderName string `json:"cardHolderName" dynamodbav:"cardHolderName"`
	Nickname       string `json:"nickname" dynamodbav:"nickname"`
	LastFourDigits string `json:"lastFourDigits" dynamodbav:"lastFourDigits"`
	SavedAt        int64  `json:"savedAt" dynamodbav:"savedAt"`
}

// Credentials replays the saved card as a ledger lookup predicate.
func (c *SavedCard) Credentials() (CardCredentials, error) {
	number, err := strconv.ParseInt(c.CardNumber, 10, 64)
	if err != nil {
		return CardCredentials{}, fmt.Errorf("saved card %s has a non-numeric card number", c.Id)
	}
	cvv, err := strconv.Atoi(c.CVV)
	if err != nil {
		return CardCredentials{}, fmt.Errorf("saved card %s has a non-numeric cvv", c.Id)
	}
	return CardCredentials{
		Number:      number,
		CVV:         cvv,
		ExpiryMonth: c.ExpiryMonth,
		ExpiryYear:  c.ExpiryYear,
	}, nil
}

// TransportType is the transport category tag of a registered QR code.
type TransportType string

const (
	FERRY TransportType = "ferry"
	METRO TransportType = "metro"
	BUS   TransportType = "bus"
)

// QRRegistryEntry maps a scannable code to a transport type.
type QRRegistryEntry struct {
	Code string        `json:"code" dynamodbav:"code"`
	Type TransportType `json:"type" dynamodbav:"type"`
}

// ChangeKind describes what happened to a ticket record.
type ChangeKind string

const (
	ADDED    ChangeKind = "added"
	MODIFIED ChangeKind = "modified"
	REMOVED  ChangeKind = "removed"
)

// TicketChange is a single entry of a change-set.
type TicketChange struct {
	Kind   ChangeKind
	Ticket Ticket
}

// ChangeSet is one batch of ticket changes delivered by a subscription, in
// delivery order.
type ChangeSet struct {
	Changes []TicketChange
}
