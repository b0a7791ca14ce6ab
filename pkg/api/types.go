// Package api holds the HTTP request and response shapes and the router glue
// that binds path and query parameters before calling a ServerInterface.
package api

import (
	"strings"
	"time"
)

// CardDetails identifies a ledger record by its four card fields.
type CardDetails struct {
	CardNumber  string `json:"card_number" validate:"required,number,min=4,max=19"`
	ExpiryMonth int    `json:"expiry_month" validate:"required,min=1,max=12"`
	ExpiryYear  int    `json:"expiry_year" validate:"min=0,max=9999"`
	CVV         string `json:"cvv" validate:"required,number,min=3,max=4"`
}

// Normalize strips the spaces users type between card number groups.
func (c *CardDetails) Normalize() {
	c.CardNumber = strings.ReplaceAll(strings.TrimSpace(c.CardNumber), " ", "")
	c.CVV = strings.TrimSpace(c.CVV)
}

// PurchaseRequest buys one ticket with card details.
type PurchaseRequest struct {
	CardDetails
	SaveCard       bool   `json:"save_card"`
	Nickname       string `json:"nickname,omitempty" validate:"max=40"`
	CardHolderName string `json:"card_holder_name,omitempty" validate:"required_if=SaveCard true,max=80"`
}

// BalanceRequest asks for the balance of the ledger record matching the card.
type BalanceRequest struct {
	CardDetails
}

// BalanceResponse is the current balance of a ledger record.
type BalanceResponse struct {
	Balance int64 `json:"balance"`
}

// TicketStatus mirrors the lifecycle states.
type TicketStatus string

const (
	Purchased TicketStatus = "purchased"
	Active    TicketStatus = "active"
	Expired   TicketStatus = "expired"
)

// Ticket is a ticket as shown to clients. Status is the observed status, which
// reports an elapsed active ticket as expired.
type Ticket struct {
	TicketId         string       `json:"ticket_id"`
	CardId           string       `json:"card_id"`
	Price            int64        `json:"price"`
	Status           TicketStatus `json:"status"`
	PurchaseTime     time.Time    `json:"purchase_time"`
	ActivatedTime    *time.Time   `json:"activated_time,omitempty"`
	ValidUntil       *time.Time   `json:"valid_until,omitempty"`
	RemainingSeconds int64        `json:"remaining_seconds"`
	QRCode           string       `json:"qr_code"`
}

// SavedCard is a stored card reference. The full number and CVV never leave the server.
type SavedCard struct {
	Id             string    `json:"id"`
	Nickname       string    `json:"nickname"`
	LastFourDigits string    `json:"last_four_digits"`
	CardHolderName string    `json:"card_holder_name"`
	ExpiryMonth    int       `json:"expiry_month"`
	ExpiryYear     int       `json:"expiry_year"`
	SavedAt        time.Time `json:"saved_at"`
}

// PurchaseResponse is returned for a successful purchase. SaveCardError is set
// when the ticket was issued but the opt-in card save failed.
type PurchaseResponse struct {
	Ticket        Ticket     `json:"ticket"`
	SavedCard     *SavedCard `json:"saved_card,omitempty"`
	SaveCardError string     `json:"save_card_error,omitempty"`
}

// ScanRequest carries the decoded content of a scanned QR code.
type ScanRequest struct {
	Content string `json:"content" validate:"required,max=2048"`
}

// ScanResponse lists the purchased tickets a scan could activate, most recent first.
type ScanResponse struct {
	Code          string   `json:"code"`
	TransportType string   `json:"transport_type"`
	Format        string   `json:"format"`
	Fields        []string `json:"fields,omitempty"`
	Summary       string   `json:"summary"`
	Candidates    []Ticket `json:"candidates"`
}

// ActivateRequest activates the selected ticket for a scanned code.
type ActivateRequest struct {
	Content  string `json:"content" validate:"required,max=2048"`
	TicketId string `json:"ticket_id" validate:"required,uuid"`
}

// GetTicketQRCodeParams defines parameters for GetTicketQRCode.
type GetTicketQRCodeParams struct {
	// Size is the image edge in pixels.
	Size *int `form:"size,omitempty" json:"size,omitempty"`
}
