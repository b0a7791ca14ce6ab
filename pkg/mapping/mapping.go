package mapping

import (
	"fmt"
	"strconv"
	"time"

	"github.com/chris/transit-tickets/pkg/api"
	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/tickets"
	"github.com/chris/transit-tickets/pkg/wallet"
	"github.com/chris/transit-tickets/pkg/websockets"
)

// ToDomainCredentials converts validated card details into a ledger lookup predicate.
func ToDomainCredentials(card *api.CardDetails) (models.CardCredentials, error) {
	number, err := strconv.ParseInt(card.CardNumber, 10, 64)
	if err != nil {
		return models.CardCredentials{}, fmt.Errorf("card_number is not a valid number: %w", err)
	}
	cvv, err := strconv.Atoi(card.CVV)
	if err != nil {
		return models.CardCredentials{}, fmt.Errorf("cvv is not a valid number: %w", err)
	}
	return models.CardCredentials{
		Number:      number,
		CVV:         cvv,
		ExpiryMonth: card.ExpiryMonth,
		ExpiryYear:  card.ExpiryYear,
	}, nil
}

// ToDomainPurchase converts an API PurchaseRequest into a purchase request.
func ToDomainPurchase(req *api.PurchaseRequest) (tickets.PurchaseRequest, error) {
	creds, err := ToDomainCredentials(&req.CardDetails)
	if err != nil {
		return tickets.PurchaseRequest{}, err
	}
	return tickets.PurchaseRequest{
		Credentials: creds,
		SaveCard:    req.SaveCard,
		Nickname:    req.Nickname,
		Card: wallet.NewCard{
			CardNumber:     req.CardNumber,
			ExpiryMonth:    req.ExpiryMonth,
			ExpiryYear:     req.ExpiryYear,
			CVV:            req.CVV,
			CardHolderName: req.CardHolderName,
		},
	}, nil
}

// ToApiTicket converts a ticket view into the API Ticket model.
func ToApiTicket(view *tickets.TicketView) *api.Ticket {
	t := view.Ticket
	out := &api.Ticket{
		TicketId:         t.TicketId,
		CardId:           t.CardId,
		Price:            t.Price,
		Status:           api.TicketStatus(view.Status),
		PurchaseTime:     time.UnixMilli(t.PurchaseTime).UTC(),
		RemainingSeconds: websockets.Seconds(view.Remaining),
		QRCode:           t.QRCode,
	}
	if t.ActivatedTime != 0 {
		activated := time.UnixMilli(t.ActivatedTime).UTC()
		out.ActivatedTime = &activated
	}
	if t.ValidUntil != 0 {
		validUntil := time.UnixMilli(t.ValidUntil).UTC()
		out.ValidUntil = &validUntil
	}
	return out
}

// ToApiTickets converts a list of ticket views.
func ToApiTickets(views []tickets.TicketView) []*api.Ticket {
	out := make([]*api.Ticket, len(views))
	for i := range views {
		out[i] = ToApiTicket(&views[i])
	}
	return out
}

// ToApiSavedCard converts a domain SavedCard, dropping the number and CVV.
func ToApiSavedCard(card *models.SavedCard) *api.SavedCard {
	return &api.SavedCard{
		Id:             card.Id,
		Nickname:       card.Nickname,
		LastFourDigits: card.LastFourDigits,
		CardHolderName: card.CardHolderName,
		ExpiryMonth:    card.ExpiryMonth,
		ExpiryYear:     card.ExpiryYear,
		SavedAt:        time.UnixMilli(card.SavedAt).UTC(),
	}
}

// ToApiPurchase converts a purchase receipt observed at now.
func ToApiPurchase(receipt *tickets.Receipt, now time.Time) *api.PurchaseResponse {
	view := tickets.TicketView{
		Ticket:    *receipt.Ticket,
		Status:    receipt.Ticket.StatusAt(now),
		Remaining: receipt.Ticket.Remaining(now),
	}
	out := &api.PurchaseResponse{Ticket: *ToApiTicket(&view)}
	if receipt.SavedCard != nil {
		out.SavedCard = ToApiSavedCard(receipt.SavedCard)
	}
	if receipt.SaveCardErr != nil {
		out.SaveCardError = receipt.SaveCardErr.Error()
	}
	return out
}

// ToApiScan converts a scan result. Candidates are purchased tickets, so they
// carry no remaining time.
func ToApiScan(result *tickets.ScanResult) *api.ScanResponse {
	out := &api.ScanResponse{
		Code:          result.Match.Code,
		TransportType: string(result.Match.Transport),
		Format:        string(result.Description.Format),
		Fields:        result.Description.Fields,
		Summary:       result.Description.String(),
		Candidates:    make([]api.Ticket, 0, len(result.Match.Candidates)),
	}
	for _, t := range result.Match.Candidates {
		view := tickets.TicketView{Ticket: t, Status: t.Status}
		out.Candidates = append(out.Candidates, *ToApiTicket(&view))
	}
	return out
}
