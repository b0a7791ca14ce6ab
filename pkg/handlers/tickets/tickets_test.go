package tickets_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chris/transit-tickets/pkg/api"
	"github.com/chris/transit-tickets/pkg/handlers/tickets"
	"github.com/chris/transit-tickets/pkg/handlers/tickets/mocks"
	"github.com/chris/transit-tickets/pkg/lifecycle"
	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/payment"
	"github.com/chris/transit-tickets/pkg/qrcode"
	svc "github.com/chris/transit-tickets/pkg/tickets"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

func purchasedTicket() *models.Ticket {
	t := &models.Ticket{TicketId: uuid.NewString(), CardId: "ledger-1", Price: 10, PurchaseTime: now.UnixMilli(), Status: models.PURCHASED}
	t.QRCode = qrcode.Encode(t)
	return t
}

func TestPurchaseTicket(t *testing.T) {
	body := api.PurchaseRequest{CardDetails: api.CardDetails{CardNumber: "1111 2222 3334 4", ExpiryMonth: 9, ExpiryYear: 26, CVV: "1234"}}

	t.Run("Success", func(t *testing.T) {
		service := mocks.NewTicketService(t)
		ticket := purchasedTicket()
		service.On("Purchase", mock.Anything, mock.MatchedBy(func(req svc.PurchaseRequest) bool {
			return req.Credentials == models.CardCredentials{Number: 1111222233344, CVV: 1234, ExpiryMonth: 9, ExpiryYear: 26} && !req.SaveCard
		})).Return(&svc.Receipt{Ticket: ticket, LedgerRecordID: "ledger-1"}, nil)

		h := tickets.NewTicketsHandler(service, clockwork.NewFakeClockAt(now))
		raw, _ := json.Marshal(body)
		rr := httptest.NewRecorder()
		h.PurchaseTicket(rr, httptest.NewRequest(http.MethodPost, "/tickets", bytes.NewReader(raw)))

		assert.Equal(t, http.StatusCreated, rr.Code)
		var got api.PurchaseResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, ticket.TicketId, got.Ticket.TicketId)
		assert.Equal(t, api.Purchased, got.Ticket.Status)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		service := mocks.NewTicketService(t)
		service.On("Purchase", mock.Anything, mock.Anything).Return(nil, &payment.InsufficientFundsError{Balance: 5, Price: 10})

		h := tickets.NewTicketsHandler(service, clockwork.NewFakeClockAt(now))
		raw, _ := json.Marshal(body)
		rr := httptest.NewRecorder()
		h.PurchaseTicket(rr, httptest.NewRequest(http.MethodPost, "/tickets", bytes.NewReader(raw)))

		assert.Equal(t, http.StatusPaymentRequired, rr.Code)
		assert.Contains(t, rr.Body.String(), "Insufficient funds")
	})

	t.Run("Invalid Card", func(t *testing.T) {
		service := mocks.NewTicketService(t)
		service.On("Purchase", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("no match: %w", payment.ErrInvalidCard))

		h := tickets.NewTicketsHandler(service, clockwork.NewFakeClockAt(now))
		raw, _ := json.Marshal(body)
		rr := httptest.NewRecorder()
		h.PurchaseTicket(rr, httptest.NewRequest(http.MethodPost, "/tickets", bytes.NewReader(raw)))

		assert.Equal(t, http.StatusPaymentRequired, rr.Code)
	})

	t.Run("Bad Request - Invalid JSON", func(t *testing.T) {
		service := mocks.NewTicketService(t)
		h := tickets.NewTicketsHandler(service, clockwork.NewFakeClockAt(now))

		rr := httptest.NewRecorder()
		h.PurchaseTicket(rr, httptest.NewRequest(http.MethodPost, "/tickets", strings.NewReader("not-json")))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Bad Request - Validation", func(t *testing.T) {
		service := mocks.NewTicketService(t)
		h := tickets.NewTicketsHandler(service, clockwork.NewFakeClockAt(now))

		rr := httptest.NewRecorder()
		h.PurchaseTicket(rr, httptest.NewRequest(http.MethodPost, "/tickets", strings.NewReader(`{"card_number":"4111","expiry_month":13}`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "cvv is required")
	})
}

func TestPurchaseWithSavedCard(t *testing.T) {
	service := mocks.NewTicketService(t)
	cardID := uuid.New()
	ticket := purchasedTicket()
	service.On("PurchaseWithSavedCard", mock.Anything, cardID.String()).Return(&svc.Receipt{Ticket: ticket}, nil)

	h := tickets.NewTicketsHandler(service, clockwork.NewFakeClockAt(now))
	rr := httptest.NewRecorder()
	h.PurchaseWithSavedCard(rr, httptest.NewRequest(http.MethodPost, "/tickets/saved-card/"+cardID.String(), nil), cardID)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestGetTicket(t *testing.T) {
	ticketID := uuid.New()

	t.Run("Observed As Expired", func(t *testing.T) {
		service := mocks.NewTicketService(t)
		activated := now.Add(-time.Hour).UnixMilli()
		service.On("Ticket", mock.Anything, ticketID.String()).Return(&svc.TicketView{
			Ticket: models.Ticket{TicketId: ticketID.String(), Status: models.ACTIVE, ActivatedTime: activated, ValidUntil: activated + models.ValidityWindow.Milliseconds()},
			Status: models.EXPIRED,
		}, nil)

		h := tickets.NewTicketsHandler(service, clockwork.NewFakeClockAt(now))
		rr := httptest.NewRecorder()
		h.GetTicket(rr, httptest.NewRequest(http.MethodGet, "/tickets/"+ticketID.String(), nil), ticketID)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got api.Ticket
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, api.Expired, got.Status)
		assert.Zero(t, got.RemainingSeconds)
	})

	t.Run("Not Found", func(t *testing.T) {
		service := mocks.NewTicketService(t)
		service.On("Ticket", mock.Anything, ticketID.String()).Return(nil, lifecycle.ErrNotFound)

		h := tickets.NewTicketsHandler(service, clockwork.NewFakeClockAt(now))
		rr := httptest.NewRecorder()
		h.GetTicket(rr, httptest.NewRequest(http.MethodGet, "/tickets/"+ticketID.String(), nil), ticketID)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestListTickets(t *testing.T) {
	service := mocks.NewTicketService(t)
	first, second := purchasedTicket(), purchasedTicket()
	service.On("Tickets", mock.Anything).Return([]svc.TicketView{
		{Ticket: *first, Status: models.PURCHASED},
		{Ticket: *second, Status: models.PURCHASED},
	}, nil)

	h := tickets.NewTicketsHandler(service, clockwork.NewFakeClockAt(now))
	rr := httptest.NewRecorder()
	h.ListTickets(rr, httptest.NewRequest(http.MethodGet, "/tickets", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var got []api.Ticket
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, first.TicketId, got[0].TicketId)
}

func TestGetTicketQRCode(t *testing.T) {
	ticket := purchasedTicket()
	ticketID := uuid.MustParse(ticket.TicketId)

	t.Run("Success", func(t *testing.T) {
		service := mocks.NewTicketService(t)
		service.On("Ticket", mock.Anything, ticket.TicketId).Return(&svc.TicketView{Ticket: *ticket, Status: models.PURCHASED}, nil)

		h := tickets.NewTicketsHandler(service, clockwork.NewFakeClockAt(now))
		size := 128
		rr := httptest.NewRecorder()
		h.GetTicketQRCode(rr, httptest.NewRequest(http.MethodGet, "/tickets/x/qr.png?size=128", nil), ticketID, api.GetTicketQRCodeParams{Size: &size})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG")))
	})

	t.Run("Size Out Of Range", func(t *testing.T) {
		service := mocks.NewTicketService(t)
		h := tickets.NewTicketsHandler(service, clockwork.NewFakeClockAt(now))
		size := 0
		rr := httptest.NewRecorder()
		h.GetTicketQRCode(rr, httptest.NewRequest(http.MethodGet, "/tickets/x/qr.png?size=0", nil), ticketID, api.GetTicketQRCodeParams{Size: &size})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestScanCode(t *testing.T) {
	t.Run("Candidates Most Recent First", func(t *testing.T) {
		service := mocks.NewTicketService(t)
		newer, older := purchasedTicket(), purchasedTicket()
		service.On("Scan", mock.Anything, "FERRY-01").Return(&svc.ScanResult{
			Description: qrcode.Describe("FERRY-01"),
			Match:       &lifecycle.ScanMatch{Code: "FERRY-01", Transport: models.FERRY, Candidates: []models.Ticket{*newer, *older}},
		}, nil)

		h := tickets.NewTicketsHandler(service, clockwork.NewFakeClockAt(now))
		rr := httptest.NewRecorder()
		h.ScanCode(rr, httptest.NewRequest(http.MethodPost, "/scans", strings.NewReader(`{"content":"FERRY-01"}`)))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got api.ScanResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "ferry", got.TransportType)
		require.Len(t, got.Candidates, 2)
		assert.Equal(t, newer.TicketId, got.Candidates[0].TicketId)
	})

	t.Run("Unregistered Code", func(t *testing.T) {
		service := mocks.NewTicketService(t)
		service.On("Scan", mock.Anything, "UNKNOWN").Return(nil, fmt.Errorf("code: %w", lifecycle.ErrNoMatchForScan))

		h := tickets.NewTicketsHandler(service, clockwork.NewFakeClockAt(now))
		rr := httptest.NewRecorder()
		h.ScanCode(rr, httptest.NewRequest(http.MethodPost, "/scans", strings.NewReader(`{"content":"UNKNOWN"}`)))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "No ticket matches the scanned code")
	})
}

func TestActivateTicket(t *testing.T) {
	ticketID := uuid.NewString()

	t.Run("Success", func(t *testing.T) {
		service := mocks.NewTicketService(t)
		activated := now.UnixMilli()
		service.On("Activate", mock.Anything, "FERRY-01", ticketID).Return(&svc.TicketView{
			Ticket:    models.Ticket{TicketId: ticketID, Status: models.ACTIVE, ActivatedTime: activated, ValidUntil: activated + models.ValidityWindow.Milliseconds()},
			Status:    models.ACTIVE,
			Remaining: models.ValidityWindow,
		}, nil)

		h := tickets.NewTicketsHandler(service, clockwork.NewFakeClockAt(now))
		rr := httptest.NewRecorder()
		h.ActivateTicket(rr, httptest.NewRequest(http.MethodPost, "/scans/activate", strings.NewReader(fmt.Sprintf(`{"content":"FERRY-01","ticket_id":%q}`, ticketID))))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got api.Ticket
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, api.Active, got.Status)
		assert.Equal(t, int64(1800), got.RemainingSeconds)
	})

	t.Run("Already Active", func(t *testing.T) {
		service := mocks.NewTicketService(t)
		service.On("Activate", mock.Anything, "FERRY-01", ticketID).Return(nil, fmt.Errorf("ticket: %w", lifecycle.ErrWrongState))

		h := tickets.NewTicketsHandler(service, clockwork.NewFakeClockAt(now))
		rr := httptest.NewRecorder()
		h.ActivateTicket(rr, httptest.NewRequest(http.MethodPost, "/scans/activate", strings.NewReader(fmt.Sprintf(`{"content":"FERRY-01","ticket_id":%q}`, ticketID))))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}
