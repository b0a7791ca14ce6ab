package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatusAt(t *testing.T) {
	activated := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	ticket := &Ticket{TicketId: "t1", Status: ACTIVE, ActivatedTime: activated.UnixMilli()}

	t.Run("Within Window", func(t *testing.T) {
		assert.Equal(t, ACTIVE, ticket.StatusAt(activated))
		assert.Equal(t, ACTIVE, ticket.StatusAt(activated.Add(ValidityWindow-time.Millisecond)))
		assert.Equal(t, ValidityWindow, ticket.Remaining(activated))
	})

	t.Run("At And After Window", func(t *testing.T) {
		assert.Equal(t, EXPIRED, ticket.StatusAt(activated.Add(ValidityWindow)))
		assert.Equal(t, EXPIRED, ticket.StatusAt(activated.Add(ValidityWindow+time.Second)))
		assert.Zero(t, ticket.Remaining(activated.Add(ValidityWindow)))
	})

	t.Run("Purchased Never Expires By Time", func(t *testing.T) {
		purchased := &Ticket{TicketId: "t2", Status: PURCHASED}
		assert.Equal(t, PURCHASED, purchased.StatusAt(activated.Add(24*time.Hour)))
		assert.True(t, purchased.ExpiresAt().IsZero())
		assert.Zero(t, purchased.Remaining(activated))
	})
}

func TestTicketStatusCanTransition(t *testing.T) {
	all := []TicketStatus{PURCHASED, ACTIVE, EXPIRED}
	allowed := map[TicketStatus]TicketStatus{PURCHASED: ACTIVE, ACTIVE: EXPIRED}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from] == to
			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestSavedCardCredentials(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		card := &SavedCard{Id: "c1", CardNumber: "1111222233344", CVV: "1234", ExpiryMonth: 9, ExpiryYear: 26}
		creds, err := card.Credentials()

		assert.NoError(t, err)
		assert.Equal(t, CardCredentials{Number: 1111222233344, CVV: 1234, ExpiryMonth: 9, ExpiryYear: 26}, creds)

		record := &LedgerRecord{CardNumber: 1111222233344, CVV: 1234, ExpirationMonth: 9, ExpirationYear: 26}
		assert.True(t, record.Matches(creds))
	})

	t.Run("Non Numeric Fields", func(t *testing.T) {
		_, err := (&SavedCard{Id: "c2", CardNumber: "abcd", CVV: "123"}).Credentials()
		assert.ErrorContains(t, err, "non-numeric card number")

		_, err = (&SavedCard{Id: "c3", CardNumber: "4111", CVV: "x"}).Credentials()
		assert.ErrorContains(t, err, "non-numeric cvv")
	})
}
