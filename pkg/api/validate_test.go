package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePurchaseRequest(t *testing.T) {
	valid := PurchaseRequest{CardDetails: CardDetails{CardNumber: "1111222233344", ExpiryMonth: 9, ExpiryYear: 26, CVV: "1234"}}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, Validate(&valid))
	})

	t.Run("Missing Fields", func(t *testing.T) {
		err := Validate(&PurchaseRequest{})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Problems, "card_number is required")
		assert.Contains(t, verr.Problems, "cvv is required")
		assert.Contains(t, verr.Problems, "expiry_month is required")
	})

	t.Run("Bad Month And Letters", func(t *testing.T) {
		req := valid
		req.ExpiryMonth = 13
		req.CardNumber = "4111abcd"
		err := Validate(&req)
		assert.ErrorContains(t, err, "expiry_month must be at most 12")
		assert.ErrorContains(t, err, "card_number must contain only digits")
	})

	t.Run("Signed Or Decimal Digits", func(t *testing.T) {
		req := valid
		req.CardNumber = "-1111222233344"
		req.CVV = "12.5"
		err := Validate(&req)
		assert.ErrorContains(t, err, "card_number must contain only digits")
		assert.ErrorContains(t, err, "cvv must contain only digits")
	})

	t.Run("Holder Required When Saving", func(t *testing.T) {
		req := valid
		req.SaveCard = true
		assert.ErrorContains(t, Validate(&req), "card_holder_name is required when saving a card")

		req.CardHolderName = "A Rider"
		assert.NoError(t, Validate(&req))
	})
}

func TestCardDetailsNormalize(t *testing.T) {
	c := CardDetails{CardNumber: " 1111 2222 3334 4 ", CVV: " 123 "}
	c.Normalize()
	assert.Equal(t, "1111222233344", c.CardNumber)
	assert.Equal(t, "123", c.CVV)
}

func TestValidateActivateRequest(t *testing.T) {
	assert.ErrorContains(t, Validate(&ActivateRequest{Content: "FERRY-01", TicketId: "nope"}), "ticket_id must be a valid UUID")
	assert.NoError(t, Validate(&ActivateRequest{Content: "FERRY-01", TicketId: "7b0c2f63-2a8e-4a55-9b55-0d5a3c1b0e11"}))
}
