package domain_test

import (
	"testing"

	"github.com/commercekit/stripe-gateway/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCardType(t *testing.T) {
	t.Run("maps known brands to provider tokens", func(t *testing.T) {
		assert.Equal(t, "american_express", domain.NormalizeCardType("American Express"))
		assert.Equal(t, "diners_club", domain.NormalizeCardType("Diners Club"))
		assert.Equal(t, "visa", domain.NormalizeCardType("Visa"))
	})

	t.Run("passes unknown brands through unchanged", func(t *testing.T) {
		assert.Equal(t, "MasterCard", domain.NormalizeCardType("MasterCard"))
		assert.Equal(t, "", domain.NormalizeCardType(""))
	})
}

func TestFirstPayment(t *testing.T) {
	t.Run("returns nil when the card has no payments", func(t *testing.T) {
		card := &domain.CreditCard{}
		assert.Nil(t, card.FirstPayment())
	})

	t.Run("returns the first recorded payment", func(t *testing.T) {
		first := &domain.Payment{ReferenceNumber: "P100"}
		card := &domain.CreditCard{Payments: []*domain.Payment{first, {ReferenceNumber: "P101"}}}
		assert.Same(t, first, card.FirstPayment())
	})
}
