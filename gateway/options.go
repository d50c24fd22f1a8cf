package gateway

import (
	"crypto/md5" //nolint:gosec // de-duplication key, not a security boundary
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/commercekit/stripe-gateway/billing"
	"github.com/commercekit/stripe-gateway/domain"
)

// ChargeContext is the order-derived call context the host passes with a
// charge. The zero value means a manual, out-of-band payment.
type ChargeContext struct {
	// OrderID is the host order number suffixed with the payment attempt,
	// e.g. "R100-1".
	OrderID     string
	Currency    string
	IP          string
	BillingName string
}

func (c ChargeContext) manual() bool {
	return c.OrderID == ""
}

// chargeArguments resolves the card argument and options bag for a purchase
// or authorize call. A stored customer profile rides in the options; a stored
// payment profile replaces the card itself with its token. The provider
// accepts a token or a full card, never both.
func chargeArguments(card *domain.CreditCard, gctx ChargeContext) (billing.ChargeSource, billing.ChargeOptions) {
	opts := paymentOptions(card, gctx)

	if card.GatewayCustomerProfileID != "" {
		opts.Customer = card.GatewayCustomerProfileID
	}

	source := billing.ChargeSource(billing.RawCard{Card: card})
	if card.GatewayPaymentProfileID != "" {
		source = billing.TokenizedCard{ID: card.GatewayPaymentProfileID}
	}

	return source, opts
}

func paymentOptions(card *domain.CreditCard, gctx ChargeContext) billing.ChargeOptions {
	if gctx.manual() {
		return manualPaymentOptions(card)
	}
	return standardPaymentOptions(card, gctx)
}

func standardPaymentOptions(card *domain.CreditCard, gctx ChargeContext) billing.ChargeOptions {
	orderID := orderNumber(gctx.OrderID)

	return billing.ChargeOptions{
		Description:    fmt.Sprintf("%s (Order #%s)", gctx.BillingName, orderID),
		Currency:       gctx.Currency,
		IdempotencyKey: idempotencyKey(orderID, card),
		Metadata: map[string]string{
			"Purchase Order Number": orderID,
			"IP Address":            gctx.IP,
		},
	}
}

func manualPaymentOptions(card *domain.CreditCard) billing.ChargeOptions {
	var reference, admin string
	if payment := card.FirstPayment(); payment != nil {
		reference = payment.ReferenceNumber
		if payment.User != nil {
			admin = payment.User.Email
		}
	}

	return billing.ChargeOptions{
		Description:    fmt.Sprintf("%s (Manual Payment)", card.Name),
		Currency:       "USD",
		IdempotencyKey: idempotencyKey("", card),
		Metadata: map[string]string{
			"Purchase Order Number": reference,
			"Admin User":            admin,
		},
	}
}

// orderNumber strips the payment-attempt suffix from a host order id
// ("R100-1" -> "R100").
func orderNumber(orderID string) string {
	return strings.SplitN(orderID, "-", 2)[0]
}

// idempotencyKey is a deterministic digest of the order id (empty for manual
// payments) and the card argument at build time, letting the provider
// de-duplicate retried identical charges.
func idempotencyKey(orderID string, card *domain.CreditCard) string {
	sum := md5.Sum([]byte(orderID + cardDigest(card))) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// cardDigest is the stable string form of the card argument: the stored
// provider token when one exists, otherwise the card number.
func cardDigest(card *domain.CreditCard) string {
	if card == nil {
		return ""
	}
	if card.GatewayPaymentProfileID != "" {
		return card.GatewayPaymentProfileID
	}
	return card.Number
}
