// Package domain holds the host-side payment entities the gateway adapter
// reads and, after a successful profile creation, writes back to. The host
// order/payment subsystem owns and persists all of them.
package domain

// Country is a billing-address country as the host models it.
type Country struct {
	Name string
}

// State is a billing-address state or province.
type State struct {
	Name string
}

// Address is the billing address attached to an order. State and Country are
// optional; a nil pointer means the host has no value for the field.
type Address struct {
	FullName string
	Address1 string
	Address2 string
	City     string
	Zipcode  string
	State    *State
	Country  *Country
}

// Order is the slice of the host order the adapter needs: its number, the
// customer email and the billing address.
type Order struct {
	Number      string
	Email       string
	BillAddress *Address
}

// User is the admin user who entered a manual payment.
type User struct {
	Email string
}

// CreditCard is the stored payment source. GatewayCustomerProfileID and
// GatewayPaymentProfileID hold the provider-side identifiers written back
// after a successful profile creation; Number may be blank when the card only
// exists as a provider token.
type CreditCard struct {
	Name              string
	CCType            string
	Number            string
	ExpMonth          int64
	ExpYear           int64
	VerificationValue string

	GatewayCustomerProfileID string
	GatewayPaymentProfileID  string

	Payments []*Payment
}

// FirstPayment returns the first payment recorded against this card, or nil.
func (c *CreditCard) FirstPayment() *Payment {
	if len(c.Payments) == 0 {
		return nil
	}
	return c.Payments[0]
}

// Payment is one attempted charge. A manual payment is entered out-of-band by
// an administrator and carries its own address fields instead of an order.
type Payment struct {
	Manual          bool
	ReferenceNumber string
	AmountCents     int64
	Email           string
	Source          *CreditCard
	Order           *Order
	User            *User

	AddressLine1 string
	PostalCode   string
}
