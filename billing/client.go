// Package billing defines the charge-processing capability set the gateway
// adapter consumes. A concrete client wraps a provider SDK; the adapter and
// the host only ever see these interfaces.
package billing

import (
	"context"

	"github.com/commercekit/stripe-gateway/domain"
)

// Response parameter names read after a store call.
const (
	ParamID            = "id"
	ParamDefaultSource = "default_source"
	ParamDefaultCard   = "default_card"
)

// Response is the narrow view of a provider response the adapter and host
// depend on. The host branches on Success; the adapter reads Param only after
// a store call.
type Response interface {
	Success() bool

	// Authorization is the provider transaction reference for the call. The
	// host persists it as the response code for later capture/refund/void.
	Authorization() string

	// Param returns a named response parameter, or "" when absent.
	Param(name string) string

	// Message is the provider's human-readable detail, set on failure.
	Message() string
}

// ChargeSource is the card argument sent to the provider: either the raw
// stored card or a provider token standing in for it. The provider accepts
// one or the other, never both, so the variant is resolved once at the call
// boundary instead of inspecting optional fields downstream.
type ChargeSource interface {
	isChargeSource()
}

// RawCard sends the full stored card.
type RawCard struct {
	Card *domain.CreditCard
}

// TokenizedCard sends a provider payment-profile token in place of the card.
type TokenizedCard struct {
	ID string
}

func (RawCard) isChargeSource()       {}
func (TokenizedCard) isChargeSource() {}

// Address carries the billing address sent with a store call. Empty fields
// are omitted from the outgoing request.
type Address struct {
	Address1 string
	Address2 string
	City     string
	Zip      string
	State    string
	Country  string
}

// ChargeOptions is the per-call options bag for purchase and authorize. Built
// fresh for every request, never shared across calls.
type ChargeOptions struct {
	Description    string
	Currency       string
	IdempotencyKey string
	Customer       string
	Metadata       map[string]string
}

// StoreOptions describes a customer-profile creation. Login is the resolved
// server-side credential for clients that authenticate per call.
type StoreOptions struct {
	Description string
	Email       string
	Login       string
	Address     *Address
}

// Client is the synchronous capability set of the external charge processor.
// Every call is one blocking request/response; cancellation and timeouts ride
// on the context.
type Client interface {
	Purchase(ctx context.Context, amount int64, source ChargeSource, opts ChargeOptions) (Response, error)
	Authorize(ctx context.Context, amount int64, source ChargeSource, opts ChargeOptions) (Response, error)
	Capture(ctx context.Context, amount int64, transactionID string, opts ChargeOptions) (Response, error)
	Refund(ctx context.Context, amount int64, transactionID string, opts ChargeOptions) (Response, error)
	Void(ctx context.Context, transactionID string, opts ChargeOptions) (Response, error)
	Store(ctx context.Context, source ChargeSource, opts StoreOptions) (Response, error)
}
