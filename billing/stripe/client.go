// Package stripe implements the billing capability set on top of the Stripe
// API. Transport, retries and tokenization live inside stripe-go; this
// package only maps the billing vocabulary onto Stripe calls.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/paymentmethod"
	"github.com/stripe/stripe-go/v82/refund"

	"github.com/commercekit/stripe-gateway/billing"
)

// Client is a billing.Client backed by Stripe PaymentIntents and Customers.
type Client struct {
	logger *slog.Logger
}

// NewClient configures the Stripe SDK with the server-side key and returns a
// ready client. The key is process-wide; one Stripe account per process.
func NewClient(secretKey string, logger *slog.Logger) (*Client, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	stripe.Key = secretKey

	return &Client{logger: logger}, nil
}

// Purchase creates and confirms a PaymentIntent that captures immediately.
func (c *Client) Purchase(ctx context.Context, amount int64, source billing.ChargeSource, opts billing.ChargeOptions) (billing.Response, error) {
	return c.charge(ctx, amount, source, opts, false)
}

// Authorize creates and confirms a PaymentIntent with manual capture, holding
// the funds for a later Capture call.
func (c *Client) Authorize(ctx context.Context, amount int64, source billing.ChargeSource, opts billing.ChargeOptions) (billing.Response, error) {
	return c.charge(ctx, amount, source, opts, true)
}

func (c *Client) charge(ctx context.Context, amount int64, source billing.ChargeSource, opts billing.ChargeOptions, authorizeOnly bool) (billing.Response, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(strings.ToLower(opts.Currency)),
		Confirm:  stripe.Bool(true),
	}
	params.Context = ctx

	if authorizeOnly {
		params.CaptureMethod = stripe.String(string(stripe.PaymentIntentCaptureMethodManual))
	}
	if opts.Description != "" {
		params.Description = stripe.String(opts.Description)
	}
	if opts.Customer != "" {
		params.Customer = stripe.String(opts.Customer)
	}
	if opts.IdempotencyKey != "" {
		params.SetIdempotencyKey(opts.IdempotencyKey)
	}
	for k, v := range opts.Metadata {
		params.AddMetadata(k, v)
	}

	pm, err := c.paymentMethodID(ctx, source)
	if err != nil {
		return failureResponse(err)
	}
	params.PaymentMethod = stripe.String(pm)

	pi, err := paymentintent.New(params)
	if err != nil {
		return failureResponse(err)
	}

	c.logger.Debug("payment intent created",
		"id", pi.ID,
		"status", pi.Status,
		"capture_method", pi.CaptureMethod,
	)
	return paymentIntentResponse(pi), nil
}

// Capture settles a previously authorized PaymentIntent.
func (c *Client) Capture(ctx context.Context, amount int64, transactionID string, opts billing.ChargeOptions) (billing.Response, error) {
	params := &stripe.PaymentIntentCaptureParams{
		AmountToCapture: stripe.Int64(amount),
	}
	params.Context = ctx
	if opts.IdempotencyKey != "" {
		params.SetIdempotencyKey(opts.IdempotencyKey)
	}

	pi, err := paymentintent.Capture(transactionID, params)
	if err != nil {
		return failureResponse(err)
	}
	return paymentIntentResponse(pi), nil
}

// Refund returns funds from a captured PaymentIntent.
func (c *Client) Refund(ctx context.Context, amount int64, transactionID string, opts billing.ChargeOptions) (billing.Response, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(transactionID),
		Amount:        stripe.Int64(amount),
	}
	params.Context = ctx
	if opts.IdempotencyKey != "" {
		params.SetIdempotencyKey(opts.IdempotencyKey)
	}

	re, err := refund.New(params)
	if err != nil {
		return failureResponse(err)
	}
	return refundResponse(re), nil
}

// Void cancels an uncaptured PaymentIntent.
func (c *Client) Void(ctx context.Context, transactionID string, opts billing.ChargeOptions) (billing.Response, error) {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	pi, err := paymentintent.Cancel(transactionID, params)
	if err != nil {
		return failureResponse(err)
	}
	return cancelResponse(pi), nil
}

// Store creates a Stripe Customer, attaches the card as its default payment
// method and reports the customer and payment-method identifiers back.
func (c *Client) Store(ctx context.Context, source billing.ChargeSource, opts billing.StoreOptions) (billing.Response, error) {
	pm, err := c.paymentMethodID(ctx, source)
	if err != nil {
		return failureResponse(err)
	}

	params := &stripe.CustomerParams{}
	params.Context = ctx
	if opts.Description != "" {
		params.Description = stripe.String(opts.Description)
	}
	if opts.Email != "" {
		params.Email = stripe.String(opts.Email)
	}
	if a := opts.Address; a != nil {
		params.Address = addressParams(a)
	}

	cus, err := customer.New(params)
	if err != nil {
		return failureResponse(err)
	}

	attachParams := &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(cus.ID),
	}
	attachParams.Context = ctx
	attached, err := paymentmethod.Attach(pm, attachParams)
	if err != nil {
		return failureResponse(err)
	}

	update := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(attached.ID),
		},
	}
	update.Context = ctx
	if _, err := customer.Update(cus.ID, update); err != nil {
		return failureResponse(err)
	}

	c.logger.Debug("customer profile stored", "customer", cus.ID, "payment_method", attached.ID)

	return storeResponse(cus.ID, attached.ID), nil
}

// paymentMethodID resolves a charge source to a Stripe payment-method id.
// Tokens pass through; raw cards are tokenized through the PaymentMethods API
// so no card data rides on the charge call itself.
func (c *Client) paymentMethodID(ctx context.Context, source billing.ChargeSource) (string, error) {
	switch s := source.(type) {
	case billing.TokenizedCard:
		return s.ID, nil
	case billing.RawCard:
		if s.Card == nil {
			return "", errors.New("raw card source has no card")
		}
		params := &stripe.PaymentMethodParams{
			Type: stripe.String("card"),
			Card: &stripe.PaymentMethodCardParams{
				Number:   stripe.String(s.Card.Number),
				ExpMonth: stripe.Int64(s.Card.ExpMonth),
				ExpYear:  stripe.Int64(s.Card.ExpYear),
			},
		}
		if s.Card.VerificationValue != "" {
			params.Card.CVC = stripe.String(s.Card.VerificationValue)
		}
		params.Context = ctx

		pm, err := paymentmethod.New(params)
		if err != nil {
			return "", fmt.Errorf("failed to create payment method: %w", err)
		}
		return pm.ID, nil
	default:
		return "", fmt.Errorf("unsupported charge source %T", source)
	}
}

func addressParams(a *billing.Address) *stripe.AddressParams {
	params := &stripe.AddressParams{}
	if a.Address1 != "" {
		params.Line1 = stripe.String(a.Address1)
	}
	if a.Address2 != "" {
		params.Line2 = stripe.String(a.Address2)
	}
	if a.City != "" {
		params.City = stripe.String(a.City)
	}
	if a.Zip != "" {
		params.PostalCode = stripe.String(a.Zip)
	}
	if a.State != "" {
		params.State = stripe.String(a.State)
	}
	if a.Country != "" {
		params.Country = stripe.String(a.Country)
	}
	return params
}
