// Package gateway adapts the host payment subsystem's operation set onto an
// external charge-processing client. It builds provider options from host
// payment, order and address data, delegates every call to the injected
// billing client and hands the client's response back unchanged; the host
// branches on success. The adapter keeps no state, performs no retries and
// classifies no errors.
package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/commercekit/stripe-gateway/billing"
	"github.com/commercekit/stripe-gateway/domain"
)

// ErrorReporter is the host's payment-error reporting path. CreateProfile
// forwards declined store calls here instead of returning them because it has
// no response contract with its caller.
type ErrorReporter interface {
	GatewayError(ctx context.Context, payment *domain.Payment, resp billing.Response)
}

// LogReporter is the default ErrorReporter; it records the failure and leaves
// user-facing messaging to the host.
type LogReporter struct {
	Logger *slog.Logger
}

func (r LogReporter) GatewayError(ctx context.Context, payment *domain.Payment, resp billing.Response) {
	r.Logger.Error("profile creation failed",
		"reference", payment.ReferenceNumber,
		"message", resp.Message(),
	)
}

// Gateway is the payment-gateway adapter. It is safe for concurrent use: all
// per-call state lives in the options bags built fresh for each request.
type Gateway struct {
	client   billing.Client
	settings *Settings
	reporter ErrorReporter
	logger   *slog.Logger
}

func New(client billing.Client, settings *Settings, reporter ErrorReporter, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	if reporter == nil {
		reporter = LogReporter{Logger: logger}
	}
	return &Gateway{
		client:   client,
		settings: settings,
		reporter: reporter,
		logger:   logger,
	}
}

// Settings exposes the resolved credential/mode accessors to the host.
func (g *Gateway) Settings() *Settings {
	return g.settings
}

// PaymentProfilesSupported reports that the gateway can store reusable
// tokenized customer references.
func (g *Gateway) PaymentProfilesSupported() bool {
	return true
}

// Purchase charges the card in one step. Amount is in minor units.
func (g *Gateway) Purchase(ctx context.Context, amount int64, card *domain.CreditCard, gctx ChargeContext) (billing.Response, error) {
	source, opts := chargeArguments(card, gctx)
	g.logger.Debug("purchase", "amount", amount, "order_id", gctx.OrderID)
	return g.client.Purchase(ctx, amount, source, opts)
}

// Authorize places a hold on the card for a later Capture.
func (g *Gateway) Authorize(ctx context.Context, amount int64, card *domain.CreditCard, gctx ChargeContext) (billing.Response, error) {
	source, opts := chargeArguments(card, gctx)
	g.logger.Debug("authorize", "amount", amount, "order_id", gctx.OrderID)
	return g.client.Authorize(ctx, amount, source, opts)
}

// Capture settles a prior authorization. The amount and transaction reference
// pass straight through; no options are built.
func (g *Gateway) Capture(ctx context.Context, amount int64, transactionID string, _ ChargeContext) (billing.Response, error) {
	g.logger.Debug("capture", "amount", amount, "transaction_id", transactionID)
	return g.client.Capture(ctx, amount, transactionID, billing.ChargeOptions{})
}

// Credit refunds part or all of a prior charge. Refunds are keyed only by the
// transaction reference; the card and context arguments belong to the host
// calling convention and are unused.
func (g *Gateway) Credit(ctx context.Context, amount int64, _ *domain.CreditCard, transactionID string, _ ChargeContext) (billing.Response, error) {
	g.logger.Debug("credit", "amount", amount, "transaction_id", transactionID)
	return g.client.Refund(ctx, amount, transactionID, billing.ChargeOptions{})
}

// Void cancels an uncaptured authorization.
func (g *Gateway) Void(ctx context.Context, transactionID string, _ *domain.CreditCard, _ ChargeContext) (billing.Response, error) {
	g.logger.Debug("void", "transaction_id", transactionID)
	return g.client.Void(ctx, transactionID, billing.ChargeOptions{})
}

// Cancel voids a transaction for host call sites that carry no card or
// context.
func (g *Gateway) Cancel(ctx context.Context, transactionID string) (billing.Response, error) {
	g.logger.Debug("cancel", "transaction_id", transactionID)
	return g.client.Void(ctx, transactionID, billing.ChargeOptions{})
}

// CreateProfile stores the payment's source as a reusable customer profile
// with the provider. It is a no-op when the source already carries a customer
// profile id. On success the provider identifiers and the normalized brand
// are written to the in-memory source for the host to persist; on a declined
// store call nothing is mutated and the failure goes to the error reporter.
// The returned error covers transport failures only.
func (g *Gateway) CreateProfile(ctx context.Context, payment *domain.Payment) error {
	source := payment.Source
	if source == nil || source.GatewayCustomerProfileID != "" {
		return nil
	}

	secretKey, err := g.settings.SecretKey(ctx)
	if err != nil {
		return fmt.Errorf("resolve secret key: %w", err)
	}

	opts := billing.StoreOptions{
		Description: nameOnCard(payment),
		Email:       payment.Email,
		Login:       secretKey,
		Address:     addressFor(payment),
	}

	ccType := domain.NormalizeCardType(source.CCType)

	var chargeSource billing.ChargeSource
	if source.Number == "" && source.GatewayPaymentProfileID != "" {
		chargeSource = billing.TokenizedCard{ID: source.GatewayPaymentProfileID}
	} else {
		chargeSource = billing.RawCard{Card: source}
	}

	resp, err := g.client.Store(ctx, chargeSource, opts)
	if err != nil {
		return fmt.Errorf("store payment source: %w", err)
	}

	if !resp.Success() {
		g.reporter.GatewayError(ctx, payment, resp)
		return nil
	}

	profileID := resp.Param(billing.ParamDefaultSource)
	if profileID == "" {
		profileID = resp.Param(billing.ParamDefaultCard)
	}

	source.CCType = ccType
	source.GatewayCustomerProfileID = resp.Param(billing.ParamID)
	source.GatewayPaymentProfileID = profileID

	g.logger.Info("customer profile created",
		"customer_profile_id", source.GatewayCustomerProfileID,
		"payment_profile_id", source.GatewayPaymentProfileID,
	)
	return nil
}

func nameOnCard(payment *domain.Payment) string {
	if payment.Manual {
		return payment.Source.Name
	}
	return payment.Order.BillAddress.FullName
}

// addressFor builds the address options sent with a store call. Manual
// payments carry their own address fields; order-linked payments use the
// order's billing address, with country and state included only when set.
func addressFor(payment *domain.Payment) *billing.Address {
	if payment.Manual {
		return &billing.Address{
			Address1: payment.AddressLine1,
			Zip:      payment.PostalCode,
		}
	}

	address := payment.Order.BillAddress
	out := &billing.Address{
		Address1: address.Address1,
		Address2: address.Address2,
		City:     address.City,
		Zip:      address.Zipcode,
	}
	if address.Country != nil {
		out.Country = address.Country.Name
	}
	if address.State != nil {
		out.State = address.State.Name
	}
	return out
}
