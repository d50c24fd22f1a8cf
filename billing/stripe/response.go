package stripe

import (
	"errors"

	"github.com/stripe/stripe-go/v82"

	"github.com/commercekit/stripe-gateway/billing"
)

// response is the billing.Response produced by this client. Declines carry
// the Stripe error message and code; the adapter passes them through to the
// host untouched.
type response struct {
	success       bool
	authorization string
	message       string
	params        map[string]string
}

func (r *response) Success() bool { return r.success }

func (r *response) Authorization() string { return r.authorization }

func (r *response) Param(name string) string { return r.params[name] }

func (r *response) Message() string { return r.message }

func paymentIntentResponse(pi *stripe.PaymentIntent) *response {
	success := pi.Status == stripe.PaymentIntentStatusSucceeded ||
		pi.Status == stripe.PaymentIntentStatusRequiresCapture

	message := ""
	if !success {
		message = "payment intent status " + string(pi.Status)
	}

	return &response{
		success:       success,
		authorization: pi.ID,
		message:       message,
		params: map[string]string{
			billing.ParamID: pi.ID,
			"status":        string(pi.Status),
		},
	}
}

func cancelResponse(pi *stripe.PaymentIntent) *response {
	resp := paymentIntentResponse(pi)
	resp.success = pi.Status == stripe.PaymentIntentStatusCanceled
	if resp.success {
		resp.message = ""
	}
	return resp
}

func refundResponse(re *stripe.Refund) *response {
	success := re.Status == stripe.RefundStatusSucceeded ||
		re.Status == stripe.RefundStatusPending

	message := ""
	if !success {
		message = "refund status " + string(re.Status)
	}

	return &response{
		success:       success,
		authorization: re.ID,
		message:       message,
		params: map[string]string{
			billing.ParamID: re.ID,
			"status":        string(re.Status),
		},
	}
}

func storeResponse(customerID, paymentMethodID string) *response {
	return &response{
		success:       true,
		authorization: customerID,
		params: map[string]string{
			billing.ParamID:            customerID,
			billing.ParamDefaultSource: paymentMethodID,
		},
	}
}

// failureResponse turns a Stripe decline into an unsuccessful response the
// host can inspect. Anything that is not a Stripe error (network failure,
// context cancellation) propagates as a plain error.
func failureResponse(err error) (billing.Response, error) {
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		return &response{
			message: sErr.Msg,
			params: map[string]string{
				"code": string(sErr.Code),
			},
		}, nil
	}
	return nil, err
}
