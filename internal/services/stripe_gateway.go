package services

import (
	"context"
	"math"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// CreateIntentParams carries dollar amounts; the gateway owns the single
// conversion to Stripe's minor units.
type CreateIntentParams struct {
	Amount               float64
	ApplicationFee       float64
	DestinationAccountID string
	Metadata             map[string]string
}

// PaymentIntentGateway wraps the Stripe PaymentIntent API in manual-capture
// mode with an application fee and a destination transfer to the host's
// connected account. No other component may create a PaymentIntent.
type PaymentIntentGateway interface {
	CreatePaymentIntent(ctx context.Context, params CreateIntentParams) (*stripe.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, id string) error
}

type stripeGateway struct{}

func NewStripeGateway(secretKey string) PaymentIntentGateway {
	stripe.Key = secretKey
	return &stripeGateway{}
}

func (g *stripeGateway) CreatePaymentIntent(ctx context.Context, p CreateIntentParams) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:               stripe.Int64(toCents(p.Amount)),
		Currency:             stripe.String(string(stripe.CurrencyUSD)),
		CaptureMethod:        stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		ApplicationFeeAmount: stripe.Int64(toCents(p.ApplicationFee)),
		TransferData: &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(p.DestinationAccountID),
		},
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: p.Metadata,
	}
	params.Params.Context = ctx
	params.SetIdempotencyKey(uuid.New().String())

	return paymentintent.New(params)
}

func (g *stripeGateway) GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Params.Context = ctx
	return paymentintent.Get(id, params)
}

func (g *stripeGateway) CancelPaymentIntent(ctx context.Context, id string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Params.Context = ctx
	_, err := paymentintent.Cancel(id, params)
	return err
}

func toCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}
