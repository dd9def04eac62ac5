package payments

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/refund"
)

// receiptMetadataKey carries our order receipt through Stripe metadata.
const receiptMetadataKey = "receipt"

type stripeProcessor struct{}

// NewStripe returns a Processor over the Stripe API. stripe.Key must be set
// before the first call.
func NewStripe() Processor {
	return &stripeProcessor{}
}

func (s *stripeProcessor) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	params.AddMetadata(receiptMetadataKey, receipt)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}
	return &Order{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

func (s *stripeProcessor) VerifyPayment(ctx context.Context, orderID string) (*Payment, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(orderID, params)
	if err != nil {
		return nil, err
	}
	return &Payment{
		Paid:     pi.Status == stripe.PaymentIntentStatusSucceeded,
		Amount:   pi.Amount,
		Currency: string(pi.Currency),
	}, nil
}

func (s *stripeProcessor) Refund(ctx context.Context, orderID string) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(orderID),
	}
	params.Context = ctx

	_, err := refund.New(params)
	return err
}
