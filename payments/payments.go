package payments

import "context"

// Order is a created payment order awaiting client-side confirmation. ID is
// the processor's handle and is what the client reports back for
// verification.
type Order struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// Payment is the settled state of an order as reported by the processor.
// Amount is what was actually charged, not what the caller claims.
type Payment struct {
	Paid     bool
	Amount   int64
	Currency string
}

// Processor abstracts the payment gateway so the boost purchase flow is not
// tied to a single provider.
type Processor interface {
	// CreateOrder opens a payment for the given amount in the smallest
	// currency unit. The receipt string is attached to the processor's
	// metadata for reconciliation.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)

	// VerifyPayment returns the settled state of the order, including the
	// charged amount so callers can bind the payment to what was bought.
	VerifyPayment(ctx context.Context, orderID string) (*Payment, error)

	// Refund returns the full captured amount for an order.
	Refund(ctx context.Context, orderID string) error
}
