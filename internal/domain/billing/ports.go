package billing

import (
	"context"
	"time"
)

type CustomerRequest struct {
	Email             string
	Name              string
	CustomerReference string
}

type MandateRequest struct {
	CustomerID       string
	AccountHolder    string
	IBAN             string
	MandateReference string
	SignatureDate    time.Time
}

type SubscriptionRequest struct {
	CustomerID  string
	AmountValue string
	Currency    string
	Interval    string
	StartDate   time.Time
	Description string
}

// RowRecord is one line of the input file after validation: either a row
// ready for import, or the reason it was rejected. Rejected rows still
// surface in the results file, they are never sent to the provider.
type RowRecord struct {
	Line  int
	Email string
	Row   *ImportRow
	Err   string
}

// Subscription is one existing subscription as reported by the provider.
type Subscription struct {
	ID          string `json:"id"`
	CustomerID  string `json:"customer_id"`
	Status      string `json:"status"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Interval    string `json:"interval"`
	StartDate   string `json:"start_date"`
	Description string `json:"description"`
}

// ResourceAPI is the payment-provider boundary. Each call sends the
// idempotency key digest as a request header so the provider can recognize a
// retried attempt of the same logical operation. Failures are reported as
// error values the retry layer classifies into transient or permanent.
type ResourceAPI interface {
	CreateCustomer(ctx context.Context, req CustomerRequest, key IdempotencyKey) (string, error)
	ImportMandate(ctx context.Context, req MandateRequest, key IdempotencyKey) (string, error)
	CreateSubscription(ctx context.Context, req SubscriptionRequest, key IdempotencyKey) (string, error)
}
