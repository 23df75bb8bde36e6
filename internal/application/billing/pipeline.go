package billing

import (
	"context"
	"time"

	domain "github.com/mohammadpnp/mollie-import/internal/domain/billing"
)

// Pipeline processes one validated row against the provider: customer, then
// mandate, then subscription. Later steps depend on earlier results (the
// mandate key binds to the created customer's id, the subscription to the
// computed billing date), so any failure short-circuits the rest of the row.
// Skipped steps stay NotAttempted rather than failed.
type Pipeline struct {
	api   domain.ResourceAPI
	retry *Retrier
	log   Logger
}

func NewPipeline(api domain.ResourceAPI, retry *Retrier, logger Logger) *Pipeline {
	if logger == nil {
		logger = NopLogger()
	}
	return &Pipeline{api: api, retry: retry, log: logger}
}

// ProcessRow runs the three creation steps for a row. It always returns a
// finalized outcome; failures never propagate as errors, so one bad row
// cannot abort the run.
func (p *Pipeline) ProcessRow(ctx context.Context, row domain.ImportRow, today time.Time) domain.RowOutcome {
	outcome := domain.RowOutcome{Email: row.Email, Status: domain.StatusOK}

	customerKey := domain.CustomerKey(row)
	outcome.Customer = p.retry.Execute(ctx, customerKey, func(ctx context.Context) (string, error) {
		return p.api.CreateCustomer(ctx, domain.CustomerRequest{
			Email:             row.Email,
			Name:              row.FullName(),
			CustomerReference: row.CustomerReference,
		}, customerKey)
	})
	if !outcome.Customer.Succeeded() {
		return p.finalize(outcome, outcome.Customer)
	}
	customerID := outcome.Customer.ResourceID
	p.log.Info("created customer", "email", row.Email, "customer_id", customerID)

	mandateKey := domain.MandateKey(customerID, row)
	outcome.Mandate = p.retry.Execute(ctx, mandateKey, func(ctx context.Context) (string, error) {
		return p.api.ImportMandate(ctx, domain.MandateRequest{
			CustomerID:       customerID,
			AccountHolder:    row.FullName(),
			IBAN:             row.IBAN,
			MandateReference: row.MandateReference,
			SignatureDate:    row.SignatureDate,
		}, mandateKey)
	})
	if !outcome.Mandate.Succeeded() {
		return p.finalize(outcome, outcome.Mandate)
	}
	p.log.Info("imported mandate", "email", row.Email, "mandate_id", outcome.Mandate.ResourceID)

	billingDate := domain.NextBillingDate(row.SignatureDate, today)

	subscriptionKey := domain.SubscriptionKey(customerID, row, billingDate)
	outcome.Subscription = p.retry.Execute(ctx, subscriptionKey, func(ctx context.Context) (string, error) {
		return p.api.CreateSubscription(ctx, domain.SubscriptionRequest{
			CustomerID:  customerID,
			AmountValue: row.AmountValue(),
			Currency:    row.Currency,
			Interval:    row.Interval,
			StartDate:   billingDate,
			Description: row.Description,
		}, subscriptionKey)
	})
	if !outcome.Subscription.Succeeded() {
		return p.finalize(outcome, outcome.Subscription)
	}
	p.log.Info("created subscription", "email", row.Email, "subscription_id", outcome.Subscription.ResourceID, "start_date", billingDate.Format("2006-01-02"))

	return outcome
}

func (p *Pipeline) finalize(outcome domain.RowOutcome, failed domain.StepResult) domain.RowOutcome {
	outcome.Status = domain.StatusFailed
	outcome.Err = truncateReason(failed.Message)
	p.log.Error("row failed", "email", outcome.Email, "kind", string(failed.Kind), "reason", outcome.Err)
	return outcome
}
