package billing

import (
	"context"
	"fmt"

	domain "github.com/mohammadpnp/mollie-import/internal/domain/billing"
)

type ListSubscriptionsOutput struct {
	Subscriptions []domain.Subscription `json:"subscriptions"`
	Count         int                   `json:"count"`
}

type ListSubscriptions interface {
	Execute(ctx context.Context) (ListSubscriptionsOutput, error)
}

type subscriptionLister interface {
	ListSubscriptions(ctx context.Context) ([]domain.Subscription, error)
}

type listSubscriptions struct {
	lister subscriptionLister
	log    Logger
}

func NewListSubscriptions(lister subscriptionLister, logger Logger) ListSubscriptions {
	if logger == nil {
		logger = NopLogger()
	}
	return &listSubscriptions{lister: lister, log: logger}
}

func (uc *listSubscriptions) Execute(ctx context.Context) (ListSubscriptionsOutput, error) {
	subscriptions, err := uc.lister.ListSubscriptions(ctx)
	if err != nil {
		return ListSubscriptionsOutput{}, fmt.Errorf("%w: %v", ErrListSubscriptions, err)
	}

	uc.log.Info("fetched subscriptions", "count", len(subscriptions))
	return ListSubscriptionsOutput{
		Subscriptions: subscriptions,
		Count:         len(subscriptions),
	}, nil
}
