package mollie

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	domain "github.com/mohammadpnp/mollie-import/internal/domain/billing"
)

type listEnvelope struct {
	Embedded map[string]json.RawMessage `json:"_embedded"`
	Links    struct {
		Next *struct {
			Href string `json:"href"`
		} `json:"next"`
	} `json:"_links"`
}

type customerResource struct {
	ID string `json:"id"`
}

type subscriptionResource struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount struct {
		Value    string `json:"value"`
		Currency string `json:"currency"`
	} `json:"amount"`
	Interval    string `json:"interval"`
	StartDate   string `json:"startDate"`
	Description string `json:"description"`
	CustomerID  string `json:"customerId"`
}

// ListSubscriptions walks every customer and collects each customer's
// subscriptions, following pagination links until exhausted. A customer whose
// subscription page cannot be fetched is logged and skipped; the listing
// keeps going.
func (c *Client) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	customers, err := c.collectPages(ctx, c.baseURL+"/customers", "customers")
	if err != nil {
		return nil, fmt.Errorf("fetch customers: %w", err)
	}

	var subscriptions []domain.Subscription
	for _, raw := range customers {
		var customer customerResource
		if err := json.Unmarshal(raw, &customer); err != nil || customer.ID == "" {
			continue
		}

		pages, err := c.collectPages(ctx, c.baseURL+"/customers/"+customer.ID+"/subscriptions", "subscriptions")
		if err != nil {
			c.log.Warn("failed to fetch subscriptions for customer", "customer_id", customer.ID, "error", err)
			continue
		}

		for _, rawSub := range pages {
			var sub subscriptionResource
			if err := json.Unmarshal(rawSub, &sub); err != nil {
				continue
			}
			customerID := sub.CustomerID
			if customerID == "" {
				customerID = customer.ID
			}
			subscriptions = append(subscriptions, domain.Subscription{
				ID:          sub.ID,
				CustomerID:  customerID,
				Status:      sub.Status,
				Amount:      sub.Amount.Value,
				Currency:    sub.Amount.Currency,
				Interval:    sub.Interval,
				StartDate:   sub.StartDate,
				Description: sub.Description,
			})
		}
	}

	return subscriptions, nil
}

// collectPages follows _links.next until the collection is exhausted and
// returns the raw items under _embedded.<collection>.
func (c *Client) collectPages(ctx context.Context, url, collection string) ([]json.RawMessage, error) {
	var items []json.RawMessage

	next := url
	for next != "" {
		envelope, err := c.getJSON(ctx, next)
		if err != nil {
			return nil, err
		}

		if raw, ok := envelope.Embedded[collection]; ok {
			var page []json.RawMessage
			if err := json.Unmarshal(raw, &page); err != nil {
				return nil, fmt.Errorf("decode %s page: %w", collection, err)
			}
			items = append(items, page...)
		}

		next = ""
		if envelope.Links.Next != nil {
			next = envelope.Links.Next.Href
		}
	}

	return items, nil
}

func (c *Client) getJSON(ctx context.Context, url string) (listEnvelope, error) {
	var envelope listEnvelope

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return envelope, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return envelope, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope, fmt.Errorf("read response from %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		return envelope, c.errorFromResponse(resp, body)
	}

	if err := json.Unmarshal(body, &envelope); err != nil {
		return envelope, fmt.Errorf("decode response from %s: %w", url, err)
	}
	return envelope, nil
}
