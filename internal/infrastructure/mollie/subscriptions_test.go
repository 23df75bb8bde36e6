package mollie_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mohammadpnp/mollie-import/internal/infrastructure/mollie"
)

func TestListSubscriptionsFollowsPagination(t *testing.T) {
	t.Parallel()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/customers" && r.URL.Query().Get("from") == "":
			fmt.Fprintf(w, `{
				"_embedded": {"customers": [{"id": "cst_1"}]},
				"_links": {"next": {"href": "%s/customers?from=cst_2"}}
			}`, server.URL)
		case r.URL.Path == "/customers":
			fmt.Fprint(w, `{"_embedded": {"customers": [{"id": "cst_2"}]}, "_links": {}}`)
		case r.URL.Path == "/customers/cst_1/subscriptions":
			fmt.Fprint(w, `{
				"_embedded": {"subscriptions": [
					{"id": "sub_1", "customerId": "cst_1", "status": "active",
					 "amount": {"value": "12.50", "currency": "EUR"},
					 "interval": "1 year", "startDate": "2027-01-06"}
				]},
				"_links": {}
			}`)
		case r.URL.Path == "/customers/cst_2/subscriptions":
			fmt.Fprint(w, `{"_embedded": {"subscriptions": [{"id": "sub_2"}]}, "_links": {}}`)
		default:
			t.Errorf("unexpected request: %s", r.URL.String())
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := mollie.NewClient(mollie.Config{APIKey: "test_key", BaseURL: server.URL})

	subscriptions, err := client.ListSubscriptions(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(subscriptions) != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", len(subscriptions))
	}
	if subscriptions[0].ID != "sub_1" || subscriptions[0].Amount != "12.50" || subscriptions[0].Interval != "1 year" {
		t.Fatalf("unexpected subscription: %+v", subscriptions[0])
	}
	if subscriptions[1].CustomerID != "cst_2" {
		t.Fatalf("expected owning customer id fallback, got %+v", subscriptions[1])
	}
}

func TestListSubscriptionsSkipsFailingCustomer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/customers":
			fmt.Fprint(w, `{"_embedded": {"customers": [{"id": "cst_bad"}, {"id": "cst_ok"}]}, "_links": {}}`)
		case "/customers/cst_bad/subscriptions":
			w.WriteHeader(http.StatusInternalServerError)
		case "/customers/cst_ok/subscriptions":
			fmt.Fprint(w, `{"_embedded": {"subscriptions": [{"id": "sub_ok"}]}, "_links": {}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := mollie.NewClient(mollie.Config{APIKey: "test_key", BaseURL: server.URL})

	subscriptions, err := client.ListSubscriptions(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(subscriptions) != 1 || subscriptions[0].ID != "sub_ok" {
		t.Fatalf("expected only the healthy customer's subscriptions, got %+v", subscriptions)
	}
}

func TestListSubscriptionsCustomerFetchError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := mollie.NewClient(mollie.Config{APIKey: "bad_key", BaseURL: server.URL})

	_, err := client.ListSubscriptions(context.Background())
	if err == nil {
		t.Fatal("expected error when the customer listing fails")
	}
}
