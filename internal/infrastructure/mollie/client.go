package mollie

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	domain "github.com/mohammadpnp/mollie-import/internal/domain/billing"
)

const DefaultBaseURL = "https://api.mollie.com/v2"

// Logger is the minimal sink the client reports dry-run and pagination
// progress through.
type Logger interface {
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
}

type Config struct {
	APIKey     string
	BaseURL    string
	DryRun     bool
	HTTPClient *http.Client
	Logger     Logger
}

// Client is the Mollie v2 adapter behind the ResourceAPI port. In dry-run
// mode no POST leaves the process; deterministic fake ids derived from the
// idempotency key let the rest of the pipeline proceed.
type Client struct {
	apiKey  string
	baseURL string
	dryRun  bool
	http    *http.Client
	log     Logger
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		dryRun:  cfg.DryRun,
		http:    cfg.HTTPClient,
		log:     cfg.Logger,
	}
}

type nopLogger struct{}

func (nopLogger) Info(msg interface{}, keyvals ...interface{}) {}
func (nopLogger) Warn(msg interface{}, keyvals ...interface{}) {}

// APIError is a non-2xx Mollie response. Status 429 and 5xx are transient;
// everything else is permanent.
type APIError struct {
	Status     int
	Detail     string
	RetryAfter time.Duration
	hasHint    bool
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("mollie: status %d", e.Status)
	}
	return fmt.Sprintf("mollie: status %d: %s", e.Status, e.Detail)
}

func (e *APIError) Transient() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// RetryAfterHint reports the server's Retry-After delay, when one was sent.
func (e *APIError) RetryAfterHint() (time.Duration, bool) {
	return e.RetryAfter, e.hasHint
}

// IsTransient classifies an outbound-call error. Transport-level failures
// (timeouts, connection resets) are retried like the 5xx family.
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	return true
}

type customerMetadata struct {
	CustomerReference string `json:"customer_reference"`
}

type customerPayload struct {
	Email    string            `json:"email"`
	Name     string            `json:"name"`
	Metadata *customerMetadata `json:"metadata,omitempty"`
}

type mandatePayload struct {
	Method           string `json:"method"`
	ConsumerName     string `json:"consumerName"`
	ConsumerAccount  string `json:"consumerAccount"`
	MandateReference string `json:"mandateReference"`
	SignatureDate    string `json:"signatureDate"`
}

type amountPayload struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type subscriptionPayload struct {
	Amount      amountPayload `json:"amount"`
	Interval    string        `json:"interval"`
	Description string        `json:"description"`
	StartDate   string        `json:"startDate"`
}

func (c *Client) CreateCustomer(ctx context.Context, req domain.CustomerRequest, key domain.IdempotencyKey) (string, error) {
	payload := customerPayload{Email: req.Email, Name: req.Name}
	if req.CustomerReference != "" {
		payload.Metadata = &customerMetadata{CustomerReference: req.CustomerReference}
	}
	return c.postResource(ctx, "/customers", payload, key, "cst")
}

func (c *Client) ImportMandate(ctx context.Context, req domain.MandateRequest, key domain.IdempotencyKey) (string, error) {
	payload := mandatePayload{
		Method:           "directdebit",
		ConsumerName:     req.AccountHolder,
		ConsumerAccount:  req.IBAN,
		MandateReference: req.MandateReference,
		SignatureDate:    req.SignatureDate.Format("2006-01-02"),
	}
	return c.postResource(ctx, "/customers/"+req.CustomerID+"/mandates", payload, key, "mdt")
}

func (c *Client) CreateSubscription(ctx context.Context, req domain.SubscriptionRequest, key domain.IdempotencyKey) (string, error) {
	payload := subscriptionPayload{
		Amount:      amountPayload{Value: req.AmountValue, Currency: req.Currency},
		Interval:    req.Interval,
		Description: req.Description,
		StartDate:   req.StartDate.Format("2006-01-02"),
	}
	return c.postResource(ctx, "/customers/"+req.CustomerID+"/subscriptions", payload, key, "sub")
}

func (c *Client) postResource(ctx context.Context, path string, payload any, key domain.IdempotencyKey, idPrefix string) (string, error) {
	url := c.baseURL + path

	if c.dryRun {
		fakeID := idPrefix + "_" + key.Digest[:12]
		c.log.Info("dry-run, skipping POST", "url", url, "idempotency_key", key.Digest, "fake_id", fakeID)
		return fakeID, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &APIError{Status: http.StatusBadRequest, Detail: fmt.Sprintf("encode payload: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &APIError{Status: http.StatusBadRequest, Detail: fmt.Sprintf("build request: %v", err)}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", key.Digest)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response from %s: %w", url, err)
	}

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		var created struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(respBody, &created); err != nil || created.ID == "" {
			return "", &APIError{Status: http.StatusOK, Detail: "response missing resource id"}
		}
		return created.ID, nil
	}

	return "", c.errorFromResponse(resp, respBody)
}

func (c *Client) errorFromResponse(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &problem); err == nil {
		apiErr.Detail = problem.Detail
		if apiErr.Detail == "" {
			apiErr.Detail = problem.Title
		}
	}

	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
			apiErr.RetryAfter = time.Duration(seconds) * time.Second
			apiErr.hasHint = true
		}
	}

	return apiErr
}
