package billing

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// KeyKind names the creation step an idempotency key belongs to. The kind is
// the first segment of the canonical source string, so keys for different
// steps can never collide even when their fields match.
type KeyKind string

const (
	KindCustomer     KeyKind = "customer"
	KindMandate      KeyKind = "mandate"
	KindSubscription KeyKind = "subscription"
)

// IdempotencyKey is a deterministic token for one creation request. Digest is
// what goes on the wire; Source is the human-readable string it was derived
// from, retained for the results file and audit logging.
type IdempotencyKey struct {
	Source string
	Digest string
}

func (k IdempotencyKey) IsZero() bool {
	return k.Digest == ""
}

// DeriveKey builds the canonical pipe-delimited source string for a creation
// step and hashes it. It is a pure function of its arguments: no clocks, no
// random values, no state. Re-running an import therefore reproduces the
// same key bit for bit, which is the entire duplicate-prevention guarantee.
func DeriveKey(kind KeyKind, parts ...string) IdempotencyKey {
	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, string(kind))
	segments = append(segments, parts...)

	source := strings.Join(segments, "|")
	sum := sha256.Sum256([]byte(source))

	return IdempotencyKey{
		Source: source,
		Digest: hex.EncodeToString(sum[:]),
	}
}

// CustomerKey derives the key for creating the row's customer.
func CustomerKey(row ImportRow) IdempotencyKey {
	return DeriveKey(KindCustomer, row.Email)
}

// MandateKey derives the key for importing a mandate. It binds to the
// provider-assigned customer id rather than the row's own fields, coupling
// the mandate to the customer that was actually created.
func MandateKey(customerID string, row ImportRow) IdempotencyKey {
	return DeriveKey(KindMandate, customerID, row.MandateReference)
}

// SubscriptionKey derives the key for creating a subscription. The computed
// billing date is part of the key, so two plans differing only in start date
// are never treated as the same request.
func SubscriptionKey(customerID string, row ImportRow, billingDate time.Time) IdempotencyKey {
	return DeriveKey(KindSubscription, customerID, row.AmountValue(), row.Interval, billingDate.Format("2006-01-02"))
}
