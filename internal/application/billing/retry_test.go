package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	app "github.com/mohammadpnp/mollie-import/internal/application/billing"
	domain "github.com/mohammadpnp/mollie-import/internal/domain/billing"
)

type stubAPIError struct {
	transient bool
	hint      time.Duration
	hasHint   bool
}

func (e *stubAPIError) Error() string { return "stub failure" }

func (e *stubAPIError) RetryAfterHint() (time.Duration, bool) {
	return e.hint, e.hasHint
}

func classifyStub(err error) app.FailureClass {
	var stub *stubAPIError
	if errors.As(err, &stub) && stub.transient {
		return app.ClassTransient
	}
	return app.ClassPermanent
}

func zeroDelay(int) time.Duration { return 0 }

var retryKey = domain.DeriveKey(domain.KindCustomer, "retry@example.com")

func TestRetrierExhaustsTransientFailures(t *testing.T) {
	t.Parallel()

	attempts := 0
	retrier := app.NewRetrier(5, zeroDelay, classifyStub)

	result := retrier.Execute(context.Background(), retryKey, func(ctx context.Context) (string, error) {
		attempts++
		return "", &stubAPIError{transient: true}
	})

	if attempts != 5 {
		t.Fatalf("expected exactly 5 attempts, got %d", attempts)
	}
	if result.State != domain.StepFailed {
		t.Fatalf("expected failed result, got state %d", result.State)
	}
	if result.Kind != domain.FailureTransientExhausted {
		t.Fatalf("expected transient-exhausted, got %s", result.Kind)
	}
	if result.Key.Digest != retryKey.Digest {
		t.Fatal("expected the idempotency key to be preserved on the result")
	}
}

func TestRetrierPermanentFailureNoRetry(t *testing.T) {
	t.Parallel()

	attempts := 0
	retrier := app.NewRetrier(5, zeroDelay, classifyStub)

	result := retrier.Execute(context.Background(), retryKey, func(ctx context.Context) (string, error) {
		attempts++
		return "", &stubAPIError{transient: false}
	})

	if attempts != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", attempts)
	}
	if result.Kind != domain.FailurePermanent {
		t.Fatalf("expected permanent failure, got %s", result.Kind)
	}
}

func TestRetrierSucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	attempts := 0
	retrier := app.NewRetrier(5, zeroDelay, classifyStub)

	result := retrier.Execute(context.Background(), retryKey, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", &stubAPIError{transient: true}
		}
		return "cst_recovered", nil
	})

	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if !result.Succeeded() {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.ResourceID != "cst_recovered" {
		t.Fatalf("unexpected resource id: %s", result.ResourceID)
	}
}

func TestRetrierHonorsRetryAfterHint(t *testing.T) {
	t.Parallel()

	scheduleCalls := 0
	schedule := func(attempt int) time.Duration {
		scheduleCalls++
		return 0
	}

	attempts := 0
	retrier := app.NewRetrier(3, schedule, classifyStub)
	retrier.Execute(context.Background(), retryKey, func(ctx context.Context) (string, error) {
		attempts++
		return "", &stubAPIError{transient: true, hasHint: true, hint: 0}
	})

	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if scheduleCalls != 0 {
		t.Fatalf("expected hint to bypass the schedule, got %d schedule calls", scheduleCalls)
	}
}

func TestRetrierStopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	retrier := app.NewRetrier(5, zeroDelay, classifyStub)
	result := retrier.Execute(ctx, retryKey, func(ctx context.Context) (string, error) {
		attempts++
		return "", &stubAPIError{transient: true}
	})

	if attempts != 1 {
		t.Fatalf("expected 1 attempt after cancellation, got %d", attempts)
	}
	if result.Kind != domain.FailureTransientExhausted {
		t.Fatalf("expected transient-exhausted, got %s", result.Kind)
	}
}

func TestDoublingBackoff(t *testing.T) {
	t.Parallel()

	schedule := app.DoublingBackoff(time.Second)

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	for i, expected := range want {
		if got := schedule(i + 1); got != expected {
			t.Fatalf("attempt %d: expected %s, got %s", i+1, expected, got)
		}
	}
}
