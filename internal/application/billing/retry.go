package billing

import (
	"context"
	"errors"
	"time"

	domain "github.com/mohammadpnp/mollie-import/internal/domain/billing"
)

const defaultMaxAttempts = 5

// FailureClass tells the retrier whether a failed attempt is worth repeating.
type FailureClass int

const (
	ClassTransient FailureClass = iota
	ClassPermanent
)

// Classifier maps an operation error to a failure class.
type Classifier func(error) FailureClass

// BackoffSchedule returns the delay before retrying after the given attempt
// (1-based). Schedules must be monotonically non-decreasing; tests inject a
// zero-delay schedule.
type BackoffSchedule func(attempt int) time.Duration

// DoublingBackoff doubles the base delay on every attempt: base, 2*base,
// 4*base, ...
func DoublingBackoff(base time.Duration) BackoffSchedule {
	return func(attempt int) time.Duration {
		return base << (attempt - 1)
	}
}

// TransientClassifier adapts a provider's transient-error predicate into a
// Classifier.
func TransientClassifier(isTransient func(error) bool) Classifier {
	return func(err error) FailureClass {
		if isTransient(err) {
			return ClassTransient
		}
		return ClassPermanent
	}
}

// Operation is a single idempotent provider call returning a resource id.
type Operation func(ctx context.Context) (string, error)

// retryAfterHinter is implemented by provider errors that carry an explicit
// Retry-After hint; the hint overrides the schedule for that one gap.
type retryAfterHinter interface {
	RetryAfterHint() (time.Duration, bool)
}

// Retrier runs one provider call with retry for transient failures. The
// idempotency key stays constant across every attempt of a single Execute
// call, so the provider can deduplicate retried requests server-side.
// Backoff is a blocking, context-aware suspension (no other work proceeds).
type Retrier struct {
	maxAttempts int
	backoff     BackoffSchedule
	classify    Classifier
}

func NewRetrier(maxAttempts int, backoff BackoffSchedule, classify Classifier) *Retrier {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if backoff == nil {
		backoff = DoublingBackoff(time.Second)
	}
	if classify == nil {
		classify = func(error) FailureClass { return ClassPermanent }
	}
	return &Retrier{maxAttempts: maxAttempts, backoff: backoff, classify: classify}
}

// Execute runs op until it succeeds, fails permanently, or the attempt budget
// is exhausted. The result is always a terminal StepResult, never a raised
// error: row isolation is the caller's concern, not the transport's.
func (r *Retrier) Execute(ctx context.Context, key domain.IdempotencyKey, op Operation) domain.StepResult {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		id, err := op(ctx)
		if err == nil {
			return domain.StepSuccess(id, key)
		}

		if r.classify(err) == ClassPermanent {
			return domain.StepFailure(domain.FailurePermanent, err.Error(), key)
		}

		lastErr = err
		if attempt == r.maxAttempts {
			break
		}

		if !sleepWithContext(ctx, r.delayAfter(err, attempt)) {
			break
		}
	}

	return domain.StepFailure(domain.FailureTransientExhausted, lastErr.Error(), key)
}

func (r *Retrier) delayAfter(err error, attempt int) time.Duration {
	var hinter retryAfterHinter
	if errors.As(err, &hinter) {
		if wait, ok := hinter.RetryAfterHint(); ok {
			return wait
		}
	}
	return r.backoff(attempt)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
