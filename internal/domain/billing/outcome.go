package billing

// FailureKind distinguishes a failure that retrying cannot fix from one that
// was retried until the attempt budget ran out.
type FailureKind string

const (
	FailurePermanent          FailureKind = "permanent"
	FailureTransientExhausted FailureKind = "transient-exhausted"
)

// StepState is the three-way status of one creation step. NotAttempted is
// distinct from Failed: a step skipped because an earlier step failed never
// carries an error of its own.
type StepState int

const (
	StepNotAttempted StepState = iota
	StepSucceeded
	StepFailed
)

// StepResult is the outcome of one creation step. Key is zero when the step
// was never attempted.
type StepResult struct {
	State      StepState
	ResourceID string
	Kind       FailureKind
	Message    string
	Key        IdempotencyKey
}

func StepSuccess(id string, key IdempotencyKey) StepResult {
	return StepResult{State: StepSucceeded, ResourceID: id, Key: key}
}

func StepFailure(kind FailureKind, message string, key IdempotencyKey) StepResult {
	return StepResult{State: StepFailed, Kind: kind, Message: message, Key: key}
}

func (r StepResult) Attempted() bool {
	return r.State != StepNotAttempted
}

func (r StepResult) Succeeded() bool {
	return r.State == StepSucceeded
}

type RowStatus string

const (
	StatusOK     RowStatus = "ok"
	StatusFailed RowStatus = "failed"
)

// RowOutcome aggregates the creation results for one input row. Status is ok
// only when all three steps succeeded; Err holds the first failing step's
// message (or the validation message for rows rejected before any API call).
type RowOutcome struct {
	Email        string
	Customer     StepResult
	Mandate      StepResult
	Subscription StepResult
	Status       RowStatus
	Err          string
}

// PreFailedOutcome builds the outcome for a row rejected by input validation:
// no step is attempted and no key is derived.
func PreFailedOutcome(email, reason string) RowOutcome {
	return RowOutcome{
		Email:  email,
		Status: StatusFailed,
		Err:    reason,
	}
}
