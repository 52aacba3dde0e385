package models

import "errors"

// Sentinel errors shared across services. Handlers translate these to HTTP
// status codes; services wrap them with context via fmt.Errorf and %w.
var (
	// ErrNotFound covers unknown user, achievement, or reward references.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput covers non-positive deltas and unknown categories or
	// timeframes.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is a concurrent-write collision on a per-user record.
	// Retryable: re-read and re-apply.
	ErrConflict = errors.New("record version conflict")

	// ErrStoreUnavailable wraps persistence-layer failures. Retryable with
	// backoff.
	ErrStoreUnavailable = errors.New("store unavailable")

	// Reward claim precondition violations. Never retried.
	ErrNotUnlocked    = errors.New("reward not unlocked")
	ErrAlreadyClaimed = errors.New("reward already claimed")
)

// PartialAggregationError reports a batch computation that completed for
// some users but not all. Callers get the successful subset plus this error
// naming the users that failed; failures are never silently dropped.
type PartialAggregationError struct {
	FailedUserIDs []string
	Cause         error
}

func (e *PartialAggregationError) Error() string {
	if e.Cause == nil {
		return "partial aggregation"
	}
	return "partial aggregation: " + e.Cause.Error()
}

func (e *PartialAggregationError) Unwrap() error {
	return e.Cause
}
