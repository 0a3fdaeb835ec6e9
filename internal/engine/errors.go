package engine

import (
	"errors"
	"fmt"
)

// Domain boundary states. These are normal usage limits, not faults; callers
// branch on them with errors.Is.
var (
	// ErrRateLimited means the user hit the trailing-window completion
	// limit. Transient; retry after the window passes.
	ErrRateLimited = errors.New("too many completions in a short window, take a breather")

	// ErrAlreadyCompleted means this exact ritual on this assignment was
	// already recorded. Callers should treat it as success-adjacent.
	ErrAlreadyCompleted = errors.New("ritual already completed for this assignment")

	// ErrCapReached means the daily completion cap has been hit.
	ErrCapReached = errors.New("daily ritual cap reached, come back tomorrow")
)

// ValidationReason identifies which journal threshold failed.
type ValidationReason string

const (
	ReasonTooShort        ValidationReason = "too_short"
	ReasonTooFewSentences ValidationReason = "too_few_sentences"
	ReasonLowVariety      ValidationReason = "low_variety"
	ReasonDwellTooShort   ValidationReason = "dwell_too_short"
	ReasonNearDuplicate   ValidationReason = "near_duplicate"
	ReasonNotMeaningful   ValidationReason = "not_meaningful"
)

// ValidationError reports a failed journal quality check. Message names the
// unmet threshold so the user can correct and resubmit.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("journal rejected (%s): %s", e.Reason, e.Message)
}

// RerollUnavailableError is returned when a reroll is attempted after a
// completion exists today or after the day's reroll was already used.
type RerollUnavailableError struct {
	Reason string
}

func (e RerollUnavailableError) Error() string {
	return "reroll unavailable: " + e.Reason
}

// InvalidReferenceError means the caller referenced an assignment or ritual
// that does not exist (or does not belong to them). Indicates caller desync;
// not retryable without re-fetching state.
type InvalidReferenceError struct {
	Kind string
	ID   string
}

func (e InvalidReferenceError) Error() string {
	return fmt.Sprintf("unknown %s: %s", e.Kind, e.ID)
}

// UnknownStateError wraps a storage failure that may have left a partial
// write behind. Callers should retry with the same (user, assignment,
// ritual) key; the completion uniqueness constraint absorbs the retry.
type UnknownStateError struct {
	Op  string
	Err error
}

func (e UnknownStateError) Error() string {
	return fmt.Sprintf("%s: state unknown after storage failure: %v", e.Op, e.Err)
}

func (e UnknownStateError) Unwrap() error { return e.Err }
