package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no record exists for an id or user.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable is returned when the character API cannot be reached
	// or answers with an unexpected status.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrVerificationMismatch is returned when the biography does not contain
	// the challenge token.
	ErrVerificationMismatch = errors.New("verification token not found in biography")

	// ErrMalformedToken is returned when a control identifier fails to decode.
	ErrMalformedToken = errors.New("malformed interaction token")

	// ErrUnauthorizedActor is returned when someone other than the control
	// owner activates it.
	ErrUnauthorizedActor = errors.New("actor does not own this control")

	ErrAlreadyVerified    = errors.New("already verified")
	ErrNoPendingChallenge = errors.New("no pending verification challenge")
	ErrFavoritesFull      = errors.New("favorites list is full")
)

// UpstreamError describes a failed call to the character API.
//
// It unwraps to ErrNotFound for 404 answers and to ErrUpstreamUnavailable for
// everything else, so callers can tell "not found" from "unreachable".
type UpstreamError struct {
	Op         string
	StatusCode int // 0 when the request never got an answer
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	if e.StatusCode == 404 {
		return []error{ErrNotFound, e.Err}
	}
	return []error{ErrUpstreamUnavailable, e.Err}
}
