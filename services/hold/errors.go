package hold

import "fmt"

// HoldError is a typed, user-facing failure of a hold operation. These are
// ordinary result values: contention and state errors are expected traffic,
// not faults.
type HoldError struct {
	Code    string
	Message string
}

func (e *HoldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrAlreadyHeld: another caller holds this service right now.
	ErrAlreadyHeld = &HoldError{Code: "alreadyHeld", Message: "an active hold already exists for this service"}
	// ErrHoldNotFound: the hold id is unknown.
	ErrHoldNotFound = &HoldError{Code: "notFound", Message: "hold not found"}
	// ErrHoldInactive: the hold expired or was already released.
	ErrHoldInactive = &HoldError{Code: "inactive", Message: "hold has expired or is no longer active"}
	// ErrStoreUnavailable: the durable-store confirmation timed out; retryable.
	ErrStoreUnavailable = &HoldError{Code: "storeUnavailable", Message: "could not confirm availability, please retry"}
	// ErrInvalidDuration: extension durations must be positive.
	ErrInvalidDuration = &HoldError{Code: "invalidDuration", Message: "extension duration must be positive"}
)
