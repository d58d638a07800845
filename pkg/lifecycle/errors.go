package lifecycle

import "errors"

var (
	// ErrSubmitInFlight is returned when a submission is attempted while
	// another one has not finished.
	ErrSubmitInFlight = errors.New("lifecycle: a submission is already in flight")

	// ErrInvalidState is returned when an operation is not legal in the
	// controller's current state.
	ErrInvalidState = errors.New("lifecycle: operation not allowed in current state")

	// ErrStaleResponse is returned when a service response arrives after
	// the controller moved on, usually because the template changed or the
	// controller was reset mid-flight. The response is discarded.
	ErrStaleResponse = errors.New("lifecycle: response arrived for a superseded request")

	// ErrNoDocument is returned when an operation requires a held document
	// and there is none.
	ErrNoDocument = errors.New("lifecycle: no document held")
)
