package weather

import "errors"

// Failure taxonomy for the check and query operations. The service classifies
// collaborator failures by wrapping these sentinels; the HTTP boundary maps
// them to status codes with errors.Is.
var (
	// ErrInvalidRequest marks malformed input caught before any external call.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrForecastUnavailable marks a provider call that failed or returned
	// unparseable data.
	ErrForecastUnavailable = errors.New("weather forecast unavailable")

	// ErrAlertDelivery marks a failed mail transmission. A failed send always
	// prevents persistence.
	ErrAlertDelivery = errors.New("alert delivery failed")

	// ErrPersistence marks a store write that failed after a successful send.
	ErrPersistence = errors.New("failed to persist notification")
)
