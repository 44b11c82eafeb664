package apperrors

import "errors"

// Error taxonomy shared across services, handlers and the hub.
// Callers wrap these with fmt.Errorf("...: %w", Err...) and handlers
// map them back to transport status codes with errors.Is.
var (
	// ErrInvalidArgument - malformed or empty input, rejected before any state change
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnauthorized - missing or invalid credentials/token
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden - actor lacks membership or admin rights
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound - referenced user/chat/message does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict - resource already exists (duplicate email)
	ErrConflict = errors.New("already exists")

	// ErrStorage - durable persistence failed; the whole operation should be retried
	ErrStorage = errors.New("storage error")
)
