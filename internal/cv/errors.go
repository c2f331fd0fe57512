package cv

import "errors"

// Error kinds surfaced to the user. Every layer wraps one of these so the
// HTTP handler can map it with errors.Is.
var (
	ErrValidation           = errors.New("validation error")
	ErrRemoteUnavailable    = errors.New("remote storage unavailable")
	ErrExtraction           = errors.New("extraction error")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrUnknownPath          = errors.New("unknown cell path")
)
