package editor

import (
	"errors"

	"cv-editor/internal/cloud"
	"cv-editor/internal/cv"
	"cv-editor/internal/reorder"
)

var (
	ErrValidation           = cv.ErrValidation
	ErrRemoteUnavailable    = cv.ErrRemoteUnavailable
	ErrExtraction           = cv.ErrExtraction
	ErrConfirmationRequired = cv.ErrConfirmationRequired
	ErrUnknownCell          = cv.ErrUnknownPath
	ErrSaveInProgress       = cloud.ErrSaveInProgress
	ErrDragActive           = reorder.ErrDragActive

	ErrInvalidCommand = errors.New("invalid command")
	ErrReadOnly       = errors.New("edit mode is off")
	ErrSessionClosed  = errors.New("session closed")
)

// errUnchanged aborts a mutation that turned out to be a no-op.
var errUnchanged = errors.New("unchanged")
