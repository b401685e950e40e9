package apperrors

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnsupportedFormat      = errors.New("unsupported export format")
	ErrStorageWrite           = errors.New("storage write failed")
	ErrRender                 = errors.New("render failed")
	ErrGenerationFailed       = errors.New("report generation failed")
	ErrUnavailable            = errors.New("backing store unavailable")
	ErrCredentialsKeyMismatch = errors.New("data source credentials were encrypted with a different key")
)
