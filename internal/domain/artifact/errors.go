package artifact

import "errors"

// Sentinel kinds for artifact errors.
var (
	// ErrLoad marks any failure to read, decode or cross-check an artifact.
	ErrLoad = errors.New("artifact load failed")

	ErrNotInitialized     = errors.New("artifacts not initialized")
	ErrAlreadyInitialized = errors.New("artifacts already initialized")

	ErrFormatVersion = errors.New("unsupported artifact format version")
	ErrKind          = errors.New("unexpected artifact kind")
	ErrInvalid       = errors.New("invalid artifact parameters")
	ErrDimension     = errors.New("feature dimension mismatch")
)
