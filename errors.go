package websurface

import "errors"

var (
	// ErrInvalidConfig is returned by NewDriver for missing collaborators.
	ErrInvalidConfig = errors.New("websurface: invalid config")

	// ErrUnknownSurface is returned for IDs that were never added.
	ErrUnknownSurface = errors.New("websurface: unknown surface")

	// ErrInvalidDimensions is returned for zero-sized surfaces.
	ErrInvalidDimensions = errors.New("websurface: invalid dimensions")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("websurface: driver closed")
)
