// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import "errors"

var (
	// ErrInvalidURL is returned for URLs that cannot be navigated to.
	// Nothing is dispatched to the engine.
	ErrInvalidURL = errors.New("engine: invalid url")

	// ErrEngineInit is returned when an engine cannot be constructed or
	// does not open its first browsing context. It is not recoverable.
	ErrEngineInit = errors.New("engine: initialization failed")

	// ErrNotRegistered is returned when a named engine is unknown.
	ErrNotRegistered = errors.New("engine: not registered")

	// ErrClosed is returned when using a closed session.
	ErrClosed = errors.New("engine: session closed")
)
