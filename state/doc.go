// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package state holds the surface state shared between the driver goroutine
// and engine callbacks.
//
// Every field lives in its own [Cell], a mutex-guarded value that tolerates
// poisoning: a panic inside an update leaves the last good value in place,
// marks the cell poisoned and reports [ErrPoisoned] instead of crashing the
// caller. Reads from a poisoned cell log a diagnostic and return the last
// good value. Rendering after a poison event is best effort.
//
// Critical sections are a single read-modify-write. Callers must never hold
// a cell across a GPU call.
package state
