// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/websurface/internal/logging"
)

// ErrPoisoned is returned when an update panicked or a strict update found
// the cell poisoned.
var ErrPoisoned = errors.New("state: cell poisoned")

// Cell is a mutex-guarded value with poison tracking.
// The zero value is not usable; create cells with [NewCell].
type Cell[T any] struct {
	name string

	mu       sync.Mutex
	v        T
	poisoned bool
}

// NewCell creates a cell holding v. The name appears in diagnostics.
func NewCell[T any](name string, v T) *Cell[T] {
	return &Cell[T]{name: name, v: v}
}

// Load returns the current value. On a poisoned cell it logs and returns
// the last good value.
func (c *Cell[T]) Load() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.poisoned {
		logging.L().Warn("state: read from poisoned cell, using last good value", "cell", c.name)
	}
	return c.v
}

// Update applies fn to a copy of the value and commits it when fn returns.
//
// If fn panics the copy is discarded, the cell is poisoned and ErrPoisoned
// is returned. Updating a poisoned cell recovers it in place: the new value
// becomes the last good one and the poison is cleared.
func (c *Cell[T]) Update(fn func(*T)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.poisoned {
		logging.L().Warn("state: recovering poisoned cell", "cell", c.name)
	}
	return c.apply(fn)
}

// TryUpdate is Update without in-place recovery: a poisoned cell is left
// untouched and ErrPoisoned is returned.
func (c *Cell[T]) TryUpdate(fn func(*T)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.poisoned {
		return fmt.Errorf("%w: %s", ErrPoisoned, c.name)
	}
	return c.apply(fn)
}

// Poisoned reports whether the last update panicked.
func (c *Cell[T]) Poisoned() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.poisoned
}

// apply runs fn with c.mu held.
func (c *Cell[T]) apply(fn func(*T)) (err error) {
	next := c.v
	defer func() {
		if r := recover(); r != nil {
			c.poisoned = true
			logging.L().Error("state: update panicked, keeping last good value",
				"cell", c.name, "panic", r)
			err = fmt.Errorf("%w: %s: %v", ErrPoisoned, c.name, r)
		}
	}()
	fn(&next)
	c.v = next
	c.poisoned = false
	return nil
}
