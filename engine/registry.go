// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"slices"
	"sync"
)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for Default (first registered wins).
	enginePriority = []string{"cdp"}
)

// Register makes an engine factory available under name.
// It is typically called from an engine package's init function.
// Registering an existing name replaces the previous factory.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes an engine. This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered engine names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if an engine with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Get returns the factory registered under name, or nil.
func Get(name string) Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return factories[name]
}

// Default returns the preferred registered factory, or nil if none is
// registered. Engines in the priority list win; otherwise the first name
// in sorted order is used.
func Default() Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range enginePriority {
		if f, ok := factories[name]; ok {
			return f
		}
	}
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil
	}
	slices.Sort(names)
	return factories[names[0]]
}

// Lookup returns the named factory, or Default for an empty name.
func Lookup(name string) (Factory, error) {
	if name == "" {
		if f := Default(); f != nil {
			return f, nil
		}
		return nil, ErrNotRegistered
	}
	if f := Get(name); f != nil {
		return f, nil
	}
	return nil, &notRegisteredError{name: name}
}

type notRegisteredError struct{ name string }

func (e *notRegisteredError) Error() string { return "engine: not registered: " + e.name }

func (e *notRegisteredError) Is(target error) bool { return target == ErrNotRegistered }
