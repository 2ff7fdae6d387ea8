// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/gogpu/websurface/internal/logging"
)

// Session is one engine instance bound to one browsing context.
//
// A Session is owned by the driver goroutine and is not safe for
// concurrent use. Only its Window callbacks run elsewhere.
type Session struct {
	engine  Engine
	id      ContextID
	url     *url.URL
	pending []Event
	closed  bool
}

// Start builds an engine with factory, opens a browsing context at
// initialURL and selects it.
//
// An invalid initialURL returns ErrInvalidURL before any engine is built.
// Failure to build the engine, or to receive the context ID before ctx or
// opts.StartTimeout expires, returns ErrEngineInit.
func Start(ctx context.Context, factory Factory, win Window, initialURL string, opts Options) (*Session, error) {
	u, err := ParseURL(initialURL)
	if err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: no engine factory", ErrEngineInit)
	}
	opts = opts.WithDefaults()

	eng, err := factory(win, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngineInit, err)
	}

	reply := make(chan ContextID, 1)
	eng.HandleEvents([]Event{NewBrowsingContext{URL: u, Reply: reply}})

	waitCtx, cancel := context.WithTimeout(ctx, opts.StartTimeout)
	defer cancel()

	var id ContextID
	select {
	case id = <-reply:
	case <-waitCtx.Done():
		if cerr := eng.Close(); cerr != nil {
			logging.L().Warn("engine: close after failed start", "err", cerr)
		}
		return nil, fmt.Errorf("%w: waiting for browsing context: %w", ErrEngineInit, waitCtx.Err())
	}

	eng.HandleEvents([]Event{SelectBrowsingContext{ID: id}})
	logging.L().Info("engine: session started", "context", id, "url", u.String())

	return &Session{engine: eng, id: id, url: u}, nil
}

// ContextID returns the browsing context of the session.
func (s *Session) ContextID() ContextID { return s.id }

// URL returns the last URL dispatched to the engine.
func (s *Session) URL() *url.URL { return s.url }

// Navigate loads raw in the session's context. Invalid URLs return
// ErrInvalidURL and leave the engine untouched.
func (s *Session) Navigate(raw string) error {
	if s.closed {
		return ErrClosed
	}
	u, err := ParseURL(raw)
	if err != nil {
		return err
	}
	s.engine.HandleEvents([]Event{LoadURL{ID: s.id, URL: u}})
	s.url = u
	logging.L().Info("engine: navigate", "context", s.id, "url", u.String())
	return nil
}

// Reload reloads the current document.
func (s *Session) Reload() error {
	if s.closed {
		return ErrClosed
	}
	s.engine.HandleEvents([]Event{Reload{ID: s.id}})
	return nil
}

// Back goes one step back in history.
func (s *Session) Back() error { return s.traverse(-1) }

// Forward goes one step forward in history.
func (s *Session) Forward() error { return s.traverse(1) }

func (s *Session) traverse(delta int) error {
	if s.closed {
		return ErrClosed
	}
	s.engine.HandleEvents([]Event{Traverse{ID: s.id, Delta: delta}})
	return nil
}

// Resize queues a resize for the next Pump. Only the latest size is kept.
func (s *Session) Resize(width, height int) {
	for i, ev := range s.pending {
		if _, ok := ev.(Resize); ok {
			s.pending[i] = Resize{Width: width, Height: height}
			return
		}
	}
	s.pending = append(s.pending, Resize{Width: width, Height: height})
}

// Pump delivers queued and given events to the engine and lets it run one
// scheduling pass. The engine may call its Window synchronously, so Pump
// must not be called with surface state locked.
func (s *Session) Pump(events ...Event) {
	if s.closed {
		return
	}
	batch := events
	if len(s.pending) > 0 {
		batch = append(s.pending, events...)
		s.pending = nil
	}
	s.engine.HandleEvents(batch)
}

// Close shuts the engine down. Further calls are no-ops.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.engine.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("engine: close %s: %w", s.id, err)
	}
	return nil
}
