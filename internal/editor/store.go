package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"cv-editor/internal/cv"
	"cv-editor/internal/localstate"
	"cv-editor/internal/richtext"
	"cv-editor/internal/shared/metrics"
	"cv-editor/internal/shared/telemetry"
)

// Store owns the current document of one identity. Every change goes
// through commit: the current value is cloned, mutated, sanitized, written
// to local state and only then swapped in, so a failed change leaves
// nothing behind.
type Store struct {
	state localstate.State
	key   string

	mu      sync.RWMutex
	doc     cv.Document
	version uint64
}

// Open reads the saved document for identity once. A missing or
// undecodable value falls back to the default document.
func Open(ctx context.Context, state localstate.State, identity string) (*Store, error) {
	s := &Store{state: state, key: localstate.Key(identity), doc: cv.Default()}

	raw, err := state.Get(ctx, s.key)
	switch {
	case errors.Is(err, localstate.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("open local state: %w", err)
	}

	doc, err := cv.Decode(raw)
	if err != nil {
		telemetry.Warn("store.local_state_corrupt", map[string]any{"key": s.key, "err": err})
		return s, nil
	}
	cv.MapText(&doc, richtext.Sanitize)
	s.doc = doc
	return s, nil
}

// Data returns a copy of the current document.
func (s *Store) Data() cv.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cv.Clone(s.doc)
}

// Version counts commits since the store was opened.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Update applies mutate to a copy of the document and commits it.
func (s *Store) Update(ctx context.Context, mutate func(*cv.Document) error) error {
	_, err := s.commit(ctx, "update", mutate)
	return err
}

// LoadData replaces the whole document.
func (s *Store) LoadData(ctx context.Context, doc cv.Document) error {
	_, err := s.commit(ctx, "load", func(d *cv.Document) error {
		*d = cv.Clone(doc)
		return nil
	})
	return err
}

// ResetData restores the default document and forgets the saved one.
func (s *Store) ResetData(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("reset local state: %w", err)
	}
	s.doc = cv.Default()
	s.version++
	metrics.IncCommit("reset")
	return nil
}

// commit reports whether a new version was stored. A mutator returning
// errUnchanged, or one whose result encodes exactly like the current
// document, skips the commit without error.
func (s *Store) commit(ctx context.Context, source string, mutate func(*cv.Document) error) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cv.Clone(s.doc)
	if err := mutate(&next); err != nil {
		if errors.Is(err, errUnchanged) {
			return false, nil
		}
		return false, err
	}
	cv.MapText(&next, richtext.Sanitize)
	cv.Normalize(&next)

	raw, err := cv.Encode(next)
	if err != nil {
		return false, fmt.Errorf("encode document: %w", err)
	}
	if prev, err := cv.Encode(s.doc); err == nil && bytes.Equal(prev, raw) {
		return false, nil
	}
	if err := s.state.Put(ctx, s.key, raw); err != nil {
		return false, fmt.Errorf("persist local state: %w", err)
	}
	s.doc = next
	s.version++
	metrics.IncCommit(source)
	return true, nil
}
