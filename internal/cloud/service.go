// Package cloud saves and loads the document in remote object storage under
// a per-identity private path.
package cloud

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/semaphore"

	"cv-editor/internal/cv"
	"cv-editor/internal/shared/metrics"
	"cv-editor/internal/shared/storage/object"
	"cv-editor/internal/shared/telemetry"
	"cv-editor/internal/shared/util"
)

// ErrSaveInProgress is returned when a save for the same identity is still running.
var ErrSaveInProgress = errors.New("save already in progress")

const contentType = "application/json"

type Service struct {
	store object.Store

	mu    sync.Mutex
	gates map[string]*semaphore.Weighted
}

func NewService(store object.Store) *Service {
	return &Service{store: store, gates: make(map[string]*semaphore.Weighted)}
}

// ObjectKey returns the storage path of an identity's document.
func ObjectKey(identity string) string {
	return "private/" + util.HashIdentity(identity) + "/resume.json"
}

func (s *Service) gate(identity string) *semaphore.Weighted {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gates[identity]
	if !ok {
		g = semaphore.NewWeighted(1)
		s.gates[identity] = g
	}
	return g
}

// Save uploads doc. A second save for the same identity fails fast while
// the first one runs. Failures are not retried.
func (s *Service) Save(ctx context.Context, identity string, doc cv.Document) error {
	g := s.gate(identity)
	if !g.TryAcquire(1) {
		metrics.IncSave("busy")
		return ErrSaveInProgress
	}
	defer g.Release(1)

	raw, err := cv.Encode(doc)
	if err != nil {
		metrics.IncSave("error")
		return fmt.Errorf("encode document: %w", err)
	}
	key := ObjectKey(identity)
	if _, err := s.store.Put(ctx, key, contentType, bytes.NewReader(raw)); err != nil {
		metrics.IncSave("error")
		telemetry.Error("cloud.save_failed", map[string]any{
			"storage_key": key,
			"err":         err,
		})
		return fmt.Errorf("%w: %w", cv.ErrRemoteUnavailable, err)
	}
	metrics.IncSave("ok")
	telemetry.Info("cloud.saved", map[string]any{
		"storage_key": key,
		"size_bytes":  len(raw),
	})
	return nil
}

// Load fetches the saved document. ok is false when nothing was saved yet.
// Transport and decode failures are logged and returned wrapped in
// cv.ErrRemoteUnavailable; callers that only need a best-effort value may
// treat them as absent.
func (s *Service) Load(ctx context.Context, identity string) (cv.Document, bool, error) {
	key := ObjectKey(identity)
	rc, err := s.store.Get(ctx, key)
	if errors.Is(err, object.ErrNotFound) {
		return cv.Document{}, false, nil
	}
	if err != nil {
		telemetry.Error("cloud.load_failed", map[string]any{"storage_key": key, "err": err})
		return cv.Document{}, false, fmt.Errorf("%w: %w", cv.ErrRemoteUnavailable, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		telemetry.Error("cloud.load_failed", map[string]any{"storage_key": key, "err": err})
		return cv.Document{}, false, fmt.Errorf("%w: read: %w", cv.ErrRemoteUnavailable, err)
	}
	doc, err := cv.Decode(raw)
	if err != nil {
		telemetry.Error("cloud.load_corrupt", map[string]any{"storage_key": key, "err": err})
		return cv.Document{}, false, fmt.Errorf("%w: %w", cv.ErrRemoteUnavailable, err)
	}
	return doc, true, nil
}
