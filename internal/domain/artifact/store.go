// Package artifact loads the fitted preprocessing and classification
// artifacts produced by training and holds them read-only for the process
// lifetime.
package artifact

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/okian/gesture/pkg/errkind"
	"golang.org/x/sync/errgroup"
)

// Paths locates the persisted artifacts. An empty Encoder skips the encoder.
type Paths struct {
	Classifier string
	Scaler     string
	Encoder    string
}

// Handles are the loaded artifacts. They never change after Initialize.
type Handles struct {
	scaler     *MinMaxScaler
	classifier Classifier
	encoder    *LabelEncoder
}

// Scaler returns the fitted scaler.
func (h *Handles) Scaler() *MinMaxScaler { return h.scaler }

// Classifier returns the fitted classifier.
func (h *Handles) Classifier() Classifier { return h.classifier }

// Encoder returns the label encoder, or nil when none was configured.
func (h *Handles) Encoder() *LabelEncoder { return h.encoder }

// Store owns the artifacts. Initialize runs once; Get is lock-free afterwards.
type Store struct {
	paths Paths

	initMu  sync.Mutex
	handles atomic.Pointer[Handles]
}

// NewStore creates an empty store for paths.
func NewStore(paths Paths) *Store {
	return &Store{paths: paths}
}

// Paths returns the configured locations.
func (s *Store) Paths() Paths { return s.paths }

// Initialize loads every artifact concurrently and cross-checks them. On any
// failure the store stays uninitialized.
func (s *Store) Initialize(ctx context.Context) error {
	const op = "artifact.initialize"

	s.initMu.Lock()
	defer s.initMu.Unlock()

	if s.handles.Load() != nil {
		return errkind.NewKind(op, ErrAlreadyInitialized)
	}
	if s.paths.Classifier == "" || s.paths.Scaler == "" {
		return errkind.WrapKind(op, ErrLoad, fmt.Errorf("%w: classifier and scaler paths are required", ErrInvalid))
	}

	h := &Handles{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c, err := LoadClassifier(s.paths.Classifier)
		if err != nil {
			return fmt.Errorf("classifier %s: %w", s.paths.Classifier, err)
		}
		h.classifier = c
		return ctx.Err()
	})
	g.Go(func() error {
		sc, err := LoadMinMaxScaler(s.paths.Scaler)
		if err != nil {
			return fmt.Errorf("scaler %s: %w", s.paths.Scaler, err)
		}
		h.scaler = sc
		return ctx.Err()
	})
	if s.paths.Encoder != "" {
		g.Go(func() error {
			e, err := LoadLabelEncoder(s.paths.Encoder)
			if err != nil {
				return fmt.Errorf("label encoder %s: %w", s.paths.Encoder, err)
			}
			h.encoder = e
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return errkind.WrapKind(op, ErrLoad, err)
	}
	if err := crossCheck(h); err != nil {
		return errkind.WrapKind(op, ErrLoad, err)
	}

	s.handles.Store(h)
	return nil
}

// crossCheck verifies the artifacts come from the same training run.
func crossCheck(h *Handles) error {
	if h.scaler.Dim() != h.classifier.Dim() {
		return fmt.Errorf("%w: scaler has %d features, classifier %d", ErrDimension, h.scaler.Dim(), h.classifier.Dim())
	}
	if h.encoder == nil {
		return nil
	}
	for _, c := range h.classifier.Classes() {
		if _, ok := h.encoder.Name(c); !ok {
			return fmt.Errorf("%w: class %d has no label among %d encoder classes", ErrInvalid, c, h.encoder.Len())
		}
	}
	return nil
}

// Get returns the loaded handles.
func (s *Store) Get() (*Handles, error) {
	h := s.handles.Load()
	if h == nil {
		return nil, errkind.NewKind("artifact.get", ErrNotInitialized)
	}
	return h, nil
}

// Ready reports whether Initialize has succeeded.
func (s *Store) Ready() bool {
	return s.handles.Load() != nil
}
