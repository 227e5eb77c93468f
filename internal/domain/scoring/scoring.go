// Package scoring turns a flattened landmark vector into a class index by
// scaling it and running the classifier.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/gesture/internal/domain/artifact"
	"github.com/okian/gesture/internal/domain/landmark"
	"github.com/okian/gesture/pkg/errkind"
)

// ErrScoring marks a failure inside scaling or classification, typically a
// feature dimension the artifacts were not fitted on.
var ErrScoring = errors.New("scoring failed")

// Scorer computes a class index from a feature vector.
type Scorer interface {
	// Score scales in and classifies it, honoring ctx for cancellation.
	Score(ctx context.Context, in landmark.FeatureVector) (int, error)
}

// Option applies a configuration option to the ModelScorer.
type Option func(*ModelScorer)

// WithLatencyObserver receives the duration of every successful Score call.
func WithLatencyObserver(fn func(time.Duration)) Option {
	return func(s *ModelScorer) {
		if fn != nil {
			s.observe = fn
		}
	}
}

// ModelScorer implements Scorer with a fitted scaler and classifier. It holds
// no mutable state and is safe for concurrent use.
type ModelScorer struct {
	scaler     *artifact.MinMaxScaler
	classifier artifact.Classifier
	observe    func(time.Duration)
}

// New creates a scorer over loaded artifacts.
func New(scaler *artifact.MinMaxScaler, classifier artifact.Classifier, opts ...Option) (*ModelScorer, error) {
	if scaler == nil || classifier == nil {
		return nil, fmt.Errorf("scoring: scaler and classifier are required")
	}
	s := &ModelScorer{
		scaler:     scaler,
		classifier: classifier,
		observe:    func(time.Duration) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dim is the feature dimension both artifacts expect.
func (s *ModelScorer) Dim() int { return s.scaler.Dim() }

// Score implements Scorer.
func (s *ModelScorer) Score(ctx context.Context, in landmark.FeatureVector) (int, error) {
	const op = "scoring.score"

	if err := ctx.Err(); err != nil {
		return 0, errkind.Wrap(op, err)
	}

	start := time.Now()
	scaled, err := s.scaler.Transform(in)
	if err != nil {
		return 0, errkind.WrapKind(op, ErrScoring, err)
	}
	class, err := s.classifier.Predict(scaled)
	if err != nil {
		return 0, errkind.WrapKind(op, ErrScoring, err)
	}
	s.observe(time.Since(start))
	return class, nil
}
