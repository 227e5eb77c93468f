// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/gesture/internal/adapters/cache"
	"github.com/okian/gesture/internal/domain/action"
	"github.com/okian/gesture/internal/domain/artifact"
	"github.com/okian/gesture/internal/domain/landmark"
	"github.com/okian/gesture/internal/domain/scoring"
	"github.com/okian/gesture/internal/domain/types"
	"github.com/okian/gesture/pkg/errkind"
	"github.com/okian/gesture/pkg/logger"
	"github.com/okian/gesture/pkg/metrics"
)

// Service identity reported by /info.
const (
	Title   = "Maze Hand Gesture Control API"
	Version = "1.0.0"
)

// Recorder receives the prediction pipeline's observations. *metrics.Manager
// implements it.
type Recorder interface {
	RecordPrediction(classIndex int) error
	ObserveScoringLatency(latencyMs float64)
	RecordScoringError()
	RecordValidationError(check string)
	RecordCacheHit()
	RecordCacheMiss()
	SetArtifactsReady(ready bool)
	RecordErrorByComponent(component, errorType string)
	PredictionCounts() (int64, map[string]int64, error)
}

// ScorerFactory builds the scorer once artifacts are loaded.
type ScorerFactory func(h *artifact.Handles, observe func(time.Duration)) (scoring.Scorer, error)

// ready is everything Predict needs; it is published once by Start.
type ready struct {
	handles       *artifact.Handles
	scorer        scoring.Scorer
	cache         cache.PredictionCache
	landmarkCount int
	startedAt     time.Time
}

// Service implements the API dependencies for gesture inference.
type Service struct {
	mu sync.Mutex

	// Core components
	mapper    *action.Mapper
	recorder  Recorder
	newScorer ScorerFactory

	// Configuration
	paths         artifact.Paths
	landmarkCount int
	cacheSize     int

	// State
	state atomic.Pointer[ready]

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithArtifactPaths sets where the classifier, scaler and encoder are read from.
func WithArtifactPaths(paths artifact.Paths) Option {
	return func(s *Service) {
		s.paths = paths
	}
}

// WithLandmarkCount sets the expected number of landmarks per request. Zero
// derives it from the scaler dimension at Start.
func WithLandmarkCount(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.landmarkCount = n
		}
	}
}

// WithActionTable replaces the built-in class to action table.
func WithActionTable(table map[int]string) Option {
	return func(s *Service) {
		if len(table) > 0 {
			s.mapper = action.NewMapper(table)
		}
	}
}

// WithCacheSize bounds the prediction cache; 0 disables it.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.cacheSize = size
		}
	}
}

// WithRecorder sets where predictions and pipeline events are counted.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithScorerFactory overrides how the scorer is built from loaded artifacts.
func WithScorerFactory(f ScorerFactory) Option {
	return func(s *Service) {
		if f != nil {
			s.newScorer = f
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration. Nothing is loaded
// until Start.
func New(opts ...Option) *Service {
	s := &Service{
		mapper:        action.NewMapper(action.DefaultTable()),
		recorder:      metrics.Default(),
		newScorer:     modelScorer,
		landmarkCount: landmark.DefaultCount,
		cacheSize:     cache.DefaultSize,
		paths: artifact.Paths{
			Classifier: "models/best_svc_model.json",
			Scaler:     "models/MMscale.json",
			Encoder:    "models/label_encoder.json",
		},
		logger: nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func modelScorer(h *artifact.Handles, observe func(time.Duration)) (scoring.Scorer, error) {
	return scoring.New(h.Scaler(), h.Classifier(), scoring.WithLatencyObserver(observe))
}

// Start loads the artifacts and moves the service to READY. It is a no-op once
// READY; on failure the service stays not ready and Start may be retried.
func (s *Service) Start(ctx context.Context) error {
	const op = "service.start"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Load() != nil {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "loading model artifacts...",
		logger.String("classifier", s.paths.Classifier),
		logger.String("scaler", s.paths.Scaler),
		logger.String("encoder", s.paths.Encoder),
	)

	// A failed Initialize leaves the store empty, so a retry needs a new one.
	store := artifact.NewStore(s.paths)
	if err := store.Initialize(ctx); err != nil {
		s.logger.Error(ctx, "failed to load model artifacts", logger.Error(err))
		s.recorder.RecordErrorByComponent("artifacts", "load_failed")
		return errkind.Wrap(op, err)
	}
	h, err := store.Get()
	if err != nil {
		return errkind.Wrap(op, err)
	}

	count, err := resolveLandmarkCount(s.landmarkCount, h.Scaler().Dim())
	if err != nil {
		s.logger.Error(ctx, "artifacts do not match landmark count", logger.Error(err))
		s.recorder.RecordErrorByComponent("artifacts", "dimension_mismatch")
		return errkind.WrapKind(op, artifact.ErrLoad, err)
	}

	sc, err := s.newScorer(h, func(d time.Duration) {
		s.recorder.ObserveScoringLatency(float64(d.Microseconds()) / 1000)
	})
	if err != nil {
		return errkind.WrapKind(op, artifact.ErrLoad, err)
	}

	c, err := cache.New(cache.WithSize(s.cacheSize))
	if err != nil {
		return errkind.Wrap(op, err)
	}

	s.state.Store(&ready{
		handles:       h,
		scorer:        sc,
		cache:         c,
		landmarkCount: count,
		startedAt:     time.Now(),
	})
	s.recorder.SetArtifactsReady(true)

	s.logger.Info(ctx, "gesture service ready",
		logger.String("classifier", h.Classifier().Kind()),
		logger.Int("features", h.Scaler().Dim()),
		logger.Int("landmarks", count),
		logger.Int("classes", len(h.Classifier().Classes())),
		logger.Int("cacheSize", s.cacheSize),
	)

	return nil
}

// resolveLandmarkCount checks the configured count against the scaler, or
// derives it when unset.
func resolveLandmarkCount(configured, dim int) (int, error) {
	if dim%2 != 0 {
		return 0, fmt.Errorf("%w: scaler has odd feature count %d", artifact.ErrDimension, dim)
	}
	if configured == 0 {
		return dim / 2, nil
	}
	if 2*configured != dim {
		return 0, fmt.Errorf("%w: %d landmarks need %d features, scaler has %d",
			artifact.ErrDimension, configured, 2*configured, dim)
	}
	return configured, nil
}

// Ready reports whether Start has succeeded.
func (s *Service) Ready() bool {
	return s.state.Load() != nil
}

// Predict validates raw landmarks, classifies them and maps the class to an
// action. Input problems are returned as *landmark.InputError.
func (s *Service) Predict(ctx context.Context, raw [][]float64) (types.Prediction, error) {
	const op = "service.predict"

	st := s.state.Load()
	if st == nil {
		return types.Prediction{}, errkind.NewKind(op, ErrNotReady)
	}

	set, err := landmark.Validate(raw, st.landmarkCount)
	if err != nil {
		var inputErr *landmark.InputError
		if errors.As(err, &inputErr) {
			s.recorder.RecordValidationError(inputErr.Check)
		}
		s.logger.Debug(ctx, "rejected landmarks", logger.Error(err))
		return types.Prediction{}, errkind.Wrap(op, err)
	}
	features := landmark.Flatten(set)

	class, hit := st.cache.Get(features)
	if hit {
		s.recorder.RecordCacheHit()
	} else {
		s.recorder.RecordCacheMiss()
		class, err = st.scorer.Score(ctx, features)
		if err != nil {
			s.recorder.RecordScoringError()
			s.recorder.RecordErrorByComponent("scorer", "scoring_failed")
			s.logger.Error(ctx, "scoring failed", logger.Error(err))
			return types.Prediction{}, errkind.Wrap(op, err)
		}
		st.cache.Add(features, class)
	}

	if err := s.recorder.RecordPrediction(class); err != nil {
		s.logger.Warn(ctx, "failed to record prediction", logger.Int("class", class), logger.Error(err))
	}

	prediction := types.Prediction{
		PredictedClassIndex: class,
		Action:              s.mapper.Map(class),
	}
	s.logger.Debug(ctx, "prediction",
		logger.Int("class", prediction.PredictedClassIndex),
		logger.String("action", prediction.Action),
		logger.Any("cached", hit),
	)
	return prediction, nil
}

// Info describes the loaded model and the action table.
func (s *Service) Info() types.ModelInfo {
	info := types.ModelInfo{
		Title:         Title,
		Version:       Version,
		LandmarkCount: s.landmarkCount,
		Actions:       s.mapper.Table(),
	}

	st := s.state.Load()
	if st == nil {
		return info
	}
	clf := st.handles.Classifier()
	info.Ready = true
	info.ClassifierKind = clf.Kind()
	info.FeatureDim = clf.Dim()
	info.LandmarkCount = st.landmarkCount
	info.Classes = clf.Classes()
	if k, ok := clf.(interface{ Kernel() string }); ok {
		info.Kernel = k.Kernel()
	}
	if enc := st.handles.Encoder(); enc != nil {
		info.Labels = make(map[int]string, len(info.Classes))
		for _, c := range info.Classes {
			if name, ok := enc.Name(c); ok {
				info.Labels[c] = name
			}
		}
	}
	return info
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	stats := types.Stats{
		LandmarkCount: s.landmarkCount,
		ByClass:       map[string]int64{},
	}

	total, byClass, err := s.recorder.PredictionCounts()
	if err == nil {
		stats.TotalPredictions = total
		stats.ByClass = byClass
	}

	st := s.state.Load()
	if st == nil {
		return stats
	}

	c := st.cache
	stats.Ready = true
	stats.LandmarkCount = st.landmarkCount
	stats.FeatureDim = st.handles.Scaler().Dim()
	stats.CacheSize = c.Size()
	stats.CacheLen = c.Len()
	stats.CacheHits = c.Hits()
	stats.CacheMisses = c.Misses()
	stats.UptimeSeconds = time.Since(st.startedAt).Seconds()
	return stats
}
