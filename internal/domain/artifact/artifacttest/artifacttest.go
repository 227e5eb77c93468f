// Package artifacttest builds small, hand-checkable artifacts for tests.
package artifacttest

import (
	"path/filepath"
	"testing"

	"github.com/okian/gesture/internal/domain/artifact"
)

// Gestures is the label encoder order of the hand gesture dataset.
var Gestures = []string{
	"call", "dislike", "fist", "four", "like", "mute", "ok", "one", "palm",
	"peace", "peace_inverted", "rock", "stop", "stop_inverted", "three",
	"three2", "two_up", "two_up_inverted",
}

// Fixture classes: a positive coordinate sum votes Fist, anything else TwoUp.
const (
	Fist  = 2
	TwoUp = 16
)

// SignSVC is a linear two-class SVC over dim features whose decision value is
// sum(x). Classes are {Fist, TwoUp}.
func SignSVC(tb testing.TB, dim int) *artifact.SVC {
	tb.Helper()
	ones := make([]float64, dim)
	zeros := make([]float64, dim)
	for i := range ones {
		ones[i] = 1
	}
	svc, err := artifact.NewSVC(artifact.SVCParams{
		Kernel:         artifact.KernelLinear,
		Classes:        []int{Fist, TwoUp},
		NSupport:       []int{1, 1},
		SupportVectors: [][]float64{ones, zeros},
		DualCoef:       [][]float64{{1, -1}},
		Intercept:      []float64{0},
	})
	if err != nil {
		tb.Fatalf("build svc: %v", err)
	}
	return svc
}

// UnitScaler fits every feature on [lo, hi] into [0, 1].
func UnitScaler(tb testing.TB, dim int, lo, hi float64) *artifact.MinMaxScaler {
	tb.Helper()
	mins := make([]float64, dim)
	maxs := make([]float64, dim)
	for i := range mins {
		mins[i] = lo
		maxs[i] = hi
	}
	s, err := artifact.NewMinMaxScaler(mins, maxs, [2]float64{0, 1})
	if err != nil {
		tb.Fatalf("build scaler: %v", err)
	}
	return s
}

// Encoder returns the dataset label encoder.
func Encoder(tb testing.TB) *artifact.LabelEncoder {
	tb.Helper()
	e, err := artifact.NewLabelEncoder(Gestures)
	if err != nil {
		tb.Fatalf("build encoder: %v", err)
	}
	return e
}

// WriteSet saves a consistent artifact trio for landmarks points into dir.
// The scaler maps [-1, 1] onto [0, 1], so after scaling the SVC sees
// sum((x+1)/2); inputs whose coordinates sum above -landmarks vote Fist.
func WriteSet(tb testing.TB, dir string, landmarks int) artifact.Paths {
	tb.Helper()
	dim := 2 * landmarks
	paths := artifact.Paths{
		Classifier: filepath.Join(dir, "best_svc_model.json"),
		Scaler:     filepath.Join(dir, "MMscale.json"),
		Encoder:    filepath.Join(dir, "label_encoder.json"),
	}
	if err := artifact.SaveSVC(paths.Classifier, SignSVC(tb, dim)); err != nil {
		tb.Fatalf("save svc: %v", err)
	}
	if err := artifact.SaveMinMaxScaler(paths.Scaler, UnitScaler(tb, dim, -1, 1)); err != nil {
		tb.Fatalf("save scaler: %v", err)
	}
	if err := artifact.SaveLabelEncoder(paths.Encoder, Encoder(tb)); err != nil {
		tb.Fatalf("save encoder: %v", err)
	}
	return paths
}
