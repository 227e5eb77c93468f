package artifact

import (
	"fmt"
	"math"
)

// MinMaxScaler maps each feature from its fitted [min, max] onto the feature
// range. Values outside the fitted bounds extrapolate; nothing is clamped.
type MinMaxScaler struct {
	dataMin []float64
	dataMax []float64
	lo, hi  float64

	// x*scale + offset, the same arithmetic the fitting side uses.
	scale  []float64
	offset []float64
}

type scalerFile struct {
	Header
	DataMin      []float64   `json:"data_min"`
	DataMax      []float64   `json:"data_max"`
	FeatureRange *[2]float64 `json:"feature_range,omitempty"`
}

// NewMinMaxScaler validates fitted bounds and precomputes the transform.
func NewMinMaxScaler(dataMin, dataMax []float64, featureRange [2]float64) (*MinMaxScaler, error) {
	if len(dataMin) == 0 {
		return nil, fmt.Errorf("%w: scaler has no features", ErrInvalid)
	}
	if len(dataMin) != len(dataMax) {
		return nil, fmt.Errorf("%w: data_min has %d features, data_max %d", ErrInvalid, len(dataMin), len(dataMax))
	}
	lo, hi := featureRange[0], featureRange[1]
	if !finite(lo) || !finite(hi) || lo >= hi {
		return nil, fmt.Errorf("%w: feature_range [%g, %g]", ErrInvalid, lo, hi)
	}

	s := &MinMaxScaler{
		dataMin: append([]float64(nil), dataMin...),
		dataMax: append([]float64(nil), dataMax...),
		lo:      lo,
		hi:      hi,
		scale:   make([]float64, len(dataMin)),
		offset:  make([]float64, len(dataMin)),
	}
	for i := range dataMin {
		mn, mx := dataMin[i], dataMax[i]
		if !finite(mn) || !finite(mx) || mx < mn {
			return nil, fmt.Errorf("%w: feature %d bounds [%g, %g]", ErrInvalid, i, mn, mx)
		}
		rng := mx - mn
		if rng == 0 {
			// constant feature during fitting
			rng = 1
		}
		s.scale[i] = (hi - lo) / rng
		s.offset[i] = lo - mn*s.scale[i]
	}
	return s, nil
}

// Dim is the number of features the scaler was fitted on.
func (s *MinMaxScaler) Dim() int { return len(s.scale) }

// FeatureRange returns the target range.
func (s *MinMaxScaler) FeatureRange() [2]float64 { return [2]float64{s.lo, s.hi} }

// DataMin returns a copy of the fitted minimums.
func (s *MinMaxScaler) DataMin() []float64 { return append([]float64(nil), s.dataMin...) }

// DataMax returns a copy of the fitted maximums.
func (s *MinMaxScaler) DataMax() []float64 { return append([]float64(nil), s.dataMax...) }

// Transform scales x into a new slice.
func (s *MinMaxScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.scale) {
		return nil, fmt.Errorf("%w: scaler fitted on %d features, got %d", ErrDimension, len(s.scale), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v*s.scale[i] + s.offset[i]
	}
	return out, nil
}

// LoadMinMaxScaler reads a scaler artifact.
func LoadMinMaxScaler(path string) (*MinMaxScaler, error) {
	var f scalerFile
	if err := readEnvelope(path, KindMinMaxScaler, &f); err != nil {
		return nil, err
	}
	fr := [2]float64{0, 1}
	if f.FeatureRange != nil {
		fr = *f.FeatureRange
	}
	return NewMinMaxScaler(f.DataMin, f.DataMax, fr)
}

// SaveMinMaxScaler writes s in the artifact layout.
func SaveMinMaxScaler(path string, s *MinMaxScaler) error {
	fr := s.FeatureRange()
	return writeEnvelope(path, scalerFile{
		Header:       Header{FormatVersion: FormatVersion, Kind: KindMinMaxScaler},
		DataMin:      s.dataMin,
		DataMax:      s.dataMax,
		FeatureRange: &fr,
	})
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
