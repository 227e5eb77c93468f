// Package landmark validates raw hand keypoints and flattens them into the
// feature layout the classifier was trained on.
package landmark

import (
	"encoding/json"
	"fmt"
	"math"
)

// DefaultCount is the number of keypoints a hand pose detector reports.
const DefaultCount = 21

// Landmark is a single 2D keypoint.
type Landmark struct {
	X float64
	Y float64
}

// Set is an ordered landmark sequence; position decides the feature slots.
type Set []Landmark

// FeatureVector is a Set flattened as [x0, y0, x1, y1, ...].
type FeatureVector []float64

// Raw is the wire form of a landmark payload. A JSON null coordinate decodes
// to NaN so that Validate rejects it instead of reading it as zero.
type Raw [][]float64

// UnmarshalJSON implements json.Unmarshaler.
func (r *Raw) UnmarshalJSON(b []byte) error {
	var pts [][]*float64
	if err := json.Unmarshal(b, &pts); err != nil {
		return err
	}
	if pts == nil {
		*r = nil
		return nil
	}
	out := make(Raw, len(pts))
	for i, pt := range pts {
		if pt == nil {
			continue
		}
		row := make([]float64, len(pt))
		for j, v := range pt {
			if v == nil {
				row[j] = math.NaN()
				continue
			}
			row[j] = *v
		}
		out[i] = row
	}
	*r = out
	return nil
}

// Validate checks raw pairs against the expected landmark count and returns
// the typed Set. Both values of a pair must be finite. Nothing numeric is
// allocated until every check has passed.
func Validate(raw [][]float64, expected int) (Set, error) {
	if len(raw) == 0 {
		return nil, &InputError{Check: CheckEmpty, Reason: MsgEmpty}
	}
	for _, pt := range raw {
		if len(pt) != 2 || !finite(pt[0]) || !finite(pt[1]) {
			return nil, &InputError{Check: CheckArity, Reason: MsgArity}
		}
	}
	if len(raw) != expected {
		return nil, &InputError{
			Check:  CheckCount,
			Reason: fmt.Sprintf("expected %d landmarks, got %d", expected, len(raw)),
		}
	}

	set := make(Set, len(raw))
	for i, pt := range raw {
		set[i] = Landmark{X: pt[0], Y: pt[1]}
	}
	return set, nil
}

// Flatten lays the set out point by point, x before y.
func Flatten(set Set) FeatureVector {
	out := make(FeatureVector, 2*len(set))
	for i, lm := range set {
		out[2*i] = lm.X
		out[2*i+1] = lm.Y
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
