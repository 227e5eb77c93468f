package artifact

import (
	"fmt"
	"math"
)

// Kernel names match the fitting side.
const (
	KernelLinear  = "linear"
	KernelPoly    = "poly"
	KernelRBF     = "rbf"
	KernelSigmoid = "sigmoid"
)

// SVCParams is the fitted state of a one-vs-one support vector classifier.
//
// DualCoef has shape (n_classes-1) x n_SV and Intercept has one entry per
// class pair in (0,1), (0,2), ..., (1,2), ... order, so that a pair's decision
// value is the kernel sum plus its intercept. For binary models this is the
// un-negated libsvm layout.
type SVCParams struct {
	Kernel         string      `json:"kernel"`
	Gamma          float64     `json:"gamma"`
	Coef0          float64     `json:"coef0"`
	Degree         int         `json:"degree"`
	Classes        []int       `json:"classes"`
	NSupport       []int       `json:"n_support"`
	SupportVectors [][]float64 `json:"support_vectors"`
	DualCoef       [][]float64 `json:"dual_coef"`
	Intercept      []float64   `json:"intercept"`
}

// SVC predicts by pairwise voting, as libsvm does.
type SVC struct {
	p     SVCParams
	dim   int
	start []int // offset of each class's first support vector
}

type svcFile struct {
	Header
	SVCParams
}

// NewSVC validates shapes and copies p.
func NewSVC(p SVCParams) (*SVC, error) {
	k := len(p.Classes)
	if k < 2 {
		return nil, fmt.Errorf("%w: svc needs at least 2 classes, got %d", ErrInvalid, k)
	}
	switch p.Kernel {
	case KernelLinear:
	case KernelPoly, KernelRBF, KernelSigmoid:
		if !(p.Gamma > 0) || !finite(p.Gamma) {
			return nil, fmt.Errorf("%w: kernel %s needs gamma > 0, got %g", ErrInvalid, p.Kernel, p.Gamma)
		}
		if p.Kernel == KernelPoly && p.Degree < 0 {
			return nil, fmt.Errorf("%w: negative poly degree %d", ErrInvalid, p.Degree)
		}
	default:
		return nil, fmt.Errorf("%w: unknown kernel %q", ErrInvalid, p.Kernel)
	}
	if len(p.NSupport) != k {
		return nil, fmt.Errorf("%w: n_support has %d entries for %d classes", ErrInvalid, len(p.NSupport), k)
	}

	start := make([]int, k)
	total := 0
	for i, n := range p.NSupport {
		if n <= 0 {
			return nil, fmt.Errorf("%w: class %d has %d support vectors", ErrInvalid, p.Classes[i], n)
		}
		start[i] = total
		total += n
	}
	if len(p.SupportVectors) != total {
		return nil, fmt.Errorf("%w: n_support sums to %d, got %d support vectors", ErrInvalid, total, len(p.SupportVectors))
	}
	dim := len(p.SupportVectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: empty support vector", ErrInvalid)
	}
	for i, sv := range p.SupportVectors {
		if len(sv) != dim {
			return nil, fmt.Errorf("%w: support vector %d has %d features, want %d", ErrInvalid, i, len(sv), dim)
		}
	}
	if len(p.DualCoef) != k-1 {
		return nil, fmt.Errorf("%w: dual_coef has %d rows, want %d", ErrInvalid, len(p.DualCoef), k-1)
	}
	for i, row := range p.DualCoef {
		if len(row) != total {
			return nil, fmt.Errorf("%w: dual_coef row %d has %d entries, want %d", ErrInvalid, i, len(row), total)
		}
	}
	if pairs := k * (k - 1) / 2; len(p.Intercept) != pairs {
		return nil, fmt.Errorf("%w: intercept has %d entries, want %d", ErrInvalid, len(p.Intercept), pairs)
	}

	return &SVC{p: cloneParams(p), dim: dim, start: start}, nil
}

// Kind implements Classifier.
func (s *SVC) Kind() string { return KindSVC }

// Dim implements Classifier.
func (s *SVC) Dim() int { return s.dim }

// Classes implements Classifier.
func (s *SVC) Classes() []int { return append([]int(nil), s.p.Classes...) }

// Kernel returns the kernel name.
func (s *SVC) Kernel() string { return s.p.Kernel }

// Params returns a deep copy of the fitted state.
func (s *SVC) Params() SVCParams { return cloneParams(s.p) }

// Predict implements Classifier.
func (s *SVC) Predict(x []float64) (int, error) {
	if len(x) != s.dim {
		return 0, fmt.Errorf("%w: classifier trained on %d features, got %d", ErrDimension, s.dim, len(x))
	}
	kv := make([]float64, len(s.p.SupportVectors))
	for i, sv := range s.p.SupportVectors {
		kv[i] = s.kernel(x, sv)
	}

	k := len(s.p.Classes)
	votes := make([]int, k)
	pair := 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			sum := 0.0
			si, ci := s.start[i], s.p.NSupport[i]
			sj, cj := s.start[j], s.p.NSupport[j]
			coefI := s.p.DualCoef[j-1]
			coefJ := s.p.DualCoef[i]
			for n := 0; n < ci; n++ {
				sum += coefI[si+n] * kv[si+n]
			}
			for n := 0; n < cj; n++ {
				sum += coefJ[sj+n] * kv[sj+n]
			}
			if sum+s.p.Intercept[pair] > 0 {
				votes[i]++
			} else {
				votes[j]++
			}
			pair++
		}
	}

	// first maximum wins ties
	best := 0
	for i := 1; i < k; i++ {
		if votes[i] > votes[best] {
			best = i
		}
	}
	return s.p.Classes[best], nil
}

func (s *SVC) kernel(x, y []float64) float64 {
	switch s.p.Kernel {
	case KernelPoly:
		return math.Pow(s.p.Gamma*dot(x, y)+s.p.Coef0, float64(s.p.Degree))
	case KernelRBF:
		d := 0.0
		for i := range x {
			diff := x[i] - y[i]
			d += diff * diff
		}
		return math.Exp(-s.p.Gamma * d)
	case KernelSigmoid:
		return math.Tanh(s.p.Gamma*dot(x, y) + s.p.Coef0)
	default:
		return dot(x, y)
	}
}

func dot(x, y []float64) float64 {
	sum := 0.0
	for i := range x {
		sum += x[i] * y[i]
	}
	return sum
}

func cloneParams(p SVCParams) SVCParams {
	out := p
	out.Classes = append([]int(nil), p.Classes...)
	out.NSupport = append([]int(nil), p.NSupport...)
	out.Intercept = append([]float64(nil), p.Intercept...)
	out.SupportVectors = cloneMatrix(p.SupportVectors)
	out.DualCoef = cloneMatrix(p.DualCoef)
	return out
}

func cloneMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// LoadSVC reads an SVC artifact.
func LoadSVC(path string) (*SVC, error) {
	var f svcFile
	if err := readEnvelope(path, KindSVC, &f); err != nil {
		return nil, err
	}
	return NewSVC(f.SVCParams)
}

// SaveSVC writes s in the artifact layout.
func SaveSVC(path string, s *SVC) error {
	return writeEnvelope(path, svcFile{
		Header:    Header{FormatVersion: FormatVersion, Kind: KindSVC},
		SVCParams: s.p,
	})
}
