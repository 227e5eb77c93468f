package artifact

import "fmt"

// Classifier turns a scaled feature vector into a class index.
type Classifier interface {
	// Predict returns the winning class label for x.
	Predict(x []float64) (int, error)
	// Dim is the feature dimensionality the classifier was trained on.
	Dim() int
	// Classes lists the class labels the classifier can emit.
	Classes() []int
	// Kind names the model family, e.g. "svc".
	Kind() string
}

// LoadClassifier reads a classifier artifact, dispatching on its kind.
func LoadClassifier(path string) (Classifier, error) {
	_, h, err := readHeader(path)
	if err != nil {
		return nil, err
	}
	switch h.Kind {
	case KindSVC:
		return LoadSVC(path)
	default:
		return nil, fmt.Errorf("%w: unsupported classifier %q", ErrKind, h.Kind)
	}
}
