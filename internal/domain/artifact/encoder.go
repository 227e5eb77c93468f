package artifact

import "fmt"

// LabelEncoder maps encoded class indices back to gesture names.
type LabelEncoder struct {
	classes []string
}

type encoderFile struct {
	Header
	Classes []string `json:"classes"`
}

// NewLabelEncoder copies classes; index i is the name of encoded label i.
func NewLabelEncoder(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w: label encoder has no classes", ErrInvalid)
	}
	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%w: duplicate label %q", ErrInvalid, c)
		}
		seen[c] = struct{}{}
	}
	return &LabelEncoder{classes: append([]string(nil), classes...)}, nil
}

// Len is the number of encoded labels.
func (e *LabelEncoder) Len() int { return len(e.classes) }

// Name returns the label for index i.
func (e *LabelEncoder) Name(i int) (string, bool) {
	if i < 0 || i >= len(e.classes) {
		return "", false
	}
	return e.classes[i], true
}

// Classes returns a copy of all labels.
func (e *LabelEncoder) Classes() []string { return append([]string(nil), e.classes...) }

// LoadLabelEncoder reads a label encoder artifact.
func LoadLabelEncoder(path string) (*LabelEncoder, error) {
	var f encoderFile
	if err := readEnvelope(path, KindLabelEncoder, &f); err != nil {
		return nil, err
	}
	return NewLabelEncoder(f.Classes)
}

// SaveLabelEncoder writes e in the artifact layout.
func SaveLabelEncoder(path string, e *LabelEncoder) error {
	return writeEnvelope(path, encoderFile{
		Header:  Header{FormatVersion: FormatVersion, Kind: KindLabelEncoder},
		Classes: e.classes,
	})
}
