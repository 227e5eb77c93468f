package artifact_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/gesture/internal/domain/artifact"
	"github.com/okian/gesture/internal/domain/artifact/artifacttest"
	. "github.com/smartystreets/goconvey/convey"
)

func threeClassParams() artifact.SVCParams {
	return artifact.SVCParams{
		Kernel:         artifact.KernelLinear,
		Classes:        []int{0, 1, 2},
		NSupport:       []int{1, 1, 1},
		SupportVectors: [][]float64{{1, 0}, {0, 1}, {-1, -1}},
		DualCoef:       [][]float64{{1, -1, -1}, {1, 1, -1}},
		Intercept:      []float64{0, 0, 0},
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestMinMaxScaler(t *testing.T) {
	Convey("Given a scaler with one constant feature", t, func() {
		s, err := artifact.NewMinMaxScaler([]float64{0, 10}, []float64{10, 10}, [2]float64{0, 1})
		So(err, ShouldBeNil)
		So(s.Dim(), ShouldEqual, 2)

		Convey("When transforming an in-range vector", func() {
			out, err := s.Transform([]float64{5, 10})

			Convey("Then values land in the feature range", func() {
				So(err, ShouldBeNil)
				So(out[0], ShouldAlmostEqual, 0.5)
				So(out[1], ShouldAlmostEqual, 0)
			})
		})

		Convey("When transforming values outside the fitted bounds", func() {
			out, err := s.Transform([]float64{20, 12})

			Convey("Then they extrapolate without clamping", func() {
				So(err, ShouldBeNil)
				So(out[0], ShouldAlmostEqual, 2)
				So(out[1], ShouldAlmostEqual, 2)
			})
		})

		Convey("When the vector length is wrong", func() {
			_, err := s.Transform([]float64{1, 2, 3})

			Convey("Then a dimension error is returned", func() {
				So(errors.Is(err, artifact.ErrDimension), ShouldBeTrue)
			})
		})
	})

	Convey("Given a custom feature range", t, func() {
		s, err := artifact.NewMinMaxScaler([]float64{0}, []float64{10}, [2]float64{-1, 1})
		So(err, ShouldBeNil)

		out, err := s.Transform([]float64{5})
		So(err, ShouldBeNil)
		So(out[0], ShouldAlmostEqual, 0)
		So(s.FeatureRange(), ShouldResemble, [2]float64{-1, 1})
	})

	Convey("Given invalid fitted state", t, func() {
		_, err := artifact.NewMinMaxScaler(nil, nil, [2]float64{0, 1})
		So(errors.Is(err, artifact.ErrInvalid), ShouldBeTrue)

		_, err = artifact.NewMinMaxScaler([]float64{0}, []float64{1, 2}, [2]float64{0, 1})
		So(errors.Is(err, artifact.ErrInvalid), ShouldBeTrue)

		_, err = artifact.NewMinMaxScaler([]float64{3}, []float64{1}, [2]float64{0, 1})
		So(errors.Is(err, artifact.ErrInvalid), ShouldBeTrue)

		_, err = artifact.NewMinMaxScaler([]float64{0}, []float64{1}, [2]float64{1, 1})
		So(errors.Is(err, artifact.ErrInvalid), ShouldBeTrue)
	})
}

func TestSVCPredict(t *testing.T) {
	Convey("Given a three-class linear SVC", t, func() {
		svc, err := artifact.NewSVC(threeClassParams())
		So(err, ShouldBeNil)
		So(svc.Dim(), ShouldEqual, 2)
		So(svc.Classes(), ShouldResemble, []int{0, 1, 2})

		Convey("Then each support vector is classified as its own class", func() {
			for x, want := range map[[2]float64]int{
				{1, 0}:   0,
				{0, 1}:   1,
				{-1, -1}: 2,
			} {
				got, err := svc.Predict(x[:])
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("Then a wrong-length vector is rejected", func() {
			_, err := svc.Predict([]float64{1})
			So(errors.Is(err, artifact.ErrDimension), ShouldBeTrue)
		})

		Convey("Then Params is a deep copy", func() {
			p := svc.Params()
			p.SupportVectors[0][0] = 99
			got, err := svc.Predict([]float64{1, 0})
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 0)
		})
	})

	Convey("Given a voting cycle", t, func() {
		svc, err := artifact.NewSVC(artifact.SVCParams{
			Kernel:         artifact.KernelLinear,
			Classes:        []int{5, 7, 9},
			NSupport:       []int{1, 1, 1},
			SupportVectors: [][]float64{{1}, {2}, {3}},
			DualCoef:       [][]float64{{0, 0, 0}, {0, 0, 0}},
			Intercept:      []float64{1, -1, 1},
		})
		So(err, ShouldBeNil)

		Convey("Then the first class with the most votes wins", func() {
			got, err := svc.Predict([]float64{0})
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 5)
		})
	})

	Convey("Given a binary RBF SVC", t, func() {
		svc, err := artifact.NewSVC(artifact.SVCParams{
			Kernel:         artifact.KernelRBF,
			Gamma:          0.5,
			Classes:        []int{0, 1},
			NSupport:       []int{1, 1},
			SupportVectors: [][]float64{{0, 0}, {4, 4}},
			DualCoef:       [][]float64{{1, -1}},
			Intercept:      []float64{0},
		})
		So(err, ShouldBeNil)
		So(svc.Kernel(), ShouldEqual, artifact.KernelRBF)

		Convey("Then the nearest support vector decides", func() {
			got, err := svc.Predict([]float64{0.5, 0})
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 0)

			got, err = svc.Predict([]float64{4, 3})
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 1)
		})
	})
}

// fixtureCase is one row of testdata/svc_poly_3class_cases.json.
type fixtureCase struct {
	X     []float64 `json:"x"`
	Class int       `json:"class"`
}

func TestSVCPolyFixture(t *testing.T) {
	Convey("Given a fitted three-class poly SVC in the exported layout", t, func() {
		svc, err := artifact.LoadSVC(filepath.Join("testdata", "svc_poly_3class.json"))
		So(err, ShouldBeNil)
		So(svc.Kernel(), ShouldEqual, artifact.KernelPoly)
		So(svc.Classes(), ShouldResemble, []int{2, 14, 16})
		So(svc.Params().NSupport, ShouldResemble, []int{5, 2, 4})

		payload, err := os.ReadFile(filepath.Join("testdata", "svc_poly_3class_cases.json"))
		So(err, ShouldBeNil)
		var cases []fixtureCase
		So(json.Unmarshal(payload, &cases), ShouldBeNil)
		So(len(cases), ShouldBeGreaterThan, 30)

		Convey("Then every recorded input predicts its recorded class", func() {
			seen := map[int]bool{}
			for _, c := range cases {
				got, err := svc.Predict(c.X)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, c.Class)
				seen[got] = true
			}
			So(len(seen), ShouldEqual, 3)
		})
	})
}

func TestSVCValidation(t *testing.T) {
	Convey("Given malformed SVC parameters, each is rejected", t, func() {
		cases := map[string]func(p *artifact.SVCParams){
			"one class":          func(p *artifact.SVCParams) { p.Classes = []int{0}; p.NSupport = []int{3} },
			"unknown kernel":     func(p *artifact.SVCParams) { p.Kernel = "laplacian" },
			"rbf without gamma":  func(p *artifact.SVCParams) { p.Kernel = artifact.KernelRBF },
			"negative degree":    func(p *artifact.SVCParams) { p.Kernel = artifact.KernelPoly; p.Gamma = 1; p.Degree = -1 },
			"n_support length":   func(p *artifact.SVCParams) { p.NSupport = []int{1, 2} },
			"empty class":        func(p *artifact.SVCParams) { p.NSupport = []int{0, 2, 1} },
			"sv count":           func(p *artifact.SVCParams) { p.SupportVectors = p.SupportVectors[:2] },
			"ragged sv":          func(p *artifact.SVCParams) { p.SupportVectors[1] = []float64{1} },
			"dual_coef rows":     func(p *artifact.SVCParams) { p.DualCoef = p.DualCoef[:1] },
			"dual_coef width":    func(p *artifact.SVCParams) { p.DualCoef[0] = []float64{1} },
			"intercept length":   func(p *artifact.SVCParams) { p.Intercept = []float64{0} },
			"empty sv dimension": func(p *artifact.SVCParams) { p.SupportVectors = [][]float64{{}, {}, {}} },
		}
		for _, mutate := range cases {
			p := threeClassParams()
			mutate(&p)
			_, err := artifact.NewSVC(p)
			So(errors.Is(err, artifact.ErrInvalid), ShouldBeTrue)
			So(err.Error(), ShouldNotBeEmpty)
		}
	})
}

func TestLabelEncoder(t *testing.T) {
	Convey("Given the gesture label encoder", t, func() {
		e := artifacttest.Encoder(t)

		Convey("Then indices resolve to names", func() {
			So(e.Len(), ShouldEqual, 18)
			name, ok := e.Name(artifacttest.Fist)
			So(ok, ShouldBeTrue)
			So(name, ShouldEqual, "fist")

			_, ok = e.Name(18)
			So(ok, ShouldBeFalse)
			_, ok = e.Name(-1)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given invalid labels", t, func() {
		_, err := artifact.NewLabelEncoder(nil)
		So(errors.Is(err, artifact.ErrInvalid), ShouldBeTrue)

		_, err = artifact.NewLabelEncoder([]string{"fist", "fist"})
		So(errors.Is(err, artifact.ErrInvalid), ShouldBeTrue)
	})
}

func TestArtifactFiles(t *testing.T) {
	Convey("Given a temporary directory", t, func() {
		dir := t.TempDir()

		Convey("When saving and loading each artifact", func() {
			scaler := artifacttest.UnitScaler(t, 4, -1, 1)
			svc, err := artifact.NewSVC(threeClassParams())
			So(err, ShouldBeNil)

			scalerPath := filepath.Join(dir, "scaler.json")
			svcPath := filepath.Join(dir, "svc.json")
			encPath := filepath.Join(dir, "enc.json")
			So(artifact.SaveMinMaxScaler(scalerPath, scaler), ShouldBeNil)
			So(artifact.SaveSVC(svcPath, svc), ShouldBeNil)
			So(artifact.SaveLabelEncoder(encPath, artifacttest.Encoder(t)), ShouldBeNil)

			Convey("Then the loaded artifacts behave the same", func() {
				s2, err := artifact.LoadMinMaxScaler(scalerPath)
				So(err, ShouldBeNil)
				So(s2.DataMin(), ShouldResemble, scaler.DataMin())
				So(s2.DataMax(), ShouldResemble, scaler.DataMax())

				c, err := artifact.LoadClassifier(svcPath)
				So(err, ShouldBeNil)
				So(c.Kind(), ShouldEqual, artifact.KindSVC)
				got, err := c.Predict([]float64{0, 1})
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 1)

				e, err := artifact.LoadLabelEncoder(encPath)
				So(err, ShouldBeNil)
				So(e.Classes(), ShouldResemble, artifacttest.Gestures)
			})
		})

		Convey("When a scaler omits feature_range", func() {
			path := writeFile(t, dir, "s.json",
				`{"format_version":1,"kind":"minmax_scaler","data_min":[0],"data_max":[4]}`)
			s, err := artifact.LoadMinMaxScaler(path)

			Convey("Then [0, 1] is assumed", func() {
				So(err, ShouldBeNil)
				So(s.FeatureRange(), ShouldResemble, [2]float64{0, 1})
			})
		})

		Convey("When the format version is unknown", func() {
			path := writeFile(t, dir, "v.json",
				`{"format_version":2,"kind":"minmax_scaler","data_min":[0],"data_max":[4]}`)
			_, err := artifact.LoadMinMaxScaler(path)
			So(errors.Is(err, artifact.ErrFormatVersion), ShouldBeTrue)
		})

		Convey("When the kind does not match", func() {
			path := writeFile(t, dir, "k.json", `{"format_version":1,"kind":"label_encoder","classes":["a"]}`)
			_, err := artifact.LoadMinMaxScaler(path)
			So(errors.Is(err, artifact.ErrKind), ShouldBeTrue)

			_, err = artifact.LoadClassifier(path)
			So(errors.Is(err, artifact.ErrKind), ShouldBeTrue)
		})

		Convey("When the file is not JSON", func() {
			path := writeFile(t, dir, "bad.json", "\x80\x04pickle")
			_, err := artifact.LoadClassifier(path)
			So(err, ShouldNotBeNil)
		})

		Convey("When the file does not exist", func() {
			_, err := artifact.LoadSVC(filepath.Join(dir, "missing.json"))
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})
	})
}

func TestStore(t *testing.T) {
	Convey("Given a store over a consistent artifact set", t, func() {
		dir := t.TempDir()
		paths := artifacttest.WriteSet(t, dir, 21)
		store := artifact.NewStore(paths)
		ctx := context.Background()

		Convey("When reading before Initialize", func() {
			_, err := store.Get()

			Convey("Then it reports not initialized", func() {
				So(errors.Is(err, artifact.ErrNotInitialized), ShouldBeTrue)
				So(store.Ready(), ShouldBeFalse)
			})
		})

		Convey("When Initialize succeeds", func() {
			So(store.Initialize(ctx), ShouldBeNil)

			Convey("Then handles are available", func() {
				So(store.Ready(), ShouldBeTrue)
				h, err := store.Get()
				So(err, ShouldBeNil)
				So(h.Scaler().Dim(), ShouldEqual, 42)
				So(h.Classifier().Dim(), ShouldEqual, 42)
				So(h.Encoder().Len(), ShouldEqual, len(artifacttest.Gestures))
				So(store.Paths(), ShouldResemble, paths)
			})

			Convey("Then a second Initialize is refused", func() {
				err := store.Initialize(ctx)
				So(errors.Is(err, artifact.ErrAlreadyInitialized), ShouldBeTrue)
			})
		})

		Convey("When the encoder is omitted", func() {
			paths.Encoder = ""
			s := artifact.NewStore(paths)
			So(s.Initialize(ctx), ShouldBeNil)

			h, err := s.Get()
			So(err, ShouldBeNil)
			So(h.Encoder(), ShouldBeNil)
		})

		Convey("When the classifier file is missing", func() {
			So(os.Remove(paths.Classifier), ShouldBeNil)
			err := store.Initialize(ctx)

			Convey("Then it fails with a load error and stays uninitialized", func() {
				So(errors.Is(err, artifact.ErrLoad), ShouldBeTrue)
				So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
				So(store.Ready(), ShouldBeFalse)
			})
		})

		Convey("When the scaler dimension disagrees with the classifier", func() {
			So(artifact.SaveMinMaxScaler(paths.Scaler, artifacttest.UnitScaler(t, 10, 0, 1)), ShouldBeNil)
			err := store.Initialize(ctx)

			Convey("Then it fails with a load error", func() {
				So(errors.Is(err, artifact.ErrLoad), ShouldBeTrue)
				So(errors.Is(err, artifact.ErrDimension), ShouldBeTrue)
				So(store.Ready(), ShouldBeFalse)
			})
		})

		Convey("When the encoder does not name every class", func() {
			short, err := artifact.NewLabelEncoder([]string{"call", "dislike", "fist"})
			So(err, ShouldBeNil)
			So(artifact.SaveLabelEncoder(paths.Encoder, short), ShouldBeNil)

			err = store.Initialize(ctx)
			So(errors.Is(err, artifact.ErrLoad), ShouldBeTrue)
			So(errors.Is(err, artifact.ErrInvalid), ShouldBeTrue)
		})

		Convey("When the scaler path is empty", func() {
			err := artifact.NewStore(artifact.Paths{Classifier: paths.Classifier}).Initialize(ctx)
			So(errors.Is(err, artifact.ErrLoad), ShouldBeTrue)
		})
	})
}
