package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/gesture/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPrediction(t *testing.T) {
	Convey("Given a Prediction", t, func() {
		p := types.Prediction{PredictedClassIndex: 2, Action: "down"}

		Convey("When encoding it as JSON", func() {
			b, err := json.Marshal(p)

			Convey("Then it uses the wire field names", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `{"predicted_class_index":2,"action":"down"}`)
			})
		})

		Convey("When creating a prediction with zero values", func() {
			p := types.Prediction{}

			Convey("Then it should have default values", func() {
				So(p.PredictedClassIndex, ShouldEqual, 0)
				So(p.Action, ShouldEqual, "")
			})
		})
	})
}

func TestModelInfo(t *testing.T) {
	Convey("Given a ModelInfo before artifacts are loaded", t, func() {
		info := types.ModelInfo{LandmarkCount: 21, Actions: map[int]string{2: "down"}}

		Convey("Then optional fields are omitted", func() {
			b, err := json.Marshal(info)
			So(err, ShouldBeNil)
			So(string(b), ShouldNotContainSubstring, "classifier_kind")
			So(string(b), ShouldContainSubstring, `"actions":{"2":"down"}`)
			So(string(b), ShouldContainSubstring, `"ready":false`)
		})
	})
}
