package errkind_test

import (
	"errors"
	"testing"

	"github.com/okian/gesture/pkg/errkind"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	errKind  = errors.New("bad request")
	errCause = errors.New("unexpected EOF")
)

func TestWrapKind(t *testing.T) {
	Convey("Given a kind and a cause", t, func() {
		err := errkind.WrapKind("api.predict", errKind, errCause)

		Convey("Then both are matchable with errors.Is", func() {
			So(errors.Is(err, errKind), ShouldBeTrue)
			So(errors.Is(err, errCause), ShouldBeTrue)
		})

		Convey("And the message carries op, kind and cause", func() {
			So(err.Error(), ShouldEqual, "api.predict: bad request: unexpected EOF")
		})

		Convey("And errors.As recovers the op", func() {
			var ke *errkind.Error
			So(errors.As(err, &ke), ShouldBeTrue)
			So(ke.Op, ShouldEqual, "api.predict")
		})
	})
}

func TestNewKindAndWrap(t *testing.T) {
	Convey("Given NewKind without a cause", t, func() {
		err := errkind.NewKind("api.healthz", errKind)
		So(errors.Is(err, errKind), ShouldBeTrue)
		So(err.Error(), ShouldEqual, "api.healthz: bad request")
	})

	Convey("Given Wrap", t, func() {
		So(errkind.Wrap("op", nil), ShouldBeNil)

		err := errkind.Wrap("op", errCause)
		So(errors.Is(err, errCause), ShouldBeTrue)
		So(err.Error(), ShouldEqual, "op: unexpected EOF")
	})
}
