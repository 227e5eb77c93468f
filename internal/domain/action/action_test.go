package action_test

import (
	"testing"

	"github.com/okian/gesture/internal/domain/action"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMapper(t *testing.T) {
	Convey("Given the default maze table", t, func() {
		m := action.NewMapper(action.DefaultTable())

		Convey("Then the four wired classes map exactly", func() {
			So(m.Map(16), ShouldEqual, "up")
			So(m.Map(2), ShouldEqual, "down")
			So(m.Map(3), ShouldEqual, "left")
			So(m.Map(14), ShouldEqual, "right")
		})

		Convey("Then every other index misses with unknown_action", func() {
			for i := -3; i < 40; i++ {
				switch i {
				case 2, 3, 14, 16:
					continue
				}
				So(m.Map(i), ShouldEqual, action.Unknown)
			}
		})

		Convey("Then classes are listed in order", func() {
			So(m.Classes(), ShouldResemble, []int{2, 3, 14, 16})
		})
	})

	Convey("Given a caller-owned table", t, func() {
		table := map[int]string{1: "jump"}
		m := action.NewMapper(table)

		Convey("When the caller mutates it afterwards", func() {
			table[1] = "duck"
			table[2] = "run"

			Convey("Then the mapper is unaffected", func() {
				So(m.Map(1), ShouldEqual, "jump")
				So(m.Map(2), ShouldEqual, action.Unknown)
			})
		})

		Convey("When the returned table copy is mutated", func() {
			m.Table()[1] = "duck"
			So(m.Map(1), ShouldEqual, "jump")
		})
	})

	Convey("Given a nil table", t, func() {
		m := action.NewMapper(nil)
		So(m.Map(2), ShouldEqual, action.Unknown)
		So(m.Classes(), ShouldBeEmpty)
	})
}
