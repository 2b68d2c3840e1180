package direction

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOffsets(t *testing.T) {
	Convey("Given the four cardinal directions", t, func() {
		Convey("North moves -y, South moves +y", func() {
			So(North.Offset(), ShouldResemble, Offset{DX: 0, DY: -1})
			So(South.Offset(), ShouldResemble, Offset{DX: 0, DY: 1})
		})
		Convey("East moves +x, West moves -x", func() {
			So(East.Offset(), ShouldResemble, Offset{DX: 1, DY: 0})
			So(West.Offset(), ShouldResemble, Offset{DX: -1, DY: 0})
		})
	})
}

func TestFacingFor(t *testing.T) {
	Convey("Given a displacement", t, func() {
		Convey("larger horizontal displacement prefers East/West", func() {
			So(FacingFor(5, 1), ShouldEqual, East)
			So(FacingFor(-5, 1), ShouldEqual, West)
		})
		Convey("larger vertical displacement prefers North/South", func() {
			So(FacingFor(1, 5), ShouldEqual, South)
			So(FacingFor(1, -5), ShouldEqual, North)
		})
		Convey("ties break toward the horizontal axis", func() {
			So(FacingFor(3, 3), ShouldEqual, East)
		})
	})
}

func TestTurns(t *testing.T) {
	Convey("Given a direction, Left and Right are inverses", t, func() {
		for _, d := range []Direction{North, South, East, West} {
			So(d.Left().Right(), ShouldEqual, d)
			So(d.Right().Left(), ShouldEqual, d)
		}
	})
}
