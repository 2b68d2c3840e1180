package main

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"goldrush/board"
)

func TestParsePosition(t *testing.T) {
	Convey("Given a well-formed x,y spec", t, func() {
		pos, err := parsePosition("9, 14")

		Convey("it parses and trims whitespace", func() {
			So(err, ShouldBeNil)
			So(pos, ShouldResemble, board.Position{X: 9, Y: 14})
		})
	})

	Convey("Given a malformed spec", t, func() {
		_, err := parsePosition("9")
		Convey("it returns an error rather than panicking", func() {
			So(err, ShouldNotBeNil)
		})

		_, err = parsePosition("x,y")
		Convey("non-numeric components also error", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
