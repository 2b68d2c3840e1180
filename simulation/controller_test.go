package simulation

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"goldrush/agent"
	"goldrush/board"
	"goldrush/direction"
)

func newTestController(width, height, gold int) *Controller {
	cfg := Config{
		Width:     width,
		Height:    height,
		GoldTotal: gold,
		Red:       TeamConfig{Team: board.Red, Size: 2, DepositPos: board.Position{X: 0, Y: 0}},
		Blue:      TeamConfig{Team: board.Blue, Size: 2, DepositPos: board.Position{X: width - 1, Y: height - 1}},
	}
	return NewController(cfg, rand.New(rand.NewSource(1)))
}

func TestContestedPickupNeedsExactlyTwo(t *testing.T) {
	Convey("Given a tile with 1 gold and only one red requester", t, func() {
		c := newTestController(5, 5, 0)
		pos := board.Position{X: 2, Y: 2}
		c.Board.Tile(pos).Add()
		c.agents[0].Pos = pos

		actions := []agent.Action{agent.PickupAction{Robot: 0, Pos: pos}}
		res := c.resolveConflicts(actions)

		Convey("no pair forms and gold_count is unchanged", func() {
			So(res.pickupPairs, ShouldBeEmpty)
			So(c.Board.Tile(pos).GoldCount(), ShouldEqual, 1)
		})
	})

	Convey("Given a 1-gold tile with 2 red and 2 blue pickup requests", t, func() {
		c := newTestController(5, 5, 0)
		pos := board.Position{X: 2, Y: 2}
		c.Board.Tile(pos).Add()

		actions := []agent.Action{
			agent.PickupAction{Robot: 0, Pos: pos},
			agent.PickupAction{Robot: 1, Pos: pos},
			agent.PickupAction{Robot: 2, Pos: pos},
			agent.PickupAction{Robot: 3, Pos: pos},
		}
		res := c.resolveConflicts(actions)

		Convey("neither team gets it", func() {
			So(res.pickupPairs, ShouldBeEmpty)
			So(c.Board.Tile(pos).GoldCount(), ShouldEqual, 1)
		})
	})

	Convey("Given a 2-gold tile with 2 red and 2 blue pickup requests", t, func() {
		c := newTestController(5, 5, 0)
		pos := board.Position{X: 2, Y: 2}
		c.Board.Tile(pos).Add()
		c.Board.Tile(pos).Add()

		actions := []agent.Action{
			agent.PickupAction{Robot: 0, Pos: pos},
			agent.PickupAction{Robot: 1, Pos: pos},
			agent.PickupAction{Robot: 2, Pos: pos},
			agent.PickupAction{Robot: 3, Pos: pos},
		}
		res := c.resolveConflicts(actions)
		c.execute(res)

		Convey("both pairs form and the tile empties", func() {
			So(len(res.pickupPairs), ShouldEqual, 2)
			So(c.Board.Tile(pos).GoldCount(), ShouldEqual, 0)
			So(*c.agents[0].PartnerID, ShouldEqual, 1)
			So(*c.agents[2].PartnerID, ShouldEqual, 3)
		})
	})
}

func TestCarryDropOnDisagreement(t *testing.T) {
	Convey("Given a partnered pair that both issue Move in disagreeing facings", t, func() {
		c := newTestController(5, 5, 0)
		pos := board.Position{X: 2, Y: 2}
		id0, id1 := 0, 1
		c.agents[0].Pos = pos
		c.agents[1].Pos = pos
		c.agents[0].PartnerID = &id1
		c.agents[1].PartnerID = &id0
		c.agents[0].Facing = direction.East
		c.agents[1].Facing = direction.North

		actions := []agent.Action{
			agent.MoveAction{Robot: 0},
			agent.MoveAction{Robot: 1},
		}
		res := c.resolveConflicts(actions)
		c.execute(res)

		Convey("the tile at their position gains 1 gold and the partnership dissolves", func() {
			So(c.Board.Tile(pos).GoldCount(), ShouldEqual, 1)
			So(c.agents[0].PartnerID, ShouldBeNil)
			So(c.agents[1].PartnerID, ShouldBeNil)
		})

		Convey("both Move actions still proceed", func() {
			So(c.agents[0].Pos, ShouldResemble, board.Position{X: 3, Y: 2})
			So(c.agents[1].Pos, ShouldResemble, board.Position{X: 2, Y: 1})
		})
	})

	Convey("Given a partnered pair that both Move with the same facing", t, func() {
		c := newTestController(5, 5, 0)
		pos := board.Position{X: 2, Y: 2}
		id0, id1 := 0, 1
		c.agents[0].Pos = pos
		c.agents[1].Pos = pos
		c.agents[0].PartnerID = &id1
		c.agents[1].PartnerID = &id0
		c.agents[0].Facing = direction.East
		c.agents[1].Facing = direction.East

		actions := []agent.Action{
			agent.MoveAction{Robot: 0},
			agent.MoveAction{Robot: 1},
		}
		res := c.resolveConflicts(actions)
		c.execute(res)

		Convey("the partnership survives and both move together", func() {
			So(c.agents[0].PartnerID, ShouldNotBeNil)
			So(c.agents[1].PartnerID, ShouldNotBeNil)
			So(c.agents[0].Pos, ShouldResemble, board.Position{X: 3, Y: 2})
			So(c.agents[1].Pos, ShouldResemble, board.Position{X: 3, Y: 2})
		})
	})
}

func TestDepositDissolvesPartnership(t *testing.T) {
	Convey("Given a partnered pair standing on their own team's deposit", t, func() {
		c := newTestController(5, 5, 0)
		depositPos := c.Board.DepositPosition(board.Red)
		id0, id1 := 0, 1
		c.agents[0].Pos = depositPos
		c.agents[1].Pos = depositPos
		c.agents[0].PartnerID = &id1
		c.agents[1].PartnerID = &id0

		c.handleDeposits()

		Convey("the partnership dissolves and the sink increments", func() {
			red, _ := c.DepositTotals()
			So(red, ShouldEqual, 1)
			So(c.agents[0].PartnerID, ShouldBeNil)
			So(c.agents[1].PartnerID, ShouldBeNil)
		})
	})

	Convey("Given a partnered pair whose positions have desynced", t, func() {
		c := newTestController(5, 5, 0)
		id0, id1 := 0, 1
		c.agents[0].Pos = board.Position{X: 0, Y: 0}
		c.agents[1].Pos = board.Position{X: 1, Y: 1}
		c.agents[0].PartnerID = &id1
		c.agents[1].PartnerID = &id0

		Convey("handleDeposits panics", func() {
			So(func() { c.handleDeposits() }, ShouldPanic)
		})
	})
}

func TestGoldConservationAcrossSteps(t *testing.T) {
	Convey("Given a running simulation", t, func() {
		c := newTestController(8, 8, 10)

		Convey("gold on tiles plus in-flight plus deposited always equals the initial total", func() {
			for i := 0; i < 20; i++ {
				c.Step()

				total := 0
				for y := 0; y < c.Board.Height; y++ {
					for x := 0; x < c.Board.Width; x++ {
						total += c.Board.Tile(board.Position{X: x, Y: y}).GoldCount()
					}
				}
				seenPairs := make(map[int]bool)
				for _, ag := range c.agents {
					if ag.PartnerID != nil && !seenPairs[ag.RobotID] {
						seenPairs[ag.RobotID] = true
						seenPairs[*ag.PartnerID] = true
						total++
					}
				}
				red, blue := c.DepositTotals()
				total += red + blue

				So(total, ShouldEqual, c.GoldTotal())
			}
		})
	})
}
