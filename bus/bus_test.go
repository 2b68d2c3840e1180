package bus

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"goldrush/board"
)

func teamRoster() map[int]board.Team {
	roster := make(map[int]board.Team)
	for i := 0; i < 10; i++ {
		roster[i] = board.Red
	}
	for i := 10; i < 20; i++ {
		roster[i] = board.Blue
	}
	return roster
}

func TestUnicastDelivery(t *testing.T) {
	Convey("Given a unicast envelope sent at step 0", t, func() {
		b := NewMessageBus(teamRoster())
		b.Send(Envelope{SenderID: 1, ReceiverID: 2, Step: 0, Payload: MissionAbort{}})

		Convey("it is not deliverable at step 0", func() {
			So(b.Drain(0), ShouldBeNil)
		})

		Convey("it is deliverable exactly once at step 1", func() {
			delivered := b.Drain(1)
			So(delivered[2], ShouldHaveLength, 1)
			So(delivered[2][0].SenderID, ShouldEqual, 1)

			So(b.Drain(1), ShouldBeNil)
		})
	})
}

func TestBroadcastExpandsToSameTeamOnly(t *testing.T) {
	Convey("Given a broadcast from a red agent", t, func() {
		b := NewMessageBus(teamRoster())
		b.Send(Envelope{SenderID: 0, Broadcast: true, Step: 5, Payload: MissionComplete{}})

		delivered := b.Drain(6)

		Convey("every other red agent receives it", func() {
			for i := 1; i < 10; i++ {
				So(delivered[i], ShouldHaveLength, 1)
			}
		})
		Convey("no blue agent receives it", func() {
			for i := 10; i < 20; i++ {
				So(delivered[i], ShouldBeEmpty)
			}
		})
		Convey("the sender also receives its own broadcast, one step later", func() {
			So(delivered[0], ShouldHaveLength, 1)
		})
	})
}

func TestInsertionOrderPreservedPerReceiver(t *testing.T) {
	Convey("Given two envelopes sent to the same receiver for the same step", t, func() {
		b := NewMessageBus(teamRoster())
		b.Send(Envelope{SenderID: 1, ReceiverID: 2, Step: 0, Payload: MissionAbort{}})
		b.Send(Envelope{SenderID: 3, ReceiverID: 2, Step: 0, Payload: MissionComplete{}})

		delivered := b.Drain(1)

		Convey("they arrive in send order", func() {
			So(delivered[2][0].SenderID, ShouldEqual, 1)
			So(delivered[2][1].SenderID, ShouldEqual, 3)
		})
	})
}
