package consensus

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"goldrush/board"
)

func TestPrepareIdempotence(t *testing.T) {
	Convey("Given an acceptor and a PrepareRequest", t, func() {
		h := NewHandler(1, 10)
		req := PrepareRequest{ProposalID: ProposalID{Counter: 1, RobotID: 3}, Mission: Mission{Target: board.Position{X: 2, Y: 2}}}

		Convey("delivering it twice yields identical promised_id and response", func() {
			resp1, ok1 := h.HandlePrepareRequest(req, board.Position{X: 0, Y: 0})
			promised1 := *h.promisedID

			resp2, ok2 := h.HandlePrepareRequest(req, board.Position{X: 0, Y: 0})
			promised2 := *h.promisedID

			So(ok1, ShouldBeTrue)
			So(ok2, ShouldBeTrue)
			So(promised1, ShouldResemble, promised2)
			So(resp1, ShouldResemble, resp2)
		})
	})
}

func TestProposalIDOrdering(t *testing.T) {
	Convey("Given two proposal ids with the same counter", t, func() {
		a := ProposalID{Counter: 1, RobotID: 3}
		b := ProposalID{Counter: 1, RobotID: 7}

		Convey("the lower robot_id sorts first", func() {
			So(a.Less(b), ShouldBeTrue)
			So(b.Less(a), ShouldBeFalse)
		})
	})
}

func TestPreemption(t *testing.T) {
	Convey("Given an acceptor currently proposing with id (1,3)", t, func() {
		h := NewHandler(3, 10)
		h.StartElection(Mission{Target: board.Position{X: 1, Y: 1}}, 0)

		Convey("a higher PrepareRequest (1,7) preempts it", func() {
			higher := PrepareRequest{ProposalID: ProposalID{Counter: 1, RobotID: 7}, Mission: Mission{Target: board.Position{X: 2, Y: 2}}}
			_, ok := h.HandlePrepareRequest(higher, board.Position{X: 0, Y: 0})

			So(ok, ShouldBeTrue)
			So(h.IsProposing(), ShouldBeFalse)
			So(h.ConsumePreemption(), ShouldBeTrue)
		})

		Convey("a lower PrepareRequest (0,9) is rejected and never promised", func() {
			// First promise to (1,3) itself via an unrelated prepare so promisedID advances.
			self := PrepareRequest{ProposalID: ProposalID{Counter: 1, RobotID: 3}, Mission: Mission{Target: board.Position{X: 1, Y: 1}}}
			h.HandlePrepareRequest(self, board.Position{X: 0, Y: 0})

			lower := PrepareRequest{ProposalID: ProposalID{Counter: 0, RobotID: 9}, Mission: Mission{Target: board.Position{X: 2, Y: 2}}}
			_, ok := h.HandlePrepareRequest(lower, board.Position{X: 0, Y: 0})
			So(ok, ShouldBeFalse)
		})
	})
}

func TestMajorityAndValuePickup(t *testing.T) {
	Convey("Given a proposer that collects 6 promises, one carrying a prior accepted value", t, func() {
		h := NewHandler(0, 10)
		h.StartElection(Mission{Target: board.Position{X: 5, Y: 5}}, 0)

		priorID := ProposalID{Counter: 1, RobotID: 9}
		priorValue := FullMission{Target: board.Position{X: 9, Y: 9}, LeaderID: 9, FollowerID: 8}

		var lastReq AcceptRequest
		var reached bool
		for i, senderID := range []int{1, 2, 3, 4, 5} {
			resp := PrepareResponse{ProposalID: h.proposalID, FollowerBid: i}
			lastReq, reached = h.HandlePrepareResponse(senderID, resp)
		}
		So(reached, ShouldBeFalse)

		resp := PrepareResponse{ProposalID: h.proposalID, AcceptedID: &priorID, Value: &priorValue, FollowerBid: 99}
		lastReq, reached = h.HandlePrepareResponse(6, resp)

		Convey("majority is reached and the previously-accepted value wins", func() {
			So(reached, ShouldBeTrue)
			So(lastReq.Value, ShouldResemble, priorValue)
		})
	})
}

func TestAcceptResponseDedup(t *testing.T) {
	Convey("Given a learner and a duplicate AcceptResponse from the same sender", t, func() {
		h := NewHandler(0, 10)
		value := FullMission{Target: board.Position{X: 1, Y: 1}, LeaderID: 1, FollowerID: 2}
		pid := ProposalID{Counter: 1, RobotID: 1}

		for i := 0; i < 6; i++ {
			h.HandleAcceptResponse(i, AcceptResponse{ProposalID: pid, Value: value})
		}
		reachedFirst, _ := h.ConsensusReached()

		Convey("re-delivering sender 0's response does not change the outcome", func() {
			reached, v := h.HandleAcceptResponse(0, AcceptResponse{ProposalID: pid, Value: value})
			So(reachedFirst, ShouldBeTrue)
			So(reached, ShouldBeTrue)
			So(v, ShouldResemble, value)
		})
	})
}
