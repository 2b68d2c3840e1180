// Package consensus implements the per-agent single-decree Paxos role: each
// agent's Handler acts simultaneously as proposer, acceptor, and learner
// over its ten-member team to agree on a Mission (gold tile, leader,
// follower).
package consensus

import (
	"fmt"

	"goldrush/board"
)

// ProposalID is a totally ordered pair (counter, robot_id). Counters are
// local and monotonically increasing per agent; ties between agents are
// impossible once robot_id is included as the tiebreaker.
type ProposalID struct {
	Counter int
	RobotID int
}

// Less reports whether p sorts strictly before q.
func (p ProposalID) Less(q ProposalID) bool {
	if p.Counter != q.Counter {
		return p.Counter < q.Counter
	}
	return p.RobotID < q.RobotID
}

func (p ProposalID) messagePayload() {}

// Mission is a proposer's candidate (gold tile, cost) before a leader and
// follower have been decided.
type Mission struct {
	Target board.Position
	Cost   int
}

func (m Mission) messagePayload() {}

// FullMission is the decree value once a leader and follower are chosen: a
// (target, leader, follower) triple. It is immutable once chosen.
type FullMission struct {
	Target     board.Position
	LeaderID   int
	FollowerID int
}

func (m FullMission) messagePayload() {}

// Key returns a canonical, stable encoding of m suitable as a learner tally
// key: identical values from different senders must hash equal.
func (m FullMission) Key() string {
	return fmt.Sprintf("%d,%d:%d:%d", m.Target.X, m.Target.Y, m.LeaderID, m.FollowerID)
}

// PrepareRequest is broadcast by a proposer starting an election.
type PrepareRequest struct {
	ProposalID ProposalID
	Mission    Mission
}

func (PrepareRequest) messagePayload() {}

// PrepareResponse is unicast by an acceptor back to a prepare's sender.
// ProposalID echoes the request being answered, so the proposer can match
// responses to its outstanding election. AcceptedID/Value carry the
// acceptor's own previously-accepted proposal, if any (Paxos value-pickup
// rule).
type PrepareResponse struct {
	ProposalID  ProposalID
	AcceptedID  *ProposalID
	Value       *FullMission
	FollowerBid int
}

func (PrepareResponse) messagePayload() {}

// AcceptRequest is broadcast by a proposer once it has collected a majority
// of promises and decided the final value.
type AcceptRequest struct {
	ProposalID ProposalID
	Value      FullMission
}

func (AcceptRequest) messagePayload() {}

// AcceptResponse is broadcast by an acceptor once it accepts a value; every
// learner tallies these.
type AcceptResponse struct {
	ProposalID ProposalID
	Value      FullMission
}

func (AcceptResponse) messagePayload() {}
