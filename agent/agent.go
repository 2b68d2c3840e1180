package agent

import (
	"goldrush/board"
	"goldrush/bus"
	"goldrush/consensus"
	"goldrush/direction"
)

// State is one of the five FSM states an agent occupies.
type State int

const (
	Exploring State = iota
	Proposing
	Executing
	AwaitingPartner
	Delivering
)

func (s State) String() string {
	switch s {
	case Exploring:
		return "Exploring"
	case Proposing:
		return "Proposing"
	case Executing:
		return "Executing"
	case AwaitingPartner:
		return "AwaitingPartner"
	case Delivering:
		return "Delivering"
	default:
		return "Unknown"
	}
}

// Outbound is a message an agent wants the controller to enqueue on the
// bus on its behalf.
type Outbound struct {
	Broadcast  bool
	ReceiverID int
	Payload    bus.Payload
}

// defaultAwaitingPartnerTimeout mirrors the original's fixed countdown.
const defaultAwaitingPartnerTimeout = 500

// Agent is one robot's full coordination state: FSM state, local map,
// Paxos handler, and in-flight pairing/transport bookkeeping. Position,
// facing, and partner id are mutated by the simulation controller during
// the Execute and Deposit phases; Step reads them, and also sets Facing
// itself when it emits a Turn while awaiting a partner.
type Agent struct {
	RobotID int
	Team    board.Team
	Width   int
	Height  int

	Pos        board.Position
	Facing     direction.Direction
	PartnerID  *int
	DepositPos board.Position

	State   State
	Weights Weights

	sensedMap map[board.Position]*SensedTile
	path      []Action

	handler        *consensus.Handler
	currentMission *consensus.FullMission
	isLeader       bool

	failedProposalCount int
	backoffUntilStep    int

	awaitingPartnerTimer int
	followerPendingTurn  *direction.Direction

	teamSize int
}

// New constructs an agent at the given starting pose. teamSize is the
// Paxos team size (majority = teamSize/2 + 1).
func New(robotID int, team board.Team, width, height int, startPos board.Position, startFacing direction.Direction, depositPos board.Position, teamSize int) *Agent {
	return &Agent{
		RobotID:    robotID,
		Team:       team,
		Width:      width,
		Height:     height,
		Pos:        startPos,
		Facing:     startFacing,
		DepositPos: depositPos,
		State:      Exploring,
		Weights:    DefaultWeights(),
		sensedMap:  make(map[board.Position]*SensedTile),
		handler:    consensus.NewHandler(robotID, teamSize),
		teamSize:   teamSize,
	}
}

func (a *Agent) inBackoff(step int) bool {
	return step < a.backoffUntilStep
}

func pow2Capped(exp, cap int) int {
	if exp <= 0 {
		return 1
	}
	v := 1
	for i := 0; i < exp; i++ {
		v *= 2
		if v >= cap {
			return cap
		}
	}
	return v
}

func (a *Agent) recordProposalTimeout(step int) {
	a.failedProposalCount++
	backoff := pow2Capped(a.failedProposalCount, 50)
	a.backoffUntilStep = step + backoff
}

func (a *Agent) recordPreemption(step int) {
	a.failedProposalCount++
	backoff := pow2Capped(a.failedProposalCount-1, 30)
	a.backoffUntilStep = step + backoff
}

// Step is the heart of the FSM: integrate inbound messages, check for a
// newly-reached consensus outcome, broadcast this step's observation, then
// dispatch on the current state.
func (a *Agent) Step(step int, observed []bus.ObservedCell, inbox []bus.Delivered) (Action, []Outbound) {
	var outbox []Outbound

	a.processMessages(step, inbox, &outbox)
	a.checkConsensusReached()
	a.updateSensedTiles(step, observed)

	outbox = append(outbox, Outbound{Broadcast: true, Payload: bus.Observations{Cells: observed}})

	var action Action
	switch a.State {
	case Exploring:
		action = a.stepExploring(step, &outbox)
	case Proposing:
		action = a.stepProposing(step)
	case Executing:
		action = a.stepExecuting()
	case AwaitingPartner:
		action = a.stepAwaitingPartner(step, &outbox)
	case Delivering:
		action = a.stepDelivering(&outbox)
	default:
		action = WaitAction{Robot: a.RobotID}
	}
	return action, outbox
}

func (a *Agent) checkConsensusReached() {
	reached, value := a.handler.ConsensusReached()
	if !reached || a.currentMission != nil {
		return
	}
	if value.LeaderID != a.RobotID && value.FollowerID != a.RobotID {
		return
	}
	if a.State == AwaitingPartner || a.State == Delivering {
		return
	}
	v := value
	a.currentMission = &v
	a.isLeader = value.LeaderID == a.RobotID
	a.State = Executing
	a.path = a.planPath(value.Target)
}

func (a *Agent) stepExploring(step int, outbox *[]Outbound) Action {
	if !a.inBackoff(step) && a.currentMission == nil {
		if target, cost, ok := a.findBestMission(step); ok {
			mission := consensus.Mission{Target: target, Cost: cost}
			req := a.handler.StartElection(mission, step)
			*outbox = append(*outbox, Outbound{Broadcast: true, Payload: req})
			a.State = Proposing
			a.path = a.planPath(target)
			return a.drainPath()
		}
	}

	target := a.decideExplorationTarget(step)
	a.path = a.planPath(target)
	return a.drainPath()
}

func (a *Agent) stepProposing(step int) Action {
	if a.handler.ConsumePreemption() {
		a.recordPreemption(step)
		a.State = Exploring
		a.path = nil
		return WaitAction{Robot: a.RobotID}
	}
	if a.handler.DidProposalFail(step) {
		a.handler.AbandonProposal()
		a.recordProposalTimeout(step)
		a.State = Exploring
		a.path = nil
		return WaitAction{Robot: a.RobotID}
	}
	return a.drainPath()
}

func (a *Agent) stepExecuting() Action {
	if len(a.path) == 0 {
		a.State = AwaitingPartner
		a.awaitingPartnerTimer = defaultAwaitingPartnerTimeout
		return WaitAction{Robot: a.RobotID}
	}
	return a.drainPath()
}

func (a *Agent) stepAwaitingPartner(step int, outbox *[]Outbound) Action {
	if a.PartnerID != nil {
		*outbox = append(*outbox, Outbound{Broadcast: true, Payload: bus.GoldConsumed{Pos: a.Pos}})
		if a.isLeader {
			remaining := a.decrementSensedGold(step, a.Pos)
			sameTeam := 2
			*outbox = append(*outbox, Outbound{Broadcast: true, Payload: bus.Observations{
				Cells: []bus.ObservedCell{{Pos: a.Pos, GoldCount: remaining, SameTeamCount: sameTeam}},
			}})
		}
		a.State = Delivering
		a.path = a.planPath(a.DepositPos)
		return a.drainPath()
	}

	a.awaitingPartnerTimer--
	if a.awaitingPartnerTimer <= 0 {
		*outbox = append(*outbox, Outbound{Broadcast: true, Payload: bus.MissionAbort{}})
		a.resetMission()
		return WaitAction{Robot: a.RobotID}
	}

	if a.isLeader {
		required := firstFacing(a.Pos, a.DepositPos, a.Facing)
		if required != a.Facing {
			follower := a.currentMission.FollowerID
			*outbox = append(*outbox, Outbound{ReceiverID: follower, Payload: bus.Turn{NewDirection: required}})
			a.Facing = required
			return TurnAction{Robot: a.RobotID, NewDirection: required}
		}
		return PickupAction{Robot: a.RobotID, Pos: a.Pos}
	}

	if a.followerPendingTurn != nil {
		dir := *a.followerPendingTurn
		a.followerPendingTurn = nil
		a.Facing = dir
		return TurnAction{Robot: a.RobotID, NewDirection: dir}
	}
	return PickupAction{Robot: a.RobotID, Pos: a.Pos}
}

func (a *Agent) stepDelivering(outbox *[]Outbound) Action {
	if a.PartnerID == nil {
		atDeposit := a.Pos == a.DepositPos
		if !atDeposit {
			*outbox = append(*outbox, Outbound{Broadcast: true, Payload: bus.MissionAbort{}})
			a.resetMission()
			return WaitAction{Robot: a.RobotID}
		}
		if a.isLeader {
			*outbox = append(*outbox, Outbound{Broadcast: true, Payload: bus.MissionComplete{}})
		}
		a.resetMission()
		return WaitAction{Robot: a.RobotID}
	}
	return a.drainPath()
}

// resetMission clears mission/consensus bookkeeping and returns the agent
// to exploring.
func (a *Agent) resetMission() {
	a.currentMission = nil
	a.isLeader = false
	a.path = nil
	a.handler.Reset()
	a.State = Exploring
}

// processMessages folds delivered messages into local state: observation
// updates, Turn instructions for a follower, and mission-round resets on
// MissionComplete/MissionAbort. Paxos payloads are routed to the handler,
// whose replies (if any) are appended to outbox.
func (a *Agent) processMessages(step int, inbox []bus.Delivered, outbox *[]Outbound) {
	for _, d := range inbox {
		switch p := d.Payload.(type) {
		case bus.Observations:
			a.updateSensedTiles(d.Step, p.Cells)
		case bus.GoldConsumed:
			a.receiveGoldConsumed(d.Step, p.Pos)
		case bus.Turn:
			dir := p.NewDirection
			a.followerPendingTurn = &dir
		case bus.MissionAbort:
			if a.currentMission != nil {
				a.resetMission()
			}
		case bus.MissionComplete:
			if a.currentMission != nil {
				a.resetMission()
			}
		case consensus.PrepareRequest:
			if resp, ok := a.handler.HandlePrepareRequest(p, a.Pos); ok {
				*outbox = append(*outbox, Outbound{ReceiverID: d.SenderID, Payload: resp})
			}
		case consensus.PrepareResponse:
			if req, ok := a.handler.HandlePrepareResponse(d.SenderID, p); ok {
				*outbox = append(*outbox, Outbound{Broadcast: true, Payload: req})
			}
		case consensus.AcceptRequest:
			if resp, ok := a.handler.HandleAcceptRequest(p); ok {
				*outbox = append(*outbox, Outbound{Broadcast: true, Payload: resp})
			}
		case consensus.AcceptResponse:
			a.handler.HandleAcceptResponse(d.SenderID, p)
		}
	}
}
