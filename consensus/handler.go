package consensus

import "goldrush/board"

// ProposalTimeoutSteps is the fixed step budget a proposer is given to
// reach majority before its election is considered failed.
const ProposalTimeoutSteps = 75

type acceptResponseKey struct {
	senderID   int
	proposalID ProposalID
}

// Handler co-locates the proposer, acceptor, and learner roles for a single
// agent, exactly as the original hand-rolled Paxos does: every agent plays
// all three roles over its team's ten members.
type Handler struct {
	robotID  int
	teamSize int

	counter int

	// proposer state
	isProposing         bool
	proposalID          ProposalID
	candidateMission    Mission
	proposalStartStep   int
	promises            map[int]PrepareResponse
	wasPreempted        bool

	// acceptor state
	promisedID    *ProposalID
	acceptedID    *ProposalID
	acceptedValue *FullMission

	// learner state
	seenAcceptResponses map[acceptResponseKey]struct{}
	tally               map[string]map[int]struct{}
	consensusReached    bool
	finalValue          FullMission
}

// NewHandler returns a handler for robotID, one per agent, with a team of
// teamSize members (majority = teamSize/2 + 1).
func NewHandler(robotID, teamSize int) *Handler {
	return &Handler{
		robotID:             robotID,
		teamSize:            teamSize,
		promises:            make(map[int]PrepareResponse),
		seenAcceptResponses: make(map[acceptResponseKey]struct{}),
		tally:               make(map[string]map[int]struct{}),
	}
}

func (h *Handler) majority() int {
	return h.teamSize/2 + 1
}

// IsProposing reports whether this handler currently has an outstanding
// election.
func (h *Handler) IsProposing() bool { return h.isProposing }

// resetProposerState clears proposer-side bookkeeping. Used both when
// starting a fresh election and when preempted by a higher proposal.
func (h *Handler) resetProposerState() {
	h.isProposing = false
	h.promises = make(map[int]PrepareResponse)
}

// StartElection resets proposer state, allocates the next proposal id, and
// returns the PrepareRequest to broadcast.
func (h *Handler) StartElection(mission Mission, step int) PrepareRequest {
	h.resetProposerState()
	h.counter++
	h.proposalID = ProposalID{Counter: h.counter, RobotID: h.robotID}
	h.isProposing = true
	h.candidateMission = mission
	h.proposalStartStep = step
	return PrepareRequest{ProposalID: h.proposalID, Mission: mission}
}

// DidProposalFail reports whether the current election has exceeded its
// timeout budget without reaching majority.
func (h *Handler) DidProposalFail(step int) bool {
	return h.isProposing && step-h.proposalStartStep > ProposalTimeoutSteps
}

// AbandonProposal is called by the agent FSM when a proposal has timed out,
// clearing proposer state so a future election can start cleanly.
func (h *Handler) AbandonProposal() {
	h.resetProposerState()
}

// ConsumePreemption reports whether this handler's proposal was preempted
// by a higher-numbered proposal since the last call, clearing the flag.
func (h *Handler) ConsumePreemption() bool {
	p := h.wasPreempted
	h.wasPreempted = false
	return p
}

// HandlePrepareRequest implements the acceptor role for an incoming
// PrepareRequest. ok is false when the request must be silently dropped
// (paxos_id below the current promise).
func (h *Handler) HandlePrepareRequest(req PrepareRequest, selfPos board.Position) (resp PrepareResponse, ok bool) {
	if h.promisedID != nil && req.ProposalID.Less(*h.promisedID) {
		return PrepareResponse{}, false
	}

	id := req.ProposalID
	h.promisedID = &id

	if h.isProposing && h.proposalID.Less(req.ProposalID) {
		h.wasPreempted = true
		h.resetProposerState()
	}

	followerBid := board.Manhattan(selfPos, req.Mission.Target)

	resp = PrepareResponse{
		ProposalID:  req.ProposalID,
		AcceptedID:  h.acceptedID,
		Value:       h.acceptedValue,
		FollowerBid: followerBid,
	}
	return resp, true
}

// HandlePrepareResponse implements the proposer role for an incoming
// PrepareResponse. When majority is reached it returns the AcceptRequest to
// broadcast.
func (h *Handler) HandlePrepareResponse(senderID int, resp PrepareResponse) (req AcceptRequest, reachedMajority bool) {
	if !h.isProposing || resp.ProposalID != h.proposalID {
		return AcceptRequest{}, false
	}

	h.promises[senderID] = resp
	if len(h.promises) < h.majority() {
		return AcceptRequest{}, false
	}

	h.isProposing = false

	value := FullMission{
		Target:     h.candidateMission.Target,
		LeaderID:   h.robotID,
		FollowerID: h.pickFollower(),
	}

	// Value-pickup rule: if any acceptor reported a previously-accepted
	// value, adopt the one with the highest accepted-id instead of our own.
	var best *PrepareResponse
	for senderID, p := range h.promises {
		if p.Value == nil {
			continue
		}
		if best == nil || best.AcceptedID == nil || (p.AcceptedID != nil && best.AcceptedID.Less(*p.AcceptedID)) {
			pCopy := p
			best = &pCopy
			_ = senderID
		}
	}
	if best != nil {
		value = *best.Value
	}

	return AcceptRequest{ProposalID: h.proposalID, Value: value}, true
}

// pickFollower selects the acceptor with the lowest follower_bid among
// collected promises, breaking ties by lowest sender id.
func (h *Handler) pickFollower() int {
	bestSender := -1
	bestBid := 0
	for senderID, p := range h.promises {
		if bestSender == -1 || p.FollowerBid < bestBid || (p.FollowerBid == bestBid && senderID < bestSender) {
			bestSender = senderID
			bestBid = p.FollowerBid
		}
	}
	return bestSender
}

// HandleAcceptRequest implements the acceptor role for an incoming
// AcceptRequest. ok is false when the request must be rejected (no reply).
func (h *Handler) HandleAcceptRequest(req AcceptRequest) (resp AcceptResponse, ok bool) {
	if h.promisedID != nil && req.ProposalID.Less(*h.promisedID) {
		return AcceptResponse{}, false
	}

	id := req.ProposalID
	h.promisedID = &id
	h.acceptedID = &id
	value := req.Value
	h.acceptedValue = &value

	return AcceptResponse{ProposalID: req.ProposalID, Value: req.Value}, true
}

// HandleAcceptResponse implements the learner role. Duplicate responses
// from the same (sender, proposal id) are deduplicated before tallying.
func (h *Handler) HandleAcceptResponse(senderID int, resp AcceptResponse) (reached bool, value FullMission) {
	key := acceptResponseKey{senderID: senderID, proposalID: resp.ProposalID}
	if _, seen := h.seenAcceptResponses[key]; seen {
		return h.consensusReached, h.finalValue
	}
	h.seenAcceptResponses[key] = struct{}{}

	valueKey := resp.Value.Key()
	voters, ok := h.tally[valueKey]
	if !ok {
		voters = make(map[int]struct{})
		h.tally[valueKey] = voters
	}
	voters[senderID] = struct{}{}

	if !h.consensusReached && len(voters) >= h.majority() {
		h.consensusReached = true
		h.finalValue = resp.Value
	}

	return h.consensusReached, h.finalValue
}

// ConsensusReached reports the latched outcome, if any.
func (h *Handler) ConsensusReached() (bool, FullMission) {
	return h.consensusReached, h.finalValue
}

// Reset clears all proposer, acceptor, and learner state so the handler can
// serve a fresh single-decree election for the team's next mission. The
// proposal counter is never reset: it is this agent's all-time monotonic
// sequence, so proposal ids it mints remain unique even across rounds whose
// acceptor state has been cleared.
func (h *Handler) Reset() {
	h.resetProposerState()
	h.wasPreempted = false
	h.promisedID = nil
	h.acceptedID = nil
	h.acceptedValue = nil
	h.seenAcceptResponses = make(map[acceptResponseKey]struct{})
	h.tally = make(map[string]map[int]struct{})
	h.consensusReached = false
	h.finalValue = FullMission{}
}
