package bus

import (
	"sort"

	"goldrush/board"
)

// delay is the fixed one-step message propagation delay.
const delay = 1

// Envelope is a single outbound message: unicast when Broadcast is false
// (delivered to ReceiverID), otherwise expanded to every member of the
// sender's team, including the sender itself.
type Envelope struct {
	SenderID   int
	ReceiverID int
	Broadcast  bool
	Step       int
	Payload    Payload
}

// Delivered is a message that has reached its recipient.
type Delivered struct {
	SenderID int
	Step     int
	Payload  Payload
}

// MessageBus stores a deliverable_step -> envelopes mapping. It is
// single-threaded and consulted only by the simulation controller.
type MessageBus struct {
	byStep      map[int]map[int][]Delivered
	teamMembers map[board.Team][]int
	teamOf      map[int]board.Team
}

// NewMessageBus builds a bus aware of each robot's team, so that broadcast
// envelopes can be expanded to every same-team agent (including the
// sender) on send.
func NewMessageBus(teamOf map[int]board.Team) *MessageBus {
	b := &MessageBus{
		byStep:      make(map[int]map[int][]Delivered),
		teamMembers: make(map[board.Team][]int),
		teamOf:      teamOf,
	}
	ids := make([]int, 0, len(teamOf))
	for id := range teamOf {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		t := teamOf[id]
		b.teamMembers[t] = append(b.teamMembers[t], id)
	}
	return b
}

// Send enqueues env, to be deliverable at env.Step + delay. Broadcast
// envelopes are expanded at send time into one unicast per member of the
// sender's team, including the sender: the original delivers a broadcast
// back to its own sender one step later (message_handler.get_messages
// expands over the full team id range, sender included), so we match that.
func (b *MessageBus) Send(env Envelope) {
	deliverStep := env.Step + delay

	if !env.Broadcast {
		b.enqueue(deliverStep, env.ReceiverID, Delivered{SenderID: env.SenderID, Step: env.Step, Payload: env.Payload})
		return
	}

	team := b.teamOf[env.SenderID]
	for _, receiverID := range b.teamMembers[team] {
		b.enqueue(deliverStep, receiverID, Delivered{SenderID: env.SenderID, Step: env.Step, Payload: env.Payload})
	}
}

func (b *MessageBus) enqueue(deliverStep, receiverID int, d Delivered) {
	byReceiver, ok := b.byStep[deliverStep]
	if !ok {
		byReceiver = make(map[int][]Delivered)
		b.byStep[deliverStep] = byReceiver
	}
	byReceiver[receiverID] = append(byReceiver[receiverID], d)
}

// Drain returns, and removes, every message deliverable at step, grouped by
// receiver id. Each receiver's slice preserves insertion order.
func (b *MessageBus) Drain(step int) map[int][]Delivered {
	byReceiver, ok := b.byStep[step]
	if !ok {
		return nil
	}
	delete(b.byStep, step)
	return byReceiver
}
