// Package simulation implements the discrete-step pipeline that drives the
// world: message delivery, per-agent action collection, conflict
// resolution, execution, and deposit handling.
package simulation

import (
	"math/rand"

	"goldrush/agent"
	"goldrush/board"
	"goldrush/bus"
	"goldrush/direction"
)

// TeamConfig describes one team's roster.
type TeamConfig struct {
	Team       board.Team
	Size       int
	DepositPos board.Position
}

// Config is everything NewController needs to build a world.
type Config struct {
	Width, Height int
	GoldTotal     int
	Red, Blue     TeamConfig
	Weights       agent.Weights
}

// Controller owns the board, the agent array, and the message bus — the
// three structures the step pipeline mutates each tick.
type Controller struct {
	Board *board.Board
	Bus   *bus.MessageBus

	agents []*agent.Agent
	teamOf map[int]board.Team
	step   int

	goldTotal int
}

// NewController builds a fresh world: board with placed deposits and gold,
// an agent per roster slot at a random starting pose, and a message bus
// aware of team membership.
func NewController(cfg Config, rng *rand.Rand) *Controller {
	b := board.NewBoard(cfg.Width, cfg.Height, cfg.Red.DepositPos, cfg.Blue.DepositPos, cfg.GoldTotal, rng)

	teamOf := make(map[int]board.Team)
	var agents []*agent.Agent

	place := func(team board.Team, size int, depositPos board.Position) {
		for i := 0; i < size; i++ {
			robotID := len(agents)
			teamOf[robotID] = team
			pos := board.Position{X: rng.Intn(cfg.Width), Y: rng.Intn(cfg.Height)}
			facing := direction.Direction(rng.Intn(4))
			a := agent.New(robotID, team, cfg.Width, cfg.Height, pos, facing, depositPos, size)
			if cfg.Weights != (agent.Weights{}) {
				a.Weights = cfg.Weights
			}
			agents = append(agents, a)
			b.AddAgent(robotID, pos)
		}
	}
	place(cfg.Red.Team, cfg.Red.Size, cfg.Red.DepositPos)
	place(cfg.Blue.Team, cfg.Blue.Size, cfg.Blue.DepositPos)

	return &Controller{
		Board:     b,
		Bus:       bus.NewMessageBus(teamOf),
		agents:    agents,
		teamOf:    teamOf,
		goldTotal: cfg.GoldTotal,
	}
}

// Step runs exactly one iteration of the pipeline: deliver -> collect ->
// enqueue -> resolve -> execute -> deposit -> advance.
func (c *Controller) Step() {
	delivered := c.Bus.Drain(c.step)

	var actions []agent.Action
	type outboundWithSender struct {
		senderID int
		out      agent.Outbound
	}
	var outbound []outboundWithSender

	for _, ag := range c.agents {
		observed := agent.Observe(c.Board, c.teamOf, ag.Pos, ag.Facing, ag.Team)
		action, outbox := ag.Step(c.step, observed, delivered[ag.RobotID])
		actions = append(actions, action)
		for _, o := range outbox {
			outbound = append(outbound, outboundWithSender{senderID: ag.RobotID, out: o})
		}
	}

	for _, ob := range outbound {
		c.Bus.Send(bus.Envelope{
			SenderID:   ob.senderID,
			ReceiverID: ob.out.ReceiverID,
			Broadcast:  ob.out.Broadcast,
			Step:       c.step,
			Payload:    ob.out.Payload,
		})
	}

	res := c.resolveConflicts(actions)
	c.execute(res)
	c.handleDeposits()

	c.step++
}

// CurrentStep returns the step counter (the step about to run).
func (c *Controller) CurrentStep() int { return c.step }

// Agents returns the controller's agent roster, indexed by robot id.
func (c *Controller) Agents() []*agent.Agent { return c.agents }

// DepositTotals returns the current red and blue deposit sink totals.
func (c *Controller) DepositTotals() (red, blue int) {
	redDep := c.Board.DepositTileAt(c.Board.DepositPosition(board.Red))
	blueDep := c.Board.DepositTileAt(c.Board.DepositPosition(board.Blue))
	return redDep.SinkTotal(), blueDep.SinkTotal()
}

// GoldTotal returns the total gold the board was seeded with.
func (c *Controller) GoldTotal() int { return c.goldTotal }
