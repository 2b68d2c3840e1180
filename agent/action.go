// Package agent implements the per-agent state machine: exploration
// scoring, pathfinding, Paxos-driven mission proposal, and the cooperative
// carry-and-deposit protocol.
package agent

import (
	"goldrush/board"
	"goldrush/direction"
)

// Action is the closed variant set an agent emits each step; every variant
// carries the acting robot's id.
type Action interface {
	RobotID() int
}

type TurnAction struct {
	Robot        int
	NewDirection direction.Direction
}

func (a TurnAction) RobotID() int { return a.Robot }

type MoveAction struct {
	Robot int
}

func (a MoveAction) RobotID() int { return a.Robot }

type PickupAction struct {
	Robot int
	Pos   board.Position
}

func (a PickupAction) RobotID() int { return a.Robot }

type WaitAction struct {
	Robot int
}

func (a WaitAction) RobotID() int { return a.Robot }
