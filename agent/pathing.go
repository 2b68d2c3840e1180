package agent

import (
	"goldrush/board"
	"goldrush/direction"
)

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// axisOrder decides which axis (horizontal first, or vertical first) a
// greedy-Manhattan path should resolve first: the axis already aligned
// with facing, to save a turn, otherwise the axis with the larger
// displacement.
func axisOrder(dx, dy int, facing direction.Direction) (horizontalFirst bool) {
	facingAlongX := (dx > 0 && facing == direction.East) || (dx < 0 && facing == direction.West)
	facingAlongY := (dy > 0 && facing == direction.South) || (dy < 0 && facing == direction.North)
	switch {
	case dx == 0:
		return false
	case dy == 0:
		return true
	case facingAlongX:
		return true
	case facingAlongY:
		return false
	default:
		return absInt(dx) >= absInt(dy)
	}
}

// firstFacing returns the direction a greedy-Manhattan path from `from` to
// `to` would turn to first, given the mover is currently facing `facing`.
// Returns facing unchanged if no movement is required.
func firstFacing(from, to board.Position, facing direction.Direction) direction.Direction {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if dx == 0 && dy == 0 {
		return facing
	}
	if axisOrder(dx, dy, facing) {
		if dx != 0 {
			if dx > 0 {
				return direction.East
			}
			return direction.West
		}
	} else if dy != 0 {
		if dy > 0 {
			return direction.South
		}
		return direction.North
	}
	// The chosen-first axis has no displacement (shouldn't normally occur
	// given axisOrder's dx==0/dy==0 short-circuits), fall back to the other.
	if dy > 0 {
		return direction.South
	}
	if dy < 0 {
		return direction.North
	}
	if dx > 0 {
		return direction.East
	}
	return direction.West
}

// planPath lays out a greedy-Manhattan route from a.Pos to `to` as a queue
// of Turn/Move actions: prefer the axis already aligned with the agent's
// facing, else turn toward the larger displacement first.
func (a *Agent) planPath(to board.Position) []Action {
	dx := to.X - a.Pos.X
	dy := to.Y - a.Pos.Y
	facing := a.Facing
	var steps []Action

	emit := func(delta int, positive, negative direction.Direction) {
		if delta == 0 {
			return
		}
		dir := positive
		if delta < 0 {
			dir = negative
		}
		if facing != dir {
			steps = append(steps, TurnAction{Robot: a.RobotID, NewDirection: dir})
			facing = dir
		}
		for i := 0; i < absInt(delta); i++ {
			steps = append(steps, MoveAction{Robot: a.RobotID})
		}
	}

	if axisOrder(dx, dy, a.Facing) {
		emit(dx, direction.East, direction.West)
		emit(dy, direction.South, direction.North)
	} else {
		emit(dy, direction.South, direction.North)
		emit(dx, direction.East, direction.West)
	}
	return steps
}

// drainPath pops and returns the next queued path action, or Wait if the
// path is empty.
func (a *Agent) drainPath() Action {
	if len(a.path) == 0 {
		return WaitAction{Robot: a.RobotID}
	}
	next := a.path[0]
	a.path = a.path[1:]
	return next
}
