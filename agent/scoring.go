package agent

import (
	"math"

	"goldrush/board"
	"goldrush/direction"
)

// Weights are the exploration scoring coefficients. Suggested starting
// values: Coldness=5, Gold=10, Dist=50, Density=150.
type Weights struct {
	Coldness float64
	Gold     float64
	Dist     float64
	Density  float64
}

// DefaultWeights returns the weights suggested by the original scoring
// scheme.
func DefaultWeights() Weights {
	return Weights{Coldness: 5, Gold: 10, Dist: 50, Density: 150}
}

// turnPenalty is 0 for a cell directly ahead along facing, 1 for a cell
// reachable with a single turn, 2 otherwise.
func turnPenalty(facing direction.Direction, from, to board.Position) int {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if dx == 0 && dy == 0 {
		return 0
	}
	primary := direction.FacingFor(dx, dy)
	if primary == facing {
		return 0
	}
	if primary == facing.Left() || primary == facing.Right() {
		return 1
	}
	return 2
}

// decideExplorationTarget scores every cell of the board and returns the
// argmax, with the agent's own cell forced to -inf and ties breaking to the
// first encountered in row-major order.
func (a *Agent) decideExplorationTarget(step int) board.Position {
	best := board.Position{X: a.Pos.X, Y: a.Pos.Y}
	bestScore := math.Inf(-1)

	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			cell := board.Position{X: x, Y: y}
			var score float64
			if cell == a.Pos {
				score = math.Inf(-1)
			} else {
				coldness := a.coldnessAt(step, cell)
				sensed, _ := a.sensedAt(cell)
				cost := board.Manhattan(a.Pos, cell) + turnPenalty(a.Facing, a.Pos, cell)
				score = a.Weights.Coldness*float64(coldness) +
					a.Weights.Gold*float64(sensed.GoldCount) -
					a.Weights.Dist*float64(cost) -
					a.Weights.Density*float64(sensed.SameTeamCount)
			}
			if score > bestScore {
				bestScore = score
				best = cell
			}
		}
	}
	return best
}

// missionCandidateMaxAge is the freshness bound (in steps) a sensed gold
// tile must satisfy to be considered as a mission candidate.
const missionCandidateMaxAge = 100

// findBestMission scans locally-known sensed tiles with gold and recent
// enough sightings, minimizing distance-to-tile plus tile-to-deposit. ok is
// false when no candidate qualifies.
func (a *Agent) findBestMission(step int) (target board.Position, cost int, ok bool) {
	bestCost := math.MaxInt32
	for pos, tile := range a.sensedMap {
		if tile.GoldCount <= 0 {
			continue
		}
		if step-tile.LastSeenStep > missionCandidateMaxAge {
			continue
		}
		c := board.Manhattan(a.Pos, pos) + board.Manhattan(pos, a.DepositPos)
		if c < bestCost {
			bestCost = c
			target = pos
			ok = true
		}
	}
	return target, bestCost, ok
}
