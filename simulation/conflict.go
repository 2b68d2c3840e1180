package simulation

import (
	"sort"

	"goldrush/agent"
	"goldrush/board"
)

// pairKey canonically identifies a partnership by its two robot ids,
// ascending, so lookups agree regardless of which partner is asked.
type pairKey struct {
	a, b int
}

func makePairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// pickupGroup accumulates, per target position, the non-partnered agents
// of each team attempting a Pickup there this step.
type pickupGroup struct {
	pos    board.Position
	redIDs []int
	blueIDs []int
}

// resolved is the outcome of conflict resolution: the final action list to
// execute, plus which positions had a pickup pair form (and which team)
// for the execute phase to consume.
type resolved struct {
	actions      []agent.Action
	pickupPairs  []pickupPair
	droppedGoldAt []board.Position
	dissolved     []pairKey
}

type pickupPair struct {
	pos     board.Position
	ids     [2]int
}

// resolveConflicts classifies the step's collected actions per spec
// section 4.5 and returns the filtered, validated action list along with
// bookkeeping the execute phase needs (pickup pairings, partnerships
// dissolved by disagreement, tiles that gained dropped gold).
func (c *Controller) resolveConflicts(actions []agent.Action) resolved {
	var other []agent.Action
	var validMoves []agent.Action
	pickupsByPos := make(map[board.Position]*pickupGroup)
	pairedByKey := make(map[pairKey][]agent.Action)

	for _, act := range actions {
		ag := c.agents[act.RobotID()]
		if ag.PartnerID != nil {
			key := makePairKey(ag.RobotID, *ag.PartnerID)
			pairedByKey[key] = append(pairedByKey[key], act)
			continue
		}

		switch a := act.(type) {
		case agent.MoveAction:
			to := c.destination(ag)
			if c.Board.InBounds(to) {
				validMoves = append(validMoves, act)
			}
			// Out-of-bounds moves are dropped silently.
		case agent.PickupAction:
			g, ok := pickupsByPos[a.Pos]
			if !ok {
				g = &pickupGroup{pos: a.Pos}
				pickupsByPos[a.Pos] = g
			}
			if ag.Team == board.Red {
				g.redIDs = append(g.redIDs, ag.RobotID)
			} else {
				g.blueIDs = append(g.blueIDs, ag.RobotID)
			}
		default:
			other = append(other, act)
		}
	}

	var validPickups []agent.Action
	var pairs []pickupPair

	positions := make([]board.Position, 0, len(pickupsByPos))
	for pos := range pickupsByPos {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Y != positions[j].Y {
			return positions[i].Y < positions[j].Y
		}
		return positions[i].X < positions[j].X
	})

	for _, pos := range positions {
		g := pickupsByPos[pos]
		gold := c.Board.Tile(pos).GoldCount()
		accepted := acceptedPickupTeams(len(g.redIDs), len(g.blueIDs), gold)

		if accepted.red {
			for _, id := range g.redIDs {
				validPickups = append(validPickups, agent.PickupAction{Robot: id, Pos: pos})
			}
			pairs = append(pairs, pickupPair{pos: pos, ids: [2]int{g.redIDs[0], g.redIDs[1]}})
		}
		if accepted.blue {
			for _, id := range g.blueIDs {
				validPickups = append(validPickups, agent.PickupAction{Robot: id, Pos: pos})
			}
			pairs = append(pairs, pickupPair{pos: pos, ids: [2]int{g.blueIDs[0], g.blueIDs[1]}})
		}
	}

	var validPaired []agent.Action
	var droppedGoldAt []board.Position
	var dissolved []pairKey

	pairKeys := make([]pairKey, 0, len(pairedByKey))
	for k := range pairedByKey {
		pairKeys = append(pairKeys, k)
	}
	sort.Slice(pairKeys, func(i, j int) bool {
		if pairKeys[i].a != pairKeys[j].a {
			return pairKeys[i].a < pairKeys[j].a
		}
		return pairKeys[i].b < pairKeys[j].b
	})

	for _, key := range pairKeys {
		acts := pairedByKey[key]
		if len(acts) != 2 {
			// One partner didn't act this step (shouldn't happen in
			// practice); pass through whatever we have, bounds-filtered.
			for _, a := range acts {
				if !c.isDroppableOOB(a) {
					validPaired = append(validPaired, a)
				}
			}
			continue
		}

		a1, a2 := acts[0], acts[1]
		if isPickup(a1) || isPickup(a2) {
			continue // partners do not pick up while carrying; drop both
		}

		sameVariant := sameActionVariant(a1, a2)
		sameFacing := true
		_, a1IsMove := a1.(agent.MoveAction)
		_, a2IsMove := a2.(agent.MoveAction)
		if a1IsMove && a2IsMove {
			sameFacing = c.agents[a1.RobotID()].Facing == c.agents[a2.RobotID()].Facing
		}

		if !sameVariant || !sameFacing {
			droppedGoldAt = append(droppedGoldAt, c.agents[key.a].Pos)
			dissolved = append(dissolved, key)
		}

		for _, a := range []agent.Action{a1, a2} {
			if !c.isDroppableOOB(a) {
				validPaired = append(validPaired, a)
			}
		}
	}

	var all []agent.Action
	all = append(all, other...)
	all = append(all, validMoves...)
	all = append(all, validPickups...)
	all = append(all, validPaired...)

	return resolved{actions: all, pickupPairs: pairs, droppedGoldAt: droppedGoldAt, dissolved: dissolved}
}

type acceptedTeams struct {
	red, blue bool
}

// acceptedPickupTeams implements the pickup validation table of spec 4.5.
func acceptedPickupTeams(redCount, blueCount, gold int) acceptedTeams {
	switch {
	case redCount == 2 && blueCount == 2 && gold >= 2:
		return acceptedTeams{red: true, blue: true}
	case redCount == 2 && blueCount != 2 && gold >= 1:
		return acceptedTeams{red: true}
	case redCount != 2 && blueCount == 2 && gold >= 1:
		return acceptedTeams{blue: true}
	default:
		return acceptedTeams{}
	}
}

func isPickup(a agent.Action) bool {
	_, ok := a.(agent.PickupAction)
	return ok
}

func sameActionVariant(a, b agent.Action) bool {
	switch a.(type) {
	case agent.TurnAction:
		_, ok := b.(agent.TurnAction)
		return ok
	case agent.MoveAction:
		_, ok := b.(agent.MoveAction)
		return ok
	case agent.WaitAction:
		_, ok := b.(agent.WaitAction)
		return ok
	case agent.PickupAction:
		_, ok := b.(agent.PickupAction)
		return ok
	}
	return false
}

// destination returns where a Move action would take ag, given its current
// facing.
func (c *Controller) destination(ag *agent.Agent) board.Position {
	off := ag.Facing.Offset()
	return board.Position{X: ag.Pos.X + off.DX, Y: ag.Pos.Y + off.DY}
}

// isDroppableOOB reports whether act is a Move that would leave the board,
// which must be filtered out even from an otherwise-valid paired group.
func (c *Controller) isDroppableOOB(act agent.Action) bool {
	if _, ok := act.(agent.MoveAction); !ok {
		return false
	}
	ag := c.agents[act.RobotID()]
	return !c.Board.InBounds(c.destination(ag))
}
