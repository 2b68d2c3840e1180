package agent

import (
	"goldrush/board"
	"goldrush/bus"
)

// SensedTile is an agent's local, possibly-stale belief about one cell.
type SensedTile struct {
	LastSeenStep  int
	GoldCount     int
	SameTeamCount int
}

// updateSensedTiles folds a batch of observed cells into the agent's local
// map, rejecting stale reports: a report older than the locally recorded
// step for that position is ignored.
func (a *Agent) updateSensedTiles(step int, cells []bus.ObservedCell) {
	for _, c := range cells {
		existing, ok := a.sensedMap[c.Pos]
		if ok && step < existing.LastSeenStep {
			continue
		}
		a.sensedMap[c.Pos] = &SensedTile{
			LastSeenStep:  step,
			GoldCount:     c.GoldCount,
			SameTeamCount: c.SameTeamCount,
		}
	}
}

// coldnessAt returns step - last_seen_step for pos. A cell never observed
// is treated as if last seen at step 0, so coldness simply grows with the
// simulation's age rather than forcing an immediate, unconditional win.
func (a *Agent) coldnessAt(step int, pos board.Position) int {
	tile, ok := a.sensedMap[pos]
	if !ok {
		return step
	}
	return step - tile.LastSeenStep
}

// decrementSensedGold records this agent's own pickup at pos by
// decrementing its locally sensed gold count by one, floored at 0, rather
// than overwriting it outright — a multi-gold tile (spec allows
// gold_count > 1) shouldn't look fully exhausted after a single pickup.
// Mirrors the original's self.sensed_map[self.pos].gold_count -= 1, called
// by a robot standing on the tile it just picked up from. Returns the
// resulting count.
func (a *Agent) decrementSensedGold(step int, pos board.Position) int {
	count := 0
	sameTeam := 0
	if existing, ok := a.sensedMap[pos]; ok {
		count = existing.GoldCount
		sameTeam = existing.SameTeamCount
	}
	if count > 0 {
		count--
	}
	a.sensedMap[pos] = &SensedTile{LastSeenStep: step, GoldCount: count, SameTeamCount: sameTeam}
	return count
}

// receiveGoldConsumed folds a received GoldConsumed report into the local
// sensed map, decrementing the existing count by one (floored at 0).
// Mirrors the original's guarded update ("if pos in self.sensed_map"): a
// position never locally sensed is left untouched rather than being
// initialized from a secondhand report alone, so it still ages normally
// in coldnessAt until directly observed.
func (a *Agent) receiveGoldConsumed(step int, pos board.Position) {
	existing, ok := a.sensedMap[pos]
	if !ok {
		return
	}
	if existing.GoldCount > 0 {
		existing.GoldCount--
	}
	existing.LastSeenStep = step
}

// sensedAt returns the agent's current belief about pos, or the zero value
// if never observed.
func (a *Agent) sensedAt(pos board.Position) (SensedTile, bool) {
	tile, ok := a.sensedMap[pos]
	if !ok {
		return SensedTile{}, false
	}
	return *tile, true
}
