package agent

import (
	"goldrush/board"
	"goldrush/bus"
	"goldrush/direction"
)

// fanWindow returns the fan-shaped set of cells an agent facing `facing`
// from `pos` can see: the three cells {front-left, front, front-right} at
// distance 1, and the five cells spanning +-2 lateral at distance 2,
// rotated to the agent's current facing.
func fanWindow(pos board.Position, facing direction.Direction) []board.Position {
	fwd := facing.Offset()
	lat := facing.Right().Offset()

	cells := make([]board.Position, 0, 8)
	for _, l := range [...]int{-1, 0, 1} {
		cells = append(cells, board.Position{
			X: pos.X + fwd.DX*1 + lat.DX*l,
			Y: pos.Y + fwd.DY*1 + lat.DY*l,
		})
	}
	for _, l := range [...]int{-2, -1, 0, 1, 2} {
		cells = append(cells, board.Position{
			X: pos.X + fwd.DX*2 + lat.DX*l,
			Y: pos.Y + fwd.DY*2 + lat.DY*l,
		})
	}
	return cells
}

// Observe reports, for each in-bounds cell of the agent's fan window, its
// position, gold count, and the number of same-team agents present.
func Observe(b *board.Board, teamOf map[int]board.Team, pos board.Position, facing direction.Direction, team board.Team) []bus.ObservedCell {
	var out []bus.ObservedCell
	for _, cell := range fanWindow(pos, facing) {
		if !b.InBounds(cell) {
			continue
		}
		sameTeam := 0
		for _, id := range b.AgentsAt(cell) {
			if teamOf[id] == team {
				sameTeam++
			}
		}
		out = append(out, bus.ObservedCell{
			Pos:           cell,
			GoldCount:     b.Tile(cell).GoldCount(),
			SameTeamCount: sameTeam,
		})
	}
	return out
}
