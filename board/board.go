package board

import (
	"math/rand"
	"sort"
)

// Board owns the tile grid and a position -> set(robot_id) index. Per the
// agent-ownership redesign, the Board stores robot ids rather than agent
// references; the simulation controller owns the agent array itself.
type Board struct {
	Width, Height int
	tiles         [][]Tile // indexed tiles[y][x]
	occupants     map[Position]map[int]struct{}
	depositRed    Position
	depositBlue   Position
}

// NewBoard constructs a board with the two team deposit tiles at the given
// positions (deposits are never sampled, and the two positions are not
// checked for collision), then scatters goldTotal units of gold onto plain
// tiles by repeated
// uniform sampling, skipping deposit positions and allowing re-increment of
// tiles that already carry gold.
func NewBoard(width, height int, depositRed, depositBlue Position, goldTotal int, rng *rand.Rand) *Board {
	b := &Board{
		Width:       width,
		Height:      height,
		occupants:   make(map[Position]map[int]struct{}),
		depositRed:  depositRed,
		depositBlue: depositBlue,
	}

	b.tiles = make([][]Tile, height)
	for y := range b.tiles {
		b.tiles[y] = make([]Tile, width)
		for x := range b.tiles[y] {
			b.tiles[y][x] = NewPlainTile()
		}
	}

	b.tiles[depositRed.Y][depositRed.X] = NewDepositTile(Red)
	b.tiles[depositBlue.Y][depositBlue.X] = NewDepositTile(Blue)

	placed := 0
	for placed < goldTotal {
		pos := Position{X: rng.Intn(width), Y: rng.Intn(height)}
		if pos == depositRed || pos == depositBlue {
			continue
		}
		b.tiles[pos.Y][pos.X].Add()
		placed++
	}

	return b
}

// InBounds reports whether pos lies within the grid.
func (b *Board) InBounds(pos Position) bool {
	return pos.X >= 0 && pos.X < b.Width && pos.Y >= 0 && pos.Y < b.Height
}

// Tile returns the tile at pos. Caller must ensure pos is in bounds.
func (b *Board) Tile(pos Position) Tile {
	return b.tiles[pos.Y][pos.X]
}

// DepositTileAt returns the DepositTile at pos, or nil if pos does not hold
// one.
func (b *Board) DepositTileAt(pos Position) *DepositTile {
	if d, ok := b.tiles[pos.Y][pos.X].(*DepositTile); ok {
		return d
	}
	return nil
}

// DepositPosition returns the home deposit position for team.
func (b *Board) DepositPosition(team Team) Position {
	if team == Red {
		return b.depositRed
	}
	return b.depositBlue
}

// AddAgent registers robotID as occupying pos.
func (b *Board) AddAgent(robotID int, pos Position) {
	set, ok := b.occupants[pos]
	if !ok {
		set = make(map[int]struct{})
		b.occupants[pos] = set
	}
	set[robotID] = struct{}{}
}

// RemoveAgent removes robotID from pos's occupant set, garbage-collecting
// the entry if it becomes empty.
func (b *Board) RemoveAgent(robotID int, pos Position) {
	set, ok := b.occupants[pos]
	if !ok {
		return
	}
	delete(set, robotID)
	if len(set) == 0 {
		delete(b.occupants, pos)
	}
}

// MoveAgent atomically relocates robotID from `from` to `to`.
func (b *Board) MoveAgent(robotID int, from, to Position) {
	b.RemoveAgent(robotID, from)
	b.AddAgent(robotID, to)
}

// AgentsAt returns the robot ids occupying pos, ascending by id so that
// tie-breaking elsewhere in the simulation is deterministic.
func (b *Board) AgentsAt(pos Position) []int {
	set, ok := b.occupants[pos]
	if !ok {
		return nil
	}
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
