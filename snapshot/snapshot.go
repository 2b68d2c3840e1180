// Package snapshot converts simulation state into the wire shape promised
// to the Visualizer collaborator: a 2-D array indexed state[y][x] = (agents
// at that position, tile). No rendering, only the data shape.
package snapshot

import (
	"goldrush/board"
	"goldrush/direction"
	"goldrush/simulation"
)

// AgentView is the wire-friendly projection of an agent's pose.
type AgentView struct {
	RobotID   int               `json:"robot_id"`
	Team      board.Team        `json:"team"`
	Facing    direction.Direction `json:"facing"`
	PartnerID *int              `json:"partner_id,omitempty"`
}

// TileView is the wire-friendly projection of a tile.
type TileView struct {
	GoldCount    int        `json:"gold_count"`
	IsDeposit    bool       `json:"is_deposit"`
	DepositOwner board.Team `json:"deposit_owner,omitempty"`
	SinkTotal    int        `json:"sink_total,omitempty"`
}

// Cell is one position's full state.
type Cell struct {
	Agents []AgentView `json:"agents"`
	Tile   TileView    `json:"tile"`
}

// Snapshot is the full external view of a simulation step.
type Snapshot struct {
	Step          int      `json:"step"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	Cells         [][]Cell `json:"cells"` // Cells[y][x]
	RedDeposited  int      `json:"red_deposited"`
	BlueDeposited int      `json:"blue_deposited"`
}

// Build reads the controller's current state into a Snapshot. It performs
// no mutation and takes no ownership.
func Build(c *simulation.Controller) Snapshot {
	agentsByPos := make(map[board.Position][]AgentView)
	for _, ag := range c.Agents() {
		agentsByPos[ag.Pos] = append(agentsByPos[ag.Pos], AgentView{
			RobotID:   ag.RobotID,
			Team:      ag.Team,
			Facing:    ag.Facing,
			PartnerID: ag.PartnerID,
		})
	}

	width, height := c.Board.Width, c.Board.Height
	cells := make([][]Cell, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]Cell, width)
		for x := 0; x < width; x++ {
			pos := board.Position{X: x, Y: y}
			tile := c.Board.Tile(pos)
			tv := TileView{GoldCount: tile.GoldCount()}
			if dep, ok := tile.(*board.DepositTile); ok {
				tv.IsDeposit = true
				tv.DepositOwner = dep.Owner
				tv.SinkTotal = dep.SinkTotal()
			}
			cells[y][x] = Cell{Agents: agentsByPos[pos], Tile: tv}
		}
	}

	red, blue := c.DepositTotals()
	return Snapshot{
		Step:          c.CurrentStep(),
		Width:         width,
		Height:        height,
		Cells:         cells,
		RedDeposited:  red,
		BlueDeposited: blue,
	}
}
