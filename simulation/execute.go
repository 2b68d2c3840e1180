package simulation

import "goldrush/agent"

// execute applies the validated action list to the board and agents, in
// the order turns, then moves, then pickups, matching spec section 4.6.
func (c *Controller) execute(res resolved) {
	for _, act := range res.actions {
		if t, ok := act.(agent.TurnAction); ok {
			c.agents[t.Robot].Facing = t.NewDirection
		}
	}

	for _, act := range res.actions {
		if m, ok := act.(agent.MoveAction); ok {
			ag := c.agents[m.Robot]
			to := c.destination(ag)
			c.Board.MoveAgent(ag.RobotID, ag.Pos, to)
			ag.Pos = to
		}
	}

	for _, pair := range res.pickupPairs {
		c.Board.Tile(pair.pos).Take()
		a1 := c.agents[pair.ids[0]]
		a2 := c.agents[pair.ids[1]]
		id1, id2 := a1.RobotID, a2.RobotID
		a1.PartnerID = &id2
		a2.PartnerID = &id1
	}

	for _, pos := range res.droppedGoldAt {
		c.Board.Tile(pos).Add()
	}
	for _, key := range res.dissolved {
		c.agents[key.a].PartnerID = nil
		c.agents[key.b].PartnerID = nil
	}
}
