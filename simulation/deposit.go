package simulation

import "fmt"

// handleDeposits dissolves any partnership standing on its own team's
// deposit tile, incrementing that sink's counter by one. Desynced partner
// positions are a fatal invariant violation.
func (c *Controller) handleDeposits() {
	seen := make(map[int]bool)

	for _, ag := range c.agents {
		if ag.PartnerID == nil || seen[ag.RobotID] {
			continue
		}
		partner := c.agents[*ag.PartnerID]
		seen[ag.RobotID] = true
		seen[partner.RobotID] = true

		if ag.Pos != partner.Pos {
			panic(fmt.Sprintf("invariant violation: partnered agents %d and %d desynced at %v and %v", ag.RobotID, partner.RobotID, ag.Pos, partner.Pos))
		}

		dep := c.Board.DepositTileAt(ag.Pos)
		if dep == nil || dep.Owner != ag.Team {
			continue
		}

		dep.Deposit()
		ag.PartnerID = nil
		partner.PartnerID = nil
	}
}
