// Package board implements the grid, its tiles, and the position-indexed
// agent registry the simulation controller mutates each step.
package board

import "fmt"

// Team identifies which side a deposit tile, or an agent, belongs to.
type Team int

const (
	Red Team = iota
	Blue
)

func (t Team) String() string {
	if t == Red {
		return "red"
	}
	return "blue"
}

// Position is a grid coordinate, x is column, y is row.
type Position struct {
	X, Y int
}

// Tile is a closed variant: a tile is either Plain or a team's Deposit sink.
// Pattern-match via a type switch rather than virtual dispatch elsewhere in
// the package, per the tile being a closed sum type.
type Tile interface {
	GoldCount() int
	Take() bool
	Add()
}

// PlainTile is a capacity-holding cell. Take fails (returns false) on an
// empty tile rather than going negative.
type PlainTile struct {
	gold int
}

func NewPlainTile() *PlainTile { return &PlainTile{} }

func (t *PlainTile) GoldCount() int { return t.gold }

func (t *PlainTile) Take() bool {
	if t.gold <= 0 {
		return false
	}
	t.gold--
	return true
}

func (t *PlainTile) Add() { t.gold++ }

// DepositTile is a team-owned sink. It rejects the normal pickup/add path;
// gold only enters it via Deposit.
type DepositTile struct {
	Owner Team
	sink  int
}

func NewDepositTile(owner Team) *DepositTile {
	return &DepositTile{Owner: owner}
}

func (t *DepositTile) GoldCount() int { return 0 }

func (t *DepositTile) Take() bool {
	panic(fmt.Sprintf("invariant violation: take() on %s deposit tile", t.Owner))
}

func (t *DepositTile) Add() {
	panic(fmt.Sprintf("invariant violation: add() on %s deposit tile", t.Owner))
}

// Deposit increments the sink counter. This is the only legal way gold
// enters a deposit tile.
func (t *DepositTile) Deposit() { t.sink++ }

// SinkTotal is the cumulative gold delivered to this deposit.
func (t *DepositTile) SinkTotal() int { return t.sink }
