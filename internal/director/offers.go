package director

import "github.com/lox/pokertourney/internal/memtable"

// Offers answers the optional purchases a human is offered between hands.
type Offers interface {
	Rebuy(p *memtable.Player) bool
	Addon(p *memtable.Player) bool
	// NeverBroke is asked when a broke practice player could borrow chips
	// from the chip leader.
	NeverBroke(p *memtable.Player, chips int) bool
}

// DeclineAll turns every offer down.
type DeclineAll struct{}

func (DeclineAll) Rebuy(*memtable.Player) bool           { return false }
func (DeclineAll) Addon(*memtable.Player) bool           { return false }
func (DeclineAll) NeverBroke(*memtable.Player, int) bool { return false }

// AcceptAll takes every offer.
type AcceptAll struct{}

func (AcceptAll) Rebuy(*memtable.Player) bool           { return true }
func (AcceptAll) Addon(*memtable.Player) bool           { return true }
func (AcceptAll) NeverBroke(*memtable.Player, int) bool { return true }
