package memtable

import (
	"time"

	"github.com/lox/pokertourney/internal/deck"
)

// PlayerSpec describes a player joining the tournament.
type PlayerSpec struct {
	Name     string
	Human    bool
	Remote   bool
	Local    bool
	Strategy string

	AskShowWinning bool
	AskShowLosing  bool
}

// Player is a tournament entrant. Hand-scoped fields are only touched by
// the goroutine driving the player's table.
type Player struct {
	id       int
	name     string
	human    bool
	remote   bool
	strategy string

	askShowWinning bool
	askShowLosing  bool
	thinkBank      time.Duration
	timeout        time.Duration

	table int
	seat  int

	chips        int
	chipsAtStart int
	hole         []deck.Card
	folded       bool
	allIn        bool
	sittingOut   bool
	observer     bool

	eliminated bool
	position   int
	rebuys     int
	addon      bool
}

func (p *Player) ID() int                   { return p.id }
func (p *Player) Name() string              { return p.name }
func (p *Player) Seat() int                 { return p.seat }
func (p *Player) TableNumber() int          { return p.table }
func (p *Player) ChipCount() int            { return p.chips }
func (p *Player) ChipCountAtStart() int     { return p.chipsAtStart }
func (p *Player) IsFolded() bool            { return p.folded }
func (p *Player) IsAllIn() bool             { return p.allIn }
func (p *Player) IsSittingOut() bool        { return p.sittingOut }
func (p *Player) IsEliminated() bool        { return p.eliminated }
func (p *Player) IsObserver() bool          { return p.observer }
func (p *Player) IsHuman() bool             { return p.human }
func (p *Player) IsComputer() bool          { return !p.human }
func (p *Player) IsHumanControlled() bool   { return p.human }
func (p *Player) IsLocallyControlled() bool { return !p.remote }
func (p *Player) AskShowWinning() bool      { return p.askShowWinning }
func (p *Player) AskShowLosing() bool       { return p.askShowLosing }
func (p *Player) ThinkBank() time.Duration  { return p.thinkBank }
func (p *Player) SetTimeout(d time.Duration) {
	p.timeout = d
}

// Timeout is the last action timeout the host gave the player.
func (p *Player) Timeout() time.Duration { return p.timeout }

func (p *Player) Strategy() string { return p.strategy }

// HoleCards returns the player's cards in the current hand, if any.
func (p *Player) HoleCards() []deck.Card {
	return append([]deck.Card(nil), p.hole...)
}

// Position is the finishing place, 0 while still playing.
func (p *Player) Position() int { return p.position }
func (p *Player) Rebuys() int   { return p.rebuys }
func (p *Player) HasAddon() bool {
	return p.addon
}

// SetSittingOut marks the player as away; the engine folds for them.
func (p *Player) SetSittingOut(out bool) { p.sittingOut = out }

func (p *Player) resetForHand() {
	p.chipsAtStart = p.chips
	p.hole = nil
	p.folded = false
	p.allIn = false
}

// take removes up to amount chips, marking the player all-in when the
// stack runs out, and returns what was taken.
func (p *Player) take(amount int) int {
	amount = min(amount, p.chips)
	if amount < 0 {
		amount = 0
	}
	p.chips -= amount
	if p.chips == 0 && amount > 0 {
		p.allIn = true
	}
	return amount
}
