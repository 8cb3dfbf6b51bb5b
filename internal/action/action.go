// Package action holds the vocabulary exchanged between the engine and
// whoever decides a player's move.
package action

import (
	"fmt"
	"time"
)

// Type is the kind of move a player makes.
type Type int

const (
	Fold Type = iota
	Check
	Call
	Bet
	Raise
	// Blind and ante posts are never chosen by a provider, they only
	// appear in events and hand histories.
	Ante
	SmallBlind
	BigBlind
)

func (t Type) String() string {
	switch t {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	case Raise:
		return "raise"
	case Ante:
		return "ante"
	case SmallBlind:
		return "small_blind"
	case BigBlind:
		return "big_blind"
	default:
		return fmt.Sprintf("action(%d)", int(t))
	}
}

// Action is a player's decision. Amount is the bet size for Bet and the
// increment on top of the call for Raise; it is ignored otherwise. A table
// caps either at the player's stack.
type Action struct {
	Type   Type
	Amount int
}

func (a Action) String() string {
	if a.Type == Bet || a.Type == Raise {
		return fmt.Sprintf("%s %d", a.Type, a.Amount)
	}
	return a.Type.String()
}

func FoldAction() Action            { return Action{Type: Fold} }
func CheckAction() Action           { return Action{Type: Check} }
func CallAction() Action            { return Action{Type: Call} }
func BetAction(amount int) Action   { return Action{Type: Bet, Amount: amount} }
func RaiseAction(amount int) Action { return Action{Type: Raise, Amount: amount} }

// Options enumerates what the acting player may legally do right now.
type Options struct {
	CanFold  bool
	CanCheck bool
	CanCall  bool
	CanBet   bool
	CanRaise bool

	AmountToCall int
	MinBet       int
	MaxBet       int
	MinRaise     int
	MaxRaise     int
	// MinChip is the smallest chip in play; bet and raise sizes are
	// whole multiples of it.
	MinChip int

	// Timeout bounds how long a provider may take to answer.
	Timeout time.Duration
}

// Default is the move taken when a player does not answer in time:
// check when it is free, otherwise fold.
func (o Options) Default() Action {
	if o.CanCheck {
		return CheckAction()
	}
	return FoldAction()
}

// Legal reports whether a's type is currently allowed.
func (o Options) Legal(a Action) bool {
	switch a.Type {
	case Fold:
		return o.CanFold
	case Check:
		return o.CanCheck
	case Call:
		return o.CanCall
	case Bet:
		return o.CanBet
	case Raise:
		return o.CanRaise
	default:
		return false
	}
}

// Validate returns a legal version of a. Illegal action types become a
// fold; bet and raise sizes are clamped into the allowed range.
func (o Options) Validate(a Action) Action {
	if !o.Legal(a) {
		return FoldAction()
	}
	switch a.Type {
	case Bet:
		return BetAction(clamp(a.Amount, o.MinBet, o.MaxBet))
	case Raise:
		return RaiseAction(clamp(a.Amount, o.MinRaise, o.MaxRaise))
	case Fold, Check, Call:
		return Action{Type: a.Type}
	}
	return FoldAction()
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
