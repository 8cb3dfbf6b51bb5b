// Package state defines the closed enumerations shared by the tournament
// engine and everything that drives or observes it.
package state

import "fmt"

// TableState is the lifecycle state of a single tournament table.
// The zero value None also means "no state" wherever a state is optional.
type TableState int

const (
	None TableState = iota
	PendingLoad
	Pending
	OnHold
	DealForButton
	Begin
	BeginWait
	CheckEndHand
	Clean
	NewLevelCheck
	ColorUp
	StartHand
	Betting
	Community
	PreShowdown
	Showdown
	Done
	GameOver
	Break

	numTableStates
)

var tableStateNames = [...]string{
	None:          "NONE",
	PendingLoad:   "PENDING_LOAD",
	Pending:       "PENDING",
	OnHold:        "ON_HOLD",
	DealForButton: "DEAL_FOR_BUTTON",
	Begin:         "BEGIN",
	BeginWait:     "BEGIN_WAIT",
	CheckEndHand:  "CHECK_END_HAND",
	Clean:         "CLEAN",
	NewLevelCheck: "NEW_LEVEL_CHECK",
	ColorUp:       "COLOR_UP",
	StartHand:     "START_HAND",
	Betting:       "BETTING",
	Community:     "COMMUNITY",
	PreShowdown:   "PRE_SHOWDOWN",
	Showdown:      "SHOWDOWN",
	Done:          "DONE",
	GameOver:      "GAME_OVER",
	Break:         "BREAK",
}

func (s TableState) String() string {
	if s.Valid() {
		return tableStateNames[s]
	}
	return fmt.Sprintf("TableState(%d)", int(s))
}

// Valid reports whether s is one of the declared states.
func (s TableState) Valid() bool {
	return s >= None && s < numTableStates
}

// IsTerminal reports whether no further transitions can leave s.
func (s TableState) IsTerminal() bool {
	return s == GameOver
}

// IsSet reports whether s carries a state rather than the None marker.
func (s TableState) IsSet() bool {
	return s != None
}

func (s TableState) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid table state %d", int(s))
	}
	return []byte(tableStateNames[s]), nil
}

func (s *TableState) UnmarshalText(text []byte) error {
	parsed, err := ParseTableState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseTableState maps a state name such as "BETTING" back to its value.
func ParseTableState(name string) (TableState, error) {
	for i, n := range tableStateNames {
		if n == name {
			return TableState(i), nil
		}
	}
	return None, fmt.Errorf("unknown table state %q", name)
}

// BettingRound is a street within a hand. Rounds only move forward.
type BettingRound int

const (
	PreFlop BettingRound = iota
	Flop
	Turn
	River
	ShowdownRound
)

func (r BettingRound) String() string {
	switch r {
	case PreFlop:
		return "PRE_FLOP"
	case Flop:
		return "FLOP"
	case Turn:
		return "TURN"
	case River:
		return "RIVER"
	case ShowdownRound:
		return "SHOWDOWN"
	default:
		return fmt.Sprintf("BettingRound(%d)", int(r))
	}
}

// Next returns the round that follows r. ShowdownRound is its own successor.
func (r BettingRound) Next() BettingRound {
	if r >= ShowdownRound {
		return ShowdownRound
	}
	return r + 1
}

// Index is the zero-based street number used to look up per-round timeouts.
func (r BettingRound) Index() int {
	return int(r)
}

// Before reports whether r comes strictly before other.
func (r BettingRound) Before(other BettingRound) bool {
	return r < other
}
