package rules

import (
	"fmt"

	"github.com/lox/pokertourney/internal/state"
)

// DetermineNextBettingState decides where a table goes after a betting
// poll: keep betting until the round is done, then deal the next street or
// move to the pre-showdown once the river is complete.
func DetermineNextBettingState(handDone bool, current, river state.BettingRound) state.TableState {
	if !handDone {
		return state.Betting
	}
	if current == river {
		return state.PreShowdown
	}
	return state.Community
}

// ShouldRunDealCommunityPhase reports whether dealing a street needs its
// display phase. Practice games always run it; online games only while more
// than one player still holds cards.
func ShouldRunDealCommunityPhase(online bool, numWithCards int) bool {
	if !online {
		return true
	}
	return numWithCards > 1
}

// PlayerActionType says who is responsible for the acting player's move.
type PlayerActionType int

const (
	ActionSittingOut PlayerActionType = iota
	ActionLocalCurrentTable
	ActionComputerOtherTable
	ActionRemote
)

func (t PlayerActionType) String() string {
	switch t {
	case ActionSittingOut:
		return "SITTING_OUT"
	case ActionLocalCurrentTable:
		return "LOCAL_CURRENT_TABLE"
	case ActionComputerOtherTable:
		return "COMPUTER_OTHER_TABLE"
	case ActionRemote:
		return "REMOTE"
	default:
		return fmt.Sprintf("PlayerActionType(%d)", int(t))
	}
}

// ActorFacts are the inputs to DeterminePlayerActionType.
type ActorFacts struct {
	SittingOut        bool
	LocallyControlled bool
	CurrentTable      bool
	Computer          bool
	Host              bool
}

// DeterminePlayerActionType classifies the acting player. A remotely
// controlled player seen by anyone other than the host cannot happen.
func DeterminePlayerActionType(f ActorFacts) (PlayerActionType, error) {
	if f.SittingOut {
		return ActionSittingOut, nil
	}
	if f.LocallyControlled {
		if f.CurrentTable {
			return ActionLocalCurrentTable, nil
		}
		return ActionComputerOtherTable, nil
	}
	if f.Host {
		return ActionRemote, nil
	}
	return 0, fmt.Errorf("%w: cannot classify actor (sittingOut=%t local=%t currentTable=%t computer=%t host=%t)",
		ErrInvariant, f.SittingOut, f.LocallyControlled, f.CurrentTable, f.Computer, f.Host)
}

// AIPauseMillis converts the configured AI pause in tenths of a second.
func AIPauseMillis(tenths int) int {
	return tenths * 100
}
