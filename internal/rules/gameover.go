package rules

import "fmt"

// GameOverResult is the outcome of checking the local human after a hand.
type GameOverResult int

const (
	Continue GameOverResult = iota
	RebuyOffered
	GameOver
	TournamentWon
	NeverBrokeActive
)

func (r GameOverResult) String() string {
	switch r {
	case Continue:
		return "CONTINUE"
	case RebuyOffered:
		return "REBUY_OFFERED"
	case GameOver:
		return "GAME_OVER"
	case TournamentWon:
		return "TOURNAMENT_WON"
	case NeverBrokeActive:
		return "NEVER_BROKE_ACTIVE"
	default:
		return fmt.Sprintf("GameOverResult(%d)", int(r))
	}
}

// GameOverInput gathers the facts CheckGameOverStatus needs.
type GameOverInput struct {
	HumanChips    int
	HumanObserver bool
	RebuyAllowed  bool
	OnePlayerLeft bool
	Online        bool
	// NeverBroke is the practice-mode option that refills a broke human
	// from the chip leader instead of ending the game.
	NeverBroke bool
}

func IsHumanBroke(chips int, observer bool) bool {
	return chips == 0 && !observer
}

func ShouldOfferRebuy(chips int, observer, rebuyAllowed bool) bool {
	return IsHumanBroke(chips, observer) && rebuyAllowed
}

// CheckGameOverStatus classifies the end of a hand for the local human.
// Online games leave broke handling to the network director, so a broke
// human there falls through to the one-player-left check.
func CheckGameOverStatus(in GameOverInput) GameOverResult {
	if ShouldOfferRebuy(in.HumanChips, in.HumanObserver, in.RebuyAllowed) {
		return RebuyOffered
	}
	if IsHumanBroke(in.HumanChips, in.HumanObserver) {
		switch {
		case !in.Online && in.NeverBroke:
			return NeverBrokeActive
		case !in.Online:
			return GameOver
		}
	}
	if in.OnePlayerLeft {
		return TournamentWon
	}
	return Continue
}

// NeverBrokeTransfer is half the chip leader's stack, rounded down to the
// table's minimum chip.
func NeverBrokeTransfer(chipLeader, minChip int) (int, error) {
	if minChip <= 0 {
		return 0, fmt.Errorf("never broke transfer: %w (got %d)", ErrInvalidMinChip, minChip)
	}
	half := chipLeader / 2
	return half - half%minChip, nil
}
