package rules

import "github.com/lox/pokertourney/internal/state"

// DrawDecision says whether the remaining board is dealt out at the end of
// a hand. DrawnNormal means it is dealt because the hand is contested;
// Drawn also covers a rabbit hunt on an uncontested hand.
type DrawDecision struct {
	DrawnNormal bool
	Drawn       bool
}

func DetermineDrawDecision(numWithCards int, rabbitHunt bool) DrawDecision {
	normal := numWithCards > 1
	return DrawDecision{DrawnNormal: normal, Drawn: rabbitHunt || normal}
}

// CardRound is the street on which board card index (0-4) is dealt.
func CardRound(cardIndex int) state.BettingRound {
	switch {
	case cardIndex <= 2:
		return state.Flop
	case cardIndex == 3:
		return state.Turn
	default:
		return state.River
	}
}

// IsCardVisible reports whether board card cardIndex should be shown given
// the last street that was actually bet and the draw decision.
func IsCardVisible(cardIndex int, lastBettingRound state.BettingRound, d DrawDecision) bool {
	dealt := lastBettingRound >= CardRound(cardIndex)
	return d.DrawnNormal || dealt || d.Drawn
}

// CardsDealtInRound is how many board cards a street adds.
func CardsDealtInRound(r state.BettingRound) int {
	switch r {
	case state.Flop:
		return 3
	case state.Turn, state.River:
		return 1
	default:
		return 0
	}
}

// CardsVisibleByRound is the board size once r has been dealt.
func CardsVisibleByRound(r state.BettingRound) int {
	switch {
	case r >= state.River:
		return 5
	case r >= state.Turn:
		return 4
	case r >= state.Flop:
		return 3
	default:
		return 0
	}
}
