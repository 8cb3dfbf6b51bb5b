package rules

import "fmt"

// ResultType labels a player's showdown line.
type ResultType int

const (
	ResultWin ResultType = iota
	ResultLose
	ResultOverbet
	ResultAllIn
)

func (r ResultType) String() string {
	switch r {
	case ResultWin:
		return "WIN"
	case ResultLose:
		return "LOSE"
	case ResultOverbet:
		return "OVERBET"
	case ResultAllIn:
		return "ALLIN"
	default:
		return fmt.Sprintf("ResultType(%d)", int(r))
	}
}

// Visibility gathers the switches that decide whether hole cards are shown.
type Visibility struct {
	CardsExposed      bool
	Uncontested       bool
	ShowMuck          bool
	Won               bool
	ShowWin           bool
	Human             bool
	LocallyControlled bool
	HumanUp           bool
	Computer          bool
	AIFaceUp          bool
}

func ShouldShowCards(v Visibility) bool {
	return v.CardsExposed ||
		(!v.Uncontested && v.ShowMuck && !v.Won) ||
		(v.ShowWin && v.Won) ||
		(v.Human && v.LocallyControlled && v.HumanUp) ||
		(v.Computer && v.AIFaceUp)
}

func ShouldShowHandType(base, human, rabbitHunt, uncontested, showingWinner, seenRiver bool) bool {
	switch {
	case base:
		return true
	case human && rabbitHunt:
		return true
	default:
		return uncontested && showingWinner && (rabbitHunt || seenRiver)
	}
}

// DetermineResultType: nothing back is a loss, only getting an overbet
// returned is an overbet, anything else won.
func DetermineResultType(amountWon, amountOverbet int) ResultType {
	total := amountWon + amountOverbet
	switch {
	case total == 0:
		return ResultLose
	case amountOverbet == total:
		return ResultOverbet
	default:
		return ResultWin
	}
}

func DetermineAllInResultType(playerWin, maxWin int) ResultType {
	if playerWin == maxWin {
		return ResultWin
	}
	return ResultAllIn
}

func BaseShowHandType(uncontested, seenRiver, rabbitHunt, showWin bool) bool {
	if !uncontested {
		return true
	}
	return (rabbitHunt || seenRiver) && showWin
}
