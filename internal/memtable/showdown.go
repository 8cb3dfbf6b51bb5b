package memtable

import (
	"github.com/lox/pokertourney/internal/deck"
	"github.com/lox/pokertourney/internal/event"
	"github.com/lox/pokertourney/internal/rules"
	"github.com/lox/pokertourney/internal/state"
)

// VisibleBoard returns the community cards players get to see once the
// hand is over. Cards dealt only to settle an uncontested hand stay
// hidden unless rabbit hunting.
func (h *Hand) VisibleBoard() []deck.Card {
	var out []deck.Card
	for i, c := range h.board {
		if rules.IsCardVisible(i, h.lastBetRound, h.draw) {
			out = append(out, c)
		}
	}
	return out
}

// overbets returns the chips the biggest contributor put in that nobody
// matched. They come straight back and are not winnings.
func (h *Hand) overbets() map[int]int {
	top, second := -1, 0
	for _, p := range h.players {
		switch amount := h.totals[p.id]; {
		case top < 0 || amount > h.totals[top]:
			if top >= 0 {
				second = h.totals[top]
			}
			top = p.id
		case amount > second:
			second = amount
		}
	}
	out := make(map[int]int)
	if top < 0 {
		return out
	}
	for _, p := range h.players {
		if p.id == top && !p.folded && h.totals[top] > second {
			out[top] = h.totals[top] - second
		}
	}
	return out
}

// showdownResults labels every player's outcome and decides whose cards
// are turned up.
func (h *Hand) showdownResults() []event.PlayerResult {
	overbets := h.overbets()
	uncontested := h.IsUncontested()
	seenRiver := h.lastBetRound >= state.River
	board := h.VisibleBoard()

	maxWon := 0
	for _, p := range h.players {
		maxWon = max(maxWon, h.awards[p.id]-overbets[p.id])
	}

	out := make([]event.PlayerResult, 0, len(h.players))
	for _, p := range h.players {
		overbet := overbets[p.id]
		won := h.awards[p.id] - overbet
		result := rules.DetermineResultType(won, overbet)
		if p.allIn && result != rules.ResultLose {
			result = rules.DetermineAllInResultType(won, maxWon)
		}
		r := event.PlayerResult{
			PlayerID: p.id,
			Name:     p.name,
			Result:   result.String(),
			Won:      won,
			Overbet:  overbet,
		}
		if p.folded {
			out = append(out, r)
			continue
		}

		winner := won > 0
		shown := rules.ShouldShowCards(rules.Visibility{
			CardsExposed:      !uncontested && p.allIn,
			Uncontested:       uncontested,
			ShowMuck:          p.askShowLosing,
			Won:               winner,
			ShowWin:           p.askShowWinning,
			Human:             p.human,
			LocallyControlled: !p.remote,
			Computer:          !p.human,
			AIFaceUp:          h.aiFaceUp,
		})
		if !shown {
			out = append(out, r)
			continue
		}
		r.Cards = deck.Strings(p.hole)

		showingWinner := winner && p.askShowWinning
		base := rules.BaseShowHandType(uncontested, seenRiver, h.rabbitHunt, showingWinner)
		cards := append(append([]deck.Card(nil), p.hole...), board...)
		if len(cards) >= 5 && rules.ShouldShowHandType(base, p.human, h.rabbitHunt, uncontested, showingWinner, seenRiver) {
			r.HandType = deck.Evaluate(cards).String()
		}
		out = append(out, r)
	}
	return out
}
