package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/pokertourney/internal/state"
)

func TestDetermineDrawDecision(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DrawDecision{DrawnNormal: true, Drawn: true}, DetermineDrawDecision(2, false))
	assert.Equal(t, DrawDecision{DrawnNormal: false, Drawn: false}, DetermineDrawDecision(1, false))
	assert.Equal(t, DrawDecision{DrawnNormal: false, Drawn: true}, DetermineDrawDecision(1, true))
}

func TestCardRounds(t *testing.T) {
	t.Parallel()

	want := []state.BettingRound{state.Flop, state.Flop, state.Flop, state.Turn, state.River}
	for i, r := range want {
		assert.Equal(t, r, CardRound(i), "card %d", i)
	}

	assert.Equal(t, 0, CardsDealtInRound(state.PreFlop))
	assert.Equal(t, 3, CardsDealtInRound(state.Flop))
	assert.Equal(t, 1, CardsDealtInRound(state.Turn))
	assert.Equal(t, 1, CardsDealtInRound(state.River))
	assert.Equal(t, 0, CardsDealtInRound(state.ShowdownRound))

	assert.Equal(t, 0, CardsVisibleByRound(state.PreFlop))
	assert.Equal(t, 3, CardsVisibleByRound(state.Flop))
	assert.Equal(t, 4, CardsVisibleByRound(state.Turn))
	assert.Equal(t, 5, CardsVisibleByRound(state.River))
	assert.Equal(t, 5, CardsVisibleByRound(state.ShowdownRound))
}

func TestIsCardVisible(t *testing.T) {
	t.Parallel()

	none := DrawDecision{}
	assert.True(t, IsCardVisible(0, state.Flop, none))
	assert.False(t, IsCardVisible(3, state.Flop, none))
	assert.False(t, IsCardVisible(4, state.Turn, none))
	assert.True(t, IsCardVisible(4, state.Turn, DrawDecision{Drawn: true}))
	assert.True(t, IsCardVisible(4, state.PreFlop, DrawDecision{DrawnNormal: true, Drawn: true}))
}

func TestShowdownPresentation(t *testing.T) {
	t.Parallel()

	assert.True(t, ShouldShowCards(Visibility{CardsExposed: true}))
	assert.True(t, ShouldShowCards(Visibility{ShowMuck: true}))
	assert.False(t, ShouldShowCards(Visibility{ShowMuck: true, Uncontested: true}))
	assert.False(t, ShouldShowCards(Visibility{ShowMuck: true, Won: true}))
	assert.True(t, ShouldShowCards(Visibility{ShowWin: true, Won: true}))
	assert.True(t, ShouldShowCards(Visibility{Human: true, LocallyControlled: true, HumanUp: true}))
	assert.False(t, ShouldShowCards(Visibility{Human: true, HumanUp: true}))
	assert.True(t, ShouldShowCards(Visibility{Computer: true, AIFaceUp: true}))

	assert.True(t, ShouldShowHandType(true, false, false, false, false, false))
	assert.True(t, ShouldShowHandType(false, true, true, false, false, false))
	assert.True(t, ShouldShowHandType(false, false, false, true, true, true))
	assert.False(t, ShouldShowHandType(false, false, false, true, true, false))

	assert.Equal(t, ResultLose, DetermineResultType(0, 0))
	assert.Equal(t, ResultOverbet, DetermineResultType(0, 200))
	assert.Equal(t, ResultWin, DetermineResultType(500, 200))
	assert.Equal(t, ResultWin, DetermineAllInResultType(800, 800))
	assert.Equal(t, ResultAllIn, DetermineAllInResultType(300, 800))

	assert.True(t, BaseShowHandType(false, false, false, false))
	assert.True(t, BaseShowHandType(true, true, false, true))
	assert.False(t, BaseShowHandType(true, true, false, false))
}

func TestOnlineRouting(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DestinationOnlineManager, RouteDealerChat(true, false))
	assert.Equal(t, DestinationLocal, RouteDealerChat(false, true))
	assert.Equal(t, DestinationNone, RouteDealerChat(false, false))
	assert.Equal(t, DestinationOnlineManager, RouteDirectorChat(true))
	assert.Equal(t, DestinationLocal, RouteDirectorChat(false))

	assert.True(t, ShouldWaitForClient(true, true))
	assert.False(t, ShouldWaitForClient(false, true))
	assert.True(t, ShouldSendOnlyToWaitList(true, true))
	assert.False(t, ShouldSendOnlyToWaitList(true, false))
}
