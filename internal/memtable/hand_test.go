package memtable

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertourney/internal/action"
	"github.com/lox/pokertourney/internal/event"
	"github.com/lox/pokertourney/internal/state"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// newTestTournament seats n computer players at as few tables as needed.
func newTestTournament(t *testing.T, n int, tweak func(*Settings)) (*Tournament, *event.Recorder, *quartz.Mock) {
	t.Helper()
	s := DefaultSettings()
	s.Seed = 7
	if tweak != nil {
		tweak(&s)
	}
	rec := &event.Recorder{}
	mClock := quartz.NewMock(t)
	tour, err := New(s, rec, WithClock(mClock), WithLogger(quietLogger()))
	require.NoError(t, err)
	for range n {
		tour.AddPlayer(PlayerSpec{Strategy: "call"})
	}
	require.NoError(t, tour.Seat())
	return tour, rec, mClock
}

func totalChips(tb *Table) int {
	total := 0
	for _, p := range tb.Players() {
		total += p.chips
	}
	return total
}

// playPassively checks or calls every decision until the hand is resolved.
func playPassively(t *testing.T, h *Hand) {
	t.Helper()
	for range 100 {
		for !h.IsDone() {
			p := h.CurrentPlayer()
			require.NotNil(t, p)
			a := action.CheckAction()
			if h.AmountToCall(p) > 0 {
				a = action.CallAction()
			}
			require.NoError(t, h.ApplyAction(p, a))
		}
		if h.Round() == state.ShowdownRound || h.IsUncontested() {
			break
		}
		h.AdvanceRound()
	}
	h.Resolve()
}

func TestHandPostsBlindsAndSetsActionOrder(t *testing.T) {
	t.Parallel()

	tour, rec, _ := newTestTournament(t, 3, nil)
	tb := tour.Table(1)
	tb.StartNewHand()
	h := tb.CurrentHand()
	require.NotNil(t, h)

	p1, p2, p3 := tb.Players()[0], tb.Players()[1], tb.Players()[2]
	assert.Equal(t, 0, tb.Button(), "first deal without a draw puts the button on the first seat")
	assert.Equal(t, 1490, p2.ChipCount(), "small blind")
	assert.Equal(t, 1480, p3.ChipCount(), "big blind")
	assert.Equal(t, 30, h.Pot())
	assert.Len(t, p1.HoleCards(), 2)

	require.Equal(t, p1.ID(), h.CurrentPlayer().ID(), "button acts first preflop three handed")
	assert.Equal(t, 20, h.AmountToCall(p1))
	assert.Equal(t, 20, h.MinRaise())

	require.ErrorIs(t, h.ApplyAction(p3, action.CheckAction()), ErrOutOfTurn)
	require.ErrorIs(t, h.ApplyAction(p1, action.CheckAction()), ErrInvalidAction)

	require.NoError(t, h.ApplyAction(p1, action.FoldAction()))
	require.NoError(t, h.ApplyAction(p2, action.CallAction()))
	assert.False(t, h.IsDone(), "big blind still has the option")
	require.Equal(t, p3.ID(), h.CurrentPlayer().ID())
	require.NoError(t, h.ApplyAction(p3, action.CheckAction()))
	assert.True(t, h.IsDone())

	h.AdvanceRound()
	assert.Equal(t, state.Flop, h.Round())
	assert.Len(t, h.Board(), 3)
	assert.Equal(t, p2.ID(), h.CurrentPlayer().ID(), "small blind acts first after the flop")

	assert.Len(t, event.Filter[event.HandStarted](rec.Events()), 1)
	assert.Len(t, event.Filter[event.CommunityCardsDealt](rec.Events()), 1)
	posts := event.Filter[event.PlayerActed](rec.Events())
	require.Len(t, posts, 2)
	assert.Equal(t, action.SmallBlind, posts[0].Action.Type)
	assert.Equal(t, action.BigBlind, posts[1].Action.Type)
}

func TestHandHeadsUpButtonPostsSmallBlind(t *testing.T) {
	t.Parallel()

	tour, _, _ := newTestTournament(t, 2, nil)
	tb := tour.Table(1)
	tb.StartNewHand()
	h := tb.CurrentHand()

	button, other := tb.Players()[0], tb.Players()[1]
	assert.Equal(t, 1490, button.ChipCount())
	assert.Equal(t, 1480, other.ChipCount())
	assert.Equal(t, button.ID(), h.CurrentPlayer().ID())
}

func TestHandRaiseIsIncrementOverCall(t *testing.T) {
	t.Parallel()

	tour, _, _ := newTestTournament(t, 3, nil)
	tb := tour.Table(1)
	tb.StartNewHand()
	h := tb.CurrentHand()
	p1, p2 := tb.Players()[0], tb.Players()[1]

	require.NoError(t, h.ApplyAction(p1, action.RaiseAction(40)))
	assert.Equal(t, 1440, p1.ChipCount())
	assert.Equal(t, 40, h.MinRaise())
	assert.Equal(t, 50, h.AmountToCall(p2))
}

func TestHandUncontested(t *testing.T) {
	t.Parallel()

	tour, rec, _ := newTestTournament(t, 3, nil)
	tb := tour.Table(1)
	tb.StartNewHand()
	h := tb.CurrentHand()
	p1, p2, p3 := tb.Players()[0], tb.Players()[1], tb.Players()[2]

	require.NoError(t, h.ApplyAction(p1, action.FoldAction()))
	require.NoError(t, h.ApplyAction(p2, action.FoldAction()))
	assert.True(t, h.IsDone())
	assert.True(t, h.IsUncontested())
	assert.Nil(t, h.CurrentPlayer())

	h.Resolve()
	h.Resolve()
	assert.Equal(t, 1510, p3.ChipCount())
	assert.Empty(t, h.Board(), "no board for an uncontested hand")

	awards := event.Filter[event.PotAwarded](rec.Events())
	require.Len(t, awards, 1)
	assert.Equal(t, []int{p3.ID()}, awards[0].WinnerIDs)
	assert.Equal(t, 30, awards[0].Amount)
}

func TestHandSidePotsConserveChips(t *testing.T) {
	t.Parallel()

	tour, rec, _ := newTestTournament(t, 3, nil)
	tb := tour.Table(1)
	p1, p2, p3 := tb.Players()[0], tb.Players()[1], tb.Players()[2]
	p1.chips = 100
	before := totalChips(tb)

	tb.StartNewHand()
	h := tb.CurrentHand()
	require.NoError(t, h.ApplyAction(p1, action.RaiseAction(1000)))
	assert.True(t, p1.IsAllIn())
	require.NoError(t, h.ApplyAction(p2, action.CallAction()))
	require.NoError(t, h.ApplyAction(p3, action.CallAction()))
	require.True(t, h.IsDone())

	h.AdvanceRound()
	require.NoError(t, h.ApplyAction(p2, action.BetAction(200)))
	require.NoError(t, h.ApplyAction(p3, action.CallAction()))

	playPassively(t, h)

	assert.Equal(t, []Pot{
		{Amount: 300, Eligible: []int{p2.ID(), p3.ID(), p1.ID()}},
		{Amount: 400, Eligible: []int{p2.ID(), p3.ID()}},
	}, h.Pots())
	assert.Len(t, h.Board(), 5)
	assert.Equal(t, before, totalChips(tb))

	won := 0
	for _, e := range event.Filter[event.PotAwarded](rec.Events()) {
		won += e.Amount
	}
	assert.Equal(t, 700, won)
}

func TestHandHistoryStoredOnce(t *testing.T) {
	t.Parallel()

	tour, _, _ := newTestTournament(t, 4, nil)
	tb := tour.Table(1)
	before := totalChips(tb)
	tb.StartNewHand()
	h := tb.CurrentHand()
	playPassively(t, h)
	h.StoreHistory()
	h.StoreHistory()

	history := tb.History()
	require.Len(t, history, 1)
	assert.Equal(t, h.ID(), history[0].ID)
	assert.Len(t, history[0].Board, 5)
	assert.Equal(t, 80, history[0].Pot)
	assert.Equal(t, before, totalChips(tb))
}

func resultFor(t *testing.T, results []event.PlayerResult, id int) event.PlayerResult {
	t.Helper()
	for _, r := range results {
		if r.PlayerID == id {
			return r
		}
	}
	require.Failf(t, "no result", "player %d", id)
	return event.PlayerResult{}
}

func TestHandUncontestedResults(t *testing.T) {
	t.Parallel()

	tour, rec, _ := newTestTournament(t, 3, nil)
	tb := tour.Table(1)
	tb.StartNewHand()
	h := tb.CurrentHand()
	p1, p2, p3 := tb.Players()[0], tb.Players()[1], tb.Players()[2]

	require.NoError(t, h.ApplyAction(p1, action.FoldAction()))
	require.NoError(t, h.ApplyAction(p2, action.FoldAction()))
	h.AdvanceRound()
	h.Resolve()

	done := event.Filter[event.HandCompleted](rec.Events())
	require.Len(t, done, 1)
	assert.Empty(t, done[0].Board, "flop dealt after everyone folded stays hidden")

	bb := resultFor(t, done[0].Results, p3.ID())
	assert.Equal(t, "WIN", bb.Result)
	assert.Equal(t, 20, bb.Won)
	assert.Equal(t, 10, bb.Overbet, "big blind gets its unmatched half back")
	assert.Empty(t, bb.Cards, "computer cards stay down")

	assert.Equal(t, "LOSE", resultFor(t, done[0].Results, p1.ID()).Result)
	assert.Equal(t, "LOSE", resultFor(t, done[0].Results, p2.ID()).Result)
}

func TestHandRabbitHuntShowsBoard(t *testing.T) {
	t.Parallel()

	tour, rec, _ := newTestTournament(t, 3, func(s *Settings) {
		s.RabbitHunt = true
		s.AIFaceUp = true
	})
	tb := tour.Table(1)
	tb.StartNewHand()
	h := tb.CurrentHand()
	p1, p2, p3 := tb.Players()[0], tb.Players()[1], tb.Players()[2]

	require.NoError(t, h.ApplyAction(p1, action.FoldAction()))
	require.NoError(t, h.ApplyAction(p2, action.FoldAction()))
	h.Resolve()

	assert.Len(t, h.Board(), 5)
	assert.Len(t, h.VisibleBoard(), 5)

	done := event.Filter[event.HandCompleted](rec.Events())
	require.Len(t, done, 1)
	assert.Len(t, done[0].Board, 5)
	bb := resultFor(t, done[0].Results, p3.ID())
	assert.Len(t, bb.Cards, 2, "computer cards face up")
	assert.Empty(t, bb.HandType, "winner never chose to show")
	assert.Empty(t, resultFor(t, done[0].Results, p1.ID()).Cards, "folded hands stay mucked")
}

func TestHandAllInShowdownResults(t *testing.T) {
	t.Parallel()

	tour, rec, _ := newTestTournament(t, 3, nil)
	tb := tour.Table(1)
	p1, p2, p3 := tb.Players()[0], tb.Players()[1], tb.Players()[2]
	p1.chips = 100

	tb.StartNewHand()
	h := tb.CurrentHand()
	require.NoError(t, h.ApplyAction(p1, action.RaiseAction(1000)))
	require.NoError(t, h.ApplyAction(p2, action.RaiseAction(390)))
	require.NoError(t, h.ApplyAction(p3, action.FoldAction()))
	playPassively(t, h)

	done := event.Filter[event.HandCompleted](rec.Events())
	require.Len(t, done, 1)
	assert.Len(t, done[0].Board, 5)

	allIn := resultFor(t, done[0].Results, p1.ID())
	assert.Len(t, allIn.Cards, 2, "all-in hands are turned up")
	assert.NotEmpty(t, allIn.HandType)

	raiser := resultFor(t, done[0].Results, p2.ID())
	assert.Equal(t, 390, raiser.Overbet)
	if raiser.Won > 0 {
		assert.Equal(t, "WIN", raiser.Result)
	} else {
		assert.Equal(t, "OVERBET", raiser.Result)
	}
	if allIn.Won > 0 {
		assert.Equal(t, "WIN", allIn.Result)
	} else {
		assert.Equal(t, "LOSE", allIn.Result)
	}
	assert.Equal(t, "LOSE", resultFor(t, done[0].Results, p3.ID()).Result)

	total := 0
	for _, r := range done[0].Results {
		total += r.Won + r.Overbet
	}
	assert.Equal(t, h.Pot(), total)

	h.StoreHistory()
	require.Len(t, tb.History(), 1)
	assert.Equal(t, done[0].Results, tb.History()[0].Results)
}
