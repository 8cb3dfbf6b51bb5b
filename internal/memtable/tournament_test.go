package memtable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertourney/internal/handid"
	"github.com/lox/pokertourney/internal/state"
)

func TestSeatBalancesTables(t *testing.T) {
	t.Parallel()

	tour, _, _ := newTestTournament(t, 25, nil)
	tables := tour.AllTables()
	require.Len(t, tables, 3)
	assert.Equal(t, 9, tables[0].NumOccupiedSeats())
	assert.Equal(t, 8, tables[1].NumOccupiedSeats())
	assert.Equal(t, 8, tables[2].NumOccupiedSeats())
	for _, tb := range tables {
		assert.Equal(t, state.DealForButton, tb.State())
	}
	assert.True(t, tables[0].IsCurrent())
	assert.False(t, tables[1].IsCurrent())
	assert.Len(t, tour.Tables(), 3)
	assert.Equal(t, 25, tour.NumPlayers())
}

func TestSeatMarksLocalPlayersTable(t *testing.T) {
	t.Parallel()

	tour, err := New(DefaultSettings(), nil, WithLogger(quietLogger()))
	require.NoError(t, err)
	for range 12 {
		tour.AddPlayer(PlayerSpec{})
	}
	me := tour.AddPlayer(PlayerSpec{Name: "me", Human: true, Local: true})
	require.NoError(t, tour.Seat())

	require.NotNil(t, tour.LocalPlayer())
	assert.Equal(t, me.ID(), tour.LocalPlayer().ID())
	assert.True(t, tour.Table(me.TableNumber()).IsCurrent())
}

func TestSeatNeedsTwoPlayers(t *testing.T) {
	t.Parallel()

	tour, err := New(DefaultSettings(), nil, WithLogger(quietLogger()))
	require.NoError(t, err)
	tour.AddPlayer(PlayerSpec{})
	require.ErrorIs(t, tour.Seat(), ErrInvalidSettings)
}

func TestLevelsAndBreaks(t *testing.T) {
	t.Parallel()

	tour, _, _ := newTestTournament(t, 2, func(s *Settings) {
		s.Levels = []Level{
			{SmallBlind: 10, BigBlind: 20, MinChip: 5},
			{Break: true, Duration: 5 * time.Minute},
			{SmallBlind: 25, BigBlind: 50, Ante: 25, MinChip: 25},
		}
	})
	assert.Equal(t, 1, tour.Level())
	assert.Equal(t, 5, tour.MinChip())
	assert.Equal(t, 5, tour.LastMinChip())
	assert.True(t, tour.IsBreakLevel(2))
	assert.False(t, tour.IsBreakLevel(3))
	assert.False(t, tour.IsBreakLevel(9))

	tour.NextLevel()
	assert.Equal(t, 2, tour.Level())
	assert.Equal(t, 20, tour.Blinds().BigBlind, "a break keeps the previous blinds")
	assert.Equal(t, 5*time.Minute, tour.LevelRemaining())

	tour.NextLevel()
	assert.Equal(t, 25, tour.MinChip())
	assert.Equal(t, 5, tour.LastMinChip())

	tour.NextLevel()
	assert.Equal(t, 3, tour.Level(), "the last level repeats")
	assert.False(t, tour.IsLevelExpired(), "the last level never expires")
}

func TestOfflineClockExpiresLevel(t *testing.T) {
	t.Parallel()

	tour, _, _ := newTestTournament(t, 2, func(s *Settings) {
		s.LevelDuration = time.Minute
		s.SimulatedStep = 10 * time.Second
	})
	for range 5 {
		tour.AdvanceClock()
	}
	assert.False(t, tour.IsLevelExpired())
	tour.AdvanceClock()
	assert.True(t, tour.IsLevelExpired())

	tour.NextLevel()
	assert.False(t, tour.IsLevelExpired())
	assert.Equal(t, time.Minute, tour.LevelRemaining())
}

func TestLevelNotExpiredWithPartOfASecondLeft(t *testing.T) {
	t.Parallel()

	tour, _, _ := newTestTournament(t, 2, func(s *Settings) {
		s.LevelDuration = time.Minute
		s.SimulatedStep = 59*time.Second + 500*time.Millisecond
	})
	tour.AdvanceClock()
	assert.Equal(t, 500*time.Millisecond, tour.LevelRemaining())
	assert.False(t, tour.IsLevelExpired())
	tour.AdvanceClock()
	assert.True(t, tour.IsLevelExpired())
}

func TestHandCountExpiresLevel(t *testing.T) {
	t.Parallel()

	tour, _, _ := newTestTournament(t, 3, func(s *Settings) {
		s.LevelDuration = 0
		s.HandsPerLevel = 2
	})
	tb := tour.Table(1)
	tb.StartNewHand()
	assert.False(t, tour.IsLevelExpired())
	tb.StartNewHand()
	assert.True(t, tour.IsLevelExpired())
	tour.NextLevel()
	assert.False(t, tour.IsLevelExpired())
}

func TestEliminationOrder(t *testing.T) {
	t.Parallel()

	tour, _, _ := newTestTournament(t, 3, nil)
	ps := tour.Players()

	assert.Equal(t, 3, tour.Eliminate(ps[2]))
	assert.True(t, ps[2].IsEliminated())
	assert.Zero(t, ps[2].ChipCount())
	assert.Equal(t, 2, tour.Table(1).NumOccupiedSeats())
	assert.Nil(t, tour.Crown(), "two players still in")

	assert.Equal(t, 2, tour.Eliminate(ps[1]))
	assert.True(t, tour.IsOnePlayerLeft())
	winner := tour.Crown()
	require.NotNil(t, winner)
	assert.Equal(t, ps[0].ID(), winner.ID())
	assert.Equal(t, 1, winner.Position())
}

func TestRebuyLimits(t *testing.T) {
	t.Parallel()

	tour, _, _ := newTestTournament(t, 2, func(s *Settings) {
		s.RebuyUntilLevel = 1
		s.MaxRebuys = 1
	})
	p := tour.Players()[0]
	require.True(t, tour.CanRebuy(p))
	tour.Rebuy(p)
	assert.Equal(t, 3000, p.ChipCount())
	assert.False(t, tour.CanRebuy(p), "max rebuys reached")

	q := tour.Players()[1]
	q.observer = true
	assert.False(t, tour.CanRebuy(q), "observers cannot rebuy")
	q.observer, q.eliminated = false, true
	assert.False(t, tour.CanRebuy(q), "eliminated players cannot rebuy")
	q.eliminated = false
	require.True(t, tour.CanRebuy(q))

	tour.NextLevel()
	assert.False(t, tour.CanRebuy(q), "rebuy period over")
}

func TestHandIDsAreReproducible(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestTournament(t, 2, nil)
	b, _, _ := newTestTournament(t, 2, nil)
	a.Table(1).StartNewHand()
	b.Table(1).StartNewHand()

	id := a.Table(1).CurrentHand().ID()
	require.NoError(t, handid.Validate(id))
	assert.Equal(t, id, b.Table(1).CurrentHand().ID())
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		tweak func(*Settings)
	}{
		{"no chips", func(s *Settings) { s.StartingChips = -1 }},
		{"one seat", func(s *Settings) { s.SeatsPerTable = 1 }},
		{"break first", func(s *Settings) { s.Levels = []Level{{Break: true}, {SmallBlind: 5, BigBlind: 10, MinChip: 5}} }},
		{"break last", func(s *Settings) { s.Levels = []Level{{SmallBlind: 5, BigBlind: 10, MinChip: 5}, {Break: true}} }},
		{"odd blinds", func(s *Settings) { s.Levels = []Level{{SmallBlind: 5, BigBlind: 12, MinChip: 5}} }},
		{"shrinking chip", func(s *Settings) {
			s.Levels = []Level{{SmallBlind: 25, BigBlind: 50, MinChip: 25}, {SmallBlind: 30, BigBlind: 60, MinChip: 5}}
		}},
		{"no level length", func(s *Settings) { s.LevelDuration = 0 }},
		{"addon past end", func(s *Settings) { s.AddonLevel = 99 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.tweak(&s)
			require.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}

	require.NoError(t, DefaultSettings().Validate())
}
