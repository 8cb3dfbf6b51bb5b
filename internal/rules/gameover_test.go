package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckGameOverStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   GameOverInput
		want GameOverResult
	}{
		{"healthy human", GameOverInput{HumanChips: 1500}, Continue},
		{"broke with rebuy", GameOverInput{RebuyAllowed: true}, RebuyOffered},
		{"broke with rebuy online", GameOverInput{RebuyAllowed: true, Online: true}, RebuyOffered},
		{"broke offline", GameOverInput{}, GameOver},
		{"broke offline never broke", GameOverInput{NeverBroke: true}, NeverBrokeActive},
		{"rebuy beats never broke", GameOverInput{NeverBroke: true, RebuyAllowed: true}, RebuyOffered},
		{"broke online defers", GameOverInput{Online: true}, Continue},
		{"broke online last one standing", GameOverInput{Online: true, OnePlayerLeft: true}, TournamentWon},
		{"observer is never broke", GameOverInput{HumanObserver: true}, Continue},
		{"winner", GameOverInput{HumanChips: 30000, OnePlayerLeft: true}, TournamentWon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckGameOverStatus(tt.in))
		})
	}
}

func TestCheckGameOverStatusChipsNeverEndGame(t *testing.T) {
	t.Parallel()

	for _, chips := range []int{1, 5, 100, 99999} {
		for mask := 0; mask < 32; mask++ {
			in := GameOverInput{
				HumanChips:    chips,
				HumanObserver: mask&1 != 0,
				RebuyAllowed:  mask&2 != 0,
				OnePlayerLeft: mask&4 != 0,
				Online:        mask&8 != 0,
				NeverBroke:    mask&16 != 0,
			}
			got := CheckGameOverStatus(in)
			require.NotEqual(t, GameOver, got, "%+v", in)
			require.NotEqual(t, RebuyOffered, got, "%+v", in)
		}
	}
}

func TestNeverBrokeTransfer(t *testing.T) {
	t.Parallel()

	got, err := NeverBrokeTransfer(10000, 25)
	require.NoError(t, err)
	assert.Equal(t, 5000, got)

	got, err = NeverBrokeTransfer(10030, 25)
	require.NoError(t, err)
	assert.Equal(t, 5000, got)

	got, err = NeverBrokeTransfer(1, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = NeverBrokeTransfer(1000, 0)
	assert.ErrorIs(t, err, ErrInvalidMinChip)
}

func TestShouldOfferRebuy(t *testing.T) {
	t.Parallel()

	assert.True(t, ShouldOfferRebuy(0, false, true))
	assert.False(t, ShouldOfferRebuy(0, true, true))
	assert.False(t, ShouldOfferRebuy(10, false, true))
	assert.False(t, ShouldOfferRebuy(0, false, false))
}
