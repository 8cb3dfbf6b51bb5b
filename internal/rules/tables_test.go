package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTable struct {
	name        string
	removed     bool
	allComputer bool
	observers   int
}

func (f *fakeTable) IsRemoved() bool     { return f.removed }
func (f *fakeTable) IsAllComputer() bool { return f.allComputer }
func (f *fakeTable) NumObservers() int   { return f.observers }

func TestSelectNewTable(t *testing.T) {
	t.Parallel()

	removed := &fakeTable{name: "removed", removed: true}
	human := &fakeTable{name: "human"}
	human2 := &fakeTable{name: "human2"}
	bots := &fakeTable{name: "bots", allComputer: true}
	bots2 := &fakeTable{name: "bots2", allComputer: true}

	tests := []struct {
		name         string
		current      Candidate
		host         Candidate
		all          []Candidate
		want         Candidate
		wantFallback bool
	}{
		{"host table first", removed, human2, []Candidate{human}, human2, false},
		{"removed host skipped", removed, removed, []Candidate{bots, human, human2}, human, false},
		{"first table with humans", removed, nil, []Candidate{removed, bots, human}, human, false},
		{"current table when only bots remain", human2, nil, []Candidate{bots}, human2, false},
		{"all computer fallback", removed, nil, []Candidate{removed, bots, bots2}, bots, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fallback, err := SelectNewTable(tt.current, tt.host, tt.all)
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
			assert.Equal(t, tt.wantFallback, fallback)
		})
	}
}

func TestSelectNewTableRemovedCurrentOnlyAllComputer(t *testing.T) {
	t.Parallel()

	current := &fakeTable{removed: true}
	bots := &fakeTable{allComputer: true}

	got, fallback, err := SelectNewTable[Candidate](current, nil, []Candidate{bots})
	require.NoError(t, err)
	assert.Same(t, bots, got)
	assert.True(t, fallback)
}

func TestSelectNewTableNothingLeft(t *testing.T) {
	t.Parallel()

	current := &fakeTable{removed: true}
	_, _, err := SelectNewTable[Candidate](current, nil, []Candidate{&fakeTable{removed: true}})
	require.ErrorIs(t, err, ErrNoValidTable)

	_, _, err = SelectNewTable[Candidate](nil, nil, nil)
	require.ErrorIs(t, err, ErrNoValidTable)
}

func TestTablePredicates(t *testing.T) {
	t.Parallel()

	bots := &fakeTable{allComputer: true}
	watched := &fakeTable{allComputer: true, observers: 2}
	human := &fakeTable{}

	assert.True(t, ShouldMoveObservers[Candidate](bots))
	assert.False(t, ShouldMoveObservers[Candidate](human))
	assert.False(t, ShouldMoveObservers[Candidate](nil))

	assert.True(t, WasAllComputerNoObservers[Candidate](bots))
	assert.False(t, WasAllComputerNoObservers[Candidate](watched))

	assert.True(t, IsTableRemoved[Candidate](nil))
	assert.False(t, IsAllComputer[Candidate](nil))
}

type seat bool

func (s seat) IsComputer() bool { return bool(s) }

func TestCountHumanPlayers(t *testing.T) {
	t.Parallel()

	players := []Computerized{seat(true), nil, seat(false), seat(false), nil}
	assert.Equal(t, 2, CountHumanPlayers(players))
	assert.Equal(t, 0, CountHumanPlayers[Computerized](nil))

	assert.True(t, HasHumanObservers([]Computerized{seat(true), seat(false)}))
	assert.False(t, HasHumanObservers([]Computerized{seat(true)}))
}
