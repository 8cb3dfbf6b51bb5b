// Package memtable keeps a whole tournament in memory: players, tables,
// hands and the blind structure. It implements the views the tournament
// engine works against and is what the director drives.
package memtable

import (
	"errors"
	"fmt"
	"time"

	"github.com/lox/pokertourney/internal/state"
	"github.com/lox/pokertourney/internal/tournament"
)

// Level is one step of the blind structure. A break level has no blinds.
type Level struct {
	SmallBlind int
	BigBlind   int
	Ante       int
	MinChip    int
	Break      bool
	// Duration overrides Settings.LevelDuration when set.
	Duration time.Duration
}

func (l Level) String() string {
	if l.Break {
		return fmt.Sprintf("break %s", l.Duration)
	}
	if l.Ante > 0 {
		return fmt.Sprintf("%d/%d ante %d", l.SmallBlind, l.BigBlind, l.Ante)
	}
	return fmt.Sprintf("%d/%d", l.SmallBlind, l.BigBlind)
}

// Settings describe a tournament. Zero values take the defaults from
// DefaultSettings where one exists.
type Settings struct {
	Name          string
	StartingChips int
	SeatsPerTable int
	Online        bool

	Levels        []Level
	LevelDuration time.Duration
	// HandsPerLevel advances the level after that many hands per table,
	// whatever the clock says. Zero disables it.
	HandsPerLevel int

	RebuyUntilLevel int
	MaxRebuys       int
	RebuyChips      int
	AddonLevel      int
	AddonChips      int
	NeverBroke      bool

	ActionTimeout time.Duration
	// RoundTimeouts overrides ActionTimeout per betting round, indexed by
	// state.BettingRound.Index.
	RoundTimeouts []time.Duration
	ThinkBank     time.Duration

	AutoDeal      bool
	AutoDealDelay time.Duration
	// AIPause is how long computer players think, in tenths of a second.
	AIPause int
	// RabbitHunt deals out the board even when everyone folded.
	RabbitHunt bool
	// AIFaceUp shows computer hole cards at the showdown.
	AIFaceUp bool
	// SimulatedStep is taken off the level clock for each offline step.
	SimulatedStep  time.Duration
	BreakStep      time.Duration
	ScheduledStart tournament.ScheduledStart

	Seed int64
}

// DefaultSettings is a small practice structure.
func DefaultSettings() Settings {
	return Settings{
		Name:          "practice",
		StartingChips: 1500,
		SeatsPerTable: 10,
		Levels: []Level{
			{SmallBlind: 10, BigBlind: 20, MinChip: 5},
			{SmallBlind: 15, BigBlind: 30, MinChip: 5},
			{SmallBlind: 25, BigBlind: 50, MinChip: 25},
			{SmallBlind: 50, BigBlind: 100, Ante: 25, MinChip: 25},
			{SmallBlind: 100, BigBlind: 200, Ante: 25, MinChip: 25},
		},
		LevelDuration: 20 * time.Minute,
		RebuyChips:    1500,
		AddonChips:    1500,
		ActionTimeout: 30 * time.Second,
		AutoDealDelay: time.Second,
		SimulatedStep: 10 * time.Second,
		BreakStep:     time.Minute,
	}
}

var ErrInvalidSettings = errors.New("invalid tournament settings")

func (s *Settings) applyDefaults() {
	def := DefaultSettings()
	if s.StartingChips == 0 {
		s.StartingChips = def.StartingChips
	}
	if s.SeatsPerTable == 0 {
		s.SeatsPerTable = def.SeatsPerTable
	}
	if len(s.Levels) == 0 {
		s.Levels = def.Levels
	}
	if s.ActionTimeout == 0 {
		s.ActionTimeout = def.ActionTimeout
	}
	if s.RebuyChips == 0 {
		s.RebuyChips = s.StartingChips
	}
	if s.AddonChips == 0 {
		s.AddonChips = s.StartingChips
	}
	if s.SimulatedStep == 0 {
		s.SimulatedStep = def.SimulatedStep
	}
	if s.BreakStep == 0 {
		s.BreakStep = def.BreakStep
	}
}

// Validate checks the settings hang together.
func (s Settings) Validate() error {
	if s.StartingChips <= 0 {
		return fmt.Errorf("%w: starting chips must be positive", ErrInvalidSettings)
	}
	if s.SeatsPerTable < 2 || s.SeatsPerTable > 10 {
		return fmt.Errorf("%w: seats per table must be between 2 and 10, got %d", ErrInvalidSettings, s.SeatsPerTable)
	}
	if len(s.Levels) == 0 {
		return fmt.Errorf("%w: at least one level is required", ErrInvalidSettings)
	}
	if s.Levels[0].Break {
		return fmt.Errorf("%w: the first level cannot be a break", ErrInvalidSettings)
	}
	if s.Levels[len(s.Levels)-1].Break {
		return fmt.Errorf("%w: the last level cannot be a break", ErrInvalidSettings)
	}
	lastMinChip := 0
	for i, l := range s.Levels {
		n := i + 1
		if l.Break {
			if l.Duration <= 0 && s.LevelDuration <= 0 {
				return fmt.Errorf("%w: break at level %d needs a duration", ErrInvalidSettings, n)
			}
			continue
		}
		if l.MinChip <= 0 {
			return fmt.Errorf("%w: level %d min chip must be positive", ErrInvalidSettings, n)
		}
		if l.MinChip < lastMinChip {
			return fmt.Errorf("%w: level %d min chip %d is below the previous %d", ErrInvalidSettings, n, l.MinChip, lastMinChip)
		}
		lastMinChip = l.MinChip
		if l.SmallBlind <= 0 || l.BigBlind < l.SmallBlind {
			return fmt.Errorf("%w: level %d blinds %d/%d", ErrInvalidSettings, n, l.SmallBlind, l.BigBlind)
		}
		for _, amount := range []int{l.SmallBlind, l.BigBlind, l.Ante} {
			if amount%l.MinChip != 0 {
				return fmt.Errorf("%w: level %d amount %d is not a multiple of min chip %d", ErrInvalidSettings, n, amount, l.MinChip)
			}
		}
	}
	if s.LevelDuration <= 0 && s.HandsPerLevel <= 0 {
		return fmt.Errorf("%w: levels need a duration or a hand count", ErrInvalidSettings)
	}
	if s.ActionTimeout <= 0 {
		return fmt.Errorf("%w: action timeout must be positive", ErrInvalidSettings)
	}
	if s.AddonLevel > len(s.Levels) {
		return fmt.Errorf("%w: addon level %d is past the last level", ErrInvalidSettings, s.AddonLevel)
	}
	if s.AIPause < 0 {
		return fmt.Errorf("%w: ai pause cannot be negative", ErrInvalidSettings)
	}
	return nil
}

func (s Settings) timeoutFor(r state.BettingRound) time.Duration {
	if i := r.Index(); i >= 0 && i < len(s.RoundTimeouts) && s.RoundTimeouts[i] > 0 {
		return s.RoundTimeouts[i]
	}
	return s.ActionTimeout
}
