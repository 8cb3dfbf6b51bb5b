package tournament

import (
	"context"
	"time"

	"github.com/lox/pokertourney/internal/action"
	"github.com/lox/pokertourney/internal/state"
)

// Player is the engine's view of a seated player.
type Player interface {
	ID() int
	Name() string
	Seat() int

	ChipCount() int
	// ChipCountAtStart is the stack when the current hand began.
	ChipCountAtStart() int

	IsFolded() bool
	IsAllIn() bool
	IsSittingOut() bool
	IsEliminated() bool
	IsObserver() bool

	IsHuman() bool
	IsComputer() bool
	IsHumanControlled() bool
	// IsLocallyControlled is true when this process decides the player's
	// moves (a local human or an AI), false for a remote client.
	IsLocallyControlled() bool

	AskShowWinning() bool
	AskShowLosing() bool

	ThinkBank() time.Duration
	SetTimeout(d time.Duration)
}

// Hand is the in-progress deal at a table.
type Hand interface {
	ID() string
	Round() state.BettingRound
	Pot() int

	// IsDone is true when the current betting round needs no more actions.
	IsDone() bool
	IsUncontested() bool
	NumWithCards() int

	// CurrentPlayer returns the player to act, setting up the action order
	// on the first call of a round. Nil when nobody can act.
	CurrentPlayer() Player
	AmountToCall(p Player) int
	CurrentBet() int
	MinBet() int
	MinRaise() int
	ApplyAction(p Player, a action.Action) error

	// AdvanceRound moves to the next street, dealing its cards.
	AdvanceRound()
	PreResolve(online bool)
	PreWinners() []Player
	PreLosers() []Player
	Resolve()
	StoreHistory()
}

// StateHolder tracks where a table is in its lifecycle.
type StateHolder interface {
	State() state.TableState
	SetState(s state.TableState)
	PendingState() state.TableState
	SetPendingState(s state.TableState)
	PreviousState() state.TableState
	// PendingPhase is a phase queued before a reload.
	PendingPhase() Phase
	SinceStateChange() time.Duration
}

// Seating covers who sits where.
type Seating interface {
	Seats() int
	NumOccupiedSeats() int
	Player(seat int) Player
	AddedPlayers() []Player
	NumObservers() int
	IsAllComputer() bool
	IsRemoved() bool
}

// WaitList holds players the host is waiting on.
type WaitList interface {
	AddWait(p Player)
	RemoveWaitAll()
	WaitSize() int
	WaitPlayer(i int) Player
}

// ChipRack covers rebuys, addons and color-ups.
type ChipRack interface {
	MinChip() int
	ProcessAIRebuys()
	ProcessAIAddOns()
	ClearRebuyList()
	SetNextMinChip(minChip int)
	DetermineColorUp()
	IsColoringUp() bool
	ColorUp()
	FinishColorUp()
}

// Table is everything the engine reads or changes on a table.
type Table interface {
	StateHolder
	Seating
	WaitList
	ChipRack

	Number() int
	Level() int
	SetLevel(level int)
	Hand() Hand

	IsCurrent() bool
	IsAutoDeal() bool
	AutoDealDelay() time.Duration
	SetPause(d time.Duration)
	IsZipMode() bool
	SetZipMode(zip bool)

	AssignButton()
	StartBreak()
	StartNewHand()
}

// ScheduledStart describes an optional timed start for a tournament.
type ScheduledStart struct {
	Enabled    bool
	At         time.Time
	MinPlayers int
}

// Game is the tournament-wide context shared by every table.
type Game interface {
	Level() int
	NextLevel()
	IsLevelExpired() bool
	IsBreakLevel(level int) bool
	AdvanceClock()
	AdvanceClockBreak()
	StartClock()

	LastMinChip() int
	MinChip() int

	Tables() []Table
	NumPlayers() int
	LocalPlayer() Player

	IsOnline() bool
	IsGameOver() bool
	IsOnePlayerLeft() bool

	ScheduledStart() ScheduledStart
	Timeout() time.Duration
	TimeoutForRound(r state.BettingRound) time.Duration
}

// ActionProvider answers "what does this player do?" It must return within
// opts.Timeout, and must return promptly once ctx is done.
type ActionProvider interface {
	Action(ctx context.Context, p Player, opts action.Options) (action.Action, error)
}

// ActionProviderFunc adapts a function to ActionProvider.
type ActionProviderFunc func(ctx context.Context, p Player, opts action.Options) (action.Action, error)

func (f ActionProviderFunc) Action(ctx context.Context, p Player, opts action.Options) (action.Action, error) {
	return f(ctx, p, opts)
}
