package tournament

import (
	"errors"
	"time"

	"github.com/lox/pokertourney/internal/action"
	"github.com/lox/pokertourney/internal/state"
)

type fakePlayer struct {
	id, seat, chips int
	name            string

	folded, allIn, sittingOut, observer bool
	human, remote                       bool
	askShowWinning, askShowLosing       bool
	thinkBank, timeout                  time.Duration
}

func (p *fakePlayer) ID() int                   { return p.id }
func (p *fakePlayer) Name() string              { return p.name }
func (p *fakePlayer) Seat() int                 { return p.seat }
func (p *fakePlayer) ChipCount() int            { return p.chips }
func (p *fakePlayer) ChipCountAtStart() int     { return p.chips }
func (p *fakePlayer) IsFolded() bool            { return p.folded }
func (p *fakePlayer) IsAllIn() bool             { return p.allIn }
func (p *fakePlayer) IsSittingOut() bool        { return p.sittingOut }
func (p *fakePlayer) IsEliminated() bool        { return false }
func (p *fakePlayer) IsObserver() bool          { return p.observer }
func (p *fakePlayer) IsHuman() bool             { return p.human }
func (p *fakePlayer) IsComputer() bool          { return !p.human }
func (p *fakePlayer) IsHumanControlled() bool   { return p.human }
func (p *fakePlayer) IsLocallyControlled() bool { return !p.remote }
func (p *fakePlayer) AskShowWinning() bool      { return p.askShowWinning }
func (p *fakePlayer) AskShowLosing() bool       { return p.askShowLosing }
func (p *fakePlayer) ThinkBank() time.Duration  { return p.thinkBank }
func (p *fakePlayer) SetTimeout(d time.Duration) {
	p.timeout = d
}

type fakeHand struct {
	round        state.BettingRound
	done         bool
	uncontested  bool
	numWithCards int
	current      *fakePlayer
	toCall       int
	currentBet   int
	pot          int

	applied       []action.Action
	rejectNonFold bool
	rejectAll     bool

	advanced, preResolved, resolved, stored int
	winners, losers                         []Player
}

func (h *fakeHand) ID() string                { return "hand-1" }
func (h *fakeHand) Round() state.BettingRound { return h.round }
func (h *fakeHand) Pot() int                  { return h.pot }
func (h *fakeHand) IsDone() bool              { return h.done }
func (h *fakeHand) IsUncontested() bool       { return h.uncontested }
func (h *fakeHand) NumWithCards() int         { return h.numWithCards }
func (h *fakeHand) AmountToCall(Player) int   { return h.toCall }
func (h *fakeHand) CurrentBet() int           { return max(h.currentBet, h.toCall) }
func (h *fakeHand) MinBet() int               { return 20 }
func (h *fakeHand) MinRaise() int             { return 40 }
func (h *fakeHand) PreWinners() []Player      { return h.winners }
func (h *fakeHand) PreLosers() []Player       { return h.losers }
func (h *fakeHand) PreResolve(bool)           { h.preResolved++ }
func (h *fakeHand) Resolve()                  { h.resolved++ }
func (h *fakeHand) StoreHistory()             { h.stored++ }
func (h *fakeHand) AdvanceRound() {
	h.advanced++
	h.round = h.round.Next()
}

func (h *fakeHand) CurrentPlayer() Player {
	if h.current == nil {
		return nil
	}
	return h.current
}

func (h *fakeHand) ApplyAction(_ Player, a action.Action) error {
	if h.rejectAll || (h.rejectNonFold && a.Type != action.Fold) {
		return errors.New("rejected")
	}
	h.applied = append(h.applied, a)
	if a.Type == action.Fold {
		h.done = true
		h.uncontested = true
	}
	return nil
}

type fakeTable struct {
	number       int
	st           state.TableState
	pending      state.TableState
	previous     state.TableState
	pendingPhase Phase
	since        time.Duration

	occupied    int
	added       []Player
	allComputer bool
	removed     bool
	current     bool
	autoDeal    bool
	zip         bool
	level       int
	minChip     int
	hand        *fakeHand

	wait  []Player
	pause time.Duration

	buttonAssigned, breakStarted, handsStarted int
	rebuys, addons, rebuyListCleared           int
	nextMinChip                                int
	coloringUp, colorUpDone                    bool
}

func newFakeTable(st state.TableState) *fakeTable {
	return &fakeTable{number: 1, st: st, occupied: 3, level: 1, minChip: 1, current: true}
}

func (t *fakeTable) State() state.TableState            { return t.st }
func (t *fakeTable) SetState(s state.TableState)        { t.previous, t.st = t.st, s }
func (t *fakeTable) PendingState() state.TableState     { return t.pending }
func (t *fakeTable) SetPendingState(s state.TableState) { t.pending = s }
func (t *fakeTable) PreviousState() state.TableState    { return t.previous }
func (t *fakeTable) PendingPhase() Phase                { return t.pendingPhase }
func (t *fakeTable) SinceStateChange() time.Duration    { return t.since }

func (t *fakeTable) Seats() int            { return 10 }
func (t *fakeTable) NumOccupiedSeats() int { return t.occupied }
func (t *fakeTable) Player(int) Player     { return nil }
func (t *fakeTable) AddedPlayers() []Player {
	return t.added
}
func (t *fakeTable) NumObservers() int   { return 0 }
func (t *fakeTable) IsAllComputer() bool { return t.allComputer }
func (t *fakeTable) IsRemoved() bool     { return t.removed }

func (t *fakeTable) AddWait(p Player) { t.wait = append(t.wait, p) }
func (t *fakeTable) RemoveWaitAll()   { t.wait = nil }
func (t *fakeTable) WaitSize() int    { return len(t.wait) }
func (t *fakeTable) WaitPlayer(i int) Player {
	if i < 0 || i >= len(t.wait) {
		return nil
	}
	return t.wait[i]
}

func (t *fakeTable) MinChip() int               { return t.minChip }
func (t *fakeTable) ProcessAIRebuys()           { t.rebuys++ }
func (t *fakeTable) ProcessAIAddOns()           { t.addons++ }
func (t *fakeTable) ClearRebuyList()            { t.rebuyListCleared++ }
func (t *fakeTable) SetNextMinChip(minChip int) { t.nextMinChip = minChip }
func (t *fakeTable) DetermineColorUp()          { t.coloringUp = t.nextMinChip > t.minChip }
func (t *fakeTable) IsColoringUp() bool         { return t.coloringUp }
func (t *fakeTable) ColorUp()                   { t.colorUpDone = true }
func (t *fakeTable) FinishColorUp() {
	t.minChip = t.nextMinChip
	t.coloringUp = false
}

func (t *fakeTable) Number() int        { return t.number }
func (t *fakeTable) Level() int         { return t.level }
func (t *fakeTable) SetLevel(level int) { t.level = level }
func (t *fakeTable) Hand() Hand {
	if t.hand == nil {
		return nil
	}
	return t.hand
}

func (t *fakeTable) IsCurrent() bool              { return t.current }
func (t *fakeTable) IsAutoDeal() bool             { return t.autoDeal }
func (t *fakeTable) AutoDealDelay() time.Duration { return 250 * time.Millisecond }
func (t *fakeTable) SetPause(d time.Duration)     { t.pause = d }
func (t *fakeTable) IsZipMode() bool              { return t.zip }
func (t *fakeTable) SetZipMode(zip bool)          { t.zip = zip }

func (t *fakeTable) AssignButton() { t.buttonAssigned++ }
func (t *fakeTable) StartBreak()   { t.breakStarted++ }
func (t *fakeTable) StartNewHand() { t.handsStarted++ }

type fakeGame struct {
	level        int
	breakLevels  map[int]bool
	levelExpired bool
	lastMinChip  int
	minChip      int
	tables       []Table
	numPlayers   int
	local        Player
	online       bool
	gameOver     bool
	schedule     ScheduledStart
	roundTimeout time.Duration

	clockAdvances int
	breakAdvances int
	clockStarts   int
}

func newFakeGame() *fakeGame {
	return &fakeGame{level: 1, lastMinChip: 1, minChip: 1, numPlayers: 6, roundTimeout: 30 * time.Second}
}

func (g *fakeGame) Level() int                  { return g.level }
func (g *fakeGame) NextLevel()                  { g.level++ }
func (g *fakeGame) IsLevelExpired() bool        { return g.levelExpired }
func (g *fakeGame) IsBreakLevel(level int) bool { return g.breakLevels[level] }
func (g *fakeGame) AdvanceClock()               { g.clockAdvances++ }
func (g *fakeGame) AdvanceClockBreak()          { g.breakAdvances++ }
func (g *fakeGame) StartClock()                 { g.clockStarts++ }
func (g *fakeGame) LastMinChip() int            { return g.lastMinChip }
func (g *fakeGame) MinChip() int                { return g.minChip }
func (g *fakeGame) Tables() []Table             { return g.tables }
func (g *fakeGame) NumPlayers() int             { return g.numPlayers }
func (g *fakeGame) LocalPlayer() Player {
	if g.local == nil {
		return nil
	}
	return g.local
}
func (g *fakeGame) IsOnline() bool                 { return g.online }
func (g *fakeGame) IsGameOver() bool               { return g.gameOver }
func (g *fakeGame) IsOnePlayerLeft() bool          { return false }
func (g *fakeGame) ScheduledStart() ScheduledStart { return g.schedule }
func (g *fakeGame) Timeout() time.Duration         { return g.roundTimeout }
func (g *fakeGame) TimeoutForRound(state.BettingRound) time.Duration {
	return g.roundTimeout
}
