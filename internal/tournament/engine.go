// Package tournament drives a single table through one step of the
// tournament hand lifecycle. The engine decides; callers apply.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokertourney/internal/action"
	"github.com/lox/pokertourney/internal/event"
	"github.com/lox/pokertourney/internal/rules"
	"github.com/lox/pokertourney/internal/state"
)

const (
	sittingOutPause     = 1100 * time.Millisecond
	onlineAutoDealPause = time.Second
	levelCheckWait      = 30 * time.Second
	defaultClientWait   = 5 * time.Second
	bettingWaitGrace    = time.Second
)

// Engine is stateless between calls; all table state lives behind the
// Table and Game interfaces. One Engine may serve every table.
type Engine struct {
	actions ActionProvider
	events  event.Publisher
	clock   quartz.Clock
	logger  *log.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock sets the clock used for scheduled starts and wait timeouts.
func WithClock(c quartz.Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

func WithLogger(l *log.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine. events may be nil.
func NewEngine(actions ActionProvider, events event.Publisher, opts ...EngineOption) *Engine {
	if events == nil {
		events = event.Discard
	}
	e := &Engine{
		actions: actions,
		events:  events,
		clock:   quartz.NewReal(),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithPrefix("engine")
	return e
}

// ProcessTable performs one step for t and reports what should happen next.
// It never changes the table state itself. An *InvariantError is fatal for
// the table; ErrCancelled means an answer arrived too late and was dropped.
func (e *Engine) ProcessTable(ctx context.Context, t Table, g Game, host, online bool) (Result, error) {
	if t == nil || g == nil {
		return Result{}, fmt.Errorf("%w: nil table or game", ErrInvariant)
	}

	current := t.State()
	logger := e.logger.With("table", t.Number(), "state", current)

	var (
		res Result
		err error
	)
	switch current {
	case state.None, state.BeginWait, state.GameOver:
		res = NewResult().Build()
	case state.PendingLoad:
		res = e.pendingLoad(t)
	case state.Pending:
		res = e.pending(t, g, host, online)
	case state.OnHold:
		res = e.onHold(t)
	case state.DealForButton:
		res = e.dealForButton(t, g, host, online)
	case state.Begin:
		res = e.begin(t)
	case state.CheckEndHand:
		res = NewResult().Phase(PhaseCheckEndHand).RunOnClient(true).Pending(state.Clean).Build()
	case state.Clean:
		res = e.clean(t, g)
	case state.NewLevelCheck:
		res = e.newLevelCheck(t, g, host)
	case state.ColorUp:
		res = e.colorUp(t, g, host)
	case state.StartHand:
		res = e.startHand(t, g, host, online)
	case state.Betting:
		res, err = e.betting(ctx, t, g, host, online)
	case state.Community:
		res = e.community(t, g, host, online)
	case state.PreShowdown:
		res = e.preShowdown(t, g, host, online)
	case state.Showdown:
		res = e.showdown(t, g, host, online)
	case state.Done:
		res = NewResult().Next(state.Begin).Build()
	case state.Break:
		res = e.breakLevel(t, g, host, online)
	default:
		return Result{}, invariant(t, "unknown table state %d", int(current))
	}
	if err != nil {
		if !errors.Is(err, ErrCancelled) {
			logger.Error("Table step failed", "error", err)
		}
		return Result{}, err
	}

	logger.Debug("Table step", "result", res)
	return res, nil
}

func (e *Engine) pendingLoad(t Table) Result {
	b := NewResult().Next(state.Pending)
	if p := t.PendingPhase(); p != PhaseNone {
		b.Phase(p)
	}
	return b.Build()
}

func (e *Engine) pending(t Table, g Game, host, online bool) Result {
	if host {
		e.checkScheduledStart(t, g)
	}
	if online && t.WaitSize() > 0 {
		e.checkWaitTimeouts(t, g)
	}

	if t.WaitSize() == 0 {
		next := t.PendingState()
		if host && next == state.Begin && t.IsAutoDeal() {
			if online {
				t.SetPause(onlineAutoDealPause)
			} else {
				t.SetPause(t.AutoDealDelay())
			}
		}
		return NewResult().Next(next).Sleep(false).Build()
	}

	sleep := true
	if t.PendingState() == state.Betting && t.IsZipMode() {
		sleep = false
	}
	if first := t.WaitPlayer(0); first != nil && !first.IsHumanControlled() && !online {
		sleep = false
	}
	return NewResult().Sleep(sleep).Build()
}

func (e *Engine) checkScheduledStart(t Table, g Game) {
	sched := g.ScheduledStart()
	if !sched.Enabled || sched.At.IsZero() {
		return
	}
	if e.clock.Now().Before(sched.At) || g.NumPlayers() < sched.MinPlayers {
		return
	}
	if t.WaitSize() > 0 {
		e.logger.Info("Scheduled start reached", "table", t.Number(), "players", g.NumPlayers())
		t.RemoveWaitAll()
	}
}

// checkWaitTimeouts stops waiting on clients that have had long enough. A
// betting player who times out gets the default action so the hand moves on.
func (e *Engine) checkWaitTimeouts(t Table, g Game) {
	waited := t.SinceStateChange()

	switch t.PreviousState() {
	case state.Betting:
		hand := t.Hand()
		p := t.WaitPlayer(0)
		if hand == nil || p == nil {
			return
		}
		limit := g.TimeoutForRound(hand.Round()) + bettingWaitGrace + max(0, p.ThinkBank())
		if waited < limit || !p.IsHumanControlled() {
			return
		}
		opts := OptionsFor(t, p, g)
		applied := opts.Default()
		if err := hand.ApplyAction(p, applied); err != nil {
			applied = action.FoldAction()
			if err := hand.ApplyAction(p, applied); err != nil {
				e.logger.Error("Timeout action rejected", "table", t.Number(), "player", p.Name(), "error", err)
				return
			}
		}
		e.logger.Warn("Player timed out", "table", t.Number(), "player", p.Name(), "action", applied)
		e.events.Publish(event.NewActionTimeout(t.Number(), p.ID(), applied))
		e.events.Publish(event.NewPlayerActed(t.Number(), hand.ID(), p.ID(), p.Name(), applied, hand.Round(), hand.Pot()))
		t.RemoveWaitAll()
	case state.NewLevelCheck:
		if waited >= levelCheckWait {
			t.RemoveWaitAll()
		}
	default:
		if waited >= defaultClientWait {
			t.RemoveWaitAll()
		}
	}
}

func (e *Engine) onHold(t Table) Result {
	if t.NumOccupiedSeats() > 1 {
		return NewResult().Next(state.Begin).Build()
	}
	return NewResult().Build()
}

func (e *Engine) dealForButton(t Table, g Game, host, online bool) Result {
	if host {
		t.AssignButton()
	}
	if online {
		g.StartClock()
	}
	return NewResult().Phase(PhaseDealDisplayHigh).RunOnClient(true).Pending(state.Begin).Build()
}

func (e *Engine) begin(t Table) Result {
	if t.IsAutoDeal() {
		return NewResult().Next(state.StartHand).Build()
	}
	return NewResult().Phase(PhaseWaitForDeal).Next(state.BeginWait).Build()
}

func (e *Engine) clean(t Table, g Game) Result {
	if g.IsGameOver() {
		return NewResult().Next(state.GameOver).Sleep(false).Build()
	}
	if t.NumOccupiedSeats() <= 1 {
		return NewResult().Next(state.OnHold).Build()
	}
	if !g.IsOnline() && len(t.AddedPlayers()) > 0 {
		return NewResult().Phase(PhaseDisplayTableMoves).Pending(state.NewLevelCheck).Build()
	}
	return NewResult().Next(state.NewLevelCheck).Sleep(false).Build()
}

func (e *Engine) newLevelCheck(t Table, g Game, host bool) Result {
	if !rules.HasLevelChanged(g.Level(), t.Level()) {
		if host {
			t.ClearRebuyList()
		}
		return NewResult().Next(state.StartHand).Sleep(false).Build()
	}

	if host {
		levelBookkeeping(t)
		t.SetLevel(g.Level())
		if rules.ShouldProcessAllComputerLevelCheck(host, t.IsCurrent()) {
			for _, other := range otherComputerTables(t, g) {
				levelBookkeeping(other)
			}
		}
	}
	e.logger.Debug("Level changed", "table", t.Number(), "level", g.Level())
	return NewResult().Phase(PhaseNewLevelActions).RunOnClient(true).Pending(state.ColorUp).Build()
}

func levelBookkeeping(t Table) {
	t.ProcessAIRebuys()
	t.ProcessAIAddOns()
}

func (e *Engine) colorUp(t Table, g Game, host bool) Result {
	if host && rules.ShouldColorUp(g.LastMinChip(), g.MinChip()) {
		t.SetNextMinChip(g.MinChip())
		t.DetermineColorUp()
		if rules.ShouldProcessAllComputerColorUp(host, t.IsCurrent(), t.IsColoringUp()) {
			for _, other := range otherComputerTables(t, g) {
				other.SetNextMinChip(g.MinChip())
				other.DetermineColorUp()
			}
		}
	}
	if t.IsColoringUp() {
		e.events.Publish(event.NewColorUpStarted(t.Number(), t.MinChip(), g.MinChip()))
		return NewResult().Phase(PhaseColorUp).RunOnClient(true).Pending(state.StartHand).Build()
	}
	return NewResult().Next(state.StartHand).Sleep(false).Build()
}

func otherComputerTables(t Table, g Game) []Table {
	var out []Table
	for _, other := range g.Tables() {
		if other == nil || other.Number() == t.Number() {
			continue
		}
		if other.IsRemoved() || !other.IsAllComputer() || other.IsCurrent() {
			continue
		}
		out = append(out, other)
	}
	return out
}

func (e *Engine) startHand(t Table, g Game, host, online bool) Result {
	if host {
		if t.IsColoringUp() {
			t.ColorUp()
			t.FinishColorUp()
			e.events.Publish(event.NewColorUpCompleted(t.Number(), t.MinChip()))
		}
		if g.IsBreakLevel(g.Level()) {
			t.StartBreak()
			return NewResult().Next(state.Break).RunOnClient(true).Build()
		}
		// A table that lost its players since CLEAN must not deal.
		if t.NumOccupiedSeats() <= 1 {
			return NewResult().Next(state.OnHold).Build()
		}
		t.StartNewHand()
		if !online {
			g.AdvanceClock()
		}
	}
	return NewResult().Phase(PhaseDealDisplayHand).RunOnClient(true).Pending(state.Betting).Build()
}

func (e *Engine) betting(ctx context.Context, t Table, g Game, host, online bool) (Result, error) {
	hand := t.Hand()
	if hand == nil {
		return NewResult().Build(), nil
	}
	if hand.IsDone() {
		return NewResult().Next(nextAfterBetting(hand)).Sleep(false).Build(), nil
	}

	p := hand.CurrentPlayer()
	if p == nil {
		return NewResult().Build(), nil
	}
	if host {
		p.SetTimeout(g.Timeout())
	}

	kind, err := rules.DeterminePlayerActionType(rules.ActorFacts{
		SittingOut:        p.IsSittingOut(),
		LocallyControlled: p.IsLocallyControlled(),
		CurrentTable:      t.IsCurrent(),
		Computer:          p.IsComputer(),
		Host:              host,
	})
	if err != nil {
		return Result{}, &InvariantError{Table: t.Number(), State: t.State(), Err: err}
	}

	switch kind {
	case rules.ActionSittingOut:
		t.SetPause(sittingOutPause)
		if err := e.apply(t, hand, p, action.FoldAction()); err != nil {
			return Result{}, err
		}
		return NewResult().Next(state.Betting).Sleep(!online).Build(), nil

	case rules.ActionRemote:
		t.AddWait(p)
		e.events.Publish(event.NewCurrentPlayerChanged(t.Number(), p.ID(), p.Seat()))
		return NewResult().
			RunOnClient(true).
			OnlySendToWaitList(rules.ShouldSendOnlyToWaitList(online, host)).
			AddAllHumans(false).
			Pending(state.Betting).
			Build(), nil
	}

	e.events.Publish(event.NewCurrentPlayerChanged(t.Number(), p.ID(), p.Seat()))
	opts := OptionsFor(t, p, g)
	a := action.FoldAction()
	if e.actions != nil {
		var err error
		a, err = e.actions.Action(ctx, p, opts)
		if ctx.Err() != nil || t.State() != state.Betting || t.Hand() != hand {
			e.logger.Debug("Discarding late action", "table", t.Number(), "player", p.Name())
			return Result{}, ErrCancelled
		}
		if err != nil {
			e.logger.Warn("Action provider failed, folding", "table", t.Number(), "player", p.Name(), "error", err)
			a = action.FoldAction()
		}
	}
	sized, err := chipSized(t, opts, opts.Validate(a))
	if err != nil {
		return Result{}, err
	}
	if err := e.apply(t, hand, p, sized); err != nil {
		return Result{}, err
	}
	return NewResult().Next(state.Betting).Sleep(!online).Build(), nil
}

// apply records a on the hand, falling back to a fold when the hand
// rejects it.
func (e *Engine) apply(t Table, hand Hand, p Player, a action.Action) error {
	if err := hand.ApplyAction(p, a); err != nil {
		if a.Type == action.Fold {
			return invariant(t, "fold rejected for %s: %v", p.Name(), err)
		}
		e.logger.Warn("Action rejected, folding", "table", t.Number(), "player", p.Name(), "action", a, "error", err)
		a = action.FoldAction()
		if err := hand.ApplyAction(p, a); err != nil {
			return invariant(t, "fold rejected for %s: %v", p.Name(), err)
		}
	}
	e.events.Publish(event.NewPlayerActed(t.Number(), hand.ID(), p.ID(), p.Name(), a, hand.Round(), hand.Pot()))
	return nil
}

// ApplyRemote records the answer of a remote player the table is waiting
// on during betting and clears the wait list. An answer for a player who is
// no longer due to act returns ErrCancelled.
func (e *Engine) ApplyRemote(t Table, g Game, p Player, a action.Action) error {
	hand := t.Hand()
	if hand == nil || t.State() != state.Pending || t.PendingState() != state.Betting || !waiting(t, p) {
		return ErrCancelled
	}
	if cur := hand.CurrentPlayer(); cur == nil || cur.ID() != p.ID() {
		return ErrCancelled
	}
	opts := OptionsFor(t, p, g)
	sized, err := chipSized(t, opts, opts.Validate(a))
	if err != nil {
		return err
	}
	if err := e.apply(t, hand, p, sized); err != nil {
		return err
	}
	t.RemoveWaitAll()
	return nil
}

func nextAfterBetting(hand Hand) state.TableState {
	if hand.IsUncontested() || hand.NumWithCards() <= 1 {
		return state.Showdown
	}
	return rules.DetermineNextBettingState(true, hand.Round(), state.River)
}

// chipSized rounds bet and raise sizes to whole minimum chips, staying
// inside the allowed range. A size above the stack becomes the stack.
func chipSized(t Table, opts action.Options, a action.Action) (action.Action, error) {
	lo, hi := opts.MinBet, opts.MaxBet
	switch a.Type {
	case action.Bet:
	case action.Raise:
		lo, hi = opts.MinRaise, opts.MaxRaise
	default:
		return a, nil
	}
	v, err := rules.ValidateBetAmount(t.MinChip(), a.Amount)
	if err != nil {
		return a, fmt.Errorf("table %d: %w", t.Number(), err)
	}
	amount := v.Rounded
	if amount < lo {
		chip := t.MinChip()
		amount = (lo + chip - 1) / chip * chip
	}
	a.Amount = min(amount, hi)
	return a, nil
}

// OptionsFor lists what p may do in t's hand right now. t must have a
// hand in progress.
func OptionsFor(t Table, p Player, g Game) action.Options {
	hand := t.Hand()
	toCall := hand.AmountToCall(p)
	chips := p.ChipCount()
	mode := rules.DetermineInputMode(toCall, hand.CurrentBet())
	return action.Options{
		CanFold:      true,
		CanCheck:     mode != rules.ModeCallRaise,
		CanCall:      mode == rules.ModeCallRaise && chips > 0,
		CanBet:       mode == rules.ModeCheckBet && chips > 0,
		CanRaise:     (mode == rules.ModeCheckRaise && chips > 0) || (mode == rules.ModeCallRaise && chips > toCall),
		AmountToCall: toCall,
		MinBet:       hand.MinBet(),
		MaxBet:       chips,
		MinRaise:     hand.MinRaise(),
		MaxRaise:     chips,
		MinChip:      t.MinChip(),
		Timeout:      g.TimeoutForRound(hand.Round()),
	}
}

func (e *Engine) community(t Table, g Game, host, online bool) Result {
	hand := t.Hand()
	if hand == nil {
		return NewResult().Build()
	}
	if host {
		hand.AdvanceRound()
		if !online {
			g.AdvanceClock()
		}
	}
	if rules.ShouldRunDealCommunityPhase(online, hand.NumWithCards()) {
		return NewResult().
			Phase(PhaseDealCommunity).
			RunOnClient(true).
			Pending(state.Betting).
			Sleep(!t.IsZipMode()).
			Build()
	}
	next := state.Community
	if hand.Round() == state.River {
		next = state.PreShowdown
	}
	return NewResult().Next(next).Sleep(false).Build()
}

func (e *Engine) preShowdown(t Table, g Game, host, online bool) Result {
	hand := t.Hand()
	if hand == nil {
		return NewResult().Next(state.Showdown).Sleep(false).Build()
	}
	if host {
		hand.PreResolve(online)
	} else {
		t.RemoveWaitAll()
	}

	var winners []int
	if online {
		uncontested := hand.IsUncontested()
		for _, p := range hand.PreWinners() {
			if p.IsHumanControlled() && p.AskShowWinning() && uncontested {
				t.AddWait(p)
				winners = append(winners, p.ID())
			}
		}
		for _, p := range hand.PreLosers() {
			if p.IsHumanControlled() && p.AskShowLosing() {
				t.AddWait(p)
			}
		}
	}

	if t.WaitSize() == 0 {
		return NewResult().Next(state.Showdown).Sleep(false).Build()
	}

	b := NewResult().RunOnClient(true).AddAllHumans(false).OnlySendToWaitList(rules.ShouldSendOnlyToWaitList(online, host)).Pending(state.Showdown)
	if local := g.LocalPlayer(); local != nil && waiting(t, local) {
		b.Phase(PhasePreShowdown).Param(ParamWinners, winners)
	}
	return b.Build()
}

func waiting(t Table, p Player) bool {
	for i := range t.WaitSize() {
		if w := t.WaitPlayer(i); w != nil && w.ID() == p.ID() {
			return true
		}
	}
	return false
}

func (e *Engine) showdown(t Table, g Game, host, online bool) Result {
	hand := t.Hand()
	if hand == nil {
		return NewResult().Next(state.Done).AutoSave(true).Save(t.IsCurrent()).Sleep(false).Build()
	}
	if host && hand.Round() != state.ShowdownRound {
		hand.AdvanceRound()
		t.SetZipMode(false)
		hand.Resolve()
		if !online {
			g.AdvanceClock()
		}
	}
	if local := g.LocalPlayer(); host || local == nil || !local.IsObserver() {
		hand.StoreHistory()
	}
	e.events.Publish(event.NewShowdownStarted(t.Number(), hand.ID()))
	return NewResult().
		Phase(PhaseShowdown).
		RunOnClient(true).
		Pending(state.Done).
		AutoSave(true).
		Save(t.IsCurrent()).
		Sleep(false).
		Build()
}

func (e *Engine) breakLevel(t Table, g Game, host, online bool) Result {
	if host {
		if !online {
			g.AdvanceClockBreak()
		}
		if g.IsLevelExpired() {
			g.NextLevel()
		}
	}
	if !rules.HasBreakEnded(true, rules.HasLevelChanged(g.Level(), t.Level())) {
		return NewResult().Build()
	}
	if online {
		g.StartClock()
	}
	return NewResult().Next(state.NewLevelCheck).Build()
}
