// Package director drives every table of a tournament through the engine
// until one player holds all the chips.
package director

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokertourney/internal/action"
	"github.com/lox/pokertourney/internal/event"
	"github.com/lox/pokertourney/internal/memtable"
	"github.com/lox/pokertourney/internal/rules"
	"github.com/lox/pokertourney/internal/state"
	"github.com/lox/pokertourney/internal/tournament"
)

var ErrNotSeated = errors.New("tournament has no tables")

// onlinePoll bounds how long an idle online table waits before looking at
// its clocks again.
const onlinePoll = 100 * time.Millisecond

// Director runs one driver goroutine per table. Every engine step except
// betting happens under the coordinator lock, so level changes, color-ups
// and table moves have a single writer while players think in parallel.
type Director struct {
	engine *tournament.Engine
	t      *memtable.Tournament
	events event.Publisher
	remote tournament.ActionProvider
	offers Offers
	clock  quartz.Clock
	logger *log.Logger

	host      bool
	online    bool
	stepDelay time.Duration

	coord sync.Mutex

	wakeMu sync.Mutex
	wake   chan struct{}

	finishOnce sync.Once
	winner     *memtable.Player
}

// Option configures a Director.
type Option func(*Director)

func WithClock(c quartz.Clock) Option {
	return func(d *Director) { d.clock = c }
}

func WithLogger(l *log.Logger) Option {
	return func(d *Director) { d.logger = l }
}

// WithRemote answers remote players the tables are waiting on. Without
// one they take the default action.
func WithRemote(p tournament.ActionProvider) Option {
	return func(d *Director) { d.remote = p }
}

// WithOffers decides rebuy, addon and never-broke offers for humans.
// Without one every offer is declined.
func WithOffers(o Offers) Option {
	return func(d *Director) { d.offers = o }
}

// WithStepDelay pauses between steps the engine marks as sleepy, so a
// watched game runs at a readable pace.
func WithStepDelay(delay time.Duration) Option {
	return func(d *Director) { d.stepDelay = delay }
}

// New prepares a director for a seated tournament.
func New(engine *tournament.Engine, t *memtable.Tournament, events event.Publisher, opts ...Option) *Director {
	if events == nil {
		events = event.Discard
	}
	d := &Director{
		engine: engine,
		t:      t,
		events: events,
		offers: DeclineAll{},
		clock:  quartz.NewReal(),
		logger: log.Default(),
		host:   true,
		online: t.IsOnline(),
		wake:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.remote == nil {
		d.remote = tournament.ActionProviderFunc(func(_ context.Context, _ tournament.Player, opts action.Options) (action.Action, error) {
			return opts.Default(), nil
		})
	}
	d.logger = d.logger.WithPrefix("director")
	return d
}

// Run drives every table until the tournament is won or ctx ends. A
// table that fails is taken out of play on its own; its error is
// reported once the rest of the tournament is done.
func (d *Director) Run(ctx context.Context) error {
	tables := d.t.AllTables()
	if len(tables) == 0 {
		return ErrNotSeated
	}
	d.logger.Info("Starting tournament", "tables", len(tables), "players", d.t.NumPlayers(), "online", d.online)

	var g errgroup.Group
	errs := make([]error, len(tables))
	for i, tb := range tables {
		g.Go(func() error {
			errs[i] = d.runTable(ctx, tb)
			return nil
		})
	}
	_ = g.Wait()

	if !d.t.IsGameOver() && ctx.Err() != nil {
		errs = append(errs, ctx.Err())
	}
	return errors.Join(errs...)
}

// Winner is the last player standing once Run has finished the tournament.
func (d *Director) Winner() *memtable.Player {
	d.coord.Lock()
	defer d.coord.Unlock()
	return d.winner
}

func (d *Director) runTable(parent context.Context, tb *memtable.Table) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	logger := d.logger.With("table", tb.Number())

	for {
		if ctx.Err() != nil {
			return nil
		}
		if tb.State() == state.GameOver {
			logger.Debug("Table finished")
			return nil
		}
		if d.t.IsGameOver() {
			d.setState(tb, state.GameOver)
			continue
		}

		wake := d.wakeChan()
		progressed, sleep, err := d.step(ctx, tb)
		if err == nil && d.waitingOnRemote(tb) {
			err = d.serveRemote(ctx, tb)
			progressed = true
		}
		if errors.Is(err, tournament.ErrCancelled) {
			continue
		}
		if err != nil {
			logger.Error("Table failed", "error", err)
			cancel()
			d.abandon(tb)
			return fmt.Errorf("table %d: %w", tb.Number(), err)
		}

		pause := tb.TakePause()
		if sleep {
			pause = max(pause, d.stepDelay)
		}
		switch {
		case pause > 0:
			d.sleep(ctx, pause)
		case !progressed:
			d.idle(ctx, wake)
		}
	}
}

// step runs one engine step and applies its result. It reports whether
// anything about the table changed.
func (d *Director) step(ctx context.Context, tb *memtable.Table) (progressed, sleep bool, err error) {
	betting := tb.State() == state.Betting
	if betting && tb.Hand() == nil {
		// Nothing was dealt; close out and let CLEAN sort the seating.
		d.coord.Lock()
		defer d.coord.Unlock()
		d.setState(tb, state.CheckEndHand)
		return true, false, nil
	}
	if !betting {
		d.coord.Lock()
		defer d.coord.Unlock()
		if d.online {
			d.t.TickClock()
		}
	}

	res, err := d.engine.ProcessTable(ctx, tb, d.t, d.host, d.online)
	if err != nil {
		return false, false, err
	}

	if betting {
		d.coord.Lock()
		defer d.coord.Unlock()
	}
	progressed = res.HasNextState() || res.HasPendingState() || res.HasPhase() || betting
	if !d.online && tb.State() == state.Break {
		// Each offline break step takes time off the level clock.
		progressed = true
	}
	d.apply(tb, res)
	if tb.State() == state.OnHold {
		d.consolidate(tb)
	}
	return progressed, res.Sleep, nil
}

func (d *Director) waitingOnRemote(tb *memtable.Table) bool {
	if tb.State() != state.Pending || tb.PendingState() != state.Betting || tb.WaitSize() == 0 {
		return false
	}
	p := tb.WaitPlayer(0)
	return p == nil || rules.ShouldWaitForClient(d.host, !p.IsLocallyControlled())
}

// serveRemote asks the remote provider for the move the table is waiting
// on. It runs on the table's own goroutine, outside the coordinator.
func (d *Director) serveRemote(ctx context.Context, tb *memtable.Table) error {
	p := tb.WaitPlayer(0)
	hand := tb.Hand()
	if p == nil || hand == nil {
		tb.RemoveWaitAll()
		return nil
	}
	a, err := d.remote.Action(ctx, p, tournament.OptionsFor(tb, p, d.t))
	if ctx.Err() != nil {
		return tournament.ErrCancelled
	}
	if err != nil {
		d.logger.Warn("Remote provider failed, folding", "table", tb.Number(), "player", p.Name(), "error", err)
		a = action.FoldAction()
	}
	return d.engine.ApplyRemote(tb, d.t, p, a)
}

func (d *Director) sleep(ctx context.Context, pause time.Duration) {
	timer := d.clock.NewTimer(pause, "director", "sleep")
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// idle parks a table that has nothing to do until seating changes, the
// tournament ends or, online, until the clocks may have moved.
func (d *Director) idle(ctx context.Context, wake <-chan struct{}) {
	var poll <-chan time.Time
	if d.online {
		timer := d.clock.NewTimer(onlinePoll, "director", "idle")
		defer timer.Stop()
		poll = timer.C
	}
	select {
	case <-wake:
	case <-poll:
	case <-ctx.Done():
	}
}

func (d *Director) wakeChan() <-chan struct{} {
	d.wakeMu.Lock()
	defer d.wakeMu.Unlock()
	return d.wake
}

// notify wakes every idle table.
func (d *Director) notify() {
	d.wakeMu.Lock()
	defer d.wakeMu.Unlock()
	close(d.wake)
	d.wake = make(chan struct{})
}

func (d *Director) setState(tb *memtable.Table, s state.TableState) {
	from := tb.State()
	if from == s {
		return
	}
	tb.SetState(s)
	d.events.Publish(event.NewTableStateChanged(tb.Number(), from, s))
}

// abandon takes a failed table out of play and finds its players other
// seats. Anyone who cannot be reseated is knocked out.
func (d *Director) abandon(tb *memtable.Table) {
	d.coord.Lock()
	defer d.coord.Unlock()
	if h := tb.CurrentHand(); h != nil && h.Pot() > 0 {
		d.logger.Warn("Abandoning hand in progress", "table", tb.Number(), "hand", h.ID(), "pot", h.Pot())
	}
	d.breakTable(tb)
	for _, p := range tb.Players() {
		d.eliminate(tb, p)
	}
	d.checkGameOver(tb)
	d.setState(tb, state.GameOver)
	d.notify()
}
