package memtable

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokertourney/internal/clock"
	"github.com/lox/pokertourney/internal/event"
	"github.com/lox/pokertourney/internal/handid"
	"github.com/lox/pokertourney/internal/randutil"
	"github.com/lox/pokertourney/internal/rules"
	"github.com/lox/pokertourney/internal/state"
	"github.com/lox/pokertourney/internal/tournament"
)

// Tournament is the shared context every table reports to. Methods that
// change it are called by one writer at a time (the director's
// coordinator); the counters read from other goroutines are guarded.
type Tournament struct {
	settings Settings
	events   event.Publisher
	clock    quartz.Clock
	logger   *log.Logger
	ids      *handid.Generator

	levelClock *clock.Clock

	mu             sync.Mutex
	level          int
	handsThisLevel int
	players        []*Player
	tables         []*Table
	local          *Player
	finished       []*Player
	gameOver       bool
}

type Option func(*Tournament)

func WithClock(c quartz.Clock) Option {
	return func(t *Tournament) { t.clock = c }
}

func WithLogger(l *log.Logger) Option {
	return func(t *Tournament) { t.logger = l }
}

// New builds an empty tournament. Add players, then call Seat.
func New(settings Settings, events event.Publisher, opts ...Option) (*Tournament, error) {
	settings.applyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if events == nil {
		events = event.Discard
	}
	t := &Tournament{
		settings: settings,
		events:   events,
		clock:    quartz.NewReal(),
		logger:   log.Default(),
		level:    1,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.WithPrefix("tournament")
	clk := t.clock
	t.ids = handid.NewGenerator(randutil.Reader(settings.Seed), func() time.Time { return clk.Now() })
	t.levelClock = clock.New(t.clock)
	t.levelClock.SetRemaining(t.durationOf(1))
	return t, nil
}

func (t *Tournament) Settings() Settings { return t.settings }

// AddPlayer enters a player with the starting stack.
func (t *Tournament) AddPlayer(spec PlayerSpec) *Player {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := &Player{
		id:             len(t.players) + 1,
		name:           spec.Name,
		human:          spec.Human,
		remote:         spec.Remote,
		strategy:       spec.Strategy,
		askShowWinning: spec.AskShowWinning,
		askShowLosing:  spec.AskShowLosing,
		thinkBank:      t.settings.ThinkBank,
		seat:           -1,
		chips:          t.settings.StartingChips,
	}
	if p.name == "" {
		p.name = fmt.Sprintf("player-%d", p.id)
	}
	t.players = append(t.players, p)
	if spec.Local && t.local == nil {
		t.local = p
	}
	return p
}

// Seat creates as few tables as the field needs and deals players round
// them in entry order. Every table starts in DEAL_FOR_BUTTON.
func (t *Tournament) Seat() error {
	t.mu.Lock()
	players := slices.Clone(t.players)
	t.mu.Unlock()
	if len(players) < 2 {
		return fmt.Errorf("%w: need at least two players, have %d", ErrInvalidSettings, len(players))
	}

	per := t.settings.SeatsPerTable
	n := (len(players) + per - 1) / per
	tables := make([]*Table, n)
	for i := range tables {
		tables[i] = newTable(t, i+1, per, randutil.New(randutil.Derive(t.settings.Seed, i+1)))
	}
	for i, p := range players {
		if err := tables[i%n].SeatPlayer(p); err != nil {
			return err
		}
	}
	for _, tb := range tables {
		tb.ClearAddedPlayers()
		tb.SetState(state.DealForButton)
	}

	current := tables[0]
	if t.local != nil {
		current = tables[t.local.table-1]
	}
	current.SetCurrent(true)

	t.mu.Lock()
	t.tables = tables
	t.mu.Unlock()
	t.logger.Info("Seated", "players", len(players), "tables", n)
	return nil
}

func (t *Tournament) Level() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.level
}

func (t *Tournament) levelAt(level int) Level {
	levels := t.settings.Levels
	if level < 1 {
		level = 1
	}
	if level > len(levels) {
		level = len(levels)
	}
	return levels[level-1]
}

// blindsAt is the blind level in force at level; a break carries the
// blinds of the level before it, and levels past the end repeat the last.
func (t *Tournament) blindsAt(level int) Level {
	for l := min(level, len(t.settings.Levels)); l >= 1; l-- {
		if lv := t.levelAt(l); !lv.Break {
			return lv
		}
	}
	return t.levelAt(1)
}

func (t *Tournament) minChipAt(level int) int { return t.blindsAt(level).MinChip }

func (t *Tournament) durationOf(level int) time.Duration {
	if d := t.levelAt(level).Duration; d > 0 {
		return d
	}
	return t.settings.LevelDuration
}

// Blinds returns the blinds in force at the current level.
func (t *Tournament) Blinds() Level { return t.blindsAt(t.Level()) }

// NextLevel moves to the following level and restarts its clock. The
// last level repeats forever.
func (t *Tournament) NextLevel() {
	t.mu.Lock()
	if t.level < len(t.settings.Levels) {
		t.level++
	}
	level := t.level
	t.handsThisLevel = 0
	t.mu.Unlock()

	running := t.levelClock.IsRunning()
	t.levelClock.Stop()
	t.levelClock.SetRemaining(t.durationOf(level))
	if running {
		t.levelClock.Start()
	}
	t.logger.Info("Level up", "level", level, "blinds", t.levelAt(level))
}

// IsLevelExpired is true once the level clock ran out or, when hand
// counting is on, enough hands were dealt. The last level never expires.
func (t *Tournament) IsLevelExpired() bool {
	t.mu.Lock()
	level, hands, tables := t.level, t.handsThisLevel, t.activeTables()
	t.mu.Unlock()
	if level >= len(t.settings.Levels) {
		return false
	}
	if secs := int(t.durationOf(level) / time.Second); secs > 0 {
		// Part of a second left still counts as a second.
		left := int((t.levelClock.Remaining() + time.Second - 1) / time.Second)
		if rules.ShouldAdvanceLevel(rules.TimeRemaining(secs, secs-left)) {
			return true
		}
	}
	if per := t.settings.HandsPerLevel; per > 0 && !t.levelAt(level).Break {
		return hands >= per*max(1, tables)
	}
	return false
}

func (t *Tournament) activeTables() int {
	n := 0
	for _, tb := range t.tables {
		if !tb.IsRemoved() {
			n++
		}
	}
	return n
}

func (t *Tournament) IsBreakLevel(level int) bool {
	if level < 1 || level > len(t.settings.Levels) {
		return false
	}
	return t.levelAt(level).Break
}

// AdvanceClock takes a simulated step off the level clock. Offline games
// have no wall clock.
func (t *Tournament) AdvanceClock() {
	t.advance(t.settings.SimulatedStep)
}

func (t *Tournament) AdvanceClockBreak() {
	t.advance(t.settings.BreakStep)
}

func (t *Tournament) advance(d time.Duration) {
	t.levelClock.SetRemaining(max(0, t.levelClock.Remaining()-d))
}

// StartClock starts the wall clock for online play.
func (t *Tournament) StartClock() { t.levelClock.Start() }

// TickClock lets the wall clock catch up.
func (t *Tournament) TickClock() { t.levelClock.Tick() }

// LevelRemaining is the time left in the current level.
func (t *Tournament) LevelRemaining() time.Duration { return t.levelClock.Remaining() }

func (t *Tournament) handDealt() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handsThisLevel++
}

func (t *Tournament) LastMinChip() int { return t.minChipAt(t.Level() - 1) }

func (t *Tournament) MinChip() int { return t.minChipAt(t.Level()) }

func (t *Tournament) Tables() []tournament.Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]tournament.Table, len(t.tables))
	for i, tb := range t.tables {
		out[i] = tb
	}
	return out
}

// AllTables returns every table, removed ones included.
func (t *Tournament) AllTables() []*Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.tables)
}

func (t *Tournament) Table(number int) *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	if number < 1 || number > len(t.tables) {
		return nil
	}
	return t.tables[number-1]
}

// NumPlayers counts players not yet eliminated.
func (t *Tournament) NumPlayers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, p := range t.players {
		if !p.eliminated {
			n++
		}
	}
	return n
}

func (t *Tournament) Players() []*Player {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.players)
}

func (t *Tournament) LocalPlayer() tournament.Player {
	if t.local == nil {
		return nil
	}
	return t.local
}

// Local is the locally seated human, if any.
func (t *Tournament) Local() *Player { return t.local }

func (t *Tournament) IsOnline() bool { return t.settings.Online }

func (t *Tournament) IsGameOver() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gameOver
}

// EndGame marks the tournament finished.
func (t *Tournament) EndGame() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gameOver = true
}

func (t *Tournament) IsOnePlayerLeft() bool { return t.NumPlayers() <= 1 }

func (t *Tournament) ScheduledStart() tournament.ScheduledStart {
	return t.settings.ScheduledStart
}

func (t *Tournament) Timeout() time.Duration { return t.settings.ActionTimeout }

func (t *Tournament) TimeoutForRound(r state.BettingRound) time.Duration {
	return t.settings.timeoutFor(r)
}

func (t *Tournament) newHandID() string {
	id, err := t.ids.New()
	if err != nil {
		t.logger.Warn("Falling back to random hand id", "error", err)
		return handid.New()
	}
	return id
}

func (t *Tournament) rebuyOpen(level int) bool {
	return level <= t.settings.RebuyUntilLevel
}

func (t *Tournament) addonOpen(level int) bool {
	return t.settings.AddonLevel > 0 && level == t.settings.AddonLevel
}

// CanRebuy reports whether p may buy more chips now.
func (t *Tournament) CanRebuy(p *Player) bool {
	if !t.rebuyOpen(t.Level()) || !rules.IsPlayerEligibleForRebuy(p.observer, p.eliminated) {
		return false
	}
	return t.settings.MaxRebuys == 0 || p.rebuys < t.settings.MaxRebuys
}

// Rebuy adds the rebuy stack to p.
func (t *Tournament) Rebuy(p *Player) {
	p.chips += t.settings.RebuyChips
	p.rebuys++
	if tb := t.Table(p.table); tb != nil {
		tb.noteRebuy(p.id)
	}
	t.events.Publish(event.NewPlayerRebuy(p.table, p.id, t.settings.RebuyChips))
}

// CanAddon reports whether p may take the addon at the current level.
func (t *Tournament) CanAddon(p *Player) bool {
	return t.addonOpen(t.Level()) && !p.addon && !p.eliminated
}

func (t *Tournament) Addon(p *Player) {
	p.chips += t.settings.AddonChips
	p.addon = true
	t.events.Publish(event.NewPlayerAddon(p.table, p.id, t.settings.AddonChips))
}

// Eliminate knocks p out and returns the finishing position.
func (t *Tournament) Eliminate(p *Player) int {
	if tb := t.Table(p.table); tb != nil {
		tb.RemovePlayer(p)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	remaining := 0
	for _, q := range t.players {
		if !q.eliminated {
			remaining++
		}
	}
	p.eliminated = true
	p.sittingOut = true
	p.chips = 0
	p.position = remaining
	t.finished = append(t.finished, p)
	return p.position
}

// Crown gives the last player standing first place.
func (t *Tournament) Crown() *Player {
	t.mu.Lock()
	defer t.mu.Unlock()
	var winner *Player
	for _, p := range t.players {
		if !p.eliminated {
			if winner != nil {
				return nil
			}
			winner = p
		}
	}
	if winner != nil {
		winner.position = 1
	}
	return winner
}

// ChipLeader returns the non-eliminated player with the most chips.
func (t *Tournament) ChipLeader(at *Table) *Player {
	var leader *Player
	for _, p := range at.Players() {
		if leader == nil || p.chips > leader.chips {
			leader = p
		}
	}
	return leader
}

// TransferChips moves amount from one player to another.
func (t *Tournament) TransferChips(from, to *Player, amount int) {
	amount = min(amount, from.chips)
	from.chips -= amount
	to.chips += amount
	t.events.Publish(event.NewChipsTransferred(to.table, from.id, to.id, amount))
}

var _ tournament.Game = (*Tournament)(nil)
