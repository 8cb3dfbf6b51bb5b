package memtable

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/pokertourney/internal/deck"
	"github.com/lox/pokertourney/internal/event"
	"github.com/lox/pokertourney/internal/rules"
	"github.com/lox/pokertourney/internal/state"
	"github.com/lox/pokertourney/internal/tournament"
)

var ErrTableFull = errors.New("table is full")

const maxHistory = 100

// Table is a tournament table. Lifecycle state, seating and the wait list
// are guarded so other tables' drivers can look at them; the hand and chip
// bookkeeping belong to whoever is stepping the table.
type Table struct {
	t      *Tournament
	number int
	logger *log.Logger
	rng    *rand.Rand

	mu           sync.Mutex
	st           state.TableState
	pending      state.TableState
	previous     state.TableState
	pendingPhase tournament.Phase
	changed      time.Time
	seats        []*Player
	added        []*Player
	observers    []*Player
	wait         []tournament.Player
	pause        time.Duration
	removed      bool
	current      bool
	zip          bool

	level       int
	minChip     int
	nextMinChip int
	coloringUp  bool
	raceWinners []int

	button      int
	freshButton bool
	handNo      int
	hand        *Hand
	onBreak     bool
	history     []HandRecord

	// AI rebuys and addons are queued by level checks, which may run
	// while the table is mid-hand, and settled when the next hand starts.
	rebuysDue  int
	rebuysSeen int
	addonsDue  int
	rebuyList  []int
}

func newTable(t *Tournament, number, seats int, rng *rand.Rand) *Table {
	return &Table{
		t:       t,
		number:  number,
		logger:  t.logger.With("table", number),
		rng:     rng,
		st:      state.None,
		changed: t.clock.Now(),
		seats:   make([]*Player, seats),
		level:   1,
		minChip: t.minChipAt(1),
		button:  -1,
	}
}

func (tb *Table) Number() int { return tb.number }

func (tb *Table) State() state.TableState {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.st
}

func (tb *Table) SetState(s state.TableState) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.previous = tb.st
	tb.st = s
	tb.changed = tb.t.clock.Now()
}

func (tb *Table) PendingState() state.TableState {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.pending
}

func (tb *Table) SetPendingState(s state.TableState) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.pending = s
}

func (tb *Table) PreviousState() state.TableState {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.previous
}

func (tb *Table) PendingPhase() tournament.Phase {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.pendingPhase
}

// SetPendingPhase queues a phase to rerun when the table is next loaded.
func (tb *Table) SetPendingPhase(p tournament.Phase) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.pendingPhase = p
}

func (tb *Table) SinceStateChange() time.Duration {
	tb.mu.Lock()
	changed := tb.changed
	tb.mu.Unlock()
	return tb.t.clock.Since(changed)
}

func (tb *Table) Seats() int { return len(tb.seats) }

func (tb *Table) NumOccupiedSeats() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	n := 0
	for _, p := range tb.seats {
		if p != nil {
			n++
		}
	}
	return n
}

// OpenSeats is the number of empty seats.
func (tb *Table) OpenSeats() int {
	return tb.Seats() - tb.NumOccupiedSeats()
}

func (tb *Table) Player(seat int) tournament.Player {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if seat < 0 || seat >= len(tb.seats) || tb.seats[seat] == nil {
		return nil
	}
	return tb.seats[seat]
}

// Players returns the seated players in seat order.
func (tb *Table) Players() []*Player {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	var out []*Player
	for _, p := range tb.seats {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (tb *Table) AddedPlayers() []tournament.Player {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return asPlayers(tb.added)
}

// ClearAddedPlayers forgets who moved in since the last table-move display.
func (tb *Table) ClearAddedPlayers() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.added = nil
}

func (tb *Table) NumObservers() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return len(tb.observers)
}

func (tb *Table) AddObserver(p *Player) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	p.observer = true
	tb.observers = append(tb.observers, p)
}

// TakeObservers removes and returns every observer.
func (tb *Table) TakeObservers() []*Player {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	out := tb.observers
	tb.observers = nil
	return out
}

// IsAllComputer is true when no human is seated.
func (tb *Table) IsAllComputer() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return rules.CountHumanPlayers(tb.seated()) == 0
}

func (tb *Table) seated() []*Player {
	var out []*Player
	for _, p := range tb.seats {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (tb *Table) IsRemoved() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.removed
}

// MarkRemoved takes the table out of play once consolidation emptied it.
func (tb *Table) MarkRemoved() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.removed = true
}

// SeatPlayer puts p in the first empty seat.
func (tb *Table) SeatPlayer(p *Player) error {
	tb.mu.Lock()
	seat := -1
	for i, s := range tb.seats {
		if s == nil {
			seat = i
			break
		}
	}
	if seat < 0 {
		tb.mu.Unlock()
		return fmt.Errorf("seat %s at table %d: %w", p.name, tb.number, ErrTableFull)
	}
	tb.seats[seat] = p
	p.table, p.seat = tb.number, seat
	tb.added = append(tb.added, p)
	tb.mu.Unlock()

	tb.t.events.Publish(event.NewPlayerAdded(tb.number, p.id, p.name, seat))
	return nil
}

// RemovePlayer frees p's seat, if p sits here.
func (tb *Table) RemovePlayer(p *Player) {
	tb.mu.Lock()
	if p.table != tb.number || p.seat < 0 || p.seat >= len(tb.seats) || tb.seats[p.seat] != p {
		tb.mu.Unlock()
		return
	}
	seat := p.seat
	tb.seats[seat] = nil
	p.table, p.seat = 0, -1
	tb.mu.Unlock()

	tb.t.events.Publish(event.NewPlayerRemoved(tb.number, p.id, p.name, seat))
}

func (tb *Table) AddWait(p tournament.Player) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	for _, w := range tb.wait {
		if w.ID() == p.ID() {
			return
		}
	}
	tb.wait = append(tb.wait, p)
}

func (tb *Table) RemoveWaitAll() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.wait = nil
}

func (tb *Table) WaitSize() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return len(tb.wait)
}

func (tb *Table) WaitPlayer(i int) tournament.Player {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if i < 0 || i >= len(tb.wait) {
		return nil
	}
	return tb.wait[i]
}

func (tb *Table) MinChip() int { return tb.minChip }

// ProcessAIRebuys queues rebuys for short-stacked computer players. Only
// the first call per tournament level counts.
func (tb *Table) ProcessAIRebuys() {
	if lvl := tb.t.Level(); lvl != tb.rebuysSeen && tb.t.rebuyOpen(lvl) {
		tb.rebuysDue, tb.rebuysSeen = lvl, lvl
	}
}

// ProcessAIAddOns queues addons for computer players at the addon level.
func (tb *Table) ProcessAIAddOns() {
	if lvl := tb.t.Level(); tb.t.addonOpen(lvl) {
		tb.addonsDue = lvl
	}
}

func (tb *Table) settleAIChips() {
	if tb.rebuysDue > 0 {
		for _, p := range tb.Players() {
			if p.IsComputer() && p.chips < tb.t.settings.RebuyChips/2 && tb.t.CanRebuy(p) {
				tb.t.Rebuy(p)
			}
		}
		tb.rebuysDue = 0
	}
	if tb.addonsDue > 0 {
		for _, p := range tb.Players() {
			if p.IsComputer() && !p.addon {
				tb.t.Addon(p)
			}
		}
		tb.addonsDue = 0
	}
}

func (tb *Table) noteRebuy(id int) { tb.rebuyList = append(tb.rebuyList, id) }

// RebuyList is the players who rebought since the list was last cleared.
func (tb *Table) RebuyList() []int { return append([]int(nil), tb.rebuyList...) }

func (tb *Table) ClearRebuyList() { tb.rebuyList = nil }

func (tb *Table) SetNextMinChip(minChip int) { tb.nextMinChip = minChip }

// DetermineColorUp starts a color-up when the next minimum chip is above
// the table's. Repeated calls leave a color-up in progress alone.
func (tb *Table) DetermineColorUp() {
	if tb.coloringUp || tb.nextMinChip <= tb.minChip {
		return
	}
	tb.coloringUp = true
	tb.logger.Debug("Color up", "from", tb.minChip, "to", tb.nextMinChip)
}

func (tb *Table) IsColoringUp() bool { return tb.coloringUp }

// ColorUp runs the chip race: every player's odd chips are pooled, the
// pool is rounded to the new chip and the new chips are handed out, one
// each, in a random draw.
func (tb *Table) ColorUp() {
	if !tb.coloringUp {
		return
	}
	next := tb.nextMinChip
	var (
		racers []*Player
		odd    int
	)
	for _, p := range tb.Players() {
		if r := p.chips % next; r != 0 {
			odd += r
			p.chips -= r
			racers = append(racers, p)
		}
	}
	v, err := rules.ValidateBetAmount(next, odd)
	if err != nil {
		tb.logger.Error("Color up failed", "error", err)
		return
	}
	tb.rng.Shuffle(len(racers), func(i, j int) { racers[i], racers[j] = racers[j], racers[i] })
	tb.raceWinners = nil
	for i := 0; i < v.Rounded/next && i < len(racers); i++ {
		racers[i].chips += next
		tb.raceWinners = append(tb.raceWinners, racers[i].id)
	}
}

// RaceWinners lists who won a chip in the last color-up.
func (tb *Table) RaceWinners() []int { return append([]int(nil), tb.raceWinners...) }

func (tb *Table) FinishColorUp() {
	if tb.nextMinChip > tb.minChip {
		tb.minChip = tb.nextMinChip
	}
	tb.coloringUp = false
}

func (tb *Table) Level() int { return tb.level }

// SetLevel adopts a tournament level for the next hand.
func (tb *Table) SetLevel(level int) {
	tb.level = level
	l := tb.t.blindsAt(level)
	online := tb.t.IsOnline()
	msg := rules.TransitionMessageKey(tb.t.IsBreakLevel(level), online, l.Ante > 0)
	to := rules.RouteDealerChat(online, tb.IsCurrent())
	tb.t.events.Publish(event.NewLevelChanged(tb.number, level, l.SmallBlind, l.BigBlind, l.Ante, msg, to.String()))
}

func (tb *Table) Hand() tournament.Hand {
	if tb.hand == nil {
		return nil
	}
	return tb.hand
}

// CurrentHand is the hand in progress or the last one played.
func (tb *Table) CurrentHand() *Hand { return tb.hand }

func (tb *Table) IsCurrent() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.current
}

func (tb *Table) SetCurrent(current bool) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.current = current
}

func (tb *Table) IsAutoDeal() bool             { return tb.t.settings.AutoDeal }
func (tb *Table) AutoDealDelay() time.Duration { return tb.t.settings.AutoDealDelay }

// SetPause asks the driver to wait d before the next step.
func (tb *Table) SetPause(d time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.pause = max(tb.pause, d)
}

// TakePause returns and clears the requested pause.
func (tb *Table) TakePause() time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	d := tb.pause
	tb.pause = 0
	return d
}

func (tb *Table) IsZipMode() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.zip
}

func (tb *Table) SetZipMode(zip bool) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.zip = zip
}

// AssignButton deals one card to each seated player; the highest card,
// spades ranking above hearts above diamonds above clubs, takes the button.
func (tb *Table) AssignButton() {
	d := deck.New(tb.rng)
	var (
		best deck.Card
		seat = -1
	)
	for _, p := range tb.Players() {
		c, _ := d.Deal()
		if seat < 0 || c.Rank > best.Rank || (c.Rank == best.Rank && c.Suit < best.Suit) {
			best, seat = c, p.seat
		}
	}
	if seat < 0 {
		return
	}
	tb.button = seat
	tb.freshButton = true
	tb.t.events.Publish(event.NewButtonMoved(tb.number, seat))
}

// Button is the dealer seat, -1 before the first deal.
func (tb *Table) Button() int { return tb.button }

func (tb *Table) StartBreak() {
	tb.onBreak = true
	tb.hand = nil
	tb.logger.Debug("Break started", "level", tb.t.Level())
}

func (tb *Table) OnBreak() bool { return tb.onBreak }

// StartNewHand moves the button, posts blinds and deals.
func (tb *Table) StartNewHand() {
	tb.onBreak = false
	tb.settleAIChips()

	var live []*Player
	for _, p := range tb.Players() {
		if p.chips > 0 {
			live = append(live, p)
		}
	}
	if len(live) < 2 {
		tb.logger.Warn("Not enough players to deal", "players", len(live))
		tb.hand = nil
		return
	}

	tb.moveButton(live)
	order := make([]*Player, 0, len(live))
	start := 0
	for i, p := range live {
		if p.seat > tb.button {
			start = i
			break
		}
		start = (i + 1) % len(live)
	}
	for i := range live {
		order = append(order, live[(start+i)%len(live)])
	}

	tb.handNo++
	tb.hand = newHand(handSetup{
		id:      tb.t.newHandID(),
		number:  tb.handNo,
		table:   tb.number,
		level:   tb.t.blindsAt(tb.level),
		levelNo: tb.level,
		minChip: tb.minChip,
		button:  tb.button,
		deck:    deck.New(tb.rng),
		events:  tb.t.events,
		store:   tb.storeHistory,

		rabbitHunt: tb.t.settings.RabbitHunt,
		aiFaceUp:   tb.t.settings.AIFaceUp,
	}, order)
	tb.t.handDealt()
}

// moveButton passes the button to the next live seat, unless it was just
// drawn for.
func (tb *Table) moveButton(live []*Player) {
	if tb.freshButton && tb.button >= 0 {
		tb.freshButton = false
		for _, p := range live {
			if p.seat == tb.button {
				return
			}
		}
	}
	next := live[0].seat
	for _, p := range live {
		if p.seat > tb.button {
			next = p.seat
			break
		}
	}
	tb.button = next
	tb.t.events.Publish(event.NewButtonMoved(tb.number, next))
}

func (tb *Table) storeHistory(r HandRecord) {
	tb.history = append(tb.history, r)
	if len(tb.history) > maxHistory {
		tb.history = tb.history[len(tb.history)-maxHistory:]
	}
}

// History returns the most recent finished hands, oldest first.
func (tb *Table) History() []HandRecord {
	return append([]HandRecord(nil), tb.history...)
}

// HandsPlayed is the number of hands dealt at this table.
func (tb *Table) HandsPlayed() int { return tb.handNo }

var _ tournament.Table = (*Table)(nil)
