package memtable

import (
	"errors"
	"fmt"

	"github.com/lox/pokertourney/internal/action"
	"github.com/lox/pokertourney/internal/deck"
	"github.com/lox/pokertourney/internal/event"
	"github.com/lox/pokertourney/internal/rules"
	"github.com/lox/pokertourney/internal/state"
	"github.com/lox/pokertourney/internal/tournament"
)

var (
	ErrOutOfTurn     = errors.New("player is not due to act")
	ErrInvalidAction = errors.New("invalid action")
)

// Hand is one deal at a table. It is driven by a single goroutine.
type Hand struct {
	id      string
	number  int
	table   int
	level   Level
	minChip int
	events  event.Publisher

	deck  *deck.Deck
	board []deck.Card
	round state.BettingRound

	button int
	// players is the action order: first seat left of the button through
	// the button itself.
	players []*Player

	bets       map[int]int
	totals     map[int]int
	acted      map[int]bool
	currentBet int
	lastRaise  int
	next       int
	// lastBetRound is the last street anyone acted on.
	lastBetRound state.BettingRound

	rabbitHunt bool
	aiFaceUp   bool
	draw       rules.DrawDecision
	results    []event.PlayerResult

	preWinners []*Player
	preLosers  []*Player
	resolved   bool
	pots       []Pot
	awards     map[int]int
	store      func(HandRecord)
	stored     bool
}

type handSetup struct {
	id      string
	number  int
	table   int
	level   Level
	levelNo int
	minChip int
	button  int
	deck    *deck.Deck
	events  event.Publisher
	store   func(HandRecord)

	rabbitHunt bool
	aiFaceUp   bool
}

// newHand deals a hand to players, already in action order, posts antes
// and blinds and deals hole cards.
func newHand(s handSetup, players []*Player) *Hand {
	h := &Hand{
		id:         s.id,
		number:     s.number,
		table:      s.table,
		level:      s.level,
		minChip:    s.minChip,
		events:     s.events,
		deck:       s.deck,
		button:     s.button,
		players:    players,
		bets:       make(map[int]int),
		totals:     make(map[int]int),
		acted:      make(map[int]bool),
		lastRaise:  s.level.BigBlind,
		store:      s.store,
		rabbitHunt: s.rabbitHunt,
		aiFaceUp:   s.aiFaceUp,
	}
	for _, p := range players {
		p.resetForHand()
	}
	h.events.Publish(event.NewHandStarted(h.table, h.id, h.number, h.button, s.levelNo))

	if s.level.Ante > 0 {
		for _, p := range players {
			// Antes go in the pot but do not count toward the street bet.
			posted := p.take(s.level.Ante)
			h.totals[p.id] += posted
			h.publish(p, action.Action{Type: action.Ante, Amount: posted})
		}
	}

	sb, bb := h.blindIndexes()
	h.post(players[sb], s.level.SmallBlind, action.SmallBlind)
	h.post(players[bb], s.level.BigBlind, action.BigBlind)
	h.currentBet = s.level.BigBlind
	h.next = (bb + 1) % len(players)

	for range 2 {
		for _, p := range players {
			c, _ := h.deck.Deal()
			p.hole = append(p.hole, c)
		}
	}
	return h
}

// blindIndexes returns the small and big blind positions in action order.
// Heads up the button posts the small blind.
func (h *Hand) blindIndexes() (sb, bb int) {
	if len(h.players) == 2 {
		return 1, 0
	}
	return 0, 1
}

func (h *Hand) post(p *Player, amount int, kind action.Type) {
	posted := p.take(amount)
	h.bets[p.id] += posted
	h.totals[p.id] += posted
	h.publish(p, action.Action{Type: kind, Amount: posted})
}

func (h *Hand) publish(p *Player, a action.Action) {
	h.events.Publish(event.NewPlayerActed(h.table, h.id, p.id, p.name, a, h.round, h.Pot()))
}

func (h *Hand) ID() string                { return h.id }
func (h *Hand) Number() int               { return h.number }
func (h *Hand) Round() state.BettingRound { return h.round }
func (h *Hand) Button() int               { return h.button }

// Board returns the community cards dealt so far.
func (h *Hand) Board() []deck.Card { return append([]deck.Card(nil), h.board...) }

func (h *Hand) Pot() int {
	total := 0
	for _, v := range h.totals {
		total += v
	}
	return total
}

func (h *Hand) NumWithCards() int {
	n := 0
	for _, p := range h.players {
		if !p.folded {
			n++
		}
	}
	return n
}

func (h *Hand) IsUncontested() bool { return h.NumWithCards() == 1 }

func (h *Hand) canAct(p *Player) bool { return !p.folded && !p.allIn }

func (h *Hand) needsAction(p *Player) bool {
	return h.canAct(p) && (!h.acted[p.id] || h.bets[p.id] < h.currentBet)
}

func (h *Hand) IsDone() bool {
	if h.round >= state.ShowdownRound || h.NumWithCards() <= 1 {
		return true
	}
	var live []*Player
	for _, p := range h.players {
		if h.canAct(p) {
			live = append(live, p)
		}
	}
	switch {
	case len(live) == 0:
		return true
	case len(live) == 1:
		// Nobody left to bet against; the last player only has to match.
		return h.bets[live[0].id] >= h.currentBet
	}
	for _, p := range live {
		if h.needsAction(p) {
			return false
		}
	}
	return true
}

func (h *Hand) current() (*Player, int) {
	if h.IsDone() {
		return nil, -1
	}
	n := len(h.players)
	for i := range n {
		idx := (h.next + i) % n
		if p := h.players[idx]; h.needsAction(p) {
			h.next = idx
			return p, idx
		}
	}
	return nil, -1
}

func (h *Hand) CurrentPlayer() tournament.Player {
	p, _ := h.current()
	if p == nil {
		return nil
	}
	return p
}

func (h *Hand) AmountToCall(p tournament.Player) int {
	return max(0, h.currentBet-h.bets[p.ID()])
}

func (h *Hand) MinBet() int { return h.level.BigBlind }

// CurrentBet is the most anyone has put in on this street.
func (h *Hand) CurrentBet() int { return h.currentBet }

func (h *Hand) MinRaise() int { return max(h.lastRaise, h.level.BigBlind) }

// ApplyAction records a for p. Bets and raises put in the call plus
// a.Amount, capped at the stack.
func (h *Hand) ApplyAction(tp tournament.Player, a action.Action) error {
	p, idx := h.current()
	if p == nil || p.id != tp.ID() {
		return fmt.Errorf("%w: %s", ErrOutOfTurn, tp.Name())
	}
	toCall := h.currentBet - h.bets[p.id]

	switch a.Type {
	case action.Fold:
		p.folded = true
	case action.Check:
		if toCall > 0 {
			return fmt.Errorf("%w: %s cannot check facing %d", ErrInvalidAction, p.name, toCall)
		}
	case action.Call:
		if toCall <= 0 {
			return fmt.Errorf("%w: %s has nothing to call", ErrInvalidAction, p.name)
		}
		h.put(p, toCall)
	case action.Bet, action.Raise:
		if a.Amount <= 0 {
			return fmt.Errorf("%w: %s sized %d", ErrInvalidAction, a.Type, a.Amount)
		}
		if p.chips <= toCall {
			return fmt.Errorf("%w: %s cannot raise with %d behind", ErrInvalidAction, p.name, p.chips)
		}
		h.put(p, toCall+a.Amount)
		if bet := h.bets[p.id]; bet > h.currentBet {
			if inc := bet - h.currentBet; inc >= h.lastRaise {
				h.lastRaise = inc
			}
			h.currentBet = bet
		}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidAction, a.Type)
	}

	h.acted[p.id] = true
	h.lastBetRound = h.round
	h.next = (idx + 1) % len(h.players)
	return nil
}

func (h *Hand) put(p *Player, amount int) {
	taken := p.take(amount)
	h.bets[p.id] += taken
	h.totals[p.id] += taken
}

// AdvanceRound moves to the next street and deals its board cards.
func (h *Hand) AdvanceRound() {
	if h.round >= state.ShowdownRound {
		return
	}
	h.round = h.round.Next()
	clear(h.bets)
	clear(h.acted)
	h.currentBet = 0
	h.lastRaise = h.level.BigBlind
	h.next = 0

	if n := rules.CardsDealtInRound(h.round); n > 0 {
		h.deal(n)
		h.events.Publish(event.NewCommunityCardsDealt(h.table, h.id, h.round, deck.Strings(h.board)))
	}
}

func (h *Hand) deal(n int) {
	h.deck.Burn()
	h.board = append(h.board, h.deck.DealN(n)...)
}

// PreResolve works out who wins without moving any chips, so players can
// be asked whether to show.
func (h *Hand) PreResolve(bool) {
	h.preWinners, h.preLosers = nil, nil
	winners := make(map[int]bool)
	for _, pot := range h.computePots() {
		for _, id := range h.potWinners(pot) {
			winners[id] = true
		}
	}
	for _, p := range h.players {
		switch {
		case p.folded:
		case winners[p.id]:
			h.preWinners = append(h.preWinners, p)
		default:
			h.preLosers = append(h.preLosers, p)
		}
	}
}

func (h *Hand) PreWinners() []tournament.Player { return asPlayers(h.preWinners) }
func (h *Hand) PreLosers() []tournament.Player  { return asPlayers(h.preLosers) }

func asPlayers(ps []*Player) []tournament.Player {
	out := make([]tournament.Player, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

func (h *Hand) computePots() []Pot {
	contribs := make([]contribution, 0, len(h.players))
	for _, p := range h.players {
		contribs = append(contribs, contribution{id: p.id, amount: h.totals[p.id], folded: p.folded})
	}
	return buildPots(contribs)
}

// potWinners returns the eligible players holding the best hand, in
// action order.
func (h *Hand) potWinners(pot Pot) []int {
	if len(pot.Eligible) == 1 {
		return pot.Eligible
	}
	var (
		best    deck.Score
		winners []int
	)
	for _, p := range h.players {
		if p.folded || !contains(pot.Eligible, p.id) {
			continue
		}
		score := deck.Evaluate(append(append([]deck.Card(nil), p.hole...), h.board...))
		switch c := deck.Compare(score, best); {
		case winners == nil || c > 0:
			best, winners = score, []int{p.id}
		case c == 0:
			winners = append(winners, p.id)
		}
	}
	return winners
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Resolve awards every pot. A contested hand that ended early has the
// rest of the board dealt first, as does any hand when rabbit hunting.
func (h *Hand) Resolve() {
	if h.resolved {
		return
	}
	h.resolved = true
	h.draw = rules.DetermineDrawDecision(h.NumWithCards(), h.rabbitHunt)
	if full := rules.CardsVisibleByRound(state.River); h.draw.Drawn && len(h.board) < full {
		h.deal(full - len(h.board))
	}

	byID := make(map[int]*Player, len(h.players))
	for _, p := range h.players {
		byID[p.id] = p
	}
	h.pots = h.computePots()
	h.awards = make(map[int]int)
	for i, pot := range h.pots {
		winners := h.potWinners(pot)
		for id, amount := range split(pot.Amount, winners, h.minChip) {
			byID[id].chips += amount
			h.awards[id] += amount
		}
		h.events.Publish(event.NewPotAwarded(h.table, h.id, i, pot.Amount, winners))
	}
	h.results = h.showdownResults()
	h.events.Publish(event.NewHandCompleted(h.table, h.id, h.number, h.Pot(), deck.Strings(h.VisibleBoard()), h.results))
}

// Pots returns the pots as awarded by Resolve.
func (h *Hand) Pots() []Pot { return h.pots }

// Awards maps player ID to the chips won by Resolve.
func (h *Hand) Awards() map[int]int { return h.awards }

// StoreHistory hands the finished hand to the table history once.
func (h *Hand) StoreHistory() {
	if h.stored || h.store == nil {
		return
	}
	h.stored = true
	h.store(h.record())
}

// record snapshots the hand for the table's history.
func (h *Hand) record() HandRecord {
	r := HandRecord{
		ID:      h.id,
		Number:  h.number,
		Level:   h.level,
		Board:   deck.Strings(h.VisibleBoard()),
		Pot:     h.Pot(),
		Awards:  make(map[int]int, len(h.awards)),
		Results: append([]event.PlayerResult(nil), h.results...),
	}
	for _, p := range h.players {
		r.Players = append(r.Players, p.id)
	}
	for id, amount := range h.awards {
		r.Awards[id] = amount
	}
	return r
}

// HandRecord is a finished hand as kept in the table history.
type HandRecord struct {
	ID      string
	Number  int
	Level   Level
	Board   []string
	Pot     int
	Players []int
	Awards  map[int]int
	Results []event.PlayerResult
}
