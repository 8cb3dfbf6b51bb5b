package director

import (
	"cmp"
	"slices"

	"github.com/lox/pokertourney/internal/event"
	"github.com/lox/pokertourney/internal/memtable"
	"github.com/lox/pokertourney/internal/rules"
	"github.com/lox/pokertourney/internal/state"
	"github.com/lox/pokertourney/internal/tournament"
)

// checkEndHand closes out the hand just played at tb. Broke players rebuy
// or go out, the level moves on once it has run its course, and the table
// is broken up when its players fit elsewhere.
func (d *Director) checkEndHand(tb *memtable.Table) {
	d.eliminateBroke(tb)
	if d.checkGameOver(tb) {
		return
	}
	if d.t.IsLevelExpired() {
		d.t.NextLevel()
	}
	d.consolidate(tb)
	if !tb.IsRemoved() {
		d.moveObservers(tb)
	}
}

func (d *Director) eliminateBroke(tb *memtable.Table) {
	var broke []*memtable.Player
	for _, p := range tb.Players() {
		if p.ChipCount() == 0 && !p.IsEliminated() {
			broke = append(broke, p)
		}
	}
	if len(broke) == 0 {
		return
	}
	// Whoever started the hand shorter finishes lower.
	slices.SortStableFunc(broke, func(a, b *memtable.Player) int {
		return cmp.Compare(a.ChipCountAtStart(), b.ChipCountAtStart())
	})
	for _, p := range broke {
		if d.rescue(tb, p) {
			continue
		}
		d.eliminate(tb, p)
	}
	d.notify()
}

// rescue offers a broke human a way to stay in.
func (d *Director) rescue(tb *memtable.Table, p *memtable.Player) bool {
	if p.IsComputer() {
		return false
	}
	settings := d.t.Settings()
	status := rules.CheckGameOverStatus(rules.GameOverInput{
		HumanChips:    p.ChipCount(),
		HumanObserver: p.IsObserver(),
		RebuyAllowed:  d.t.CanRebuy(p),
		OnePlayerLeft: d.t.IsOnePlayerLeft(),
		Online:        d.online,
		NeverBroke:    settings.NeverBroke && p == d.t.Local(),
	})

	switch status {
	case rules.RebuyOffered:
		d.events.Publish(event.NewRebuyOffered(tb.Number(), p.ID(), settings.RebuyChips))
		if d.offers.Rebuy(p) {
			d.t.Rebuy(p)
			return true
		}
	case rules.NeverBrokeActive:
		leader := d.t.ChipLeader(tb)
		if leader == nil || leader == p {
			return false
		}
		chips, err := rules.NeverBrokeTransfer(leader.ChipCount(), tb.MinChip())
		if err != nil {
			d.logger.Error("Never broke transfer failed", "table", tb.Number(), "error", err)
			return false
		}
		if chips == 0 {
			return false
		}
		d.events.Publish(event.NewNeverBrokeOffered(tb.Number(), p.ID(), chips))
		if d.offers.NeverBroke(p, chips) {
			d.t.TransferChips(leader, p, chips)
			return true
		}
	}
	return false
}

func (d *Director) eliminate(tb *memtable.Table, p *memtable.Player) {
	pos := d.t.Eliminate(p)
	d.logger.Info("Player eliminated", "table", tb.Number(), "player", p.Name(), "position", pos)
	d.events.Publish(event.NewPlayerEliminated(tb.Number(), p.ID(), p.Name(), pos, rules.RouteDirectorChat(d.t.IsOnline()).String()))
	if p == d.t.Local() && !tb.IsRemoved() {
		tb.AddObserver(p)
	}
}

// checkGameOver finishes the tournament once a single player is left.
func (d *Director) checkGameOver(tb *memtable.Table) bool {
	if !d.t.IsOnePlayerLeft() {
		return false
	}
	d.finishOnce.Do(func() {
		d.t.EndGame()
		d.winner = d.t.Crown()
		id, name := -1, ""
		if d.winner != nil {
			id, name = d.winner.ID(), d.winner.Name()
		}
		d.logger.Info("Tournament complete", "winner", name, "table", tb.Number())
		d.events.Publish(event.NewTournamentCompleted(id, name))
		d.notify()
	})
	return true
}

// consolidate breaks tb up when the other live tables have room for all
// of its players.
func (d *Director) consolidate(tb *memtable.Table) {
	if d.t.IsGameOver() || tb.IsRemoved() {
		return
	}
	others := d.liveTables(tb)
	if len(others) == 0 {
		return
	}
	free := 0
	for _, o := range others {
		free += o.OpenSeats()
	}
	players := tb.NumOccupiedSeats()
	if players > free {
		return
	}

	d.logger.Info("Breaking table", "table", tb.Number(), "players", players, "tables", len(others))
	d.breakTable(tb)
	d.setState(tb, state.GameOver)
	d.notify()
}

// breakTable takes tb out of play, moving each player to the table with
// the most free seats and the observers to wherever the action is.
func (d *Director) breakTable(tb *memtable.Table) {
	wasCurrent := tb.IsCurrent()
	tb.MarkRemoved()
	tb.SetCurrent(false)

	for _, p := range tb.Players() {
		target := d.roomiest(tb)
		if target == nil {
			d.logger.Warn("No seat for player", "table", tb.Number(), "player", p.Name())
			continue
		}
		tb.RemovePlayer(p)
		if err := target.SeatPlayer(p); err != nil {
			d.logger.Error("Reseat failed", "player", p.Name(), "error", err)
			continue
		}
		d.logger.Debug("Player moved", "player", p.Name(), "from", tb.Number(), "to", target.Number())
	}

	dest := d.selectTable(tb)
	if dest == nil {
		return
	}
	for _, o := range tb.TakeObservers() {
		dest.AddObserver(o)
	}
	if wasCurrent {
		dest.SetCurrent(true)
	}
}

// moveObservers sends the observers of a table with no humans left to a
// table that has some.
func (d *Director) moveObservers(tb *memtable.Table) {
	if tb.NumObservers() == 0 || !rules.ShouldMoveObservers[tournament.Table](tb) {
		return
	}
	dest := d.selectTable(tb)
	if dest == nil || dest == tb {
		return
	}
	for _, o := range tb.TakeObservers() {
		dest.AddObserver(o)
	}
	if tb.IsCurrent() {
		tb.SetCurrent(false)
		dest.SetCurrent(true)
	}
}

func (d *Director) liveTables(except *memtable.Table) []*memtable.Table {
	var out []*memtable.Table
	for _, o := range d.t.AllTables() {
		if o != except && !o.IsRemoved() && o.State() != state.GameOver {
			out = append(out, o)
		}
	}
	return out
}

func (d *Director) roomiest(except *memtable.Table) *memtable.Table {
	var best *memtable.Table
	for _, o := range d.liveTables(except) {
		if o.OpenSeats() > 0 && (best == nil || o.OpenSeats() > best.OpenSeats()) {
			best = o
		}
	}
	return best
}

// selectTable picks the table a human watching from should follow.
func (d *Director) selectTable(from *memtable.Table) *memtable.Table {
	var host tournament.Table
	if local := d.t.Local(); local != nil && !local.IsEliminated() {
		if lt := d.t.Table(local.TableNumber()); lt != nil {
			host = lt
		}
	}
	var all []tournament.Table
	for _, o := range d.liveTables(nil) {
		all = append(all, o)
	}
	sel, fallback, err := rules.SelectNewTable[tournament.Table](from, host, all)
	if err != nil {
		d.logger.Debug("No table to follow", "from", from.Number(), "error", err)
		return nil
	}
	if fallback {
		d.logger.Debug("Following an all-computer table", "table", sel.Number())
	}
	tb, _ := sel.(*memtable.Table)
	return tb
}
