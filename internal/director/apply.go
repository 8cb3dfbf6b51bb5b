package director

import (
	"github.com/lox/pokertourney/internal/event"
	"github.com/lox/pokertourney/internal/memtable"
	"github.com/lox/pokertourney/internal/rules"
	"github.com/lox/pokertourney/internal/state"
	"github.com/lox/pokertourney/internal/tournament"
)

// apply carries out a step result: the state change first, then the
// phase, which on the host completes at once and moves the table to the
// pending state. Callers hold the coordinator.
func (d *Director) apply(tb *memtable.Table, res tournament.Result) {
	logger := d.logger.With("table", tb.Number())

	if res.HasNextState() {
		from := tb.State()
		next := res.NextState
		if from == state.Done && next == state.Begin && tb.IsAutoDeal() {
			// Auto-deal skips CHECK_END_HAND, so the hand is closed out here
			// and the table goes through CLEAN to pick up level changes.
			d.checkEndHand(tb)
			tb.SetPause(tb.AutoDealDelay())
			next = state.Clean
		}
		if tb.State() != state.GameOver {
			d.setState(tb, next)
		}
		d.stateHooks(tb, from, next)
	}

	if res.HasPendingState() {
		tb.SetPendingState(res.PendingState)
		if !res.HasPhase() {
			d.setState(tb, state.Pending)
		}
	}

	if res.HasPhase() {
		logger.Debug("Phase", "phase", res.Phase, "pending", res.PendingState)
		d.runPhase(tb, res)
	}
}

func (d *Director) stateHooks(tb *memtable.Table, from, to state.TableState) {
	switch {
	case to == state.Break && from != state.Break:
		level := d.t.Level()
		d.events.Publish(event.NewBreakStarted(tb.Number(), level, d.t.LevelRemaining(), rules.BreakMessageKey(d.t.IsOnline())))
	case to == state.NewLevelCheck && from == state.Break:
		d.events.Publish(event.NewBreakEnded(tb.Number(), d.t.Level()))
	}
}

// runPhase does on the host what a client would animate.
func (d *Director) runPhase(tb *memtable.Table, res tournament.Result) {
	switch res.Phase {
	case tournament.PhaseWaitForDeal:
		tb.SetPause(tb.AutoDealDelay())
		d.setState(tb, state.CheckEndHand)
		return
	case tournament.PhaseCheckEndHand:
		d.checkEndHand(tb)
	case tournament.PhaseDisplayTableMoves:
		tb.ClearAddedPlayers()
	case tournament.PhaseNewLevelActions:
		d.offerAddons(tb)
	}

	if tb.State() == state.GameOver {
		return
	}
	if res.HasPendingState() {
		d.setState(tb, res.PendingState)
	}
}

// offerAddons asks each human at the table about the addon while it is
// open. Computer players take theirs through the level check.
func (d *Director) offerAddons(tb *memtable.Table) {
	for _, p := range tb.Players() {
		if p.IsComputer() || !d.t.CanAddon(p) {
			continue
		}
		chips := d.t.Settings().AddonChips
		d.events.Publish(event.NewAddonOffered(tb.Number(), p.ID(), chips))
		if d.offers.Addon(p) {
			d.t.Addon(p)
		}
	}
}
