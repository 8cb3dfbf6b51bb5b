// Package provider answers "what does this player do?" for the engine:
// remote humans over Submit, computer players through AI strategies.
package provider

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokertourney/internal/action"
	"github.com/lox/pokertourney/internal/deck"
	"github.com/lox/pokertourney/internal/tournament"
)

// Optional player capabilities. Providers work without them.
type (
	tableSeated interface{ TableNumber() int }
	strategist  interface{ Strategy() string }
	cardHolder  interface{ HoleCards() []deck.Card }
)

func tableOf(p tournament.Player) int {
	if t, ok := p.(tableSeated); ok {
		return t.TableNumber()
	}
	return 0
}

type settings struct {
	clock  quartz.Clock
	logger *log.Logger
}

// Option configures a provider.
type Option func(*settings)

func WithClock(c quartz.Clock) Option {
	return func(s *settings) { s.clock = c }
}

func WithLogger(l *log.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func newSettings(opts []Option) settings {
	s := settings{clock: quartz.NewReal(), logger: log.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Router sends computer players to AI and everyone else to Humans.
type Router struct {
	AI     tournament.ActionProvider
	Humans tournament.ActionProvider
}

func (r Router) Action(ctx context.Context, p tournament.Player, opts action.Options) (action.Action, error) {
	if p.IsComputer() || r.Humans == nil {
		return r.AI.Action(ctx, p, opts)
	}
	return r.Humans.Action(ctx, p, opts)
}

var (
	_ tournament.ActionProvider = Router{}
	_ tournament.ActionProvider = (*Remote)(nil)
	_ tournament.ActionProvider = (*AI)(nil)
	_ tournament.ActionProvider = (*Script)(nil)
)
