package provider

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokertourney/internal/action"
	"github.com/lox/pokertourney/internal/deck"
	"github.com/lox/pokertourney/internal/randutil"
	"github.com/lox/pokertourney/internal/tournament"
)

// Strategy names a computer player's style.
type Strategy string

const (
	// StrategyCall never folds when it can check or call.
	StrategyCall Strategy = "call"
	// StrategyRandom picks uniformly among the legal moves.
	StrategyRandom Strategy = "random"
	// StrategyAggressive bets or raises the minimum 70% of the time.
	StrategyAggressive Strategy = "aggressive"
	// StrategyTight plays by starting hand strength.
	StrategyTight Strategy = "tight"
)

// Strategies lists every known strategy.
var Strategies = []Strategy{StrategyCall, StrategyRandom, StrategyAggressive, StrategyTight}

func ParseStrategy(s string) (Strategy, error) {
	for _, known := range Strategies {
		if string(known) == s {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// AI decides for computer players. A player exposing Strategy() picks its
// own style; others get the default.
type AI struct {
	clock    quartz.Clock
	logger   *log.Logger
	fallback Strategy
	think    time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// AIOption configures an AI beyond the shared Options.
type AIOption func(*AI)

// WithThinkTime delays every answer by d, for watchable games.
func WithThinkTime(d time.Duration) AIOption {
	return func(a *AI) { a.think = d }
}

func WithDefaultStrategy(s Strategy) AIOption {
	return func(a *AI) { a.fallback = s }
}

// NewAI returns an AI whose choices are reproducible for a given seed.
func NewAI(seed int64, opts []Option, aiOpts ...AIOption) *AI {
	s := newSettings(opts)
	a := &AI{
		clock:    s.clock,
		logger:   s.logger.WithPrefix("ai"),
		fallback: StrategyCall,
		rng:      randutil.New(seed),
	}
	for _, opt := range aiOpts {
		opt(a)
	}
	return a
}

func (a *AI) Action(ctx context.Context, p tournament.Player, opts action.Options) (action.Action, error) {
	if a.think > 0 {
		timer := a.clock.NewTimer(a.think)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return action.Action{}, ctx.Err()
		}
	}

	strategy := a.fallback
	if s, ok := p.(strategist); ok && s.Strategy() != "" {
		strategy = Strategy(s.Strategy())
	}
	var hole []deck.Card
	if h, ok := p.(cardHolder); ok {
		hole = h.HoleCards()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var decided action.Action
	switch strategy {
	case StrategyRandom:
		decided = a.random(opts)
	case StrategyAggressive:
		decided = a.aggressive(opts)
	case StrategyTight:
		decided = tight(opts, deck.Percentile(hole))
	default:
		decided = callingStation(opts)
	}
	a.logger.Debug("Decided", "player", p.Name(), "strategy", strategy, "action", decided)
	return decided, nil
}

func callingStation(opts action.Options) action.Action {
	switch {
	case opts.CanCheck:
		return action.CheckAction()
	case opts.CanCall:
		return action.CallAction()
	}
	return action.FoldAction()
}

func (a *AI) aggressive(opts action.Options) action.Action {
	if a.rng.Float64() < 0.7 {
		switch {
		case opts.CanRaise:
			return action.RaiseAction(opts.MinRaise)
		case opts.CanBet:
			return action.BetAction(opts.MinBet)
		}
	}
	return callingStation(opts)
}

func (a *AI) random(opts action.Options) action.Action {
	var choices []action.Action
	if opts.CanFold && !opts.CanCheck {
		choices = append(choices, action.FoldAction())
	}
	if opts.CanCheck {
		choices = append(choices, action.CheckAction())
	}
	if opts.CanCall {
		choices = append(choices, action.CallAction())
	}
	if opts.CanBet {
		choices = append(choices, action.BetAction(a.between(opts.MinBet, opts.MaxBet, opts.MinChip)))
	}
	if opts.CanRaise {
		choices = append(choices, action.RaiseAction(a.between(opts.MinRaise, opts.MaxRaise, opts.MinChip)))
	}
	if len(choices) == 0 {
		return action.FoldAction()
	}
	return choices[a.rng.IntN(len(choices))]
}

// between picks a size from lo to hi in steps of chip.
func (a *AI) between(lo, hi, chip int) int {
	if hi <= lo {
		return lo
	}
	chip = max(chip, 1)
	return lo + a.rng.IntN((hi-lo)/chip+1)*chip
}

// tight raises premium hands, continues with playable ones and gives up
// on the rest.
func tight(opts action.Options, percentile float64) action.Action {
	switch {
	case percentile >= 0.85:
		if opts.CanRaise {
			return action.RaiseAction(opts.MinRaise)
		}
		if opts.CanBet {
			return action.BetAction(opts.MinBet)
		}
		return callingStation(opts)
	case percentile >= 0.5:
		return callingStation(opts)
	}
	if opts.CanCheck {
		return action.CheckAction()
	}
	return action.FoldAction()
}
