package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/pokertourney/internal/config"
	"github.com/lox/pokertourney/internal/director"
	"github.com/lox/pokertourney/internal/event"
	"github.com/lox/pokertourney/internal/memtable"
	"github.com/lox/pokertourney/internal/provider"
	"github.com/lox/pokertourney/internal/rules"
	"github.com/lox/pokertourney/internal/standings"
	"github.com/lox/pokertourney/internal/tournament"
)

// RunCmd plays a whole tournament from a profile.
type RunCmd struct {
	Profile string        `arg:"" optional:"" default:"tourney.hcl" type:"path" help:"HCL tournament profile (a practice game if missing)"`
	Seed    *int64        `help:"Seed for seating, cards and computer play (overrides the profile)"`
	Results string        `type:"path" help:"Write the final standings to this file (overrides the profile)"`
	Delay   time.Duration `default:"0s" help:"Pause between visible steps"`
	Think   time.Duration `default:"0s" help:"Computer thinking time per decision (the profile's ai_pause when zero)"`
	Accept  bool          `help:"Accept every rebuy, addon and never-broke offer for humans"`
}

func (c *RunCmd) Run(g *Globals) error {
	profile, err := loadProfile(c.Profile)
	if err != nil {
		return err
	}
	logger := g.newLogger(profile.LogLevel)

	settings, err := profile.Settings()
	if err != nil {
		return err
	}
	if c.Seed != nil {
		settings.Seed = *c.Seed
	} else if settings.Seed == 0 {
		settings.Seed = time.Now().UnixNano()
	}
	logger.Info("Using seed", "seed", settings.Seed)

	bus := event.NewBus()
	defer bus.Subscribe(event.SubscriberFunc(watch(logger)))()

	tour, remote, err := setup(settings, profile.PlayerSpecs(), bus, logger)
	if err != nil {
		return err
	}

	ai := provider.NewAI(settings.Seed, []provider.Option{provider.WithLogger(logger)}, provider.WithThinkTime(thinkTime(c.Think, settings)))
	// Nobody drives the local seat interactively; the computer plays it.
	engine := tournament.NewEngine(provider.Router{AI: ai}, bus, tournament.WithLogger(logger))

	var offers director.Offers = director.DeclineAll{}
	if c.Accept {
		offers = director.AcceptAll{}
	}
	d := director.New(engine, tour, bus,
		director.WithLogger(logger),
		director.WithRemote(remote),
		director.WithOffers(offers),
		director.WithStepDelay(c.Delay),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	runErr := d.Run(ctx)
	if errors.Is(runErr, context.Canceled) {
		logger.Warn("Interrupted, standings are partial")
	}

	final := standings.From(tour)
	fmt.Println(final.Render())
	if w, ok := final.Winner(); ok {
		logger.Info("Tournament won", "winner", w.Name, "elapsed", time.Since(start).Round(time.Millisecond))
	}

	results := profile.Results
	if c.Results != "" {
		results = c.Results
	}
	if results != "" {
		if err := final.WriteFile(results); err != nil {
			return errors.Join(runErr, fmt.Errorf("write results: %w", err))
		}
		logger.Info("Results written", "path", results)
	}
	return runErr
}

// thinkTime is the --think flag, or the profile's AI pause when the flag
// is unset.
func thinkTime(flag time.Duration, s memtable.Settings) time.Duration {
	if flag > 0 {
		return flag
	}
	return time.Duration(rules.AIPauseMillis(s.AIPause)) * time.Millisecond
}

func loadProfile(path string) (*config.Profile, error) {
	profile, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

// setup enters and seats the players. Remote humans have nobody
// connected, so they are marked disconnected and take the default action
// straight away.
func setup(settings memtable.Settings, specs []memtable.PlayerSpec, bus *event.Bus, logger *log.Logger) (*memtable.Tournament, *provider.Remote, error) {
	tour, err := memtable.New(settings, bus, memtable.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	remote := provider.NewRemote(bus, []provider.Option{provider.WithLogger(logger)}, provider.WithDisconnectGrace(0))
	for _, spec := range specs {
		p := tour.AddPlayer(spec)
		if spec.Human && spec.Remote {
			remote.Disconnect(p.ID())
		}
	}
	if err := tour.Seat(); err != nil {
		return nil, nil, err
	}
	return tour, remote, nil
}

// watch logs the events someone following the tournament cares about.
func watch(logger *log.Logger) func(event.Event) {
	return func(e event.Event) {
		switch e := e.(type) {
		case event.PlayerEliminated:
			logger.Info("Knocked out", "player", e.Name, "position", e.Position, "table", e.Table(), "to", e.Destination)
		case event.LevelChanged:
			logger.Debug("Level changed", "table", e.Table(), "level", e.Level, "small", e.SmallBlind, "big", e.BigBlind, "ante", e.Ante, "message", e.Message)
		case event.BreakStarted:
			logger.Info("Break", "table", e.Table(), "level", e.Level, "message", e.Message)
		case event.HandCompleted:
			logger.Debug("Hand complete", "table", e.Table(), "hand", e.HandNumber, "board", e.Board, "pot", e.Pot)
		case event.PlayerRebuy:
			logger.Info("Rebuy", "player", e.PlayerID, "chips", e.Chips)
		case event.PlayerAddon:
			logger.Info("Addon", "player", e.PlayerID, "chips", e.Chips)
		case event.ActionTimeout:
			logger.Debug("Timed out", "player", e.PlayerID, "table", e.Table())
		case event.TournamentCompleted:
			logger.Info("Tournament complete", "winner", e.WinnerName)
		}
	}
}
