// Package config loads tournament profiles written in HCL.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/pokertourney/internal/memtable"
	"github.com/lox/pokertourney/internal/provider"
	"github.com/lox/pokertourney/internal/tournament"
)

// Profile is a complete tournament description.
type Profile struct {
	LogLevel   string          `hcl:"log_level,optional"`
	Results    string          `hcl:"results,optional"`
	Tournament TournamentBlock `hcl:"tournament,block"`
	Players    []PlayerBlock   `hcl:"player,block"`
}

// TournamentBlock holds the structure and timing of the event.
type TournamentBlock struct {
	Name            string `hcl:"name,label"`
	StartingChips   int    `hcl:"starting_chips,optional"`
	SeatsPerTable   int    `hcl:"seats_per_table,optional"`
	Online          bool   `hcl:"online,optional"`
	LevelMinutes    int    `hcl:"level_minutes,optional"`
	HandsPerLevel   int    `hcl:"hands_per_level,optional"`
	RebuyUntilLevel int    `hcl:"rebuy_until_level,optional"`
	MaxRebuys       int    `hcl:"max_rebuys,optional"`
	RebuyChips      int    `hcl:"rebuy_chips,optional"`
	AddonLevel      int    `hcl:"addon_level,optional"`
	AddonChips      int    `hcl:"addon_chips,optional"`
	NeverBroke      bool   `hcl:"never_broke,optional"`
	ActionTimeout   string `hcl:"action_timeout,optional"`
	ThinkBank       string `hcl:"think_bank,optional"`
	AutoDeal        bool   `hcl:"auto_deal,optional"`
	AutoDealDelay   string `hcl:"auto_deal_delay,optional"`
	AIPause         int    `hcl:"ai_pause,optional"`
	RabbitHunt      bool   `hcl:"rabbit_hunt,optional"`
	AIFaceUp        bool   `hcl:"ai_face_up,optional"`
	StartAt         string `hcl:"start_at,optional"`
	MinPlayers      int    `hcl:"min_players,optional"`
	Seed            int64  `hcl:"seed,optional"`

	Levels []LevelBlock `hcl:"level,block"`
}

// LevelBlock is one blind level or break.
type LevelBlock struct {
	SmallBlind int  `hcl:"small_blind,optional"`
	BigBlind   int  `hcl:"big_blind,optional"`
	Ante       int  `hcl:"ante,optional"`
	MinChip    int  `hcl:"min_chip,optional"`
	Break      bool `hcl:"break,optional"`
	Minutes    int  `hcl:"minutes,optional"`
}

// PlayerBlock enters one player, or Count players sharing a strategy.
type PlayerBlock struct {
	Name     string `hcl:"name,label"`
	Human    bool   `hcl:"human,optional"`
	Remote   bool   `hcl:"remote,optional"`
	Local    bool   `hcl:"local,optional"`
	Strategy string `hcl:"strategy,optional"`
	Count    int    `hcl:"count,optional"`
}

var ErrInvalidProfile = errors.New("invalid profile")

// Default is a ten-player practice game against the computer.
func Default() *Profile {
	p := &Profile{
		Tournament: TournamentBlock{Name: "practice"},
		Players: []PlayerBlock{
			{Name: "bot", Strategy: string(provider.StrategyRandom), Count: 10},
		},
	}
	p.applyDefaults()
	return p
}

// Load reads a profile from filename. A missing file yields Default.
func Load(filename string) (*Profile, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file)
}

// Parse decodes a profile held in memory; filename is used in diagnostics.
func Parse(src []byte, filename string) (*Profile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file)
}

func decode(file *hcl.File) (*Profile, error) {
	var p Profile
	if diags := gohcl.DecodeBody(file.Body, nil, &p); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	p.applyDefaults()
	return &p, nil
}

func (p *Profile) applyDefaults() {
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
	t := &p.Tournament
	if t.LevelMinutes == 0 && t.HandsPerLevel == 0 {
		t.LevelMinutes = 20
	}
	if t.ActionTimeout == "" {
		t.ActionTimeout = "30s"
	}
	if t.AutoDealDelay == "" {
		t.AutoDealDelay = "1s"
	}
	for i := range p.Players {
		if p.Players[i].Count == 0 {
			p.Players[i].Count = 1
		}
		if !p.Players[i].Human && p.Players[i].Strategy == "" {
			p.Players[i].Strategy = string(provider.StrategyCall)
		}
	}
}

// Validate checks the profile, including the settings it converts to.
func (p *Profile) Validate() error {
	switch p.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: invalid log level %q", ErrInvalidProfile, p.LogLevel)
	}

	total, locals := 0, 0
	for _, pl := range p.Players {
		if pl.Count < 1 {
			return fmt.Errorf("%w: player %s: count must be positive", ErrInvalidProfile, pl.Name)
		}
		if !pl.Human {
			if _, err := provider.ParseStrategy(pl.Strategy); err != nil {
				return fmt.Errorf("%w: player %s: %w", ErrInvalidProfile, pl.Name, err)
			}
		}
		if pl.Local {
			if !pl.Human || pl.Count > 1 {
				return fmt.Errorf("%w: player %s: only a single human can be local", ErrInvalidProfile, pl.Name)
			}
			locals++
		}
		total += pl.Count
	}
	if locals > 1 {
		return fmt.Errorf("%w: at most one local player", ErrInvalidProfile)
	}
	if total < 2 {
		return fmt.Errorf("%w: at least two players are required, have %d", ErrInvalidProfile, total)
	}

	s, err := p.Settings()
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if s.ScheduledStart.Enabled && s.ScheduledStart.MinPlayers > total {
		return fmt.Errorf("%w: min players %d exceeds the %d entered", ErrInvalidProfile, s.ScheduledStart.MinPlayers, total)
	}
	return nil
}

// Settings converts the tournament block. Empty fields keep the
// memtable defaults.
func (p *Profile) Settings() (memtable.Settings, error) {
	t := p.Tournament
	s := memtable.DefaultSettings()
	s.Name = t.Name
	s.Online = t.Online
	s.LevelDuration = time.Duration(t.LevelMinutes) * time.Minute
	s.HandsPerLevel = t.HandsPerLevel
	s.RebuyUntilLevel = t.RebuyUntilLevel
	s.MaxRebuys = t.MaxRebuys
	s.AddonLevel = t.AddonLevel
	s.NeverBroke = t.NeverBroke
	s.AutoDeal = t.AutoDeal
	s.AIPause = t.AIPause
	s.RabbitHunt = t.RabbitHunt
	s.AIFaceUp = t.AIFaceUp
	s.Seed = t.Seed
	if t.StartingChips != 0 {
		s.StartingChips = t.StartingChips
		s.RebuyChips, s.AddonChips = t.StartingChips, t.StartingChips
	}
	if t.SeatsPerTable != 0 {
		s.SeatsPerTable = t.SeatsPerTable
	}
	if t.RebuyChips != 0 {
		s.RebuyChips = t.RebuyChips
	}
	if t.AddonChips != 0 {
		s.AddonChips = t.AddonChips
	}

	var err error
	if s.ActionTimeout, err = parseDuration("action_timeout", t.ActionTimeout); err != nil {
		return s, err
	}
	if s.AutoDealDelay, err = parseDuration("auto_deal_delay", t.AutoDealDelay); err != nil {
		return s, err
	}
	if t.ThinkBank != "" {
		if s.ThinkBank, err = parseDuration("think_bank", t.ThinkBank); err != nil {
			return s, err
		}
	}
	if t.StartAt != "" {
		at, err := time.Parse(time.RFC3339, t.StartAt)
		if err != nil {
			return s, fmt.Errorf("%w: start_at: %w", ErrInvalidProfile, err)
		}
		s.ScheduledStart = tournament.ScheduledStart{Enabled: true, At: at, MinPlayers: t.MinPlayers}
	}

	if len(t.Levels) > 0 {
		s.Levels = make([]memtable.Level, len(t.Levels))
		for i, l := range t.Levels {
			s.Levels[i] = memtable.Level{
				SmallBlind: l.SmallBlind,
				BigBlind:   l.BigBlind,
				Ante:       l.Ante,
				MinChip:    l.MinChip,
				Break:      l.Break,
				Duration:   time.Duration(l.Minutes) * time.Minute,
			}
		}
	}
	return s, nil
}

func parseDuration(field, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidProfile, field, err)
	}
	return d, nil
}

// PlayerSpecs expands the player blocks in order. A block with a count
// above one names its players label-1, label-2 and so on.
func (p *Profile) PlayerSpecs() []memtable.PlayerSpec {
	var specs []memtable.PlayerSpec
	for _, pl := range p.Players {
		for i := range pl.Count {
			name := pl.Name
			if pl.Count > 1 {
				name = fmt.Sprintf("%s-%d", pl.Name, i+1)
			}
			specs = append(specs, memtable.PlayerSpec{
				Name:     name,
				Human:    pl.Human,
				Remote:   pl.Remote,
				Local:    pl.Local,
				Strategy: pl.Strategy,
			})
		}
	}
	return specs
}
