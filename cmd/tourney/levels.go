package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/pokertourney/internal/memtable"
	"github.com/lox/pokertourney/internal/rules"
)

type LevelsCmd struct {
	Profile string `arg:"" optional:"" default:"tourney.hcl" type:"path" help:"HCL tournament profile (the practice structure if missing)"`
}

func (c *LevelsCmd) Run(g *Globals) error {
	profile, err := loadProfile(c.Profile)
	if err != nil {
		return err
	}
	settings, err := profile.Settings()
	if err != nil {
		return err
	}
	fmt.Println(renderLevels(settings))
	return nil
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	breakStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFEAA7")).Padding(0, 1)
	plainStyle = lipgloss.NewStyle().Padding(0, 1)
)

// renderLevels draws the blind structure, one row per level.
func renderLevels(s memtable.Settings) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Level", "Blinds", "Ante", "Min chip", "Length", "Announcement").
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return titleStyle
			case row >= 0 && row < len(s.Levels) && s.Levels[row].Break:
				return breakStyle
			}
			return plainStyle
		})

	for i, l := range s.Levels {
		length := levelLength(s, l)
		msg := rules.TransitionMessageKey(l.Break, s.Online, l.Ante > 0)
		if l.Break {
			t.Row(strconv.Itoa(i+1), "break", "", "", length, msg)
			continue
		}
		ante := ""
		if l.Ante > 0 {
			ante = strconv.Itoa(l.Ante)
		}
		t.Row(strconv.Itoa(i+1), fmt.Sprintf("%d/%d", l.SmallBlind, l.BigBlind), ante, strconv.Itoa(l.MinChip), length, msg)
	}
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(s.Name), t.Render())
}

func levelLength(s memtable.Settings, l memtable.Level) string {
	d := l.Duration
	if d == 0 {
		d = s.LevelDuration
	}
	switch {
	case l.Break:
		return d.String()
	case s.HandsPerLevel > 0 && d > 0:
		return fmt.Sprintf("%s or %d hands", d, s.HandsPerLevel)
	case s.HandsPerLevel > 0:
		return fmt.Sprintf("%d hands", s.HandsPerLevel)
	}
	return d.String()
}
