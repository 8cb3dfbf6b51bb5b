package main

import (
	"fmt"

	"github.com/lox/pokertourney/internal/memtable"
)

type ValidateCmd struct {
	Profile string `arg:"" type:"existingfile" help:"HCL tournament profile"`
}

func (c *ValidateCmd) Run(g *Globals) error {
	profile, err := loadProfile(c.Profile)
	if err != nil {
		return err
	}
	settings, err := profile.Settings()
	if err != nil {
		return err
	}
	players := len(profile.PlayerSpecs())
	fmt.Println(summary(settings, players))
	return nil
}

func summary(s memtable.Settings, players int) string {
	tables := (players + s.SeatsPerTable - 1) / s.SeatsPerTable
	return fmt.Sprintf("%s: ok, %d players at %d tables, %d levels, %d starting chips",
		s.Name, players, tables, len(s.Levels), s.StartingChips)
}
