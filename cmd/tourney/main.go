package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	LogLevel string `short:"l" help:"Log level: debug, info, warn or error (overrides the profile)"`
	NoColor  bool   `help:"Disable colored output"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Run      RunCmd           `cmd:"" help:"Play a tournament to the end"`
	Validate ValidateCmd      `cmd:"" help:"Check a tournament profile"`
	Levels   LevelsCmd        `cmd:"" help:"Print the blind structure of a profile"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tourney"),
		kong.Description("Multi-table poker tournament runner"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// newLogger builds the stderr logger, the flag winning over the profile.
func (g *Globals) newLogger(profileLevel string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if g.NoColor {
		logger.SetColorProfile(termenv.Ascii)
	}

	name := profileLevel
	if g.LogLevel != "" {
		name = g.LogLevel
	}
	switch name {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}
