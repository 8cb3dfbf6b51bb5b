// Package standings turns a tournament into its finishing order and writes
// it out for people and for files.
package standings

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/pokertourney/internal/fileutil"
	"github.com/lox/pokertourney/internal/memtable"
)

// Entry is one player's line in the standings. Position is zero while the
// player is still in.
type Entry struct {
	Position int
	PlayerID int
	Name     string
	Human    bool
	Chips    int
	Rebuys   int
	Addon    bool
}

// Standings is the ordered result of a tournament, finished or not.
type Standings struct {
	Name     string
	Level    int
	Finished bool
	Entries  []Entry
}

// From orders the players of t: the winner, then those still in by chips,
// then the eliminated by finishing position.
func From(t *memtable.Tournament) Standings {
	players := t.Players()
	entries := make([]Entry, 0, len(players))
	for _, p := range players {
		e := Entry{
			PlayerID: p.ID(),
			Name:     p.Name(),
			Human:    p.IsHuman(),
			Chips:    p.ChipCount(),
			Rebuys:   p.Rebuys(),
			Addon:    p.HasAddon(),
			Position: p.Position(),
		}
		entries = append(entries, e)
	}
	slices.SortStableFunc(entries, compare)
	return Standings{
		Name:     t.Settings().Name,
		Level:    t.Level(),
		Finished: t.IsGameOver(),
		Entries:  entries,
	}
}

func compare(a, b Entry) int {
	switch {
	case a.Position == 0 && b.Position == 0:
		return cmp.Compare(b.Chips, a.Chips)
	case a.Position == 0:
		if b.Position == 1 {
			return 1
		}
		return -1
	case b.Position == 0:
		if a.Position == 1 {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.Position, b.Position)
}

// Winner is the entry in first place, if the tournament has one.
func (s Standings) Winner() (Entry, bool) {
	if len(s.Entries) == 0 || s.Entries[0].Position != 1 {
		return Entry{}, false
	}
	return s.Entries[0], true
}

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	winnerStyle = cellStyle.Foreground(lipgloss.Color("#FFD700")).Bold(true)
	humanStyle  = cellStyle.Foreground(lipgloss.Color("#96CEB4"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// Render draws the standings as a terminal table.
func (s Standings) Render() string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("#", "Player", "Chips", "Rebuys", "Addon").
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row < 0 || row >= len(s.Entries):
				return cellStyle
			case s.Entries[row].Position == 1:
				return winnerStyle
			case s.Entries[row].Human:
				return humanStyle
			}
			return cellStyle
		})
	for _, e := range s.Entries {
		t.Row(position(e), e.Name, strconv.Itoa(e.Chips), strconv.Itoa(e.Rebuys), yesNo(e.Addon))
	}

	status := "in progress"
	if s.Finished {
		status = "final"
	}
	title := headerStyle.Render(fmt.Sprintf("%s (%s, level %d)", s.Name, status, s.Level))
	return lipgloss.JoinVertical(lipgloss.Left, title, t.Render())
}

// WriteTo writes the standings as tab separated text.
func (s Standings) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	tw := tabwriter.NewWriter(cw, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "# %s level %d\n", s.Name, s.Level)
	fmt.Fprintln(tw, "position\tplayer\tchips\trebuys\taddon")
	for _, e := range s.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", position(e), e.Name, e.Chips, e.Rebuys, yesNo(e.Addon))
	}
	err := tw.Flush()
	return cw.n, err
}

// WriteFile saves the standings to path without ever leaving a partial
// file behind.
func (s Standings) WriteFile(path string) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, err := s.WriteTo(w)
		return err
	})
}

func position(e Entry) string {
	if e.Position == 0 {
		return "-"
	}
	return strconv.Itoa(e.Position)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
