// Package event carries typed tournament events from the engine and its
// driver to whoever listens (UI refresh, broadcast, persistence, tests).
package event

import (
	"time"

	"github.com/lox/pokertourney/internal/action"
	"github.com/lox/pokertourney/internal/state"
)

// Type identifies an event kind.
type Type string

const (
	TypeHandStarted          Type = "hand_started"
	TypePlayerActed          Type = "player_acted"
	TypeCommunityCardsDealt  Type = "community_cards_dealt"
	TypeHandCompleted        Type = "hand_completed"
	TypeTableStateChanged    Type = "table_state_changed"
	TypePlayerAdded          Type = "player_added"
	TypePlayerRemoved        Type = "player_removed"
	TypeLevelChanged         Type = "level_changed"
	TypeButtonMoved          Type = "button_moved"
	TypeShowdownStarted      Type = "showdown_started"
	TypePotAwarded           Type = "pot_awarded"
	TypeTournamentCompleted  Type = "tournament_completed"
	TypeBreakStarted         Type = "break_started"
	TypeBreakEnded           Type = "break_ended"
	TypeColorUpStarted       Type = "color_up_started"
	TypeColorUpCompleted     Type = "color_up_completed"
	TypeCurrentPlayerChanged Type = "current_player_changed"
	TypePlayerRebuy          Type = "player_rebuy"
	TypePlayerAddon          Type = "player_addon"
	TypePlayerEliminated     Type = "player_eliminated"
	TypeActionTimeout        Type = "action_timeout"
	TypeRebuyOffered         Type = "rebuy_offered"
	TypeAddonOffered         Type = "addon_offered"
	TypeNeverBrokeOffered    Type = "never_broke_offered"
	TypeChipsTransferred     Type = "chips_transferred"
	TypeCleaningDone         Type = "cleaning_done"
)

func (t Type) String() string {
	return string(t)
}

// Event is anything published on the bus. Table is 0 for tournament-wide
// events, tables are numbered from 1.
type Event interface {
	Type() Type
	Table() int
	Timestamp() time.Time
}

type header struct {
	table int
	at    time.Time
}

func (h header) Table() int           { return h.table }
func (h header) Timestamp() time.Time { return h.at }

func newHeader(table int) header {
	return header{table: table, at: time.Now()}
}

// HandStarted is published once the cards for a new hand are dealt.
type HandStarted struct {
	header
	HandID     string
	HandNumber int
	Button     int
	Level      int
}

func (HandStarted) Type() Type { return TypeHandStarted }

func NewHandStarted(table int, handID string, handNumber, button, level int) HandStarted {
	return HandStarted{header: newHeader(table), HandID: handID, HandNumber: handNumber, Button: button, Level: level}
}

// PlayerActed is published for every action applied to a hand, including
// blind and ante posts.
type PlayerActed struct {
	header
	HandID   string
	PlayerID int
	Name     string
	Action   action.Action
	Round    state.BettingRound
	Pot      int
}

func (PlayerActed) Type() Type { return TypePlayerActed }

func NewPlayerActed(table int, handID string, playerID int, name string, a action.Action, round state.BettingRound, pot int) PlayerActed {
	return PlayerActed{
		header:   newHeader(table),
		HandID:   handID,
		PlayerID: playerID,
		Name:     name,
		Action:   a,
		Round:    round,
		Pot:      pot,
	}
}

type CommunityCardsDealt struct {
	header
	HandID string
	Round  state.BettingRound
	Cards  []string
}

func (CommunityCardsDealt) Type() Type { return TypeCommunityCardsDealt }

func NewCommunityCardsDealt(table int, handID string, round state.BettingRound, cards []string) CommunityCardsDealt {
	return CommunityCardsDealt{header: newHeader(table), HandID: handID, Round: round, Cards: append([]string(nil), cards...)}
}

type HandCompleted struct {
	header
	HandID     string
	HandNumber int
	Pot        int
	// Board is the community cards everyone gets to see.
	Board   []string
	Results []PlayerResult
}

// PlayerResult is one player's line at the end of a hand. Result is WIN,
// LOSE, OVERBET or ALLIN. Cards and HandType are empty when mucked.
type PlayerResult struct {
	PlayerID int
	Name     string
	Result   string
	Won      int
	Overbet  int
	Cards    []string
	HandType string
}

func (HandCompleted) Type() Type { return TypeHandCompleted }

func NewHandCompleted(table int, handID string, handNumber, pot int, board []string, results []PlayerResult) HandCompleted {
	return HandCompleted{
		header:     newHeader(table),
		HandID:     handID,
		HandNumber: handNumber,
		Pot:        pot,
		Board:      board,
		Results:    results,
	}
}

type TableStateChanged struct {
	header
	From state.TableState
	To   state.TableState
}

func (TableStateChanged) Type() Type { return TypeTableStateChanged }

func NewTableStateChanged(table int, from, to state.TableState) TableStateChanged {
	return TableStateChanged{header: newHeader(table), From: from, To: to}
}

type PlayerAdded struct {
	header
	PlayerID int
	Name     string
	Seat     int
}

func (PlayerAdded) Type() Type { return TypePlayerAdded }

func NewPlayerAdded(table, playerID int, name string, seat int) PlayerAdded {
	return PlayerAdded{header: newHeader(table), PlayerID: playerID, Name: name, Seat: seat}
}

type PlayerRemoved struct {
	header
	PlayerID int
	Name     string
	Seat     int
}

func (PlayerRemoved) Type() Type { return TypePlayerRemoved }

func NewPlayerRemoved(table, playerID int, name string, seat int) PlayerRemoved {
	return PlayerRemoved{header: newHeader(table), PlayerID: playerID, Name: name, Seat: seat}
}

// LevelChanged is published when a table adopts a new blind level.
type LevelChanged struct {
	header
	Level      int
	SmallBlind int
	BigBlind   int
	Ante       int
	// Message is the dealer announcement key, sent to Destination.
	Message     string
	Destination string
}

func (LevelChanged) Type() Type { return TypeLevelChanged }

func NewLevelChanged(table, level, smallBlind, bigBlind, ante int, message, destination string) LevelChanged {
	return LevelChanged{
		header:      newHeader(table),
		Level:       level,
		SmallBlind:  smallBlind,
		BigBlind:    bigBlind,
		Ante:        ante,
		Message:     message,
		Destination: destination,
	}
}

type ButtonMoved struct {
	header
	Seat int
}

func (ButtonMoved) Type() Type { return TypeButtonMoved }

func NewButtonMoved(table, seat int) ButtonMoved {
	return ButtonMoved{header: newHeader(table), Seat: seat}
}

type ShowdownStarted struct {
	header
	HandID string
}

func (ShowdownStarted) Type() Type { return TypeShowdownStarted }

func NewShowdownStarted(table int, handID string) ShowdownStarted {
	return ShowdownStarted{header: newHeader(table), HandID: handID}
}

// PotAwarded is published once per pot (main pot is index 0).
type PotAwarded struct {
	header
	HandID    string
	PotIndex  int
	Amount    int
	WinnerIDs []int
}

func (PotAwarded) Type() Type { return TypePotAwarded }

func NewPotAwarded(table int, handID string, potIndex, amount int, winnerIDs []int) PotAwarded {
	return PotAwarded{
		header:    newHeader(table),
		HandID:    handID,
		PotIndex:  potIndex,
		Amount:    amount,
		WinnerIDs: append([]int(nil), winnerIDs...),
	}
}

type TournamentCompleted struct {
	header
	WinnerID   int
	WinnerName string
}

func (TournamentCompleted) Type() Type { return TypeTournamentCompleted }

func NewTournamentCompleted(winnerID int, winnerName string) TournamentCompleted {
	return TournamentCompleted{header: newHeader(0), WinnerID: winnerID, WinnerName: winnerName}
}

type BreakStarted struct {
	header
	Level    int
	Duration time.Duration
	Message  string
}

func (BreakStarted) Type() Type { return TypeBreakStarted }

func NewBreakStarted(table, level int, d time.Duration, message string) BreakStarted {
	return BreakStarted{header: newHeader(table), Level: level, Duration: d, Message: message}
}

type BreakEnded struct {
	header
	Level int
}

func (BreakEnded) Type() Type { return TypeBreakEnded }

func NewBreakEnded(table, level int) BreakEnded {
	return BreakEnded{header: newHeader(table), Level: level}
}

type ColorUpStarted struct {
	header
	OldMinChip int
	NewMinChip int
}

func (ColorUpStarted) Type() Type { return TypeColorUpStarted }

func NewColorUpStarted(table, oldMinChip, newMinChip int) ColorUpStarted {
	return ColorUpStarted{header: newHeader(table), OldMinChip: oldMinChip, NewMinChip: newMinChip}
}

type ColorUpCompleted struct {
	header
	MinChip int
}

func (ColorUpCompleted) Type() Type { return TypeColorUpCompleted }

func NewColorUpCompleted(table, minChip int) ColorUpCompleted {
	return ColorUpCompleted{header: newHeader(table), MinChip: minChip}
}

type CurrentPlayerChanged struct {
	header
	PlayerID int
	Seat     int
}

func (CurrentPlayerChanged) Type() Type { return TypeCurrentPlayerChanged }

func NewCurrentPlayerChanged(table, playerID, seat int) CurrentPlayerChanged {
	return CurrentPlayerChanged{header: newHeader(table), PlayerID: playerID, Seat: seat}
}

type PlayerRebuy struct {
	header
	PlayerID int
	Chips    int
}

func (PlayerRebuy) Type() Type { return TypePlayerRebuy }

func NewPlayerRebuy(table, playerID, chips int) PlayerRebuy {
	return PlayerRebuy{header: newHeader(table), PlayerID: playerID, Chips: chips}
}

type PlayerAddon struct {
	header
	PlayerID int
	Chips    int
}

func (PlayerAddon) Type() Type { return TypePlayerAddon }

func NewPlayerAddon(table, playerID, chips int) PlayerAddon {
	return PlayerAddon{header: newHeader(table), PlayerID: playerID, Chips: chips}
}

// PlayerEliminated carries the finishing position (1 is the winner).
// PlayerEliminated is announced by the director, to Destination.
type PlayerEliminated struct {
	header
	PlayerID    int
	Name        string
	Position    int
	Destination string
}

func (PlayerEliminated) Type() Type { return TypePlayerEliminated }

func NewPlayerEliminated(table, playerID int, name string, position int, destination string) PlayerEliminated {
	return PlayerEliminated{header: newHeader(table), PlayerID: playerID, Name: name, Position: position, Destination: destination}
}

// ActionTimeout records the default action applied for a silent player.
type ActionTimeout struct {
	header
	PlayerID int
	Applied  action.Action
}

func (ActionTimeout) Type() Type { return TypeActionTimeout }

func NewActionTimeout(table, playerID int, applied action.Action) ActionTimeout {
	return ActionTimeout{header: newHeader(table), PlayerID: playerID, Applied: applied}
}

type RebuyOffered struct {
	header
	PlayerID int
	Chips    int
}

func (RebuyOffered) Type() Type { return TypeRebuyOffered }

func NewRebuyOffered(table, playerID, chips int) RebuyOffered {
	return RebuyOffered{header: newHeader(table), PlayerID: playerID, Chips: chips}
}

type AddonOffered struct {
	header
	PlayerID int
	Chips    int
}

func (AddonOffered) Type() Type { return TypeAddonOffered }

func NewAddonOffered(table, playerID, chips int) AddonOffered {
	return AddonOffered{header: newHeader(table), PlayerID: playerID, Chips: chips}
}

type NeverBrokeOffered struct {
	header
	PlayerID int
	Chips    int
}

func (NeverBrokeOffered) Type() Type { return TypeNeverBrokeOffered }

func NewNeverBrokeOffered(table, playerID, chips int) NeverBrokeOffered {
	return NeverBrokeOffered{header: newHeader(table), PlayerID: playerID, Chips: chips}
}

type ChipsTransferred struct {
	header
	FromID int
	ToID   int
	Amount int
}

func (ChipsTransferred) Type() Type { return TypeChipsTransferred }

func NewChipsTransferred(table, fromID, toID, amount int) ChipsTransferred {
	return ChipsTransferred{header: newHeader(table), FromID: fromID, ToID: toID, Amount: amount}
}

type CleaningDone struct {
	header
}

func (CleaningDone) Type() Type { return TypeCleaningDone }

func NewCleaningDone(table int) CleaningDone {
	return CleaningDone{header: newHeader(table)}
}
