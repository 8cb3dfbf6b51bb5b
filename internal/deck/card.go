package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

const suitLetters = "shdc"

func (s Suit) String() string {
	if s < Spades || s > Clubs {
		return "?"
	}
	return string(suitLetters[s])
}

// Rank represents a card rank. Aces are high.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankLetters = "23456789TJQKA"

func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankLetters[r-Two])
}

// bit is the rank's position in a 13-bit rank mask.
func (r Rank) bit() uint16 { return 1 << uint(r-Two) }

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String renders the card as rank then suit, e.g. "As" or "Td".
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// ParseCard parses a two character card such as "Ah".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	r := strings.IndexByte(rankLetters, strings.ToUpper(s[:1])[0])
	if r < 0 {
		return Card{}, fmt.Errorf("invalid rank in %q", s)
	}
	su := strings.IndexByte(suitLetters, strings.ToLower(s[1:])[0])
	if su < 0 {
		return Card{}, fmt.Errorf("invalid suit in %q", s)
	}
	return Card{Suit: Suit(su), Rank: Two + Rank(r)}, nil
}

// ParseCards parses concatenated cards such as "AsKsQh".
func ParseCards(s string) ([]Card, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string %q", s)
	}
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for tests and fixtures; it panics on error.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// Strings renders each card with String.
func Strings(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
