// Package deck deals cards and scores hands.
package deck

import (
	rand "math/rand/v2"

	"github.com/lox/pokertourney/internal/randutil"
)

// Deck is a 52-card deck dealt from the top. It is not safe for
// concurrent use; each table owns its own.
type Deck struct {
	cards [52]Card
	next  int
	rng   *rand.Rand
}

// New returns a shuffled deck whose order is fully determined by rng.
func New(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	i := 0
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(suit, rank)
			i++
		}
	}
	d.Shuffle()
	return d
}

// NewSeeded is New with a generator derived from seed.
func NewSeeded(seed int64) *Deck {
	return New(randutil.New(seed))
}

// Shuffle puts every card back and shuffles with Fisher-Yates.
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top card. ok is false once the deck is empty.
func (d *Deck) Deal() (c Card, ok bool) {
	if d.next >= len(d.cards) {
		return Card{}, false
	}
	c = d.cards[d.next]
	d.next++
	return c, true
}

// DealN deals n cards, or nil when fewer than n remain.
func (d *Deck) DealN(n int) []Card {
	if n < 0 || d.next+n > len(d.cards) {
		return nil
	}
	out := make([]Card, n)
	copy(out, d.cards[d.next:d.next+n])
	d.next += n
	return out
}

// Burn discards the top card.
func (d *Deck) Burn() {
	if d.next < len(d.cards) {
		d.next++
	}
}

func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}
