package deck

import "math/bits"

// Category is the class of a made hand, weakest first.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Score orders hands: a higher Score beats a lower one and equal scores
// split. The category sits in the top bits, then up to five ranks of four
// bits each.
type Score uint32

func (s Score) Category() Category { return Category(s >> 20) }

func (s Score) String() string { return s.Category().String() }

// Evaluate scores the best five-card hand within cards. It accepts five
// to seven cards; fewer cards score as high card on what is there.
func Evaluate(cards []Card) Score {
	var suits [4]uint16
	var counts [15]uint8
	for _, c := range cards {
		suits[c.Suit] |= c.Rank.bit()
		counts[c.Rank]++
	}
	all := suits[0] | suits[1] | suits[2] | suits[3]

	for _, m := range suits {
		if bits.OnesCount16(m) < 5 {
			continue
		}
		if high := straightHigh(m); high > 0 {
			return score(StraightFlush, []Rank{high})
		}
		return score(Flush, topRanks(m, 5))
	}

	var quads, trips, pairs []Rank
	for r := Ace; r >= Two; r-- {
		switch counts[r] {
		case 4:
			quads = append(quads, r)
		case 3:
			trips = append(trips, r)
		case 2:
			pairs = append(pairs, r)
		}
	}

	switch {
	case len(quads) > 0:
		return score(FourOfAKind, append([]Rank{quads[0]}, kickers(all, 1, quads[0])...))
	case len(trips) > 0 && (len(trips) > 1 || len(pairs) > 0):
		pair := Rank(0)
		if len(pairs) > 0 {
			pair = pairs[0]
		}
		if len(trips) > 1 && trips[1] > pair {
			pair = trips[1]
		}
		return score(FullHouse, []Rank{trips[0], pair})
	}

	if high := straightHigh(all); high > 0 {
		return score(Straight, []Rank{high})
	}

	switch {
	case len(trips) > 0:
		return score(ThreeOfAKind, append([]Rank{trips[0]}, kickers(all, 2, trips[0])...))
	case len(pairs) > 1:
		return score(TwoPair, append([]Rank{pairs[0], pairs[1]}, kickers(all, 1, pairs[0], pairs[1])...))
	case len(pairs) == 1:
		return score(Pair, append([]Rank{pairs[0]}, kickers(all, 3, pairs[0])...))
	}
	return score(HighCard, topRanks(all, 5))
}

// Compare returns 1 if a wins, -1 if b wins and 0 for a split.
func Compare(a, b Score) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}

func score(c Category, ranks []Rank) Score {
	s := Score(c) << 20
	for i, r := range ranks {
		if i == 5 {
			break
		}
		s |= Score(r) << (16 - 4*i)
	}
	return s
}

// straightHigh returns the top rank of the best straight in mask, or 0.
func straightHigh(mask uint16) Rank {
	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		return Two + Rank(bits.Len16(seq)-1) + 4
	}
	const wheel = 0x100F
	if mask&wheel == wheel {
		return Five
	}
	return 0
}

func topRanks(mask uint16, n int) []Rank {
	out := make([]Rank, 0, n)
	for mask != 0 && len(out) < n {
		top := bits.Len16(mask) - 1
		out = append(out, Two+Rank(top))
		mask &^= 1 << top
	}
	return out
}

func kickers(mask uint16, n int, used ...Rank) []Rank {
	for _, r := range used {
		mask &^= r.bit()
	}
	out := topRanks(mask, n)
	for len(out) < n {
		out = append(out, 0)
	}
	return out
}
