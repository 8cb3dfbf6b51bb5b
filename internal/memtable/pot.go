package memtable

import "slices"

// Pot is a main or side pot. Eligible holds the IDs of players who can
// win it.
type Pot struct {
	Amount   int
	Eligible []int
}

// contribution is one player's total put into the hand.
type contribution struct {
	id     int
	amount int
	folded bool
}

// buildPots splits the hand's contributions into a main pot and side
// pots, one layer per distinct all-in level. Folded chips stay in the pots
// they reached but their owners are never eligible.
func buildPots(contribs []contribution) []Pot {
	var levels []int
	for _, c := range contribs {
		if c.amount > 0 && !slices.Contains(levels, c.amount) {
			levels = append(levels, c.amount)
		}
	}
	slices.Sort(levels)

	var pots []Pot
	previous := 0
	for _, level := range levels {
		pot := Pot{}
		for _, c := range contribs {
			if c.amount <= previous {
				continue
			}
			pot.Amount += min(c.amount, level) - previous
			if !c.folded && c.amount >= level {
				pot.Eligible = append(pot.Eligible, c.id)
			}
		}
		previous = level
		if pot.Amount == 0 {
			continue
		}
		// Folded chips above every live stack join the layer below.
		if len(pot.Eligible) == 0 && len(pots) > 0 {
			pots[len(pots)-1].Amount += pot.Amount
			continue
		}
		if len(pots) > 0 && slices.Equal(pots[len(pots)-1].Eligible, pot.Eligible) {
			pots[len(pots)-1].Amount += pot.Amount
			continue
		}
		pots = append(pots, pot)
	}
	return pots
}

// split shares amount between winners, in multiples of minChip where
// possible. Odd chips go one unit at a time from the first winner on.
func split(amount int, winners []int, minChip int) map[int]int {
	out := make(map[int]int, len(winners))
	if len(winners) == 0 {
		return out
	}
	unit := max(1, minChip)
	units := amount / unit
	each := units / len(winners)
	for _, id := range winners {
		out[id] = each * unit
	}
	extra := units % len(winners)
	for i := range extra {
		out[winners[i]] += unit
	}
	out[winners[0]] += amount % unit
	return out
}
