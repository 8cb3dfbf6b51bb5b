// Package rules holds the stateless decisions the tournament engine makes at
// each transition. Nothing here touches a table directly; callers pass in the
// facts and get back an answer, so every rule can be tested in isolation.
//
// Ordinary game situations (a broke player, no rebuy, an all-in) are modelled
// as enumerated outcomes. Only impossible inputs produce errors.
package rules

import "errors"

var (
	// ErrInvariant marks a combination of facts that can never happen in a
	// consistent tournament. Callers must not guess their way past it.
	ErrInvariant = errors.New("invariant violation")

	// ErrInvalidMinChip is returned when a rounding helper is given a
	// minimum chip that is zero or negative.
	ErrInvalidMinChip = errors.New("minimum chip must be positive")

	// ErrNoValidTable means no table can take the players right now. The
	// caller may retry once seats change.
	ErrNoValidTable = errors.New("no valid table")
)
