package rules

import "fmt"

// Candidate is what table selection needs to know about a table.
type Candidate interface {
	IsRemoved() bool
	IsAllComputer() bool
	NumObservers() int
}

// Computerized is anything that may be a computer player.
type Computerized interface {
	IsComputer() bool
}

func isNil(v any) bool { return v == nil }

// IsTableRemoved treats a missing table as removed.
func IsTableRemoved[T Candidate](t T) bool {
	return isNil(t) || t.IsRemoved()
}

func IsAllComputer[T Candidate](t T) bool {
	return !isNil(t) && t.IsAllComputer()
}

// ShouldMoveObservers is true when the source table has no humans left to
// watch, so its observers should follow the action elsewhere.
func ShouldMoveObservers[T Candidate](source T) bool {
	return IsAllComputer(source)
}

func WasAllComputerNoObservers[T Candidate](t T) bool {
	return IsAllComputer(t) && t.NumObservers() == 0
}

// SelectNewTable picks where to send a human once their table goes away.
// Preference: the host's table, the first live table with humans, the
// current table if it is still live, and finally the first live
// all-computer table (reported with usedFallback).
func SelectNewTable[T Candidate](current, host T, all []T) (selected T, usedFallback bool, err error) {
	if !IsTableRemoved(host) {
		return host, false, nil
	}

	var fallback T
	haveFallback := false
	for _, t := range all {
		if IsTableRemoved(t) {
			continue
		}
		if !t.IsAllComputer() {
			return t, false, nil
		}
		if !haveFallback {
			fallback, haveFallback = t, true
		}
	}

	if !IsTableRemoved(current) {
		return current, false, nil
	}
	if haveFallback {
		return fallback, true, nil
	}

	var zero T
	return zero, false, fmt.Errorf("select table from %d candidates: %w", len(all), ErrNoValidTable)
}

// CountHumanPlayers counts non-computer entries, skipping empty seats.
func CountHumanPlayers[P Computerized](seated []P) int {
	n := 0
	for _, p := range seated {
		if !isNil(p) && !p.IsComputer() {
			n++
		}
	}
	return n
}

func HasHumanObservers[P Computerized](observers []P) bool {
	return CountHumanPlayers(observers) > 0
}
