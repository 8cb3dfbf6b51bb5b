package rules

import "fmt"

// InputMode is the set of buttons offered to the acting player.
type InputMode int

const (
	ModeCheckBet InputMode = iota
	ModeCheckRaise
	ModeCallRaise
)

func (m InputMode) String() string {
	switch m {
	case ModeCheckBet:
		return "CHECK_BET"
	case ModeCheckRaise:
		return "CHECK_RAISE"
	case ModeCallRaise:
		return "CALL_RAISE"
	default:
		return fmt.Sprintf("InputMode(%d)", int(m))
	}
}

// DetermineInputMode picks the input mode from the amount the player owes
// and the current bet on the street.
func DetermineInputMode(toCall, currentBet int) InputMode {
	switch {
	case toCall > 0:
		return ModeCallRaise
	case currentBet == 0:
		return ModeCheckBet
	default:
		return ModeCheckRaise
	}
}

// BetValidation describes how an amount relates to the table's chip size.
type BetValidation struct {
	Original int
	Rounded  int
}

// Valid reports whether the requested amount was already a whole number of
// minimum chips.
func (v BetValidation) Valid() bool { return v.Original == v.Rounded }

func (v BetValidation) NeedsRounding() bool { return !v.Valid() }

// ValidateBetAmount rounds amount to the nearest multiple of minChip.
func ValidateBetAmount(minChip, amount int) (BetValidation, error) {
	rounded, err := roundToChip(minChip, amount)
	if err != nil {
		return BetValidation{}, err
	}
	return BetValidation{Original: amount, Rounded: rounded}, nil
}

// MinChipper is anything that knows its smallest chip denomination.
type MinChipper interface {
	MinChip() int
}

// RoundAmountMinChip rounds chips to a multiple of t's minimum chip,
// halves rounding up. The result is idempotent under repeated rounding.
func RoundAmountMinChip(t MinChipper, chips int) (int, error) {
	return roundToChip(t.MinChip(), chips)
}

func roundToChip(minChip, amount int) (int, error) {
	if minChip <= 0 {
		return 0, fmt.Errorf("round %d: %w (got %d)", amount, ErrInvalidMinChip, minChip)
	}
	if amount <= 0 {
		// Nothing to put in.
		return 0, nil
	}
	rem := amount % minChip
	if rem == 0 {
		return amount, nil
	}
	if rem*2 >= minChip {
		return amount - rem + minChip, nil
	}
	return amount - rem, nil
}
