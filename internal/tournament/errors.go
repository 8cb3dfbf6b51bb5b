package tournament

import (
	"errors"
	"fmt"

	"github.com/lox/pokertourney/internal/rules"
	"github.com/lox/pokertourney/internal/state"
)

var (
	// ErrInvariant is wrapped by every InvariantError.
	ErrInvariant = rules.ErrInvariant

	// ErrCancelled is returned when a provider answer arrives after its
	// table was cancelled or moved out of BETTING. The answer is dropped.
	ErrCancelled = errors.New("table step cancelled")
)

// InvariantError is fatal for the table it names.
type InvariantError struct {
	Table int
	State state.TableState
	Err   error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("table %d in %s: %v", e.Table, e.State, e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }

func invariant(t Table, format string, args ...any) error {
	return &InvariantError{
		Table: t.Number(),
		State: t.State(),
		Err:   fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...),
	}
}
