package tournament

import (
	"fmt"
	"strings"

	"github.com/lox/pokertourney/internal/state"
)

// Phase names a side effect the caller runs before the table moves on.
type Phase string

const (
	PhaseNone              Phase = ""
	PhaseDealDisplayHigh   Phase = "TD.DealDisplayHigh"
	PhaseWaitForDeal       Phase = "TD.WaitForDeal"
	PhaseCheckEndHand      Phase = "TD.CheckEndHand"
	PhaseDisplayTableMoves Phase = "TD.DisplayTableMoves"
	PhaseNewLevelActions   Phase = "TD.NewLevelActions"
	PhaseColorUp           Phase = "TD.ColorUp"
	PhaseDealDisplayHand   Phase = "TD.DealDisplayHand"
	PhaseDealCommunity     Phase = "TD.DealCommunity"
	PhasePreShowdown       Phase = "TD.PreShowdown"
	PhaseShowdown          Phase = "TD.Showdown"
)

// ParamWinners lists the IDs of winners asked whether to show their cards.
const ParamWinners = "winners"

// Result is what one engine step asks the caller to do. Zero fields mean
// "no change"; treat it as an immutable value.
type Result struct {
	NextState    state.TableState
	PendingState state.TableState
	Phase        Phase
	Params       map[string]any

	Save               bool
	AutoSave           bool
	Sleep              bool
	RunOnClient        bool
	AddAllHumans       bool
	OnlySendToWaitList bool
}

// HasNextState reports whether the caller must change the table state.
func (r Result) HasNextState() bool { return r.NextState.IsSet() }

func (r Result) HasPendingState() bool { return r.PendingState.IsSet() }

func (r Result) HasPhase() bool { return r.Phase != PhaseNone }

// Winners returns the ParamWinners parameter, if any.
func (r Result) Winners() []int {
	ids, _ := r.Params[ParamWinners].([]int)
	return ids
}

func (r Result) String() string {
	var b strings.Builder
	b.WriteString("result{")
	if r.HasNextState() {
		fmt.Fprintf(&b, "next=%s ", r.NextState)
	}
	if r.HasPendingState() {
		fmt.Fprintf(&b, "pending=%s ", r.PendingState)
	}
	if r.HasPhase() {
		fmt.Fprintf(&b, "phase=%s ", r.Phase)
	}
	fmt.Fprintf(&b, "sleep=%t save=%t autoSave=%t}", r.Sleep, r.Save, r.AutoSave)
	return b.String()
}

// ResultBuilder assembles a Result. Sleep and AddAllHumans default to true.
type ResultBuilder struct {
	r Result
}

func NewResult() *ResultBuilder {
	return &ResultBuilder{r: Result{Sleep: true, AddAllHumans: true}}
}

func (b *ResultBuilder) Next(s state.TableState) *ResultBuilder {
	b.r.NextState = s
	return b
}

func (b *ResultBuilder) Pending(s state.TableState) *ResultBuilder {
	b.r.PendingState = s
	return b
}

func (b *ResultBuilder) Phase(p Phase) *ResultBuilder {
	b.r.Phase = p
	return b
}

func (b *ResultBuilder) Param(key string, value any) *ResultBuilder {
	if b.r.Params == nil {
		b.r.Params = make(map[string]any)
	}
	b.r.Params[key] = value
	return b
}

func (b *ResultBuilder) Save(v bool) *ResultBuilder {
	b.r.Save = v
	return b
}

func (b *ResultBuilder) AutoSave(v bool) *ResultBuilder {
	b.r.AutoSave = v
	return b
}

func (b *ResultBuilder) Sleep(v bool) *ResultBuilder {
	b.r.Sleep = v
	return b
}

func (b *ResultBuilder) RunOnClient(v bool) *ResultBuilder {
	b.r.RunOnClient = v
	return b
}

func (b *ResultBuilder) AddAllHumans(v bool) *ResultBuilder {
	b.r.AddAllHumans = v
	return b
}

func (b *ResultBuilder) OnlySendToWaitList(v bool) *ResultBuilder {
	b.r.OnlySendToWaitList = v
	return b
}

// Build returns the finished Result. The builder may not be reused.
func (b *ResultBuilder) Build() Result {
	r := b.r
	if r.Params != nil {
		params := make(map[string]any, len(r.Params))
		for k, v := range r.Params {
			params[k] = v
		}
		r.Params = params
	}
	return r
}
