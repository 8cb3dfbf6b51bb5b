package provider

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertourney/internal/action"
	"github.com/lox/pokertourney/internal/deck"
	"github.com/lox/pokertourney/internal/event"
)

type stubPlayer struct {
	id       int
	computer bool
	strategy string
	hole     []deck.Card
	table    int
}

func (p *stubPlayer) ID() int                    { return p.id }
func (p *stubPlayer) Name() string               { return "p" }
func (p *stubPlayer) Seat() int                  { return 0 }
func (p *stubPlayer) ChipCount() int             { return 1000 }
func (p *stubPlayer) ChipCountAtStart() int      { return 1000 }
func (p *stubPlayer) IsFolded() bool             { return false }
func (p *stubPlayer) IsAllIn() bool              { return false }
func (p *stubPlayer) IsSittingOut() bool         { return false }
func (p *stubPlayer) IsEliminated() bool         { return false }
func (p *stubPlayer) IsObserver() bool           { return false }
func (p *stubPlayer) IsHuman() bool              { return !p.computer }
func (p *stubPlayer) IsComputer() bool           { return p.computer }
func (p *stubPlayer) IsHumanControlled() bool    { return !p.computer }
func (p *stubPlayer) IsLocallyControlled() bool  { return true }
func (p *stubPlayer) AskShowWinning() bool       { return false }
func (p *stubPlayer) AskShowLosing() bool        { return false }
func (p *stubPlayer) ThinkBank() time.Duration   { return 0 }
func (p *stubPlayer) SetTimeout(time.Duration)   {}
func (p *stubPlayer) Strategy() string           { return p.strategy }
func (p *stubPlayer) HoleCards() []deck.Card     { return p.hole }
func (p *stubPlayer) TableNumber() int           { return p.table }

func quiet() []Option {
	return []Option{WithLogger(log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}))}
}

var facingBet = action.Options{
	CanFold:      true,
	CanCall:      true,
	CanRaise:     true,
	AmountToCall: 50,
	MinRaise:     100,
	MaxRaise:     900,
	Timeout:      10 * time.Second,
}

var checkedTo = action.Options{
	CanFold:  true,
	CanCheck: true,
	CanBet:   true,
	MinBet:   20,
	MaxBet:   1000,
	Timeout:  10 * time.Second,
}

type answer struct {
	a   action.Action
	err error
}

func ask(ctx context.Context, r *Remote, p *stubPlayer, opts action.Options) <-chan answer {
	out := make(chan answer, 1)
	go func() {
		a, err := r.Action(ctx, p, opts)
		out <- answer{a, err}
	}()
	return out
}

func waitPending(t *testing.T, r *Remote, playerID int) Request {
	t.Helper()
	var req Request
	require.Eventually(t, func() bool {
		var ok bool
		req, ok = r.Pending(playerID)
		return ok
	}, time.Second, time.Millisecond)
	return req
}

func TestRemoteSubmit(t *testing.T) {
	t.Parallel()

	var hooked []Request
	r := NewRemote(nil, append(quiet(), WithClock(quartz.NewMock(t))), WithRequestHook(func(req Request) {
		hooked = append(hooked, req)
	}))
	p := &stubPlayer{id: 3, table: 2}
	got := ask(context.Background(), r, p, facingBet)

	req := waitPending(t, r, 3)
	assert.Equal(t, 2, req.Table)
	assert.Equal(t, facingBet, req.Options)

	require.ErrorIs(t, r.Submit(3, action.CheckAction()), ErrIllegalAction)
	require.NoError(t, r.Submit(3, action.RaiseAction(5000)))

	res := <-got
	require.NoError(t, res.err)
	assert.Equal(t, action.RaiseAction(900), res.a)
	require.Len(t, hooked, 1)

	_, pending := r.Pending(3)
	assert.False(t, pending)
	require.ErrorIs(t, r.Submit(3, action.CallAction()), ErrNoPendingRequest)
}

func TestRemoteTimeout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mClock := quartz.NewMock(t)
	rec := &event.Recorder{}
	r := NewRemote(rec, append(quiet(), WithClock(mClock)))

	got := ask(ctx, r, &stubPlayer{id: 1, table: 4}, checkedTo)
	waitPending(t, r, 1)
	mClock.Advance(10 * time.Second).MustWait(ctx)

	res := <-got
	require.NoError(t, res.err)
	assert.Equal(t, action.CheckAction(), res.a)

	timeouts := event.Filter[event.ActionTimeout](rec.Events())
	require.Len(t, timeouts, 1)
	assert.Equal(t, 4, timeouts[0].Table())

	got = ask(ctx, r, &stubPlayer{id: 1}, facingBet)
	waitPending(t, r, 1)
	mClock.Advance(10 * time.Second).MustWait(ctx)
	res = <-got
	assert.Equal(t, action.FoldAction(), res.a)
}

func TestRemoteCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	r := NewRemote(nil, append(quiet(), WithClock(quartz.NewMock(t))))

	got := ask(ctx, r, &stubPlayer{id: 1}, checkedTo)
	waitPending(t, r, 1)
	cancel()

	res := <-got
	require.ErrorIs(t, res.err, context.Canceled)
	_, pending := r.Pending(1)
	assert.False(t, pending)
}

func TestRemoteDisconnectGrace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mClock := quartz.NewMock(t)
	r := NewRemote(nil, append(quiet(), WithClock(mClock)), WithDisconnectGrace(1))
	p := &stubPlayer{id: 8}

	r.Disconnect(8)
	assert.False(t, r.IsConnected(8))

	got := ask(ctx, r, p, facingBet)
	waitPending(t, r, 8)
	mClock.Advance(10 * time.Second).MustWait(ctx)
	assert.Equal(t, action.FoldAction(), (<-got).a)

	a, err := r.Action(ctx, p, checkedTo)
	require.NoError(t, err)
	assert.Equal(t, action.CheckAction(), a, "grace used up, answered at once")

	r.Reconnect(8)
	assert.True(t, r.IsConnected(8))
	got = ask(ctx, r, p, checkedTo)
	waitPending(t, r, 8)
	require.NoError(t, r.Submit(8, action.BetAction(40)))
	assert.Equal(t, action.BetAction(40), (<-got).a)
}

func TestAIStrategies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ai := NewAI(1, quiet())

	tests := []struct {
		name string
		p    *stubPlayer
		opts action.Options
		want action.Action
	}{
		{"call checks", &stubPlayer{computer: true, strategy: "call"}, checkedTo, action.CheckAction()},
		{"call calls", &stubPlayer{computer: true, strategy: "call"}, facingBet, action.CallAction()},
		{"default strategy is call", &stubPlayer{computer: true}, facingBet, action.CallAction()},
		{"tight raises aces", &stubPlayer{computer: true, strategy: "tight", hole: deck.MustParseCards("AsAh")}, facingBet, action.RaiseAction(100)},
		{"tight folds trash", &stubPlayer{computer: true, strategy: "tight", hole: deck.MustParseCards("7s2h")}, facingBet, action.FoldAction()},
		{"tight checks trash", &stubPlayer{computer: true, strategy: "tight", hole: deck.MustParseCards("7s2h")}, checkedTo, action.CheckAction()},
		{"tight calls medium", &stubPlayer{computer: true, strategy: "tight", hole: deck.MustParseCards("5s5h")}, facingBet, action.CallAction()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ai.Action(ctx, tt.p, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAIRandomAndAggressiveStayLegal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ai := NewAI(42, quiet())
	for _, strategy := range []string{"random", "aggressive"} {
		p := &stubPlayer{computer: true, strategy: strategy}
		for range 200 {
			for _, opts := range []action.Options{facingBet, checkedTo} {
				got, err := ai.Action(ctx, p, opts)
				require.NoError(t, err)
				require.True(t, opts.Legal(got), "%s chose %s", strategy, got)
				assert.Equal(t, got, opts.Validate(got), "%s sized %s out of range", strategy, got)
			}
		}
	}
}

func TestAIRandomSizesInWholeChips(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ai := NewAI(3, quiet())
	p := &stubPlayer{computer: true, strategy: "random"}

	opts := checkedTo
	opts.MinChip = 25
	opts.MinBet = 50
	opts.MaxBet = 1490
	bets := 0
	for range 300 {
		got, err := ai.Action(ctx, p, opts)
		require.NoError(t, err)
		if got.Type != action.Bet {
			continue
		}
		bets++
		assert.Zero(t, got.Amount%25, "bet %d", got.Amount)
		assert.GreaterOrEqual(t, got.Amount, opts.MinBet)
		assert.LessOrEqual(t, got.Amount, opts.MaxBet)
	}
	assert.NotZero(t, bets)
}

func TestAIIsReproducible(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := &stubPlayer{computer: true, strategy: "random"}
	a, b := NewAI(9, quiet()), NewAI(9, quiet())
	for range 50 {
		x, _ := a.Action(ctx, p, facingBet)
		y, _ := b.Action(ctx, p, facingBet)
		require.Equal(t, x, y)
	}
}

func TestAIThinkTimeHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ai := NewAI(1, append(quiet(), WithClock(quartz.NewMock(t))), WithThinkTime(2*time.Second))

	_, err := ai.Action(ctx, &stubPlayer{computer: true}, checkedTo)
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseStrategy(t *testing.T) {
	t.Parallel()

	s, err := ParseStrategy("aggressive")
	require.NoError(t, err)
	assert.Equal(t, StrategyAggressive, s)

	_, err = ParseStrategy("maniac")
	require.Error(t, err)
}

func TestRouterAndScript(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	humans := NewScript()
	humans.Queue(1, action.CallAction(), action.FoldAction())
	r := Router{AI: NewAI(1, quiet()), Humans: humans}

	human := &stubPlayer{id: 1}
	bot := &stubPlayer{id: 2, computer: true}

	got, err := r.Action(ctx, human, facingBet)
	require.NoError(t, err)
	assert.Equal(t, action.CallAction(), got)
	got, _ = r.Action(ctx, human, facingBet)
	assert.Equal(t, action.FoldAction(), got)
	got, _ = r.Action(ctx, human, checkedTo)
	assert.Equal(t, action.CheckAction(), got, "empty script takes the default")

	got, _ = r.Action(ctx, bot, checkedTo)
	assert.Equal(t, action.CheckAction(), got)
}
