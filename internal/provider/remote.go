package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokertourney/internal/action"
	"github.com/lox/pokertourney/internal/event"
	"github.com/lox/pokertourney/internal/tournament"
)

var (
	ErrNoPendingRequest = errors.New("no pending action request")
	ErrIllegalAction    = errors.New("action not allowed")
)

// DefaultRemoteTimeout applies when a request carries no timeout.
const DefaultRemoteTimeout = 30 * time.Second

// Request is an action request waiting on a remote player.
type Request struct {
	PlayerID int
	Table    int
	Options  action.Options
}

type pendingRequest struct {
	Request
	answer chan action.Action
}

// Remote parks one request per player until Submit answers it or the
// request times out, in which case the player checks if free, else folds.
type Remote struct {
	clock     quartz.Clock
	logger    *log.Logger
	events    event.Publisher
	grace     int
	onRequest func(Request)

	mu      sync.Mutex
	pending map[int]*pendingRequest
	// missed counts turns each disconnected player has been waited on.
	missed map[int]int
}

// RemoteOption configures a Remote beyond the shared Options.
type RemoteOption func(*Remote)

// WithDisconnectGrace sets how many turns a disconnected player is still
// waited on before being auto-folded immediately.
func WithDisconnectGrace(turns int) RemoteOption {
	return func(r *Remote) { r.grace = turns }
}

// WithRequestHook is called, without locks held, whenever a request is parked.
func WithRequestHook(fn func(Request)) RemoteOption {
	return func(r *Remote) { r.onRequest = fn }
}

func NewRemote(events event.Publisher, opts []Option, remoteOpts ...RemoteOption) *Remote {
	if events == nil {
		events = event.Discard
	}
	s := newSettings(opts)
	r := &Remote{
		clock:   s.clock,
		logger:  s.logger.WithPrefix("remote"),
		events:  events,
		grace:   1,
		pending: make(map[int]*pendingRequest),
		missed:  make(map[int]int),
	}
	for _, opt := range remoteOpts {
		opt(r)
	}
	return r
}

// Action blocks until the player answers, the request times out or ctx
// is done. Only ctx ending is an error.
func (r *Remote) Action(ctx context.Context, p tournament.Player, opts action.Options) (action.Action, error) {
	logger := r.logger.With("player", p.Name())

	req := &pendingRequest{
		Request: Request{PlayerID: p.ID(), Table: tableOf(p), Options: opts},
		answer:  make(chan action.Action, 1),
	}

	r.mu.Lock()
	if missed, gone := r.missed[p.ID()]; gone {
		if missed >= r.grace {
			r.mu.Unlock()
			a := opts.Default()
			logger.Info("Auto-acting for disconnected player", "action", a)
			r.events.Publish(event.NewActionTimeout(req.Table, p.ID(), a))
			return a, nil
		}
		r.missed[p.ID()] = missed + 1
	}
	if _, busy := r.pending[p.ID()]; busy {
		r.mu.Unlock()
		return action.Action{}, fmt.Errorf("player %d already has a pending request", p.ID())
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	timeoutFired := make(chan struct{})
	timer := r.clock.AfterFunc(timeout, func() {
		close(timeoutFired)
	})
	defer timer.Stop()

	r.pending[p.ID()] = req
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		if r.pending[p.ID()] == req {
			delete(r.pending, p.ID())
		}
		r.mu.Unlock()
	}()

	if r.onRequest != nil {
		r.onRequest(req.Request)
	}

	logger.Debug("Waiting for remote action", "timeout", timeout, "toCall", opts.AmountToCall)

	select {
	case a := <-req.answer:
		return a, nil
	case <-timeoutFired:
		a := opts.Default()
		logger.Warn("Action timeout", "action", a)
		r.events.Publish(event.NewActionTimeout(req.Table, p.ID(), a))
		return a, nil
	case <-ctx.Done():
		return action.Action{}, ctx.Err()
	}
}

// Submit answers playerID's pending request. Bet and raise sizes are
// clamped; an action type the options do not allow is rejected.
func (r *Remote) Submit(playerID int, a action.Action) error {
	r.mu.Lock()
	req, ok := r.pending[playerID]
	if ok {
		if !req.Options.Legal(a) {
			r.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrIllegalAction, a)
		}
		delete(r.pending, playerID)
	}
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w for player %d", ErrNoPendingRequest, playerID)
	}

	req.answer <- req.Options.Validate(a)
	return nil
}

// Pending returns the open request for playerID, if any.
func (r *Remote) Pending(playerID int) (Request, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.pending[playerID]
	if !ok {
		return Request{}, false
	}
	return req.Request, true
}

// Disconnect marks playerID as gone. Their current request, if any, runs
// to its timeout.
func (r *Remote) Disconnect(playerID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, gone := r.missed[playerID]; !gone {
		r.missed[playerID] = 0
	}
	r.logger.Info("Player disconnected", "playerID", playerID)
}

func (r *Remote) Reconnect(playerID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.missed, playerID)
	r.logger.Info("Player reconnected", "playerID", playerID)
}

func (r *Remote) IsConnected(playerID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, gone := r.missed[playerID]
	return !gone
}
