package provider

import (
	"context"
	"sync"

	"github.com/lox/pokertourney/internal/action"
	"github.com/lox/pokertourney/internal/tournament"
)

// Script replays queued actions per player, then falls back to the
// default move. Handy for reproducing a hand.
type Script struct {
	mu     sync.Mutex
	queues map[int][]action.Action
}

func NewScript() *Script {
	return &Script{queues: make(map[int][]action.Action)}
}

// Queue appends actions for playerID.
func (s *Script) Queue(playerID int, actions ...action.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues[playerID] = append(s.queues[playerID], actions...)
}

func (s *Script) Action(_ context.Context, p tournament.Player, opts action.Options) (action.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queues[p.ID()]
	if len(q) == 0 {
		return opts.Default(), nil
	}
	s.queues[p.ID()] = q[1:]
	return q[0], nil
}
