// Package session sequences traversal requests so that only the result of the
// most recent request on a channel is ever delivered.
package session

import (
	"context"
	"sync"
)

// State of a request channel
type State int

const (
	Idle State = iota
	Traversing
	Settled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Traversing:
		return "traversing"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// Token identifies a request; tokens increase monotonically per Sequencer
type Token uint64

// Sequencer hands out request tokens and tracks the channel state.
// The zero value is Idle and ready to use.
type Sequencer struct {
	mu     sync.Mutex
	latest Token
	state  State
}

// Next issues a token that supersedes every earlier one
func (s *Sequencer) Next() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	s.state = Traversing
	return s.latest
}

// Settle marks the channel settled and runs deliver, only if tok is still
// the newest token. deliver runs under the sequencer lock, so a newer
// request cannot start and settle in between; it must not call Next.
func (s *Sequencer) Settle(tok Token, deliver func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok != s.latest {
		return false
	}
	s.state = Settled
	if deliver != nil {
		deliver()
	}
	return true
}

// State returns the current channel state
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Runner executes work asynchronously with last-write-wins delivery.
// Submitting new work cancels the context of the superseded work; if that
// work still completes, its result is dropped.
type Runner[T any] struct {
	seq     Sequencer
	deliver func(Token, T)

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner returns a Runner that hands the latest result to deliver
func NewRunner[T any](deliver func(Token, T)) *Runner[T] {
	return &Runner[T]{deliver: deliver}
}

// Submit starts work in a new goroutine and returns its token
func (r *Runner[T]) Submit(ctx context.Context, work func(ctx context.Context) T) Token {
	workCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.cancel = cancel
	tok := r.seq.Next()
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()

		result := work(workCtx)
		r.seq.Settle(tok, func() {
			if r.deliver != nil {
				r.deliver(tok, result)
			}
		})
	}()
	return tok
}

// State returns the channel state
func (r *Runner[T]) State() State {
	return r.seq.State()
}

// Wait blocks until every submitted work function has returned
func (r *Runner[T]) Wait() {
	r.wg.Wait()
}
