// Package queue bounds the number of concurrent downloads and tracks the
// position of every download request in a FIFO queue.
package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// DefaultLimit is used when New is given a limit below one.
const DefaultLimit = 3

// ErrReleased is returned by Acquire for a ticket that was already released.
var ErrReleased = errors.New("ticket already released")

// Ticket is one download request in the queue. Two requests for the same
// track get two tickets.
type Ticket struct {
	ID      uuid.UUID
	TrackID string
	// Position is the 1-based place in the queue when the ticket was enqueued.
	Position int

	acquired bool
	released bool
}

// Running reports whether the ticket was admitted straight away.
func (t *Ticket) Running(limit int) bool {
	return t.Position <= limit
}

// WaitingPosition is the place among waiting requests, 0 when running.
func (t *Ticket) WaitingPosition(limit int) int {
	if t.Running(limit) {
		return 0
	}
	return t.Position - limit
}

// Snapshot is the queue state at one moment.
type Snapshot struct {
	Limit   int `json:"limit"`
	Queued  int `json:"queued"`
	Running int `json:"running"`
	Waiting int `json:"waiting"`
	Active  int `json:"active"`
}

// Admission is the download admission controller.
type Admission struct {
	limit int
	sem   *semaphore.Weighted

	mu        sync.Mutex
	tickets   []*Ticket
	active    int
	listeners []chan Snapshot
}

// New creates an Admission allowing limit concurrent downloads.
func New(limit int) *Admission {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Admission{
		limit: limit,
		sem:   semaphore.NewWeighted(int64(limit)),
	}
}

// Limit returns the number of download slots.
func (a *Admission) Limit() int { return a.limit }

// Enqueue appends a ticket for trackID to the queue.
func (a *Admission) Enqueue(trackID string) *Ticket {
	a.mu.Lock()
	defer a.mu.Unlock()

	t := &Ticket{ID: uuid.New(), TrackID: trackID}
	a.tickets = append(a.tickets, t)
	t.Position = len(a.tickets)
	a.notifyListeners()
	return t
}

// Acquire blocks until one of the download slots is free. Waiters are served
// in the order they called Acquire. It fails only if ctx is done first; the
// ticket stays queued until Release either way.
func (a *Admission) Acquire(ctx context.Context, t *Ticket) error {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if t.released || t.acquired {
		a.sem.Release(1)
		if t.released {
			return ErrReleased
		}
		return nil
	}
	t.acquired = true
	a.active++
	a.notifyListeners()
	return nil
}

// Release removes the ticket from the queue and frees its slot if it holds
// one. Only the first call for a ticket has any effect.
func (a *Admission) Release(t *Ticket) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if t.released {
		return
	}
	t.released = true

	for i, q := range a.tickets {
		if q == t {
			a.tickets = append(a.tickets[:i], a.tickets[i+1:]...)
			break
		}
	}
	if t.acquired {
		t.acquired = false
		a.active--
		a.sem.Release(1)
	}
	a.notifyListeners()
}

// Snapshot returns the current queue state.
func (a *Admission) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

func (a *Admission) snapshot() Snapshot {
	queued := len(a.tickets)
	return Snapshot{
		Limit:   a.limit,
		Queued:  queued,
		Running: min(queued, a.limit),
		Waiting: max(0, queued-a.limit),
		Active:  a.active,
	}
}

// Subscribe returns a channel receiving a Snapshot after every change.
// Slow subscribers miss updates rather than block the queue.
func (a *Admission) Subscribe() <-chan Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	ch := make(chan Snapshot, 10)
	a.listeners = append(a.listeners, ch)
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe.
func (a *Admission) Unsubscribe(ch <-chan Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, listener := range a.listeners {
		if listener == ch {
			a.listeners = append(a.listeners[:i], a.listeners[i+1:]...)
			close(listener)
			break
		}
	}
}

// notifyListeners must be called with mu held.
func (a *Admission) notifyListeners() {
	if len(a.listeners) == 0 {
		return
	}
	s := a.snapshot()
	for _, ch := range a.listeners {
		select {
		case ch <- s:
		default:
		}
	}
}
