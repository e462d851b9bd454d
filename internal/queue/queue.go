package queue

import (
	"errors"
	"sync"

	"github.com/okhara/lichess-gatekeeper/internal/domain"
)

var ErrAlreadyPending = errors.New("challenge already pending")

// Queue holds challenges that passed admission and are waiting for a
// free game slot. Arrival order is preserved so equal scores resolve
// first-in-first-out.
type Queue struct {
	mu      sync.RWMutex
	pending []domain.Challenge
}

func New() *Queue {
	return &Queue{}
}

// Add enqueues a challenge; duplicates by id are rejected.
func (q *Queue) Add(ch domain.Challenge) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, p := range q.pending {
		if p.ID == ch.ID {
			return ErrAlreadyPending
		}
	}
	q.pending = append(q.pending, ch)
	return nil
}

// Remove drops the challenge with the given id (canceled or declined
// upstream). Reports whether it was present.
func (q *Queue) Remove(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, p := range q.pending {
		if p.ID == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return true
		}
	}
	return false
}

// PickBest removes and returns the pending challenge with the highest
// score. Ties go to the earliest-enqueued challenge: the scan replaces
// the candidate only on a strictly greater score.
func (q *Queue) PickBest() (domain.Challenge, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return domain.Challenge{}, false
	}
	best := 0
	for i := 1; i < len(q.pending); i++ {
		if q.pending[i].Score() > q.pending[best].Score() {
			best = i
		}
	}
	ch := q.pending[best]
	q.pending = append(q.pending[:best], q.pending[best+1:]...)
	return ch, true
}

func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.pending)
}
