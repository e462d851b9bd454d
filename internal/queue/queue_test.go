package queue

import (
	"testing"

	"github.com/okhara/lichess-gatekeeper/internal/domain"
	"github.com/okhara/lichess-gatekeeper/pkg/lichessdto"
)

func intp(n int) *int { return &n }

func challenge(id, name string, rating int, rated bool) domain.Challenge {
	return domain.NewChallenge(&lichessdto.Challenge{
		ID:         id,
		Rated:      rated,
		Challenger: &lichessdto.PlayerInfo{Name: name, Rating: intp(rating)},
	}, "gatekeeper")
}

func TestPickBestByScore(t *testing.T) {
	q := New()
	mustAdd(t, q, challenge("a", "alice", 1500, false))
	mustAdd(t, q, challenge("b", "bob", 2100, false))
	mustAdd(t, q, challenge("c", "cid", 1800, false))

	got, ok := q.PickBest()
	if !ok || got.ID != "b" {
		t.Fatalf("PickBest = (%q, %v), want highest-rated b", got.ID, ok)
	}
	if q.Len() != 2 {
		t.Fatalf("picked challenge must leave the queue, len=%d", q.Len())
	}
}

func TestPickBestTiesAreFIFO(t *testing.T) {
	q := New()
	mustAdd(t, q, challenge("first", "alice", 1800, false))
	mustAdd(t, q, challenge("second", "bob", 1800, false))

	got, ok := q.PickBest()
	if !ok || got.ID != "first" {
		t.Fatalf("equal scores must resolve to the earliest enqueued, got %q", got.ID)
	}
}

func TestPickBestRatedBonusWins(t *testing.T) {
	q := New()
	mustAdd(t, q, challenge("casual", "alice", 1900, false))
	mustAdd(t, q, challenge("rated", "bob", 1800, true)) // 1800+200

	got, _ := q.PickBest()
	if got.ID != "rated" {
		t.Fatalf("rated bonus must outrank the higher casual rating, got %q", got.ID)
	}
}

func TestAddRejectsDuplicates(t *testing.T) {
	q := New()
	mustAdd(t, q, challenge("a", "alice", 1500, false))
	if err := q.Add(challenge("a", "alice", 1500, false)); err != ErrAlreadyPending {
		t.Fatalf("duplicate Add: err = %v, want ErrAlreadyPending", err)
	}
}

func TestRemove(t *testing.T) {
	q := New()
	mustAdd(t, q, challenge("a", "alice", 1500, false))
	if !q.Remove("a") {
		t.Fatalf("Remove must report a present challenge")
	}
	if q.Remove("a") {
		t.Fatalf("Remove must report an absent challenge")
	}
	if _, ok := q.PickBest(); ok {
		t.Fatalf("queue must be empty after removal")
	}
}

func mustAdd(t *testing.T, q *Queue, ch domain.Challenge) {
	t.Helper()
	if err := q.Add(ch); err != nil {
		t.Fatalf("Add(%s): %v", ch.ID, err)
	}
}
