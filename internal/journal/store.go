package journal

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/okhara/lichess-gatekeeper/internal/domain"
)

const (
	ttlVerdict  = 7 * 24 * time.Hour
	recentLimit = 200
)

// Verdict is one admission decision, journaled for operations.
type Verdict struct {
	ID          string    `json:"id"`
	ChallengeID string    `json:"challenge_id"`
	Challenger  string    `json:"challenger"`
	Accepted    bool      `json:"accepted"`
	Reason      string    `json:"reason,omitempty"`
	Score       int       `json:"score"`
	DecidedAt   time.Time `json:"decided_at"`
}

// NewVerdict captures the outcome of one Evaluate call.
func NewVerdict(ch domain.Challenge, accepted bool, reason domain.DeclineReason) *Verdict {
	return &Verdict{
		ID:          uuid.NewString(),
		ChallengeID: ch.ID,
		Challenger:  ch.Challenger.Name,
		Accepted:    accepted,
		Reason:      string(reason),
		Score:       ch.Score(),
		DecidedAt:   time.Now(),
	}
}

// Store keeps recent verdicts in redis: one TTL'd JSON value per
// challenge plus a capped recency index.
type Store struct {
	rdb *redis.Client
}

func NewStore(redisURL string) (*Store, error) {
	opt, err := redis.ParseURL(strings.TrimSpace(redisURL))
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Store{rdb: rdb}, nil
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func (s *Store) keyVerdict(challengeID string) string { return "verdict:" + strings.TrimSpace(challengeID) }
func (s *Store) keyRecent() string                    { return "verdict:recent" }

// Record journals one verdict and pushes it onto the recency index.
func (s *Store) Record(ctx context.Context, v *Verdict) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.keyVerdict(v.ChallengeID), raw, ttlVerdict).Err(); err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, s.keyRecent(), v.ChallengeID)
	pipe.LTrim(ctx, s.keyRecent(), 0, recentLimit-1)
	pipe.Expire(ctx, s.keyRecent(), ttlVerdict)
	_, err = pipe.Exec(ctx)
	return err
}

// Load returns the verdict for a challenge, nil when none is stored.
func (s *Store) Load(ctx context.Context, challengeID string) (*Verdict, error) {
	raw, err := s.rdb.Get(ctx, s.keyVerdict(challengeID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var v Verdict
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Recent lists up to limit of the latest verdicts, newest first.
// Entries whose value already expired are skipped.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Verdict, error) {
	if limit <= 0 || limit > recentLimit {
		limit = recentLimit
	}
	ids, err := s.rdb.LRange(ctx, s.keyRecent(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*Verdict, 0, len(ids))
	for _, id := range ids {
		v, err := s.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
