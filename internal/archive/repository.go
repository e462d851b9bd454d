package archive

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/okhara/lichess-gatekeeper/internal/domain"
)

// Repository archives finished games in postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("database url is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// EnsureSchema creates the archive table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS gatekeeper_games (
		game_id       TEXT PRIMARY KEY,
		username      TEXT NOT NULL,
		variant       TEXT NOT NULL,
		speed         TEXT,
		perf          TEXT,
		mode          TEXT NOT NULL,
		clock_initial_ms   BIGINT NOT NULL,
		clock_increment_ms BIGINT NOT NULL,
		termination   TEXT,
		winner        TEXT,
		ended_at      TIMESTAMPTZ NOT NULL
	)`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// SaveGame upserts a finished game with its termination cause.
func (r *Repository) SaveGame(ctx context.Context, g *domain.Game, termination domain.Termination, winner string) error {
	if r == nil || r.db == nil || g == nil {
		return nil
	}
	const q = `INSERT INTO gatekeeper_games (
		game_id, username, variant, speed, perf, mode,
		clock_initial_ms, clock_increment_ms, termination, winner, ended_at
	  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	  ON CONFLICT (game_id) DO UPDATE SET
		termination=EXCLUDED.termination,
		winner=EXCLUDED.winner,
		ended_at=EXCLUDED.ended_at`
	_, err := r.db.ExecContext(ctx, q,
		g.ID, g.Username, g.VariantName, g.Speed, g.PerfName, g.Mode,
		g.ClockInitialMs, g.ClockIncrementMs,
		string(termination), strings.TrimSpace(winner), time.Now(),
	)
	return err
}
