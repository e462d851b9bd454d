package domain

import (
	"errors"

	"github.com/okhara/lichess-gatekeeper/pkg/lichessdto"
)

var (
	ErrMissingGameID  = errors.New("game record has no id")
	ErrMissingVariant = errors.New("game record has no variant name")
)

// noClockInitialMs marks games without a real clock (unlimited or
// correspondence): ten years in milliseconds.
const noClockInitialMs = 1000 * 3600 * 24 * 365 * 10

// Game is a read-mostly snapshot of an active or finished contest.
type Game struct {
	Username         string
	ID               string
	Speed            string
	ClockInitialMs   int
	ClockIncrementMs int
	PerfName         string
	VariantName      string
	Mode             string
}

// NewGame builds a Game from a raw game-start record. The id and
// variant name are required; everything else defaults.
func NewGame(info *lichessdto.GameRef, username string) (*Game, error) {
	if info == nil || info.ID == "" {
		return nil, ErrMissingGameID
	}
	if info.Variant.Name == "" {
		return nil, ErrMissingVariant
	}
	g := &Game{
		Username:       username,
		ID:             info.ID,
		Speed:          info.Speed,
		ClockInitialMs: noClockInitialMs,
		PerfName:       "{perf?}",
		VariantName:    info.Variant.Name,
		Mode:           "casual",
	}
	if clock := info.Clock; clock != nil {
		if clock.Initial != nil {
			g.ClockInitialMs = *clock.Initial
		}
		if clock.Increment != nil {
			g.ClockIncrementMs = *clock.Increment
		}
	}
	if info.Perf != nil && info.Perf.Name != "" {
		g.PerfName = info.Perf.Name
	}
	if info.Rated {
		g.Mode = "rated"
	}
	return g, nil
}
