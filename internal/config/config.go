package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/okhara/lichess-gatekeeper/internal/domain"
)

type AppConfig struct {
	Token      string `yaml:"token"`
	APIBaseURL string `yaml:"api_base_url"`

	MaxConcurrentGames int `yaml:"max_concurrent_games"`
	AcceptIntervalSec  int `yaml:"accept_interval_sec"`

	RedisURL    string `yaml:"redis_url"`
	DatabaseURL string `yaml:"database_url"`

	MessageOverrideDir string `yaml:"message_override_dir"`

	Challenge domain.Policy `yaml:"challenge"`
}

// Load reads the YAML config at path (optional), applies environment
// overrides, then validates. Defaults are set before either source so
// a minimal file with just a token is usable.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{
		APIBaseURL:         "https://lichess.org",
		MaxConcurrentGames: 1,
		AcceptIntervalSec:  2,
		Challenge:          defaultPolicy(),
	}

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("GATEKEEPER_TOKEN")); v != "" {
		cfg.Token = v
	}
	if v := strings.TrimSpace(os.Getenv("LICHESS_API_URL")); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("MAX_CONCURRENT_GAMES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxConcurrentGames = n
		}
	}

	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")

	if cfg.Token == "" {
		return nil, errors.New("token is required (config file or GATEKEEPER_TOKEN)")
	}
	if len(cfg.Challenge.Variants) == 0 {
		return nil, errors.New("challenge.variants must not be empty")
	}
	if len(cfg.Challenge.TimeControls) == 0 {
		return nil, errors.New("challenge.time_controls must not be empty")
	}
	if len(cfg.Challenge.Modes) == 0 {
		return nil, errors.New("challenge.modes must not be empty")
	}
	if cfg.Challenge.RecentChallengeWindowSec <= 0 {
		return nil, errors.New("challenge.recent_challenge_window_sec must be positive")
	}

	return cfg, nil
}

func defaultPolicy() domain.Policy {
	maxIncrement := 180
	return domain.Policy{
		Variants:     []string{"standard"},
		TimeControls: []string{"bullet", "blitz", "rapid", "classical"},
		MinIncrement: 0,
		MaxIncrement: &maxIncrement,
		MinBase:      0,
		MinDays:      1,
		AcceptBot:    false,
		OnlyBot:      false,
		Modes:        []string{"casual", "rated"},

		RecentChallengeWindowSec: 3600,
	}
}
