package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "token: abc\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://lichess.org" {
		t.Fatalf("default base url: %q", cfg.APIBaseURL)
	}
	if cfg.MaxConcurrentGames != 1 {
		t.Fatalf("default max concurrent games: %d", cfg.MaxConcurrentGames)
	}
	if len(cfg.Challenge.Variants) == 0 || cfg.Challenge.Variants[0] != "standard" {
		t.Fatalf("default variants: %v", cfg.Challenge.Variants)
	}
	if cfg.Challenge.MaxIncrement == nil || *cfg.Challenge.MaxIncrement != 180 {
		t.Fatalf("default max increment: %v", cfg.Challenge.MaxIncrement)
	}
	if cfg.Challenge.MaxDays != nil {
		t.Fatalf("max days must default to unbounded")
	}
	if cfg.Challenge.RecentWindow().Seconds() != 3600 {
		t.Fatalf("default recent window: %v", cfg.Challenge.RecentWindow())
	}
}

func TestLoadFileValues(t *testing.T) {
	path := writeConfig(t, `
token: abc
api_base_url: "https://example.test/"
max_concurrent_games: 4
challenge:
  variants: [standard, chess960]
  time_controls: [blitz]
  modes: [rated]
  accept_bot: true
  max_recent_bot_challenges: 3
  recent_challenge_window_sec: 60
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://example.test" {
		t.Fatalf("base url must be trimmed of the trailing slash: %q", cfg.APIBaseURL)
	}
	if cfg.MaxConcurrentGames != 4 {
		t.Fatalf("max concurrent games: %d", cfg.MaxConcurrentGames)
	}
	if !cfg.Challenge.AcceptBot {
		t.Fatalf("accept_bot not read")
	}
	if cfg.Challenge.MaxRecentBotChallenges == nil || *cfg.Challenge.MaxRecentBotChallenges != 3 {
		t.Fatalf("max_recent_bot_challenges: %v", cfg.Challenge.MaxRecentBotChallenges)
	}
	if len(cfg.Challenge.Variants) != 2 {
		t.Fatalf("variants: %v", cfg.Challenge.Variants)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "token: from-file\n")
	t.Setenv("GATEKEEPER_TOKEN", "from-env")
	t.Setenv("MAX_CONCURRENT_GAMES", "8")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "from-env" {
		t.Fatalf("env token must win, got %q", cfg.Token)
	}
	if cfg.MaxConcurrentGames != 8 {
		t.Fatalf("env max concurrent games: %d", cfg.MaxConcurrentGames)
	}
	if cfg.RedisURL == "" {
		t.Fatalf("env redis url not applied")
	}
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("GATEKEEPER_TOKEN", "")
	if _, err := Load(""); err == nil {
		t.Fatalf("missing token must fail")
	}

	path := writeConfig(t, `
token: abc
challenge:
  variants: []
  time_controls: [blitz]
  modes: [rated]
  recent_challenge_window_sec: 60
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("empty variants must fail")
	}
}
