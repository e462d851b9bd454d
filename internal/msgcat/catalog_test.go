package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okhara/lichess-gatekeeper/internal/domain"
	"github.com/okhara/lichess-gatekeeper/pkg/lichessdto"
)

func intp(n int) *int { return &n }

func testChallenge() domain.Challenge {
	return domain.NewChallenge(&lichessdto.Challenge{
		ID:         "abc123",
		Rated:      true,
		Perf:       lichessdto.Perf{Name: "Blitz"},
		Challenger: &lichessdto.PlayerInfo{Name: "carol", Rating: intp(1800)},
	}, "gatekeeper")
}

func TestEmbeddedCatalogCoversAllDeclineReasons(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	reasons := []domain.DeclineReason{
		domain.ReasonNoBot, domain.ReasonOnlyBot, domain.ReasonTimeControl,
		domain.ReasonVariant, domain.ReasonCasual, domain.ReasonRated,
		domain.ReasonGeneric, domain.ReasonLater,
	}
	for _, r := range reasons {
		if _, err := c.Render("decline."+string(r), map[string]any{"Challenge": "x"}); err != nil {
			t.Fatalf("missing embedded message for reason %q: %v", r, err)
		}
	}
}

func TestDeclineText(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	msg := c.DeclineText(testChallenge(), domain.ReasonLater)
	if !strings.Contains(msg, "abc123") || !strings.Contains(msg, "later") {
		t.Fatalf("decline text must mention the challenge and the cause: %q", msg)
	}
}

func TestDeclineTextFallback(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	msg := c.DeclineText(testChallenge(), domain.DeclineReason("bogus"))
	if !strings.Contains(msg, "abc123") {
		t.Fatalf("fallback text must still identify the challenge: %q", msg)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	override := "decline:\n  later: \"custom later for {{.Challenge}}\"\n"
	if err := os.WriteFile(filepath.Join(dir, "10-custom.yaml"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	msg, err := c.Render("decline.later", map[string]any{"Challenge": "abc123"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if msg != "custom later for abc123" {
		t.Fatalf("override not applied: %q", msg)
	}
	// Untouched keys keep their embedded defaults.
	if _, err := c.Render("decline.variant", map[string]any{"Challenge": "x"}); err != nil {
		t.Fatalf("embedded default lost after override: %v", err)
	}
}
