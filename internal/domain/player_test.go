package domain

import (
	"testing"

	"github.com/okhara/lichess-gatekeeper/pkg/lichessdto"
)

func intp(n int) *int { return &n }

func TestNewPlayerDerivesBotFlag(t *testing.T) {
	p := NewPlayer(&lichessdto.PlayerInfo{Name: "stocky", Title: "BOT"})
	if !p.IsBot {
		t.Fatalf("expected BOT title to mark the player as bot")
	}
	p = NewPlayer(&lichessdto.PlayerInfo{Name: "carol", Title: "GM"})
	if p.IsBot {
		t.Fatalf("GM title must not mark the player as bot")
	}
}

func TestNewPlayerNilRecord(t *testing.T) {
	p := NewPlayer(nil)
	if p.Name != "" || p.IsBot || p.Rating != nil {
		t.Fatalf("nil record should yield an empty profile, got %+v", p)
	}
}

func TestPlayerString(t *testing.T) {
	cases := []struct {
		name string
		in   lichessdto.PlayerInfo
		want string
	}{
		{"ai level wins over rating", lichessdto.PlayerInfo{Name: "x", Rating: intp(2500), AILevel: intp(4)}, "AI level 4"},
		{"titled with rating", lichessdto.PlayerInfo{Name: "carol", Title: "GM", Rating: intp(2600)}, "GM carol (2600)"},
		{"provisional suffix", lichessdto.PlayerInfo{Name: "dave", Rating: intp(1500), Provisional: true}, "dave (1500?)"},
		{"missing rating", lichessdto.PlayerInfo{Name: "eve"}, "eve (None)"},
		{"empty profile", lichessdto.PlayerInfo{}, "(None)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewPlayer(&tc.in).String(); got != tc.want {
				t.Fatalf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTerminationFromStatus(t *testing.T) {
	for raw, want := range map[string]Termination{
		"mate":      TerminationMate,
		"OutOfTime": TerminationTimeout,
		" resign ":  TerminationResign,
		"aborted":   TerminationAbort,
		"draw":      TerminationDraw,
	} {
		got, ok := TerminationFromStatus(raw)
		if !ok || got != want {
			t.Fatalf("TerminationFromStatus(%q) = (%q, %v), want (%q, true)", raw, got, ok, want)
		}
	}
	if _, ok := TerminationFromStatus("stalemate"); ok {
		t.Fatalf("unknown status must not map onto the closed set")
	}
}
