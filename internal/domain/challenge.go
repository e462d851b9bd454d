package domain

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/okhara/lichess-gatekeeper/internal/obslog"
	"github.com/okhara/lichess-gatekeeper/pkg/lichessdto"
)

// DeclineReason is the fixed tag sent back with a declined challenge.
// The empty reason means accepted; downstream messaging is keyed on
// these exact strings.
type DeclineReason string

const (
	ReasonNone        DeclineReason = ""
	ReasonNoBot       DeclineReason = "noBot"
	ReasonOnlyBot     DeclineReason = "onlyBot"
	ReasonTimeControl DeclineReason = "timeControl"
	ReasonVariant     DeclineReason = "variant"
	ReasonCasual      DeclineReason = "casual"
	ReasonRated       DeclineReason = "rated"
	ReasonGeneric     DeclineReason = "generic"
	ReasonLater       DeclineReason = "later"
)

// RateChecker reports whether a challenger is still under its
// recent-accept budget. Implemented by ratelimit.Tracker.
type RateChecker interface {
	Check(name string, max *int) bool
}

// Challenge aggregates a challenge payload with both player profiles.
// Immutable after construction; Evaluate is a pure read of the
// challenge plus the policy and tracker passed in.
type Challenge struct {
	ID       string
	Rated    bool
	Variant  string
	PerfName string
	Speed    string

	// Exactly one shape applies: Base+Increment (real time), Days
	// (correspondence) or neither (unlimited).
	Increment *int
	Base      *int
	Days      *int

	Challenger Player
	Opponent   Player
	FromSelf   bool
}

// NewChallenge builds a Challenge from a raw payload and the caller's
// own username (used only to flag self-initiated challenges).
func NewChallenge(info *lichessdto.Challenge, ownUsername string) Challenge {
	ch := Challenge{
		ID:         info.ID,
		Rated:      info.Rated,
		Variant:    info.Variant.Key,
		PerfName:   info.Perf.Name,
		Speed:      info.Speed,
		Challenger: NewPlayer(info.Challenger),
		Opponent:   NewPlayer(info.DestUser),
	}
	if tc := info.TimeControl; tc != nil {
		ch.Increment = tc.Increment
		ch.Base = tc.Limit
		ch.Days = tc.DaysPerTurn
	}
	ch.FromSelf = ch.Challenger.Name == ownUsername
	return ch
}

type admissionCheck struct {
	ok     func() bool
	reason DeclineReason
}

// Evaluate runs the admission checks in order and returns the verdict
// plus the reason of the first failing check. A challenge the caller
// itself created bypasses every check. Evaluation is total: any fault
// inside a check declines with ReasonGeneric instead of propagating.
func (c Challenge) Evaluate(policy Policy, recent RateChecker) (accepted bool, reason DeclineReason) {
	defer func() {
		if r := recover(); r != nil {
			obslog.L().Error("challenge_evaluate_fault",
				zap.String("challenge_id", c.ID), zap.Any("cause", r))
			accepted, reason = false, ReasonGeneric
		}
	}()

	if c.FromSelf {
		return true, ReasonNone
	}

	modeReason := ReasonRated
	if c.Rated {
		modeReason = ReasonCasual
	}

	checks := []admissionCheck{
		{func() bool { return policy.AcceptBot || !c.Challenger.IsBot }, ReasonNoBot},
		{func() bool { return !policy.OnlyBot || c.Challenger.IsBot }, ReasonOnlyBot},
		{func() bool { return c.supportedTimeControl(policy) }, ReasonTimeControl},
		{func() bool { return containsString(policy.Variants, c.Variant) }, ReasonVariant},
		{func() bool { return containsString(policy.Modes, c.Mode()) }, modeReason},
		{func() bool { return !containsString(policy.BlockList, c.Challenger.Name) }, ReasonGeneric},
		{func() bool { return c.allowedOpponent(policy) }, ReasonGeneric},
		{func() bool { return c.supportedRecent(policy, recent) }, ReasonLater},
	}
	for _, chk := range checks {
		if !chk.ok() {
			return false, chk.reason
		}
	}
	return true, ReasonNone
}

func (c Challenge) supportedTimeControl(p Policy) bool {
	if !containsString(p.TimeControls, c.Speed) {
		return false
	}
	switch {
	case c.Base != nil && c.Increment != nil:
		return within(*c.Increment, p.MinIncrement, p.MaxIncrement) &&
			within(*c.Base, p.MinBase, p.MaxBase)
	case c.Days != nil:
		return within(*c.Days, p.MinDays, p.MaxDays)
	default:
		// Unlimited games are acceptable only when max days is unbounded.
		return p.MaxDays == nil
	}
}

func (c Challenge) allowedOpponent(p Policy) bool {
	allowed := p.allowedOpponents()
	return len(allowed) == 0 || containsString(allowed, c.Challenger.Name)
}

// supportedRecent rate-limits bot challengers only; humans always pass.
func (c Challenge) supportedRecent(p Policy, recent RateChecker) bool {
	return !c.Challenger.IsBot || recent.Check(c.Challenger.Name, p.MaxRecentBotChallenges)
}

// Score ranks pending challenges: challenger rating plus a flat +200
// for rated play and +200 for a titled human challenger. The bot title
// never counts toward the title bonus.
func (c Challenge) Score() int {
	rating := 0
	if c.Challenger.Rating != nil {
		rating = *c.Challenger.Rating
	}
	bonus := 0
	if c.Rated {
		bonus += 200
	}
	if c.Challenger.Title != "" && !c.Challenger.IsBot {
		bonus += 200
	}
	return rating + bonus
}

// Mode is "rated" or "casual".
func (c Challenge) Mode() string {
	if c.Rated {
		return "rated"
	}
	return "casual"
}

func (c Challenge) String() string {
	return fmt.Sprintf("%s %s challenge from %s (%s)", c.PerfName, c.Mode(), c.Challenger, c.ID)
}
