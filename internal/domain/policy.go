package domain

import "time"

// Policy is the challenge-admission configuration. Nil maxima mean
// unbounded; a nil MaxRecentBotChallenges disables the rate limit.
type Policy struct {
	Variants     []string `yaml:"variants"`
	TimeControls []string `yaml:"time_controls"`

	MinIncrement int  `yaml:"min_increment"`
	MaxIncrement *int `yaml:"max_increment"`
	MinBase      int  `yaml:"min_base"`
	MaxBase      *int `yaml:"max_base"`
	MinDays      int  `yaml:"min_days"`
	MaxDays      *int `yaml:"max_days"`

	AcceptBot bool     `yaml:"accept_bot"`
	OnlyBot   bool     `yaml:"only_bot"`
	Modes     []string `yaml:"modes"`
	BlockList []string `yaml:"block_list"`
	AllowList []string `yaml:"allow_list"`

	MaxRecentBotChallenges   *int `yaml:"max_recent_bot_challenges"`
	RecentChallengeWindowSec int  `yaml:"recent_challenge_window_sec"`
}

// RecentWindow is the rate-limit window as a duration.
func (p Policy) RecentWindow() time.Duration {
	return time.Duration(p.RecentChallengeWindowSec) * time.Second
}

// allowedOpponents is the allow list with empty entries removed.
func (p Policy) allowedOpponents() []string {
	out := make([]string, 0, len(p.AllowList))
	for _, name := range p.AllowList {
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func within(v, min int, max *int) bool {
	return v >= min && (max == nil || v <= *max)
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
