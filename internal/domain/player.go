package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okhara/lichess-gatekeeper/pkg/lichessdto"
)

// BotTitle is the reserved title marking automated accounts.
const BotTitle = "BOT"

// Player is an immutable snapshot of a participant's public profile.
// IsBot is always derived from Title, never set on its own.
type Player struct {
	Name        string
	Title       string
	IsBot       bool
	Rating      *int
	Provisional bool
	AILevel     *int
}

// NewPlayer builds a Player from a raw profile record. A nil record
// yields an empty profile (open challenges carry no destination user).
func NewPlayer(info *lichessdto.PlayerInfo) Player {
	if info == nil {
		info = &lichessdto.PlayerInfo{}
	}
	return Player{
		Name:        info.Name,
		Title:       info.Title,
		IsBot:       info.Title == BotTitle,
		Rating:      info.Rating,
		Provisional: info.Provisional,
		AILevel:     info.AILevel,
	}
}

// String renders the profile for logs. An AI strength level takes
// precedence over everything else, including rating.
func (p Player) String() string {
	if p.AILevel != nil {
		return fmt.Sprintf("AI level %d", *p.AILevel)
	}
	rating := "None"
	if p.Rating != nil {
		rating = strconv.Itoa(*p.Rating)
	}
	if p.Provisional {
		rating += "?"
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s (%s)", p.Title, p.Name, rating))
}
