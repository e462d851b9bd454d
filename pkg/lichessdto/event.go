package lichessdto

// Event is one line of the account event stream (NDJSON).
// Exactly one of the payload fields is set depending on Type.
type Event struct {
	Type      string     `json:"type"`
	Challenge *Challenge `json:"challenge,omitempty"`
	Game      *GameRef   `json:"game,omitempty"`
}

// Event types emitted by the stream.
const (
	EventChallenge         = "challenge"
	EventChallengeCanceled = "challengeCanceled"
	EventChallengeDeclined = "challengeDeclined"
	EventGameStart         = "gameStart"
	EventGameFinish        = "gameFinish"
)

// GameRef is the game payload attached to gameStart/gameFinish events.
type GameRef struct {
	ID      string  `json:"id"`
	Speed   string  `json:"speed,omitempty"`
	Rated   bool    `json:"rated"`
	Clock   *Clock  `json:"clock,omitempty"`
	Perf    *Perf   `json:"perf,omitempty"`
	Variant Variant `json:"variant"`
	Status  *Status `json:"status,omitempty"`
	Winner  string  `json:"winner,omitempty"`
}

// Status carries the server's game status name on gameFinish.
type Status struct {
	Name string `json:"name"`
}
