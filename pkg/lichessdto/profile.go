package lichessdto

// PlayerInfo is a public profile snapshot embedded in challenge payloads.
type PlayerInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Rating      *int   `json:"rating,omitempty"`
	Provisional bool   `json:"provisional,omitempty"`
	AILevel     *int   `json:"aiLevel,omitempty"`
	Online      bool   `json:"online,omitempty"`
}

// Account is the caller's own profile, fetched once at startup.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Title    string `json:"title,omitempty"`
}
