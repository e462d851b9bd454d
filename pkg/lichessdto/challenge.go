package lichessdto

// Challenge is the inbound challenge payload.
type Challenge struct {
	ID          string       `json:"id"`
	Rated       bool         `json:"rated"`
	Variant     Variant      `json:"variant"`
	Perf        Perf         `json:"perf"`
	Speed       string       `json:"speed"`
	TimeControl *TimeControl `json:"timeControl,omitempty"`
	Challenger  *PlayerInfo  `json:"challenger,omitempty"`
	DestUser    *PlayerInfo  `json:"destUser,omitempty"`
}

type Variant struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type Perf struct {
	Name string `json:"name"`
}

// TimeControl distinguishes real-time (Limit+Increment) from
// correspondence (DaysPerTurn) from unlimited (all nil).
type TimeControl struct {
	Type        string `json:"type,omitempty"`
	Limit       *int   `json:"limit,omitempty"`
	Increment   *int   `json:"increment,omitempty"`
	DaysPerTurn *int   `json:"daysPerTurn,omitempty"`
}

type Clock struct {
	Initial   *int `json:"initial,omitempty"`
	Increment *int `json:"increment,omitempty"`
}
