package domain

import "strings"

// Termination classifies how a game ended. The values are the server's
// status names; no other values are permitted.
type Termination string

const (
	TerminationMate    Termination = "mate"
	TerminationTimeout Termination = "outoftime"
	TerminationResign  Termination = "resign"
	TerminationAbort   Termination = "aborted"
	TerminationDraw    Termination = "draw"
)

// TerminationFromStatus maps a raw game status name onto the closed
// Termination set. ok is false for statuses that are not terminal causes
// this core classifies.
func TerminationFromStatus(name string) (t Termination, ok bool) {
	switch Termination(strings.ToLower(strings.TrimSpace(name))) {
	case TerminationMate:
		return TerminationMate, true
	case TerminationTimeout:
		return TerminationTimeout, true
	case TerminationResign:
		return TerminationResign, true
	case TerminationAbort:
		return TerminationAbort, true
	case TerminationDraw:
		return TerminationDraw, true
	default:
		return "", false
	}
}
