package game

import "errors"

var (
	ErrInsufficientLocations = errors.New("not enough locations")
	ErrInsufficientHeadlines = errors.New("not enough headlines")

	ErrSessionNotFound   = errors.New("game not found")
	ErrGameCompleted     = errors.New("game already completed")
	ErrRoundCompleted    = errors.New("current round already completed")
	ErrNoCompletedRounds = errors.New("no completed rounds in this game")

	ErrLocationMissing = errors.New("location data not found")
)

// ErrorKind is a coarse-grained categorization for engine errors.
type ErrorKind string

const (
	// KindInsufficientData: the directory or upstream news could not
	// supply a full game. No session was created.
	KindInsufficientData ErrorKind = "insufficient_data"
	// KindSessionState: the caller referenced an unknown session or
	// played out of turn.
	KindSessionState ErrorKind = "session_state"
	// KindInternal: sessions and the directory disagree.
	KindInternal ErrorKind = "internal"
	KindUnknown  ErrorKind = "unknown"
)

// Kind classifies err, which may be wrapped.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInsufficientLocations), errors.Is(err, ErrInsufficientHeadlines):
		return KindInsufficientData
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrGameCompleted),
		errors.Is(err, ErrRoundCompleted), errors.Is(err, ErrNoCompletedRounds):
		return KindSessionState
	case errors.Is(err, ErrLocationMissing):
		return KindInternal
	default:
		return KindUnknown
	}
}
