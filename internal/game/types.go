package game

import (
	"time"

	"github.com/playperu/newsmap/internal/geo"
	"github.com/playperu/newsmap/internal/newsmap"
)

const (
	TotalRounds      = 5
	MaxPossibleScore = TotalRounds * geo.MaxRoundScore
)

// Round is one headline to place on the map. The guess fields stay nil
// until the round is answered, after which the round never changes.
type Round struct {
	Number     int
	LocationID string
	Headline   string

	Guess      *newsmap.Coordinates
	DistanceKm *float64
	Score      *int
	Completed  bool
}

// Session is a read-only copy of a game's state.
type Session struct {
	ID           string
	Rounds       [TotalRounds]Round
	CurrentIndex int
	TotalScore   int
	CreatedAt    time.Time
	Completed    bool
}

type StartResult struct {
	GameID             string
	TotalRounds        int
	CurrentRoundNumber int
	Headline           string
}

type GuessResult struct {
	CorrectLocation newsmap.Location
	Guess           newsmap.Coordinates
	DistanceKm      float64
	RoundScore      int
	TotalScore      int
	RoundNumber     int
	IsFinalRound    bool
}

type NextRound struct {
	RoundNumber int
	Headline    string
}

type RoundSummary struct {
	RoundNumber int
	City        string
	Country     string
	Headline    string
	DistanceKm  float64
	Score       int
}

type Results struct {
	GameID            string
	TotalScore        int
	MaxPossibleScore  int
	AverageDistanceKm float64
	Rounds            []RoundSummary
}
