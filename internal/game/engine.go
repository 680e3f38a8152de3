// Package game runs five-round headline guessing sessions.
//
// A session moves through AWAITING_ROUND[0..4] and then COMPLETED; the only
// transition is SubmitGuess, which answers the current round and advances.
// Sessions live in memory and are dropped once older than the retention
// window, finished or not.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/newsmap/internal/geo"
	"github.com/playperu/newsmap/internal/newsmap"
)

// Directory is the read-only location lookup the engine plays from.
type Directory interface {
	All() []newsmap.Location
	ByID(id string) (newsmap.Location, bool)
}

// HeadlineSource returns headlines for a location, or false if none are
// available right now.
type HeadlineSource interface {
	Get(ctx context.Context, key, city, country string) ([]newsmap.Headline, bool)
}

type session struct {
	mu sync.Mutex

	id        string
	createdAt time.Time

	rounds     [TotalRounds]Round
	current    int
	totalScore int
	completed  bool
}

// Engine owns the session store. Lookups and the sweep take the store
// lock; SubmitGuess on a session takes only that session's lock.
type Engine struct {
	dir       Directory
	headlines HeadlineSource
	logger    *slog.Logger
	retention time.Duration
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

type Option func(*Engine)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(logger *slog.Logger, dir Directory, headlines HeadlineSource, retention time.Duration, opts ...Option) *Engine {
	e := &Engine{
		dir:       dir,
		headlines: headlines,
		logger:    logger,
		retention: retention,
		now:       time.Now,
		sessions:  make(map[string]*session),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start assembles a new game. All headline fetching happens before the
// session store is touched; on failure nothing is stored.
func (e *Engine) Start(ctx context.Context) (StartResult, error) {
	locs := e.dir.All()
	if len(locs) < TotalRounds {
		return StartResult{}, fmt.Errorf("%w: need at least %d, have %d",
			ErrInsufficientLocations, TotalRounds, len(locs))
	}

	// Phase one plays a uniform sample of TotalRounds; phase two backfills
	// from the rest of the same permutation, i.e. the unused locations in
	// random order.
	order := rand.Perm(len(locs))
	sample, remainder := order[:TotalRounds], order[TotalRounds:]

	rounds := make([]Round, 0, TotalRounds)
	rounds = e.collectRounds(ctx, locs, sample, rounds)
	if len(rounds) < TotalRounds {
		e.logger.Info("backfilling rounds", "have", len(rounds), "candidates", len(remainder))
		rounds = e.collectRounds(ctx, locs, remainder, rounds)
	}
	if len(rounds) < TotalRounds {
		return StartResult{}, fmt.Errorf("%w: only got %d of %d rounds",
			ErrInsufficientHeadlines, len(rounds), TotalRounds)
	}

	s := &session{
		id:        uuid.NewString(),
		createdAt: e.now(),
	}
	copy(s.rounds[:], rounds)

	e.mu.Lock()
	e.sessions[s.id] = s
	e.mu.Unlock()

	e.Sweep()

	e.logger.Info("game started", "game_id", s.id, "rounds", TotalRounds)

	return StartResult{
		GameID:             s.id,
		TotalRounds:        TotalRounds,
		CurrentRoundNumber: 1,
		Headline:           rounds[0].Headline,
	}, nil
}

// collectRounds appends a round for each candidate that has headlines
// until rounds is full. Candidates without headlines are skipped.
func (e *Engine) collectRounds(ctx context.Context, locs []newsmap.Location, candidates []int, rounds []Round) []Round {
	for _, i := range candidates {
		if len(rounds) >= TotalRounds {
			break
		}
		loc := locs[i]
		hs, ok := e.headlines.Get(ctx, loc.ID, loc.City, loc.Country)
		if !ok || len(hs) == 0 {
			e.logger.Warn("no headlines available, skipping location", "location_id", loc.ID, "city", loc.City)
			continue
		}
		rounds = append(rounds, Round{
			Number:     len(rounds) + 1,
			LocationID: loc.ID,
			Headline:   hs[rand.IntN(len(hs))].Title,
		})
	}
	return rounds
}

func (e *Engine) lookup(id string) *session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sessions[id]
}

// SubmitGuess scores a guess against the current round and advances the
// session. A failed call leaves the session untouched.
func (e *Engine) SubmitGuess(id string, guess newsmap.Coordinates) (GuessResult, error) {
	s := e.lookup(id)
	if s == nil {
		return GuessResult{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		return GuessResult{}, ErrGameCompleted
	}
	r := &s.rounds[s.current]
	if r.Completed {
		return GuessResult{}, ErrRoundCompleted
	}

	loc, ok := e.dir.ByID(r.LocationID)
	if !ok {
		return GuessResult{}, fmt.Errorf("%w: %s", ErrLocationMissing, r.LocationID)
	}

	distance := geo.Distance(guess.Lat, guess.Lng, loc.Lat, loc.Lng)
	score := geo.Score(distance)

	g := guess
	r.Guess = &g
	r.DistanceKm = &distance
	r.Score = &score
	r.Completed = true
	s.totalScore += score

	final := s.current == TotalRounds-1
	if final {
		s.completed = true
	} else {
		s.current++
	}

	e.logger.Info("round scored",
		"game_id", id,
		"round", r.Number,
		"distance_km", distance,
		"score", score,
		"total", s.totalScore,
	)

	return GuessResult{
		CorrectLocation: loc,
		Guess:           guess,
		DistanceKm:      distance,
		RoundScore:      score,
		TotalScore:      s.totalScore,
		RoundNumber:     r.Number,
		IsFinalRound:    final,
	}, nil
}

// NextRound returns the round about to be played. It reports false for
// unknown or completed sessions.
func (e *Engine) NextRound(id string) (NextRound, bool) {
	s := e.lookup(id)
	if s == nil {
		return NextRound{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		return NextRound{}, false
	}
	r := s.rounds[s.current]
	return NextRound{RoundNumber: r.Number, Headline: r.Headline}, true
}

// Results summarises every completed round. A game need not be finished.
func (e *Engine) Results(id string) (Results, error) {
	s := e.lookup(id)
	if s == nil {
		return Results{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		summary []RoundSummary
		total   float64
	)
	for _, r := range s.rounds {
		if !r.Completed {
			continue
		}
		city, country := "Unknown", "Unknown"
		if loc, ok := e.dir.ByID(r.LocationID); ok {
			city, country = loc.City, loc.Country
		}
		summary = append(summary, RoundSummary{
			RoundNumber: r.Number,
			City:        city,
			Country:     country,
			Headline:    r.Headline,
			DistanceKm:  *r.DistanceKm,
			Score:       *r.Score,
		})
		total += *r.DistanceKm
	}
	if len(summary) == 0 {
		return Results{}, ErrNoCompletedRounds
	}

	res := Results{
		GameID:            s.id,
		TotalScore:        s.totalScore,
		MaxPossibleScore:  MaxPossibleScore,
		AverageDistanceKm: total / float64(len(summary)),
		Rounds:            summary,
	}

	e.logger.Info("game results",
		"game_id", id,
		"total_score", res.TotalScore,
		"average_distance_km", res.AverageDistanceKm,
	)
	return res, nil
}

// Snapshot returns a copy of the session state, for diagnostics. The
// HTTP layer does not expose it.
func (e *Engine) Snapshot(id string) (Session, bool) {
	s := e.lookup(id)
	if s == nil {
		return Session{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := Session{
		ID:           s.id,
		CurrentIndex: s.current,
		TotalScore:   s.totalScore,
		CreatedAt:    s.createdAt,
		Completed:    s.completed,
	}
	for i, r := range s.rounds {
		if r.Guess != nil {
			g, d, sc := *r.Guess, *r.DistanceKm, *r.Score
			r.Guess, r.DistanceKm, r.Score = &g, &d, &sc
		}
		out.Rounds[i] = r
	}
	return out, true
}

// Sweep removes sessions created before the retention window and reports
// how many were dropped.
func (e *Engine) Sweep() int {
	cutoff := e.now().Add(-e.retention)

	e.mu.Lock()
	n := 0
	for id, s := range e.sessions {
		if s.createdAt.Before(cutoff) {
			delete(e.sessions, id)
			e.logger.Debug("cleaned up old game session", "game_id", id)
			n++
		}
	}
	e.mu.Unlock()

	if n > 0 {
		e.logger.Info("cleaned up old game sessions", "count", n)
	}
	return n
}

// Len reports the number of stored sessions.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.sessions)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (e *Engine) RunSweeper(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			e.Sweep()
		}
	}
}
