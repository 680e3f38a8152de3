package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/newsmap/internal/game"
	"github.com/playperu/newsmap/internal/newsmap"
)

type StartGameResponse struct {
	GameID             string `json:"game_id"`
	TotalRounds        int    `json:"total_rounds"`
	CurrentRoundNumber int    `json:"current_round_number"`
	Headline           string `json:"headline"`
}

type GuessRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (req *GuessRequest) validate() string {
	switch {
	case req.Lat == nil || req.Lng == nil:
		return "lat and lng are required"
	case *req.Lat < -90 || *req.Lat > 90:
		return "lat must be between -90 and 90"
	case *req.Lng < -180 || *req.Lng > 180:
		return "lng must be between -180 and 180"
	}
	return ""
}

type GuessResponse struct {
	CorrectLocation    newsmap.Location    `json:"correct_location"`
	GuessLocation      newsmap.Coordinates `json:"guess_location"`
	DistanceKm         float64             `json:"distance_km"`
	RoundScore         int                 `json:"round_score"`
	TotalScore         int                 `json:"total_score"`
	CurrentRoundNumber int                 `json:"current_round_number"`
	IsFinalRound       bool                `json:"is_final_round"`
}

type NextRoundResponse struct {
	RoundNumber int    `json:"round_number"`
	Headline    string `json:"headline"`
}

type RoundSummary struct {
	RoundNumber int     `json:"round_number"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Headline    string  `json:"headline"`
	DistanceKm  float64 `json:"distance_km"`
	Score       int     `json:"score"`
}

type ResultsResponse struct {
	GameID            string         `json:"game_id"`
	TotalScore        int            `json:"total_score"`
	MaxPossibleScore  int            `json:"max_possible_score"`
	AverageDistanceKm float64        `json:"average_distance_km"`
	RoundsSummary     []RoundSummary `json:"rounds_summary"`
}

func handleStartGame(logger *slog.Logger, engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := engine.Start(r.Context())
		if err != nil {
			logger.Error("starting game failed", "error", err)
			if errors.Is(err, game.ErrInsufficientHeadlines) {
				writeError(w, http.StatusServiceUnavailable, "unable to fetch enough headlines right now")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, StartGameResponse{
			GameID:             res.GameID,
			TotalRounds:        res.TotalRounds,
			CurrentRoundNumber: res.CurrentRoundNumber,
			Headline:           res.Headline,
		})
	}
}

func handleGuess(logger *slog.Logger, engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GuessRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		gameID := chi.URLParam(r, "gameID")
		res, err := engine.SubmitGuess(gameID, newsmap.Coordinates{Lat: *req.Lat, Lng: *req.Lng})
		if err != nil {
			if game.Kind(err) == game.KindSessionState {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			logger.Error("submitting guess failed", "game_id", gameID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, GuessResponse{
			CorrectLocation:    res.CorrectLocation,
			GuessLocation:      res.Guess,
			DistanceKm:         res.DistanceKm,
			RoundScore:         res.RoundScore,
			TotalScore:         res.TotalScore,
			CurrentRoundNumber: res.RoundNumber,
			IsFinalRound:       res.IsFinalRound,
		})
	}
}

func handleNextRound(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next, ok := engine.NextRound(chi.URLParam(r, "gameID"))
		if !ok {
			writeError(w, http.StatusNotFound, "game completed or not found")
			return
		}
		writeJSON(w, http.StatusOK, NextRoundResponse{
			RoundNumber: next.RoundNumber,
			Headline:    next.Headline,
		})
	}
}

func handleResults(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := engine.Results(chi.URLParam(r, "gameID"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		resp := ResultsResponse{
			GameID:            res.GameID,
			TotalScore:        res.TotalScore,
			MaxPossibleScore:  res.MaxPossibleScore,
			AverageDistanceKm: res.AverageDistanceKm,
			RoundsSummary:     make([]RoundSummary, 0, len(res.Rounds)),
		}
		for _, rs := range res.Rounds {
			resp.RoundsSummary = append(resp.RoundsSummary, RoundSummary{
				RoundNumber: rs.RoundNumber,
				City:        rs.City,
				Country:     rs.Country,
				Headline:    rs.Headline,
				DistanceKm:  rs.DistanceKm,
				Score:       rs.Score,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
