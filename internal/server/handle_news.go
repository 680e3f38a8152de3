package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/newsmap/internal/game"
	"github.com/playperu/newsmap/internal/newsmap"
)

const apiVersion = "1.0.0"

type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type NewsResponse struct {
	LocationID string             `json:"location_id"`
	City       string             `json:"city"`
	Country    string             `json:"country"`
	Headlines  []newsmap.Headline `json:"headlines"`
}

func handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, StatusResponse{Status: "ok", Version: apiVersion})
	}
}

func handleLocations(dir game.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locs := dir.All()
		if locs == nil {
			locs = []newsmap.Location{}
		}
		writeJSON(w, http.StatusOK, locs)
	}
}

func handleNews(dir game.Directory, headlines game.HeadlineSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "locationID")
		loc, ok := dir.ByID(id)
		if !ok {
			writeError(w, http.StatusNotFound, "location '"+id+"' not found")
			return
		}

		hs, ok := headlines.Get(r.Context(), loc.ID, loc.City, loc.Country)
		if !ok {
			writeError(w, http.StatusServiceUnavailable, "unable to fetch news at this time")
			return
		}

		writeJSON(w, http.StatusOK, NewsResponse{
			LocationID: loc.ID,
			City:       loc.City,
			Country:    loc.Country,
			Headlines:  hs,
		})
	}
}
