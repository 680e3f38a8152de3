package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/newsmap/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Global News Map API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handleStatus())
		r.Get("/locations", handleLocations(deps.Directory))
		r.Get("/news/{locationID}", handleNews(deps.Directory, deps.Headlines))

		r.Post("/game/start", handleStartGame(logger, deps.Engine))
		r.Post("/game/{gameID}/guess", handleGuess(logger, deps.Engine))
		r.Get("/game/{gameID}/next", handleNextRound(deps.Engine))
		r.Get("/game/{gameID}/results", handleResults(deps.Engine))
	})
}
