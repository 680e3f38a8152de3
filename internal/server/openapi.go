package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/newsmap/internal/newsmap"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type healthCheckResult struct {
	Status string `json:"status"`
}

type gamePath struct {
	GameID string `path:"gameID"`
}

type guessInput struct {
	GameID string   `path:"gameID"`
	Lat    *float64 `json:"lat" required:"true" minimum:"-90" maximum:"90"`
	Lng    *float64 `json:"lng" required:"true" minimum:"-180" maximum:"180"`
}

type newsPath struct {
	LocationID string `path:"locationID"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Global News Map API"
	r.Spec.Info.Version = apiVersion
	r.Spec.Info.WithDescription("Guess where the news happened: a five-round headline geography game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the status of each internal dependency.")
	getHealthz.AddRespStructure(map[string]healthCheckResult{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]healthCheckResult{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/health
	getStatus, _ := r.NewOperationContext(http.MethodGet, "/api/health")
	getStatus.SetSummary("Service status")
	getStatus.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getStatus)

	// GET /api/locations
	getLocations, _ := r.NewOperationContext(http.MethodGet, "/api/locations")
	getLocations.SetSummary("List locations")
	getLocations.SetDescription("Returns every playable city.")
	getLocations.AddRespStructure([]newsmap.Location{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLocations)

	// GET /api/news/{locationID}
	getNews, _ := r.NewOperationContext(http.MethodGet, "/api/news/{locationID}")
	getNews.SetSummary("Headlines for a location")
	getNews.SetDescription("Returns up to three cached or freshly fetched headlines for a city.")
	getNews.AddReqStructure(newsPath{})
	getNews.AddRespStructure(NewsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getNews.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getNews.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getNews)

	// POST /api/game/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/game/start")
	postStart.SetSummary("Start game")
	postStart.SetDescription("Starts a new five-round game and returns the first headline.")
	postStart.AddRespStructure(StartGameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(postStart)

	// POST /api/game/{gameID}/guess
	postGuess, _ := r.NewOperationContext(http.MethodPost, "/api/game/{gameID}/guess")
	postGuess.SetSummary("Submit guess")
	postGuess.SetDescription("Scores a guess for the current round and advances the game.")
	postGuess.AddReqStructure(guessInput{})
	postGuess.AddRespStructure(GuessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(postGuess)

	// GET /api/game/{gameID}/next
	getNext, _ := r.NewOperationContext(http.MethodGet, "/api/game/{gameID}/next")
	getNext.SetSummary("Next round")
	getNext.SetDescription("Returns the headline of the round about to be played.")
	getNext.AddReqStructure(gamePath{})
	getNext.AddRespStructure(NextRoundResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getNext.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getNext)

	// GET /api/game/{gameID}/results
	getResults, _ := r.NewOperationContext(http.MethodGet, "/api/game/{gameID}/results")
	getResults.SetSummary("Game results")
	getResults.SetDescription("Returns the score and a per-round breakdown of completed rounds.")
	getResults.AddReqStructure(gamePath{})
	getResults.AddRespStructure(ResultsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getResults.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getResults)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
