package ports

import (
	"log/slog"
	"net/http"

	"github.com/nbadata/courtside/internal/app"
)

type seasonsResponse struct {
	Success bool  `json:"success"`
	Seasons []int `json:"seasons"`
}

// seasonFromRequest reads the season query parameter, defaulting to the newest available season.
//
// Writes an error response and returns false if there is no usable season.
func seasonFromRequest(w http.ResponseWriter, r *http.Request, getAvailableSeasons app.GetAvailableSeasons) (int, bool) {
	ctx := r.Context()

	defaultSeason := 0
	if r.URL.Query().Get("season") == "" {
		seasons := getAvailableSeasons(ctx)
		if len(seasons) == 0 {
			writeErrorResponse(ctx, w, "no seasons available", http.StatusNotFound)
			return 0, false
		}
		defaultSeason = seasons[0]
	}

	season, err := positiveQueryParam(r, "season", defaultSeason)
	if err != nil {
		writeErrorResponse(ctx, w, err.Error(), http.StatusBadRequest)
		return 0, false
	}
	return season, true
}

func MakeGetSeasonsHandler(
	getAvailableSeasons app.GetAvailableSeasons,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildEndpointMiddleware("get_seasons", defaultRateLimits, allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		writeJSONResponse(ctx, w, http.StatusOK, seasonsResponse{
			Success: true,
			Seasons: getAvailableSeasons(ctx),
		})
	}

	return middleware(handler)
}
