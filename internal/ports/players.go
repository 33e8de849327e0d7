package ports

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/nbadata/courtside/internal/app"
	"github.com/nbadata/courtside/internal/domain"
	"github.com/nbadata/courtside/internal/logging"
	"github.com/nbadata/courtside/internal/reporting"
)

const maxSearchResults = 50

// balldontlie serves at most 100 players per page
const maxPerPage = 100
const maxListPages = 10

type playersResponse struct {
	Success bool                    `json:"success"`
	Players []playerSummaryResponse `json:"players"`
}

func MakeSearchPlayersHandler(
	findPlayers app.FindPlayers,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildEndpointMiddleware("search_players", defaultRateLimits, allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeJSONResponse(ctx, w, http.StatusOK, playersResponse{Success: true, Players: []playerSummaryResponse{}})
			return
		}

		ctx = logging.AddMetaToContext(ctx, slog.String("query", query))
		ctx = reporting.AddExtrasToContext(ctx, map[string]string{"query": query})

		players := findPlayers(ctx, query, maxSearchResults)

		writeJSONResponse(ctx, w, http.StatusOK, playersResponse{
			Success: true,
			Players: toPlayerSummaryResponses(players),
		})
	}

	return middleware(handler)
}

func MakeListPlayersHandler(
	browsePlayers app.BrowsePlayers,
	defaultPerPage int,
	defaultMaxPages int,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildEndpointMiddleware("list_players", providerHeavyRateLimits, allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		perPage, err := positiveQueryParam(r, "per_page", defaultPerPage)
		if err != nil {
			writeErrorResponse(ctx, w, err.Error(), http.StatusBadRequest)
			return
		}
		maxPages, err := positiveQueryParam(r, "max_pages", defaultMaxPages)
		if err != nil {
			writeErrorResponse(ctx, w, err.Error(), http.StatusBadRequest)
			return
		}

		perPage = min(perPage, maxPerPage)
		maxPages = min(maxPages, maxListPages)

		ctx = logging.AddMetaToContext(ctx, slog.Int("perPage", perPage), slog.Int("maxPages", maxPages))

		players := browsePlayers(ctx, perPage, maxPages)

		writeJSONResponse(ctx, w, http.StatusOK, playersResponse{
			Success: true,
			Players: toPlayerSummaryResponses(players),
		})
	}

	return middleware(handler)
}

type localPlayerResponse struct {
	Success bool           `json:"success"`
	Player  playerResponse `json:"player"`
}

func MakeGetPlayerHandler(
	getLocalPlayer app.GetLocalPlayer,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildEndpointMiddleware("get_player", defaultRateLimits, allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := positivePathValue(r, "id")
		if err != nil {
			writeErrorResponse(ctx, w, "invalid player id", http.StatusBadRequest)
			return
		}

		ctx = logging.AddMetaToContext(ctx, slog.Int64("playerID", id))
		ctx = reporting.AddExtrasToContext(ctx, map[string]string{"playerID": strconv.FormatInt(id, 10)})

		player, err := getLocalPlayer(ctx, int(id))
		if errors.Is(err, domain.ErrPlayerNotFound) {
			writeErrorResponse(ctx, w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			// NOTE: Local player repositories handle their own error reporting
			writeErrorResponse(ctx, w, "internal server error", http.StatusInternalServerError)
			return
		}

		writeJSONResponse(ctx, w, http.StatusOK, localPlayerResponse{
			Success: true,
			Player:  *toPlayerResponse(&player),
		})
	}

	return middleware(handler)
}

type playerStatsResponse struct {
	Success bool                `json:"success"`
	Stats   seasonStatsResponse `json:"stats"`
}

func MakeGetPlayerStatsHandler(
	getPlayerStats app.GetPlayerStats,
	getAvailableSeasons app.GetAvailableSeasons,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildEndpointMiddleware("get_player_stats", defaultRateLimits, allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := positivePathValue(r, "id")
		if err != nil {
			writeErrorResponse(ctx, w, "invalid player id", http.StatusBadRequest)
			return
		}

		season, ok := seasonFromRequest(w, r, getAvailableSeasons)
		if !ok {
			return
		}

		ctx = logging.AddMetaToContext(ctx, slog.Int64("playerID", id), slog.Int("season", season))
		ctx = reporting.AddExtrasToContext(ctx, map[string]string{
			"playerID": strconv.FormatInt(id, 10),
			"season":   strconv.Itoa(season),
		})

		stats := getPlayerStats(ctx, int(id), season)
		if stats == nil {
			writeErrorResponse(ctx, w, "no stats for season", http.StatusNotFound)
			return
		}

		writeJSONResponse(ctx, w, http.StatusOK, playerStatsResponse{
			Success: true,
			Stats:   toSeasonStatsResponse(stats),
		})
	}

	return middleware(handler)
}
