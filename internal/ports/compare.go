package ports

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/nbadata/courtside/internal/app"
	"github.com/nbadata/courtside/internal/logging"
	"github.com/nbadata/courtside/internal/reporting"
	"github.com/nbadata/courtside/internal/strutils"
)

type compareResponse struct {
	Success bool            `json:"success"`
	Season  int             `json:"season"`
	Player1 *playerResponse `json:"player1"`
	Player2 *playerResponse `json:"player2"`
	// Local players picked by id
	Selected []playerResponse `json:"selected"`
}

func MakeComparePlayersHandler(
	comparePlayers app.ComparePlayers,
	getLocalPlayersByIDs app.GetLocalPlayersByIDs,
	getAvailableSeasons app.GetAvailableSeasons,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildEndpointMiddleware("compare_players", providerHeavyRateLimits, allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query := r.URL.Query()

		season, ok := seasonFromRequest(w, r, getAvailableSeasons)
		if !ok {
			return
		}

		query1 := strings.TrimSpace(query.Get("player1"))
		query2 := strings.TrimSpace(query.Get("player2"))
		ids := strutils.ParseIDs(rawQueryValue(r, "ids"))

		ctx = logging.AddMetaToContext(ctx,
			slog.String("player1", query1),
			slog.String("player2", query2),
			slog.Int("season", season),
			slog.Int("selectedCount", len(ids)),
		)
		ctx = reporting.AddExtrasToContext(ctx, map[string]string{
			"player1": query1,
			"player2": query2,
			"season":  strconv.Itoa(season),
		})

		selected, err := getLocalPlayersByIDs(ctx, ids)
		if err != nil {
			// NOTE: Local player repositories handle their own error reporting
			writeErrorResponse(ctx, w, "internal server error", http.StatusInternalServerError)
			return
		}

		player1, player2 := comparePlayers(ctx, query1, query2, season)

		writeJSONResponse(ctx, w, http.StatusOK, compareResponse{
			Success:  true,
			Season:   season,
			Player1:  toPlayerResponse(player1),
			Player2:  toPlayerResponse(player2),
			Selected: toPlayerResponses(selected),
		})
	}

	return middleware(handler)
}
