package ports

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/nbadata/courtside/internal/app"
	"github.com/nbadata/courtside/internal/logging"
)

type debugMatchResponse struct {
	Success bool                     `json:"success"`
	Match   matchDiagnosticsResponse `json:"match"`
}

func MakeDebugMatchHandler(
	debugMatch app.DebugMatch,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildEndpointMiddleware("debug_match", providerHeavyRateLimits, allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeErrorResponse(ctx, w, "missing q", http.StatusBadRequest)
			return
		}

		ctx = logging.AddMetaToContext(ctx, slog.String("query", query))

		writeJSONResponse(ctx, w, http.StatusOK, debugMatchResponse{
			Success: true,
			Match:   toMatchDiagnosticsResponse(debugMatch(ctx, query)),
		})
	}

	return middleware(handler)
}
