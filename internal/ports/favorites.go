package ports

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nbadata/courtside/internal/app"
	"github.com/nbadata/courtside/internal/domain"
	"github.com/nbadata/courtside/internal/logging"
	"github.com/nbadata/courtside/internal/reporting"
)

const maxFavoriteBodyBytes = 4 * 1024

type favoritesResponse struct {
	Success   bool               `json:"success"`
	Favorites []favoriteResponse `json:"favorites"`
}

type addFavoriteResponse struct {
	Success  bool             `json:"success"`
	Favorite favoriteResponse `json:"favorite"`
}

type addFavoriteRequest struct {
	PlayerID   int    `json:"playerId"`
	PlayerName string `json:"playerName"`
	Team       string `json:"team"`
	Position   string `json:"position"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// userIDFromRequest returns the caller's user id.
//
// Writes an error response and returns false if the request doesn't carry one.
func userIDFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeErrorResponse(r.Context(), w, "missing X-User-Id", http.StatusBadRequest)
		return "", false
	}
	return userID, true
}

func MakeListFavoritesHandler(
	listFavorites app.ListFavorites,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildEndpointMiddleware("list_favorites", defaultRateLimits, allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := userIDFromRequest(w, r)
		if !ok {
			return
		}

		favorites, err := listFavorites(ctx, userID)
		if err != nil {
			// NOTE: Favorite repositories handle their own error reporting
			writeErrorResponse(ctx, w, "internal server error", http.StatusInternalServerError)
			return
		}

		response := favoritesResponse{
			Success:   true,
			Favorites: make([]favoriteResponse, 0, len(favorites)),
		}
		for _, favorite := range favorites {
			response.Favorites = append(response.Favorites, toFavoriteResponse(favorite))
		}

		writeJSONResponse(ctx, w, http.StatusOK, response)
	}

	return middleware(handler)
}

func MakeAddFavoriteHandler(
	addFavorite app.AddFavorite,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildEndpointMiddleware("add_favorite", defaultRateLimits, allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := userIDFromRequest(w, r)
		if !ok {
			return
		}

		var request addFavoriteRequest
		err := json.NewDecoder(io.LimitReader(r.Body, maxFavoriteBodyBytes)).Decode(&request)
		if err != nil {
			writeErrorResponse(ctx, w, "invalid request body", http.StatusBadRequest)
			return
		}

		ctx = logging.AddMetaToContext(ctx, slog.Int("playerID", request.PlayerID))
		ctx = reporting.AddExtrasToContext(ctx, map[string]string{"playerID": strconv.Itoa(request.PlayerID)})

		favorite, err := addFavorite(ctx, userID, domain.FavoritePlayer{
			PlayerID:   request.PlayerID,
			PlayerName: request.PlayerName,
			Team:       request.Team,
			Position:   request.Position,
		})
		if errors.Is(err, app.ErrInvalidFavorite) {
			writeErrorResponse(ctx, w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			// NOTE: Favorite repositories handle their own error reporting
			writeErrorResponse(ctx, w, "internal server error", http.StatusInternalServerError)
			return
		}

		writeJSONResponse(ctx, w, http.StatusOK, addFavoriteResponse{
			Success:  true,
			Favorite: toFavoriteResponse(favorite),
		})
	}

	return middleware(handler)
}

func MakeRemoveFavoriteHandler(
	removeFavorite app.RemoveFavorite,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildEndpointMiddleware("remove_favorite", defaultRateLimits, allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := userIDFromRequest(w, r)
		if !ok {
			return
		}

		favoriteID, err := positivePathValue(r, "id")
		if err != nil {
			writeErrorResponse(ctx, w, "invalid favorite id", http.StatusBadRequest)
			return
		}

		ctx = logging.AddMetaToContext(ctx, slog.Int64("favoriteID", favoriteID))

		err = removeFavorite(ctx, userID, favoriteID)
		if errors.Is(err, domain.ErrFavoriteNotFound) {
			writeErrorResponse(ctx, w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			// NOTE: Favorite repositories handle their own error reporting
			writeErrorResponse(ctx, w, "internal server error", http.StatusInternalServerError)
			return
		}

		writeJSONResponse(ctx, w, http.StatusOK, successResponse{Success: true})
	}

	return middleware(handler)
}
