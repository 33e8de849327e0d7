package playerprovider

import (
	"context"

	"github.com/nbadata/courtside/internal/domain"
)

type PlayerProvider interface {
	// SearchPlayersPage returns one page of players whose name matches term.
	// nextCursor is nil when there are no more pages.
	//
	// Raises domain.ErrTemporarilyUnavailable if the provider implementation receives an error believed to be intermittent. The call may be retried later.
	SearchPlayersPage(ctx context.Context, term string, perPage int, cursor *int) (players []domain.PlayerSearchResult, nextCursor *int, err error)

	// ListPlayersPage returns the given 1-indexed page of all players
	ListPlayersPage(ctx context.Context, perPage int, page int) ([]domain.PlayerSearchResult, error)

	// GetGameStats returns the box score rows for a player in a season.
	// An empty slice means the player has no recorded games.
	GetGameStats(ctx context.Context, playerID int, season int) ([]domain.GameStats, error)
}
