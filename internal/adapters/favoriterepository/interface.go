package favoriterepository

import (
	"context"

	"github.com/nbadata/courtside/internal/domain"
)

type FavoriteRepository interface {
	ListFavorites(ctx context.Context, userID string) ([]domain.FavoritePlayer, error)
	// AddFavorite stores the favorite, or returns the stored one if the user already has the player
	AddFavorite(ctx context.Context, favorite domain.FavoritePlayer) (domain.FavoritePlayer, error)
	RemoveFavorite(ctx context.Context, userID string, favoriteID int64) error
}
