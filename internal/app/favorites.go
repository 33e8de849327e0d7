package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nbadata/courtside/internal/domain"
)

var ErrInvalidFavorite = errors.New("invalid favorite")

type ListFavorites func(ctx context.Context, userID string) ([]domain.FavoritePlayer, error)

// AddFavorite stores a favorite for the user. Adding the same player again returns the existing favorite.
type AddFavorite func(ctx context.Context, userID string, favorite domain.FavoritePlayer) (domain.FavoritePlayer, error)

// RemoveFavorite deletes one of the user's favorites.
//
// Raises domain.ErrFavoriteNotFound if the favorite doesn't exist or belongs to someone else.
type RemoveFavorite func(ctx context.Context, userID string, favoriteID int64) error

type favoriteRepository interface {
	ListFavorites(ctx context.Context, userID string) ([]domain.FavoritePlayer, error)
	AddFavorite(ctx context.Context, favorite domain.FavoritePlayer) (domain.FavoritePlayer, error)
	RemoveFavorite(ctx context.Context, userID string, favoriteID int64) error
}

func BuildListFavorites(repo favoriteRepository) ListFavorites {
	return func(ctx context.Context, userID string) ([]domain.FavoritePlayer, error) {
		// NOTE: Favorite repositories handle their own error reporting
		favorites, err := repo.ListFavorites(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list favorites: %w", err)
		}
		return favorites, nil
	}
}

func BuildAddFavorite(repo favoriteRepository, nowFunc func() time.Time) AddFavorite {
	return func(ctx context.Context, userID string, favorite domain.FavoritePlayer) (domain.FavoritePlayer, error) {
		favorite.PlayerName = strings.TrimSpace(favorite.PlayerName)
		if favorite.PlayerID <= 0 {
			return domain.FavoritePlayer{}, fmt.Errorf("%w: player id must be positive", ErrInvalidFavorite)
		}
		if favorite.PlayerName == "" {
			return domain.FavoritePlayer{}, fmt.Errorf("%w: player name is required", ErrInvalidFavorite)
		}

		favorite.ID = 0
		favorite.UserID = userID
		favorite.CreatedAt = nowFunc()

		stored, err := repo.AddFavorite(ctx, favorite)
		if err != nil {
			return domain.FavoritePlayer{}, fmt.Errorf("failed to add favorite: %w", err)
		}
		return stored, nil
	}
}

func BuildRemoveFavorite(repo favoriteRepository) RemoveFavorite {
	return func(ctx context.Context, userID string, favoriteID int64) error {
		err := repo.RemoveFavorite(ctx, userID, favoriteID)
		if err != nil {
			return fmt.Errorf("failed to remove favorite: %w", err)
		}
		return nil
	}
}
