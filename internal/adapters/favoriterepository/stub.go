package favoriterepository

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/nbadata/courtside/internal/domain"
)

// Stub keeps favorites in memory, for development without a database
type Stub struct {
	lock      sync.Mutex
	nextID    int64
	favorites []domain.FavoritePlayer
}

func NewStub() *Stub {
	return &Stub{nextID: 1}
}

func (s *Stub) ListFavorites(ctx context.Context, userID string) ([]domain.FavoritePlayer, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	favorites := []domain.FavoritePlayer{}
	for _, favorite := range s.favorites {
		if favorite.UserID == userID {
			favorites = append(favorites, favorite)
		}
	}
	slices.SortFunc(favorites, func(a, b domain.FavoritePlayer) int {
		return cmp.Or(
			cmp.Compare(a.PlayerName, b.PlayerName),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return favorites, nil
}

func (s *Stub) AddFavorite(ctx context.Context, favorite domain.FavoritePlayer) (domain.FavoritePlayer, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, existing := range s.favorites {
		if existing.UserID == favorite.UserID && existing.PlayerID == favorite.PlayerID {
			return existing, nil
		}
	}

	favorite.ID = s.nextID
	s.nextID++
	s.favorites = append(s.favorites, favorite)
	return favorite, nil
}

func (s *Stub) RemoveFavorite(ctx context.Context, userID string, favoriteID int64) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	index := slices.IndexFunc(s.favorites, func(favorite domain.FavoritePlayer) bool {
		return favorite.ID == favoriteID && favorite.UserID == userID
	})
	if index == -1 {
		return domain.ErrFavoriteNotFound
	}

	s.favorites = slices.Delete(s.favorites, index, index+1)
	return nil
}
