package app

import (
	"context"
	"fmt"

	"github.com/nbadata/courtside/internal/domain"
)

// GetLocalPlayer returns a player from the local store.
//
// Raises domain.ErrPlayerNotFound if there is no such player.
type GetLocalPlayer func(ctx context.Context, id int) (domain.Player, error)

// GetLocalPlayersByIDs returns the local players among ids, ordered by name. Unknown ids are skipped.
type GetLocalPlayersByIDs func(ctx context.Context, ids []int) ([]domain.Player, error)

type localPlayerGetter interface {
	GetPlayer(ctx context.Context, id int) (domain.Player, error)
	GetPlayersByIDs(ctx context.Context, ids []int) ([]domain.Player, error)
}

func BuildGetLocalPlayer(repo localPlayerGetter) GetLocalPlayer {
	return func(ctx context.Context, id int) (domain.Player, error) {
		// NOTE: Local player repositories handle their own error reporting
		player, err := repo.GetPlayer(ctx, id)
		if err != nil {
			return domain.Player{}, fmt.Errorf("failed to get local player: %w", err)
		}
		return player, nil
	}
}

func BuildGetLocalPlayersByIDs(repo localPlayerGetter) GetLocalPlayersByIDs {
	return func(ctx context.Context, ids []int) ([]domain.Player, error) {
		if len(ids) == 0 {
			return []domain.Player{}, nil
		}

		// NOTE: Local player repositories handle their own error reporting
		players, err := repo.GetPlayersByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to get local players by id: %w", err)
		}
		return players, nil
	}
}
