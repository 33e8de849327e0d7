package playerrepository

import (
	"context"

	"github.com/nbadata/courtside/internal/domain"
)

// PlayerRepository is the local store of players, used when the stats provider can't help
type PlayerRepository interface {
	// SearchPlayers returns players whose name contains term, case-insensitively, ordered by name
	SearchPlayers(ctx context.Context, term string, limit int) ([]domain.Player, error)
	GetPlayer(ctx context.Context, id int) (domain.Player, error)
	GetPlayersByIDs(ctx context.Context, ids []int) ([]domain.Player, error)
	ListPlayers(ctx context.Context, limit int) ([]domain.Player, error)
	// SeedIfEmpty stores players if the store has no players, returning how many were stored
	SeedIfEmpty(ctx context.Context, players []domain.Player) (int, error)
}
