package app

import (
	"context"
	"fmt"

	"github.com/nbadata/courtside/internal/adapters/cache"
	"github.com/nbadata/courtside/internal/domain"
)

// GetPlayerStats returns a player's per-game averages for a season.
//
// nil when the player has no games in the season, or the provider failed.
type GetPlayerStats func(ctx context.Context, playerID int, season int) *domain.PlayerAverageStats

type gameStatsProvider interface {
	GetGameStats(ctx context.Context, playerID int, season int) ([]domain.GameStats, error)
}

type getPlayerStatsWithOutcome func(ctx context.Context, playerID int, season int) (*domain.PlayerAverageStats, error)

func statsCacheKey(playerID, season int) string {
	return fmt.Sprintf("stats:%d:%d", playerID, season)
}

func buildGetPlayerStatsWithOutcome(
	statsCache cache.Cache[*domain.PlayerAverageStats],
	provider gameStatsProvider,
) getPlayerStatsWithOutcome {
	return func(ctx context.Context, playerID int, season int) (*domain.PlayerAverageStats, error) {
		// A nil result (no games) is a complete answer and is cached like any other
		stats, _, err := cache.GetOrCreate(ctx, statsCache, statsCacheKey(playerID, season), func() (*domain.PlayerAverageStats, error) {
			games, err := provider.GetGameStats(ctx, playerID, season)
			if err != nil {
				return nil, fmt.Errorf("failed to get game stats: %w", err)
			}
			return domain.AverageGameStats(playerID, season, games), nil
		})
		if err != nil {
			return nil, err
		}

		return stats, nil
	}
}

func BuildGetPlayerStatsWithCache(
	statsCache cache.Cache[*domain.PlayerAverageStats],
	provider gameStatsProvider,
) GetPlayerStats {
	getStatsWithOutcome := buildGetPlayerStatsWithOutcome(statsCache, provider)

	return func(ctx context.Context, playerID int, season int) *domain.PlayerAverageStats {
		stats, err := getStatsWithOutcome(ctx, playerID, season)
		recordOutcome(ctx, "get_player_stats", stats == nil, err)
		return stats
	}
}
