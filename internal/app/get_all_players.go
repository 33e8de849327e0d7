package app

import (
	"context"
	"fmt"

	"github.com/nbadata/courtside/internal/adapters/cache"
	"github.com/nbadata/courtside/internal/domain"
)

// GetAllPlayers lists provider players page by page.
//
// Provider failures are collapsed into the pages collected before the failure.
type GetAllPlayers func(ctx context.Context, perPage int, maxPages int) []domain.PlayerSearchResult

type playerLister interface {
	ListPlayersPage(ctx context.Context, perPage int, page int) ([]domain.PlayerSearchResult, error)
}

func allPlayersCacheKey(perPage, maxPages int) string {
	return fmt.Sprintf("players:%d:%d", perPage, maxPages)
}

func buildGetAllPlayersWithOutcome(
	playersCache cache.Cache[[]domain.PlayerSearchResult],
	provider playerLister,
) func(ctx context.Context, perPage int, maxPages int) ([]domain.PlayerSearchResult, error) {
	listWithoutCache := func(ctx context.Context, perPage int, maxPages int) ([]domain.PlayerSearchResult, error) {
		players := []domain.PlayerSearchResult{}
		for page := 1; page <= maxPages; page++ {
			pagePlayers, err := provider.ListPlayersPage(ctx, perPage, page)
			if err != nil {
				return players, fmt.Errorf("failed to list players page %d: %w", page, err)
			}

			players = append(players, pagePlayers...)

			if len(pagePlayers) < perPage {
				// Short or empty page, nothing more to get
				break
			}
		}
		return players, nil
	}

	return func(ctx context.Context, perPage int, maxPages int) ([]domain.PlayerSearchResult, error) {
		if perPage <= 0 || maxPages <= 0 {
			return []domain.PlayerSearchResult{}, nil
		}

		var partial []domain.PlayerSearchResult
		players, _, err := cache.GetOrCreate(ctx, playersCache, allPlayersCacheKey(perPage, maxPages), func() ([]domain.PlayerSearchResult, error) {
			players, err := listWithoutCache(ctx, perPage, maxPages)
			if err != nil {
				partial = players
				return nil, err
			}
			return players, nil
		})
		if err != nil {
			if partial == nil {
				partial = []domain.PlayerSearchResult{}
			}
			return partial, err
		}

		return players, nil
	}
}

func BuildGetAllPlayersWithCache(
	playersCache cache.Cache[[]domain.PlayerSearchResult],
	provider playerLister,
) GetAllPlayers {
	getAllWithOutcome := buildGetAllPlayersWithOutcome(playersCache, provider)

	return func(ctx context.Context, perPage int, maxPages int) []domain.PlayerSearchResult {
		players, err := getAllWithOutcome(ctx, perPage, maxPages)
		recordOutcome(ctx, "get_all_players", len(players) == 0, err)
		return players
	}
}
