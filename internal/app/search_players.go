package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/nbadata/courtside/internal/adapters/cache"
	"github.com/nbadata/courtside/internal/domain"
)

// SearchPlayers returns provider players matching term.
//
// Provider failures are collapsed into whatever was collected before the failure.
type SearchPlayers func(ctx context.Context, term string) []domain.PlayerSearchResult

type playerSearcher interface {
	SearchPlayersPage(ctx context.Context, term string, perPage int, cursor *int) ([]domain.PlayerSearchResult, *int, error)
}

// searchPlayersWithOutcome keeps the provider error, so callers can tell a failed search from
// one without results
type searchPlayersWithOutcome func(ctx context.Context, term string) ([]domain.PlayerSearchResult, error)

func searchCacheKey(term string) string {
	return fmt.Sprintf("search:%s", strings.ToLower(strings.TrimSpace(term)))
}

func buildSearchPlayersWithOutcome(
	searchCache cache.Cache[[]domain.PlayerSearchResult],
	provider playerSearcher,
	perPage int,
	maxPages int,
) searchPlayersWithOutcome {
	searchWithoutCache := func(ctx context.Context, term string) ([]domain.PlayerSearchResult, error) {
		players := []domain.PlayerSearchResult{}
		var cursor *int
		for range maxPages {
			page, nextCursor, err := provider.SearchPlayersPage(ctx, term, perPage, cursor)
			if err != nil {
				return players, fmt.Errorf("failed to search players: %w", err)
			}
			if len(page) == 0 {
				break
			}

			players = append(players, page...)

			if nextCursor == nil {
				break
			}
			cursor = nextCursor
		}
		return players, nil
	}

	return func(ctx context.Context, term string) ([]domain.PlayerSearchResult, error) {
		term = strings.TrimSpace(term)
		if term == "" {
			return []domain.PlayerSearchResult{}, nil
		}

		// Incomplete results are returned, but never cached
		var partial []domain.PlayerSearchResult
		players, _, err := cache.GetOrCreate(ctx, searchCache, searchCacheKey(term), func() ([]domain.PlayerSearchResult, error) {
			players, err := searchWithoutCache(ctx, term)
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

func BuildSearchPlayersWithCache(
	searchCache cache.Cache[[]domain.PlayerSearchResult],
	provider playerSearcher,
	perPage int,
	maxPages int,
) SearchPlayers {
	searchWithOutcome := buildSearchPlayersWithOutcome(searchCache, provider, perPage, maxPages)

	return func(ctx context.Context, term string) []domain.PlayerSearchResult {
		players, err := searchWithOutcome(ctx, term)
		recordOutcome(ctx, "search_players", len(players) == 0, err)
		return players
	}
}
