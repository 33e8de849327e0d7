package app

import (
	"context"

	"github.com/nbadata/courtside/internal/adapters/cache"
	"github.com/nbadata/courtside/internal/domain"
	"github.com/nbadata/courtside/internal/logging"
)

// FindPlayers searches the provider for a free-text query, falling back to the local players
// when the provider fails or has nothing
type FindPlayers func(ctx context.Context, query string, limit int) []domain.PlayerSummary

// BrowsePlayers lists provider players, falling back to the local players when the provider
// fails or has nothing
type BrowsePlayers func(ctx context.Context, perPage int, maxPages int) []domain.PlayerSummary

type localPlayerLister interface {
	ListPlayers(ctx context.Context, limit int) ([]domain.Player, error)
}

func summarizeProviderPlayers(players []domain.PlayerSearchResult, limit int) []domain.PlayerSummary {
	summaries := make([]domain.PlayerSummary, 0, min(len(players), limit))
	for _, player := range players {
		if len(summaries) >= limit {
			break
		}
		summaries = append(summaries, player.Summary())
	}
	return summaries
}

func summarizeLocalPlayers(players []domain.Player) []domain.PlayerSummary {
	summaries := make([]domain.PlayerSummary, 0, len(players))
	for _, player := range players {
		summaries = append(summaries, player.Summary())
	}
	return summaries
}

func BuildFindPlayers(
	searchCache cache.Cache[[]domain.PlayerSearchResult],
	provider playerSearcher,
	localPlayers localPlayerSearcher,
	perPage int,
	maxPages int,
) FindPlayers {
	searchWithOutcome := buildSearchPlayersWithOutcome(searchCache, provider, perPage, maxPages)

	return func(ctx context.Context, query string, limit int) []domain.PlayerSummary {
		candidates, err := searchWithOutcome(ctx, domain.SearchTermForQuery(query))
		recordOutcome(ctx, "find_players", len(candidates) == 0, err)

		matching := domain.MatchingPlayers(query, candidates)
		if len(matching) > 0 {
			return summarizeProviderPlayers(matching, limit)
		}

		local, err := localPlayers.SearchPlayers(ctx, query, limit)
		if err != nil {
			// NOTE: Local player repositories handle their own error reporting
			logging.FromContext(ctx).WarnContext(ctx, "Local player search failed", "query", query, "error", err.Error())
			return []domain.PlayerSummary{}
		}
		return summarizeLocalPlayers(local)
	}
}

func BuildBrowsePlayers(
	getAllPlayers GetAllPlayers,
	localPlayers localPlayerLister,
) BrowsePlayers {
	return func(ctx context.Context, perPage int, maxPages int) []domain.PlayerSummary {
		players := getAllPlayers(ctx, perPage, maxPages)
		if len(players) > 0 {
			return summarizeProviderPlayers(players, len(players))
		}

		local, err := localPlayers.ListPlayers(ctx, perPage*maxPages)
		if err != nil {
			// NOTE: Local player repositories handle their own error reporting
			logging.FromContext(ctx).WarnContext(ctx, "Local player listing failed", "error", err.Error())
			return []domain.PlayerSummary{}
		}
		return summarizeLocalPlayers(local)
	}
}
