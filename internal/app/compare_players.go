package app

import (
	"context"
	"strings"
	"sync"

	"github.com/nbadata/courtside/internal/adapters/cache"
	"github.com/nbadata/courtside/internal/domain"
	"github.com/nbadata/courtside/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// How many seasons to look back when the requested season has no games
const statsSeasonFallbacks = 2

// ComparePlayers resolves two free-text player queries for a side by side comparison.
//
// A slot is nil when its query is empty or nothing matches.
type ComparePlayers func(ctx context.Context, query1, query2 string, season int) (*domain.Player, *domain.Player)

type comparePlayerProvider interface {
	playerSearcher
	gameStatsProvider
}

type localPlayerSearcher interface {
	SearchPlayers(ctx context.Context, term string, limit int) ([]domain.Player, error)
}

var compareTracer = otel.Tracer("courtside/app/compare")

func BuildComparePlayers(
	searchCache cache.Cache[[]domain.PlayerSearchResult],
	statsCache cache.Cache[*domain.PlayerAverageStats],
	provider comparePlayerProvider,
	localPlayers localPlayerSearcher,
	perPage int,
	maxPages int,
) ComparePlayers {
	searchWithOutcome := buildSearchPlayersWithOutcome(searchCache, provider, perPage, maxPages)
	getStatsWithOutcome := buildGetPlayerStatsWithOutcome(statsCache, provider)

	latestStats := func(ctx context.Context, playerID int, season int) *domain.PlayerAverageStats {
		for offset := range statsSeasonFallbacks + 1 {
			stats, err := getStatsWithOutcome(ctx, playerID, season-offset)
			recordOutcome(ctx, "compare_player_stats", stats == nil, err)
			if stats != nil && stats.GamesPlayed > 0 {
				return stats
			}
		}
		return nil
	}

	findLocal := func(ctx context.Context, query string) *domain.Player {
		players, err := localPlayers.SearchPlayers(ctx, query, 1)
		if err != nil {
			// NOTE: Local player repositories handle their own error reporting
			logging.FromContext(ctx).WarnContext(ctx, "Local player search failed", "query", query, "error", err.Error())
			return nil
		}
		if len(players) == 0 {
			return nil
		}
		return &players[0]
	}

	resolveSlot := func(ctx context.Context, query string, season int) *domain.Player {
		ctx, span := compareTracer.Start(ctx, "ComparePlayers.resolveSlot")
		defer span.End()

		query = strings.TrimSpace(query)
		if query == "" {
			return nil
		}

		candidates, err := searchWithOutcome(ctx, domain.SearchTermForQuery(query))
		recordOutcome(ctx, "compare_search", len(candidates) == 0, err)

		match, tier := domain.MatchPlayer(query, candidates)
		span.SetAttributes(
			attribute.Int("candidates", len(candidates)),
			attribute.String("tier", tier.String()),
		)

		if tier == domain.MatchTierNone {
			if err == nil {
				// The provider answered, there is just no such player
				return nil
			}

			logging.FromContext(ctx).InfoContext(ctx, "Provider search failed, falling back to local players", "query", query)
			span.SetAttributes(attribute.Bool("local_fallback", true))
			return findLocal(ctx, query)
		}

		player := domain.NewPlayerFromSearchResult(match, latestStats(ctx, match.ID, season))
		return &player
	}

	return func(ctx context.Context, query1, query2 string, season int) (*domain.Player, *domain.Player) {
		var player1, player2 *domain.Player

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			player1 = resolveSlot(ctx, query1, season)
		}()
		go func() {
			defer wg.Done()
			player2 = resolveSlot(ctx, query2, season)
		}()
		wg.Wait()

		return player1, player2
	}
}
