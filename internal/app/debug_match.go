package app

import (
	"context"

	"github.com/nbadata/courtside/internal/adapters/cache"
	"github.com/nbadata/courtside/internal/domain"
)

type MatchDiagnostics struct {
	Query          string
	SearchTerm     string
	Candidates     []string
	ProviderFailed bool
	Tier           domain.MatchTier
	// nil when nothing matched
	Selected *domain.PlayerSearchResult
}

// DebugMatch explains how a compare query is resolved against the provider
type DebugMatch func(ctx context.Context, query string) MatchDiagnostics

func BuildDebugMatch(
	searchCache cache.Cache[[]domain.PlayerSearchResult],
	provider playerSearcher,
	perPage int,
	maxPages int,
) DebugMatch {
	searchWithOutcome := buildSearchPlayersWithOutcome(searchCache, provider, perPage, maxPages)

	return func(ctx context.Context, query string) MatchDiagnostics {
		term := domain.SearchTermForQuery(query)
		candidates, err := searchWithOutcome(ctx, term)
		recordOutcome(ctx, "debug_match", len(candidates) == 0, err)

		names := make([]string, 0, len(candidates))
		for _, candidate := range candidates {
			names = append(names, candidate.FullName())
		}

		diagnostics := MatchDiagnostics{
			Query:          query,
			SearchTerm:     term,
			Candidates:     names,
			ProviderFailed: err != nil,
		}

		match, tier := domain.MatchPlayer(query, candidates)
		diagnostics.Tier = tier
		if tier != domain.MatchTierNone {
			diagnostics.Selected = &match
		}

		return diagnostics
	}
}
