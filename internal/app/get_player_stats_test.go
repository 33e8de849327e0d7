package app_test

import (
	"testing"

	"github.com/nbadata/courtside/internal/adapters/cache"
	"github.com/nbadata/courtside/internal/app"
	"github.com/nbadata/courtside/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGetPlayerStatsWithCache(t *testing.T) {
	t.Parallel()

	t.Run("averages games", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{
			t: t,
			stats: map[statsKey]statsResult{
				{playerID: 237, season: 2024}: {games: []domain.GameStats{
					{Pts: 20, FGA: 10, FGM: 5},
					{Pts: 30, FGA: 0, FGM: 0},
				}},
			},
		}
		getPlayerStats := app.BuildGetPlayerStatsWithCache(cache.NewBasicCache[*domain.PlayerAverageStats](), provider)

		stats := getPlayerStats(t.Context(), 237, 2024)
		require.NotNil(t, stats)
		require.Equal(t, 237, stats.PlayerID)
		require.Equal(t, 2024, stats.Season)
		require.Equal(t, 2, stats.GamesPlayed)
		require.InDelta(t, 25.0, stats.Pts, 1e-9)
		require.InDelta(t, 0.5, stats.FGPct, 1e-9)

		// Cached
		require.Equal(t, stats, getPlayerStats(t.Context(), 237, 2024))
		require.Len(t, provider.statsCallKeys(), 1)
	})

	t.Run("no games is cached as nil", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{t: t}
		getPlayerStats := app.BuildGetPlayerStatsWithCache(cache.NewBasicCache[*domain.PlayerAverageStats](), provider)

		require.Nil(t, getPlayerStats(t.Context(), 237, 2024))
		require.Nil(t, getPlayerStats(t.Context(), 237, 2024))
		require.Equal(t, []statsKey{{playerID: 237, season: 2024}}, provider.statsCallKeys())
	})

	t.Run("provider error returns nil and is not cached", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{
			t: t,
			stats: map[statsKey]statsResult{
				{playerID: 237, season: 2024}: {err: assert.AnError},
			},
		}
		getPlayerStats := app.BuildGetPlayerStatsWithCache(cache.NewBasicCache[*domain.PlayerAverageStats](), provider)

		require.Nil(t, getPlayerStats(t.Context(), 237, 2024))
		require.Nil(t, getPlayerStats(t.Context(), 237, 2024))
		require.Len(t, provider.statsCallKeys(), 2)
	})
}
