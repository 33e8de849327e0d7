package app_test

import (
	"testing"

	"github.com/nbadata/courtside/internal/adapters/cache"
	"github.com/nbadata/courtside/internal/app"
	"github.com/nbadata/courtside/internal/domain"
	"github.com/nbadata/courtside/internal/domaintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFindPlayers(t *testing.T) {
	t.Parallel()

	lebron := domaintest.NewPlayerBuilder(237, "LeBron", "James").WithTeam("LAL").WithPosition("F").Build()
	mike := domaintest.NewPlayerBuilder(2391, "Mike", "James").Build()
	bronny := domaintest.NewPlayerBuilder(1000, "Bronny", "James").Build()

	localLebron := domain.Player{ID: 237, FullName: "LeBron James", Team: "LAL", Position: "F", Source: domain.PlayerSourceLocal}

	build := func(provider *mockProvider, local *mockLocalPlayers) app.FindPlayers {
		return app.BuildFindPlayers(cache.NewBasicCache[[]domain.PlayerSearchResult](), provider, local, 25, 3)
	}

	t.Run("filters provider candidates by every word", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{
			t: t,
			searchPages: map[string][]searchPage{
				"James": {{players: []domain.PlayerSearchResult{mike, lebron, bronny}}},
			},
		}
		local := &mockLocalPlayers{t: t}
		findPlayers := build(provider, local)

		require.Equal(t, []domain.PlayerSummary{
			{ID: 237, FullName: "LeBron James", Team: "LAL", Position: "F", Source: domain.PlayerSourceProvider},
		}, findPlayers(t.Context(), "lebron james", 10))
		require.Equal(t, 0, local.callCount())
	})

	t.Run("limit", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{
			t: t,
			searchPages: map[string][]searchPage{
				"James": {{players: []domain.PlayerSearchResult{mike, lebron, bronny}}},
			},
		}
		findPlayers := build(provider, &mockLocalPlayers{t: t})

		players := findPlayers(t.Context(), "James", 2)
		require.Len(t, players, 2)
		require.Equal(t, 2391, players[0].ID)
		require.Equal(t, 237, players[1].ID)
	})

	t.Run("provider failure falls back to local", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{
			t: t,
			searchPages: map[string][]searchPage{
				"James": {{err: assert.AnError}},
			},
		}
		local := &mockLocalPlayers{t: t, players: []domain.Player{localLebron}}
		findPlayers := build(provider, local)

		require.Equal(t, []domain.PlayerSummary{
			{ID: 237, FullName: "LeBron James", Team: "LAL", Position: "F", Source: domain.PlayerSourceLocal},
		}, findPlayers(t.Context(), "LeBron James", 10))
		require.Equal(t, 1, local.callCount())
		require.Equal(t, 10, local.lastLimit)
	})

	t.Run("no provider matches falls back to local", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{t: t}
		local := &mockLocalPlayers{t: t, players: []domain.Player{localLebron}}
		findPlayers := build(provider, local)

		players := findPlayers(t.Context(), "lebron", 10)
		require.Len(t, players, 1)
		require.Equal(t, domain.PlayerSourceLocal, players[0].Source)
	})

	t.Run("local failure is empty", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{t: t}
		local := &mockLocalPlayers{t: t, err: assert.AnError}
		findPlayers := build(provider, local)

		players := findPlayers(t.Context(), "lebron", 10)
		require.NotNil(t, players)
		require.Empty(t, players)
	})
}

func TestBuildBrowsePlayers(t *testing.T) {
	t.Parallel()

	build := func(provider *mockProvider, local *mockLocalPlayers) app.BrowsePlayers {
		getAllPlayers := app.BuildGetAllPlayersWithCache(cache.NewBasicCache[[]domain.PlayerSearchResult](), provider)
		return app.BuildBrowsePlayers(getAllPlayers, local)
	}

	t.Run("provider players", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{
			t: t,
			listPages: []listPage{
				{players: fullPage(1, 2)},
			},
		}
		local := &mockLocalPlayers{t: t}
		browsePlayers := build(provider, local)

		players := browsePlayers(t.Context(), 2, 1)
		require.Len(t, players, 2)
		require.Equal(t, domain.PlayerSummary{ID: 1, FullName: "Player x", Source: domain.PlayerSourceProvider}, players[0])
		require.Equal(t, 0, local.callCount())
	})

	t.Run("provider failure falls back to local", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{
			t: t,
			listPages: []listPage{
				{err: assert.AnError},
			},
		}
		local := &mockLocalPlayers{
			t: t,
			players: []domain.Player{
				{ID: 1, FullName: "A", Source: domain.PlayerSourceLocal},
				{ID: 2, FullName: "B", Source: domain.PlayerSourceLocal},
				{ID: 3, FullName: "C", Source: domain.PlayerSourceLocal},
			},
		}
		browsePlayers := build(provider, local)

		players := browsePlayers(t.Context(), 1, 2)
		require.Len(t, players, 2)
		require.Equal(t, domain.PlayerSourceLocal, players[0].Source)
		require.Equal(t, 2, local.lastLimit)
	})

	t.Run("local failure is empty", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{t: t}
		local := &mockLocalPlayers{t: t, err: assert.AnError}
		browsePlayers := build(provider, local)

		players := browsePlayers(t.Context(), 25, 3)
		require.NotNil(t, players)
		require.Empty(t, players)
	})
}
