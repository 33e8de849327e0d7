package app_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/nbadata/courtside/internal/domain"
	"github.com/stretchr/testify/require"
)

type searchPage struct {
	players    []domain.PlayerSearchResult
	nextCursor *int
	err        error
}

type listPage struct {
	players []domain.PlayerSearchResult
	err     error
}

type statsKey struct {
	playerID int
	season   int
}

type statsResult struct {
	games []domain.GameStats
	err   error
}

type mockProvider struct {
	t *testing.T

	lock sync.Mutex

	// Pages returned for a search term, matched case-insensitively. Page n is requested with the cursor from page n-1.
	searchPages map[string][]searchPage
	searchCalls []string

	listPages []listPage
	listCalls []int

	stats      map[statsKey]statsResult
	statsCalls []statsKey
}

func (m *mockProvider) SearchPlayersPage(ctx context.Context, term string, perPage int, cursor *int) ([]domain.PlayerSearchResult, *int, error) {
	m.t.Helper()

	m.lock.Lock()
	defer m.lock.Unlock()

	m.searchCalls = append(m.searchCalls, term)

	var pages []searchPage
	for pageTerm, termPages := range m.searchPages {
		if strings.EqualFold(pageTerm, term) {
			pages = termPages
			break
		}
	}
	if len(pages) == 0 {
		return []domain.PlayerSearchResult{}, nil, nil
	}

	index := 0
	if cursor != nil {
		index = -1
		for i := 1; i < len(pages); i++ {
			if pages[i-1].nextCursor != nil && *pages[i-1].nextCursor == *cursor {
				index = i
				break
			}
		}
		require.NotEqual(m.t, -1, index, "unknown cursor %d for term %s", *cursor, term)
	}

	page := pages[index]
	return page.players, page.nextCursor, page.err
}

func (m *mockProvider) ListPlayersPage(ctx context.Context, perPage int, page int) ([]domain.PlayerSearchResult, error) {
	m.t.Helper()

	m.lock.Lock()
	defer m.lock.Unlock()

	m.listCalls = append(m.listCalls, page)

	if page-1 >= len(m.listPages) {
		return []domain.PlayerSearchResult{}, nil
	}
	result := m.listPages[page-1]
	return result.players, result.err
}

func (m *mockProvider) GetGameStats(ctx context.Context, playerID int, season int) ([]domain.GameStats, error) {
	m.t.Helper()

	m.lock.Lock()
	defer m.lock.Unlock()

	key := statsKey{playerID: playerID, season: season}
	m.statsCalls = append(m.statsCalls, key)

	result, ok := m.stats[key]
	if !ok {
		return []domain.GameStats{}, nil
	}
	return result.games, result.err
}

func (m *mockProvider) searchCallCount() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.searchCalls)
}

func (m *mockProvider) listCallPages() []int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]int{}, m.listCalls...)
}

func (m *mockProvider) statsCallKeys() []statsKey {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]statsKey{}, m.statsCalls...)
}

type mockLocalPlayers struct {
	t *testing.T

	lock sync.Mutex

	players   []domain.Player
	err       error
	calls     int
	lastTerm  string
	lastLimit int
}

func (m *mockLocalPlayers) SearchPlayers(ctx context.Context, term string, limit int) ([]domain.Player, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.calls++
	m.lastTerm = term
	m.lastLimit = limit

	if m.err != nil {
		return nil, m.err
	}

	result := []domain.Player{}
	for _, player := range m.players {
		if len(result) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(player.FullName), strings.ToLower(term)) {
			result = append(result, player)
		}
	}
	return result, nil
}

func (m *mockLocalPlayers) ListPlayers(ctx context.Context, limit int) ([]domain.Player, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.calls++
	m.lastLimit = limit

	if m.err != nil {
		return nil, m.err
	}
	if len(m.players) > limit {
		return m.players[:limit], nil
	}
	return m.players, nil
}

func (m *mockLocalPlayers) callCount() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.calls
}

func ptr[T any](v T) *T {
	return &v
}

func fullPage(firstID int, size int) []domain.PlayerSearchResult {
	players := make([]domain.PlayerSearchResult, 0, size)
	for i := range size {
		players = append(players, domain.PlayerSearchResult{
			ID:        firstID + i,
			FirstName: "Player",
			LastName:  strings.Repeat("x", i+1),
		})
	}
	return players
}
