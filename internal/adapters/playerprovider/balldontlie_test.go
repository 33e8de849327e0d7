package playerprovider

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/nbadata/courtside/internal/config"
	"github.com/nbadata/courtside/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	apiKey  = "key"
	baseURL = "https://api.balldontlie.io/v1"
)

var expectedHeaders = http.Header{
	// NOTE: go's http.Header automatically camelcases the keys
	"User-Agent":    {"courtside/0.1.0 (+https://github.com/nbadata/courtside)"},
	"Authorization": {apiKey},
	"Accept":        {"application/json"},
}

type mockedResponse struct {
	statusCode int
	body       string
	err        error
}

type mockedHttpClient struct {
	t         *testing.T
	lock      sync.Mutex
	responses map[string]mockedResponse
	requested []string
}

func (m *mockedHttpClient) Do(req *http.Request) (*http.Response, error) {
	m.t.Helper()

	m.lock.Lock()
	defer m.lock.Unlock()

	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	url := req.URL.String()
	m.requested = append(m.requested, url)
	require.Equal(m.t, expectedHeaders, req.Header)

	response, ok := m.responses[url]
	require.True(m.t, ok, "unexpected request to %s", url)

	if response.err != nil {
		return nil, response.err
	}

	return &http.Response{
		StatusCode: response.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(response.body)),
	}, nil
}

func (m *mockedHttpClient) requests() []string {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]string{}, m.requested...)
}

func newMockedHttpClient(t *testing.T, responses map[string]mockedResponse) *mockedHttpClient {
	return &mockedHttpClient{
		t:         t,
		responses: responses,
	}
}

func newProvider(t *testing.T, httpClient HttpClient) PlayerProvider {
	t.Helper()
	provider, err := NewBallDontLie(httpClient, baseURL+"/", apiKey, time.Now, time.After)
	require.NoError(t, err)
	return provider
}

func ptr[T any](v T) *T {
	return &v
}

const curryPage = `{
	"data": [
		{
			"id": 115,
			"first_name": "Stephen",
			"last_name": "Curry",
			"position": "G",
			"height": "6-2",
			"weight": "185",
			"jersey_number": "30",
			"college": "Davidson",
			"team": {
				"id": 10,
				"conference": "West",
				"division": "Pacific",
				"city": "Golden State",
				"name": "Warriors",
				"full_name": "Golden State Warriors",
				"abbreviation": "GSW"
			}
		},
		{
			"id": 114,
			"first_name": "Seth",
			"last_name": "Curry",
			"position": "",
			"height": "",
			"weight": null,
			"team": {
				"id": 4,
				"city": "Charlotte",
				"name": "Hornets",
				"full_name": "Charlotte Hornets",
				"abbreviation": "CHA"
			}
		}
	],
	"meta": {"next_cursor": 116, "per_page": 25}
}`

func TestSearchPlayersPage(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		httpClient := newMockedHttpClient(t, map[string]mockedResponse{
			"https://api.balldontlie.io/v1/players?per_page=25&search=curry": {statusCode: 200, body: curryPage},
		})
		provider := newProvider(t, httpClient)

		players, nextCursor, err := provider.SearchPlayersPage(t.Context(), "curry", 25, nil)
		require.NoError(t, err)
		require.Equal(t, ptr(116), nextCursor)
		require.Equal(t, []domain.PlayerSearchResult{
			{
				ID:        115,
				FirstName: "Stephen",
				LastName:  "Curry",
				Position:  "G",
				Height:    ptr("6-2"),
				Weight:    ptr("185"),
				Team: domain.Team{
					ID:           10,
					Abbreviation: "GSW",
					City:         "Golden State",
					Name:         "Warriors",
					FullName:     "Golden State Warriors",
				},
			},
			{
				ID:        114,
				FirstName: "Seth",
				LastName:  "Curry",
				Height:    nil,
				Weight:    nil,
				Team: domain.Team{
					ID:           4,
					Abbreviation: "CHA",
					City:         "Charlotte",
					Name:         "Hornets",
					FullName:     "Charlotte Hornets",
				},
			},
		}, players)
	})

	t.Run("with cursor", func(t *testing.T) {
		t.Parallel()

		httpClient := newMockedHttpClient(t, map[string]mockedResponse{
			"https://api.balldontlie.io/v1/players?cursor=116&per_page=25&search=curry": {
				statusCode: 200,
				body:       `{"data": [], "meta": {"per_page": 25}}`,
			},
		})
		provider := newProvider(t, httpClient)

		players, nextCursor, err := provider.SearchPlayersPage(t.Context(), "curry", 25, ptr(116))
		require.NoError(t, err)
		require.Nil(t, nextCursor)
		require.Empty(t, players)
		require.NotNil(t, players)
	})

	t.Run("search term is escaped", func(t *testing.T) {
		t.Parallel()

		httpClient := newMockedHttpClient(t, map[string]mockedResponse{
			"https://api.balldontlie.io/v1/players?per_page=25&search=o%27neal": {
				statusCode: 200,
				body:       `{"data": [], "meta": {}}`,
			},
		})
		provider := newProvider(t, httpClient)

		_, _, err := provider.SearchPlayersPage(t.Context(), "o'neal", 25, nil)
		require.NoError(t, err)
	})

	errorCases := []struct {
		name        string
		response    mockedResponse
		temporarily bool
	}{
		{
			name:        "rate limited by provider",
			response:    mockedResponse{statusCode: 429, body: `Too many requests`},
			temporarily: true,
		},
		{
			name:        "server error",
			response:    mockedResponse{statusCode: 502, body: `<html>Bad gateway</html>`},
			temporarily: true,
		},
		{
			name:        "request error",
			response:    mockedResponse{err: assert.AnError},
			temporarily: true,
		},
		{
			name:        "unauthorized",
			response:    mockedResponse{statusCode: 401, body: `Unauthorized`},
			temporarily: false,
		},
		{
			name:        "malformed json",
			response:    mockedResponse{statusCode: 200, body: `{"data": [`},
			temporarily: false,
		},
		{
			name:        "wrong shape",
			response:    mockedResponse{statusCode: 200, body: `{"data": {"id": 1}}`},
			temporarily: false,
		},
	}

	for _, c := range errorCases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			httpClient := newMockedHttpClient(t, map[string]mockedResponse{
				"https://api.balldontlie.io/v1/players?per_page=25&search=curry": c.response,
			})
			provider := newProvider(t, httpClient)

			_, _, err := provider.SearchPlayersPage(t.Context(), "curry", 25, nil)
			require.Error(t, err)
			require.Equal(t, c.temporarily, errors.Is(err, domain.ErrTemporarilyUnavailable))
			if c.response.err != nil {
				require.ErrorIs(t, err, c.response.err)
			}
		})
	}
}

func TestListPlayersPage(t *testing.T) {
	t.Parallel()

	httpClient := newMockedHttpClient(t, map[string]mockedResponse{
		"https://api.balldontlie.io/v1/players?page=2&per_page=25": {statusCode: 200, body: curryPage},
	})
	provider := newProvider(t, httpClient)

	players, err := provider.ListPlayersPage(t.Context(), 25, 2)
	require.NoError(t, err)
	require.Len(t, players, 2)
	require.Equal(t, "Stephen Curry", players[0].FullName())
	require.Equal(t, "Seth Curry", players[1].FullName())
}

func TestGetGameStats(t *testing.T) {
	t.Parallel()

	const statsURL = "https://api.balldontlie.io/v1/stats?per_page=100&player_ids%5B%5D=237&seasons%5B%5D=2024"

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		httpClient := newMockedHttpClient(t, map[string]mockedResponse{
			statsURL: {statusCode: 200, body: `{
				"data": [
					{
						"id": 1, "min": "35", "fgm": 10, "fga": 20, "fg3m": 2, "fg3a": 6, "ftm": 5, "fta": 6,
						"oreb": 1, "dreb": 7, "reb": 8, "ast": 9, "stl": 1, "blk": 1, "turnover": 3, "pf": 2, "pts": 27,
						"player": {"id": 237}, "game": {"id": 1000, "season": 2024}
					},
					{
						"id": 2, "min": "00", "fgm": null, "fga": null, "fg3m": null, "fg3a": null, "ftm": null, "fta": null,
						"oreb": null, "dreb": null, "reb": null, "ast": null, "stl": null, "blk": null, "turnover": null, "pf": null, "pts": null
					}
				],
				"meta": {"per_page": 100}
			}`},
		})
		provider := newProvider(t, httpClient)

		games, err := provider.GetGameStats(t.Context(), 237, 2024)
		require.NoError(t, err)
		require.Equal(t, []domain.GameStats{
			{
				ID: 1, Min: "35", FGM: 10, FGA: 20, FG3M: 2, FG3A: 6, FTM: 5, FTA: 6,
				OReb: 1, DReb: 7, Reb: 8, Ast: 9, Stl: 1, Blk: 1, Turnover: 3, PF: 2, Pts: 27,
			},
			{ID: 2, Min: "00"},
		}, games)
	})

	t.Run("no games", func(t *testing.T) {
		t.Parallel()

		httpClient := newMockedHttpClient(t, map[string]mockedResponse{
			statsURL: {statusCode: 200, body: `{"data": [], "meta": {"per_page": 100}}`},
		})
		provider := newProvider(t, httpClient)

		games, err := provider.GetGameStats(t.Context(), 237, 2024)
		require.NoError(t, err)
		require.Empty(t, games)
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()

		httpClient := newMockedHttpClient(t, map[string]mockedResponse{
			statsURL: {statusCode: 503, body: `unavailable`},
		})
		provider := newProvider(t, httpClient)

		_, err := provider.GetGameStats(t.Context(), 237, 2024)
		require.ErrorIs(t, err, domain.ErrTemporarilyUnavailable)
	})
}

func TestCircuitBreaker(t *testing.T) {
	t.Parallel()

	const url = "https://api.balldontlie.io/v1/players?per_page=25&search=curry"

	httpClient := newMockedHttpClient(t, map[string]mockedResponse{
		url: {statusCode: 503, body: `unavailable`},
	})
	provider := newProvider(t, httpClient)

	for range 5 {
		_, _, err := provider.SearchPlayersPage(t.Context(), "curry", 25, nil)
		require.ErrorIs(t, err, domain.ErrTemporarilyUnavailable)
	}
	require.Len(t, httpClient.requests(), 5)

	// The circuit is now open, so the provider is not contacted
	_, _, err := provider.SearchPlayersPage(t.Context(), "curry", 25, nil)
	require.ErrorIs(t, err, domain.ErrTemporarilyUnavailable)
	require.Len(t, httpClient.requests(), 5)
}

func TestClientErrorsDontOpenCircuit(t *testing.T) {
	t.Parallel()

	const url = "https://api.balldontlie.io/v1/players?per_page=25&search=curry"

	httpClient := newMockedHttpClient(t, map[string]mockedResponse{
		url: {statusCode: 400, body: `bad request`},
	})
	provider := newProvider(t, httpClient)

	for range 10 {
		_, _, err := provider.SearchPlayersPage(t.Context(), "curry", 25, nil)
		require.Error(t, err)
		require.NotErrorIs(t, err, domain.ErrTemporarilyUnavailable)
	}
	require.Len(t, httpClient.requests(), 10)
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	httpClient := newMockedHttpClient(t, map[string]mockedResponse{})
	provider := newProvider(t, httpClient)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	// Either the limiter or the request gives up, the provider is never contacted successfully
	_, _, err := provider.SearchPlayersPage(ctx, "curry", 25, nil)
	require.Error(t, err)
}

// NOTE: t.Setenv is incompatible with t.Parallel
func TestNewBallDontLieOrMock(t *testing.T) {
	t.Run("development without api key", func(t *testing.T) {
		t.Setenv("COURTSIDE_ENVIRONMENT", "development")
		t.Setenv("BALLDONTLIE_API_KEY", "")

		conf, err := config.ConfigFromEnv()
		require.NoError(t, err)

		provider, err := NewBallDontLieOrMock(conf, newMockedHttpClient(t, nil))
		require.NoError(t, err)

		players, nextCursor, err := provider.SearchPlayersPage(t.Context(), "curry", 25, nil)
		require.NoError(t, err)
		require.Nil(t, nextCursor)
		require.Empty(t, players)

		games, err := provider.GetGameStats(t.Context(), 115, 2024)
		require.NoError(t, err)
		require.Empty(t, games)
	})

	t.Run("development with api key", func(t *testing.T) {
		t.Setenv("COURTSIDE_ENVIRONMENT", "development")
		t.Setenv("BALLDONTLIE_API_KEY", apiKey)
		t.Setenv("BALLDONTLIE_BASE_URL", "")

		conf, err := config.ConfigFromEnv()
		require.NoError(t, err)

		httpClient := newMockedHttpClient(t, map[string]mockedResponse{
			"https://api.balldontlie.io/v1/players?per_page=25&search=curry": {statusCode: 200, body: curryPage},
		})
		provider, err := NewBallDontLieOrMock(conf, httpClient)
		require.NoError(t, err)

		players, _, err := provider.SearchPlayersPage(t.Context(), "curry", 25, nil)
		require.NoError(t, err)
		require.Len(t, players, 2)
	})
}
