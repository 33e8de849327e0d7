package playerprovider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nbadata/courtside/internal/config"
	"github.com/nbadata/courtside/internal/constants"
	"github.com/nbadata/courtside/internal/domain"
	"github.com/nbadata/courtside/internal/logging"
	"github.com/nbadata/courtside/internal/ratelimiting"
	"github.com/nbadata/courtside/internal/reporting"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Requests per minute on the ALL-STAR tier
	requestLimit  = 60
	requestWindow = time.Minute

	// Expected upper bound on a single request, used to give up early when a deadline can't be met
	expectedRequestTime = 2 * time.Second

	statsPerPage = 100

	// Largest response body we are willing to read
	maxResponseSize = 10 << 20
)

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type ballDontLie struct {
	httpClient HttpClient
	baseURL    string
	apiKey     string

	limiter *ratelimiting.WindowLimiter
	breaker *gobreaker.CircuitBreaker

	tracer  trace.Tracer
	metrics ballDontLieMetricsCollection
}

// NewBallDontLie creates a PlayerProvider backed by the balldontlie.io API
func NewBallDontLie(
	httpClient HttpClient,
	baseURL string,
	apiKey string,
	nowFunc func() time.Time,
	afterFunc func(time.Duration) <-chan time.Time,
) (PlayerProvider, error) {
	metrics, err := setupBallDontLieMetrics(otel.Meter("courtside/playerprovider/balldontlie"))
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	return &ballDontLie{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,

		limiter: ratelimiting.NewWindowLimiter(requestLimit, requestWindow, nowFunc, afterFunc),
		breaker: newCircuitBreaker("balldontlie"),

		tracer:  otel.Tracer("courtside/playerprovider/balldontlie"),
		metrics: metrics,
	}, nil
}

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			// Only provider side problems should open the circuit
			return err == nil || !errors.Is(err, domain.ErrTemporarilyUnavailable)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Default().Warn(
				"Provider circuit breaker state changed",
				"provider", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

func (b *ballDontLie) SearchPlayersPage(ctx context.Context, term string, perPage int, cursor *int) ([]domain.PlayerSearchResult, *int, error) {
	ctx, span := b.tracer.Start(ctx, "BallDontLie.SearchPlayersPage")
	defer span.End()

	query := url.Values{}
	query.Set("search", term)
	query.Set("per_page", strconv.Itoa(perPage))
	if cursor != nil {
		query.Set("cursor", strconv.Itoa(*cursor))
	}

	data, err := b.get(ctx, "search", "/players", query)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	players, nextCursor, err := playersFromResponse(data)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		reporting.Report(ctx, err, map[string]string{
			"term": term,
			"data": truncate(string(data), 1000),
		})
		return nil, nil, err
	}

	span.SetAttributes(attribute.Int("players", len(players)))
	return players, nextCursor, nil
}

func (b *ballDontLie) ListPlayersPage(ctx context.Context, perPage int, page int) ([]domain.PlayerSearchResult, error) {
	ctx, span := b.tracer.Start(ctx, "BallDontLie.ListPlayersPage")
	defer span.End()

	query := url.Values{}
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("page", strconv.Itoa(page))

	data, err := b.get(ctx, "list", "/players", query)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	players, _, err := playersFromResponse(data)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		reporting.Report(ctx, err, map[string]string{
			"page": strconv.Itoa(page),
			"data": truncate(string(data), 1000),
		})
		return nil, err
	}

	span.SetAttributes(attribute.Int("players", len(players)))
	return players, nil
}

func (b *ballDontLie) GetGameStats(ctx context.Context, playerID int, season int) ([]domain.GameStats, error) {
	ctx, span := b.tracer.Start(ctx, "BallDontLie.GetGameStats")
	defer span.End()
	span.SetAttributes(attribute.Int("player_id", playerID), attribute.Int("season", season))

	query := url.Values{}
	query.Set("seasons[]", strconv.Itoa(season))
	query.Set("player_ids[]", strconv.Itoa(playerID))
	query.Set("per_page", strconv.Itoa(statsPerPage))

	data, err := b.get(ctx, "stats", "/stats", query)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	games, err := gameStatsFromResponse(data)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		reporting.Report(ctx, err, map[string]string{
			"playerID": strconv.Itoa(playerID),
			"season":   strconv.Itoa(season),
			"data":     truncate(string(data), 1000),
		})
		return nil, err
	}

	span.SetAttributes(attribute.Int("games", len(games)))
	return games, nil
}

// get performs a rate limited GET request through the circuit breaker, returning the body of a
// successful response
func (b *ballDontLie) get(ctx context.Context, endpoint string, path string, query url.Values) ([]byte, error) {
	logger := logging.FromContext(ctx)
	requestURL := fmt.Sprintf("%s%s?%s", b.baseURL, path, query.Encode())

	var data []byte
	var err error
	ran := b.limiter.Limit(ctx, expectedRequestTime, func() {
		var result any
		result, err = b.breaker.Execute(func() (any, error) {
			return b.doRequest(ctx, requestURL)
		})
		if err == nil {
			data, _ = result.([]byte)
		}
	})

	status := "ok"
	switch {
	case !ran:
		status = "rate_limited"
		err = fmt.Errorf("%w: request to %s was rate limited", domain.ErrTemporarilyUnavailable, requestURL)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		status = "circuit_open"
		err = fmt.Errorf("%w: %w", domain.ErrTemporarilyUnavailable, err)
	case err != nil:
		status = "error"
	}

	b.metrics.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("status", status),
	))

	if err != nil {
		logger.ErrorContext(ctx, "Provider request failed", "endpoint", endpoint, "status", status, "error", err)
		reporting.Report(ctx, err, map[string]string{
			"endpoint": endpoint,
			"status":   status,
		})
		return nil, err
	}

	return data, nil
}

func (b *ballDontLie) doRequest(ctx context.Context, requestURL string) ([]byte, error) {
	logger := logging.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", constants.USER_AGENT)
	req.Header.Set("Authorization", b.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request: %w", domain.ErrTemporarilyUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", domain.ErrTemporarilyUnavailable, err)
	}

	logger.InfoContext(ctx, "Provider request completed", "status", resp.StatusCode, "duration", time.Since(start).String())

	switch {
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: provider returned status code %d", domain.ErrTemporarilyUnavailable, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("provider returned status code %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	return data, nil
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}

type ballDontLieMetricsCollection struct {
	requestCount metric.Int64Counter
}

func setupBallDontLieMetrics(meter metric.Meter) (ballDontLieMetricsCollection, error) {
	requestCount, err := meter.Int64Counter(
		"playerprovider/balldontlie/request_count",
		metric.WithDescription("Requests sent to balldontlie by endpoint and status"),
	)
	if err != nil {
		return ballDontLieMetricsCollection{}, fmt.Errorf("failed to create metric: %w", err)
	}

	return ballDontLieMetricsCollection{
		requestCount: requestCount,
	}, nil
}

// NewBallDontLieOrMock uses the real provider when an API key is configured.
//
// In development without an API key a provider with no players is used, so lookups fall back to
// the local player store.
func NewBallDontLieOrMock(config config.Config, httpClient HttpClient) (PlayerProvider, error) {
	if config.BallDontLieAPIKey() != "" {
		return NewBallDontLie(httpClient, config.BallDontLieBaseURL(), config.BallDontLieAPIKey(), time.Now, time.After)
	}
	if config.IsDevelopment() {
		return &emptyPlayerProvider{}, nil
	}
	return nil, fmt.Errorf("missing balldontlie API key in non-development environment")
}

type emptyPlayerProvider struct{}

func (p *emptyPlayerProvider) SearchPlayersPage(ctx context.Context, term string, perPage int, cursor *int) ([]domain.PlayerSearchResult, *int, error) {
	return []domain.PlayerSearchResult{}, nil, nil
}

func (p *emptyPlayerProvider) ListPlayersPage(ctx context.Context, perPage int, page int) ([]domain.PlayerSearchResult, error) {
	return []domain.PlayerSearchResult{}, nil
}

func (p *emptyPlayerProvider) GetGameStats(ctx context.Context, playerID int, season int) ([]domain.GameStats, error) {
	return []domain.GameStats{}, nil
}
