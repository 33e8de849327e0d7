package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nbadata/courtside/internal/adapters/cache"
	"github.com/nbadata/courtside/internal/adapters/database"
	"github.com/nbadata/courtside/internal/adapters/favoriterepository"
	"github.com/nbadata/courtside/internal/adapters/playerprovider"
	"github.com/nbadata/courtside/internal/adapters/playerrepository"
	"github.com/nbadata/courtside/internal/app"
	"github.com/nbadata/courtside/internal/config"
	"github.com/nbadata/courtside/internal/domain"
	"github.com/nbadata/courtside/internal/logging"
	"github.com/nbadata/courtside/internal/ports"
	"github.com/nbadata/courtside/internal/reporting"
	"github.com/nbadata/courtside/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	// Root certificates for minimal container images
	_ "golang.org/x/crypto/x509roots/fallback"
)

// TODO: Put in config
const PROD_DOMAIN_SUFFIX = "courtside.app"
const STAGING_DOMAIN_SUFFIX = "courtside-web.pages.dev"

const serviceName = "courtside"

func main() {
	instanceID := uuid.New().String()

	var logHandler slog.Handler = slog.NewJSONHandler(os.Stdout, nil)
	logger := slog.New(logHandler).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	config, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}

	if config.GCPProject() != "" {
		logHandler = logging.NewCloudTraceLogHandler(logHandler, config.GCPProject())
		logger = slog.New(logHandler).With("instanceID", instanceID)
	}
	logger.Info("Loaded config", "config", config.NonSensitiveString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.OTelEnabled() {
		shutdownOTel, err := telemetry.SetupOTelSDK(ctx, serviceName)
		if err != nil {
			fail("Failed to set up OpenTelemetry", "error", err.Error())
		}
		defer func() {
			err := shutdownOTel(context.Background())
			if err != nil {
				logger.Error("Failed to shut down OpenTelemetry", "error", err.Error())
			}
		}()
		logger.Info("Initialized OpenTelemetry")
	}

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(config)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	httpClient := &http.Client{
		Timeout:   config.BallDontLieTimeout(),
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	provider, err := playerprovider.NewBallDontLieOrMock(config, httpClient)
	if err != nil {
		fail("Failed to initialize balldontlie provider", "error", err.Error())
	}
	logger.Info("Initialized balldontlie provider")

	searchCache := cache.NewTTLCache[[]domain.PlayerSearchResult](5 * time.Minute)
	allPlayersCache := cache.NewTTLCache[[]domain.PlayerSearchResult](10 * time.Minute)
	statsCache := cache.NewTTLCache[*domain.PlayerAverageStats](15 * time.Minute)
	seasonsCache := cache.NewTTLCache[[]int](1 * time.Hour)

	playerRepo, favoriteRepo := initRepositories(ctx, config, logger)

	seeded, err := playerRepo.SeedIfEmpty(ctx, playerrepository.SeedPlayers())
	if err != nil {
		fail("Failed to seed local players", "error", err.Error())
	}
	logger.Info("Seeded local players", "count", seeded)

	allowedOrigins, err := ports.NewDomainSuffixes(PROD_DOMAIN_SUFFIX, STAGING_DOMAIN_SUFFIX)
	if err != nil {
		fail("Failed to initialize allowed origins", "error", err.Error())
	}

	perPage := config.BallDontLiePerPage()
	maxPages := config.BallDontLieMaxPages()

	getAllPlayers := app.BuildGetAllPlayersWithCache(allPlayersCache, provider)
	findPlayers := app.BuildFindPlayers(searchCache, provider, playerRepo, perPage, maxPages)
	browsePlayers := app.BuildBrowsePlayers(getAllPlayers, playerRepo)
	getPlayerStats := app.BuildGetPlayerStatsWithCache(statsCache, provider)
	getAvailableSeasons := app.BuildGetAvailableSeasonsWithCache(seasonsCache, config.FirstSeason(), time.Now)
	comparePlayers := app.BuildComparePlayers(searchCache, statsCache, provider, playerRepo, perPage, maxPages)
	debugMatch := app.BuildDebugMatch(searchCache, provider, perPage, maxPages)

	getLocalPlayer := app.BuildGetLocalPlayer(playerRepo)
	getLocalPlayersByIDs := app.BuildGetLocalPlayersByIDs(playerRepo)

	listFavorites := app.BuildListFavorites(favoriteRepo)
	addFavorite := app.BuildAddFavorite(favoriteRepo, time.Now)
	removeFavorite := app.BuildRemoveFavorite(favoriteRepo)

	mux := http.NewServeMux()

	corsHandler := ports.BuildCORSHandler(allowedOrigins)
	for _, pattern := range []string{
		"OPTIONS /v1/players/search",
		"OPTIONS /v1/players",
		"OPTIONS /v1/players/{id}",
		"OPTIONS /v1/players/{id}/stats",
		"OPTIONS /v1/seasons",
		"OPTIONS /v1/compare",
		"OPTIONS /v1/debug/match",
		"OPTIONS /v1/favorites",
		"OPTIONS /v1/favorites/{id}",
	} {
		mux.HandleFunc(pattern, corsHandler)
	}

	mux.HandleFunc(
		"GET /v1/players/search",
		ports.MakeSearchPlayersHandler(
			findPlayers,
			allowedOrigins,
			logger.With("port", "searchplayers"),
			sentryMiddleware,
		),
	)
	mux.HandleFunc(
		"GET /v1/players",
		ports.MakeListPlayersHandler(
			browsePlayers,
			perPage,
			maxPages,
			allowedOrigins,
			logger.With("port", "listplayers"),
			sentryMiddleware,
		),
	)
	mux.HandleFunc(
		"GET /v1/players/{id}",
		ports.MakeGetPlayerHandler(
			getLocalPlayer,
			allowedOrigins,
			logger.With("port", "getplayer"),
			sentryMiddleware,
		),
	)
	mux.HandleFunc(
		"GET /v1/players/{id}/stats",
		ports.MakeGetPlayerStatsHandler(
			getPlayerStats,
			getAvailableSeasons,
			allowedOrigins,
			logger.With("port", "getplayerstats"),
			sentryMiddleware,
		),
	)
	mux.HandleFunc(
		"GET /v1/seasons",
		ports.MakeGetSeasonsHandler(
			getAvailableSeasons,
			allowedOrigins,
			logger.With("port", "getseasons"),
			sentryMiddleware,
		),
	)
	mux.HandleFunc(
		"GET /v1/compare",
		ports.MakeComparePlayersHandler(
			comparePlayers,
			getLocalPlayersByIDs,
			getAvailableSeasons,
			allowedOrigins,
			logger.With("port", "compare"),
			sentryMiddleware,
		),
	)
	mux.HandleFunc(
		"GET /v1/debug/match",
		ports.MakeDebugMatchHandler(
			debugMatch,
			allowedOrigins,
			logger.With("port", "debugmatch"),
			sentryMiddleware,
		),
	)
	mux.HandleFunc(
		"GET /v1/favorites",
		ports.MakeListFavoritesHandler(
			listFavorites,
			allowedOrigins,
			logger.With("port", "listfavorites"),
			sentryMiddleware,
		),
	)
	mux.HandleFunc(
		"POST /v1/favorites",
		ports.MakeAddFavoriteHandler(
			addFavorite,
			allowedOrigins,
			logger.With("port", "addfavorite"),
			sentryMiddleware,
		),
	)
	mux.HandleFunc(
		"DELETE /v1/favorites/{id}",
		ports.MakeRemoveFavoriteHandler(
			removeFavorite,
			allowedOrigins,
			logger.With("port", "removefavorite"),
			sentryMiddleware,
		),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.Port()),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		if err != nil {
			logger.Error("Failed to shut down server", "error", err.Error())
		}
	}()

	logger.Info("Init complete")
	err = server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shutdown")
	} else {
		fail("Server error", "error", err.Error())
	}
}

// initRepositories connects to and migrates the database.
//
// In development the in-memory stores are used when no database is reachable.
func initRepositories(
	ctx context.Context,
	config config.Config,
	logger *slog.Logger,
) (playerrepository.PlayerRepository, favoriterepository.FavoriteRepository) {
	logger.Info("Initializing database connection")
	db, err := database.NewCloudsqlPostgresDatabase(config)
	if err != nil {
		if config.IsDevelopment() {
			logger.Warn("Database unavailable, using in-memory repositories", "error", err.Error())
			return playerrepository.NewStubPlayerRepository(), favoriterepository.NewStub()
		}
		logger.Error("Failed to initialize database connection", "error", err.Error())
		os.Exit(1)
	}
	logger.Info("Initialized database connection")

	schemaName := database.GetSchemaName(!config.IsProduction())

	err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(ctx, schemaName)
	if err != nil {
		logger.Error("Failed to migrate database", "error", err.Error())
		os.Exit(1)
	}

	playerRepo := playerrepository.NewPostgresPlayerRepository(db, schemaName)
	favoriteRepo := favoriterepository.NewPostgres(db, schemaName)
	logger.Info("Initialized repositories", "schema", schemaName)

	return playerRepo, favoriteRepo
}
