package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

const (
	defaultPort                = "8080"
	defaultBallDontLieBaseURL  = "https://api.balldontlie.io/v1"
	defaultBallDontLieTimeout  = 30 * time.Second
	defaultBallDontLieMaxPages = 3
	defaultBallDontLiePerPage  = 25
	defaultFirstSeason         = 2015
)

type Config struct {
	port string

	ballDontLieBaseURL  string
	ballDontLieAPIKey   string
	ballDontLieTimeout  time.Duration
	ballDontLieMaxPages int
	ballDontLiePerPage  int

	firstSeason int

	cloudSQLUnixSocketPath string
	dBPassword             string
	dBUsername             string

	sentryDSN string

	otelEnabled bool
	gcpProject  string

	env environment
}

func (c *Config) Port() string {
	return c.port
}

func (c *Config) BallDontLieBaseURL() string {
	return c.ballDontLieBaseURL
}

func (c *Config) BallDontLieAPIKey() string {
	return c.ballDontLieAPIKey
}

func (c *Config) BallDontLieTimeout() time.Duration {
	return c.ballDontLieTimeout
}

// BallDontLieMaxPages is the page limit for cursor paginated player searches
func (c *Config) BallDontLieMaxPages() int {
	return c.ballDontLieMaxPages
}

func (c *Config) BallDontLiePerPage() int {
	return c.ballDontLiePerPage
}

// FirstSeason is the oldest season offered by the season list
func (c *Config) FirstSeason() int {
	return c.firstSeason
}

func (c *Config) CloudSQLUnixSocketPath() string {
	return c.cloudSQLUnixSocketPath
}

func (c *Config) DBPassword() string {
	return c.dBPassword
}

func (c *Config) DBUsername() string {
	return c.dBUsername
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

func (c *Config) OTelEnabled() bool {
	return c.otelEnabled
}

// GCPProject is used to link log lines to Cloud Trace. Empty when not running on GCP.
func (c *Config) GCPProject() string {
	return c.gcpProject
}

// Environment is one of production, staging or development
func (c *Config) Environment() string {
	return string(c.env)
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf(
		"Config{env: %s, port: %s, ballDontLieBaseURL: %s, ballDontLieTimeout: %s, ballDontLieMaxPages: %d, ballDontLiePerPage: %d, firstSeason: %d, otelEnabled: %t, ...}",
		string(c.env),
		c.port,
		c.ballDontLieBaseURL,
		c.ballDontLieTimeout,
		c.ballDontLieMaxPages,
		c.ballDontLiePerPage,
		c.firstSeason,
		c.otelEnabled,
	)
}

func positiveIntFromEnv(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s (%s)", ErrInvalidValue, key, raw)
	}
	return value, nil
}

func boolFromEnv(key string) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return false, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s (%s)", ErrInvalidValue, key, raw)
	}
	return value, nil
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}

	var env environment
	rawEnv, ok := os.LookupEnv("COURTSIDE_ENVIRONMENT")
	if !ok {
		return missingKey("COURTSIDE_ENVIRONMENT")
	}
	switch rawEnv {
	case "production":
		env = production
	case "staging":
		env = staging
	case "development":
		env = development
	default:
		return Config{}, fmt.Errorf("%w: COURTSIDE_ENVIRONMENT (%s)", ErrInvalidValue, rawEnv)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	ballDontLieBaseURL := os.Getenv("BALLDONTLIE_BASE_URL")
	if ballDontLieBaseURL == "" {
		ballDontLieBaseURL = defaultBallDontLieBaseURL
	}
	ballDontLieAPIKey := os.Getenv("BALLDONTLIE_API_KEY")

	timeoutSeconds, err := positiveIntFromEnv("BALLDONTLIE_TIMEOUT_SECONDS", int(defaultBallDontLieTimeout/time.Second))
	if err != nil {
		return Config{}, err
	}
	maxPages, err := positiveIntFromEnv("BALLDONTLIE_MAX_PAGES", defaultBallDontLieMaxPages)
	if err != nil {
		return Config{}, err
	}
	perPage, err := positiveIntFromEnv("BALLDONTLIE_PER_PAGE", defaultBallDontLiePerPage)
	if err != nil {
		return Config{}, err
	}
	firstSeason, err := positiveIntFromEnv("FIRST_SEASON", defaultFirstSeason)
	if err != nil {
		return Config{}, err
	}

	otelEnabled, err := boolFromEnv("OTEL_ENABLED")
	if err != nil {
		return Config{}, err
	}

	cloudSQLUnixSocketPath := os.Getenv("CLOUDSQL_UNIX_SOCKET")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbUsername := os.Getenv("DB_USERNAME")
	sentryDSN := os.Getenv("SENTRY_DSN")
	gcpProject := os.Getenv("GOOGLE_CLOUD_PROJECT")

	if env == production || env == staging {
		if ballDontLieAPIKey == "" {
			return missingKey("BALLDONTLIE_API_KEY")
		}
		if cloudSQLUnixSocketPath == "" {
			return missingKey("CLOUDSQL_UNIX_SOCKET")
		}
		if dbUsername == "" {
			return missingKey("DB_USERNAME")
		}
		if dbPassword == "" {
			return missingKey("DB_PASSWORD")
		}
		if sentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
	}

	return Config{
		port: port,

		ballDontLieBaseURL:  ballDontLieBaseURL,
		ballDontLieAPIKey:   ballDontLieAPIKey,
		ballDontLieTimeout:  time.Duration(timeoutSeconds) * time.Second,
		ballDontLieMaxPages: maxPages,
		ballDontLiePerPage:  perPage,

		firstSeason: firstSeason,

		cloudSQLUnixSocketPath: cloudSQLUnixSocketPath,
		dBPassword:             dbPassword,
		dBUsername:             dbUsername,

		sentryDSN: sentryDSN,

		otelEnabled: otelEnabled,
		gcpProject:  gcpProject,

		env: env,
	}, nil
}
