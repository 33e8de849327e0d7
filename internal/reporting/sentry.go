package reporting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/nbadata/courtside/internal/config"
	"github.com/nbadata/courtside/internal/logging"
	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
)

var uuidRx = regexp.MustCompile(`[0-9a-f]{8}-?([0-9a-f]{4}-?){3}[0-9a-f]{12}`)
var hostRx = regexp.MustCompile(`\[:{0,2}([0-9a-f]{0,4}:?){1,8}\]:\d+`)

// Provider query parameters that vary per request
var searchRx = regexp.MustCompile(`([?&]search=)[^&"\s]+`)
var cursorRx = regexp.MustCompile(`([?&]cursor=)\d+`)
var pageRx = regexp.MustCompile(`([?&]page=)\d+`)
var playerIDsRx = regexp.MustCompile(`([?&]player_ids(?:\[\]|%5B%5D)=)\d+`)
var seasonsRx = regexp.MustCompile(`([?&]seasons(?:\[\]|%5B%5D)=)\d+`)

// sanitizeError strips request specific values from an error message so similar errors are
// grouped together
func sanitizeError(err string) string {
	err = uuidRx.ReplaceAllString(err, "<uuid>")
	err = hostRx.ReplaceAllString(err, "<host>")
	err = searchRx.ReplaceAllString(err, "${1}<term>")
	err = cursorRx.ReplaceAllString(err, "${1}<cursor>")
	err = pageRx.ReplaceAllString(err, "${1}<page>")
	err = playerIDsRx.ReplaceAllString(err, "${1}<id>")
	err = seasonsRx.ReplaceAllString(err, "${1}<season>")
	return err
}

// applyMeta copies the request meta and the given extras onto a Sentry scope
func applyMeta(scope *sentry.Scope, meta ReportingMeta, extras []map[string]string) {
	scope.SetTags(meta.tags)
	for key, value := range meta.extras {
		scope.SetExtra(key, value)
	}
	for _, extra := range extras {
		for key, value := range extra {
			scope.SetExtra(key, value)
		}
	}

	if meta.userID != "" {
		scope.SetUser(sentry.User{ID: meta.userID})
	}
	if !meta.startedAt.IsZero() {
		scope.SetExtra("secondsSinceStart", time.Since(meta.startedAt).Seconds())
	}
}

// Report logs err and sends it to Sentry along with the reporting meta stored in ctx.
//
// Outside of a Sentry instrumented request the error is only logged.
func Report(ctx context.Context, err error, extras ...map[string]string) {
	if err == nil {
		err = errors.New("no error provided")
	}

	logger := logging.FromContext(ctx)
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		logger.WarnContext(ctx, "No Sentry hub in context, error not reported", slog.String("error", err.Error()), slog.Any("extras", extras))
		return
	}

	logger.ErrorContext(ctx, "Reporting error to Sentry", slog.String("error", err.Error()), slog.Any("extras", extras))

	hub.WithScope(func(scope *sentry.Scope) {
		applyMeta(scope, MetaFromContext(ctx), extras)
		scope.SetFingerprint([]string{"{{ default }}", sanitizeError(err.Error())})
		hub.CaptureException(err)
	})
}

// NewAddMetaMiddleware tags errors reported during the request with the handler name
func NewAddMetaMiddleware(handlerName string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx := AddTagsToContext(r.Context(), map[string]string{"handler": handlerName})

			if userID := r.Header.Get("X-User-Id"); userID != "" {
				ctx = SetUserIDInContext(ctx, userID)
			}

			next(w, r.WithContext(ctx))
		}
	}
}

// addMetaMiddleware tags errors with the route and the client, and starts the request timer
func addMetaMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userAgent := r.UserAgent()
		if userAgent == "" {
			userAgent = "<missing>"
		}

		// The mux pattern groups requests for different players under one route
		route := r.Pattern
		if route == "" {
			route = fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}

		ctx := AddTagsToContext(r.Context(), map[string]string{
			"userAgent": userAgent,
			"route":     route,
		})
		ctx = setStartedAtInContext(ctx, time.Now())

		next(w, r.WithContext(ctx))
	}
}

// InitSentryMiddleware sets up the Sentry client and returns a middleware attaching a hub to each
// request, along with a function flushing buffered events
func InitSentryMiddleware(sentryDSN string, environment string) (func(http.HandlerFunc) http.HandlerFunc, func(), error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              sentryDSN,
		Environment:      environment,
		EnableTracing:    true,
		TracesSampleRate: 1.0 / 100.0,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	sentryHandler := sentryhttp.New(sentryhttp.Options{})

	middleware := func(next http.HandlerFunc) http.HandlerFunc {
		return sentryHandler.HandleFunc(addMetaMiddleware(next))
	}

	flush := func() {
		sentry.Flush(5 * time.Second)
	}

	return middleware, flush, nil
}

func NewSentryMiddlewareOrMock(config config.Config) (func(http.HandlerFunc) http.HandlerFunc, func(), error) {
	if config.SentryDSN() != "" {
		return InitSentryMiddleware(config.SentryDSN(), config.Environment())
	}

	if !config.IsDevelopment() {
		return nil, nil, fmt.Errorf("missing Sentry DSN in %s environment", config.Environment())
	}

	passthrough := func(next http.HandlerFunc) http.HandlerFunc {
		return next
	}
	return passthrough, func() {}, nil
}
