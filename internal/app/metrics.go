package app

import (
	"context"
	"fmt"

	"github.com/nbadata/courtside/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type outcome string

const (
	outcomeOK    outcome = "ok"
	outcomeEmpty outcome = "empty"
	outcomeError outcome = "error"
)

type appMetricsCollection struct {
	providerOutcomes metric.Int64Counter
}

var metrics appMetricsCollection

func init() {
	meter := otel.Meter("courtside/app")

	providerOutcomes, err := meter.Int64Counter(
		"app/provider_outcome_count",
		metric.WithDescription("Results of provider backed operations by outcome"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create provider outcome metric: %w", err))
	}

	metrics = appMetricsCollection{
		providerOutcomes: providerOutcomes,
	}
}

// recordOutcome counts the outcome of a provider backed operation and logs failures that are
// about to be collapsed into an empty result.
//
// NOTE: The provider reports its own errors to Sentry.
func recordOutcome(ctx context.Context, operation string, empty bool, err error) {
	result := outcomeOK
	switch {
	case err != nil:
		result = outcomeError
		logging.FromContext(ctx).WarnContext(ctx, "Provider operation failed, returning partial or empty result", "operation", operation, "error", err.Error())
	case empty:
		result = outcomeEmpty
	}

	metrics.providerOutcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", string(result)),
	))
}
