package logging

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// NewCloudTraceLogHandler wraps a slog.Handler, tagging records with the active span so Cloud
// Logging can link them to Cloud Trace.
//
// NOTE: Only the *Context slog methods carry the span.
func NewCloudTraceLogHandler(base slog.Handler, project string) slog.Handler {
	return &cloudTraceLogHandler{base: base, project: project}
}

type cloudTraceLogHandler struct {
	base    slog.Handler
	project string
}

func (h *cloudTraceLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *cloudTraceLogHandler) Handle(ctx context.Context, r slog.Record) error {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return h.base.Handle(ctx, r)
	}

	// https://cloud.google.com/logging/docs/structured-logging#special-payload-fields
	r.AddAttrs(
		slog.String("logging.googleapis.com/trace", fmt.Sprintf("projects/%s/traces/%s", h.project, sc.TraceID())),
		slog.String("logging.googleapis.com/spanId", sc.SpanID().String()),
		slog.Bool("logging.googleapis.com/trace_sampled", sc.IsSampled()),
	)
	return h.base.Handle(ctx, r)
}

func (h *cloudTraceLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &cloudTraceLogHandler{base: h.base.WithAttrs(attrs), project: h.project}
}

func (h *cloudTraceLogHandler) WithGroup(name string) slog.Handler {
	return &cloudTraceLogHandler{base: h.base.WithGroup(name), project: h.project}
}
