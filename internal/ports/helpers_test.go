package ports_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/nbadata/courtside/internal/ports"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func noopMiddleware(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, r)
	}
}

func newAllowedOrigins(t *testing.T) *ports.DomainSuffixes {
	t.Helper()

	allowedOrigins, err := ports.NewDomainSuffixes("courtside.app")
	require.NoError(t, err)
	return allowedOrigins
}
