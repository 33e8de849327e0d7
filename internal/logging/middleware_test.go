package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nbadata/courtside/internal/logging"
	"github.com/stretchr/testify/require"
)

type StringAttr struct {
	Key   string
	Value string
}

func TestRequestLoggerMiddleware(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, request *http.Request) ([]StringAttr, string, *httptest.ResponseRecorder) {
		t.Helper()

		buf := &bytes.Buffer{}
		middleware := logging.NewRequestLoggerMiddleware(slog.New(slog.NewJSONHandler(buf, nil)))

		handler := middleware(func(w http.ResponseWriter, r *http.Request) {
			logging.FromContext(r.Context()).Info("test")
		})

		w := httptest.NewRecorder()
		handler(w, request)

		var logEntry map[string]any
		err := json.Unmarshal(buf.Bytes(), &logEntry)
		require.NoError(t, err)
		attrs := make([]StringAttr, 0)

		correlationID := ""
		foundBase := 0
		for key, value := range logEntry {
			switch key {
			case "msg":
				require.Equal(t, "test", value)
				foundBase++
			case "level":
				require.Equal(t, "INFO", value)
				foundBase++
			case "time":
				foundBase++
			case "correlationID":
				str, ok := value.(string)
				require.True(t, ok)
				correlationID = str
				foundBase++
			default:
				str, ok := value.(string)
				require.True(t, ok)
				attrs = append(attrs, StringAttr{Key: key, Value: str})
			}
		}

		require.Equal(t, 4, foundBase)

		return attrs, correlationID, w
	}

	t.Run("all props", func(t *testing.T) {
		t.Parallel()

		request := httptest.NewRequest(http.MethodGet, "http://example.com/v1/compare?player1=LeBron+James", nil)
		request.Header.Set("X-User-Id", "user-id")
		request.Header.Set("User-Agent", "user-agent/1.0")
		request.Header.Set("X-Correlation-Id", "my-correlation-id")

		attrs, correlationID, w := run(t, request)

		require.ElementsMatch(t, []StringAttr{
			{Key: "userId", Value: "user-id"},
			{Key: "userAgent", Value: "user-agent/1.0"},
			{Key: "methodPath", Value: "GET /v1/compare"},
		}, attrs)
		require.Equal(t, "my-correlation-id", correlationID)
		require.Equal(t, "my-correlation-id", w.Header().Get("X-Correlation-Id"))
	})

	t.Run("missing props", func(t *testing.T) {
		t.Parallel()

		request := httptest.NewRequest(http.MethodPost, "http://example.com/v1/favorites", nil)
		request.Header.Del("User-Agent")

		attrs, correlationID, w := run(t, request)

		require.ElementsMatch(t, []StringAttr{
			{Key: "userId", Value: "<missing>"},
			{Key: "userAgent", Value: "<missing>"},
			{Key: "methodPath", Value: "POST /v1/favorites"},
		}, attrs)
		require.Len(t, correlationID, 36, "generated correlation id should be a uuid")
		require.Equal(t, correlationID, w.Header().Get("X-Correlation-Id"))
	})

	t.Run("without middleware", func(t *testing.T) {
		t.Parallel()

		logging.FromContext(t.Context()).Info("don't crash when no logger in context")
	})
}
