package domaintest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewUserID returns a fresh X-User-Id value, so tests sharing a database don't see each other's favorites
func NewUserID(t *testing.T) string {
	t.Helper()

	id, err := uuid.NewRandom()
	require.NoError(t, err)
	return id.String()
}
