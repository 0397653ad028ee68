package parse

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/histfacts/internal/infrastructure/config"
)

// TestClient_Live calls a real Parse server. It runs only when
// HISTFACTS_LIVE_TEST=1 and the usual HISTFACTS_* credentials are set.
func TestClient_Live(t *testing.T) {
	if os.Getenv("HISTFACTS_LIVE_TEST") != "1" {
		t.Skip("set HISTFACTS_LIVE_TEST=1 to run against a live server")
	}

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	client, err := NewClient(cfg.Parse)
	require.NoError(t, err)

	records, err := client.FetchRecords(testContext(t))
	require.NoError(t, err)
	assert.NotNil(t, records)
	for _, r := range records {
		assert.NotEmpty(t, r.ObjectID)
	}
}
