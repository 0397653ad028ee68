package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/histfacts/internal/domain/ports"
	"github.com/ersonp/histfacts/internal/infrastructure/config"
)

const historyPayload = `{"result":{"data":[
	{"objectId":"abc123","date":"1453/05/29","description":"Constantinople falls","category1":"By place","category2":"Turkey"},
	{"objectId":"def456","date":"1440","description":"Printing press","category1":"By topic"}
]}}`

// executeCommand runs the root command with args and returns its stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		globalConfigDir = ""
		globalLogLevel = ""
		globalLogFormat = ""
	})

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(testContext(t))
	return out.String(), err
}

// setupProject writes a config pointing at a test Parse server.
func setupProject(t *testing.T, handler http.Handler) string {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Parse.ServerURL = server.URL + "/parse"
	cfg.Parse.ApplicationID = "test-app"
	cfg.Fetch.RetryDelay = time.Millisecond
	cfg.Log.Level = "error"
	require.NoError(t, config.Write(dir, cfg))
	return dir
}

func historyHandler(calls *atomic.Int32, failures int32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if r.URL.Path != "/parse/functions/hello" || r.Header.Get("X-Parse-Application-Id") != "test-app" {
			http.Error(w, `{"code":101,"error":"not found"}`, http.StatusNotFound)
			return
		}
		if n <= failures {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(historyPayload))
	})
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := executeCommand(t, "init", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+config.ConfigFilePath(dir))
	assert.FileExists(t, filepath.Join(dir, config.DefaultConfigDir, config.DefaultConfigFile))

	_, err = executeCommand(t, "init", "--config-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already initialized")
}

func TestFetchCommand_RequiresApplicationID(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvPrefix+"APPLICATION_ID", "")

	_, err := executeCommand(t, "fetch", "--config-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse.application_id is required")
}

func TestFetchCommand_RetriesThenPrints(t *testing.T) {
	var calls atomic.Int32
	dir := setupProject(t, historyHandler(&calls, 2))

	out, err := executeCommand(t, "fetch", "--config-dir", dir, "--format", "csv")
	require.NoError(t, err)

	assert.Equal(t, int32(3), calls.Load())
	assert.Contains(t, out, "abc123,1453/05/29,Constantinople falls")
	assert.Contains(t, out, "def456,1440,Printing press")
}

func TestFetchCommand_CategoryFilter(t *testing.T) {
	var calls atomic.Int32
	dir := setupProject(t, historyHandler(&calls, 0))

	out, err := executeCommand(t, "fetch", "--config-dir", dir, "--category", "By topic")
	require.NoError(t, err)

	assert.Contains(t, out, "Printing press")
	assert.NotContains(t, out, "Constantinople")
}

func TestFetchCommand_Exhausted(t *testing.T) {
	var calls atomic.Int32
	dir := setupProject(t, historyHandler(&calls, 100))

	_, err := executeCommand(t, "fetch", "--config-dir", dir)
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch historical data after 5 attempts.", err.Error())
	assert.Equal(t, int32(5), calls.Load())
}

func TestFetchCommand_InvalidFormat(t *testing.T) {
	_, err := executeCommand(t, "fetch", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestCategoriesCommand(t *testing.T) {
	var calls atomic.Int32
	dir := setupProject(t, historyHandler(&calls, 0))

	out, err := executeCommand(t, "categories", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "By place")
	assert.Contains(t, out, "Turkey")
	assert.Contains(t, out, "By topic")
}

func TestExportCommand(t *testing.T) {
	var calls atomic.Int32
	dir := setupProject(t, historyHandler(&calls, 0))
	output := filepath.Join(t.TempDir(), "records.md")

	out, err := executeCommand(t, "export", "--config-dir", dir, "--format", "markdown", "--output", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 records to "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total: 2 records")
}

func TestExportCommand_RequiresOutput(t *testing.T) {
	_, err := executeCommand(t, "export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output file is required")
}

func TestAttemptsCommand(t *testing.T) {
	var calls atomic.Int32
	dir := setupProject(t, historyHandler(&calls, 1))

	out, err := executeCommand(t, "attempts", "--config-dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "2 attempts, 1 failed")
	assert.Contains(t, out, "2/5  success")
	assert.Contains(t, out, "1/5  failure")
}

func TestPrintAttempts_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printAttempts(&buf, []ports.AttemptEntry{}, 0))
	assert.Equal(t, "No attempts recorded.\n", buf.String())
}

func TestPrintAttempts_Entry(t *testing.T) {
	entries := []ports.AttemptEntry{{
		CycleID:     "0123456789abcdef",
		Attempt:     1,
		MaxAttempts: 5,
		Outcome:     "failure",
		Error:       "transport error: status 503",
		Duration:    1500 * time.Microsecond,
		StartedAt:   time.Now().Add(-time.Minute),
	}}

	var buf bytes.Buffer
	require.NoError(t, printAttempts(&buf, entries, 1))

	result := buf.String()
	assert.Contains(t, result, "1 attempts, 1 failed")
	assert.Contains(t, result, "1/5  failure")
	assert.Contains(t, result, "2ms")
	assert.Contains(t, result, "1 minute ago")
	assert.Contains(t, result, "cycle 01234567")
	assert.Contains(t, result, "transport error: status 503")
}
