package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical-scoring-mcp-server/internal/config"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func writeConfig(t *testing.T, body string) *config.Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	cm, err := config.NewManager(config.WithConfigFile(path))
	require.NoError(t, err)
	require.NoError(t, cm.Validate())
	return cm
}

func TestBuild_Embedded(t *testing.T) {
	dir := t.TempDir()
	cm := writeConfig(t, `
audit:
  backend: sqlite
  sqlite_path: `+filepath.Join(dir, "audit.db")+`
rate_limit:
  enabled: false
`)

	a, err := Build(context.Background(), cm, quietLogger())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.MCP)
	ts := httptest.NewServer(a.API.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(ts.URL + "/api/v1/trials/defuse-3/summary")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	page, err := a.Service.ListAudit(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestBuild_MCPOverHTTP(t *testing.T) {
	cm := writeConfig(t, `
audit:
  backend: none
rate_limit:
  enabled: false
`)

	a, err := Build(context.Background(), cm, quietLogger())
	require.NoError(t, err)
	defer a.Close()

	ts := httptest.NewServer(a.API.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: ts.URL + "/mcp"}, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "summarize_rates",
		Arguments: map[string]any{"treatment_rate": 20.0, "control_rate": 10.0},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	assert.Contains(t, out, "outcome")
	assert.NotEmpty(t, out["display"])
}

func TestBuild_MissingTrialsFile(t *testing.T) {
	cm := writeConfig(t, `
content:
  source: file
  trials_file: /nonexistent/trials.yaml
audit:
  backend: none
`)

	a, err := Build(context.Background(), cm, quietLogger())
	assert.Error(t, err)
	assert.Nil(t, a)
}

func TestBuild_UnreachableRedis(t *testing.T) {
	cm := writeConfig(t, `
cache:
  redis_url: redis://127.0.0.1:1/0
  max_retries: 1
audit:
  backend: none
`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := Build(ctx, cm, quietLogger())
	assert.Error(t, err)
}
