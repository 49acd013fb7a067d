package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/elimu-ai/elimu/config"
	"github.com/elimu-ai/elimu/pkg/store"

	"github.com/stretchr/testify/require"
)

const testConfig = `
providers:
  - type: gemini
    token: test-key
    models:
      gemini-2.5-flash:
speech:
  engine: none
`

func newTestServer(t *testing.T, tokens ...string) *httptest.Server {
	t.Helper()

	content := testConfig

	if len(tokens) > 0 {
		content += "authorizers:\n"

		for _, token := range tokens {
			content += "  - type: static\n    token: " + token + "\n"
		}
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Parse(path)
	require.NoError(t, err)

	st, err := store.Open(filepath.Join(t.TempDir(), "elimu.db"))
	require.NoError(t, err)

	t.Cleanup(func() { st.Close() })

	s, err := New(cfg, st, "test")
	require.NoError(t, err)

	server := httptest.NewServer(s)
	t.Cleanup(server.Close)

	return server
}

func TestRoutes(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/v1/samples")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/v1/voices")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	server := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, server.URL+"/v1/notes", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestAuthorization(t *testing.T) {
	server := newTestServer(t, "secret")

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/v1/samples")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/v1/samples", nil)
	req.Header.Set("Authorization", "Bearer secret")

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
