package config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/elimu-ai/elimu/pkg/document"
	"github.com/elimu-ai/elimu/pkg/processing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestParse(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "test-key")

	path := writeConfig(t, `
address: ":9090"
database: /tmp/elimu-test.db

providers:
  - type: gemini
    token: ${TEST_GEMINI_KEY}
    limit: 5
    models:
      gemini-2.5-flash:
      gemini-2.5-flash-image:

speech:
  engine: none

pipeline:
  completer: gemini-2.5-flash
  attempts: 2
  max_size: 1048576

defaults:
  simplification:
    reading_level: elementary
    language: sw
`)

	cfg, err := Parse(path)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Address)
	require.Equal(t, "/tmp/elimu-test.db", cfg.Database)
	require.Equal(t, processing.ReadingLevelElementary, cfg.Defaults.Simplification.ReadingLevel)
	require.Equal(t, "sw", cfg.Defaults.Simplification.Language)

	_, err = cfg.Completer("gemini-2.5-flash")
	require.NoError(t, err)

	_, err = cfg.Renderer("gemini-2.5-flash-image")
	require.NoError(t, err)

	_, err = cfg.Synthesizer("")
	require.Error(t, err)

	require.NotNil(t, cfg.Pipeline())
	require.NotNil(t, cfg.Visualizer())
	require.Equal(t, int64(1048576), cfg.Source().MaxSize())
	require.Nil(t, cfg.Narrator())
	require.Nil(t, cfg.Speech())
}

func TestParseDefaults(t *testing.T) {
	path := writeConfig(t, `
providers:
  - type: google
    token: test-key
    models:
      gemini-2.5-flash:
speech:
  engine: none
`)

	cfg, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, DefaultAddress, cfg.Address)
	require.Equal(t, DefaultDatabase, cfg.Database)
	require.Equal(t, document.DefaultMaxSize, cfg.Source().MaxSize())
}

func TestParsePrivateNetworks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("lesson"))
	}))

	defer server.Close()

	base := `
providers:
  - type: gemini
    token: test-key
    models:
      gemini-2.5-flash:
speech:
  engine: none
`

	cfg, err := Parse(writeConfig(t, base))
	require.NoError(t, err)

	_, err = cfg.Source().Open(context.Background(), server.URL+"/lesson.txt")
	require.ErrorIs(t, err, document.ErrPrivateAddress)

	cfg, err = Parse(writeConfig(t, base+"pipeline:\n  allow_private_networks: true\n"))
	require.NoError(t, err)

	doc, err := cfg.Source().Open(context.Background(), server.URL+"/lesson.txt")
	require.NoError(t, err)
	require.Equal(t, "lesson", string(doc.Content))
}

func TestParseUnknownField(t *testing.T) {
	path := writeConfig(t, `
providers: []
unknown: true
`)

	_, err := Parse(path)
	require.Error(t, err)
}

func TestParseWithoutCompleter(t *testing.T) {
	path := writeConfig(t, `
speech:
  engine: none
`)

	_, err := Parse(path)
	require.ErrorContains(t, err, "completer not found")
}

func TestParseSynthesizedSpeech(t *testing.T) {
	path := writeConfig(t, `
providers:
  - type: gemini
    token: test-key
    models:
      gemini-2.5-flash:
  - type: openai
    token: test-key
    models:
      gpt-4o-mini-tts:

speech:
  engine: synthesized
  synthesizer: gpt-4o-mini-tts
  player: [mpv, "-"]
`)

	cfg, err := Parse(path)
	require.NoError(t, err)

	_, err = cfg.Synthesizer("gpt-4o-mini-tts")
	require.NoError(t, err)

	require.NotNil(t, cfg.Speech())
	require.NotNil(t, cfg.Narrator())
}

func TestParseInvalidSpeechEngine(t *testing.T) {
	path := writeConfig(t, `
providers:
  - type: gemini
    token: test-key
    models:
      gemini-2.5-flash:
speech:
  engine: festival
`)

	_, err := Parse(path)
	require.ErrorContains(t, err, "invalid speech engine")
}

func TestDetectSpeechEngine(t *testing.T) {
	original := lookPath
	t.Cleanup(func() { lookPath = original })

	cfg := &Config{}

	lookPath = func(string) (string, error) { return "/usr/bin/espeak-ng", nil }
	require.Equal(t, "espeak", cfg.detectSpeechEngine(speechConfig{}))

	lookPath = func(string) (string, error) { return "", os.ErrNotExist }
	require.Equal(t, "none", cfg.detectSpeechEngine(speechConfig{}))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("EXPO_PUBLIC_GEMINI_API_KEY", "")

	_, err := FromEnv()
	require.ErrorIs(t, err, processing.ErrConfiguration)

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("ADDRESS", ":7070")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.Address)

	_, err = cfg.Completer(DefaultCompleter)
	require.NoError(t, err)

	_, err = cfg.Renderer(DefaultRenderer)
	require.NoError(t, err)
}

func TestDetectModelType(t *testing.T) {
	tests := []struct {
		provider string
		model    modelConfig
		want     modelType
	}{
		{"gemini", modelConfig{ID: "gemini-2.5-flash"}, modelTypeCompleter},
		{"gemini", modelConfig{ID: "gemini-2.5-flash-image"}, modelTypeRenderer},
		{"openai", modelConfig{ID: "gpt-4o-mini-tts"}, modelTypeSynthesizer},
		{"replicate", modelConfig{ID: "black-forest-labs/flux-schnell"}, modelTypeRenderer},
		{"gemini", modelConfig{ID: "custom", Type: "Renderer"}, modelTypeRenderer},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, detectModelType(tt.provider, tt.model), tt.model.ID)
	}
}

func TestParseAuthorizers(t *testing.T) {
	path := writeConfig(t, `
authorizers:
  - type: static
    token: secret
  - type: header
    user_header: X-Learner

providers:
  - type: gemini
    token: test-key
    models:
      gemini-2.5-flash:

speech:
  engine: none
`)

	cfg, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, cfg.Authorizers, 2)
}

func TestParseInvalidAuthorizer(t *testing.T) {
	path := writeConfig(t, `
authorizers:
  - type: static

providers:
  - type: gemini
    token: test-key
    models:
      gemini-2.5-flash:
`)

	_, err := Parse(path)
	require.Error(t, err)
}
