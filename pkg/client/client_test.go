package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/pkg/store"
	"github.com/elimu-ai/elimu/server/api"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type mockProcessor struct {
	calls int

	content string
	config  *processing.Config
}

func (m *mockProcessor) Process(ctx context.Context, ref string, config *processing.Config) (*processing.Result, error) {
	m.calls++
	m.config = config

	if data, err := os.ReadFile(ref); err == nil {
		m.content = string(data)
	}

	return &processing.Result{
		Text: "Simplified text",

		Metadata: processing.ResultMetadata{
			DocumentURI: ref,
		},
	}, nil
}

func newTestClient(t *testing.T) (*Client, *mockProcessor) {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "elimu.db"))
	require.NoError(t, err)

	t.Cleanup(func() { s.Close() })

	processor := &mockProcessor{}

	h, err := api.NewHandler(processor, s)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/v1", h.Attach)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return New(server.URL), processor
}

func TestProcessUpload(t *testing.T) {
	c, processor := newTestClient(t)

	result, err := c.Documents.Process(t.Context(), ProcessRequest{
		Name:   "lesson.txt",
		Reader: strings.NewReader("Photosynthesis converts light into energy."),

		Config: &ProcessConfig{
			Simplification: processing.SimplificationConfig{
				ReadingLevel: processing.ReadingLevelElementary,
			},
		},
	})

	require.NoError(t, err)
	require.Equal(t, "Simplified text", result.Text)

	require.Equal(t, 1, processor.calls)
	require.Equal(t, "Photosynthesis converts light into energy.", processor.content)
	require.Equal(t, processing.ReadingLevelElementary, processor.config.Simplification.ReadingLevel)

	history, err := c.History.List(t.Context())
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "lesson.txt", history[0].Name)

	streak, err := c.Streak.Get(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, streak.CurrentStreak)
}

func TestProcessURI(t *testing.T) {
	c, processor := newTestClient(t)

	result, err := c.Documents.Process(t.Context(), ProcessRequest{
		URI: "https://example.com/lesson.pdf",
	})

	require.NoError(t, err)
	require.Equal(t, "https://example.com/lesson.pdf", result.Metadata.DocumentURI)
	require.Equal(t, 1, processor.calls)
}

func TestProcessRejected(t *testing.T) {
	c, processor := newTestClient(t)

	_, err := c.Documents.Process(t.Context(), ProcessRequest{
		URI: "/etc/passwd",
	})

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, 0, processor.calls)
}

func TestSamples(t *testing.T) {
	c, _ := newTestClient(t)

	samples, err := c.Samples.List(t.Context(), "")
	require.NoError(t, err)
	require.Len(t, samples, 7)

	samples, err = c.Samples.List(t.Context(), "Physics")
	require.NoError(t, err)
	require.Len(t, samples, 1)

	sample, err := c.Samples.Get(t.Context(), samples[0].ID)
	require.NoError(t, err)
	require.Equal(t, "Physics", sample.Subject)
	require.NotEmpty(t, sample.Quiz)

	_, err = c.Samples.Get(t.Context(), "unknown")

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestNotes(t *testing.T) {
	c, _ := newTestClient(t)

	note, err := c.Notes.New(t.Context(), "doc-1", "  Cells have a nucleus  ")
	require.NoError(t, err)
	require.Equal(t, "Cells have a nucleus", note.Content)

	note, err = c.Notes.Update(t.Context(), note.ID, "Cells have a membrane")
	require.NoError(t, err)
	require.NotNil(t, note.LastEdited)

	notes, err := c.Notes.List(t.Context(), "doc-1")
	require.NoError(t, err)
	require.Len(t, notes, 1)

	require.NoError(t, c.Notes.Delete(t.Context(), note.ID))

	notes, err = c.Notes.List(t.Context(), "doc-1")
	require.NoError(t, err)
	require.Empty(t, notes)

	err = c.Notes.Delete(t.Context(), note.ID)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestStreakRecord(t *testing.T) {
	c, _ := newTestClient(t)

	streak, err := c.Streak.Record(t.Context())
	require.NoError(t, err)
	require.True(t, streak.Recorded)
	require.Equal(t, 1, streak.CurrentStreak)

	streak, err = c.Streak.Record(t.Context())
	require.NoError(t, err)
	require.False(t, streak.Recorded)
}

func TestSpeechUnavailable(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Speech.Voices(t.Context())

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	require.Equal(t, string(processing.KindConfigurationError), apiErr.Kind)
}

func TestToken(t *testing.T) {
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		io.WriteString(w, "[]")
	}))

	t.Cleanup(server.Close)

	c := New(server.URL, WithToken("secret"))

	_, err := c.History.List(t.Context())
	require.NoError(t, err)
	require.Equal(t, "Bearer secret", auth)
}
