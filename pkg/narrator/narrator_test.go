package narrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/pkg/speech"

	"github.com/stretchr/testify/require"
)

// mockEngine blocks in Speak until released or canceled.
type mockEngine struct {
	pause    bool
	maxInput int
	err      error

	release chan struct{}

	mu      sync.Mutex
	texts   []string
	options []*speech.SpeakOptions
	active  atomic.Int32
	overlap atomic.Bool

	pauses  atomic.Int32
	resumes atomic.Int32
}

func newMockEngine() *mockEngine {
	return &mockEngine{
		pause:   true,
		release: make(chan struct{}),
	}
}

func (m *mockEngine) Voices(ctx context.Context) ([]processing.Voice, error) {
	return []processing.Voice{{ID: "sw", Name: "Swahili", Language: "sw"}}, nil
}

func (m *mockEngine) Speak(ctx context.Context, text string, options *speech.SpeakOptions) error {
	if m.active.Add(1) > 1 {
		m.overlap.Store(true)
	}

	defer m.active.Add(-1)

	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.options = append(m.options, options)
	m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	select {
	case <-m.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *mockEngine) Pause() error {
	m.pauses.Add(1)
	return nil
}

func (m *mockEngine) Resume() error {
	m.resumes.Add(1)
	return nil
}

func (m *mockEngine) Capabilities() speech.Capabilities {
	return speech.Capabilities{Pause: m.pause, MaxInputLength: m.maxInput}
}

func next(t *testing.T, ch <-chan Event) Event {
	t.Helper()

	select {
	case e := <-ch:
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	return Event{}
}

func TestSpeakLifecycle(t *testing.T) {
	m := newMockEngine()

	n, err := New(m)
	require.NoError(t, err)

	events, unsubscribe := n.Subscribe()
	defer unsubscribe()

	var done atomic.Bool

	result, err := n.Speak(context.Background(), strings.Repeat("word ", 150), &SpeakOptions{
		Rate: 1.0,

		Callbacks: Callbacks{
			OnDone: func() { done.Store(true) },
		},
	})

	require.NoError(t, err)
	require.Equal(t, processing.StatusReady, result.Status)
	require.Equal(t, processing.AudioFormatTTS, result.Format)
	require.Empty(t, result.AudioURI)
	require.InDelta(t, 60.0, result.Duration, 0.001)
	require.True(t, result.DurationEstimated)
	require.Equal(t, 150, result.Metadata["wordCount"])

	e := next(t, events)
	require.Equal(t, StateSpeaking, e.State)
	require.Equal(t, StateIdle, e.Previous)
	require.True(t, n.IsSpeaking())

	require.NoError(t, n.Pause())
	require.Equal(t, StatePaused, next(t, events).State)

	require.NoError(t, n.Resume())
	require.Equal(t, StateSpeaking, next(t, events).State)

	close(m.release)

	e = next(t, events)
	require.Equal(t, StateCompleted, e.State)
	require.NoError(t, e.Err)
	require.False(t, n.IsSpeaking())

	require.Eventually(t, done.Load, time.Second, 5*time.Millisecond)
	require.Equal(t, int32(1), m.pauses.Load())
	require.Equal(t, int32(1), m.resumes.Load())
}

func TestSpeakValidation(t *testing.T) {
	m := newMockEngine()
	m.maxInput = 10

	n, err := New(m)
	require.NoError(t, err)

	_, err = n.Speak(context.Background(), "   ", nil)
	require.ErrorIs(t, err, processing.ErrInvalidInput)

	_, err = n.Speak(context.Background(), "this text is far too long", nil)
	require.ErrorIs(t, err, processing.ErrInvalidInput)

	require.Empty(t, m.texts)
	require.Equal(t, StateIdle, n.State())
}

func TestSpeakReplacesActiveUtterance(t *testing.T) {
	m := newMockEngine()

	n, err := New(m)
	require.NoError(t, err)

	events, unsubscribe := n.Subscribe()
	defer unsubscribe()

	var stopped atomic.Bool

	_, err = n.Speak(context.Background(), "first", &SpeakOptions{
		Callbacks: Callbacks{OnStopped: func() { stopped.Store(true) }},
	})
	require.NoError(t, err)
	require.Equal(t, StateSpeaking, next(t, events).State)

	_, err = n.Speak(context.Background(), "second", nil)
	require.NoError(t, err)

	e := next(t, events)
	require.Equal(t, StateStopped, e.State)
	require.Equal(t, uint64(1), e.Utterance)

	e = next(t, events)
	require.Equal(t, StateSpeaking, e.State)
	require.Equal(t, uint64(2), e.Utterance)

	require.NoError(t, n.Stop())
	require.Equal(t, StateStopped, next(t, events).State)

	require.False(t, m.overlap.Load())
	require.Eventually(t, stopped.Load, time.Second, 5*time.Millisecond)
}

func TestStopWhenIdle(t *testing.T) {
	n, err := New(newMockEngine())
	require.NoError(t, err)

	require.NoError(t, n.Stop())
	require.ErrorIs(t, n.Pause(), speech.ErrNotSpeaking)
	require.ErrorIs(t, n.Resume(), speech.ErrNotSpeaking)
}

func TestPauseUnsupported(t *testing.T) {
	m := newMockEngine()
	m.pause = false

	n, err := New(m)
	require.NoError(t, err)

	_, err = n.Speak(context.Background(), "hello", nil)
	require.NoError(t, err)

	require.ErrorIs(t, n.Pause(), speech.ErrUnsupported)
	require.ErrorIs(t, n.Resume(), speech.ErrUnsupported)
	require.Equal(t, int32(0), m.pauses.Load())

	require.NoError(t, n.Stop())
}

func TestSpeakMuted(t *testing.T) {
	m := newMockEngine()
	m.err = speech.ErrMuted

	n, err := New(m)
	require.NoError(t, err)

	events, unsubscribe := n.Subscribe()
	defer unsubscribe()

	var callbackErr atomic.Value

	_, err = n.Speak(context.Background(), "hello", &SpeakOptions{
		Callbacks: Callbacks{OnError: func(err error) { callbackErr.Store(err) }},
	})
	require.NoError(t, err)

	require.Equal(t, StateSpeaking, next(t, events).State)

	e := next(t, events)
	require.Equal(t, StateErrored, e.State)
	require.True(t, e.Muted)
	require.ErrorIs(t, e.Err, speech.ErrMuted)
	require.ErrorIs(t, e.Err, processing.ErrAudioGenerationFailed)

	require.Eventually(t, func() bool { return callbackErr.Load() != nil }, time.Second, 5*time.Millisecond)
}

func TestSpeakPlaybackError(t *testing.T) {
	m := newMockEngine()
	m.err = errors.New("device busy")

	n, err := New(m)
	require.NoError(t, err)

	events, unsubscribe := n.Subscribe()
	defer unsubscribe()

	_, err = n.Speak(context.Background(), "hello", nil)
	require.NoError(t, err)

	next(t, events)

	e := next(t, events)
	require.Equal(t, StateErrored, e.State)
	require.False(t, e.Muted)
	require.ErrorIs(t, e.Err, processing.ErrAudioGenerationFailed)
}

func TestSpeakOutlivesRequestContext(t *testing.T) {
	m := newMockEngine()

	n, err := New(m)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	_, err = n.Speak(ctx, "hello", nil)
	require.NoError(t, err)

	cancel()

	time.Sleep(20 * time.Millisecond)
	require.True(t, n.IsSpeaking())

	close(m.release)
	require.NoError(t, n.Wait(context.Background()))
	require.Equal(t, StateCompleted, n.State())
}

func TestSpeakConvertsMarkdown(t *testing.T) {
	m := newMockEngine()
	close(m.release)

	n, err := New(m)
	require.NoError(t, err)

	_, err = n.Speak(context.Background(), "# Cells\n\nThe **cell** is the unit of life.", nil)
	require.NoError(t, err)
	require.NoError(t, n.Wait(context.Background()))

	m.mu.Lock()
	defer m.mu.Unlock()

	require.Equal(t, "Cells\n\nThe cell is the unit of life.", m.texts[0])
	require.Equal(t, DefaultLanguage, m.options[0].Language)
}

func TestSpeakInlineMarkdown(t *testing.T) {
	m := newMockEngine()
	close(m.release)

	n, err := New(m)
	require.NoError(t, err)

	_, err = n.Speak(context.Background(), "Plants use **sunlight** to make food.", nil)
	require.NoError(t, err)
	require.NoError(t, n.Wait(context.Background()))

	m.mu.Lock()
	defer m.mu.Unlock()

	require.Equal(t, "Plants use sunlight to make food.", m.texts[0])
}

func TestStateTerminal(t *testing.T) {
	for _, s := range []State{StateCompleted, StateStopped, StateErrored} {
		require.True(t, s.Terminal(), s)
		require.False(t, s.Active(), s)
	}

	for _, s := range []State{StateIdle, StateSpeaking, StatePaused} {
		require.False(t, s.Terminal(), s)
	}
}

func TestEstimateDuration(t *testing.T) {
	require.InDelta(t, 60.0, EstimateDuration(150, 1.0), 0.001)
	require.InDelta(t, 30.0, EstimateDuration(150, 2.0), 0.001)
	require.InDelta(t, 120.0, EstimateDuration(150, 0.5), 0.001)
	require.InDelta(t, 60.0, EstimateDuration(150, 0), 0.001)
}

func TestVoices(t *testing.T) {
	n, err := New(newMockEngine())
	require.NoError(t, err)

	voices, err := n.Voices(context.Background())
	require.NoError(t, err)
	require.Len(t, voices, 1)
}

func TestNewRequiresEngine(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}
