package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/elimu-ai/elimu/pkg/speech"

	"github.com/stretchr/testify/require"
)

const voicesOutput = `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      Afrikaans          gmw/af
 5  en-gb           --/M      English_(Great_Britain) gmw/en            (en 2)
 5  sw              --/M      Swahili            bnt/sw
`

type capture struct {
	mu    sync.Mutex
	args  []string
	stdin string
}

func useHelper(t *testing.T, mode string, c *capture) {
	t.Helper()

	original := commandContext

	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if c != nil {
			c.mu.Lock()
			c.args = append([]string(nil), args...)
			c.mu.Unlock()
		}

		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "SPEECH_HELPER_MODE="+mode)

		return cmd
	}

	t.Cleanup(func() {
		commandContext = original
	})
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("SPEECH_HELPER_MODE") {
	case "voices":
		fmt.Fprint(os.Stdout, voicesOutput)

	case "speak":
		io.Copy(io.Discard, os.Stdin)

	case "fail":
		fmt.Fprint(os.Stderr, "audio device unavailable")
		os.Exit(1)

	case "slow":
		time.Sleep(30 * time.Second)
	}

	os.Exit(0)
}

func notMuted(ctx context.Context) (bool, error) {
	return false, nil
}

func TestVoices(t *testing.T) {
	useHelper(t, "voices", nil)

	voices, err := New().Voices(context.Background())

	require.NoError(t, err)
	require.Len(t, voices, 3)
	require.Equal(t, "af", voices[0].ID)
	require.Equal(t, "Afrikaans", voices[0].Name)
	require.Equal(t, "sw", voices[2].Language)
}

func TestSpeakArgs(t *testing.T) {
	c := &capture{}
	useHelper(t, "speak", c)

	err := New(WithMuteChecker(notMuted)).Speak(context.Background(), "Habari", &speech.SpeakOptions{
		Voice: "sw",
		Rate:  0.8,
		Pitch: 1.2,
	})

	require.NoError(t, err)
	require.Equal(t, []string{"--stdin", "-v", "sw", "-s", "140", "-p", "60"}, c.args)
}

func TestSpeakFailure(t *testing.T) {
	useHelper(t, "fail", nil)

	err := New(WithMuteChecker(notMuted)).Speak(context.Background(), "hello", nil)

	require.Error(t, err)
	require.Contains(t, err.Error(), "audio device unavailable")
}

func TestSpeakMuted(t *testing.T) {
	c := &capture{}
	useHelper(t, "speak", c)

	muted := func(ctx context.Context) (bool, error) {
		return true, nil
	}

	err := New(WithMuteChecker(muted)).Speak(context.Background(), "hello", nil)

	require.ErrorIs(t, err, speech.ErrMuted)
	require.Nil(t, c.args)
}

func TestSpeakCancel(t *testing.T) {
	useHelper(t, "slow", nil)

	e := New(WithMuteChecker(notMuted))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- e.Speak(ctx, "hello", nil)
	}()

	require.Eventually(t, e.handle.Running, 5*time.Second, 10*time.Millisecond)

	if e.Capabilities().Pause {
		require.NoError(t, e.Pause())
		require.NoError(t, e.Resume())
	}

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("speak did not return after cancel")
	}
}

func TestPauseWhenIdle(t *testing.T) {
	e := New()

	if !e.Capabilities().Pause {
		require.ErrorIs(t, e.Pause(), speech.ErrUnsupported)
		return
	}

	require.ErrorIs(t, e.Pause(), speech.ErrNotSpeaking)
}
