//go:build unix

package process

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandleSuspendResume(t *testing.T) {
	path, err := exec.LookPath("sleep")

	if err != nil {
		t.Skip("sleep not available")
	}

	cmd := exec.Command(path, "30")
	require.NoError(t, cmd.Start())

	h := &Handle{}
	h.Attach(cmd.Process)

	require.True(t, h.Running())

	require.NoError(t, h.Suspend())
	require.True(t, h.Suspended())

	require.NoError(t, h.Resume())
	require.False(t, h.Suspended())

	require.NoError(t, h.Suspend())
	// a suspended player still exits when its context kills it
	require.NoError(t, cmd.Process.Kill())

	cmd.Wait()
	h.Detach()

	require.False(t, h.Running())
	require.ErrorIs(t, h.Suspend(), os.ErrProcessDone)
}
