package speech

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMute(t *testing.T) {
	require.True(t, ParseMute("Mute: yes\n"))
	require.False(t, ParseMute("Mute: no\n"))
	require.False(t, ParseMute(""))
	require.False(t, ParseMute("yes"))
}
