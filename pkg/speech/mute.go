package speech

import (
	"context"
	"os/exec"
	"strings"
)

// PulseMuteChecker asks PulseAudio/PipeWire whether the default sink is
// muted. It reports false when pactl is not installed.
func PulseMuteChecker(ctx context.Context) (bool, error) {
	path, err := exec.LookPath("pactl")

	if err != nil {
		return false, nil
	}

	output, err := exec.CommandContext(ctx, path, "get-sink-mute", "@DEFAULT_SINK@").Output()

	if err != nil {
		return false, err
	}

	return ParseMute(string(output)), nil
}

// ParseMute reads the output of "pactl get-sink-mute".
func ParseMute(output string) bool {
	output = strings.ToLower(strings.TrimSpace(output))

	return strings.HasPrefix(output, "mute:") && strings.Contains(output, "yes")
}
