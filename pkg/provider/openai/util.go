package openai

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/elimu-ai/elimu/pkg/provider"

	"github.com/openai/openai-go/v3"
)

func convertError(err error) error {
	var apierr *openai.Error

	if !errors.As(err, &apierr) {
		return err
	}

	switch {
	case apierr.StatusCode == http.StatusUnauthorized, apierr.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", provider.ErrUnauthorized, apierr.Message)

	case apierr.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", provider.ErrRateLimited, apierr.Message)

	case apierr.StatusCode == http.StatusRequestTimeout, apierr.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", provider.ErrUnavailable, apierr.Message)
	}

	return err
}

func convertVoice(voice string) openai.AudioSpeechNewParamsVoice {
	switch voice {
	case "ash":
		return openai.AudioSpeechNewParamsVoiceAsh
	case "ballad":
		return openai.AudioSpeechNewParamsVoiceBallad
	case "coral":
		return openai.AudioSpeechNewParamsVoiceCoral
	case "echo":
		return openai.AudioSpeechNewParamsVoiceEcho
	case "fable":
		return openai.AudioSpeechNewParamsVoice("fable")
	case "onyx":
		return openai.AudioSpeechNewParamsVoice("onyx")
	case "nova":
		return openai.AudioSpeechNewParamsVoice("nova")
	case "sage":
		return openai.AudioSpeechNewParamsVoiceSage
	case "shimmer":
		return openai.AudioSpeechNewParamsVoiceShimmer
	}

	return openai.AudioSpeechNewParamsVoiceAlloy
}

func convertFormat(format string) (openai.AudioSpeechNewParamsResponseFormat, string) {
	switch format {
	case "wav":
		return openai.AudioSpeechNewParamsResponseFormatWAV, "audio/wav"
	case "aac":
		return openai.AudioSpeechNewParamsResponseFormatAAC, "audio/aac"
	}

	return openai.AudioSpeechNewParamsResponseFormatMP3, "audio/mpeg"
}
