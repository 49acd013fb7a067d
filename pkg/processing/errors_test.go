package processing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/elimu-ai/elimu/pkg/provider"

	"github.com/stretchr/testify/require"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestErrorIs(t *testing.T) {
	err := NewError(KindInvalidInput, "extract", "empty reference", nil)

	require.ErrorIs(t, err, ErrInvalidInput)
	require.NotErrorIs(t, err, ErrExtractionFailed)

	wrapped := fmt.Errorf("pipeline: %w", err)
	require.ErrorIs(t, wrapped, ErrInvalidInput)

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	require.Equal(t, KindInvalidInput, kind)
}

func TestErrorMessage(t *testing.T) {
	err := NewError(KindExtractionFailed, "extract", "no text found", errors.New("boom"))

	require.Equal(t, "extract: extraction_failed: no text found: boom", err.Error())
	require.Equal(t, "boom", errors.Unwrap(err).Error())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"unauthorized", fmt.Errorf("%w: bad key", provider.ErrUnauthorized), KindConfigurationError},
		{"rate limited", fmt.Errorf("%w: slow down", provider.ErrRateLimited), KindRateLimited},
		{"unavailable", fmt.Errorf("%w: 503", provider.ErrUnavailable), KindNetworkError},
		{"deadline", context.DeadlineExceeded, KindNetworkError},
		{"net", timeoutError{}, KindNetworkError},
		{"canceled", context.Canceled, KindProcessingFailed},
		{"unknown", errors.New("boom"), KindProcessingFailed},
		{"typed", ErrInvalidInput, KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestRetryable(t *testing.T) {
	require.True(t, Retryable(provider.ErrRateLimited))
	require.True(t, Retryable(NewError(KindNetworkError, "", "", nil)))

	require.False(t, Retryable(provider.ErrUnauthorized))
	require.False(t, Retryable(NewError(KindInvalidInput, "", "", nil)))
	require.False(t, Retryable(errors.New("boom")))
}

func TestWrap(t *testing.T) {
	typed := NewError(KindInvalidInput, "extract", "too large", nil)
	require.Same(t, typed, Wrap(typed, KindExtractionFailed, "extract", "failed").(*Error))

	err := Wrap(errors.New("boom"), KindExtractionFailed, "extract", "failed")
	require.ErrorIs(t, err, ErrExtractionFailed)

	require.NoError(t, Wrap(nil, KindExtractionFailed, "extract", "failed"))
}

func TestVisualsLimit(t *testing.T) {
	var c *VisualsConfig
	require.Equal(t, 3, c.Limit())

	require.Equal(t, 2, (&VisualsConfig{MaxVisuals: 2}).Limit())
	require.Equal(t, 3, (&VisualsConfig{MaxVisuals: 10}).Limit())
}
