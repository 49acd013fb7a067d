package simplifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/elimu-ai/elimu/pkg/generator"
	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/pkg/provider"
	"github.com/elimu-ai/elimu/pkg/retry"

	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	response string
	errs     []error

	calls    int
	requests []generator.Request
}

func (m *mockGenerator) Generate(ctx context.Context, req generator.Request) (string, error) {
	i := m.calls

	m.calls++
	m.requests = append(m.requests, req)

	if i < len(m.errs) {
		return "", m.errs[i]
	}

	return m.response, nil
}

type emptyCompleter struct {
	calls int
}

func (m *emptyCompleter) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	m.calls++
	return &provider.Completion{}, nil
}

func noSleep(ctx context.Context, d time.Duration) error {
	return nil
}

func TestSimplify(t *testing.T) {
	m := &mockGenerator{response: "Plants make food from light."}
	input := strings.Repeat("a", 1000)

	result, err := New(m).Simplify(context.Background(), input, nil)

	require.NoError(t, err)
	require.Equal(t, 1, m.calls)
	require.Equal(t, 2000, m.requests[0].MaxOutputTokens)
	require.Contains(t, m.requests[0].Prompt, `"""`+input+`"""`)
	require.Contains(t, m.requests[0].Prompt, "8th grade")

	require.Equal(t, "Plants make food from light.", result.SimplifiedText)
	require.Equal(t, 1000, result.OriginalLength)
	require.Equal(t, 28, result.SimplifiedLength)
	require.Equal(t, 8.0, result.ReadabilityScore)
	require.True(t, result.ReadabilityEstimated)
}

func TestSimplifyOptions(t *testing.T) {
	m := &mockGenerator{response: "Mimea hutengeneza chakula."}

	_, err := New(m).Simplify(context.Background(), "Photosynthesis", &processing.SimplificationConfig{
		ReadingLevel: processing.ReadingLevelElementary,
		Language:     "sw",
	})

	require.NoError(t, err)
	require.Contains(t, m.requests[0].Prompt, "5th grade")
	require.Contains(t, m.requests[0].Prompt, "Kiswahili")
}

func TestMaxTokens(t *testing.T) {
	require.Equal(t, 2000, MaxTokens(1000))
	require.Equal(t, 4096, MaxTokens(2048))
	require.Equal(t, 4096, MaxTokens(100000))
	require.Equal(t, 2, MaxTokens(1))
}

func TestSimplifyBlank(t *testing.T) {
	m := &mockGenerator{response: "x"}

	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := New(m).Simplify(context.Background(), input, nil)
		require.ErrorIs(t, err, processing.ErrInvalidInput)
	}

	require.Equal(t, 0, m.calls)
}

func TestSimplifyRetries(t *testing.T) {
	transient := processing.NewError(processing.KindRateLimited, "generate", "", provider.ErrRateLimited)

	m := &mockGenerator{
		response: "ok",
		errs:     []error{transient, transient},
	}

	result, err := New(m, WithRetry(retry.WithSleeper(noSleep))).Simplify(context.Background(), "text", nil)

	require.NoError(t, err)
	require.Equal(t, 3, m.calls)
	require.Equal(t, "ok", result.SimplifiedText)
}

func TestSimplifyExhausted(t *testing.T) {
	transient := processing.NewError(processing.KindNetworkError, "generate", "", errors.New("reset"))

	m := &mockGenerator{errs: []error{transient, transient, transient}}

	_, err := New(m, WithRetry(retry.WithSleeper(noSleep))).Simplify(context.Background(), "text", nil)

	require.ErrorIs(t, err, processing.ErrProcessingFailed)
	require.Contains(t, err.Error(), "failed after 3 attempts")
	require.Equal(t, 3, m.calls)
}

func TestSimplifyConfigurationError(t *testing.T) {
	m := &mockGenerator{errs: []error{processing.NewError(processing.KindConfigurationError, "generate", "", fmt.Errorf("%w", provider.ErrUnauthorized))}}

	_, err := New(m, WithRetry(retry.WithSleeper(noSleep))).Simplify(context.Background(), "text", nil)

	require.ErrorIs(t, err, processing.ErrConfiguration)
	require.Equal(t, 1, m.calls)
}

func TestSimplifyWithoutGenerator(t *testing.T) {
	_, err := New(nil).Simplify(context.Background(), "text", nil)
	require.ErrorIs(t, err, processing.ErrConfiguration)
}

func TestSimplifyEmptyModelOutput(t *testing.T) {
	c := &emptyCompleter{}

	_, err := New(generator.New(c)).Simplify(context.Background(), "Photosynthesis converts light into chemical energy.", nil)

	require.ErrorIs(t, err, processing.ErrSimplificationFailed)
	require.ErrorIs(t, err, generator.ErrEmptyOutput)
	require.Equal(t, 1, c.calls)

	kind, _ := processing.KindOf(err)
	require.Equal(t, processing.KindSimplificationFailed, kind)
}
