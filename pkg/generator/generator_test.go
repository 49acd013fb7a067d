package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/pkg/provider"

	"github.com/stretchr/testify/require"
)

type mockCompleter struct {
	response string
	err      error

	calls    int
	messages [][]provider.Message
	options  []*provider.CompleteOptions
}

func (m *mockCompleter) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	m.calls++
	m.messages = append(m.messages, messages)
	m.options = append(m.options, options)

	if m.err != nil {
		return nil, m.err
	}

	return &provider.Completion{
		Message: &provider.Message{
			Role:    provider.MessageRoleAssistant,
			Content: []provider.Content{provider.TextContent(m.response)},
		},
	}, nil
}

func TestGenerate(t *testing.T) {
	m := &mockCompleter{response: "  hello  "}
	g := New(m)

	file := &provider.File{Name: "doc.pdf", Content: []byte("%PDF"), ContentType: "application/pdf"}

	text, err := g.Generate(context.Background(), Request{
		Prompt: "extract",
		File:   file,

		MaxOutputTokens: 100,
	})

	require.NoError(t, err)
	require.Equal(t, "hello", text)
	require.Equal(t, 1, m.calls)

	msg := m.messages[0][0]
	require.Equal(t, provider.MessageRoleUser, msg.Role)
	require.Equal(t, "extract", msg.Text())
	require.Len(t, msg.Files(), 1)
	require.Equal(t, "application/pdf", msg.Files()[0].ContentType)

	require.Equal(t, 100, *m.options[0].MaxTokens)
	require.Equal(t, DefaultTemperature, *m.options[0].Temperature)
}

func TestGenerateDefaults(t *testing.T) {
	m := &mockCompleter{response: "ok"}

	_, err := New(m).Generate(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)

	require.Equal(t, DefaultMaxOutputTokens, *m.options[0].MaxTokens)
}

func TestGenerateBlankPrompt(t *testing.T) {
	m := &mockCompleter{response: "ok"}

	_, err := New(m).Generate(context.Background(), Request{Prompt: "   \n"})

	require.ErrorIs(t, err, processing.ErrInvalidInput)
	require.Equal(t, 0, m.calls)
}

func TestGenerateWithoutCompleter(t *testing.T) {
	_, err := New(nil).Generate(context.Background(), Request{Prompt: "hi"})
	require.ErrorIs(t, err, processing.ErrConfiguration)
}

func TestGenerateEmptyOutput(t *testing.T) {
	_, err := New(&mockCompleter{response: " "}).Generate(context.Background(), Request{Prompt: "hi"})
	require.ErrorIs(t, err, processing.ErrProcessingFailed)
	require.ErrorIs(t, err, ErrEmptyOutput)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unauthorized", fmt.Errorf("%w: bad key", provider.ErrUnauthorized), processing.ErrConfiguration},
		{"rate limited", fmt.Errorf("%w: quota", provider.ErrRateLimited), processing.ErrRateLimited},
		{"unavailable", fmt.Errorf("%w: 503", provider.ErrUnavailable), processing.ErrNetwork},
		{"unknown", errors.New("connection reset"), processing.ErrNetwork},
		{"canceled", context.Canceled, processing.ErrProcessingFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&mockCompleter{err: tt.err}).Generate(context.Background(), Request{Prompt: "hi"})

			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, tt.err)
		})
	}
}
