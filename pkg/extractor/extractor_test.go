package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/elimu-ai/elimu/pkg/document"
	"github.com/elimu-ai/elimu/pkg/generator"
	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/pkg/provider"
	"github.com/elimu-ai/elimu/pkg/retry"

	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	responses []string
	errs      []error

	calls    int
	requests []generator.Request
}

func (m *mockGenerator) Generate(ctx context.Context, req generator.Request) (string, error) {
	i := m.calls

	m.calls++
	m.requests = append(m.requests, req)

	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}

	if i < len(m.responses) {
		return m.responses[i], nil
	}

	return "", nil
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

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))

	return p
}

func TestEstimatePageCount(t *testing.T) {
	require.Equal(t, 1, EstimatePageCount(""))
	require.Equal(t, 1, EstimatePageCount(strings.Repeat("a", 500)))
	require.Equal(t, 2, EstimatePageCount(strings.Repeat("a", 501)))
	require.Equal(t, 2, EstimatePageCount(strings.Repeat("a", 1000)))
	require.Equal(t, 3, EstimatePageCount(strings.Repeat("a", 1001)))
}

func TestMimeType(t *testing.T) {
	tests := map[string]string{
		"a.pdf":  "application/pdf",
		"a.JPG":  "image/jpeg",
		"a.jpeg": "image/jpeg",
		"a.png":  "image/png",
		"a.webp": "image/webp",
		"a.heic": "image/heic",
		"a.heif": "image/heif",
		"a.docx": "application/pdf",
		"a":      "application/pdf",
	}

	for name, want := range tests {
		require.Equal(t, want, MimeType(name), name)
	}
}

func TestExtractMultimodal(t *testing.T) {
	m := &mockGenerator{responses: []string{strings.Repeat("x", 1000)}}
	p := writeFile(t, "scan.png", []byte{0x89, 'P', 'N', 'G'})

	result, err := New(nil, m).Extract(context.Background(), p)

	require.NoError(t, err)
	require.Equal(t, 1, m.calls)
	require.Equal(t, 2, result.PageCount)
	require.True(t, result.PageCountEstimated)
	require.Equal(t, MethodMultimodal, result.Metadata.ExtractionMethod)
	require.Equal(t, "image/png", result.Metadata.MIMEType)
	require.Equal(t, "scan.png", result.Metadata.FileName)

	req := m.requests[0]
	require.Contains(t, req.Prompt, "Extract all text")
	require.NotNil(t, req.File)
	require.Equal(t, "image/png", req.File.ContentType)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, req.File.Content)
}

func TestExtractNativeText(t *testing.T) {
	m := &mockGenerator{}
	p := writeFile(t, "lesson.md", []byte("# Cells\r\n\r\nThe cell is   the unit of life.\n"))

	result, err := New(nil, m).Extract(context.Background(), p)

	require.NoError(t, err)
	require.Equal(t, 0, m.calls)
	require.Equal(t, MethodNative, result.Metadata.ExtractionMethod)
	require.Equal(t, "# Cells\n\nThe cell is the unit of life.", result.RawText)
	require.Equal(t, 1, result.PageCount)
}

func TestExtractInvalidInput(t *testing.T) {
	m := &mockGenerator{responses: []string{"text"}}

	_, err := New(nil, m).Extract(context.Background(), "")
	require.ErrorIs(t, err, processing.ErrInvalidInput)

	_, err = New(nil, m).Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.ErrorIs(t, err, processing.ErrInvalidInput)

	require.Equal(t, 0, m.calls)
}

func TestExtractTooLarge(t *testing.T) {
	m := &mockGenerator{responses: []string{"text"}}
	p := writeFile(t, "book.pdf", make([]byte, 2048))

	source := document.New(document.WithMaxSize(1024))

	_, err := New(source, m).Extract(context.Background(), p)

	require.ErrorIs(t, err, processing.ErrInvalidInput)
	require.Equal(t, 0, m.calls)
}

func TestExtractEmptyText(t *testing.T) {
	m := &mockGenerator{responses: []string{"   "}}
	p := writeFile(t, "blank.pdf", []byte("%PDF-1.4"))

	_, err := New(nil, m).Extract(context.Background(), p)
	require.ErrorIs(t, err, processing.ErrExtractionFailed)

	p = writeFile(t, "blank.txt", []byte("\n\n"))

	_, err = New(nil, m).Extract(context.Background(), p)
	require.ErrorIs(t, err, processing.ErrExtractionFailed)
}

func TestExtractRetriesTransientErrors(t *testing.T) {
	m := &mockGenerator{
		errs: []error{
			processing.NewError(processing.KindNetworkError, "generate", "", fmt.Errorf("%w", provider.ErrUnavailable)),
		},
		responses: []string{"", "recovered"},
	}

	p := writeFile(t, "notes.jpg", []byte{0xff, 0xd8})

	result, err := New(nil, m, WithRetry(retry.WithSleeper(noSleep))).Extract(context.Background(), p)

	require.NoError(t, err)
	require.Equal(t, 2, m.calls)
	require.Equal(t, "recovered", result.RawText)
}

func TestExtractConfigurationError(t *testing.T) {
	m := &mockGenerator{
		errs: []error{processing.Errorf(processing.KindConfigurationError, "generate", "missing key")},
	}

	p := writeFile(t, "notes.pdf", []byte("%PDF-1.4"))

	_, err := New(nil, m, WithRetry(retry.WithSleeper(noSleep))).Extract(context.Background(), p)

	require.ErrorIs(t, err, processing.ErrConfiguration)
	require.Equal(t, 1, m.calls)
}

func TestExtractWrapsUntypedErrors(t *testing.T) {
	m := &mockGenerator{errs: []error{fmt.Errorf("boom")}}
	p := writeFile(t, "notes.pdf", []byte("%PDF-1.4"))

	_, err := New(nil, m).Extract(context.Background(), p)

	require.ErrorIs(t, err, processing.ErrExtractionFailed)
	require.Equal(t, 1, m.calls)
}

func TestExtractEmptyModelOutput(t *testing.T) {
	c := &emptyCompleter{}
	p := writeFile(t, "scan.pdf", []byte("%PDF-1.4"))

	_, err := New(nil, generator.New(c)).Extract(context.Background(), p)

	require.ErrorIs(t, err, processing.ErrExtractionFailed)
	require.ErrorIs(t, err, generator.ErrEmptyOutput)
	require.Equal(t, 1, c.calls)

	kind, _ := processing.KindOf(err)
	require.Equal(t, processing.KindExtractionFailed, kind)
}
