package processing

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/elimu-ai/elimu/pkg/provider"
)

type Kind string

const (
	KindExtractionFailed       Kind = "extraction_failed"
	KindSimplificationFailed   Kind = "simplification_failed"
	KindAudioGenerationFailed  Kind = "audio_generation_failed"
	KindVisualGenerationFailed Kind = "visual_generation_failed"
	KindNetworkError           Kind = "network_error"
	KindInvalidInput           Kind = "invalid_input"
	KindConfigurationError     Kind = "configuration_error"
	KindRateLimited            Kind = "rate_limited"
	KindProcessingFailed       Kind = "processing_failed"
)

var (
	ErrExtractionFailed       = &Error{Kind: KindExtractionFailed}
	ErrSimplificationFailed   = &Error{Kind: KindSimplificationFailed}
	ErrAudioGenerationFailed  = &Error{Kind: KindAudioGenerationFailed}
	ErrVisualGenerationFailed = &Error{Kind: KindVisualGenerationFailed}
	ErrNetwork                = &Error{Kind: KindNetworkError}
	ErrInvalidInput           = &Error{Kind: KindInvalidInput}
	ErrConfiguration          = &Error{Kind: KindConfigurationError}
	ErrRateLimited            = &Error{Kind: KindRateLimited}
	ErrProcessingFailed       = &Error{Kind: KindProcessingFailed}
)

type Error struct {
	Kind Kind
	Op   string

	Message string

	Attempts int
	Elapsed  time.Duration

	Err error
}

func NewError(kind Kind, op, message string, err error) *Error {
	return &Error{
		Kind: kind,
		Op:   op,

		Message: message,

		Err: err,
	}
}

func (e *Error) Error() string {
	var sb strings.Builder

	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}

	sb.WriteString(string(e.Kind))

	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	if !ok {
		return false
	}

	return e.Kind == t.Kind
}

// KindOf returns the kind of the outermost *Error in the chain.
func KindOf(err error) (Kind, bool) {
	var perr *Error

	if errors.As(err, &perr) {
		return perr.Kind, true
	}

	return "", false
}

// Classify maps provider, network and context failures to an error kind.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}

	if kind, ok := KindOf(err); ok {
		return kind
	}

	switch {
	case errors.Is(err, provider.ErrUnauthorized):
		return KindConfigurationError

	case errors.Is(err, provider.ErrRateLimited):
		return KindRateLimited

	case errors.Is(err, provider.ErrUnavailable):
		return KindNetworkError

	case errors.Is(err, context.DeadlineExceeded):
		return KindNetworkError

	case errors.Is(err, context.Canceled):
		return KindProcessingFailed
	}

	var neterr net.Error

	if errors.As(err, &neterr) {
		return KindNetworkError
	}

	return KindProcessingFailed
}

func Retryable(err error) bool {
	switch Classify(err) {
	case KindNetworkError, KindRateLimited:
		return true
	}

	return false
}

// Wrap returns err unchanged when it already carries a kind and wraps it
// with the given kind otherwise.
func Wrap(err error, kind Kind, op, message string) error {
	if err == nil {
		return nil
	}

	if _, ok := KindOf(err); ok {
		return err
	}

	return NewError(kind, op, message, err)
}

func Errorf(kind Kind, op, format string, args ...any) *Error {
	return NewError(kind, op, fmt.Sprintf(format, args...), nil)
}
