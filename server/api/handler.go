package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/elimu-ai/elimu/config"
	"github.com/elimu-ai/elimu/pkg/library"
	"github.com/elimu-ai/elimu/pkg/narrator"
	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/pkg/speech"
	"github.com/elimu-ai/elimu/pkg/store"
	"github.com/elimu-ai/elimu/pkg/streak"

	"github.com/go-chi/chi/v5"
)

type Processor interface {
	Process(ctx context.Context, ref string, config *processing.Config) (*processing.Result, error)
}

type Handler struct {
	defaults  processing.Config
	processor Processor

	// nil without a speech engine
	narrator *narrator.Narrator

	store  *store.Store
	streak *streak.Tracker

	maxUploadSize int64
}

type Option func(*Handler)

func WithDefaults(defaults processing.Config) Option {
	return func(h *Handler) {
		h.defaults = defaults
	}
}

func WithNarrator(narrator *narrator.Narrator) Option {
	return func(h *Handler) {
		h.narrator = narrator
	}
}

// WithMaxUploadSize limits the size of uploaded documents.
func WithMaxUploadSize(size int64) Option {
	return func(h *Handler) {
		h.maxUploadSize = size
	}
}

func New(cfg *config.Config, store *store.Store) (*Handler, error) {
	if cfg.Pipeline() == nil {
		return nil, errors.New("pipeline is required")
	}

	return NewHandler(cfg.Pipeline(), store,
		WithDefaults(cfg.Defaults),
		WithNarrator(cfg.Narrator()),
		WithMaxUploadSize(cfg.Source().MaxSize()),
	)
}

func NewHandler(processor Processor, store *store.Store, options ...Option) (*Handler, error) {
	if processor == nil {
		return nil, errors.New("processor is required")
	}

	if store == nil {
		return nil, errors.New("store is required")
	}

	h := &Handler{
		processor: processor,

		store:  store,
		streak: streak.New(store),
	}

	for _, option := range options {
		option(h)
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Post("/process", h.handleProcess)

	r.Get("/samples", h.handleSamples)
	r.Get("/samples/{id}", h.handleSample)

	r.Get("/voices", h.handleVoices)

	r.Get("/speech", h.handleSpeechState)
	r.Post("/speech", h.handleSpeak)
	r.Post("/speech/stop", h.handleSpeechStop)
	r.Post("/speech/pause", h.handleSpeechPause)
	r.Post("/speech/resume", h.handleSpeechResume)

	r.Get("/notes", h.handleNotes)
	r.Post("/notes", h.handleAddNote)
	r.Put("/notes/{id}", h.handleUpdateNote)
	r.Delete("/notes/{id}", h.handleDeleteNote)

	r.Get("/streak", h.handleStreak)
	r.Post("/streak", h.handleRecordStreak)

	r.Get("/history", h.handleHistory)
}

func writeJson(w http.ResponseWriter, v any) {
	writeJsonStatus(w, http.StatusOK, v)
}

func writeJsonStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	text := http.StatusText(code)

	if err != nil {
		text = err.Error()
	}

	body := ErrorResponse{
		Error: text,
	}

	if kind, ok := processing.KindOf(err); ok {
		body.Kind = string(kind)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	json.NewEncoder(w).Encode(body)
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, library.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrInvalid), errors.Is(err, processing.ErrInvalidInput):
		return http.StatusBadRequest

	case errors.Is(err, processing.ErrRateLimited):
		return http.StatusTooManyRequests

	case errors.Is(err, processing.ErrNetwork):
		return http.StatusBadGateway

	case errors.Is(err, processing.ErrConfiguration):
		return http.StatusServiceUnavailable

	case errors.Is(err, speech.ErrUnsupported):
		return http.StatusNotImplemented

	case errors.Is(err, speech.ErrNotSpeaking), errors.Is(err, speech.ErrMuted):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}
