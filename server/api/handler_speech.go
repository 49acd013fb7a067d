package api

import (
	"net/http"

	"github.com/elimu-ai/elimu/pkg/narrator"
	"github.com/elimu-ai/elimu/pkg/processing"
)

func (h *Handler) requireNarrator(w http.ResponseWriter) (*narrator.Narrator, bool) {
	n := h.narrator

	if n == nil {
		writeError(w, http.StatusServiceUnavailable, processing.Errorf(processing.KindConfigurationError, "speech", "no speech engine configured"))
		return nil, false
	}

	return n, true
}

func (h *Handler) handleVoices(w http.ResponseWriter, r *http.Request) {
	n, ok := h.requireNarrator(w)

	if !ok {
		return
	}

	voices, err := n.Voices(r.Context())

	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	if voices == nil {
		voices = []processing.Voice{}
	}

	writeJson(w, voices)
}

func (h *Handler) handleSpeechState(w http.ResponseWriter, r *http.Request) {
	n, ok := h.requireNarrator(w)

	if !ok {
		return
	}

	writeJson(w, SpeechState{
		State:    n.State(),
		Speaking: n.IsSpeaking(),

		Capabilities: n.Capabilities(),
	})
}

func (h *Handler) handleSpeak(w http.ResponseWriter, r *http.Request) {
	n, ok := h.requireNarrator(w)

	if !ok {
		return
	}

	var req SpeechRequest

	if err := readJson(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := n.Speak(r.Context(), req.Text, &narrator.SpeakOptions{
		Voice:    req.Voice,
		Language: req.Language,

		Rate:  req.Speed,
		Pitch: req.Pitch,
	})

	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	writeJsonStatus(w, http.StatusAccepted, result)
}

func (h *Handler) handleSpeechStop(w http.ResponseWriter, r *http.Request) {
	h.control(w, func(n *narrator.Narrator) error { return n.Stop() })
}

func (h *Handler) handleSpeechPause(w http.ResponseWriter, r *http.Request) {
	h.control(w, func(n *narrator.Narrator) error { return n.Pause() })
}

func (h *Handler) handleSpeechResume(w http.ResponseWriter, r *http.Request) {
	h.control(w, func(n *narrator.Narrator) error { return n.Resume() })
}

func (h *Handler) control(w http.ResponseWriter, fn func(n *narrator.Narrator) error) {
	n, ok := h.requireNarrator(w)

	if !ok {
		return
	}

	if err := fn(n); err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	writeJson(w, SpeechState{
		State:    n.State(),
		Speaking: n.IsSpeaking(),

		Capabilities: n.Capabilities(),
	})
}

