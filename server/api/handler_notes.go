package api

import (
	"net/http"

	"github.com/elimu-ai/elimu/pkg/store"
)

func (h *Handler) handleNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.Notes(r.Context(), valueDocument(r))

	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	if notes == nil {
		notes = []store.Note{}
	}

	writeJson(w, notes)
}

func (h *Handler) handleAddNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest

	if err := readJson(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if req.DocumentID == "" {
		req.DocumentID = valueDocument(r)
	}

	note, err := h.store.AddNote(r.Context(), req.DocumentID, req.Content)

	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	writeJsonStatus(w, http.StatusCreated, note)
}

func (h *Handler) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest

	if err := readJson(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	note, err := h.store.UpdateNote(r.Context(), r.PathValue("id"), req.Content)

	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	writeJson(w, note)
}

func (h *Handler) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteNote(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
