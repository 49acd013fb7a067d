package api

import (
	"log/slog"
	"net/http"

	"github.com/elimu-ai/elimu/pkg/document"
	"github.com/elimu-ai/elimu/pkg/extractor"
	"github.com/elimu-ai/elimu/pkg/store"
)

// room for multipart headers and form fields around the document
const uploadOverhead = 1 << 20

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadLimit())

	if err := parseForm(r); err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	config, err := valueConfig(r, h.defaults)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	doc, cleanup, err := readDocument(r)
	defer cleanup()

	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	result, err := h.processor.Process(r.Context(), doc.Path, config)

	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	contentType := doc.ContentType

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = extractor.MimeType(doc.Name)
	}

	entry := store.HistoryEntry{
		Name:     doc.Name,
		MIMEType: contentType,

		DocumentURI: valueURI(r),
	}

	if _, err := h.store.AddHistory(r.Context(), entry); err != nil {
		slog.WarnContext(r.Context(), "failed to record upload history", "error", err)
	}

	if _, _, err := h.streak.Record(r.Context()); err != nil {
		slog.WarnContext(r.Context(), "failed to record study session", "error", err)
	}

	writeJson(w, result)
}

func (h *Handler) uploadLimit() int64 {
	size := h.maxUploadSize

	if size <= 0 {
		size = document.DefaultMaxSize
	}

	return size + uploadOverhead
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.store.History(r.Context())

	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	if history == nil {
		history = []store.HistoryEntry{}
	}

	writeJson(w, history)
}
