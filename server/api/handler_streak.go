package api

import (
	"net/http"
)

func (h *Handler) handleStreak(w http.ResponseWriter, r *http.Request) {
	summary, err := h.streak.Load(r.Context())

	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	writeJson(w, StreakResponse{
		Summary: summary,
	})
}

func (h *Handler) handleRecordStreak(w http.ResponseWriter, r *http.Request) {
	summary, recorded, err := h.streak.Record(r.Context())

	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	writeJson(w, StreakResponse{
		Recorded: recorded,
		Summary:  summary,
	})
}
