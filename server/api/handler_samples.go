package api

import (
	"net/http"

	"github.com/elimu-ai/elimu/pkg/library"
)

func (h *Handler) handleSamples(w http.ResponseWriter, r *http.Request) {
	var (
		samples []library.Sample
		err     error
	)

	if subject := valueSubject(r); subject != "" {
		samples, err = library.BySubject(subject)
	} else {
		samples, err = library.All()
	}

	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	result := make([]SampleSummary, 0, len(samples))

	for _, s := range samples {
		result = append(result, SampleSummary{
			ID:      s.ID,
			Title:   s.Title,
			Subject: s.Subject,
			Emoji:   s.Emoji,
			Preview: s.Preview,
		})
	}

	writeJson(w, result)
}

func (h *Handler) handleSample(w http.ResponseWriter, r *http.Request) {
	sample, err := library.Get(r.PathValue("id"))

	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}

	writeJson(w, sample.Result())
}
