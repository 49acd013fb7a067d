package api

import (
	"github.com/elimu-ai/elimu/pkg/narrator"
	"github.com/elimu-ai/elimu/pkg/speech"
	"github.com/elimu-ai/elimu/pkg/streak"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type SampleSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Emoji   string `json:"emoji"`
	Preview string `json:"preview"`
}

type SpeechRequest struct {
	Text string `json:"text"`

	Voice    string  `json:"voice,omitempty"`
	Language string  `json:"language,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
	Pitch    float64 `json:"pitch,omitempty"`
}

type SpeechState struct {
	State    narrator.State `json:"state"`
	Speaking bool           `json:"speaking"`

	Capabilities speech.Capabilities `json:"capabilities"`
}

type NoteRequest struct {
	DocumentID string `json:"documentId"`
	Content    string `json:"content"`
}

type StreakResponse struct {
	Recorded bool `json:"recorded"`

	*streak.Summary
}
