package processing

import (
	"time"
)

type ExtractionResult struct {
	RawText string `json:"rawText"`

	PageCount          int  `json:"pageCount"`
	PageCountEstimated bool `json:"pageCountEstimated"`

	Confidence *float64 `json:"confidence,omitempty"`
	Language   string   `json:"language,omitempty"`

	Metadata ExtractionMetadata `json:"metadata"`
}

type ExtractionMetadata struct {
	FileName string `json:"fileName,omitempty"`
	FileSize int64  `json:"fileSize,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`

	ExtractionMethod string `json:"extractionMethod,omitempty"`

	// measured page count, zero when the document could not be inspected
	Pages int `json:"pages,omitempty"`
}

type SimplificationResult struct {
	SimplifiedText string `json:"simplifiedText"`

	OriginalLength   int `json:"originalLength"`
	SimplifiedLength int `json:"simplifiedLength"`

	ReadabilityScore     float64 `json:"readabilityScore"`
	ReadabilityEstimated bool    `json:"readabilityEstimated"`
}

type AudioFormat string

const (
	AudioFormatTTS AudioFormat = "tts"
	AudioFormatMP3 AudioFormat = "mp3"
	AudioFormatWAV AudioFormat = "wav"
	AudioFormatAAC AudioFormat = "aac"
)

type Status string

const (
	StatusReady      Status = "ready"
	StatusProcessing Status = "processing"
	StatusFailed     Status = "failed"
)

type AudioResult struct {
	AudioURI string `json:"audioUri,omitempty"`

	Duration          float64 `json:"duration,omitempty"`
	DurationEstimated bool    `json:"durationEstimated,omitempty"`

	Format AudioFormat `json:"format,omitempty"`
	Status Status      `json:"status"`

	Metadata map[string]any `json:"metadata,omitempty"`

	Error string `json:"error,omitempty"`
}

type VisualType string

const (
	VisualTypeDiagram      VisualType = "diagram"
	VisualTypeInfographic  VisualType = "infographic"
	VisualTypeTimeline     VisualType = "timeline"
	VisualTypeIllustration VisualType = "illustration"
	VisualTypeGraph        VisualType = "graph"
	VisualTypeMap          VisualType = "map"
)

var VisualTypes = []VisualType{
	VisualTypeDiagram,
	VisualTypeInfographic,
	VisualTypeTimeline,
	VisualTypeIllustration,
	VisualTypeGraph,
	VisualTypeMap,
}

type VisualAid struct {
	URL  string     `json:"url"`
	Type VisualType `json:"type"`

	Description string `json:"description"`
	AltText     string `json:"altText"`

	Placeholder bool `json:"placeholder,omitempty"`
}

type VisualAidsResult struct {
	Images []VisualAid `json:"images"`

	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

type Result struct {
	Text string `json:"text"`

	Audio  AudioResult      `json:"audio"`
	Images VisualAidsResult `json:"images"`

	Metadata ResultMetadata `json:"metadata"`
}

type ResultMetadata struct {
	ProcessingTimeMs int64     `json:"processingTimeMs"`
	DocumentURI      string    `json:"documentUri"`
	Timestamp        time.Time `json:"timestamp"`

	ExtractionMethod string `json:"extractionMethod,omitempty"`

	OriginalLength   int `json:"originalLength,omitempty"`
	SimplifiedLength int `json:"simplifiedLength,omitempty"`

	PageCount int `json:"pageCount,omitempty"`
}

type Voice struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Language string `json:"language,omitempty"`
	Quality  string `json:"quality,omitempty"`
}
