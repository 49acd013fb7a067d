package library

import (
	"bytes"
	_ "embed"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/elimu-ai/elimu/pkg/processing"

	"gopkg.in/yaml.v3"
)

//go:embed samples.yaml
var samplesYAML []byte

var ErrNotFound = errors.New("sample not found")

type Sample struct {
	ID      string `yaml:"id" json:"id"`
	Title   string `yaml:"title" json:"title"`
	Subject string `yaml:"subject" json:"subject"`
	Emoji   string `yaml:"emoji" json:"emoji"`
	Preview string `yaml:"preview" json:"preview"`

	Content Content `yaml:"content" json:"content"`
}

type Content struct {
	GradeLevel   string `yaml:"grade_level" json:"gradeLevel"`
	ReadingLevel string `yaml:"reading_level" json:"readingLevel"`

	OriginalText   string `yaml:"original_text" json:"originalText"`
	SimplifiedText string `yaml:"simplified_text" json:"simplifiedText"`

	KeyTakeaways []string       `yaml:"key_takeaways" json:"keyTakeaways"`
	VisualAids   []VisualAid    `yaml:"visual_aids" json:"visualAids"`
	Quiz         []QuizQuestion `yaml:"quiz" json:"quiz"`
	Flashcards   []Flashcard    `yaml:"flashcards" json:"flashcards"`

	Difficulty           string `yaml:"difficulty" json:"difficulty"`
	EstimatedReadingTime string `yaml:"estimated_reading_time" json:"estimatedReadingTime"`
	ProcessingTimeMs     int64  `yaml:"processing_time_ms" json:"processingTimeMs"`
}

type VisualAid struct {
	Type        processing.VisualType `yaml:"type" json:"type"`
	Title       string                `yaml:"title" json:"title"`
	Description string                `yaml:"description" json:"description"`
	ImagePath   string                `yaml:"image_path" json:"imagePath"`
}

type QuizQuestion struct {
	Question      string   `yaml:"question" json:"question"`
	Options       []string `yaml:"options" json:"options"`
	CorrectAnswer int      `yaml:"correct_answer" json:"correctAnswer"`
	Explanation   string   `yaml:"explanation" json:"explanation"`
}

type Flashcard struct {
	Term       string `yaml:"term" json:"term"`
	Definition string `yaml:"definition" json:"definition"`
}

// StudyResult is a processing result enriched with the study tools that
// ship with a bundled sample.
type StudyResult struct {
	processing.Result

	Title   string `json:"title"`
	Subject string `json:"subject"`

	GradeLevel   string `json:"gradeLevel"`
	ReadingLevel string `json:"readingLevel"`

	KeyTakeaways []string       `json:"keyTakeaways"`
	Quiz         []QuizQuestion `json:"quiz"`
	Flashcards   []Flashcard    `json:"flashcards"`
}

var load = sync.OnceValues(func() ([]Sample, error) {
	return Parse(samplesYAML)
})

// Parse decodes a sample library document.
func Parse(data []byte) ([]Sample, error) {
	var doc struct {
		Samples []Sample `yaml:"samples"`
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}

	seen := map[string]bool{}

	for _, s := range doc.Samples {
		if s.ID == "" {
			return nil, errors.New("sample without id")
		}

		if seen[s.ID] {
			return nil, errors.New("duplicate sample id: " + s.ID)
		}

		seen[s.ID] = true
	}

	return doc.Samples, nil
}

func All() ([]Sample, error) {
	samples, err := load()

	if err != nil {
		return nil, err
	}

	return append([]Sample(nil), samples...), nil
}

func Get(id string) (*Sample, error) {
	samples, err := load()

	if err != nil {
		return nil, err
	}

	for _, s := range samples {
		if s.ID == id {
			return &s, nil
		}
	}

	return nil, ErrNotFound
}

func BySubject(subject string) ([]Sample, error) {
	samples, err := load()

	if err != nil {
		return nil, err
	}

	var result []Sample

	for _, s := range samples {
		if strings.EqualFold(s.Subject, subject) {
			result = append(result, s)
		}
	}

	return result, nil
}

func Subjects() ([]string, error) {
	samples, err := load()

	if err != nil {
		return nil, err
	}

	var result []string
	seen := map[string]bool{}

	for _, s := range samples {
		if seen[s.Subject] {
			continue
		}

		seen[s.Subject] = true
		result = append(result, s.Subject)
	}

	return result, nil
}

// Result converts the sample into the shape returned by the processing
// pipeline. Sample audio is left to on-device narration.
func (s *Sample) Result() *StudyResult {
	c := s.Content

	images := make([]processing.VisualAid, 0, len(c.VisualAids))

	for _, v := range c.VisualAids {
		images = append(images, processing.VisualAid{
			URL:  "sample://" + s.ID + "/" + v.ImagePath,
			Type: v.Type,

			Description: v.Description,
			AltText:     v.Title,
		})
	}

	return &StudyResult{
		Result: processing.Result{
			Text: c.SimplifiedText,

			Audio: processing.AudioResult{
				Format: processing.AudioFormatTTS,
				Status: processing.StatusReady,
			},

			Images: processing.VisualAidsResult{
				Images: images,
				Status: processing.StatusReady,
			},

			Metadata: processing.ResultMetadata{
				ProcessingTimeMs: c.ProcessingTimeMs,
				DocumentURI:      "sample://" + s.ID,
				Timestamp:        time.Now().UTC(),

				ExtractionMethod: "sample",

				OriginalLength:   len([]rune(c.OriginalText)),
				SimplifiedLength: len([]rune(c.SimplifiedText)),
			},
		},

		Title:   s.Title,
		Subject: s.Subject,

		GradeLevel:   c.GradeLevel,
		ReadingLevel: c.ReadingLevel,

		KeyTakeaways: c.KeyTakeaways,
		Quiz:         c.Quiz,
		Flashcards:   c.Flashcards,
	}
}
