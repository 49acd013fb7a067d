package mcp

import (
	"context"
	"fmt"
	"net/url"

	"github.com/elimu-ai/elimu/pkg/library"
	"github.com/elimu-ai/elimu/pkg/mcp"
	"github.com/elimu-ai/elimu/pkg/processing"
)

type Processor interface {
	Process(ctx context.Context, ref string, config *processing.Config) (*processing.Result, error)
}

// Tools returns the tools exposed to MCP clients. Local file paths are only
// accepted when allowLocal is set.
func Tools(processor Processor, defaults processing.Config, allowLocal bool) []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "process_document",
			Description: "Extract, simplify and illustrate a learning document (PDF or image). Returns the simplified text, visual aids and processing metadata.",

			Parameters: map[string]any{
				"type": "object",

				"properties": map[string]any{
					"uri": map[string]any{
						"type":        "string",
						"description": "Document location (https URL, or a local path when running locally)",
					},

					"reading_level": map[string]any{
						"type":        "string",
						"enum":        []string{string(processing.ReadingLevelElementary), string(processing.ReadingLevelMiddle), string(processing.ReadingLevelHigh)},
						"description": "Target reading level of the simplified text",
					},

					"language": map[string]any{
						"type":        "string",
						"description": "Output language code, e.g. en or sw",
					},

					"visuals": map[string]any{
						"type":        "boolean",
						"description": "Generate visual aids (default true)",
					},
				},

				"required": []string{"uri"},
			},

			Execute: func(ctx context.Context, args map[string]any) (any, error) {
				ref, _ := args["uri"].(string)

				if err := checkURI(ref, allowLocal); err != nil {
					return nil, err
				}

				config := defaults

				// narration would play on the server, not the client
				config.Audio.Disabled = true

				if val, ok := args["reading_level"].(string); ok && val != "" {
					config.Simplification.ReadingLevel = processing.ReadingLevel(val)
				}

				if val, ok := args["language"].(string); ok && val != "" {
					config.Simplification.Language = val
				}

				if val, ok := args["visuals"].(bool); ok && !val {
					config.Visuals.Disabled = true
				}

				return processor.Process(ctx, ref, &config)
			},
		},
		{
			Name:        "list_samples",
			Description: "List the bundled CBC sample lessons, optionally filtered by subject.",

			Parameters: map[string]any{
				"type": "object",

				"properties": map[string]any{
					"subject": map[string]any{
						"type":        "string",
						"description": "Subject name, e.g. Physics or Kiswahili",
					},
				},
			},

			Execute: func(ctx context.Context, args map[string]any) (any, error) {
				var (
					samples []library.Sample
					err     error
				)

				if subject, ok := args["subject"].(string); ok && subject != "" {
					samples, err = library.BySubject(subject)
				} else {
					samples, err = library.All()
				}

				if err != nil {
					return nil, err
				}

				type summary struct {
					ID      string `json:"id"`
					Title   string `json:"title"`
					Subject string `json:"subject"`
					Preview string `json:"preview"`
				}

				result := make([]summary, 0, len(samples))

				for _, s := range samples {
					result = append(result, summary{ID: s.ID, Title: s.Title, Subject: s.Subject, Preview: s.Preview})
				}

				return result, nil
			},
		},
		{
			Name:        "get_sample",
			Description: "Get a bundled sample lesson with simplified text, key takeaways, quiz and flashcards.",

			Parameters: map[string]any{
				"type": "object",

				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Sample id as returned by list_samples",
					},
				},

				"required": []string{"id"},
			},

			Execute: func(ctx context.Context, args map[string]any) (any, error) {
				id, _ := args["id"].(string)

				sample, err := library.Get(id)

				if err != nil {
					return nil, fmt.Errorf("%w: %s", err, id)
				}

				return sample.Result(), nil
			},
		},
	}
}

func checkURI(ref string, allowLocal bool) error {
	if ref == "" {
		return processing.Errorf(processing.KindInvalidInput, "process", "uri is required")
	}

	u, err := url.Parse(ref)

	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return nil
	}

	if allowLocal {
		return nil
	}

	return processing.Errorf(processing.KindInvalidInput, "process", "unsupported document uri: %s", ref)
}
