package google

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/elimu-ai/elimu/pkg/provider"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

var _ provider.Completer = (*Completer)(nil)

type Completer struct {
	*Config

	client *genai.Client
}

func NewCompleter(model string, options ...Option) (*Completer, error) {
	cfg := &Config{
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	client, err := cfg.newClient(context.Background())

	if err != nil {
		return nil, err
	}

	return &Completer{
		Config: cfg,
		client: client,
	}, nil
}

func (c *Completer) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	if options == nil {
		options = new(provider.CompleteOptions)
	}

	contents, err := convertMessages(messages)

	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: convertSystem(messages),
	}

	if len(options.Stop) > 0 {
		config.StopSequences = options.Stop
	}

	if options.MaxTokens != nil {
		config.MaxOutputTokens = int32(*options.MaxTokens)
	}

	if options.Temperature != nil {
		config.Temperature = options.Temperature
	}

	if options.Format == provider.CompletionFormatJSON || options.Schema != nil {
		config.ResponseMIMEType = "application/json"

		if options.Schema != nil {
			config.ResponseSchema = convertSchema(options.Schema.Schema)
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)

	if err != nil {
		return nil, convertError(err)
	}

	if len(resp.Candidates) == 0 {
		return nil, errors.New("no candidates returned")
	}

	candidate := resp.Candidates[0]

	return &provider.Completion{
		ID:     uuid.NewString(),
		Model:  c.model,
		Reason: toCompletionReason(candidate),

		Message: &provider.Message{
			Role:    provider.MessageRoleAssistant,
			Content: toContent(candidate.Content),
		},

		Usage: toUsage(resp.UsageMetadata),
	}, nil
}

func convertSystem(messages []provider.Message) *genai.Content {
	var parts []*genai.Part

	for _, m := range messages {
		if m.Role != provider.MessageRoleSystem {
			continue
		}

		for _, c := range m.Content {
			if c.Text != "" {
				parts = append(parts, genai.NewPartFromText(c.Text))
			}
		}
	}

	if len(parts) == 0 {
		return nil
	}

	return genai.NewContentFromParts(parts, genai.RoleUser)
}

func convertMessages(messages []provider.Message) ([]*genai.Content, error) {
	var result []*genai.Content

	for _, m := range messages {
		var role genai.Role

		switch m.Role {
		case provider.MessageRoleSystem:
			continue

		case provider.MessageRoleUser:
			role = genai.RoleUser

		case provider.MessageRoleAssistant:
			role = genai.RoleModel

		default:
			return nil, errors.New("unsupported message role: " + string(m.Role))
		}

		var parts []*genai.Part

		for _, c := range m.Content {
			if c.Text != "" {
				parts = append(parts, genai.NewPartFromText(c.Text))
			}

			if c.File != nil {
				if !isSupportedFile(c.File.ContentType) {
					return nil, errors.New("unsupported content type: " + c.File.ContentType)
				}

				parts = append(parts, genai.NewPartFromBytes(c.File.Content, c.File.ContentType))
			}
		}

		if len(parts) == 0 {
			continue
		}

		result = append(result, genai.NewContentFromParts(parts, role))
	}

	if len(result) == 0 {
		return nil, errors.New("no content to send")
	}

	return result, nil
}

func isSupportedFile(contentType string) bool {
	switch contentType {
	case "application/pdf", "text/plain",
		"image/png", "image/jpeg", "image/webp", "image/heic", "image/heif":
		return true
	}

	return strings.HasPrefix(contentType, "image/")
}

func convertSchema(parameters map[string]any) *genai.Schema {
	if len(parameters) == 0 {
		return nil
	}

	schema := &genai.Schema{
		Type: genai.TypeObject,
	}

	if val, ok := schemaType(parameters["type"]); ok {
		switch val {
		case "string":
			schema.Type = genai.TypeString
		case "number":
			schema.Type = genai.TypeNumber
		case "integer":
			schema.Type = genai.TypeInteger
		case "boolean":
			schema.Type = genai.TypeBoolean
		case "array":
			schema.Type = genai.TypeArray
		case "object":
			schema.Type = genai.TypeObject
		}
	}

	if val, ok := parameters["description"].(string); ok {
		schema.Description = val
	}

	schema.Enum = toStrings(parameters["enum"])

	if v, ok := parameters["type"].([]any); ok && slices.Contains(v, any("null")) {
		nullable := true
		schema.Nullable = &nullable
	}

	if val, ok := parameters["items"].(map[string]any); ok {
		schema.Items = convertSchema(val)
	}

	if val, ok := parameters["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema)

		for key, value := range val {
			if parameters, ok := value.(map[string]any); ok {
				schema.Properties[key] = convertSchema(parameters)
			}
		}
	}

	schema.Required = toStrings(parameters["required"])

	return schema
}

// schemaType reads "type", which may list "null" next to the actual type.
func schemaType(val any) (string, bool) {
	for _, t := range toStrings(val) {
		if t != "null" {
			return t, true
		}
	}

	if t, ok := val.(string); ok {
		return t, true
	}

	return "", false
}

func toStrings(val any) []string {
	switch v := val.(type) {
	case []string:
		return v

	case []any:
		var result []string

		for _, s := range v {
			if str, ok := s.(string); ok {
				result = append(result, str)
			}
		}

		return result
	}

	return nil
}

func toContent(content *genai.Content) []provider.Content {
	if content == nil {
		return nil
	}

	var parts []provider.Content

	for _, p := range content.Parts {
		if p == nil || p.Thought {
			continue
		}

		if p.Text != "" {
			parts = append(parts, provider.TextContent(p.Text))
		}
	}

	return parts
}

func toCompletionReason(candidate *genai.Candidate) provider.CompletionReason {
	switch candidate.FinishReason {
	case genai.FinishReasonStop:
		return provider.CompletionReasonStop

	case genai.FinishReasonMaxTokens:
		return provider.CompletionReasonLength

	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return provider.CompletionReasonFilter
	}

	return ""
}

func toUsage(metadata *genai.GenerateContentResponseUsageMetadata) *provider.Usage {
	if metadata == nil {
		return nil
	}

	return &provider.Usage{
		InputTokens:  int(metadata.PromptTokenCount),
		OutputTokens: int(metadata.CandidatesTokenCount),
	}
}
