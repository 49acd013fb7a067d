package visualizer

import (
	"encoding/json"
	"sync"

	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/pkg/provider"

	"github.com/google/jsonschema-go/jsonschema"
)

var suggestionSchema = sync.OnceValues(func() (*provider.Schema, error) {
	schema, err := jsonschema.For[[]suggestion](nil)

	if err != nil {
		return nil, err
	}

	if schema.Items != nil && schema.Items.Properties != nil {
		if t, ok := schema.Items.Properties["type"]; ok {
			for _, v := range processing.VisualTypes {
				t.Enum = append(t.Enum, string(v))
			}
		}
	}

	data, err := json.Marshal(schema)

	if err != nil {
		return nil, err
	}

	var parameters map[string]any

	if err := json.Unmarshal(data, &parameters); err != nil {
		return nil, err
	}

	return &provider.Schema{
		Name:        "visual_aids",
		Description: "suggested visual learning aids",

		Schema: parameters,
	}, nil
})
