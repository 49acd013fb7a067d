package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type Tool struct {
	Name        string
	Description string

	Parameters map[string]any

	Execute func(ctx context.Context, args map[string]any) (any, error)
}

type Server struct {
	impl *mcp.Implementation
	opts *mcp.ServerOptions

	tools []Tool
}

func New(name, version string, tools ...Tool) *Server {
	return &Server{
		impl: &mcp.Implementation{
			Name:    name,
			Version: version,
		},

		opts: &mcp.ServerOptions{
			KeepAlive: time.Second * 30,
		},

		tools: tools,
	}
}

func (s *Server) Server() (*mcp.Server, error) {
	server := mcp.NewServer(s.impl, s.opts)

	for _, t := range s.tools {
		if t.Execute == nil {
			return nil, errors.New("tool without handler: " + t.Name)
		}

		data, _ := json.Marshal(t.Parameters)

		schema := new(jsonschema.Schema)

		if err := schema.UnmarshalJSON(data); err != nil {
			return nil, err
		}

		handler := func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, err := decodeArguments(req.Params.Arguments)

			if err != nil {
				return errorResult(err), nil
			}

			result, err := t.Execute(ctx, args)

			if err != nil {
				return errorResult(err), nil
			}

			return textResult(result), nil
		}

		tool := &mcp.Tool{
			Name:        t.Name,
			Description: t.Description,

			InputSchema: schema,
		}

		server.AddTool(tool, handler)
	}

	return server, nil
}

func decodeArguments(raw any) (map[string]any, error) {
	data, err := json.Marshal(raw)

	if err != nil {
		return nil, err
	}

	var args map[string]any

	if err := json.Unmarshal(data, &args); err != nil {
		return nil, err
	}

	if args == nil {
		args = map[string]any{}
	}

	return args, nil
}

func textResult(v any) *mcp.CallToolResult {
	text, ok := v.(string)

	if !ok {
		data, _ := json.Marshal(v)
		text = string(data)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: text,
			},
		},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,

		Content: []mcp.Content{
			&mcp.TextContent{
				Text: err.Error(),
			},
		},
	}
}
