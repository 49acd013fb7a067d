package mcp

import (
	"net/http"

	"github.com/elimu-ai/elimu/config"
	"github.com/elimu-ai/elimu/pkg/mcp"

	"github.com/go-chi/chi/v5"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type Handler struct {
	handler http.Handler
}

func New(cfg *config.Config, version string) (*Handler, error) {
	s := mcp.New("elimu", version, Tools(cfg.Pipeline(), cfg.Defaults, false)...)

	server, err := s.Server()

	if err != nil {
		return nil, err
	}

	handler := sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server {
		return server
	}, &sdk.StreamableHTTPOptions{
		Stateless: true,
	})

	return &Handler{
		handler: handler,
	}, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Handle("/mcp", h.handler)
}
