package main

import (
	"github.com/elimu-ai/elimu/pkg/mcp"
	mcpserver "github.com/elimu-ai/elimu/server/mcp"

	"github.com/spf13/cobra"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func newMCPCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()

			if err != nil {
				return err
			}

			s := mcp.New("elimu", version, mcpserver.Tools(cfg.Pipeline(), cfg.Defaults, true)...)

			server, err := s.Server()

			if err != nil {
				return err
			}

			return server.Run(cmd.Context(), &sdk.StdioTransport{})
		},
	}
}
