package main

import (
	"github.com/elimu-ai/elimu/server"

	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addressFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and MCP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()

			if err != nil {
				return err
			}

			if addressFlag != "" {
				cfg.Address = addressFlag
			}

			store, err := cfg.OpenStore()

			if err != nil {
				return err
			}

			defer store.Close()

			s, err := server.New(cfg, store, version)

			if err != nil {
				return err
			}

			return s.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&addressFlag, "address", "a", "", "Listen address (default from config)")

	return cmd
}
