package main

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/elimu-ai/elimu/config"

	"github.com/spf13/cobra"
)

const skipConfig = "skip-config"

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string

		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}

		c.config, c.configErr = config.Load(path)
	})

	return c.config, c.configErr
}

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := &commandContext{
		configFlag: &configFlag,
	}

	rootCmd := &cobra.Command{
		Use:           "elimu",
		Short:         "Turn learning documents into simplified, narrated and illustrated lessons",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfig] != "" {
				return nil
			}

			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newProcessCommand(ctx))
	rootCmd.AddCommand(newSamplesCommand())
	rootCmd.AddCommand(newVoicesCommand(ctx))
	rootCmd.AddCommand(newSpeakCommand(ctx))
	rootCmd.AddCommand(newMCPCommand(ctx))

	return rootCmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return enc.Encode(v)
}
