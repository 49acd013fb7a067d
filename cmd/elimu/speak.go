package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/elimu-ai/elimu/pkg/narrator"
	"github.com/elimu-ai/elimu/pkg/processing"

	"github.com/spf13/cobra"
)

func requireNarrator(ctx *commandContext) (*narrator.Narrator, error) {
	cfg, err := ctx.ensureConfig()

	if err != nil {
		return nil, err
	}

	n := cfg.Narrator()

	if n == nil {
		return nil, processing.Errorf(processing.KindConfigurationError, "speech", "no speech engine configured")
	}

	return n, nil
}

func newVoicesCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List voices of the configured speech engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := requireNarrator(ctx)

			if err != nil {
				return err
			}

			voices, err := n.Voices(cmd.Context())

			if err != nil {
				return err
			}

			if jsonFlag {
				return writeJSON(cmd, voices)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			fmt.Fprintln(w, "ID\tNAME\tLANGUAGE")

			for _, v := range voices {
				fmt.Fprintf(w, "%s\t%s\t%s\n", v.ID, v.Name, v.Language)
			}

			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print as JSON")

	return cmd
}

func newSpeakCommand(ctx *commandContext) *cobra.Command {
	var (
		voiceFlag    string
		languageFlag string
		rateFlag     float64
		pitchFlag    float64
	)

	cmd := &cobra.Command{
		Use:   "speak <text>",
		Short: "Read text aloud",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := requireNarrator(ctx)

			if err != nil {
				return err
			}

			events, unsubscribe := n.Subscribe()
			defer unsubscribe()

			_, err = n.Speak(cmd.Context(), strings.Join(args, " "), &narrator.SpeakOptions{
				Voice:    voiceFlag,
				Language: languageFlag,

				Rate:  rateFlag,
				Pitch: pitchFlag,
			})

			if err != nil {
				return err
			}

			for {
				select {
				case <-cmd.Context().Done():
					n.Stop()
					return cmd.Context().Err()

				case e := <-events:
					if !e.State.Terminal() {
						continue
					}

					if e.State != narrator.StateErrored {
						return nil
					}

					if e.Err == nil {
						return errors.New("speech failed")
					}

					return e.Err
				}
			}
		},
	}

	cmd.Flags().StringVar(&voiceFlag, "voice", "", "Voice id")
	cmd.Flags().StringVar(&languageFlag, "language", "", "Language code, e.g. en-US or sw")
	cmd.Flags().Float64Var(&rateFlag, "rate", 1.0, "Speech rate, 1.0 is normal")
	cmd.Flags().Float64Var(&pitchFlag, "pitch", 1.0, "Speech pitch, 1.0 is normal")

	return cmd
}
