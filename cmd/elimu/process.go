package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/elimu-ai/elimu/config"
	"github.com/elimu-ai/elimu/pkg/client"
	"github.com/elimu-ai/elimu/pkg/extractor"
	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/pkg/store"
	"github.com/elimu-ai/elimu/pkg/streak"

	"github.com/spf13/cobra"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		levelFlag     string
		languageFlag  string
		voiceFlag     string
		maxVisuals    int
		noAudioFlag   bool
		noVisualsFlag bool
		jsonFlag      bool
		serverFlag    string
		tokenFlag     string
	)

	cmd := &cobra.Command{
		Use:   "process <file-or-url>",
		Short: "Extract, simplify, narrate and illustrate a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg     *config.Config
				options processing.Config
			)

			if serverFlag == "" {
				var err error

				if cfg, err = ctx.ensureConfig(); err != nil {
					return err
				}

				options = cfg.Defaults
			}

			if levelFlag != "" {
				options.Simplification.ReadingLevel = processing.ReadingLevel(levelFlag)
			}

			if languageFlag != "" {
				options.Simplification.Language = languageFlag
				options.Audio.Language = languageFlag
			}

			if voiceFlag != "" {
				options.Audio.Voice = voiceFlag
			}

			if maxVisuals > 0 {
				options.Visuals.MaxVisuals = maxVisuals
			}

			options.Audio.Disabled = options.Audio.Disabled || noAudioFlag
			options.Visuals.Disabled = options.Visuals.Disabled || noVisualsFlag

			ref := args[0]

			if serverFlag != "" {
				result, err := processRemote(cmd, serverFlag, tokenFlag, ref, &options)

				if err != nil {
					return err
				}

				if jsonFlag {
					return writeJSON(cmd, result)
				}

				printResult(cmd, result)
				return nil
			}

			result, err := cfg.Pipeline().Process(cmd.Context(), ref, &options)

			if err != nil {
				return err
			}

			remember(cmd, cfg.Database, ref)

			if jsonFlag {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
			} else {
				printResult(cmd, result)
			}

			if n := cfg.Narrator(); n != nil && result.Audio.Status == processing.StatusReady {
				defer n.Stop()
				return n.Wait(cmd.Context())
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&levelFlag, "level", "l", "", "Reading level: elementary, middle or high")
	cmd.Flags().StringVar(&languageFlag, "language", "", "Output language code, e.g. en or sw")
	cmd.Flags().StringVar(&voiceFlag, "voice", "", "Voice used for narration")
	cmd.Flags().IntVar(&maxVisuals, "max-visuals", 0, "Maximum number of visual aids")
	cmd.Flags().BoolVar(&noAudioFlag, "no-audio", false, "Skip narration")
	cmd.Flags().BoolVar(&noVisualsFlag, "no-visuals", false, "Skip visual aid generation")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the full result as JSON")
	cmd.Flags().StringVar(&serverFlag, "server", "", "Process on a running elimu server instead of locally")

	cmd.Flags().StringVar(&tokenFlag, "token", os.Getenv("ELIMU_TOKEN"), "Bearer token for --server")

	cmd.Annotations = map[string]string{skipConfig: "true"}

	return cmd
}

func processRemote(cmd *cobra.Command, server, token, ref string, config *processing.Config) (*processing.Result, error) {
	var options []client.RequestOption

	if token != "" {
		options = append(options, client.WithToken(token))
	}

	c := client.New(server, options...)

	input := client.ProcessRequest{
		URI:    ref,
		Config: config,
	}

	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		f, err := os.Open(ref)

		if err != nil {
			return nil, err
		}

		defer f.Close()

		input.URI = ""
		input.Name = filepath.Base(ref)
		input.Reader = f
	}

	return c.Documents.Process(cmd.Context(), input)
}

func printResult(cmd *cobra.Command, result *processing.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, result.Text)
	fmt.Fprintln(out)

	fmt.Fprintf(out, "audio: %s", result.Audio.Status)

	if result.Audio.Error != "" {
		fmt.Fprintf(out, " (%s)", result.Audio.Error)
	}

	fmt.Fprintln(out)

	fmt.Fprintf(out, "visuals: %s", result.Images.Status)

	if result.Images.Error != "" {
		fmt.Fprintf(out, " (%s)", result.Images.Error)
	}

	fmt.Fprintln(out)

	for _, img := range result.Images.Images {
		url := img.URL

		if len(url) > 80 {
			url = url[:77] + "..."
		}

		fmt.Fprintf(out, "  - %s: %s [%s]\n", img.Type, img.Description, url)
	}

	fmt.Fprintf(out, "took %dms\n", result.Metadata.ProcessingTimeMs)
}

// remember records the document in the upload history and counts a study
// session. Failures are logged only.
func remember(cmd *cobra.Command, database, ref string) {
	s, err := store.Open(database)

	if err != nil {
		slog.Warn("failed to open store", "error", err)
		return
	}

	defer s.Close()

	entry := store.HistoryEntry{
		Name:        filepath.Base(ref),
		MIMEType:    extractor.MimeType(ref),
		DocumentURI: ref,
	}

	if _, err := s.AddHistory(cmd.Context(), entry); err != nil {
		slog.Warn("failed to record history", "error", err)
	}

	if _, _, err := streak.New(s).Record(cmd.Context()); err != nil {
		slog.Warn("failed to record study session", "error", err)
	}
}
