package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/elimu-ai/elimu/pkg/library"

	"github.com/spf13/cobra"
)

func newSamplesCommand() *cobra.Command {
	var (
		subjectFlag string
		jsonFlag    bool
	)

	cmd := &cobra.Command{
		Use:         "samples [id]",
		Short:       "List bundled sample lessons or show one",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				sample, err := library.Get(args[0])

				if err != nil {
					return fmt.Errorf("%w: %s", err, args[0])
				}

				if jsonFlag {
					return writeJSON(cmd, sample.Result())
				}

				printSample(cmd, sample)
				return nil
			}

			var (
				samples []library.Sample
				err     error
			)

			if subjectFlag != "" {
				samples, err = library.BySubject(subjectFlag)
			} else {
				samples, err = library.All()
			}

			if err != nil {
				return err
			}

			if jsonFlag {
				return writeJSON(cmd, samples)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			fmt.Fprintln(w, "ID\tSUBJECT\tTITLE")

			for _, s := range samples {
				fmt.Fprintf(w, "%s\t%s\t%s %s\n", s.ID, s.Subject, s.Emoji, s.Title)
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&subjectFlag, "subject", "s", "", "Filter by subject")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print as JSON")

	return cmd
}

func printSample(cmd *cobra.Command, s *library.Sample) {
	out := cmd.OutOrStdout()
	c := s.Content

	fmt.Fprintf(out, "%s %s\n%s · %s · %s\n\n", s.Emoji, s.Title, s.Subject, c.GradeLevel, c.EstimatedReadingTime)
	fmt.Fprintln(out, strings.TrimSpace(c.SimplifiedText))

	fmt.Fprintln(out, "\nKey takeaways:")

	for _, t := range c.KeyTakeaways {
		fmt.Fprintf(out, "  - %s\n", t)
	}

	fmt.Fprintln(out, "\nQuiz:")

	for i, q := range c.Quiz {
		fmt.Fprintf(out, "  %d. %s\n", i+1, q.Question)

		for j, o := range q.Options {
			fmt.Fprintf(out, "     %c) %s\n", 'a'+j, o)
		}
	}

	fmt.Fprintln(out, "\nFlashcards:")

	for _, f := range c.Flashcards {
		fmt.Fprintf(out, "  %s: %s\n", f.Term, f.Definition)
	}
}
