package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/siherrmann/medgraph/model"
	"github.com/spf13/cobra"
)

func newSeedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the medical device knowledge graph into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.openMedgraph(cmd)
			if err != nil {
				return err
			}
			defer closeQuietly(m)

			seeded, err := m.Seed(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]bool{"seeded": seeded})
		},
	}
}

// feedbackFlags are the optional parts of a feedback record
type feedbackFlags struct {
	rating      int
	thumbs      string
	correctness string
	comment     string
}

func (f feedbackFlags) feedback(queryID uuid.UUID) *model.Feedback {
	feedback := &model.Feedback{
		QueryID:     queryID,
		Thumbs:      model.Thumbs(f.thumbs),
		Correctness: model.Correctness(f.correctness),
		Comment:     f.comment,
	}
	if f.rating != 0 {
		rating := f.rating
		feedback.Rating = &rating
	}
	return feedback
}

func newFeedbackCmd(opts *options) *cobra.Command {
	flags := feedbackFlags{}

	cmd := &cobra.Command{
		Use:   "feedback [query-id]",
		Short: "Record user feedback for a processed query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queryID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid query id %q: %w", args[0], err)
			}

			feedback := flags.feedback(queryID)
			err = feedback.Validate()
			if err != nil {
				return err
			}

			m, err := opts.openMedgraph(cmd)
			if err != nil {
				return err
			}
			defer closeQuietly(m)

			err = m.SubmitFeedback(cmd.Context(), feedback)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), feedback)
		},
	}
	cmd.Flags().IntVar(&flags.rating, "rating", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&flags.thumbs, "thumbs", "", "up or down")
	cmd.Flags().StringVar(&flags.correctness, "correctness", "", "correct, partially_correct or incorrect")
	cmd.Flags().StringVar(&flags.comment, "comment", "", "free text comment")

	return cmd
}
