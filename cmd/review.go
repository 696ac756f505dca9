package cmd

import (
	"github.com/spf13/cobra"

	"github.com/example/vocabsrs/internal/learning"
)

func newReviewCmd() *cobra.Command {
	var (
		learnerID, wordID int64
		difficulty        int
		correct           bool
	)
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Submit the outcome of one review",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			review := learning.Review{
				LearnerID:  learnerID,
				WordID:     wordID,
				Difficulty: difficulty,
			}
			if cmd.Flags().Changed("correct") {
				review.Correct = &correct
			}
			out, err := a.engine.SubmitReview(cmd.Context(), review)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		}),
	}
	cmd.Flags().Int64Var(&learnerID, "learner", 0, "learner id")
	cmd.Flags().Int64Var(&wordID, "word", 0, "word id")
	cmd.Flags().IntVar(&difficulty, "difficulty", 0, "recall difficulty, 1 (forgot) to 5 (easy)")
	cmd.Flags().BoolVar(&correct, "correct", false, "whether the answer was correct (default: difficulty >= 3)")
	_ = cmd.MarkFlagRequired("learner")
	_ = cmd.MarkFlagRequired("word")
	_ = cmd.MarkFlagRequired("difficulty")
	return cmd
}
