package cmd

import (
	"github.com/spf13/cobra"

	"github.com/example/vocabsrs/internal/learning"
)

func newStatsCmd() *cobra.Command {
	var (
		learnerID int64
		language  string
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show review statistics for a learner",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			languageID, err := a.languageID(cmd.Context(), language)
			if err != nil {
				return err
			}
			stats, err := a.engine.GetStats(cmd.Context(), learnerID, learning.StatsQuery{LanguageID: languageID})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		}),
	}
	cmd.Flags().Int64Var(&learnerID, "learner", 0, "learner id")
	cmd.Flags().StringVar(&language, "language", "", "two-letter language code (default: all)")
	_ = cmd.MarkFlagRequired("learner")
	return cmd
}

func newProgressCmd() *cobra.Command {
	var learnerID, topicID int64
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show a learner's progress in one topic",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			p, err := a.engine.GetTopicProgress(cmd.Context(), learnerID, topicID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		}),
	}
	cmd.Flags().Int64Var(&learnerID, "learner", 0, "learner id")
	cmd.Flags().Int64Var(&topicID, "topic", 0, "topic id")
	_ = cmd.MarkFlagRequired("learner")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}
