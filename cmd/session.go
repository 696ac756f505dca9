package cmd

import (
	"github.com/spf13/cobra"

	"github.com/example/vocabsrs/pkg/models"
)

func newSessionCmd() *cobra.Command {
	var (
		learnerID, topicID int64
		mode               string
		limit              int
	)
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Compose a learning session for a topic",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			m, err := models.ParseMode(mode)
			if err != nil {
				return err
			}
			n, err := a.limit(limit)
			if err != nil {
				return err
			}
			words, err := a.engine.GetSessionWords(cmd.Context(), learnerID, topicID, m, n)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), words)
		}),
	}
	cmd.Flags().Int64Var(&learnerID, "learner", 0, "learner id")
	cmd.Flags().Int64Var(&topicID, "topic", 0, "topic id")
	cmd.Flags().StringVar(&mode, "mode", string(models.ModeMixed), "new, review or mixed")
	cmd.Flags().IntVar(&limit, "limit", 0, "number of words (default: session.default_limit)")
	_ = cmd.MarkFlagRequired("learner")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}
