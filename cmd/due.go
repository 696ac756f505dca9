package cmd

import (
	"github.com/spf13/cobra"

	"github.com/example/vocabsrs/internal/learning"
)

func newDueCmd() *cobra.Command {
	var (
		learnerID int64
		language  string
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "due",
		Short: "List words due for review, most overdue first",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			n, err := a.limit(limit)
			if err != nil {
				return err
			}
			languageID, err := a.languageID(cmd.Context(), language)
			if err != nil {
				return err
			}
			due, err := a.engine.GetDueWords(cmd.Context(), learnerID, learning.DueQuery{LanguageID: languageID, Limit: n})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), due)
		}),
	}
	cmd.Flags().Int64Var(&learnerID, "learner", 0, "learner id")
	cmd.Flags().StringVar(&language, "language", "", "two-letter language code (default: all)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of words (default: session.default_limit)")
	_ = cmd.MarkFlagRequired("learner")
	return cmd
}
