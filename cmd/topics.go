package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/vocabsrs/pkg/models"
)

func newTopicsCmd() *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List catalog topics",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			languageID, err := a.languageID(cmd.Context(), language)
			if err != nil {
				return err
			}
			topics, err := a.catalog.ListByLanguage(cmd.Context(), languageID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), topics)
		}),
	}
	cmd.Flags().StringVar(&language, "language", "", "two-letter language code (default: all)")
	return cmd
}

func newWordsCmd() *cobra.Command {
	var (
		topicID int64
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "words",
		Short: "List the words of a topic, most frequent first",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			n, err := a.limit(limit)
			if err != nil {
				return err
			}
			topic, err := a.catalog.GetTopic(cmd.Context(), topicID)
			if err != nil {
				return err
			}
			if topic == nil {
				return fmt.Errorf("%w: topic %d", models.ErrNotFound, topicID)
			}
			words, err := a.catalog.FindByTopic(cmd.Context(), topicID, n)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), words)
		}),
	}
	cmd.Flags().Int64Var(&topicID, "topic", 0, "topic id")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of words (default from config)")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}
