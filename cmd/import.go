package cmd

import (
	"github.com/spf13/cobra"

	"github.com/example/vocabsrs/internal/database"
	"github.com/example/vocabsrs/internal/excel"
)

func newImportCmd() *cobra.Command {
	var sheet string
	var startRow int

	cmd := &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Import languages, topics and words into the catalog",
		Long: `Import catalog rows. Default column layout:
A language code, B language name, C topic, D word, E translation,
F pronunciation, G part of speech, H level, I frequency (1-10).`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			cfg := excel.DefaultImportConfig()
			cfg.SheetName = sheet
			cfg.StartRow = startRow

			im := excel.NewImporter(
				a.languages,
				database.NewTopicRepository(a.db),
				database.NewWordRepository(a.db),
				a.logger,
			)
			res, err := im.ImportFile(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet to read (default: first sheet)")
	cmd.Flags().IntVar(&startRow, "start-row", 2, "first data row, 1-based")
	return cmd
}
