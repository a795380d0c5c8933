package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/wordbrain/internal/vocabulary"
)

var (
	importFileFlag     string
	importSheetFlag    string
	importStartRowFlag int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import catalog words from an Excel or CSV file",
	Long:  "Imports rows of (word, translation, frequency rank, examples) into the word catalog.",
	RunE: func(cmd *cobra.Command, args []string) error {
		importCfg := vocabulary.DefaultImportConfig()
		importCfg.FilePath = importFileFlag
		if importSheetFlag != "" {
			importCfg.SheetName = importSheetFlag
		}
		if importStartRowFlag > 0 {
			importCfg.StartRow = importStartRowFlag
		}

		result, err := vocabulary.ImportWords(cmd.Context(), importCfg)
		if err != nil {
			return err
		}
		fmt.Printf("Processed %d rows: %d created, %d updated, %d skipped.\n",
			result.TotalProcessed, result.Created, result.Updated, result.Skipped)
		for _, e := range result.Errors {
			log.Warn("import issue", "detail", e)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFileFlag, "file", "", "path to the .xlsx or .csv file")
	importCmd.Flags().StringVar(&importSheetFlag, "sheet", "", "sheet name for Excel files")
	importCmd.Flags().IntVar(&importStartRowFlag, "start-row", 0, "first data row (1-based)")
	importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
