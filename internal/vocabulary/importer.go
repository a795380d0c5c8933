// Package vocabulary imports catalog rows (word, translation, frequency
// rank, examples) from Excel or CSV files handed over by the seeding
// pipeline. Content generation itself happens upstream; this package only
// accepts well-formed rows.
package vocabulary

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/wordbrain/internal/database"
	"github.com/example/wordbrain/pkg/models"
)

// ImportConfig defines the import configuration.
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	WordColumn        string // Column with the word
	TranslationColumn string // Column with the translation
	RankColumn        string // Column with the frequency rank
	ExamplesColumn    string // Column with usage examples
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based)
}

// DefaultImportConfig returns the default import configuration.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:        "A",
		TranslationColumn: "B",
		RankColumn:        "C",
		ExamplesColumn:    "D",
		SheetName:         "Sheet1",
		StartRow:          2, // skip the header row
	}
}

// ImportResult holds the result of an import operation.
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportWords imports catalog words from an Excel or CSV file, dispatching
// on the file extension.
func ImportWords(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		return importFromCSV(ctx, config)
	}
	return importFromExcel(ctx, config)
}

// importFromExcel imports words from an Excel file.
func importFromExcel(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", config.SheetName, err)
	}

	wordIdx, err := excelize.ColumnNameToNumber(config.WordColumn)
	if err != nil {
		return nil, fmt.Errorf("invalid word column %q: %w", config.WordColumn, err)
	}
	translationIdx, err := excelize.ColumnNameToNumber(config.TranslationColumn)
	if err != nil {
		return nil, fmt.Errorf("invalid translation column %q: %w", config.TranslationColumn, err)
	}
	rankIdx, err := excelize.ColumnNameToNumber(config.RankColumn)
	if err != nil {
		return nil, fmt.Errorf("invalid rank column %q: %w", config.RankColumn, err)
	}
	examplesIdx, err := excelize.ColumnNameToNumber(config.ExamplesColumn)
	if err != nil {
		return nil, fmt.Errorf("invalid examples column %q: %w", config.ExamplesColumn, err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	repo := database.NewWordRepository()

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++
		record := rowRecord{
			word:        cell(row, wordIdx),
			translation: cell(row, translationIdx),
			rank:        cell(row, rankIdx),
			examples:    cell(row, examplesIdx),
		}
		importRecord(ctx, repo, record, rowNum, result)
	}
	return result, nil
}

// importFromCSV imports words from a CSV file with the fixed column order
// word, translation, rank, examples.
func importFromCSV(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	result := &ImportResult{Errors: make([]string, 0)}
	repo := database.NewWordRepository()

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++
		record := rowRecord{
			word:        cell(row, 1),
			translation: cell(row, 2),
			rank:        cell(row, 3),
			examples:    cell(row, 4),
		}
		importRecord(ctx, repo, record, rowNum, result)
	}
	return result, nil
}

type rowRecord struct {
	word        string
	translation string
	rank        string
	examples    string
}

// importRecord validates one row and upserts it into the catalog.
func importRecord(ctx context.Context, repo *database.WordRepository, rec rowRecord, rowNum int, result *ImportResult) {
	text := strings.TrimSpace(rec.word)
	translation := strings.TrimSpace(rec.translation)
	if text == "" || translation == "" {
		result.Skipped++
		return
	}
	rank, err := strconv.Atoi(strings.TrimSpace(rec.rank))
	if err != nil {
		result.Skipped++
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: invalid frequency rank %q", rowNum, rec.rank))
		return
	}

	word := models.Word{
		Text:          text,
		Translation:   translation,
		Examples:      strings.TrimSpace(rec.examples),
		FrequencyRank: rank,
	}
	created, err := repo.Upsert(ctx, &word)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
		return
	}
	if created {
		result.Created++
	} else {
		result.Updated++
	}
}

// cell returns the 1-based column value, or "" when the row is shorter.
func cell(row []string, idx int) string {
	if idx < 1 || idx > len(row) {
		return ""
	}
	return row[idx-1]
}
