package vocabulary

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/wordbrain/internal/database"
)

func setupDB(t *testing.T) {
	t.Helper()
	require.NoError(t, database.ConnectTest())
	t.Cleanup(func() { database.Close() })
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportFromCSV(t *testing.T) {
	setupDB(t)
	path := writeCSV(t, `word,translation,rank,examples
house,дом,120,The house is big.
window,окно,480,
,пусто,10,
threshold,порог,not-a-number,
house,дом (здание),120,The house has two floors.
`)

	cfg := DefaultImportConfig()
	cfg.FilePath = path
	result, err := ImportWords(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 5, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "invalid frequency rank")

	repo := database.NewWordRepository()
	word, err := repo.GetByText(context.Background(), "house")
	require.NoError(t, err)
	assert.Equal(t, "дом (здание)", word.Translation, "re-imported rows update in place")
	assert.Equal(t, 120, word.FrequencyRank)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestImportFromExcel(t *testing.T) {
	setupDB(t)
	path := filepath.Join(t.TempDir(), "words.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"word", "translation", "rank", "examples"},
		{"river", "река", 800, "The river runs north."},
		{"estuary", "устье", 7400, ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cfg := DefaultImportConfig()
	cfg.FilePath = path
	result, err := ImportWords(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.Errors)

	word, err := database.NewWordRepository().GetByText(context.Background(), "estuary")
	require.NoError(t, err)
	assert.Equal(t, 7400, word.FrequencyRank)
	assert.Empty(t, word.Examples)
}

func TestImportMissingFile(t *testing.T) {
	setupDB(t)
	cfg := DefaultImportConfig()
	cfg.FilePath = filepath.Join(t.TempDir(), "absent.xlsx")
	_, err := ImportWords(context.Background(), cfg)
	assert.Error(t, err)
}
