package reports

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"medmatch/database"
)

func newSeededExporter(t *testing.T) *Exporter {
	t.Helper()
	store, err := database.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.SaveModelContractMapping("K-1", "Система ACE X5", "ACE X5", 1.0, "в обычных кавычках"))
	require.NoError(t, store.SaveModelContractMapping("K-2", "Аппарат Voluson", "Voluson E8", 0.85, "smart fallback"))
	require.NoError(t, store.SaveModelContractMapping("K-3", "Неизвестный аппарат", "Неизвестный аппарат УЗИ", 0.0, "word fallback"))

	return NewExporter(store)
}

func TestExportToJSON(t *testing.T) {
	exporter := newSeededExporter(t)
	path := filepath.Join(t.TempDir(), "mappings.json")

	require.NoError(t, exporter.ExportToJSON(path, ExportFilters{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var payload struct {
		ExportedAt string            `json:"exported_at"`
		Total      int               `json:"total"`
		Mappings   []ExportedMapping `json:"mappings"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))

	assert.NotEmpty(t, payload.ExportedAt)
	assert.Equal(t, 3, payload.Total)
	require.Len(t, payload.Mappings, 3)
	assert.Equal(t, "K-1", payload.Mappings[0].ContractNumber)
	assert.Equal(t, "ACE X5", payload.Mappings[0].NormalizedName)
}

func TestExportToCSV(t *testing.T) {
	exporter := newSeededExporter(t)
	path := filepath.Join(t.TempDir(), "mappings.csv")

	require.NoError(t, exporter.ExportToCSV(path, ExportFilters{}))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, exportHeaders, records[0])
	assert.Equal(t, "K-1", records[1][1])
	assert.Equal(t, "1.00", records[1][4])
	assert.Equal(t, "word fallback", records[3][5])
}

func TestExportToExcel(t *testing.T) {
	exporter := newSeededExporter(t)
	path := filepath.Join(t.TempDir(), "mappings.xlsx")

	require.NoError(t, exporter.ExportToExcel(path, ExportFilters{}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Маппинги")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, "K-2", rows[2][1])
	assert.Equal(t, "smart fallback", rows[2][5])
}

func TestExport_Filters(t *testing.T) {
	exporter := newSeededExporter(t)

	// Отбор по методу извлечения
	items, err := exporter.fetchMappings(ExportFilters{ExtractionMethod: "smart fallback"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "K-2", items[0].ContractNumber)

	// Отбор по минимальной уверенности
	items, err = exporter.fetchMappings(ExportFilters{MinConfidence: 0.9})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "K-1", items[0].ContractNumber)

	// Ограничение количества
	items, err = exporter.fetchMappings(ExportFilters{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestExport_UnknownFormat(t *testing.T) {
	exporter := newSeededExporter(t)
	err := exporter.Export("yaml", filepath.Join(t.TempDir(), "out.yaml"), ExportFilters{})
	assert.Error(t, err)
}
