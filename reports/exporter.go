// Package reports выгружает результаты нормализации в JSON, CSV и Excel
// для ручной проверки и передачи заказчику.
package reports

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"medmatch/database"
)

// ExportFormat формат экспорта
type ExportFormat string

const (
	FormatJSON  ExportFormat = "json"
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "excel"
)

// ExportedMapping экспортируемый маппинг контракт → модель
type ExportedMapping struct {
	ID               int     `json:"id"`
	ContractNumber   string  `json:"contract_number"`
	CertificateName  string  `json:"certificate_name"`
	NormalizedName   string  `json:"normalized_name"`
	ConfidenceScore  float64 `json:"confidence_score"`
	ExtractionMethod string  `json:"extraction_method"`
	CreatedAt        string  `json:"created_at"`
}

// ExportFilters условия отбора маппингов для выгрузки
type ExportFilters struct {
	// ExtractionMethod метод извлечения, пустой — все
	ExtractionMethod string
	// MinConfidence минимальная уверенность, 0 — без ограничения
	MinConfidence float64
	// Limit максимум записей, <=0 — без ограничения
	Limit int
}

// Exporter выгружает маппинги из базы
type Exporter struct {
	store *database.Store
}

// NewExporter создает экспортер поверх базы
func NewExporter(store *database.Store) *Exporter {
	return &Exporter{store: store}
}

// ExportToJSON выгружает маппинги в JSON файл
func (e *Exporter) ExportToJSON(filename string, filters ExportFilters) error {
	items, err := e.fetchMappings(filters)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("создание файла выгрузки: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	result := map[string]any{
		"exported_at": time.Now().Format(time.RFC3339),
		"total":       len(items),
		"mappings":    items,
	}
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("запись JSON: %w", err)
	}
	return nil
}

var exportHeaders = []string{
	"ID", "Номер контракта", "Название из РУ", "Нормализованная модель",
	"Уверенность", "Метод извлечения", "Дата",
}

// ExportToCSV выгружает маппинги в CSV файл
func (e *Exporter) ExportToCSV(filename string, filters ExportFilters) error {
	items, err := e.fetchMappings(filters)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("создание файла выгрузки: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(exportHeaders); err != nil {
		return fmt.Errorf("запись заголовков: %w", err)
	}
	for _, item := range items {
		record := []string{
			fmt.Sprintf("%d", item.ID),
			item.ContractNumber,
			item.CertificateName,
			item.NormalizedName,
			fmt.Sprintf("%.2f", item.ConfidenceScore),
			item.ExtractionMethod,
			item.CreatedAt,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("запись строки: %w", err)
		}
	}
	return nil
}

// ExportToExcel выгружает маппинги в XLSX файл
func (e *Exporter) ExportToExcel(filename string, filters ExportFilters) error {
	items, err := e.fetchMappings(filters)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Маппинги"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("создание листа: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("создание стиля заголовков: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, item := range items {
		row := rowIdx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), item.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), item.ContractNumber)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), item.CertificateName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), item.NormalizedName)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), item.ConfidenceScore)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), item.ExtractionMethod)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), item.CreatedAt)
	}

	for i := range exportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 25)
	}
	f.SetActiveSheet(index)

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("сохранение Excel файла: %w", err)
	}
	return nil
}

// Export выгружает маппинги в указанном формате
func (e *Exporter) Export(format ExportFormat, filename string, filters ExportFilters) error {
	switch format {
	case FormatJSON:
		return e.ExportToJSON(filename, filters)
	case FormatCSV:
		return e.ExportToCSV(filename, filters)
	case FormatExcel:
		return e.ExportToExcel(filename, filters)
	default:
		return fmt.Errorf("неизвестный формат экспорта: %q", format)
	}
}

func (e *Exporter) fetchMappings(filters ExportFilters) ([]ExportedMapping, error) {
	query := `
		SELECT
			id,
			contract_number,
			certificate_name,
			COALESCE(normalized_name, '') AS normalized_name,
			COALESCE(confidence_score, 0.0) AS confidence_score,
			COALESCE(extraction_method, '') AS extraction_method,
			COALESCE(created_at, '') AS created_at
		FROM model_contract_mappings
		WHERE 1=1
	`
	args := []any{}

	if filters.ExtractionMethod != "" {
		query += " AND extraction_method = ?"
		args = append(args, filters.ExtractionMethod)
	}
	if filters.MinConfidence > 0 {
		query += " AND confidence_score >= ?"
		args = append(args, filters.MinConfidence)
	}
	query += " ORDER BY id"
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filters.Limit)
	}

	rows, err := e.store.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("чтение маппингов для выгрузки: %w", err)
	}
	defer rows.Close()

	items := []ExportedMapping{}
	for rows.Next() {
		var item ExportedMapping
		if err := rows.Scan(
			&item.ID,
			&item.ContractNumber,
			&item.CertificateName,
			&item.NormalizedName,
			&item.ConfidenceScore,
			&item.ExtractionMethod,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("чтение строки маппинга: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
