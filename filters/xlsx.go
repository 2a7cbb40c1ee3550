package filters

import (
	"fmt"
	"io"
	"log"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX разбирает XLSX файл условий: первый лист, те же колонки,
// что и в CSV (название;значение;единица;инструкция).
func ParseXLSX(r io.Reader, index NameIndex, skipLines int) (ParseResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ParseResult{}, fmt.Errorf("открытие XLSX файла условий: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ParseResult{}, fmt.Errorf("XLSX файл не содержит листов")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ParseResult{}, fmt.Errorf("чтение листа %q: %w", sheets[0], err)
	}

	result := buildFilters(groupRows(rows, skipLines), index)
	log.Printf("Разобрано %d фильтров из XLSX (%d характеристик не найдено)",
		len(result.Filters), len(result.NotFound))
	return result, nil
}
