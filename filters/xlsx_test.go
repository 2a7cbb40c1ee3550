package filters

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]string{
		{"Название", "Значение", "Единица"},
		{"Глубина сканирования", "≥ 20", "см"},
		{"Тип датчика", "конвексный", ""},
		{"", "линейный", ""},
	}
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	index := NewNameIndex([]CharacteristicRef{
		{Code: "C1", Name: "Глубина сканирования"},
		{Code: "C2", Name: "Тип датчика"},
	})

	result, err := ParseXLSX(bytes.NewReader(buf.Bytes()), index, 1)
	require.NoError(t, err)

	require.Len(t, result.Filters, 2)
	assert.Equal(t, Filter{Code: "C1", Name: "Глубина сканирования", Operator: OperatorGreaterOrEqual, Value: "20"}, result.Filters[0])
	assert.Equal(t, Filter{Code: "C2", Name: "Тип датчика", Operator: OperatorEquals, Value: "конвексный,линейный"}, result.Filters[1])
	assert.Empty(t, result.NotFound)
}

func TestParseXLSX_InvalidFile(t *testing.T) {
	index := NewNameIndex(nil)
	_, err := ParseXLSX(bytes.NewReader([]byte("не xlsx")), index, 0)
	assert.Error(t, err)
}
