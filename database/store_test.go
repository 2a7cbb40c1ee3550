package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medmatch/filters"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveModel_Upsert(t *testing.T) {
	store := newTestStore(t)

	id1, err := store.SaveModel("ACE X5", "26.60.12.132-00000036")
	require.NoError(t, err)

	id2, err := store.SaveModel("ACE X5", "26.60.12.132-00000099")
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "повторное сохранение должно вернуть тот же id")
}

func TestSaveVariantWithCharacteristics(t *testing.T) {
	store := newTestStore(t)

	modelID, err := store.SaveModel("Voluson E8", "")
	require.NoError(t, err)

	variantID, err := store.SaveVariant(modelID, "Voluson E8 Expert", []StoredCharacteristic{
		{Code: "C1", Name: "Глубина сканирования", Value: "300", Unit: "мм"},
		{Code: "C2", Name: "Количество датчиков", Value: "4", Unit: "шт"},
	})
	require.NoError(t, err)

	chars, err := store.VariantCharacteristics(variantID)
	require.NoError(t, err)
	require.Len(t, chars, 2)
	assert.Equal(t, "C1", chars[0].Code)
	assert.Equal(t, "300", chars[0].Value)
	assert.Equal(t, "шт", chars[1].Unit)
}

// TestSearchModels_NumericVsSubstring числовые значения сравниваются как
// числа, текстовые деградируют до вхождения подстроки
func TestSearchModels_NumericVsSubstring(t *testing.T) {
	store := newTestStore(t)

	idA, err := store.SaveModel("Модель А", "")
	require.NoError(t, err)
	_, err = store.SaveVariant(idA, "базовый", []StoredCharacteristic{
		{Code: "C1", Name: "Глубина", Value: "30", Unit: "см"},
	})
	require.NoError(t, err)

	idB, err := store.SaveModel("Модель Б", "")
	require.NoError(t, err)
	_, err = store.SaveVariant(idB, "базовый", []StoredCharacteristic{
		{Code: "C1", Name: "Глубина", Value: "до 30 см", Unit: ""},
	})
	require.NoError(t, err)

	// Числовой фильтр: 30 >= 25, текстовое "до 30 см" не содержит "25"
	found, err := store.SearchModels(SearchQuery{Filters: []filters.Filter{
		{Code: "C1", Operator: filters.OperatorGreaterOrEqual, Value: "25"},
	}})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Модель А", found[0].Name)

	// Равенство — вхождение подстроки без учета регистра: совпадают обе
	found, err = store.SearchModels(SearchQuery{Filters: []filters.Filter{
		{Code: "C1", Operator: filters.OperatorEquals, Value: "30"},
	}})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	// Числовой фильтр сверху: 30 <= 20 ложь, подстроки "20" нет
	found, err = store.SearchModels(SearchQuery{Filters: []filters.Filter{
		{Code: "C1", Operator: filters.OperatorLessOrEqual, Value: "20"},
	}})
	require.NoError(t, err)
	assert.Empty(t, found)
}

// TestSearchModels_AllFiltersMustHold фильтры объединяются по И в рамках
// одного варианта исполнения
func TestSearchModels_AllFiltersMustHold(t *testing.T) {
	store := newTestStore(t)

	id, err := store.SaveModel("Модель В", "")
	require.NoError(t, err)
	_, err = store.SaveVariant(id, "вариант 1", []StoredCharacteristic{
		{Code: "C1", Name: "Глубина", Value: "30"},
		{Code: "C2", Name: "Датчики", Value: "конвексный"},
	})
	require.NoError(t, err)
	_, err = store.SaveVariant(id, "вариант 2", []StoredCharacteristic{
		{Code: "C1", Name: "Глубина", Value: "10"},
		{Code: "C2", Name: "Датчики", Value: "линейный"},
	})
	require.NoError(t, err)

	// Оба условия выполняются только у варианта 1
	found, err := store.SearchModels(SearchQuery{Filters: []filters.Filter{
		{Code: "C1", Operator: filters.OperatorGreaterOrEqual, Value: "20"},
		{Code: "C2", Operator: filters.OperatorEquals, Value: "конвексный"},
	}})
	require.NoError(t, err)
	require.Len(t, found, 1)

	// Условия из разных вариантов не складываются
	found, err = store.SearchModels(SearchQuery{Filters: []filters.Filter{
		{Code: "C1", Operator: filters.OperatorGreaterOrEqual, Value: "20"},
		{Code: "C2", Operator: filters.OperatorEquals, Value: "линейный"},
	}})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSearchModels_NameAndKTRU(t *testing.T) {
	store := newTestStore(t)

	id1, err := store.SaveModel("ACE X5", "26.60.12.132-00000036")
	require.NoError(t, err)
	_, err = store.SaveVariant(id1, "базовый", nil)
	require.NoError(t, err)

	id2, err := store.SaveModel("Voluson E8", "26.60.12.132-00000099")
	require.NoError(t, err)
	_, err = store.SaveVariant(id2, "базовый", nil)
	require.NoError(t, err)

	found, err := store.SearchModels(SearchQuery{NamePart: "ace"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ACE X5", found[0].Name)

	found, err = store.SearchModels(SearchQuery{KTRUCode: "26.60.12.132-00000099"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Voluson E8", found[0].Name)
}

func TestSaveModelContractMapping_UpsertAndStats(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveModelContractMapping("K-1", "Система ACE X5", "ACE X5", 1.0, "в обычных кавычках")
	require.NoError(t, err)

	// Повторное сохранение той же пары обновляет запись
	err = store.SaveModelContractMapping("K-1", "Система ACE X5", "ACE X5", 0.9, "smart fallback")
	require.NoError(t, err)

	err = store.SaveModelContractMapping("K-2", "Аппарат Voluson", "Voluson E8", 1.0, "smart fallback")
	require.NoError(t, err)

	stats, err := store.GetMappingStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.ByMethod["smart fallback"])
	assert.Zero(t, stats.ByMethod["в обычных кавычках"])
}

func TestListCharacteristicRefs(t *testing.T) {
	store := newTestStore(t)

	id, err := store.SaveModel("Модель Г", "")
	require.NoError(t, err)
	_, err = store.SaveVariant(id, "в1", []StoredCharacteristic{
		{Code: "C1", Name: "Глубина"},
		{Code: "C2", Name: "Датчики"},
	})
	require.NoError(t, err)
	_, err = store.SaveVariant(id, "в2", []StoredCharacteristic{
		{Code: "C1", Name: "Глубина"},
	})
	require.NoError(t, err)

	refs, err := store.ListCharacteristicRefs()
	require.NoError(t, err)
	assert.Equal(t, []filters.CharacteristicRef{
		{Code: "C1", Name: "Глубина"},
		{Code: "C2", Name: "Датчики"},
	}, refs)
}
