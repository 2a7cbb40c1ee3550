// Package filters переводит пользовательские условия поиска (код
// характеристики, оператор, значение) в вычислимые фильтры и разбирает
// загрузку условий из CSV/XLSX файлов.
package filters

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
)

// Operator оператор сравнения фильтра
type Operator string

const (
	OperatorEquals         Operator = "="
	OperatorLessOrEqual    Operator = "<="
	OperatorGreaterOrEqual Operator = ">="
)

// Filter одно вычислимое условие поиска по характеристике
type Filter struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

// CharacteristicRef пара код/имя характеристики для маппинга названий
type CharacteristicRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ParseResult результат разбора файла с условиями: фильтры и список
// названий, не найденных в справочнике (диагностика, не ошибка)
type ParseResult struct {
	Filters  []Filter `json:"filters"`
	NotFound []string `json:"not_found"`
}

// NameIndex регистронезависимый индекс названий характеристик
type NameIndex map[string]CharacteristicRef

// NewNameIndex строит индекс по списку характеристик
func NewNameIndex(refs []CharacteristicRef) NameIndex {
	index := make(NameIndex, len(refs))
	for _, ref := range refs {
		index[strings.ToLower(strings.TrimSpace(ref.Name))] = ref
	}
	return index
}

// Find ищет характеристику по названию без учета регистра
func (idx NameIndex) Find(name string) (CharacteristicRef, bool) {
	ref, ok := idx[strings.ToLower(strings.TrimSpace(name))]
	return ref, ok
}

// ValueFilter оператор и значение, извлеченные из строки условия
type ValueFilter struct {
	Operator Operator
	Value    string
}

var (
	rangeRe    = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)$`)
	gePrefixRe = regexp.MustCompile(`^(≥|>=)\s*`)
	lePrefixRe = regexp.MustCompile(`^(≤|<=)\s*`)
	eqPrefixRe = regexp.MustCompile(`^=\s*`)
)

// IsSkipValue проверяет, что значение условия означает "неважно"
// и строка не должна порождать фильтров
func IsSkipValue(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || trimmed == "-" || strings.EqualFold(trimmed, "неважно")
}

// ParseValue извлекает оператор и значение из строки условия.
//
// Поддерживается:
//   - диапазон "27 - 46" — два фильтра: >= 27 и <= 46;
//   - префиксы "≥"/">=", "≤"/"<=", "=";
//   - список через запятую — один фильтр "=" с объединенным значением,
//     потребитель выполняет подстрочное сравнение по каждому элементу;
//   - без префикса — "равно" по умолчанию.
//
// Нераспознаваемое значение не отклоняется, а трактуется как буквальное
// равенство.
func ParseValue(valueStr string) []ValueFilter {
	trimmed := strings.TrimSpace(valueStr)

	if m := rangeRe.FindStringSubmatch(trimmed); m != nil {
		return []ValueFilter{
			{Operator: OperatorGreaterOrEqual, Value: m[1]},
			{Operator: OperatorLessOrEqual, Value: m[2]},
		}
	}

	if strings.HasPrefix(trimmed, "≥") || strings.HasPrefix(trimmed, ">=") {
		return []ValueFilter{{Operator: OperatorGreaterOrEqual, Value: strings.TrimSpace(gePrefixRe.ReplaceAllString(trimmed, ""))}}
	}
	if strings.HasPrefix(trimmed, "≤") || strings.HasPrefix(trimmed, "<=") {
		return []ValueFilter{{Operator: OperatorLessOrEqual, Value: strings.TrimSpace(lePrefixRe.ReplaceAllString(trimmed, ""))}}
	}
	if strings.HasPrefix(trimmed, "=") {
		return []ValueFilter{{Operator: OperatorEquals, Value: strings.TrimSpace(eqPrefixRe.ReplaceAllString(trimmed, ""))}}
	}

	return []ValueFilter{{Operator: OperatorEquals, Value: trimmed}}
}

// filterGroup сгруппированная строка условия: новая характеристика
// и все значения ее строк-продолжений
type filterGroup struct {
	name   string
	values []string
}

// groupRows группирует строки файла условий. Строка с пустой первой
// колонкой — продолжение предыдущей характеристики (многозначное условие).
func groupRows(rows [][]string, skipLines int) []filterGroup {
	var groups []filterGroup
	for i, row := range rows {
		if i < skipLines || len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		value := strings.TrimSpace(row[1])
		if value == "" {
			continue
		}
		if name != "" {
			groups = append(groups, filterGroup{name: name, values: []string{value}})
		} else if len(groups) > 0 {
			last := &groups[len(groups)-1]
			last.values = append(last.values, value)
		}
	}
	return groups
}

// buildFilters превращает сгруппированные строки в фильтры.
// Названия без совпадения в индексе попадают в NotFound и не теряются молча.
func buildFilters(groups []filterGroup, index NameIndex) ParseResult {
	var result ParseResult
	for _, group := range groups {
		allValues := strings.Join(group.values, ",")

		if IsSkipValue(allValues) {
			continue
		}

		ref, ok := index.Find(group.name)
		if !ok {
			log.Printf("Характеристика не найдена в справочнике: %q", group.name)
			result.NotFound = append(result.NotFound, group.name)
			continue
		}

		for _, parsed := range ParseValue(allValues) {
			result.Filters = append(result.Filters, Filter{
				Code:     ref.Code,
				Name:     ref.Name,
				Operator: parsed.Operator,
				Value:    parsed.Value,
			})
		}
	}
	return result
}

// ParseCSV разбирает CSV файл условий: строки
// `название;значение[;единица;инструкция]`, skipLines строк заголовка.
func ParseCSV(r io.Reader, index NameIndex, skipLines int) (ParseResult, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return ParseResult{}, fmt.Errorf("разбор CSV файла условий: %w", err)
	}

	result := buildFilters(groupRows(rows, skipLines), index)
	log.Printf("Разобрано %d фильтров из CSV (%d характеристик не найдено)",
		len(result.Filters), len(result.NotFound))
	return result, nil
}
