package database

import (
	"fmt"
	"strings"

	"medmatch/filters"
)

// SearchQuery параметры поиска моделей по базе
type SearchQuery struct {
	// NamePart подстрока названия модели (без учета регистра), пустая — без ограничения
	NamePart string `json:"name_part"`
	// KTRUCode точный код КТРУ, пустой — без ограничения
	KTRUCode string `json:"ktru_code"`
	// Filters условия по характеристикам, все должны выполниться
	Filters []filters.Filter `json:"filters"`
	// Limit максимум результатов, <=0 — без ограничения
	Limit int `json:"limit"`
}

// FoundModel модель, удовлетворившая условиям поиска
type FoundModel struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	KTRUCode string `json:"ktru_code"`
	Variants int    `json:"variants"`
}

// SearchModels ищет модели, у которых есть вариант исполнения,
// удовлетворяющий всем фильтрам сразу.
//
// Для оператора "=" выполняется регистронезависимое вхождение значения
// фильтра в значение характеристики. Для "<="/">=" значение сравнивается
// как число, но только когда значение характеристики действительно
// числовое; текстовые значения деградируют до вхождения подстроки, чтобы
// диапазонный фильтр не отбрасывал модели с значениями вида "до 30 см".
func (s *Store) SearchModels(q SearchQuery) ([]FoundModel, error) {
	var sb strings.Builder
	var args []any

	sb.WriteString(`SELECT m.id, m.name, m.ktru_code, COUNT(DISTINCT v.id)
		FROM models m
		JOIN model_variants v ON v.model_id = m.id
		WHERE 1=1`)

	if q.NamePart != "" {
		sb.WriteString(` AND instr(lower(m.name), lower(?)) > 0`)
		args = append(args, q.NamePart)
	}
	if q.KTRUCode != "" {
		sb.WriteString(` AND m.ktru_code = ?`)
		args = append(args, q.KTRUCode)
	}

	for _, f := range q.Filters {
		cond, condArgs, err := filterCondition(f)
		if err != nil {
			return nil, err
		}
		sb.WriteString(` AND EXISTS (
			SELECT 1 FROM characteristics ch
			WHERE ch.variant_id = v.id AND ch.code = ? AND `)
		sb.WriteString(cond)
		sb.WriteString(`)`)
		args = append(args, f.Code)
		args = append(args, condArgs...)
	}

	sb.WriteString(` GROUP BY m.id, m.name, m.ktru_code ORDER BY m.name`)
	if q.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := s.conn.Query(sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("поиск моделей: %w", err)
	}
	defer rows.Close()

	var found []FoundModel
	for rows.Next() {
		var m FoundModel
		if err := rows.Scan(&m.ID, &m.Name, &m.KTRUCode, &m.Variants); err != nil {
			return nil, err
		}
		found = append(found, m)
	}
	return found, rows.Err()
}

// filterCondition переводит один фильтр в SQL условие по ch.value
func filterCondition(f filters.Filter) (string, []any, error) {
	switch f.Operator {
	case filters.OperatorEquals:
		return `instr(lower(ch.value), lower(?)) > 0`, []any{f.Value}, nil
	case filters.OperatorLessOrEqual:
		return `CASE WHEN is_numeric(ch.value)
			THEN CAST(ch.value AS REAL) <= CAST(? AS REAL)
			ELSE instr(lower(ch.value), lower(?)) > 0 END`, []any{f.Value, f.Value}, nil
	case filters.OperatorGreaterOrEqual:
		return `CASE WHEN is_numeric(ch.value)
			THEN CAST(ch.value AS REAL) >= CAST(? AS REAL)
			ELSE instr(lower(ch.value), lower(?)) > 0 END`, []any{f.Value, f.Value}, nil
	default:
		return "", nil, fmt.Errorf("неизвестный оператор фильтра: %q", f.Operator)
	}
}

// ListCharacteristicRefs возвращает уникальные пары код/имя характеристик
// из базы для построения индекса названий при разборе файлов условий
func (s *Store) ListCharacteristicRefs() ([]filters.CharacteristicRef, error) {
	rows, err := s.conn.Query(
		`SELECT DISTINCT code, name FROM characteristics ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("чтение списка характеристик: %w", err)
	}
	defer rows.Close()

	var refs []filters.CharacteristicRef
	for rows.Next() {
		var ref filters.CharacteristicRef
		if err := rows.Scan(&ref.Code, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// VariantCharacteristics возвращает характеристики варианта исполнения
func (s *Store) VariantCharacteristics(variantID int64) ([]StoredCharacteristic, error) {
	rows, err := s.conn.Query(
		`SELECT code, name, value, unit FROM characteristics WHERE variant_id = ? ORDER BY id`,
		variantID)
	if err != nil {
		return nil, fmt.Errorf("чтение характеристик варианта %d: %w", variantID, err)
	}
	defer rows.Close()

	var chars []StoredCharacteristic
	for rows.Next() {
		var ch StoredCharacteristic
		if err := rows.Scan(&ch.Code, &ch.Name, &ch.Value, &ch.Unit); err != nil {
			return nil, err
		}
		chars = append(chars, ch)
	}
	return chars, rows.Err()
}
