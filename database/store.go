// Package database хранит нормализованные записи в SQLite: модели с
// вариантами исполнения и характеристиками и маппинги контракт → модель.
package database

import (
	"database/sql"
	"fmt"
	"log"
	"regexp"

	"github.com/mattn/go-sqlite3"
)

// numericValueRe значение характеристики считается числовым, если
// целиком соответствует числовому литералу
var numericValueRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

func init() {
	// Драйвер с функцией is_numeric: значения характеристик — свободный
	// текст, и операторы <=/>= должны сравнивать числа только там, где
	// значение действительно числовое
	sql.Register("sqlite3_medmatch", &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("is_numeric", func(s string) bool {
				return numericValueRe.MatchString(s)
			}, true)
		},
	})
}

// Store обертка для работы с базой нормализованных данных
type Store struct {
	conn *sql.DB
}

// NewStore открывает (или создает) базу данных и применяет схему
func NewStore(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3_medmatch", path)
	if err != nil {
		return nil, fmt.Errorf("открытие базы данных: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("включение foreign_keys: %w", err)
	}

	store := &Store{conn: conn}
	if err := store.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	log.Printf("Открыта база данных: %s", path)
	return store, nil
}

// Close закрывает соединение с базой данных
func (s *Store) Close() error {
	return s.conn.Close()
}

// Query выполняет запрос чтения к базе
func (s *Store) Query(query string, args ...any) (*sql.Rows, error) {
	return s.conn.Query(query, args...)
}

func (s *Store) migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS models (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			ktru_code TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS model_variants (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			model_id INTEGER NOT NULL REFERENCES models(id) ON DELETE CASCADE,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS characteristics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			variant_id INTEGER NOT NULL REFERENCES model_variants(id) ON DELETE CASCADE,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			value TEXT NOT NULL DEFAULT '',
			unit TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_characteristics_variant ON characteristics(variant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_characteristics_code ON characteristics(code)`,
		`CREATE TABLE IF NOT EXISTS model_contract_mappings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			contract_number TEXT NOT NULL,
			certificate_name TEXT NOT NULL,
			normalized_name TEXT,
			confidence_score REAL,
			extraction_method TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(contract_number, certificate_name)
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.conn.Exec(stmt); err != nil {
			return fmt.Errorf("создание схемы: %w", err)
		}
	}
	return nil
}

// StoredCharacteristic характеристика варианта исполнения в базе
type StoredCharacteristic struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// SaveModel сохраняет модель (или возвращает существующую) и отдает ее id
func (s *Store) SaveModel(name, ktruCode string) (int64, error) {
	_, err := s.conn.Exec(
		`INSERT INTO models (name, ktru_code) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET ktru_code = excluded.ktru_code`,
		name, ktruCode)
	if err != nil {
		return 0, fmt.Errorf("сохранение модели %q: %w", name, err)
	}
	// LastInsertId после ON CONFLICT DO UPDATE ненадежен, id читается по имени
	var id int64
	if err := s.conn.QueryRow(`SELECT id FROM models WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("чтение id модели %q: %w", name, err)
	}
	return id, nil
}

// SaveVariant сохраняет вариант исполнения модели вместе с характеристиками
func (s *Store) SaveVariant(modelID int64, name string, characteristics []StoredCharacteristic) (int64, error) {
	tx, err := s.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO model_variants (model_id, name) VALUES (?, ?)`, modelID, name)
	if err != nil {
		return 0, fmt.Errorf("сохранение варианта %q: %w", name, err)
	}
	variantID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, ch := range characteristics {
		if _, err := tx.Exec(
			`INSERT INTO characteristics (variant_id, code, name, value, unit) VALUES (?, ?, ?, ?, ?)`,
			variantID, ch.Code, ch.Name, ch.Value, ch.Unit); err != nil {
			return 0, fmt.Errorf("сохранение характеристики %q: %w", ch.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("фиксация транзакции: %w", err)
	}
	return variantID, nil
}

// SaveModelContractMapping сохраняет маппинг контракт → нормализованная
// модель; повторное сохранение той же пары обновляет запись
func (s *Store) SaveModelContractMapping(contractNumber, certificateName, normalizedName string, confidence float64, extractionMethod string) error {
	_, err := s.conn.Exec(
		`INSERT INTO model_contract_mappings
			(contract_number, certificate_name, normalized_name, confidence_score, extraction_method)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(contract_number, certificate_name) DO UPDATE SET
			normalized_name = excluded.normalized_name,
			confidence_score = excluded.confidence_score,
			extraction_method = excluded.extraction_method`,
		contractNumber, certificateName, normalizedName, confidence, extractionMethod)
	if err != nil {
		return fmt.Errorf("сохранение маппинга контракта %q: %w", contractNumber, err)
	}
	return nil
}

// MappingStats статистика по сохраненным маппингам
type MappingStats struct {
	Total    int            `json:"total"`
	ByMethod map[string]int `json:"by_method"`
}

// GetMappingStats возвращает статистику маппингов по методам извлечения
func (s *Store) GetMappingStats() (MappingStats, error) {
	stats := MappingStats{ByMethod: make(map[string]int)}

	rows, err := s.conn.Query(
		`SELECT COALESCE(extraction_method, ''), COUNT(*) FROM model_contract_mappings GROUP BY extraction_method`)
	if err != nil {
		return stats, fmt.Errorf("чтение статистики маппингов: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var method string
		var count int
		if err := rows.Scan(&method, &count); err != nil {
			return stats, err
		}
		stats.ByMethod[method] = count
		stats.Total += count
	}
	return stats, rows.Err()
}
