package catalog

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"medmatch/normalization"
)

// CharacteristicCatalog эталонный справочник характеристик из
// `;`-разделенного файла: имя;значение;единица измерения
type CharacteristicCatalog struct {
	path      string
	skipLines int

	mu      sync.RWMutex
	entries []normalization.Characteristic
}

// NewCharacteristicCatalog создает справочник характеристик и сразу
// загружает его; skipLines — число пропускаемых строк заголовка.
// Отсутствующий файл дает пустой справочник с предупреждением в лог.
func NewCharacteristicCatalog(path string, skipLines int) *CharacteristicCatalog {
	cc := &CharacteristicCatalog{path: path, skipLines: skipLines}
	if err := cc.Reload(); err != nil {
		log.Printf("Предупреждение: не удалось загрузить справочник характеристик из %s: %v", path, err)
	}
	return cc
}

// Entries возвращает текущий снимок справочника
func (cc *CharacteristicCatalog) Entries() []normalization.Characteristic {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.entries
}

// Len возвращает количество записей в справочнике
func (cc *CharacteristicCatalog) Len() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.entries)
}

// Reload перечитывает справочник и атомарно заменяет снимок
func (cc *CharacteristicCatalog) Reload() error {
	entries, err := loadCharacteristics(cc.path, cc.skipLines)
	if err != nil {
		return err
	}

	cc.mu.Lock()
	cc.entries = entries
	cc.mu.Unlock()

	log.Printf("Загружен справочник характеристик: %d записей из %s", len(entries), cc.path)
	return nil
}

func loadCharacteristics(path string, skipLines int) ([]normalization.Characteristic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение файла справочника: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(decodeText(data)))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("разбор CSV справочника: %w", err)
	}

	var entries []normalization.Characteristic
	for i, record := range records {
		if i < skipLines {
			continue
		}
		// Короткие и пустые строки пропускаются без ошибки
		if len(record) < 3 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		entries = append(entries, normalization.Characteristic{
			Name:  strings.TrimSpace(record[0]),
			Value: strings.TrimSpace(record[1]),
			Unit:  strings.TrimSpace(record[2]),
		})
	}
	return entries, nil
}
