// Package catalog загружает эталонные справочники: плоский список названий
// моделей и справочник характеристик КТРУ. Справочники читаются один раз при
// старте и перезагружаются по явному запросу; чтение между перезагрузками
// не требует блокировок, так как снимок заменяется целиком.
package catalog

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"medmatch/normalization"
)

// ModelCatalog эталонный список названий моделей из текстового файла,
// одно название на строку, пустые строки игнорируются
type ModelCatalog struct {
	path string

	mu  sync.RWMutex
	ref *normalization.ModelReference
}

// NewModelCatalog создает справочник моделей и сразу загружает его.
// Отсутствующий или нечитаемый файл — не ошибка: справочник остается
// пустым, все сопоставления деградируют до word fallback.
func NewModelCatalog(path string) *ModelCatalog {
	mc := &ModelCatalog{path: path}
	if err := mc.Reload(); err != nil {
		log.Printf("Предупреждение: не удалось загрузить эталонный список моделей из %s: %v", path, err)
		mc.ref = normalization.NewModelReference(nil)
	}
	return mc
}

// Reference возвращает текущий снимок эталонного списка
func (mc *ModelCatalog) Reference() *normalization.ModelReference {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.ref
}

// Reload перечитывает справочник из файла и атомарно заменяет снимок.
// Конкурентные читатели видят либо старый, либо новый справочник целиком.
func (mc *ModelCatalog) Reload() error {
	names, err := loadModelNames(mc.path)
	if err != nil {
		return err
	}
	ref := normalization.NewModelReference(names)

	mc.mu.Lock()
	mc.ref = ref
	mc.mu.Unlock()

	log.Printf("Загружен эталонный список моделей: %d названий из %s", ref.Len(), mc.path)
	return nil
}

func loadModelNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение файла справочника: %w", err)
	}

	text := decodeText(data)
	var names []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("разбор файла справочника: %w", err)
	}
	return names, nil
}

// decodeText возвращает текст в UTF-8; выгрузки из 1С нередко приходят
// в windows-1251, поэтому некорректный UTF-8 перекодируется из cp1251
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1251.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}
