package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("запись файла %s: %v", name, err)
	}
	return path
}

// TestModelCatalog_Load загрузка списка моделей, пустые строки игнорируются
func TestModelCatalog_Load(t *testing.T) {
	path := writeFile(t, t.TempDir(), "models.txt", "ACE X5\n\nVoluson E8\n  РуСкан-60  \n")

	mc := NewModelCatalog(path)
	ref := mc.Reference()

	if ref.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ref.Len())
	}
	if !ref.Contains("ACE X5") || !ref.Contains("Voluson E8") || !ref.Contains("РуСкан-60") {
		t.Errorf("справочник не содержит ожидаемых названий: %v", ref.Names())
	}
}

// TestModelCatalog_MissingFile отсутствующий файл дает пустой справочник
func TestModelCatalog_MissingFile(t *testing.T) {
	mc := NewModelCatalog(filepath.Join(t.TempDir(), "нет_такого.txt"))

	ref := mc.Reference()
	if ref == nil {
		t.Fatal("Reference() не должен возвращать nil")
	}
	if ref.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ref.Len())
	}
}

// TestModelCatalog_Reload перезагрузка атомарно заменяет снимок
func TestModelCatalog_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "models.txt", "ACE X5\n")

	mc := NewModelCatalog(path)
	oldRef := mc.Reference()
	if oldRef.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", oldRef.Len())
	}

	writeFile(t, dir, "models.txt", "ACE X5\nVoluson E8\n")
	if err := mc.Reload(); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}

	if mc.Reference().Len() != 2 {
		t.Errorf("после перезагрузки Len() = %d, want 2", mc.Reference().Len())
	}
	// Старый снимок не изменился
	if oldRef.Len() != 1 {
		t.Errorf("старый снимок изменился: Len() = %d", oldRef.Len())
	}
}

// TestModelCatalog_Windows1251 выгрузки в cp1251 перекодируются
func TestModelCatalog_Windows1251(t *testing.T) {
	encoded, err := charmap.Windows1251.NewEncoder().Bytes([]byte("РуСкан-60\nСономед-500\n"))
	if err != nil {
		t.Fatalf("кодирование фикстуры: %v", err)
	}
	path := filepath.Join(t.TempDir(), "models.txt")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatalf("запись файла: %v", err)
	}

	mc := NewModelCatalog(path)
	ref := mc.Reference()

	if ref.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ref.Len())
	}
	if !ref.Contains("РуСкан-60") || !ref.Contains("Сономед-500") {
		t.Errorf("cp1251 названия не распознаны: %v", ref.Names())
	}
}

// TestCharacteristicCatalog_Load загрузка справочника характеристик,
// заголовок и короткие строки пропускаются
func TestCharacteristicCatalog_Load(t *testing.T) {
	content := "Название;Значение;Единица\n" +
		"Глубина сканирования;300;мм\n" +
		"короткая строка\n" +
		";пустое имя;шт\n" +
		"Частота датчика;5;МГц\n"
	path := writeFile(t, t.TempDir(), "chars.csv", content)

	cc := NewCharacteristicCatalog(path, 1)

	if cc.Len() != 2 {
		t.Fatalf("Len() = %d, want 2: %+v", cc.Len(), cc.Entries())
	}
	entries := cc.Entries()
	if entries[0].Name != "Глубина сканирования" || entries[0].Value != "300" || entries[0].Unit != "мм" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Name != "Частота датчика" {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

// TestCharacteristicCatalog_MissingFile отсутствующий файл дает пустой
// справочник без паники
func TestCharacteristicCatalog_MissingFile(t *testing.T) {
	cc := NewCharacteristicCatalog(filepath.Join(t.TempDir(), "нет.csv"), 1)
	if cc.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cc.Len())
	}
}
