package normalization

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
)

// TestPipeline_Process порядок результатов совпадает с порядком входных
// записей независимо от числа воркеров
func TestPipeline_Process(t *testing.T) {
	ref := NewModelReference([]string{"ACE X5", "Voluson E8"})
	matcher := NewCharacteristicMatcher([]Characteristic{
		{Name: "Глубина сканирования"},
	})
	pipeline := NewPipeline(func() *ModelReference { return ref }, matcher, 4)

	records := []ProductRecord{
		{
			ContractNumber:  "K-1",
			CertificateName: `Система "ACE X5" с принадлежностями`,
			Characteristics: []RawCharacteristic{
				{Name: "Глубина сканирования", Value: "300"},
				{Name: "Неизвестный параметр", Value: "1"},
			},
		},
		{
			ContractNumber:  "K-2",
			CertificateName: "Совершенно неизвестный аппарат",
		},
		{
			ContractNumber:  "K-3",
			CertificateName: `Аппарат "Voluson E8"`,
		},
	}

	results := pipeline.Process(records)

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	for i, want := range []string{"K-1", "K-2", "K-3"} {
		if results[i].ContractNumber != want {
			t.Errorf("results[%d].ContractNumber = %q, want %q", i, results[i].ContractNumber, want)
		}
	}

	if !results[0].Model.Matched || results[0].Model.NormalizedName != "ACE X5" {
		t.Errorf("results[0].Model = %+v", results[0].Model)
	}
	if results[1].Model.Matched {
		t.Errorf("results[1] не должен совпасть: %+v", results[1].Model)
	}
	if !results[2].Model.Matched || results[2].Model.NormalizedName != "Voluson E8" {
		t.Errorf("results[2].Model = %+v", results[2].Model)
	}

	// Характеристики сопоставляются в порядке входа
	if len(results[0].Characteristics) != 2 {
		t.Fatalf("len(Characteristics) = %d, want 2", len(results[0].Characteristics))
	}
	if !results[0].Characteristics[0].Matched {
		t.Errorf("первая характеристика должна совпасть: %+v", results[0].Characteristics[0])
	}
	if results[0].Characteristics[1].Matched {
		t.Errorf("вторая характеристика не должна совпасть: %+v", results[0].Characteristics[1])
	}
}

// TestPipeline_ProcessBulk большой пакет сохраняет взаимное соответствие
// вход/выход при параллельной обработке
func TestPipeline_ProcessBulk(t *testing.T) {
	gofakeit.Seed(42)

	names := make([]string, 50)
	for i := range names {
		names[i] = fmt.Sprintf("%s-%d", gofakeit.AppName(), i)
	}
	ref := NewModelReference(names)
	pipeline := NewPipeline(func() *ModelReference { return ref }, NewCharacteristicMatcher(nil), 8)

	records := make([]ProductRecord, 500)
	for i := range records {
		records[i] = ProductRecord{
			ContractNumber:  fmt.Sprintf("K-%04d", i),
			CertificateName: gofakeit.Sentence(6),
		}
	}

	results := pipeline.Process(records)

	if len(results) != len(records) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(records))
	}
	for i := range results {
		if results[i].ContractNumber != records[i].ContractNumber {
			t.Fatalf("results[%d].ContractNumber = %q, want %q",
				i, results[i].ContractNumber, records[i].ContractNumber)
		}
	}
}

// TestPipeline_EmptyBatch пустой пакет — не ошибка
func TestPipeline_EmptyBatch(t *testing.T) {
	ref := NewModelReference(nil)
	pipeline := NewPipeline(func() *ModelReference { return ref }, NewCharacteristicMatcher(nil), 0)

	results := pipeline.Process(nil)
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}
