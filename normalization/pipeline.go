package normalization

import (
	"runtime"
	"sync"
)

// RawCharacteristic сырая пара имя/значение характеристики из документа
type RawCharacteristic struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductRecord запись о товаре из контракта: текст сертификата и
// характеристики, как их выдал парсер документов
type ProductRecord struct {
	ContractNumber  string              `json:"contract_number"`
	CertificateName string              `json:"certificate_name"`
	Characteristics []RawCharacteristic `json:"characteristics"`
}

// NormalizedRecord результат нормализации одной записи о товаре.
// Порядок характеристик совпадает с порядком во входной записи.
type NormalizedRecord struct {
	ContractNumber  string                `json:"contract_number"`
	Model           MatchResult           `json:"model"`
	Characteristics []CharacteristicMatch `json:"characteristics"`
}

// Pipeline параллельная нормализация пакета записей о товарах.
// Записи независимы, общее состояние — только неизменяемые между
// перезагрузками справочники, поэтому обработка распараллеливается
// без блокировок.
type Pipeline struct {
	workers     int
	reference   func() *ModelReference
	charMatcher *CharacteristicMatcher
}

// NewPipeline создает пайплайн нормализации.
// reference вызывается на каждую запись, чтобы перезагрузка справочника
// подхватывалась без перезапуска; workers <= 0 означает число CPU.
func NewPipeline(reference func() *ModelReference, charMatcher *CharacteristicMatcher, workers int) *Pipeline {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pipeline{
		workers:     workers,
		reference:   reference,
		charMatcher: charMatcher,
	}
}

// Process нормализует пакет записей. Результаты возвращаются в порядке
// входных записей; одна проблемная запись не прерывает обработку остальных.
func (p *Pipeline) Process(records []ProductRecord) []NormalizedRecord {
	results := make([]NormalizedRecord, len(records))
	if len(records) == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := p.workers
	if workers > len(records) {
		workers = len(records)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.processOne(records[i])
			}
		}()
	}

	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (p *Pipeline) processOne(record ProductRecord) NormalizedRecord {
	ref := p.reference()
	out := NormalizedRecord{
		ContractNumber: record.ContractNumber,
		Model:          ExtractModelName(record.CertificateName, ref),
	}
	for _, raw := range record.Characteristics {
		out.Characteristics = append(out.Characteristics, p.charMatcher.FindBestMatch(raw.Name))
	}
	return out
}
