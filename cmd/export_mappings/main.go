// Выгрузка маппингов контракт → модель из базы в JSON, CSV или Excel.
package main

import (
	"flag"
	"log"

	"medmatch/database"
	"medmatch/internal/config"
	"medmatch/reports"
)

func main() {
	format := flag.String("format", "csv", "формат выгрузки: json, csv или excel")
	output := flag.String("output", "mappings.csv", "путь к файлу выгрузки")
	method := flag.String("method", "", "фильтр по методу извлечения")
	minConfidence := flag.Float64("min-confidence", 0, "минимальная уверенность")
	limit := flag.Int("limit", 0, "максимум записей (0 — без ограничения)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	store, err := database.NewStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Ошибка открытия базы данных: %v", err)
	}
	defer store.Close()

	exporter := reports.NewExporter(store)
	err = exporter.Export(reports.ExportFormat(*format), *output, reports.ExportFilters{
		ExtractionMethod: *method,
		MinConfidence:    *minConfidence,
		Limit:            *limit,
	})
	if err != nil {
		log.Fatalf("Ошибка выгрузки: %v", err)
	}
	log.Printf("Выгрузка завершена: %s", *output)
}
