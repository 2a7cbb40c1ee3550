// Импорт контрактов с портала закупок: обходит страницы поиска,
// скачивает файлы контрактов, разбирает XML и сохраняет нормализованные
// маппинги в базу.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"medmatch/catalog"
	"medmatch/database"
	"medmatch/internal/config"
	"medmatch/normalization"
	"medmatch/parser"
)

func main() {
	startPage := flag.Int("start", 1, "первая страница поиска")
	endPage := flag.Int("end", 1, "последняя страница поиска")
	xmlDir := flag.String("xml-dir", "", "разобрать XML файлы из каталога вместо скачивания")
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

	models := catalog.NewModelCatalog(cfg.ModelCatalogPath)
	chars := catalog.NewCharacteristicCatalog(cfg.CharacteristicCatalogPath, cfg.CatalogSkipLines)
	matcher := normalization.NewCharacteristicMatcher(chars.Entries())
	matcher.SetThresholds(cfg.MaxDistance, cfg.MinSimilarity)
	pipeline := normalization.NewPipeline(models.Reference, matcher, cfg.Workers)

	ctx := context.Background()

	var xmlPaths []string
	if *xmlDir != "" {
		xmlPaths, err = collectXMLFiles(*xmlDir)
		if err != nil {
			log.Fatalf("Ошибка чтения каталога XML: %v", err)
		}
	} else {
		client := parser.NewClient(parser.ClientConfig{
			BaseURL: cfg.ParserBaseURL,
			Timeout: cfg.ParserTimeout,
		})

		contracts, err := client.FetchPages(ctx, *startPage, *endPage)
		if err != nil {
			log.Fatalf("Ошибка загрузки списка контрактов: %v", err)
		}
		log.Printf("Найдено %d контрактов", len(contracts))

		for _, contract := range contracts {
			downloaded, err := client.DownloadAllContractFiles(ctx, contract.ReestrNumber, cfg.DownloadDir)
			if err != nil {
				log.Printf("Контракт %s пропущен: %v", contract.ReestrNumber, err)
				continue
			}
			for _, path := range downloaded {
				if strings.EqualFold(filepath.Ext(path), ".xml") {
					xmlPaths = append(xmlPaths, path)
				}
			}
		}
	}

	imported := 0
	for _, path := range xmlPaths {
		if err := importContractFile(path, pipeline, store); err != nil {
			log.Printf("Файл %s пропущен: %v", path, err)
			continue
		}
		imported++
	}
	log.Printf("Импорт завершен: %d из %d файлов", imported, len(xmlPaths))
}

func collectXMLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".xml") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

func importContractFile(path string, pipeline *normalization.Pipeline, store *database.Store) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	contract, err := parser.ParseContractXML(data)
	if err != nil {
		return err
	}

	records := make([]normalization.ProductRecord, 0, len(contract.Products))
	for _, product := range contract.Products {
		certificateName := product.CertificateName
		if certificateName == "" {
			certificateName = product.Name
		}
		record := normalization.ProductRecord{
			ContractNumber:  contract.ReestrNumber,
			CertificateName: certificateName,
		}
		for _, ch := range product.Characteristics {
			record.Characteristics = append(record.Characteristics, normalization.RawCharacteristic{
				Name:  ch.Name,
				Value: ch.Value,
			})
		}
		records = append(records, record)
	}

	for i, record := range pipeline.Process(records) {
		if err := store.SaveModelContractMapping(
			record.ContractNumber, records[i].CertificateName,
			record.Model.NormalizedName, record.Model.Similarity, record.Model.PatternName,
		); err != nil {
			return err
		}
	}
	log.Printf("Импортирован контракт %s: %d товаров", contract.ReestrNumber, len(contract.Products))
	return nil
}
