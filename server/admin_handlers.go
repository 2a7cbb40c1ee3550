package server

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"medmatch/database"
	"medmatch/normalization"
	"medmatch/parser"
	"medmatch/reports"
)

// handleHealth проверка живости сервиса
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// StatsResponse сводная статистика сервиса
type StatsResponse struct {
	Mappings            database.MappingStats `json:"mappings"`
	ModelCount          int                   `json:"model_count"`
	CharacteristicCount int                   `json:"characteristic_count"`
}

// handleStats возвращает статистику маппингов и размеры справочников
func (s *Server) handleStats(c *gin.Context) {
	mappingStats, err := s.store.GetMappingStats()
	if err != nil {
		sendJSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, StatsResponse{
		Mappings:            mappingStats,
		ModelCount:          s.models.Reference().Len(),
		CharacteristicCount: s.chars.Len(),
	})
}

// handleCatalogsReload перечитывает эталонные справочники с диска
// и обновляет сопоставитель характеристик
func (s *Server) handleCatalogsReload(c *gin.Context) {
	if err := s.models.Reload(); err != nil {
		sendJSONError(c, http.StatusInternalServerError, "перезагрузка списка моделей: "+err.Error())
		return
	}
	if err := s.chars.Reload(); err != nil {
		sendJSONError(c, http.StatusInternalServerError, "перезагрузка справочника характеристик: "+err.Error())
		return
	}
	s.matcher.SetCatalog(s.chars.Entries())

	c.JSON(http.StatusOK, gin.H{
		"models":          s.models.Reference().Len(),
		"characteristics": s.chars.Len(),
	})
}

// handleQualityReport строит отчет о качестве нормализации по переданным
// результатам; topN ключевых слов настраивается query-параметром top
func (s *Server) handleQualityReport(c *gin.Context) {
	var results []normalization.MatchResult
	if err := c.ShouldBindJSON(&results); err != nil {
		sendJSONError(c, http.StatusBadRequest, "ожидается массив результатов нормализации: "+err.Error())
		return
	}

	topN, _ := strconv.Atoi(c.Query("top"))
	c.JSON(http.StatusOK, s.analyzer.Analyze(results, topN))
}

// ExportRequest запрос выгрузки маппингов
type ExportRequest struct {
	Format           string  `json:"format" binding:"required"`
	Filename         string  `json:"filename" binding:"required"`
	ExtractionMethod string  `json:"extraction_method"`
	MinConfidence    float64 `json:"min_confidence"`
	Limit            int     `json:"limit"`
}

// handleExport выгружает маппинги в файл на сервере
func (s *Server) handleExport(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendJSONError(c, http.StatusBadRequest, "format и filename обязательны: "+err.Error())
		return
	}

	err := s.exporter.Export(reports.ExportFormat(req.Format), req.Filename, reports.ExportFilters{
		ExtractionMethod: req.ExtractionMethod,
		MinConfidence:    req.MinConfidence,
		Limit:            req.Limit,
	})
	if err != nil {
		sendJSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": req.Filename})
}

// ContractImportResponse результат импорта XML контракта
type ContractImportResponse struct {
	Contract parser.ContractData              `json:"contract"`
	Records  []normalization.NormalizedRecord `json:"records"`
}

// handleContractImport принимает XML электронного контракта, разбирает
// товары, нормализует названия моделей и сохраняет маппинги
func (s *Server) handleContractImport(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		sendJSONError(c, http.StatusBadRequest, "пустое тело запроса, ожидается XML контракта")
		return
	}

	contract, err := parser.ParseContractXML(body)
	if err != nil {
		sendJSONError(c, http.StatusBadRequest, err.Error())
		return
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

	normalized := s.pipeline.Process(records)

	for i, record := range normalized {
		if err := s.store.SaveModelContractMapping(
			record.ContractNumber, records[i].CertificateName,
			record.Model.NormalizedName, record.Model.Similarity, record.Model.PatternName,
		); err != nil {
			sendJSONError(c, http.StatusInternalServerError, err.Error())
			return
		}
	}

	c.JSON(http.StatusOK, ContractImportResponse{Contract: contract, Records: normalized})
}
