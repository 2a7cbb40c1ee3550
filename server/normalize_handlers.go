package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medmatch/normalization"
)

// NormalizeRequest запрос нормализации одного названия из РУ
type NormalizeRequest struct {
	CertificateName string `json:"certificate_name" binding:"required"`
	ContractNumber  string `json:"contract_number"`
	// Save сохранить маппинг контракт → модель в базу
	Save bool `json:"save"`
}

// NormalizeResponse результат нормализации одного названия
type NormalizeResponse struct {
	Result normalization.MatchResult `json:"result"`
}

// handleNormalize извлекает название модели из одного текста РУ
func (s *Server) handleNormalize(c *gin.Context) {
	var req NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendJSONError(c, http.StatusBadRequest, "certificate_name обязателен: "+err.Error())
		return
	}

	result := normalization.ExtractModelName(req.CertificateName, s.models.Reference())

	if req.Save && req.ContractNumber != "" {
		if err := s.store.SaveModelContractMapping(
			req.ContractNumber, req.CertificateName,
			result.NormalizedName, result.Similarity, result.PatternName,
		); err != nil {
			sendJSONError(c, http.StatusInternalServerError, err.Error())
			return
		}
	}

	c.JSON(http.StatusOK, NormalizeResponse{Result: result})
}

// NormalizeBatchRequest запрос пакетной нормализации записей о товарах
type NormalizeBatchRequest struct {
	Records []normalization.ProductRecord `json:"records" binding:"required"`
	// Save сохранить маппинги в базу
	Save bool `json:"save"`
}

// NormalizeBatchResponse результат пакетной нормализации
type NormalizeBatchResponse struct {
	Records []normalization.NormalizedRecord `json:"records"`
	Stats   normalization.MatchStats         `json:"stats"`
}

// handleNormalizeBatch нормализует пакет записей параллельно; порядок
// результатов совпадает с порядком записей в запросе
func (s *Server) handleNormalizeBatch(c *gin.Context) {
	var req NormalizeBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendJSONError(c, http.StatusBadRequest, "records обязательны: "+err.Error())
		return
	}
	if len(req.Records) == 0 {
		sendJSONError(c, http.StatusBadRequest, "пустой пакет записей")
		return
	}

	normalized := s.pipeline.Process(req.Records)

	stats := normalization.MatchStats{Total: len(normalized)}
	for i, record := range normalized {
		if record.Model.Matched {
			stats.Matched++
		}
		if req.Save && record.ContractNumber != "" {
			if err := s.store.SaveModelContractMapping(
				record.ContractNumber, req.Records[i].CertificateName,
				record.Model.NormalizedName, record.Model.Similarity, record.Model.PatternName,
			); err != nil {
				sendJSONError(c, http.StatusInternalServerError, err.Error())
				return
			}
		}
	}
	stats.Unmatched = stats.Total - stats.Matched
	if stats.Total > 0 {
		stats.MatchRate = float64(stats.Matched) / float64(stats.Total)
	}

	c.JSON(http.StatusOK, NormalizeBatchResponse{Records: normalized, Stats: stats})
}

// CharacteristicsMatchRequest запрос сопоставления названий характеристик
// с эталонным справочником
type CharacteristicsMatchRequest struct {
	Names []string `json:"names" binding:"required"`
}

// CharacteristicsMatchResponse результат сопоставления характеристик
type CharacteristicsMatchResponse struct {
	Matches []normalization.CharacteristicMatch `json:"matches"`
	Stats   normalization.MatchStats            `json:"stats"`
}

// handleCharacteristicsMatch сопоставляет названия характеристик
// с эталонным справочником по редакционному расстоянию
func (s *Server) handleCharacteristicsMatch(c *gin.Context) {
	var req CharacteristicsMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendJSONError(c, http.StatusBadRequest, "names обязательны: "+err.Error())
		return
	}
	if len(req.Names) == 0 {
		sendJSONError(c, http.StatusBadRequest, "пустой список названий")
		return
	}

	matches := s.matcher.MatchAll(req.Names)
	c.JSON(http.StatusOK, CharacteristicsMatchResponse{
		Matches: matches,
		Stats:   s.matcher.Statistics(matches),
	})
}
