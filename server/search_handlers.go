package server

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"medmatch/database"
	"medmatch/filters"
)

// SearchModelsRequest запрос поиска моделей по базе
type SearchModelsRequest struct {
	NamePart string           `json:"name_part"`
	KTRUCode string           `json:"ktru_code"`
	Filters  []filters.Filter `json:"filters"`
	Limit    int              `json:"limit"`
}

// SearchModelsResponse результат поиска моделей
type SearchModelsResponse struct {
	Models []database.FoundModel `json:"models"`
	Total  int                   `json:"total"`
}

// handleSearchModels ищет модели, удовлетворяющие всем фильтрам
func (s *Server) handleSearchModels(c *gin.Context) {
	var req SearchModelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendJSONError(c, http.StatusBadRequest, "некорректный запрос поиска: "+err.Error())
		return
	}

	found, err := s.store.SearchModels(database.SearchQuery{
		NamePart: req.NamePart,
		KTRUCode: req.KTRUCode,
		Filters:  req.Filters,
		Limit:    req.Limit,
	})
	if err != nil {
		sendJSONError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, SearchModelsResponse{Models: found, Total: len(found)})
}

// FiltersUploadResponse результат разбора файла условий
type FiltersUploadResponse struct {
	Filters  []filters.Filter `json:"filters"`
	NotFound []string         `json:"not_found"`
	// Models результаты поиска по разобранным фильтрам, если запрошен
	Models []database.FoundModel `json:"models,omitempty"`
}

// handleFiltersUpload принимает CSV или XLSX файл условий, переводит его
// в фильтры и по запросу сразу выполняет поиск (?search=true)
func (s *Server) handleFiltersUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		sendJSONError(c, http.StatusBadRequest, "файл условий обязателен (multipart поле file)")
		return
	}

	refs, err := s.store.ListCharacteristicRefs()
	if err != nil {
		sendJSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	index := filters.NewNameIndex(refs)

	file, err := fileHeader.Open()
	if err != nil {
		sendJSONError(c, http.StatusBadRequest, "не удалось открыть файл: "+err.Error())
		return
	}
	defer file.Close()

	skipLines := s.cfg.CatalogSkipLines

	var result filters.ParseResult
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".xlsx":
		result, err = filters.ParseXLSX(file, index, skipLines)
	case ".csv", ".txt":
		result, err = filters.ParseCSV(file, index, skipLines)
	default:
		sendJSONError(c, http.StatusBadRequest, "поддерживаются только CSV и XLSX файлы условий")
		return
	}
	if err != nil {
		sendJSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	response := FiltersUploadResponse{
		Filters:  result.Filters,
		NotFound: result.NotFound,
	}

	if c.Query("search") == "true" {
		found, err := s.store.SearchModels(database.SearchQuery{Filters: result.Filters})
		if err != nil {
			sendJSONError(c, http.StatusInternalServerError, err.Error())
			return
		}
		response.Models = found
	}

	c.JSON(http.StatusOK, response)
}
