// Package server HTTP API сервиса нормализации: извлечение моделей из
// названий РУ, сопоставление характеристик, поиск по базе и загрузка
// файлов условий.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"medmatch/catalog"
	"medmatch/database"
	"medmatch/internal/config"
	"medmatch/normalization"
	"medmatch/quality"
	"medmatch/reports"
)

// Server HTTP сервер сервиса нормализации
type Server struct {
	cfg      *config.Config
	store    *database.Store
	models   *catalog.ModelCatalog
	chars    *catalog.CharacteristicCatalog
	matcher  *normalization.CharacteristicMatcher
	pipeline *normalization.Pipeline
	exporter *reports.Exporter
	analyzer *quality.Analyzer

	engine     *gin.Engine
	httpServer *http.Server
}

// NewServer собирает сервер со всеми зависимостями и маршрутами
func NewServer(cfg *config.Config, store *database.Store, models *catalog.ModelCatalog, chars *catalog.CharacteristicCatalog) *Server {
	matcher := normalization.NewCharacteristicMatcher(chars.Entries())
	matcher.SetThresholds(cfg.MaxDistance, cfg.MinSimilarity)

	s := &Server{
		cfg:      cfg,
		store:    store,
		models:   models,
		chars:    chars,
		matcher:  matcher,
		pipeline: normalization.NewPipeline(models.Reference, matcher, cfg.Workers),
		exporter: reports.NewExporter(store),
		analyzer: quality.NewAnalyzer(),
	}
	s.engine = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	engine := gin.New()
	engine.Use(RequestIDMiddleware())
	engine.Use(CORSMiddleware())
	engine.Use(RecoveryMiddleware())
	engine.Use(gin.Logger())

	api := engine.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/stats", s.handleStats)

		api.POST("/normalize", s.handleNormalize)
		api.POST("/normalize/batch", s.handleNormalizeBatch)
		api.POST("/characteristics/match", s.handleCharacteristicsMatch)

		api.POST("/search/models", s.handleSearchModels)
		api.POST("/filters/upload", s.handleFiltersUpload)

		api.POST("/contracts/import", s.handleContractImport)

		api.POST("/catalogs/reload", s.handleCatalogsReload)
		api.GET("/quality/report", s.handleQualityReport)
		api.POST("/export", s.handleExport)
	}
	return engine
}

// Start запускает HTTP сервер, блокируется до остановки
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	log.Printf("Сервер запущен на порту %s", s.cfg.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("запуск сервера: %w", err)
	}
	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	log.Printf("Остановка сервера...")
	return s.httpServer.Shutdown(ctx)
}

// Handler возвращает корневой обработчик (для тестов)
func (s *Server) Handler() http.Handler {
	return s.engine
}
