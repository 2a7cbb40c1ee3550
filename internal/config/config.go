// Package config загружает конфигурацию сервиса из переменных окружения.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config конфигурация сервера нормализации
type Config struct {
	// Сервер
	Port string `json:"port"`

	// База данных
	DatabasePath string `json:"database_path"`

	// Справочники
	ModelCatalogPath          string `json:"model_catalog_path"`
	CharacteristicCatalogPath string `json:"characteristic_catalog_path"`
	CatalogSkipLines          int    `json:"catalog_skip_lines"`

	// Сопоставление характеристик
	MaxDistance   int     `json:"max_distance"`
	MinSimilarity float64 `json:"min_similarity"`

	// Нормализация
	Workers int `json:"workers"`

	// Портал закупок
	ParserBaseURL string        `json:"parser_base_url"`
	ParserTimeout time.Duration `json:"parser_timeout"`
	DownloadDir   string        `json:"download_dir"`
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	config := &Config{
		// Сервер
		Port: getEnv("SERVER_PORT", "8080"),

		// База данных
		DatabasePath: getEnv("DATABASE_PATH", "medmatch.db"),

		// Справочники
		ModelCatalogPath:          getEnv("MODEL_CATALOG_PATH", "catalogs/models.txt"),
		CharacteristicCatalogPath: getEnv("CHARACTERISTIC_CATALOG_PATH", "catalogs/characteristics.csv"),
		CatalogSkipLines:          getEnvInt("CATALOG_SKIP_LINES", 1),

		// Сопоставление характеристик
		MaxDistance:   getEnvInt("MATCH_MAX_DISTANCE", 3),
		MinSimilarity: getEnvFloat("MATCH_MIN_SIMILARITY", 0.7),

		// Нормализация
		Workers: getEnvInt("NORMALIZE_WORKERS", 0),

		// Портал закупок
		ParserBaseURL: getEnv("PARSER_BASE_URL", "https://zakupki.gov.ru"),
		ParserTimeout: getEnvDuration("PARSER_TIMEOUT", 30*time.Second),
		DownloadDir:   getEnv("DOWNLOAD_DIR", "downloads"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация: %w", err)
	}
	return config, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("порт сервера не задан")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("путь к базе данных не задан")
	}
	if c.MaxDistance < 0 {
		return fmt.Errorf("максимальная дистанция не может быть отрицательной: %d", c.MaxDistance)
	}
	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		return fmt.Errorf("минимальная схожесть должна быть в [0, 1]: %g", c.MinSimilarity)
	}
	return nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64 или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как Duration или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
