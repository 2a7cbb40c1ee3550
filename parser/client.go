// Package parser получает данные о контрактах с портала закупок: список
// контрактов по коду КТРУ, карточки контрактов с файлами и разбор XML
// электронных контрактов с характеристиками товаров.
package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://zakupki.gov.ru"

// Портал отвечает ошибкой на запросы без браузерных заголовков
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Client клиент портала закупок с ограничением частоты запросов
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientConfig конфигурация клиента портала
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit rate.Limit
}

// NewClient создает клиент портала закупок
func NewClient(config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		// Портал банит частые запросы, по умолчанию 1 запрос в 2 секунды
		config.RateLimit = rate.Every(2 * time.Second)
	}

	return &Client{
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(config.RateLimit, 1),
	}
}

// get выполняет GET с учетом лимита запросов и браузерными заголовками
func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("ожидание лимита запросов: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("создание запроса: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,ru;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("выполнение запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("неожиданный статус ответа: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("чтение ответа: %w", err)
	}
	return body, nil
}

// searchURL формирует URL страницы поиска контрактов по коду КТРУ
func (c *Client) searchURL(ktruCodeName string, page int) string {
	params := url.Values{}
	params.Set("searchString", "")
	params.Set("morphology", "on")
	params.Set("fz44", "on")
	params.Set("ktruCodeNameList", ktruCodeName)
	params.Set("sortBy", "PUBLISH_DATE")
	params.Set("sortDirection", "false")
	params.Set("recordsPerPage", "_50")
	params.Set("pageNumber", strconv.Itoa(page))
	return c.baseURL + "/epz/contract/search/results.html?" + params.Encode()
}
