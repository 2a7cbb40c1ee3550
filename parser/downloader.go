package parser

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ContractFile файл из карточки контракта на портале
type ContractFile struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
}

var contractInfoIDRe = regexp.MustCompile(`contractInfoId["\s]*[:=]["\s]*([^"&\s]+)`)

// ContractInfoID находит внутренний идентификатор карточки контракта:
// сначала в ссылках на вкладку документов, затем в скриптах страницы
func (c *Client) ContractInfoID(ctx context.Context, reestrNumber string) (string, error) {
	pageURL := fmt.Sprintf("%s/epz/contract/contractCard/common-info.html?reestrNumber=%s", c.baseURL, reestrNumber)
	body, err := c.get(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("загрузка карточки контракта %s: %w", reestrNumber, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("разбор карточки контракта %s: %w", reestrNumber, err)
	}

	if href, ok := doc.Find(`a[href*="document-info.html"]`).First().Attr("href"); ok {
		if _, query, found := strings.Cut(href, "?"); found {
			for _, pair := range strings.Split(query, "&") {
				if value, ok := strings.CutPrefix(pair, "contractInfoId="); ok {
					return value, nil
				}
			}
		}
	}

	if m := contractInfoIDRe.FindSubmatch(body); m != nil {
		return string(m[1]), nil
	}

	return "", fmt.Errorf("contractInfoId не найден для контракта %s", reestrNumber)
}

// FindContractFiles возвращает список файлов из вкладки документов контракта
func (c *Client) FindContractFiles(ctx context.Context, reestrNumber, contractInfoID string) ([]ContractFile, error) {
	pageURL := fmt.Sprintf("%s/epz/contract/contractCard/document-info.html?reestrNumber=%s&contractInfoId=%s",
		c.baseURL, reestrNumber, contractInfoID)
	body, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("загрузка вкладки документов %s: %w", reestrNumber, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("разбор вкладки документов %s: %w", reestrNumber, err)
	}

	var files []ContractFile
	doc.Find(`a[href*="filestore/public/1.0/download"]`).Each(func(i int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		title, _ := link.Attr("title")
		if title == "" {
			title = strings.TrimSpace(link.Text())
		}
		if title == "" {
			return
		}
		files = append(files, ContractFile{
			URL:      href,
			Title:    title,
			Filename: fmt.Sprintf("%s_%d_%d.%s", reestrNumber, time.Now().UnixMilli(), i, fileExtension(title)),
		})
	})
	return files, nil
}

var (
	extBeforeParenRe = regexp.MustCompile(`\.(\w+)\s*\(`)
	extTrailingRe    = regexp.MustCompile(`\.(\w+)(?:\s|$)`)
)

// fileExtension определяет расширение файла по подписи ссылки.
// Подписи приходят в форматах "имя.ext (размер)" и "имя.ext",
// иногда расширение встречается только в середине текста.
func fileExtension(title string) string {
	supported := map[string]bool{"doc": true, "docx": true, "pdf": true, "xml": true}

	if m := extBeforeParenRe.FindStringSubmatch(title); m != nil {
		if ext := strings.ToLower(m[1]); supported[ext] {
			return ext
		}
	}
	if m := extTrailingRe.FindStringSubmatch(title); m != nil {
		if ext := strings.ToLower(m[1]); supported[ext] {
			return ext
		}
	}

	lower := strings.ToLower(title)
	for _, ext := range []string{"docx", "doc", "pdf", "xml"} {
		if strings.Contains(lower, "."+ext) {
			return ext
		}
	}
	// docx проверяется раньше doc, иначе "docx" в тексте дал бы "doc"
	for _, ext := range []string{"docx", "pdf", "xml", "doc"} {
		if strings.Contains(lower, ext) {
			return ext
		}
	}

	log.Printf("Не удалось определить расширение файла по подписи %q, используется doc", title)
	return "doc"
}

// DownloadContractFile скачивает файл контракта в каталог downloadDir
// и возвращает путь к сохраненному файлу
func (c *Client) DownloadContractFile(ctx context.Context, file ContractFile, downloadDir string) (string, error) {
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("создание каталога загрузок: %w", err)
	}

	body, err := c.get(ctx, file.URL)
	if err != nil {
		return "", fmt.Errorf("скачивание файла %s: %w", file.Filename, err)
	}

	path := filepath.Join(downloadDir, file.Filename)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("сохранение файла %s: %w", file.Filename, err)
	}
	return path, nil
}

// DownloadAllContractFiles скачивает все файлы контракта; ошибка отдельного
// файла логируется и не прерывает загрузку остальных
func (c *Client) DownloadAllContractFiles(ctx context.Context, reestrNumber, downloadDir string) ([]string, error) {
	contractInfoID, err := c.ContractInfoID(ctx, reestrNumber)
	if err != nil {
		return nil, err
	}

	files, err := c.FindContractFiles(ctx, reestrNumber, contractInfoID)
	if err != nil {
		return nil, err
	}

	var downloaded []string
	for _, file := range files {
		path, err := c.DownloadContractFile(ctx, file, downloadDir)
		if err != nil {
			if ctx.Err() != nil {
				return downloaded, ctx.Err()
			}
			log.Printf("Не удалось скачать %s: %v", file.Filename, err)
			continue
		}
		log.Printf("Скачан файл: %s", file.Filename)
		downloaded = append(downloaded, path)
	}
	return downloaded, nil
}
