package parser

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Код КТРУ ультразвуковых систем, по которому отбираются контракты
const defaultKTRUCodeName = "26.60.12.132-00000036&&&Система ультразвуковой визуализации универсальная, с питанием от сети"

// ContractInfo краткая информация о контракте из списка результатов поиска
type ContractInfo struct {
	ReestrNumber string `json:"reestr_number"`
	SignDate     string `json:"sign_date"`
	Customer     string `json:"customer"`
	DetailLink   string `json:"detail_link"`
}

// FetchContractList загружает одну страницу результатов поиска и извлекает
// реестровые номера контрактов
func (c *Client) FetchContractList(ctx context.Context, page int) ([]ContractInfo, error) {
	body, err := c.get(ctx, c.searchURL(defaultKTRUCodeName, page))
	if err != nil {
		return nil, fmt.Errorf("загрузка страницы %d списка контрактов: %w", page, err)
	}

	contracts, err := parseContractList(body)
	if err != nil {
		return nil, err
	}

	log.Printf("Получено %d контрактов со страницы %d", len(contracts), page)
	return contracts, nil
}

// FetchPages загружает диапазон страниц; ошибка на отдельной странице
// логируется и не прерывает обход
func (c *Client) FetchPages(ctx context.Context, startPage, endPage int) ([]ContractInfo, error) {
	var all []ContractInfo
	for page := startPage; page <= endPage; page++ {
		contracts, err := c.FetchContractList(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			log.Printf("Ошибка обработки страницы %d: %v", page, err)
			continue
		}
		all = append(all, contracts...)
	}
	return all, nil
}

// parseContractList разбирает HTML страницы результатов поиска.
// Реестровый номер берется из параметра reestrNumber ссылки на карточку.
func parseContractList(html []byte) ([]ContractInfo, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("разбор HTML списка контрактов: %w", err)
	}

	var contracts []ContractInfo
	doc.Find("div.search-registry-entry-block").Each(func(_ int, entry *goquery.Selection) {
		link := entry.Find("div.registry-entry__header-mid__number a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		reestrNumber := reestrNumberFromHref(href)
		if reestrNumber == "" {
			return
		}

		signDate := ""
		entry.Find("div.data-block__title").EachWithBreak(func(_ int, title *goquery.Selection) bool {
			if strings.Contains(title.Text(), "Заключение контракта") {
				signDate = strings.TrimSpace(title.NextFiltered("div.data-block__value").Text())
				return false
			}
			return true
		})

		contracts = append(contracts, ContractInfo{
			ReestrNumber: reestrNumber,
			SignDate:     signDate,
			Customer:     strings.TrimSpace(entry.Find("div.registry-entry__body-href a").Text()),
			DetailLink:   href,
		})
	})
	return contracts, nil
}

func reestrNumberFromHref(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get("reestrNumber")
}
