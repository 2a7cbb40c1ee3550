package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// ContractData данные электронного контракта из XML выписки
type ContractData struct {
	ContractNumber string    `json:"contract_number"`
	ReestrNumber   string    `json:"reestr_number"`
	Subject        string    `json:"subject"`
	Price          float64   `json:"price"`
	Products       []Product `json:"products"`
}

// Product товар из контракта: позиция КТРУ и данные регистрационного
// удостоверения медицинского изделия
type Product struct {
	Name            string                  `json:"name"`
	KTRUCode        string                  `json:"ktru_code"`
	KTRUName        string                  `json:"ktru_name"`
	CertificateName string                  `json:"certificate_name"`
	Quantity        int                     `json:"quantity"`
	Price           float64                 `json:"price"`
	Characteristics []ProductCharacteristic `json:"characteristics"`
}

// ProductCharacteristic характеристика товара из справочника КТРУ
type ProductCharacteristic struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// Промежуточные структуры под схему cpElectronicContract. Элементы в XML
// идут с префиксами пространств имен, сопоставление — по локальным именам.
type contractXML struct {
	ContractNumber string `xml:"contractNumber"`
	SubjectInfo    struct {
		Subject      string `xml:"contractSubject"`
		ProductsInfo struct {
			Products []productXML `xml:"productsInfoElectronicContract>productInfo"`
		} `xml:"productsInfo"`
	} `xml:"contractSubjectInfo"`
	FinancingInfo struct {
		PriceInfo struct {
			Price string `xml:"price"`
		} `xml:"contractPriceInfo"`
	} `xml:"contractFinancingInfo"`
}

type productXML struct {
	Name     string `xml:"name"`
	Quantity string `xml:"quantity"`
	Price    string `xml:"price"`
	KTRUInfo struct {
		Code            string `xml:"code"`
		Name            string `xml:"name"`
		Characteristics struct {
			Items []characteristicXML `xml:"characteristicsUsingReferenceInfo"`
		} `xml:"characteristics"`
	} `xml:"KTRUInfo"`
	MedicalProductInfo struct {
		CertificateName string `xml:"certificateNameMedicalProduct"`
	} `xml:"medicalProductInfo"`
}

type characteristicXML struct {
	Code   string `xml:"code"`
	Name   string `xml:"name"`
	Values struct {
		Items []characteristicValueXML `xml:"value"`
	} `xml:"values"`
	OKEI struct {
		Name string `xml:"name"`
	} `xml:"OKEI"`
}

type characteristicValueXML struct {
	QualityDescription string `xml:"qualityDescription"`
	ConcreteValue      string `xml:"valueSet>concreteValue"`
}

// ParseContractXML разбирает XML электронного контракта. Выписки приходят
// как в UTF-8, так и в windows-1251, кодировка берется из декларации XML.
func ParseContractXML(data []byte) (ContractData, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	var raw contractXML
	if err := decoder.Decode(&raw); err != nil {
		return ContractData{}, fmt.Errorf("разбор XML контракта: %w", err)
	}
	if raw.ContractNumber == "" && len(raw.SubjectInfo.ProductsInfo.Products) == 0 {
		return ContractData{}, fmt.Errorf("XML не содержит данных контракта")
	}

	contract := ContractData{
		ContractNumber: raw.ContractNumber,
		ReestrNumber:   reestrNumberFromContractNumber(raw.ContractNumber),
		Subject:        strings.TrimSpace(raw.SubjectInfo.Subject),
		Price:          parseFloat(raw.FinancingInfo.PriceInfo.Price),
	}
	for _, p := range raw.SubjectInfo.ProductsInfo.Products {
		contract.Products = append(contract.Products, convertProduct(p))
	}
	return contract, nil
}

func convertProduct(p productXML) Product {
	product := Product{
		Name:            strings.TrimSpace(p.Name),
		KTRUCode:        strings.TrimSpace(p.KTRUInfo.Code),
		KTRUName:        strings.TrimSpace(p.KTRUInfo.Name),
		CertificateName: strings.TrimSpace(p.MedicalProductInfo.CertificateName),
		Quantity:        parseInt(p.Quantity, 1),
		Price:           parseFloat(p.Price),
	}
	for _, ch := range p.KTRUInfo.Characteristics.Items {
		product.Characteristics = append(product.Characteristics, ProductCharacteristic{
			Code:  strings.TrimSpace(ch.Code),
			Name:  strings.TrimSpace(ch.Name),
			Value: characteristicValue(ch.Values.Items),
			Unit:  strings.TrimSpace(ch.OKEI.Name),
		})
	}
	return product
}

// characteristicValue собирает значение характеристики: качественное
// описание предпочтительнее конкретного значения, несколько значений
// объединяются через запятую
func characteristicValue(values []characteristicValueXML) string {
	var parts []string
	for _, v := range values {
		switch {
		case strings.TrimSpace(v.QualityDescription) != "":
			parts = append(parts, strings.TrimSpace(v.QualityDescription))
		case strings.TrimSpace(v.ConcreteValue) != "":
			parts = append(parts, strings.TrimSpace(v.ConcreteValue))
		}
	}
	return strings.Join(parts, ", ")
}

// reestrNumberFromContractNumber реестровый номер — часть номера контракта
// до первого дефиса
func reestrNumberFromContractNumber(contractNumber string) string {
	number, _, _ := strings.Cut(contractNumber, "-")
	return number
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
