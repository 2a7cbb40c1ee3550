package parser

import (
	"testing"

	"golang.org/x/text/encoding/charmap"
)

const contractXMLFixture = `<?xml version="1.0" encoding="UTF-8"?>
<ns2:cpElectronicContract xmlns:ns2="http://zakupki.gov.ru/oos/export/1" xmlns:ns3="http://zakupki.gov.ru/oos/types/1">
  <ns3:contractNumber>1770203647224000012-1</ns3:contractNumber>
  <ns3:contractSubjectInfo>
    <ns3:contractSubject>Поставка аппарата УЗИ</ns3:contractSubject>
    <ns3:productsInfo>
      <ns3:productsInfoElectronicContract>
        <ns3:productInfo>
          <ns3:name>Система ультразвуковой визуализации</ns3:name>
          <ns3:quantity>2</ns3:quantity>
          <ns3:price>1500000.50</ns3:price>
          <ns3:KTRUInfo>
            <ns3:code>26.60.12.132-00000036</ns3:code>
            <ns3:name>Система ультразвуковой визуализации универсальная</ns3:name>
            <ns3:characteristics>
              <ns3:characteristicsUsingReferenceInfo>
                <ns3:code>C1</ns3:code>
                <ns3:name>Глубина сканирования</ns3:name>
                <ns3:values>
                  <ns3:value>
                    <ns3:valueSet>
                      <ns3:concreteValue>300</ns3:concreteValue>
                    </ns3:valueSet>
                  </ns3:value>
                </ns3:values>
                <ns3:OKEI>
                  <ns3:name>Миллиметр</ns3:name>
                </ns3:OKEI>
              </ns3:characteristicsUsingReferenceInfo>
              <ns3:characteristicsUsingReferenceInfo>
                <ns3:code>C2</ns3:code>
                <ns3:name>Типы датчиков</ns3:name>
                <ns3:values>
                  <ns3:value>
                    <ns3:qualityDescription>конвексный</ns3:qualityDescription>
                    <ns3:valueSet>
                      <ns3:concreteValue>игнорируется</ns3:concreteValue>
                    </ns3:valueSet>
                  </ns3:value>
                  <ns3:value>
                    <ns3:valueSet>
                      <ns3:concreteValue>линейный</ns3:concreteValue>
                    </ns3:valueSet>
                  </ns3:value>
                </ns3:values>
              </ns3:characteristicsUsingReferenceInfo>
            </ns3:characteristics>
          </ns3:KTRUInfo>
          <ns3:medicalProductInfo>
            <ns3:certificateNameMedicalProduct>Система ультразвуковая диагностическая ACE X5 с принадлежностями</ns3:certificateNameMedicalProduct>
          </ns3:medicalProductInfo>
        </ns3:productInfo>
      </ns3:productsInfoElectronicContract>
    </ns3:productsInfo>
  </ns3:contractSubjectInfo>
  <ns3:contractFinancingInfo>
    <ns3:contractPriceInfo>
      <ns3:price>3000001.00</ns3:price>
    </ns3:contractPriceInfo>
  </ns3:contractFinancingInfo>
</ns2:cpElectronicContract>`

func TestParseContractXML(t *testing.T) {
	contract, err := ParseContractXML([]byte(contractXMLFixture))
	if err != nil {
		t.Fatalf("ParseContractXML() error: %v", err)
	}

	if contract.ContractNumber != "1770203647224000012-1" {
		t.Errorf("ContractNumber = %q", contract.ContractNumber)
	}
	if contract.ReestrNumber != "1770203647224000012" {
		t.Errorf("ReestrNumber = %q", contract.ReestrNumber)
	}
	if contract.Subject != "Поставка аппарата УЗИ" {
		t.Errorf("Subject = %q", contract.Subject)
	}
	if contract.Price != 3000001.00 {
		t.Errorf("Price = %f", contract.Price)
	}

	if len(contract.Products) != 1 {
		t.Fatalf("len(Products) = %d, want 1", len(contract.Products))
	}
	p := contract.Products[0]
	if p.Name != "Система ультразвуковой визуализации" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.KTRUCode != "26.60.12.132-00000036" {
		t.Errorf("KTRUCode = %q", p.KTRUCode)
	}
	if p.CertificateName != "Система ультразвуковая диагностическая ACE X5 с принадлежностями" {
		t.Errorf("CertificateName = %q", p.CertificateName)
	}
	if p.Quantity != 2 {
		t.Errorf("Quantity = %d", p.Quantity)
	}
	if p.Price != 1500000.50 {
		t.Errorf("Price = %f", p.Price)
	}

	if len(p.Characteristics) != 2 {
		t.Fatalf("len(Characteristics) = %d, want 2", len(p.Characteristics))
	}
	if p.Characteristics[0].Value != "300" {
		t.Errorf("Characteristics[0].Value = %q", p.Characteristics[0].Value)
	}
	if p.Characteristics[0].Unit != "Миллиметр" {
		t.Errorf("Characteristics[0].Unit = %q", p.Characteristics[0].Unit)
	}
	// Качественное описание перекрывает конкретное значение,
	// несколько значений объединяются через запятую
	if p.Characteristics[1].Value != "конвексный, линейный" {
		t.Errorf("Characteristics[1].Value = %q", p.Characteristics[1].Value)
	}
}

func TestParseContractXML_Windows1251(t *testing.T) {
	utf8XML := `<?xml version="1.0" encoding="windows-1251"?>
<contract>
  <contractNumber>2770203647224000099-3</contractNumber>
  <contractSubjectInfo>
    <contractSubject>Поставка медицинского оборудования</contractSubject>
  </contractSubjectInfo>
</contract>`

	encoded, err := charmap.Windows1251.NewEncoder().Bytes([]byte(utf8XML))
	if err != nil {
		t.Fatalf("кодирование фикстуры: %v", err)
	}

	contract, err := ParseContractXML(encoded)
	if err != nil {
		t.Fatalf("ParseContractXML() error: %v", err)
	}
	if contract.ReestrNumber != "2770203647224000099" {
		t.Errorf("ReestrNumber = %q", contract.ReestrNumber)
	}
	if contract.Subject != "Поставка медицинского оборудования" {
		t.Errorf("Subject = %q", contract.Subject)
	}
}

func TestParseContractXML_Invalid(t *testing.T) {
	if _, err := ParseContractXML([]byte("не xml")); err == nil {
		t.Error("ожидалась ошибка для некорректного XML")
	}
	if _, err := ParseContractXML([]byte("<contract></contract>")); err == nil {
		t.Error("ожидалась ошибка для пустого контракта")
	}
}

func TestReestrNumberFromContractNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1770203647224000012-1", want: "1770203647224000012"},
		{in: "1770203647224000012", want: "1770203647224000012"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := reestrNumberFromContractNumber(tt.in); got != tt.want {
			t.Errorf("reestrNumberFromContractNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCharacteristicValue_Empty(t *testing.T) {
	if got := characteristicValue(nil); got != "" {
		t.Errorf("characteristicValue(nil) = %q", got)
	}
	values := []characteristicValueXML{{QualityDescription: "  "}}
	if got := characteristicValue(values); got != "" {
		t.Errorf("characteristicValue() = %q, want пустую строку", got)
	}
}
