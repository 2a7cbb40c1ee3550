package normalization

import (
	"regexp"
	"strings"
)

// extractionRule правило извлечения названия модели из текста сертификата:
// регулярное выражение с одной группой захвата, опциональная проверка
// захваченного текста и имя правила для аудита.
type extractionRule struct {
	re       *regexp.Regexp
	name     string
	validate func(string) bool
}

// companyKeywords слова, по которым захват в кавычках отбрасывается
// как название компании, а не модели
var companyKeywords = []string{
	"КО", "ЛТД", "ООО", "АО", "ЗАО",
	"Корпорэйшн", "Системз", "МЕДИСОН", "САМСУНГ",
}

func notCompanyName(match string) bool {
	for _, keyword := range companyKeywords {
		if strings.Contains(match, keyword) {
			return false
		}
	}
	return true
}

// extractionRules упорядоченный список правил извлечения.
// Порядок кодирует приоритет: специфичные формулировки идут раньше общих,
// универсальный захват начала строки — последним. Первое правило, чей
// захват проходит проверку по эталонному списку, выигрывает.
var extractionRules = []extractionRule{
	{
		re:   regexp.MustCompile(`(?i)вариант\s+исполнения:\s*([A-Za-zА-Яа-я0-9\s\-\.ёЁ]+?)(?:\s+по\s+ТУ|\s*,|$)`),
		name: "вариант исполнения с ТУ",
	},
	{
		re:   regexp.MustCompile(`(?i)в\s+исполнении\s+([A-Za-zА-Яа-я0-9\s\-\.ёЁ]+?)(?:\s*,|$)`),
		name: "в исполнении",
	},
	{
		re:   regexp.MustCompile(`(?i)вариант\s+исполнения\s+([A-Za-zА-Яа-я0-9\s\-\.ёЁ]+?)(?:\s*$)`),
		name: "вариант исполнения без двоеточия",
	},
	{
		re:   regexp.MustCompile(`(?i)вариант\s+исполнения:\s*([A-Za-z0-9\s\-\.]+?)(?:\s+с\s+принадлежностями|\s*,|$)`),
		name: "вариант исполнения с двоеточием",
	},
	{
		re:   regexp.MustCompile(`(?i)серии\s+[МM]\s+с\s+принадлежностями,?\s*варианты\s+исполнения:\s*([A-Za-zА-Яа-я0-9\s\-\.ёЁ]+?)(?:\s+Производитель|\s*,|$)`),
		name: "серии М варианты исполнения",
	},
	{
		re:   regexp.MustCompile(`(?i)в\s+варианте\s+исполнения:\s*([A-Za-z0-9\s\-\.]+?)(?:"[^"]*"|$)`),
		name: "в варианте исполнения с двоеточием до кавычек",
	},
	{
		re:   regexp.MustCompile(`(?i)вариант\s+исполнения:\s*\d+\.\d+\.\s*Система\s+ультразвуковая\s+диагностическая\s+медицинская\s+([A-Za-z0-9\s\-\.]+?)(?:\s*,|$)`),
		name: "вариант исполнения с нумерацией и полным описанием",
	},
	{
		re:   regexp.MustCompile(`(?i)вариант\s+исполнения:\s*Система\s+диагностическая\s+ультразвуковая\s+([A-Za-z0-9\s\-\.]+?)(?:\s*,|$)`),
		name: "вариант исполнения с диагностической системой",
	},
	{
		re:   regexp.MustCompile(`(?i)варианты\s+исполнения:\s*([A-Za-z0-9\s\-\.]+?)(?:\s+Производитель|\s*,|$)`),
		name: "варианты исполнения до производителя",
	},
	{
		re:   regexp.MustCompile(`(?i)универсальная\s+серии\s+([A-Za-zА-Яа-я0-9\s\-\.ёЁ]+?)(?:\s+с\s+принадлежностями|\s*,|$)`),
		name: "универсальная серии",
	},
	{
		re:   regexp.MustCompile(`(?i)\d+\.\s*Система\s+ультразвуковая\s+диагностическая\s+([A-Za-z0-9\s\-\.]+?)(?:\s+в\s+варианте|\s*,|$)`),
		name: "нумерованный список с вариантом",
	},
	{
		re:   regexp.MustCompile(`(?i)вариант\s+исполнения:\s*Система\s+ультразвуковая\s+диагностическая\s+медицинская\s+([A-Za-z0-9\s\-\.]+?)(?:\s*,|\s+производства|$)`),
		name: "вариант исполнения с полным описанием системы",
	},
	{
		re:   regexp.MustCompile(`(?i)в\s+варианте\s+исполнения\s+([A-Za-z0-9\s\-\.]+?)(?:\s*,|$)`),
		name: "в варианте исполнения",
	},
	{
		re:   regexp.MustCompile(`(?i)варианты\s+исполнения:.*?I.*?диагностический\s+"([^"]+)"`),
		name: "варианты исполнения с диагностическим в кавычках",
	},
	{
		re:   regexp.MustCompile(`(?i)варианты\s+исполнения:.*?I\.\s*Система\s+ультразвуковая\s+диагностическая\s+([A-Za-z0-9\s\-\.]+?)(?:\s+в\s+варианте|\s*,|$)`),
		name: "варианты исполнения с римскими цифрами",
	},
	{
		re:   regexp.MustCompile(`(?i)серии\s+([A-Za-z0-9\s\-\.]+?)(?:\s+с\s+принадлежностями|\s*,|$)`),
		name: "серии",
	},
	{
		re:   regexp.MustCompile(`(?i)медицинская\s+с\s+([A-Za-zА-Яа-я0-9\s\-\.ёЁ]+?)(?:\s+[cс]\s+принадлежностями|\s*,|$)`),
		name: "медицинская с моделью",
	},
	{
		re:   regexp.MustCompile(`(?i)медицинская\s+([A-Za-z0-9\s\-\.]+?)(?:\s+с\s+принадлежностями|\s*,|$)`),
		name: "медицинская до конца",
	},
	{
		re:   regexp.MustCompile(`(?i)медицинская\s+([A-Za-z0-9\-]+)(?:/[A-Za-z0-9\-]+)*`),
		name: "медицинская с слешем",
	},
	{
		re:   regexp.MustCompile(`(?i)Система\s+ультразвуковая\s+диагностическая\s+([A-Za-z0-9\-]+)(?:\s+с\s+принадлежностями,\s*производитель|\s*,|$)`),
		name: "система ультразвуковая диагностическая с производителем",
	},
	{
		re:   regexp.MustCompile(`(?i)Ультразвуковой\s+диагностический\s+аппарат\s+([A-Za-z0-9\s\-\.]+?)(?:\s+с\s+принадлежностями|\.|\s*,|$)`),
		name: "ультразвуковой диагностический аппарат",
	},
	{
		re:   regexp.MustCompile(`(?i)вариант\s+исполнения\s+([A-Za-z0-9\s\-\.]+?)(?:\s*,\s*"[^"]+"|$)`),
		name: "вариант исполнения с компанией в кавычках",
	},
	{
		re:   regexp.MustCompile(`(?i)вариант\s+исполнения\s+([A-Za-z0-9\s\-\.]+?)(?:\s*,\s*производитель|$)`),
		name: "вариант исполнения с производителем",
	},
	{
		re:   regexp.MustCompile(`(?i)Система\s+ультразвуковая\s+диагностическая\s+([A-Za-z0-9\s\-\.]+?)(?:\s+с\s+принадлежностями|\s*,|$)`),
		name: "система ультразвуковая диагностическая",
	},
	{
		re:   regexp.MustCompile(`(?i)Система\s+ультразвуковая\s+.*?доплеровская\s+([A-Za-z0-9\s\-\.]+?)(?:\s*,|$)`),
		name: "система ультразвуковая доплеровская",
	},
	{
		re:   regexp.MustCompile(`«([^»]+)»`),
		name: "в угловых кавычках",
	},
	{
		re:       regexp.MustCompile(`"([^"]+)"`),
		name:     "в обычных кавычках",
		validate: notCompanyName,
	},
	{
		re:   regexp.MustCompile(`(?i)^([A-Za-z0-9\s\-\.]+?)(?:\s+с\s+принадлежностями|$)`),
		name: "модель в начале строки с принадлежностями",
	},
}

var (
	hyphenSpacingRe = regexp.MustCompile(`\s*-\s*`)

	cleanupPrefixes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(Система\s+ультразвуковая\s+диагностическая\s+медицинская\s+)`),
		regexp.MustCompile(`(?i)^(Система\s+ультразвуковая\s+)`),
		regexp.MustCompile(`(?i)^(медицинская\s+)`),
	}
	cleanupSuffixes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s+с\s+принадлежностями.*$`),
		regexp.MustCompile(`(?i)\s+по\s+ТУ.*$`),
	}
)

// preprocessCertificateName убирает пробелы вокруг дефисов, чтобы
// варианты записи "РуСкан - 60" и "РуСкан-60" совпадали
func preprocessCertificateName(name string) string {
	return hyphenSpacingRe.ReplaceAllString(name, "-")
}

// cleanupCapture очищает захваченный текст от типовых слов описания
func cleanupCapture(extracted string) string {
	for _, re := range cleanupPrefixes {
		extracted = re.ReplaceAllString(extracted, "")
	}
	for _, re := range cleanupSuffixes {
		extracted = re.ReplaceAllString(extracted, "")
	}
	return strings.TrimSpace(extracted)
}

// ExtractModelName извлекает название модели из текста сертификата.
//
// Правила применяются по порядку; захват принимается только если он (или его
// транслитерированная либо приведенная к верхнему регистру форма) найден в
// эталонном списке. Непроверенный захват отбрасывается, и поиск продолжается
// со следующего правила: точность важнее полноты. Если ни одно правило не
// дало подтвержденного результата, выполняется smart fallback по всему
// справочнику, а затем word fallback — первые три слова текста с
// Matched=false.
func ExtractModelName(certificateName string, ref *ModelReference) MatchResult {
	if certificateName == "" {
		return MatchResult{PatternName: "word fallback"}
	}

	preprocessed := preprocessCertificateName(certificateName)

	for _, rule := range extractionRules {
		m := rule.re.FindStringSubmatch(preprocessed)
		if m == nil || m[1] == "" {
			continue
		}
		extracted := strings.TrimSpace(m[1])

		if rule.validate != nil && !rule.validate(extracted) {
			continue
		}

		extracted = cleanupCapture(extracted)
		if extracted == "" {
			continue
		}

		normalized := extracted
		if CanBeWrittenInLatin(extracted) {
			normalized = NormalizeCyrillicToLatin(extracted)
		}

		if ref.Contains(normalized) || ref.Contains(extracted) {
			return MatchResult{
				OriginalText:   certificateName,
				NormalizedName: normalized,
				PatternName:    rule.name,
				Similarity:     1.0,
				Matched:        true,
			}
		}

		if ref.Contains(strings.ToUpper(normalized)) || ref.Contains(strings.ToUpper(extracted)) {
			return MatchResult{
				OriginalText:   certificateName,
				NormalizedName: strings.ToUpper(normalized),
				PatternName:    rule.name,
				Similarity:     1.0,
				Matched:        true,
			}
		}

		if ref.ContainsTransliterated(normalized) || ref.ContainsTransliterated(extracted) {
			return MatchResult{
				OriginalText:   certificateName,
				NormalizedName: normalized,
				PatternName:    rule.name,
				Similarity:     1.0,
				Matched:        true,
			}
		}

		// Захват есть, но в эталонном списке его нет — пробуем
		// следующие правила
	}

	if best, score, ok := findBestModelInCertificate(preprocessed, ref); ok {
		return MatchResult{
			OriginalText:   certificateName,
			NormalizedName: best,
			PatternName:    "smart fallback",
			Similarity:     score,
			Matched:        true,
		}
	}

	words := strings.Fields(preprocessed)
	if len(words) > 3 {
		words = words[:3]
	}
	return MatchResult{
		OriginalText:   certificateName,
		NormalizedName: strings.Join(words, " "),
		PatternName:    "word fallback",
		Matched:        false,
	}
}
