package normalization

import "strings"

// smartFallbackThreshold минимальный итоговый балл, при котором
// smart fallback принимает найденную модель
const smartFallbackThreshold = 0.7

// findBestModelInCertificate ищет наиболее подходящую модель из эталонного
// списка по всему тексту сертификата. Используется, когда ни одно правило
// извлечения не дало подтвержденного результата.
//
// Методы оценки в порядке приоритета:
//  1. точное вхождение названия в текст — балл 1.0 + длина/1000, чтобы из
//     нескольких вхождений выигрывало более длинное (более специфичное)
//     название;
//  2. пословное совпадение — точное слово дает 1, вхождение слова длиной
//     больше трех символов в любую сторону дает 0.8; балл нормируется на
//     число слов названия;
//  3. сходство по Левенштейну — только для названий до 15 символов, на
//     длинных строках редакционное расстояние шумит.
func findBestModelInCertificate(certificateName string, ref *ModelReference) (string, float64, bool) {
	bestMatch := ""
	bestScore := 0.0

	normalizedCertificate := strings.ToLower(certificateName)
	certificateWords := strings.Fields(normalizedCertificate)

	for _, modelName := range ref.Names() {
		normalizedModel := strings.ToLower(modelName)

		if strings.Contains(normalizedCertificate, normalizedModel) {
			score := 1.0 + float64(len([]rune(modelName)))/1000
			if score > bestScore {
				bestScore = score
				bestMatch = modelName
			}
			continue
		}

		modelWords := strings.Fields(normalizedModel)
		matchingWords := 0.0
		for _, modelWord := range modelWords {
			for _, certWord := range certificateWords {
				if modelWord == certWord {
					matchingWords += 1
					break
				}
				if len([]rune(modelWord)) > 3 && strings.Contains(certWord, modelWord) {
					matchingWords += 0.8
					break
				}
				if len([]rune(certWord)) > 3 && strings.Contains(modelWord, certWord) {
					matchingWords += 0.8
					break
				}
			}
		}
		if len(modelWords) > 0 {
			wordScore := matchingWords / float64(len(modelWords))
			if wordScore > bestScore && wordScore >= smartFallbackThreshold {
				bestScore = wordScore
				bestMatch = modelName
			}
		}

		if len([]rune(modelName)) <= 15 {
			similarity := levenshteinSimilarity(normalizedModel, normalizedCertificate)
			if similarity > bestScore && similarity >= smartFallbackThreshold {
				bestScore = similarity
				bestMatch = modelName
			}
		}
	}

	if bestScore >= smartFallbackThreshold {
		return bestMatch, bestScore, true
	}
	return "", 0, false
}
