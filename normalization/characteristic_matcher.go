package normalization

import (
	"log"
	"regexp"
	"strings"
	"sync"
)

const (
	// DefaultMaxDistance максимальное расстояние Левенштейна для совпадения
	DefaultMaxDistance = 3
	// DefaultMinSimilarity минимальное сходство для совпадения
	DefaultMinSimilarity = 0.7
)

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// CharacteristicMatcher сопоставляет сырые названия характеристик с
// эталонным справочником по расстоянию Левенштейна.
//
// Совпадением считается лучшая по сходству запись, у которой одновременно
// расстояние не превышает maxDistance И сходство не ниже minSimilarity:
// короткая подпись может иметь малое расстояние при низком сходстве,
// длинная — наоборот.
type CharacteristicMatcher struct {
	mu            sync.RWMutex
	entries       []Characteristic
	maxDistance   int
	minSimilarity float64
}

// NewCharacteristicMatcher создает матчер характеристик с порогами по умолчанию
func NewCharacteristicMatcher(entries []Characteristic) *CharacteristicMatcher {
	return &CharacteristicMatcher{
		entries:       entries,
		maxDistance:   DefaultMaxDistance,
		minSimilarity: DefaultMinSimilarity,
	}
}

// normalizeLabel приводит подпись к виду для сравнения: нижний регистр,
// пунктуация заменяется пробелами, пробелы схлопываются
func normalizeLabel(s string) string {
	s = strings.ToLower(s)
	s = nonWordRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// FindBestMatch находит наиболее похожую эталонную характеристику.
// Отсутствие совпадения — нормальный результат (Matched=false), не ошибка.
func (cm *CharacteristicMatcher) FindBestMatch(characteristicName string) CharacteristicMatch {
	cm.mu.RLock()
	entries := cm.entries
	maxDistance := cm.maxDistance
	minSimilarity := cm.minSimilarity
	cm.mu.RUnlock()

	normalizedInput := normalizeLabel(characteristicName)
	best := CharacteristicMatch{
		OriginalName: characteristicName,
		Distance:     -1,
	}

	for _, entry := range entries {
		normalizedTarget := normalizeLabel(entry.Name)
		distance := levenshteinDistance(normalizedInput, normalizedTarget)
		similarity := levenshteinSimilarity(normalizedInput, normalizedTarget)

		if similarity > best.Similarity {
			best = CharacteristicMatch{
				OriginalName:   characteristicName,
				NormalizedName: entry.Name,
				Distance:       distance,
				Similarity:     similarity,
				Matched:        distance <= maxDistance && similarity >= minSimilarity,
			}
		}
	}

	return best
}

// MatchAll сопоставляет список подписей, сохраняя порядок входа
func (cm *CharacteristicMatcher) MatchAll(names []string) []CharacteristicMatch {
	matches := make([]CharacteristicMatch, 0, len(names))
	for _, name := range names {
		matches = append(matches, cm.FindBestMatch(name))
	}
	return matches
}

// Statistics считает агрегированную статистику по результатам сопоставления
func (cm *CharacteristicMatcher) Statistics(matches []CharacteristicMatch) MatchStats {
	stats := MatchStats{Total: len(matches)}
	for _, m := range matches {
		if m.Matched {
			stats.Matched++
		}
	}
	stats.Unmatched = stats.Total - stats.Matched
	if stats.Total > 0 {
		stats.MatchRate = float64(stats.Matched) / float64(stats.Total)
	}
	return stats
}

// SetThresholds обновляет пороги сопоставления. Отрицательные значения
// оставляют текущий порог без изменений. Влияет только на последующие вызовы.
func (cm *CharacteristicMatcher) SetThresholds(maxDistance int, minSimilarity float64) {
	cm.mu.Lock()
	if maxDistance >= 0 {
		cm.maxDistance = maxDistance
	}
	if minSimilarity >= 0 {
		cm.minSimilarity = minSimilarity
	}
	log.Printf("Обновлены пороги сопоставления характеристик: maxDistance=%d, minSimilarity=%.2f",
		cm.maxDistance, cm.minSimilarity)
	cm.mu.Unlock()
}

// SetCatalog заменяет эталонный справочник целиком (перезагрузка)
func (cm *CharacteristicMatcher) SetCatalog(entries []Characteristic) {
	cm.mu.Lock()
	cm.entries = entries
	cm.mu.Unlock()
}

// Entries возвращает копию эталонного справочника
func (cm *CharacteristicMatcher) Entries() []Characteristic {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	out := make([]Characteristic, len(cm.entries))
	copy(out, cm.entries)
	return out
}
