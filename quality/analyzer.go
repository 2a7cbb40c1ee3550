// Package quality оценивает качество нормализации: агрегирует долю
// сопоставленных записей и выделяет частые ключевые слова в текстах,
// для которых модель не нашлась, чтобы пополнять эталонный список.
package quality

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/kljensen/snowball"

	"medmatch/normalization"
)

// Keyword частое ключевое слово из несопоставленных текстов
type Keyword struct {
	Stem  string `json:"stem"`
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Report итоговая оценка качества нормализации
type Report struct {
	Total       int            `json:"total"`
	Matched     int            `json:"matched"`
	Unmatched   int            `json:"unmatched"`
	MatchRate   float64        `json:"match_rate"`
	ByPattern   map[string]int `json:"by_pattern"`
	TopKeywords []Keyword      `json:"top_keywords"`
}

// Слова, не несущие информации о модели в названиях из РУ
var stopWords = map[string]struct{}{
	"и": {}, "в": {}, "с": {}, "на": {}, "по": {}, "для": {}, "от": {}, "из": {},
	"система":          {},
	"ультразвуковая":   {},
	"диагностическая":  {},
	"медицинская":      {},
	"принадлежностями": {},
	"ту":               {},
}

// Analyzer анализатор результатов нормализации
type Analyzer struct {
	mu        sync.RWMutex
	stemCache map[string]string
}

// NewAnalyzer создает анализатор качества
func NewAnalyzer() *Analyzer {
	return &Analyzer{stemCache: make(map[string]string)}
}

// Analyze строит отчет по результатам нормализации; topN ограничивает
// список ключевых слов, <=0 дает 10
func (a *Analyzer) Analyze(results []normalization.MatchResult, topN int) Report {
	if topN <= 0 {
		topN = 10
	}

	report := Report{
		Total:     len(results),
		ByPattern: make(map[string]int),
	}

	type keywordStat struct {
		word  string
		count int
	}
	stats := make(map[string]*keywordStat)

	for _, result := range results {
		report.ByPattern[result.PatternName]++
		if result.Matched {
			report.Matched++
			continue
		}
		report.Unmatched++

		for _, word := range tokenize(result.OriginalText) {
			if _, skip := stopWords[word]; skip {
				continue
			}
			stem := a.stem(word)
			if _, skip := stopWords[stem]; skip {
				continue
			}
			if st, ok := stats[stem]; ok {
				st.count++
			} else {
				stats[stem] = &keywordStat{word: word, count: 1}
			}
		}
	}

	if report.Total > 0 {
		report.MatchRate = float64(report.Matched) / float64(report.Total)
	}

	keywords := make([]Keyword, 0, len(stats))
	for stem, st := range stats {
		keywords = append(keywords, Keyword{Stem: stem, Word: st.word, Count: st.count})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return keywords[i].Stem < keywords[j].Stem
	})
	if len(keywords) > topN {
		keywords = keywords[:topN]
	}
	report.TopKeywords = keywords
	return report
}

// tokenize режет текст на слова из букв и цифр длиной от 3 символов
func tokenize(text string) []string {
	var words []string
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(field)) >= 3 {
			words = append(words, field)
		}
	}
	return words
}

// stem возвращает основу слова с кэшированием; при ошибке стеммера
// слово возвращается как есть
func (a *Analyzer) stem(word string) string {
	a.mu.RLock()
	cached, ok := a.stemCache[word]
	a.mu.RUnlock()
	if ok {
		return cached
	}

	stemmed, err := snowball.Stem(word, "russian", true)
	if err != nil {
		stemmed = word
	}

	a.mu.Lock()
	a.stemCache[word] = stemmed
	a.mu.Unlock()
	return stemmed
}
