package normalization

// MatchResult результат нормализации названия модели из текста сертификата.
// PatternName указывает, какое правило (или какой уровень fallback)
// дало результат — используется для аудита и в тестах.
type MatchResult struct {
	OriginalText   string  `json:"original_text"`
	NormalizedName string  `json:"normalized_name"`
	PatternName    string  `json:"pattern_name"`
	Similarity     float64 `json:"similarity"`
	Matched        bool    `json:"matched"`
}

// Characteristic эталонная характеристика из справочника КТРУ
type Characteristic struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// CharacteristicMatch результат сопоставления характеристики с эталоном
type CharacteristicMatch struct {
	OriginalName   string  `json:"original_name"`
	NormalizedName string  `json:"normalized_name"`
	Distance       int     `json:"distance"`
	Similarity     float64 `json:"similarity"`
	Matched        bool    `json:"matched"`
}

// MatchStats агрегированная статистика сопоставления характеристик
type MatchStats struct {
	Total     int     `json:"total"`
	Matched   int     `json:"matched"`
	Unmatched int     `json:"unmatched"`
	MatchRate float64 `json:"match_rate"`
}
