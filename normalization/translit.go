package normalization

// Набор кириллических символов, которые визуально совпадают с латинскими
// и могут быть безопасно заменены. Набор фиксированный: расширение меняет
// результаты сопоставления на существующих справочниках.
var convertibleCyrillicChars = map[rune]struct{}{
	'А': {}, 'а': {},
	'В': {}, 'в': {},
	'С': {}, 'с': {},
	'Е': {}, 'е': {},
	'Н': {},
	'К': {}, 'к': {},
	'М': {}, 'м': {},
	'О': {}, 'о': {},
	'Р': {}, 'р': {},
	'Т': {}, 'т': {},
	'У': {},
	'Х': {}, 'х': {},
}

// cyrillicToLatin словарь замен кириллических букв на похожие латинские
var cyrillicToLatin = map[rune]rune{
	'А': 'A', 'а': 'a',
	'В': 'B', 'в': 'b',
	'С': 'C', 'с': 'c',
	'Е': 'E', 'е': 'e',
	'Н': 'H', 'н': 'h',
	'К': 'K', 'к': 'k',
	'М': 'M', 'м': 'm',
	'О': 'O', 'о': 'o',
	'Р': 'P', 'р': 'p',
	'Т': 'T', 'т': 't',
	'У': 'Y', 'у': 'y',
	'Х': 'X', 'х': 'x',
	'Ё': 'E', 'ё': 'e',
}

func isASCIIAllowed(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == ' ', r == '\t', r == '\n', r == '\r', r == '-', r == '.':
		return true
	}
	return false
}

func isCyrillic(r rune) bool {
	return (r >= 'А' && r <= 'я') || r == 'Ё' || r == 'ё'
}

// CanBeWrittenInLatin проверяет, можно ли записать текст латиницей.
// Возвращает false, если встретилась кириллическая буква без латинского
// двойника — такой текст транслитерировать нельзя, иначе исказим
// действительно русское слово.
func CanBeWrittenInLatin(text string) bool {
	for _, r := range text {
		if isASCIIAllowed(r) {
			continue
		}
		if isCyrillic(r) {
			if _, ok := convertibleCyrillicChars[r]; !ok {
				return false
			}
		}
	}
	return true
}

// NormalizeCyrillicToLatin заменяет кириллические буквы на похожие латинские.
// Символы вне словаря остаются без изменений.
func NormalizeCyrillicToLatin(text string) string {
	out := make([]rune, 0, len(text))
	for _, r := range text {
		if latin, ok := cyrillicToLatin[r]; ok {
			out = append(out, latin)
		} else {
			out = append(out, r)
		}
	}
	return string(out)
}
