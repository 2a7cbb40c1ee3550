package normalization

import "strings"

// ModelReference эталонный список названий моделей с наборами для
// точного, регистронезависимого и транслитерированного поиска.
// После создания не изменяется, поэтому безопасен для конкурентного чтения;
// перезагрузка справочника выполняется заменой указателя целиком.
type ModelReference struct {
	names    []string
	exact    map[string]struct{}
	translit map[string]struct{}
}

// NewModelReference строит эталонный список из названий моделей.
// Пустые строки игнорируются; порядок остальных сохраняется.
func NewModelReference(names []string) *ModelReference {
	ref := &ModelReference{
		exact:    make(map[string]struct{}, len(names)*2),
		translit: make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ref.names = append(ref.names, name)
		ref.exact[name] = struct{}{}
		ref.exact[strings.ToUpper(name)] = struct{}{}
	}
	// Транслитерированный набор строится по полному набору, включая
	// варианты в верхнем регистре
	for name := range ref.exact {
		ref.translit[NormalizeCyrillicToLatin(name)] = struct{}{}
	}
	return ref
}

// Contains проверяет точное вхождение названия в эталонный список
// (включая варианты в верхнем регистре)
func (ref *ModelReference) Contains(name string) bool {
	_, ok := ref.exact[name]
	return ok
}

// ContainsTransliterated проверяет вхождение транслитерированного названия
// в транслитерированный эталонный список
func (ref *ModelReference) ContainsTransliterated(name string) bool {
	_, ok := ref.translit[NormalizeCyrillicToLatin(name)]
	return ok
}

// Names возвращает исходные названия моделей в порядке загрузки
func (ref *ModelReference) Names() []string {
	return ref.names
}

// Len возвращает количество названий в эталонном списке
func (ref *ModelReference) Len() int {
	return len(ref.names)
}
