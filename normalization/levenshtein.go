package normalization

// levenshteinDistance вычисляет расстояние Левенштейна между строками
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1 := len(r1)
	len2 := len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	matrix := make([][]int, len2+1)
	for j := range matrix {
		matrix[j] = make([]int, len1+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[0][i] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[j][0] = j
	}

	for j := 1; j <= len2; j++ {
		for i := 1; i <= len1; i++ {
			indicator := 0
			if r1[i-1] != r2[j-1] {
				indicator = 1
			}
			matrix[j][i] = minInt(
				matrix[j][i-1]+1,           // deletion
				matrix[j-1][i]+1,           // insertion
				matrix[j-1][i-1]+indicator, // substitution
			)
		}
	}

	return matrix[len2][len1]
}

// levenshteinSimilarity вычисляет сходство по Левенштейну (0..1)
func levenshteinSimilarity(s1, s2 string) float64 {
	maxLength := maxInt(len([]rune(s1)), len([]rune(s2)))
	if maxLength == 0 {
		return 1.0
	}
	distance := levenshteinDistance(s1, s2)
	return 1.0 - float64(distance)/float64(maxLength)
}

func minInt(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
