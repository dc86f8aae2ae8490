// Package category assigns free-text item names to one of the fixed shopping
// categories. Classification is a grouping heuristic only: it never decides
// pricing semantics, and misclassification is acceptable. The keyword table
// is meant to be extended as the household vocabulary grows.
package category

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"listinha/internal/format"
	"listinha/internal/model"
)

// Keyword tables per category, in declaration order. Multi-word keywords
// match as substrings only; single-word keywords additionally participate in
// fuzzy token matching.
var keywordTable = []struct {
	category string
	keywords []string
}{
	{"Limpeza e Higiene", []string{
		"papel higienico", "papel toalha", "detergente", "esponja",
		"desinfetante", "agua sanitaria", "sabao", "amaciante",
		"pano de prato", "vassoura", "rodo", "alcool", "multiuso",
	}},
	{"Padaria e Laticínios", []string{
		"pao", "pao de queijo", "pao pullman", "bisnaguinha", "queijo",
		"mussarela", "requeijao", "iogurte", "yogurt", "danone", "leite",
		"margarina", "presunto",
	}},
	{"Hortifruti", []string{
		"banana", "maca", "mamao", "manga", "abacaxi", "tomate", "alface",
		"pepino", "cenoura", "limao", "cebola", "alho", "batata",
	}},
	{"Bebidas", []string{
		"suco", "agua", "refrigerante", "coca", "cafe", "cha", "cerveja",
	}},
	{"Mercearia", []string{
		"maionese", "mostarda", "azeite", "arroz", "feijao", "macarrao",
		"molho de tomate", "ketchup", "oleo", "acucar", "sal", "tapioca",
		"granola",
	}},
	{"Proteínas e Ovos", []string{
		"ovo", "ovos", "frango", "carne", "peixe", "sardinha",
	}},
}

const (
	scoreMultiWord  = 4
	scoreSingleWord = 3
	scoreFuzzy      = 1
	minScore        = 2
)

// Classify maps an item name to a category. Substring matches score highest
// (multi-word keywords above single words); fuzzy token matches score one
// point each. The first-declared category wins ties, and anything below the
// minimum score falls back to Geral.
func Classify(name string) string {
	normalized := normalizeText(name)
	if normalized == "" {
		return model.CategoryGeral
	}
	tokens := strings.Fields(normalized)

	best := model.CategoryGeral
	bestScore := 0
	for _, entry := range keywordTable {
		score := 0
		for _, keyword := range entry.keywords {
			if strings.Contains(normalized, keyword) {
				if strings.Contains(keyword, " ") {
					score += scoreMultiWord
				} else {
					score += scoreSingleWord
				}
				continue
			}
			if strings.Contains(keyword, " ") {
				continue
			}
			for _, t := range tokens {
				if fuzzyTokenMatch(t, keyword) {
					score += scoreFuzzy
					break
				}
			}
		}
		if score > bestScore {
			bestScore = score
			best = entry.category
		}
	}

	if bestScore < minScore {
		return model.CategoryGeral
	}
	return best
}

// Normalize maps arbitrary stored category text onto the fixed set,
// falling back to Geral.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.CategoryGeral
	}
	n := normalizeText(trimmed)
	if n == normalizeText(model.CategoryChurrasco) {
		return model.CategoryChurrasco
	}
	for _, c := range model.CategoryOrder {
		if normalizeText(c) == n {
			return c
		}
	}
	return model.CategoryGeral
}

func normalizeText(s string) string {
	s = format.StripDiacritics(strings.ToLower(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// singularize strips crude Portuguese plural suffixes.
func singularize(token string) string {
	if strings.HasSuffix(token, "es") && len(token) > 4 {
		return token[:len(token)-2]
	}
	if strings.HasSuffix(token, "s") && len(token) > 3 {
		return token[:len(token)-1]
	}
	return token
}

func fuzzyTokenMatch(token, keyword string) bool {
	t := singularize(token)
	k := singularize(keyword)
	if t == "" || k == "" {
		return false
	}
	if t == k {
		return true
	}
	if len(t) >= 4 && len(k) >= 4 {
		if strings.HasPrefix(t, k) || strings.HasPrefix(k, t) {
			return true
		}
	}
	// Catch typos ("iogurt" for "iogurte") without letting short words
	// collide with each other.
	if len(t) >= 5 && len(k) >= 5 && levenshtein.ComputeDistance(t, k) <= 1 {
		return true
	}
	return false
}
