package format

import (
	"regexp"
	"strings"
)

var (
	bracketedRe = regexp.MustCompile(`\([^)]*\)`)
	unitWordRe  = regexp.MustCompile(`\b(kg|g|un|und|unidade|unidades)\b`)
)

// NormalizeNameKey canonicalizes an item name for duplicate detection:
// lowercase, bracketed annotations ("(kg)") removed, common unit words
// removed, diacritics stripped, whitespace collapsed. Two names with the
// same key are treated as the same product. This is the single
// canonicalization rule used everywhere "same item" semantics apply.
func NormalizeNameKey(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = bracketedRe.ReplaceAllString(s, "")
	s = unitWordRe.ReplaceAllString(s, "")
	s = StripDiacritics(s)
	return strings.Join(strings.Fields(s), " ")
}
