// Package format converts between raw persisted or user-typed values and
// canonical numeric forms, and renders numbers back as pt-BR display strings.
// Parsing here never fails for plain decimals (bad input normalizes to zero);
// quantity parsing is stricter because it feeds validation.
package format

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// ParseDecimal parses a number that may use either "." or "," as the decimal
// separator. Unparsable or non-finite input normalizes to 0: forms must never
// block on bad numeric input, validation is the caller's job.
func ParseDecimal(raw string) float64 {
	s := strings.Replace(strings.TrimSpace(raw), ",", ".", 1)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// ParseCurrencyBRL interprets free text from a masked currency input: every
// non-digit is stripped and the remaining digit string is read as integer
// cents. "12,34" and "R$ 12,34" both yield 12.34.
func ParseCurrencyBRL(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	cents, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return float64(cents) / 100
}

// FormatCurrencyBRL renders a monetary amount as "R$ 1.234,56".
func FormatCurrencyBRL(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return ptBR.Sprintf("R$ %v", number.Decimal(v,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatNumber renders a plain localized number ("2,5").
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return ptBR.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(3)))
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics removes combining marks ("maçã" becomes "maca").
func StripDiacritics(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}
