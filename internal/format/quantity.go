package format

import (
	"regexp"
	"strings"

	"listinha/internal/model"
)

// Quantity is a parsed quantity entry. For weight-priced items Value is
// normalized to kilograms and Unit records the suffix the user typed.
type Quantity struct {
	Value float64
	Unit  string
}

var (
	weightQuantityRe = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)(kg|g)?$`)
	unitQuantityRe   = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)$`)
)

// ParseQuantity parses free-text quantity entry. Weight-priced categories
// accept an optional kg/g suffix (grams are normalized to kilograms); all
// other categories accept a bare non-negative number with either decimal
// separator. Returns ok=false on anything that does not match, and the
// caller must surface that as a validation error.
func ParseQuantity(raw string, behavior model.CategoryBehavior) (Quantity, bool) {
	txt := strings.ToLower(strings.TrimSpace(raw))
	txt = strings.Join(strings.Fields(txt), "")
	if txt == "" {
		return Quantity{}, false
	}

	re := unitQuantityRe
	if behavior == model.WeightPriced {
		re = weightQuantityRe
	}
	m := re.FindStringSubmatch(txt)
	if m == nil {
		return Quantity{}, false
	}

	value := ParseDecimal(m[1])
	q := Quantity{Value: value}
	if behavior == model.WeightPriced && len(m) > 2 {
		q.Unit = m[2]
		if q.Unit == "g" {
			q.Value = value / 1000
		}
	}
	return q, true
}

// QuantityHint is the per-category validation message shown when parsing fails.
func QuantityHint(behavior model.CategoryBehavior) string {
	if behavior == model.WeightPriced {
		return "Quantidade inválida. Use ex: 1kg ou 500g."
	}
	return "Quantidade inválida. Use apenas números (ex: 2 ou 2,5)."
}

// FormatQuantity renders a quantity for display. Weight-priced values below
// 1kg render in grams ("500g"), the rest in kilograms ("2kg"); unit-priced
// values render as a plain localized number. Zero or invalid values render
// as "0g" or "0" respectively.
func FormatQuantity(valueInKg float64, behavior model.CategoryBehavior) string {
	if behavior != model.WeightPriced {
		if !(valueInKg > 0) {
			return "0"
		}
		return FormatNumber(valueInKg)
	}
	if !(valueInKg > 0) {
		return "0g"
	}
	if valueInKg < 1 {
		return FormatNumber(valueInKg*1000) + "g"
	}
	return FormatNumber(valueInKg) + "kg"
}
