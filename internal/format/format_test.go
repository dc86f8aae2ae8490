package format

import (
	"testing"

	"listinha/internal/model"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"2,5", 2.5},
		{"2.5", 2.5},
		{"10", 10},
		{" 3,75 ", 3.75},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
	}
	for _, tt := range tests {
		if got := ParseDecimal(tt.in); got != tt.want {
			t.Errorf("ParseDecimal(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseCurrencyBRL(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12,34", 12.34},
		{"R$ 12,34", 12.34},
		{"1.234,56", 1234.56},
		{"000", 0},
		{"", 0},
		{"R$", 0},
	}
	for _, tt := range tests {
		if got := ParseCurrencyBRL(tt.in); got != tt.want {
			t.Errorf("ParseCurrencyBRL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatCurrencyBRL(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0,00"},
		{12.34, "R$ 12,34"},
		{1234.5, "R$ 1.234,50"},
	}
	for _, tt := range tests {
		if got := FormatCurrencyBRL(tt.in); got != tt.want {
			t.Errorf("FormatCurrencyBRL(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseQuantityUnitPriced(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"2", 2, true},
		{"2,5", 2.5, true},
		{"2.5", 2.5, true},
		{" 3 ", 3, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1kg", 0, false},
		{"-1", 0, false},
	}
	for _, tt := range tests {
		q, ok := ParseQuantity(tt.in, model.UnitPriced)
		if ok != tt.valid {
			t.Errorf("ParseQuantity(%q) ok = %v, want %v", tt.in, ok, tt.valid)
			continue
		}
		if ok && q.Value != tt.want {
			t.Errorf("ParseQuantity(%q) = %v, want %v", tt.in, q.Value, tt.want)
		}
	}
}

func TestParseQuantityWeightPriced(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"1kg", 1, true},
		{"1 kg", 1, true},
		{"500g", 0.5, true},
		{"2,5kg", 2.5, true},
		{"3", 3, true},
		{"abc", 0, false},
		{"", 0, false},
		{"1lb", 0, false},
	}
	for _, tt := range tests {
		q, ok := ParseQuantity(tt.in, model.WeightPriced)
		if ok != tt.valid {
			t.Errorf("ParseQuantity(%q) ok = %v, want %v", tt.in, ok, tt.valid)
			continue
		}
		if ok && q.Value != tt.want {
			t.Errorf("ParseQuantity(%q) = %v, want %v", tt.in, q.Value, tt.want)
		}
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		value    float64
		behavior model.CategoryBehavior
		want     string
	}{
		{0.5, model.WeightPriced, "500g"},
		{2, model.WeightPriced, "2kg"},
		{2.5, model.WeightPriced, "2,5kg"},
		{0, model.WeightPriced, "0g"},
		{2, model.UnitPriced, "2"},
		{2.5, model.UnitPriced, "2,5"},
		{0, model.UnitPriced, "0"},
	}
	for _, tt := range tests {
		if got := FormatQuantity(tt.value, tt.behavior); got != tt.want {
			t.Errorf("FormatQuantity(%v, %v) = %q, want %q", tt.value, tt.behavior, got, tt.want)
		}
	}
}

func TestStripDiacritics(t *testing.T) {
	if got := StripDiacritics("maçã"); got != "maca" {
		t.Errorf("StripDiacritics(maçã) = %q, want maca", got)
	}
	if got := StripDiacritics("pão de queijo"); got != "pao de queijo" {
		t.Errorf("StripDiacritics(pão de queijo) = %q", got)
	}
}

func TestNormalizeNameKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Picanha (kg)", "picanha"},
		{"Picanha kg", "picanha"},
		{"  PICANHA  ", "picanha"},
		{"Pão de Queijo", "pao de queijo"},
		{"Leite 2 unidades", "leite 2"},
		{"Detergente", "detergente"},
	}
	for _, tt := range tests {
		if got := NormalizeNameKey(tt.in); got != tt.want {
			t.Errorf("NormalizeNameKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeNameKeyEquivalence(t *testing.T) {
	pairs := [][2]string{
		{"Picanha (kg)", "picanha"},
		{"Maçã", "maca"},
		{"Leite  Integral", "leite integral"},
	}
	for _, p := range pairs {
		if NormalizeNameKey(p[0]) != NormalizeNameKey(p[1]) {
			t.Errorf("expected %q and %q to share a name key", p[0], p[1])
		}
	}
}
