package category

import (
	"testing"

	"listinha/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Leite integral", "Padaria e Laticínios"},
		{"Pão de queijo", "Padaria e Laticínios"},
		{"Papel higiênico", "Limpeza e Higiene"},
		{"Banana prata", "Hortifruti"},
		{"Refrigerante 2L", "Bebidas"},
		{"Arroz 5kg", "Mercearia"},
		{"Frango congelado", "Proteínas e Ovos"},
		{"xyz123", "Geral"},
		{"", "Geral"},
	}
	for _, tt := range tests {
		if got := Classify(tt.name); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestClassifyFuzzyTypos(t *testing.T) {
	// Single fuzzy token matches score below the minimum on their own, so a
	// lone typo still falls back to Geral; substring matches carry the score.
	if got := Classify("detergentes neutro"); got != "Limpeza e Higiene" {
		t.Errorf("Classify(detergentes neutro) = %q, want Limpeza e Higiene", got)
	}
}

func TestClassifyNeverPicksChurrasco(t *testing.T) {
	for _, name := range []string{"Picanha", "Churrasco", "Carvão"} {
		if got := Classify(name); got == model.CategoryChurrasco {
			t.Errorf("Classify(%q) picked the weight-priced category", name)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Churrasco", model.CategoryChurrasco},
		{"churrasco", model.CategoryChurrasco},
		{"Hortifruti", "Hortifruti"},
		{"padaria e laticinios", "Padaria e Laticínios"},
		{"Snacks", model.CategoryGeral},
		{"", model.CategoryGeral},
		{"  ", model.CategoryGeral},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSingularize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ovos", "ovo"},
		{"paes", "pae"},
		{"detergentes", "detergent"},
		{"gas", "gas"},
	}
	for _, tt := range tests {
		if got := singularize(tt.in); got != tt.want {
			t.Errorf("singularize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
