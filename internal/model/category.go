package model

// CategoryGeral is the fallback category for unclassified items.
const CategoryGeral = "Geral"

// CategoryChurrasco is the weight-priced sentinel category. It is chosen
// explicitly by the user, never by classification, and is rendered as a
// separate trailing group.
const CategoryChurrasco = "Churrasco"

// CategoryOrder is the fixed display order for regular categories.
var CategoryOrder = []string{
	"Limpeza e Higiene",
	"Padaria e Laticínios",
	"Hortifruti",
	"Bebidas",
	"Mercearia",
	"Proteínas e Ovos",
	CategoryGeral,
}

// BehaviorOf resolves the pricing behavior for a category name.
func BehaviorOf(category string) CategoryBehavior {
	if category == CategoryChurrasco {
		return WeightPriced
	}
	return UnitPriced
}

// KnownCategory reports whether name is a selectable category.
func KnownCategory(name string) bool {
	if name == CategoryChurrasco {
		return true
	}
	for _, c := range CategoryOrder {
		if c == name {
			return true
		}
	}
	return false
}
