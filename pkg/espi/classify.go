package espi

import "strings"

// Category of an ESPI announcement, derived from its title
type Category string

// announcement categories
const (
	CategoryResults Category = "📊 Wyniki finansowe"
	CategoryShares  Category = "📈 Operacja na akcjach"
	CategoryGeneral Category = "ℹ️ Informacja"
)

var sharesMarkers = []string{
	"zawiadomienia w trybie art. 19 ust. 1 rozporządzenia mar",
	"zbycie akcji",
}

// Classify returns category for announcement title
func Classify(title string) Category {
	t := strings.ToLower(title)
	if strings.Contains(t, "raport okresowy") {
		return CategoryResults
	}
	for _, m := range sharesMarkers {
		if strings.Contains(t, m) {
			return CategoryShares
		}
	}
	return CategoryGeneral
}
