// Package fallback produces deterministic placeholder menus when the menu
// API is unavailable or returns no data. Its output is the last line of
// defense against showing an empty menu, so it is never empty.
package fallback

import (
	"fmt"
	"strings"
	"time"

	"cardapio-service/internal/menu"
)

const (
	fallbackPrice    = 25.90
	fallbackPrepTime = 30

	weekendName     = "Especial do Final de Semana"
	weekdayName     = "Prato do Dia"
	updatingMessage = "Cardápio em atualização"
)

// Daily returns the single-item placeholder menu for a given date. The item
// name embeds the day of month so stale fallbacks are recognizable.
func Daily(today time.Time) []menu.Item {
	price := fallbackPrice
	prep := fallbackPrepTime
	day := today.Day()

	item := menu.Item{
		ID:              fmt.Sprintf("fallback-daily-%d", day),
		Name:            fmt.Sprintf("Especial do Dia %d", day),
		Description:     updatingMessage,
		Category:        menu.CategoryPratoPrincipal,
		Price:           &price,
		PreparationTime: &prep,
		IsAvailable:     true,
		Ingredients:     []string{},
		Tags:            []string{"especial-do-dia"},
	}
	decorate(&item)
	return []menu.Item{item}
}

// Weekly returns the static placeholder weekly menu: one item per weekday,
// weekend days flagged as specials.
func Weekly() menu.WeeklyMenu {
	weekly := make(menu.WeeklyMenu, len(menu.WeekDays))
	for _, day := range menu.WeekDays {
		weekly[day] = []menu.Item{placeholderFor(day)}
	}
	return weekly
}

func placeholderFor(day menu.Weekday) menu.Item {
	price := fallbackPrice
	prep := fallbackPrepTime

	item := menu.Item{
		ID:              fmt.Sprintf("fallback-%s", day),
		Name:            weekdayName,
		Description:     updatingMessage,
		Category:        menu.CategoryPratoPrincipal,
		Price:           &price,
		PreparationTime: &prep,
		IsAvailable:     true,
		DayOfWeek:       day,
		Ingredients:     []string{},
		Tags:            []string{},
	}
	if day == menu.Domingo || day == menu.Sabado {
		item.Name = weekendName
		item.Category = menu.CategoryEspecial
	}
	decorate(&item)
	return item
}

// decorate fills the derived display fields the normalizer would have set.
func decorate(item *menu.Item) {
	item.FormattedPrice = "R$ " + strings.Replace(fmt.Sprintf("%.2f", *item.Price), ".", ",", 1)
	item.FormattedPreparationTime = fmt.Sprintf("%d min", *item.PreparationTime)
	item.DietaryInfo = []string{}
}
