// Package menu holds the canonical menu domain model shared by the
// normalizer, the resolvers and the repository.
package menu

import "time"

// Category is the canonical menu item category.
type Category string

const (
	CategoryEntrada        Category = "entrada"
	CategoryPratoPrincipal Category = "prato-principal"
	CategorySobremesa      Category = "sobremesa"
	CategoryBebida         Category = "bebida"
	CategoryEspecial       Category = "especial"
)

// Weekday is the canonical weekday key used by weekly menus.
type Weekday string

const (
	Domingo Weekday = "domingo"
	Segunda Weekday = "segunda"
	Terca   Weekday = "terca"
	Quarta  Weekday = "quarta"
	Quinta  Weekday = "quinta"
	Sexta   Weekday = "sexta"
	Sabado  Weekday = "sabado"
)

// WeekDays lists the seven weekday keys in canonical order, domingo first to
// match time.Weekday numbering.
var WeekDays = []Weekday{Domingo, Segunda, Terca, Quarta, Quinta, Sexta, Sabado}

// WeekdayFor maps a calendar date to its canonical weekday key.
func WeekdayFor(t time.Time) Weekday {
	return WeekDays[int(t.Weekday())]
}

// Item is the canonical menu item. Every raw record, regardless of its
// source field names, normalizes to exactly one Item.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`

	Price           *float64 `json:"price,omitempty"`
	PreparationTime *int     `json:"preparationTime,omitempty"` // minutes

	IsAvailable  bool `json:"isAvailable"`
	IsVegetarian bool `json:"isVegetarian"`
	IsVegan      bool `json:"isVegan"`
	IsGlutenFree bool `json:"isGlutenFree"`
	SpecialOffer bool `json:"specialOffer"`

	Ingredients []string `json:"ingredients"`
	Tags        []string `json:"tags"`

	// PreparationDate ties the item to a specific day of month when present.
	PreparationDate *time.Time `json:"preparationDate,omitempty"`
	// DayOfWeek ties the item to a specific weekday when non-empty.
	DayOfWeek Weekday `json:"dayOfWeek,omitempty"`

	// Display fields derived by the normalizer.
	FormattedPrice           string   `json:"formattedPrice"`
	FormattedPreparationTime string   `json:"formattedPreparationTime"`
	DietaryInfo              []string `json:"dietaryInfo"`
}

// WeeklyMenu maps weekday keys to the items offered on that day. Iterate via
// WeekDays to keep domingo..sabado order.
type WeeklyMenu map[Weekday][]Item

// IsEmpty reports whether no weekday carries any item.
func (w WeeklyMenu) IsEmpty() bool {
	for _, items := range w {
		if len(items) > 0 {
			return false
		}
	}
	return true
}

// GroupByDay assembles a WeeklyMenu from a flat pool using each item's
// DayOfWeek tag. All seven keys are present; untagged items are skipped.
func GroupByDay(pool []Item) WeeklyMenu {
	weekly := make(WeeklyMenu, len(WeekDays))
	for _, day := range WeekDays {
		weekly[day] = []Item{}
	}
	for _, item := range pool {
		if item.DayOfWeek == "" {
			continue
		}
		if _, ok := weekly[item.DayOfWeek]; !ok {
			continue
		}
		weekly[item.DayOfWeek] = append(weekly[item.DayOfWeek], item)
	}
	return weekly
}
