// internal/menu/normalizer/normalizer.go
package normalizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cardapio-service/internal/menu"
)

// RawRecord is a JSON-decoded menu record in either known naming scheme.
type RawRecord map[string]interface{}

// Normalize maps a raw record into the canonical item shape. It is pure and
// total: missing or malformed fields get safe defaults, never an error.
func Normalize(raw RawRecord) menu.Item {
	item := menu.Item{
		ID:           getString(raw, "id"),
		Name:         getString(raw, "name"),
		Description:  getString(raw, "description"),
		Category:     menu.Category(getString(raw, "category")),
		Price:        getFloat(raw, "price"),
		IsAvailable:  getBool(raw, "isAvailable", true),
		IsVegetarian: getBool(raw, "isVegetarian", false),
		IsVegan:      getBool(raw, "isVegan", false),
		IsGlutenFree: getBool(raw, "isGlutenFree", false),
		SpecialOffer: getBool(raw, "specialOffer", false),
		Ingredients:  getStringList(raw, "ingredients"),
		Tags:         getStringList(raw, "tags"),
		DayOfWeek:    menu.Weekday(getString(raw, "dayOfWeek")),
	}

	if minutes := getFloat(raw, "preparationTime"); minutes != nil {
		m := int(*minutes)
		item.PreparationTime = &m
	}
	item.PreparationDate = getDate(raw, "preparationDate")

	item.FormattedPrice = formatPrice(item.Price)
	item.FormattedPreparationTime = formatPrepTime(item.PreparationTime)
	item.DietaryInfo = dietaryInfo(item)

	return item
}

// NormalizeAll normalizes a batch, preserving input order.
func NormalizeAll(raws []RawRecord) []menu.Item {
	items := make([]menu.Item, 0, len(raws))
	for _, raw := range raws {
		items = append(items, Normalize(raw))
	}
	return items
}

// lookup walks the declared mapping for a canonical field and returns the
// first value present in the raw record.
func lookup(raw RawRecord, canonical string) (interface{}, bool) {
	for _, name := range fieldMapping[canonical] {
		if v, ok := raw[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func getString(raw RawRecord, canonical string) string {
	v, ok := lookup(raw, canonical)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func getFloat(raw RawRecord, canonical string) *float64 {
	v, ok := lookup(raw, canonical)
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return &f
		}
		return nil
	default:
		return nil
	}
}

func getBool(raw RawRecord, canonical string, fallback bool) bool {
	v, ok := lookup(raw, canonical)
	if !ok {
		return fallback
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

func getStringList(raw RawRecord, canonical string) []string {
	v, ok := lookup(raw, canonical)
	if !ok {
		return []string{}
	}
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, entry := range list {
			if s, ok := entry.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func getDate(raw RawRecord, canonical string) *time.Time {
	v, ok := lookup(raw, canonical)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// formatPrice renders a Brazilian currency string, or the sentinel when the
// price is absent.
func formatPrice(price *float64) string {
	if price == nil {
		return PriceUnknown
	}
	return "R$ " + strings.Replace(fmt.Sprintf("%.2f", *price), ".", ",", 1)
}

func formatPrepTime(minutes *int) string {
	if minutes == nil {
		return PrepTimeVaries
	}
	return fmt.Sprintf("%d min", *minutes)
}

// dietaryInfo builds the display list: vegan takes precedence over
// vegetarian, gluten-free is appended independently.
func dietaryInfo(item menu.Item) []string {
	info := []string{}
	if item.IsVegan {
		info = append(info, LabelVegan)
	} else if item.IsVegetarian {
		info = append(info, LabelVegetarian)
	}
	if item.IsGlutenFree {
		info = append(info, LabelGlutenFree)
	}
	return info
}
