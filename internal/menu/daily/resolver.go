// Package daily resolves which menu items are offered on a given calendar
// date. Resolution is deterministic: the same pool and date always produce
// the same selection.
package daily

import (
	"time"

	"cardapio-service/internal/common/logger"
	"cardapio-service/internal/common/metrics"
	"cardapio-service/internal/menu"
	"cardapio-service/internal/menu/fallback"
)

// rotationWindow is the rotation period in days. Using the longest month
// keeps the mapping stable across months of different lengths.
const rotationWindow = 31

// Resolver selects the daily menu from a pool of normalized items.
type Resolver struct {
	logger logger.Logger
}

// New creates a daily resolver.
func New(log logger.Logger) *Resolver {
	return &Resolver{logger: log}
}

// Resolve picks today's items from the pool.
//
// Items whose preparation date matches today's day of month win outright.
// Otherwise the pool rotates: each date maps to a contiguous slice of the
// pool so every item cycles through within the rotation window. An empty
// pool falls back to the synthetic daily menu.
func (r *Resolver) Resolve(pool []menu.Item, today time.Time) []menu.Item {
	available := availableOnly(pool)

	if matched := matchByDate(available, today); len(matched) > 0 {
		metrics.MenuResolutions.WithLabelValues("daily", "date-match").Inc()
		return matched
	}

	if len(available) == 0 {
		metrics.MenuResolutions.WithLabelValues("daily", "fallback").Inc()
		metrics.MenuFallbacksServed.WithLabelValues("daily").Inc()
		r.logger.Warn("No available items for daily menu, serving fallback", map[string]interface{}{
			"date": today.Format("2006-01-02"),
		})
		return fallback.Daily(today)
	}

	metrics.MenuResolutions.WithLabelValues("daily", "rotation").Inc()
	return rotate(available, today.Day())
}

// matchByDate returns the items explicitly prepared for today's day of month.
func matchByDate(pool []menu.Item, today time.Time) []menu.Item {
	var matched []menu.Item
	for _, item := range pool {
		if item.PreparationDate != nil && item.PreparationDate.Day() == today.Day() {
			matched = append(matched, item)
		}
	}
	return matched
}

// rotate maps a day of month to a slice of the pool. itemsPerDay is the
// ceiling of len(pool)/rotationWindow so the whole pool is covered; the
// selection wraps around the pool end.
func rotate(pool []menu.Item, day int) []menu.Item {
	n := len(pool)
	itemsPerDay := (n + rotationWindow - 1) / rotationWindow
	if itemsPerDay < 1 {
		itemsPerDay = 1
	}

	start := ((day - 1) * itemsPerDay) % n
	selected := make([]menu.Item, 0, itemsPerDay)
	for i := 0; i < itemsPerDay; i++ {
		selected = append(selected, pool[(start+i)%n])
	}
	return selected
}

func availableOnly(pool []menu.Item) []menu.Item {
	available := make([]menu.Item, 0, len(pool))
	for _, item := range pool {
		if item.IsAvailable {
			available = append(available, item)
		}
	}
	return available
}
