// Package weekly resolves the 7-day grouped menu for a week offset relative
// to the current week, and governs which offsets are navigable.
package weekly

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"cardapio-service/internal/common/logger"
	"cardapio-service/internal/common/metrics"
	"cardapio-service/internal/menu"
	"cardapio-service/internal/menu/fallback"
	"cardapio-service/internal/menu/normalizer"
)

// Navigation bounds, in weeks relative to the current week.
const (
	MinWeekOffset = -4
	MaxWeekOffset = 2
)

const (
	// futureHorizonDays bounds how far ahead a week boundary may fall.
	futureHorizonDays = 14
	// previousMonthTailDays is the only window of the previous month that
	// stays navigable.
	previousMonthTailDays = 5
)

// Fetcher is the slice of the menu client the resolver needs.
type Fetcher interface {
	Get(ctx context.Context, path string, params url.Values, out interface{}) error
}

// Resolver fetches and assembles weekly menus.
type Resolver struct {
	fetcher Fetcher
	logger  logger.Logger
	now     func() time.Time
}

// New creates a weekly resolver backed by the menu API client.
func New(fetcher Fetcher, log logger.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		logger:  log,
		now:     time.Now,
	}
}

// Resolve fetches the grouped menu for the given week offset.
//
// When the upstream has no data (empty object or request failure), the
// outcome depends on the offset: future weeks return an empty menu because
// the system cannot have authored them yet, while the current and past weeks
// degrade to the static fallback so something is always rendered.
func (r *Resolver) Resolve(ctx context.Context, weekOffset int) menu.WeeklyMenu {
	params := url.Values{}
	params.Set("weekOffset", strconv.Itoa(weekOffset))

	var raw map[string][]normalizer.RawRecord
	err := r.fetcher.Get(ctx, "/menu/weekly", params, &raw)
	if err != nil {
		r.logger.Warn("Weekly menu fetch failed", map[string]interface{}{
			"weekOffset": weekOffset,
			"error":      err.Error(),
		})
	}

	weekly := assemble(raw)
	if err == nil && !weekly.IsEmpty() {
		metrics.MenuResolutions.WithLabelValues("weekly", "api").Inc()
		return weekly
	}

	if weekOffset > 0 {
		metrics.MenuResolutions.WithLabelValues("weekly", "empty").Inc()
		r.logger.Info("No data for future week, returning empty menu", map[string]interface{}{
			"weekOffset": weekOffset,
		})
		return emptyWeekly()
	}

	metrics.MenuResolutions.WithLabelValues("weekly", "fallback").Inc()
	metrics.MenuFallbacksServed.WithLabelValues("weekly").Inc()
	return fallback.Weekly()
}

// CanNavigateWeek reports whether moving direction weeks (+1 or -1) from
// currentOffset is permitted. The target offset must stay within the bounded
// window, and both boundary dates of the target week must be individually
// valid, so the UI never requests a week the system has no real data for.
func (r *Resolver) CanNavigateWeek(currentOffset, direction int) bool {
	target := currentOffset + direction
	if target < MinWeekOffset || target > MaxWeekOffset {
		return false
	}

	today := r.now()
	start := weekStart(today).AddDate(0, 0, target*7)
	end := start.AddDate(0, 0, 6)
	return r.isValidDate(start, today) && r.isValidDate(end, today)
}

// CanNavigateDay reports whether stepping direction days (+1 or -1) from
// current stays within the same calendar month.
func (r *Resolver) CanNavigateDay(current time.Time, direction int) bool {
	next := current.AddDate(0, 0, direction)
	return next.Month() == current.Month() && next.Year() == current.Year()
}

// isValidDate decides whether a week boundary date may be navigated to.
// Current-month dates are always valid. Future dates are valid within the
// horizon. Previous-month dates are valid only in that month's last days.
func (r *Resolver) isValidDate(date, today time.Time) bool {
	if date.Month() == today.Month() && date.Year() == today.Year() {
		return true
	}

	d := truncateDay(date)
	t := truncateDay(today)

	if d.After(t) {
		return !d.After(t.AddDate(0, 0, futureHorizonDays))
	}

	// Previous-month tail: the date belongs to the month immediately before
	// today's, which crosses the year boundary in January.
	prev := t.AddDate(0, 0, -t.Day()) // last day of the previous month
	if d.Month() != prev.Month() || d.Year() != prev.Year() {
		return false
	}
	lastDay := prev.Day()
	return d.Day() > lastDay-previousMonthTailDays
}

// weekStart returns the domingo that opens the week containing t.
func weekStart(t time.Time) time.Time {
	return truncateDay(t).AddDate(0, 0, -int(t.Weekday()))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// assemble normalizes a raw grouped response into a WeeklyMenu. Unknown
// weekday keys are dropped; known days missing from the response come back
// as empty slices.
func assemble(raw map[string][]normalizer.RawRecord) menu.WeeklyMenu {
	weekly := emptyWeekly()
	for day, records := range raw {
		key := menu.Weekday(day)
		if _, ok := weekly[key]; !ok {
			continue
		}
		weekly[key] = normalizer.NormalizeAll(records)
	}
	return weekly
}

func emptyWeekly() menu.WeeklyMenu {
	weekly := make(menu.WeeklyMenu, len(menu.WeekDays))
	for _, day := range menu.WeekDays {
		weekly[day] = []menu.Item{}
	}
	return weekly
}
