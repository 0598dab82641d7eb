// internal/menu/weekly/resolver_test.go
package weekly

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardapio-service/internal/common/errors"
	"cardapio-service/internal/common/logger"
	"cardapio-service/internal/menu"
	"cardapio-service/internal/menu/normalizer"
)

// ==========================
// Test Helper Functions
// ==========================

type stubFetcher struct {
	response  map[string][]normalizer.RawRecord
	err       error
	lastPath  string
	lastQuery url.Values
}

func (s *stubFetcher) Get(_ context.Context, path string, params url.Values, out interface{}) error {
	s.lastPath = path
	s.lastQuery = params
	if s.err != nil {
		return s.err
	}
	*(out.(*map[string][]normalizer.RawRecord)) = s.response
	return nil
}

func newResolverAt(t *testing.T, fetcher Fetcher, today time.Time) *Resolver {
	r := New(fetcher, logger.NewTestLogger(t))
	r.now = func() time.Time { return today }
	return r
}

// ==========================
// Resolve Tests
// ==========================

func TestResolve_GroupedResponseIsNormalized(t *testing.T) {
	fetcher := &stubFetcher{
		response: map[string][]normalizer.RawRecord{
			"segunda": {{"nome": "Moqueca", "preco": 38.0}},
			"sexta":   {{"name": "Peixada", "price": 35.0}},
		},
	}
	r := New(fetcher, logger.NewTestLogger(t))

	weekly := r.Resolve(context.Background(), 0)

	assert.Equal(t, "/menu/weekly", fetcher.lastPath)
	assert.Equal(t, "0", fetcher.lastQuery.Get("weekOffset"))
	require.Len(t, weekly[menu.Segunda], 1)
	assert.Equal(t, "Moqueca", weekly[menu.Segunda][0].Name)
	require.Len(t, weekly[menu.Sexta], 1)
	assert.Equal(t, "Peixada", weekly[menu.Sexta][0].Name)
	assert.Empty(t, weekly[menu.Quarta], "days missing from the response are empty, not absent")
}

func TestResolve_UnknownWeekdayKeysAreDropped(t *testing.T) {
	fetcher := &stubFetcher{
		response: map[string][]normalizer.RawRecord{
			"feriado": {{"nome": "Item Fantasma"}},
			"quarta":  {{"nome": "Item Real"}},
		},
	}
	r := New(fetcher, logger.NewTestLogger(t))

	weekly := r.Resolve(context.Background(), 0)

	require.Len(t, weekly, len(menu.WeekDays))
	require.Len(t, weekly[menu.Quarta], 1)
	assert.Equal(t, "Item Real", weekly[menu.Quarta][0].Name)
	for _, day := range menu.WeekDays {
		if day == menu.Quarta {
			continue
		}
		assert.Empty(t, weekly[day], "day %s", day)
	}
}

func TestResolve_EmptyResponsePolicy(t *testing.T) {
	tests := []struct {
		name         string
		weekOffset   int
		wantFallback bool
	}{
		{name: "future week stays empty", weekOffset: 1, wantFallback: false},
		{name: "current week degrades to fallback", weekOffset: 0, wantFallback: true},
		{name: "past week degrades to fallback", weekOffset: -2, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &stubFetcher{response: map[string][]normalizer.RawRecord{}}
			r := New(fetcher, logger.NewTestLogger(t))

			weekly := r.Resolve(context.Background(), tt.weekOffset)

			require.Len(t, weekly, len(menu.WeekDays))
			if tt.wantFallback {
				assert.False(t, weekly.IsEmpty())
				require.Len(t, weekly[menu.Domingo], 1)
				assert.Equal(t, "Especial do Final de Semana", weekly[menu.Domingo][0].Name)
				assert.Equal(t, "Prato do Dia", weekly[menu.Quinta][0].Name)
			} else {
				assert.True(t, weekly.IsEmpty())
			}
		})
	}
}

func TestResolve_FetchFailureFollowsEmptyPolicy(t *testing.T) {
	fetchErr := errors.NewMenuFetchFailedError(503, nil, nil)

	future := New(&stubFetcher{err: fetchErr}, logger.NewTestLogger(t))
	assert.True(t, future.Resolve(context.Background(), 2).IsEmpty())

	current := New(&stubFetcher{err: fetchErr}, logger.NewTestLogger(t))
	assert.False(t, current.Resolve(context.Background(), 0).IsEmpty())
}

// ==========================
// Week Navigation Tests
// ==========================

func TestCanNavigateWeek_OffsetBounds(t *testing.T) {
	today := time.Date(2026, time.August, 12, 10, 0, 0, 0, time.UTC)
	r := newResolverAt(t, &stubFetcher{}, today)

	assert.False(t, r.CanNavigateWeek(MaxWeekOffset, +1))
	assert.False(t, r.CanNavigateWeek(MinWeekOffset, -1))
}

func TestCanNavigateWeek_CurrentMonthAlwaysValid(t *testing.T) {
	// Wednesday, mid-month: the previous week sits entirely in August.
	today := time.Date(2026, time.August, 12, 10, 0, 0, 0, time.UTC)
	r := newResolverAt(t, &stubFetcher{}, today)

	assert.True(t, r.CanNavigateWeek(0, -1))
	assert.True(t, r.CanNavigateWeek(-1, +1))
}

func TestCanNavigateWeek_FutureHorizon(t *testing.T) {
	// Tuesday 2026-08-25; week starts Sunday 2026-08-23.
	today := time.Date(2026, time.August, 25, 10, 0, 0, 0, time.UTC)
	r := newResolverAt(t, &stubFetcher{}, today)

	// Next week ends 2026-09-05, 11 days ahead: inside the horizon.
	assert.True(t, r.CanNavigateWeek(0, +1))
	// The week after ends 2026-09-12, 18 days ahead: past the horizon.
	assert.False(t, r.CanNavigateWeek(1, +1))
}

func TestCanNavigateWeek_PreviousMonthTail(t *testing.T) {
	// Wednesday 2027-01-06; week starts Sunday 2027-01-03. The previous week
	// starts 2026-12-27, inside December's 5-day tail, crossing the year.
	today := time.Date(2027, time.January, 6, 10, 0, 0, 0, time.UTC)
	r := newResolverAt(t, &stubFetcher{}, today)

	assert.True(t, r.CanNavigateWeek(0, -1))
	// Two weeks back starts 2026-12-20, outside the tail.
	assert.False(t, r.CanNavigateWeek(-1, -1))
}

func TestCanNavigateWeek_DeepPreviousMonthIsInvalid(t *testing.T) {
	// Tuesday 2026-08-04; the previous week starts 2026-07-26, which falls
	// outside July's 5-day tail.
	today := time.Date(2026, time.August, 4, 10, 0, 0, 0, time.UTC)
	r := newResolverAt(t, &stubFetcher{}, today)

	assert.False(t, r.CanNavigateWeek(0, -1))
}

// ==========================
// Day Navigation Tests
// ==========================

func TestCanNavigateDay(t *testing.T) {
	r := New(&stubFetcher{}, logger.NewNoOpLogger())

	tests := []struct {
		name      string
		current   time.Time
		direction int
		expected  bool
	}{
		{
			name:      "mid-month forward",
			current:   time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC),
			direction: +1,
			expected:  true,
		},
		{
			name:      "mid-month backward",
			current:   time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC),
			direction: -1,
			expected:  true,
		},
		{
			name:      "month end forward",
			current:   time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
			direction: +1,
			expected:  false,
		},
		{
			name:      "month start backward",
			current:   time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
			direction: -1,
			expected:  false,
		},
		{
			name:      "year boundary backward",
			current:   time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC),
			direction: -1,
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.CanNavigateDay(tt.current, tt.direction))
		})
	}
}
