// Package api exposes the menu service over HTTP: the public menu endpoints
// consumed by the resolution core, the search endpoint, health, metrics, and
// the admin CRUD that feeds the item pool.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"cardapio-service/internal/common/errors"
	"cardapio-service/internal/common/logger"
	"cardapio-service/internal/common/validation"
	"cardapio-service/internal/menu"
	"cardapio-service/internal/menu/daily"
	"cardapio-service/internal/menu/normalizer"
	"cardapio-service/internal/repository"
)

// Searcher is the slice of the search index the handlers need.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]menu.Item, error)
	Mirror(ctx context.Context, item *menu.Item, deletedID string)
}

// WeeklyResolver resolves upstream weekly menus and governs navigation.
type WeeklyResolver interface {
	Resolve(ctx context.Context, weekOffset int) menu.WeeklyMenu
	CanNavigateWeek(currentOffset, direction int) bool
}

// Pinger reports dependency liveness for the health endpoint.
type Pinger func(ctx context.Context) error

// Recorder receives resolution telemetry. May be nil.
type Recorder interface {
	RecordResolution(ctx context.Context, kind, source string)
	RecordResolutionDuration(ctx context.Context, duration time.Duration, kind string)
}

// Handler carries the dependencies of every route.
type Handler struct {
	store   repository.MenuStore
	search  Searcher
	daily   *daily.Resolver
	weekly  WeeklyResolver
	logger  logger.Logger
	pingers map[string]Pinger
	obs     Recorder
	now     func() time.Time
}

// NewHandler wires the HTTP handlers.
func NewHandler(store repository.MenuStore, search Searcher, dailyResolver *daily.Resolver, weeklyResolver WeeklyResolver, log logger.Logger, pingers map[string]Pinger, obs Recorder) *Handler {
	return &Handler{
		store:   store,
		search:  search,
		daily:   dailyResolver,
		weekly:  weeklyResolver,
		logger:  log,
		pingers: pingers,
		obs:     obs,
		now:     time.Now,
	}
}

func (h *Handler) record(ctx context.Context, start time.Time, kind string) {
	if h.obs == nil {
		return
	}
	h.obs.RecordResolution(ctx, kind, "api")
	h.obs.RecordResolutionDuration(ctx, time.Since(start), kind)
}

// ==========================
// Public Menu Endpoints
// ==========================

// GetMenu returns the flat item pool.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

// GetDailyMenu resolves the menu for a date (default today) from the pool.
func (h *Handler) GetDailyMenu(w http.ResponseWriter, r *http.Request) {
	targetDate := h.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.writeError(w, errors.NewInvalidPayloadError("date must be YYYY-MM-DD"))
			return
		}
		targetDate = parsed
	}

	pool, err := h.store.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	start := time.Now()
	items := h.daily.Resolve(pool, targetDate)
	h.record(r.Context(), start, "daily")

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":  targetDate.Format("2006-01-02"),
		"items": items,
	})
}

// GetWeeklyMenu returns the pool grouped by weekday for a week offset.
// Future weeks the pool has not been authored for come back as an empty
// object, never fabricated data.
func (h *Handler) GetWeeklyMenu(w http.ResponseWriter, r *http.Request) {
	weekOffset := 0
	if raw := r.URL.Query().Get("weekOffset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, errors.NewInvalidPayloadError("weekOffset must be an integer"))
			return
		}
		weekOffset = parsed
	}

	if weekOffset > 0 {
		h.writeJSON(w, http.StatusOK, map[string]interface{}{})
		return
	}

	pool, err := h.store.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	weekly := menu.GroupByDay(pool)
	if weekly.IsEmpty() {
		h.writeJSON(w, http.StatusOK, map[string]interface{}{})
		return
	}
	h.writeJSON(w, http.StatusOK, weekly)
}

// GetResolvedWeeklyMenu resolves a weekly menu from the configured upstream
// and reports whether the adjacent offsets remain navigable.
func (h *Handler) GetResolvedWeeklyMenu(w http.ResponseWriter, r *http.Request) {
	weekOffset := 0
	if raw := r.URL.Query().Get("weekOffset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, errors.NewInvalidPayloadError("weekOffset must be an integer"))
			return
		}
		weekOffset = parsed
	}

	start := time.Now()
	resolved := h.weekly.Resolve(r.Context(), weekOffset)
	h.record(r.Context(), start, "weekly")

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"weekOffset":   weekOffset,
		"menu":         resolved,
		"canGoBack":    h.weekly.CanNavigateWeek(weekOffset, -1),
		"canGoForward": h.weekly.CanNavigateWeek(weekOffset, +1),
	})
}

// SearchMenu runs a full-text query over the pool.
func (h *Handler) SearchMenu(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, errors.NewInvalidPayloadError("q query parameter is required"))
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	items, err := h.search.Search(r.Context(), query, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

// Health pings every dependency and reports per-dependency status. The
// endpoint answers 200 only when everything is reachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := map[string]string{}
	for name, ping := range h.pingers {
		if err := ping(ctx); err != nil {
			deps[name] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			deps[name] = "ok"
		}
	}

	h.writeJSON(w, status, map[string]interface{}{
		"status":       statusWord(status),
		"service":      "cardapio-service",
		"timestamp":    h.now().UTC().Format(time.RFC3339),
		"dependencies": deps,
	})
}

func statusWord(status int) string {
	if status == http.StatusOK {
		return "healthy"
	}
	return "degraded"
}

// ==========================
// Admin CRUD Endpoints
// ==========================

// CreateItem validates a raw record in either naming scheme, normalizes it
// and persists the canonical item.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	record, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}

	item := normalizer.Normalize(record)
	created, err := h.store.Create(r.Context(), item)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.search.Mirror(r.Context(), created, "")
	h.writeJSON(w, http.StatusCreated, created)
}

// GetItem returns a single item by ID.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

// UpdateItem replaces an item in full.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	record, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}

	item := normalizer.Normalize(record)
	item.ID = mux.Vars(r)["id"]

	updated, err := h.store.Update(r.Context(), item)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.search.Mirror(r.Context(), updated, "")
	h.writeJSON(w, http.StatusOK, updated)
}

// DeleteItem removes an item by ID.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	h.search.Mirror(r.Context(), nil, id)
	w.WriteHeader(http.StatusNoContent)
}

// decodeRecord parses and schema-validates a raw menu record body.
func (h *Handler) decodeRecord(w http.ResponseWriter, r *http.Request) (normalizer.RawRecord, bool) {
	var record map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		h.writeError(w, errors.NewInvalidPayloadError("body must be a JSON object"))
		return nil, false
	}

	violations, err := validation.ValidateMenuRecord(record)
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	if len(violations) > 0 {
		h.writeError(w, errors.NewInvalidPayloadError(validation.FormatViolations(violations)))
		return nil, false
	}
	return record, true
}

// ==========================
// Response Helpers
// ==========================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	apiErr, ok := errors.AsAPIError(err)
	if !ok {
		apiErr = errors.NewDatabaseError(err)
	}

	status := statusFor(apiErr)
	if status >= 500 {
		h.logger.Error("Request failed", map[string]interface{}{
			"code":  string(apiErr.Code),
			"error": apiErr.Error(),
		})
	}
	h.writeJSON(w, status, map[string]interface{}{"error": apiErr})
}

func statusFor(apiErr *errors.APIError) int {
	switch apiErr.Code {
	case errors.ErrCodeInvalidPayload:
		return http.StatusBadRequest
	case errors.ErrCodeItemNotFound:
		return http.StatusNotFound
	case errors.ErrCodeMenuFetchFailed, errors.ErrCodeMenuFetchTimeout:
		return http.StatusBadGateway
	case errors.ErrCodeHealthUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
