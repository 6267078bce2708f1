package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ignite/campaign-insights/internal/attribution"
	"github.com/ignite/campaign-insights/internal/cache"
	"github.com/ignite/campaign-insights/internal/domain"
	"github.com/ignite/campaign-insights/internal/insights"
	"github.com/ignite/campaign-insights/internal/journey"
	"github.com/ignite/campaign-insights/internal/movement"
	"github.com/ignite/campaign-insights/internal/pkg/logger"
)

// Handlers contains all HTTP handlers. The handlers own campaign selection
// (type and period filters) and caching; the engine underneath is pure.
type Handlers struct {
	campaigns attribution.CampaignStore
	engine    *attribution.Engine
	detector  *movement.Detector
	journeys  *journey.Attributor
	generator *insights.Generator

	// cache may be nil, in which case every request recomputes.
	cache      cache.Cache
	windowDays int
}

// NewHandlers creates a Handlers instance. reportCache may be nil.
func NewHandlers(
	campaigns attribution.CampaignStore,
	engine *attribution.Engine,
	detector *movement.Detector,
	journeys *journey.Attributor,
	generator *insights.Generator,
	reportCache cache.Cache,
	windowDays int,
) *Handlers {
	if windowDays <= 0 {
		windowDays = movement.DefaultWindowDays
	}
	return &Handlers{
		campaigns:  campaigns,
		engine:     engine,
		detector:   detector,
		journeys:   journeys,
		generator:  generator,
		cache:      reportCache,
		windowDays: windowDays,
	}
}

// campaignsForRequest applies the caller-side filters from the query string:
// ?type= restricts to one campaign type, ?from= and ?to= (YYYY-MM-DD)
// restrict by campaign start date. The engine itself has no calendar logic.
func (h *Handlers) campaignsForRequest(r *http.Request) ([]domain.Campaign, error) {
	q := r.URL.Query()
	campaigns, err := h.campaigns.GetCampaigns(r.Context(), q.Get("type"))
	if err != nil {
		return nil, err
	}

	from, err := parseDate(q.Get("from"))
	if err != nil {
		return nil, errBadRequest("invalid from date, want YYYY-MM-DD")
	}
	to, err := parseDate(q.Get("to"))
	if err != nil {
		return nil, errBadRequest("invalid to date, want YYYY-MM-DD")
	}
	if from == nil && to == nil {
		return campaigns, nil
	}

	filtered := campaigns[:0]
	for _, c := range campaigns {
		if from != nil && c.StartDate.Before(*from) {
			continue
		}
		if to != nil && c.StartDate.After(*to) {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type badRequestError string

func (e badRequestError) Error() string { return string(e) }

func errBadRequest(msg string) error { return badRequestError(msg) }

// respond serves a report, going through the cache when one is configured.
// The cache key must encode every request parameter that affects the result.
func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, key string, compute func(ctx context.Context) (interface{}, error)) {
	if h.cache != nil {
		if entry, err := h.cache.Get(r.Context(), key); err == nil && entry != nil {
			w.Header().Set("X-Computed-At", entry.ComputedAt.Format(time.RFC3339))
			writeRawJSON(w, http.StatusOK, entry.Payload)
			return
		}
	}

	result, err := compute(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if h.cache != nil {
		if err := h.cache.Set(r.Context(), key, payload); err != nil {
			logger.Warn("report cache write failed", "key", key, "error", err)
		}
	}
	writeRawJSON(w, http.StatusOK, payload)
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	var badReq badRequestError
	switch {
	case errors.As(err, &badReq):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": badReq.Error()})
	case errors.Is(err, attribution.ErrDataUnavailable):
		logger.Error("upstream data unavailable", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "data unavailable"})
	default:
		logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
