package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ignite/campaign-insights/internal/domain"
	"github.com/ignite/campaign-insights/internal/movement"
)

// cacheKey builds the report cache key from the endpoint name and the
// request parameters that affect the result.
func cacheKey(name string, r *http.Request) string {
	q := r.URL.Query()
	return fmt.Sprintf("%s|type=%s|from=%s|to=%s|window=%s",
		name, q.Get("type"), q.Get("from"), q.Get("to"), q.Get("window_days"))
}

// CampaignTypes serves the per-type attribution rollup.
// GET /api/campaign-types?type=&from=&to=
func (h *Handlers) CampaignTypes(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaignsForRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, r, cacheKey("campaign-types", r), func(ctx context.Context) (interface{}, error) {
		return h.engine.AggregateByType(ctx, campaigns)
	})
}

func (h *Handlers) windowDaysForRequest(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("window_days")
	if raw == "" {
		return h.windowDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return 0, errBadRequest("invalid window_days, want a positive integer")
	}
	return days, nil
}

// NewPipelineMovements serves the new-pipeline movement report.
// GET /api/movements/new-pipeline?window_days=&type=&from=&to=
func (h *Handlers) NewPipelineMovements(w http.ResponseWriter, r *http.Request) {
	h.serveMovements(w, r, h.detector.NewPipeline)
}

// StageAdvanceMovements serves the stage-advance movement report.
// GET /api/movements/stage-advance?window_days=&type=&from=&to=
func (h *Handlers) StageAdvanceMovements(w http.ResponseWriter, r *http.Request) {
	h.serveMovements(w, r, h.detector.StageAdvance)
}

func (h *Handlers) serveMovements(w http.ResponseWriter, r *http.Request,
	detect func(context.Context, []domain.Campaign, int) (*movement.Report, error)) {
	campaigns, err := h.campaignsForRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	days, err := h.windowDaysForRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	name := "movements-new-pipeline"
	if r.URL.Path == "/api/movements/stage-advance" {
		name = "movements-stage-advance"
	}
	h.respond(w, r, cacheKey(name, r), func(ctx context.Context) (interface{}, error) {
		return detect(ctx, campaigns, days)
	})
}
