package api

import (
	"context"
	"net/http"

	"github.com/ignite/campaign-insights/internal/insights"
)

// AttendeeSegments serves the attendee-effectiveness segmentation.
// GET /api/insights/attendee-segments?type=&from=&to=
func (h *Handlers) AttendeeSegments(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaignsForRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, r, cacheKey("insights-attendee-segments", r), func(ctx context.Context) (interface{}, error) {
		return h.generator.AttendeeSegments(ctx, campaigns)
	})
}

// TargetAccounts serves the target vs. non-target account comparison.
// GET /api/insights/target-accounts?type=&from=&to=
func (h *Handlers) TargetAccounts(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaignsForRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, r, cacheKey("insights-target-accounts", r), func(ctx context.Context) (interface{}, error) {
		return h.generator.TargetAccounts(ctx, campaigns)
	})
}

// StrategicMatrix serves the attendee-range x account-type matrix.
// GET /api/insights/strategic-matrix?type=&from=&to=
func (h *Handlers) StrategicMatrix(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaignsForRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, r, cacheKey("insights-strategic-matrix", r), func(ctx context.Context) (interface{}, error) {
		return h.generator.Matrix(ctx, campaigns)
	})
}

// Reallocation serves the budget reallocation analysis derived from the
// campaign-type rollup.
// GET /api/insights/reallocation?from=&to=
func (h *Handlers) Reallocation(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaignsForRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, r, cacheKey("insights-reallocation", r), func(ctx context.Context) (interface{}, error) {
		report, err := h.engine.AggregateByType(ctx, campaigns)
		if err != nil {
			return nil, err
		}
		return insights.Reallocate(report.Types), nil
	})
}
