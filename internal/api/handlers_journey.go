package api

import (
	"context"
	"net/http"
)

// JourneySummary serves the customer-journey report: per-customer touch
// economics plus the touch-count efficiency curve.
// GET /api/journeys/summary?type=&from=&to=
func (h *Handlers) JourneySummary(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaignsForRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, r, cacheKey("journeys-summary", r), func(ctx context.Context) (interface{}, error) {
		return h.journeys.Analyze(ctx, campaigns)
	})
}
