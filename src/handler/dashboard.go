package handler

import (
	"context"
	"net/http"

	"wealthsync/src/model"
)

type dashboardSource interface {
	Summary(ctx context.Context) (model.DashboardSummary, error)
	History(ctx context.Context, r model.TimeRange) ([]model.NetWorthPoint, error)
}

func DashboardSummaryHandler(src dashboardSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := src.Summary(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// HistoryHandler serves ?range=, one of 24H 1W 1M 3M 6M 1Y MAX. The default
// is 1M.
func HistoryHandler(src dashboardSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tr := model.TimeRange1M
		if raw := r.URL.Query().Get("range"); raw != "" {
			parsed, err := model.ParseTimeRange(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
				return
			}
			tr = parsed
		}
		points, err := src.History(r.Context(), tr)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, points)
	}
}
