package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"wealthsync/src/marketdata"
	"wealthsync/src/model"
)

type metadataResolver interface {
	Resolve(ctx context.Context, symbols []string) marketdata.Resolution
}

type marketSearcher interface {
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
	CurrentPrices(ctx context.Context, symbols []string) map[string]float64
}

type rateSource interface {
	Rate(ctx context.Context) marketdata.FXRate
}

type resolvePayload struct {
	Symbols []string `json:"symbols"`
}

// ResolveMetadataHandler resolves canonical symbols. The response is keyed
// by the requested symbol; unresolved ones carry source "unknown".
func ResolveMetadataHandler(resolver metadataResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload resolvePayload
		if !decodeBody(w, r, &payload) {
			return
		}
		symbols := cleanSymbols(payload.Symbols)
		if len(symbols) == 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "symbols are required"})
			return
		}

		resolution := resolver.Resolve(r.Context(), symbols)
		out := make(map[string]model.MarketMetadata, len(symbols))
		for _, s := range symbols {
			md, ok := resolution.Lookup(s)
			if !ok {
				md = model.UnknownMetadata(s)
			}
			out[s] = md
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func SearchHandler(market marketSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "q is required"})
			return
		}
		results, err := market.Search(r.Context(), q)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

// PricesHandler returns current prices of ?symbols=A,B. Symbols without a
// price are left out.
func PricesHandler(market marketSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbols := cleanSymbols(strings.Split(r.URL.Query().Get("symbols"), ","))
		if len(symbols) == 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "symbols are required"})
			return
		}
		writeJSON(w, http.StatusOK, market.CurrentPrices(r.Context(), symbols))
	}
}

func FXHandler(rates rateSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rates.Rate(r.Context()))
	}
}

func cleanSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func intQuery(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid " + name})
		return 0, false
	}
	return v, true
}
