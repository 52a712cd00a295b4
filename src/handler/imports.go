package handler

import (
	"context"
	"net/http"

	"wealthsync/src/connectors"
	"wealthsync/src/model"
	"wealthsync/src/reconciler"
)

type portfolioImporter interface {
	Import(ctx context.Context, creds connectors.Credentials) (*reconciler.Result, error)
}

type credentialStore interface {
	Connect(ctx context.Context, integration string, creds connectors.Credentials) error
	Credentials(ctx context.Context, integration string) (connectors.Credentials, error)
	MarkImported(ctx context.Context, integration string)
}

type importRunLister interface {
	Latest(ctx context.Context, limit int) ([]model.ImportRun, error)
}

type credentialsPayload struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
	// Remember stores the credentials for later imports.
	Remember bool `json:"remember"`
}

func (p credentialsPayload) creds() connectors.Credentials {
	return connectors.Credentials{APIKey: p.APIKey, APISecret: p.APISecret}
}

// ConnectTrading212Handler stores Trading 212 credentials sealed.
func ConnectTrading212Handler(conns credentialStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload credentialsPayload
		if !decodeBody(w, r, &payload) {
			return
		}
		if err := conns.Connect(r.Context(), model.IntegrationTrading212, payload.creds()); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ImportTrading212Handler runs an import with the credentials of the body,
// or with the stored ones when the body is empty.
func ImportTrading212Handler(imp portfolioImporter, conns credentialStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var creds connectors.Credentials
		var payload credentialsPayload
		present, ok := decodeOptionalBody(w, r, &payload)
		if !ok {
			return
		}
		if present {
			if payload.Remember {
				if err := conns.Connect(ctx, model.IntegrationTrading212, payload.creds()); err != nil {
					writeError(w, r, err)
					return
				}
			} else if payload.APIKey == "" || payload.APISecret == "" {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: "api_key and api_secret are required"})
				return
			}
			creds = payload.creds()
		} else {
			stored, err := conns.Credentials(ctx, model.IntegrationTrading212)
			if err != nil {
				writeError(w, r, err)
				return
			}
			creds = stored
		}

		result, err := imp.Import(ctx, creds)
		if err != nil {
			writeError(w, r, err)
			return
		}
		conns.MarkImported(ctx, model.IntegrationTrading212)
		writeJSON(w, http.StatusOK, result)
	}
}

func ImportRunsHandler(runs importRunLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := intQuery(w, r, "limit")
		if !ok {
			return
		}
		list, err := runs.Latest(r.Context(), limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
