package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"wealthsync/src/connectors"
	"wealthsync/src/controller"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}

// statusFor maps domain and transport errors onto HTTP statuses.
func statusFor(err error) int {
	var validation *controller.ValidationError
	var apiErr *connectors.APIError
	var decodeErr *connectors.DecodeError

	switch {
	case errors.Is(err, connectors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &validation), errors.Is(err, controller.ErrNotConnected):
		return http.StatusBadRequest
	case errors.Is(err, controller.ErrMissingBackendID):
		return http.StatusConflict
	case errors.Is(err, controller.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr), errors.As(err, &decodeErr), errors.Is(err, connectors.ErrNoData):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	entry := logger.WithFields(map[string]interface{}{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	present, ok := decodeOptionalBody(w, r, v)
	if ok && !present {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid payload"})
		return false
	}
	return ok
}

// decodeOptionalBody decodes the body into v. An absent or empty body is
// not an error and reports present false; ok is false once a 400 was written.
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, v interface{}) (present, ok bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return false, true
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return false, true
		}
		logger.WithError(err).Warn("invalid payload")
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid payload"})
		return false, false
	}
	return true, true
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
