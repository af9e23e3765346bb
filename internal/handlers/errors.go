package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/logger"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/middlewares"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

// retryAfterSeconds is sent with 409 responses caused by concurrent writes.
const retryAfterSeconds = "1"

// ErrorResponse is the body of every failed request
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Invalid request body
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeError maps a service error to its HTTP status.
// Unclassified errors are logged and reported as a generic internal failure.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		w.Header().Set("Retry-After", retryAfterSeconds)
		status = http.StatusConflict
	case errors.Is(err, models.ErrInvalidState), errors.Is(err, models.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, models.ErrInsufficientFunds):
		status = http.StatusUnprocessableEntity
	default:
		logger.Log.Errorw("unhandled error", "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeErrorMessage(w, status, err.Error())
}

// callerFromRequest returns the authenticated caller or writes 401.
func callerFromRequest(w http.ResponseWriter, r *http.Request) (models.Caller, bool) {
	caller, ok := middlewares.CallerFromContext(r.Context())
	if !ok {
		writeErrorMessage(w, http.StatusUnauthorized, "Unauthorized")
	}
	return caller, ok
}

// pathUUID parses a UUID URL parameter or writes 400.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads limit and offset query parameters. Missing values are zero.
func pagination(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	q := r.URL.Query()
	for name, dst := range map[string]*int{"limit": &limit, "offset": &offset} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "Invalid "+name)
			return 0, 0, false
		}
		*dst = v
	}
	return limit, offset, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Log.Errorw("failed to decode request body", "error", err)
		if errors.Is(err, models.ErrValidation) {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
		} else {
			writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		}
		return false
	}
	return true
}
