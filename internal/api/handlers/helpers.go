package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campushire/backend/internal/api/types"
	appErr "github.com/campushire/backend/pkg/errors"
)

// production controls masking of internal error details; set once at startup.
var production bool

// SetProduction toggles masking of internal error details in responses.
func SetProduction(v bool) { production = v }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, types.HTTPStatus(err), types.APIResponse{
		Success: false,
		Error:   types.FromAppError(err, production),
	})
}

func writeErrorStr(w http.ResponseWriter, status int, code appErr.Code, msg string) {
	writeJSON(w, status, types.APIResponse{
		Success: false,
		Error:   &types.APIError{Code: string(code), Message: msg},
	})
}

func decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeErrorStr(w, http.StatusBadRequest, appErr.CodeInvalid, "invalid json")
		return false
	}
	return true
}

// pathID parses the named uuid path parameter, failing fast before any
// storage round trip when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, appErr.CodeInvalid, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
