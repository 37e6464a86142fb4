package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	trackerdomain "weekly-tracker/internal/domain/tracker"
)

type errorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, errorBody{Detail: detail, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeStoreError maps tracker errors to a response and logs them. op is
// the log prefix, e.g. "weeks.create".
func (h *Handlers) writeStoreError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, trackerdomain.ErrInvalidInput):
		h.log.BusinessError(op+": invalid input", err, args...)
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
	case errors.Is(err, trackerdomain.ErrDuplicateWeek):
		h.log.BusinessError(op+": duplicate week", err, args...)
		writeError(w, http.StatusConflict, "duplicate_week", "Week with this start date already exists")
	case errors.Is(err, trackerdomain.ErrWeekNotFound):
		h.log.BusinessError(op+": week not found", err, args...)
		writeError(w, http.StatusNotFound, "week_not_found", "Week not found")
	case errors.Is(err, trackerdomain.ErrItemNotFound):
		h.log.BusinessError(op+": item not found", err, args...)
		writeError(w, http.StatusNotFound, "item_not_found", "Weekly item not found")
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
