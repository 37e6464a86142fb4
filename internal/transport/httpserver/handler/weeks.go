package handler

import (
	"net/http"

	"weekly-tracker/internal/dates"
)

type createWeekRequest struct {
	WeekStartDate string `json:"week_start_date"`
}

func (h *Handlers) CreateWeek(w http.ResponseWriter, r *http.Request) {
	var req createWeekRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	date, err := dates.Parse(req.WeekStartDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "week_start_date: "+err.Error())
		return
	}

	week, err := h.Tracker.CreateWeek(r.Context(), date)
	if err != nil {
		h.writeStoreError(w, "weeks.create", err, "week_start_date", date.String())
		return
	}

	writeJSON(w, http.StatusCreated, week)
}

func (h *Handlers) ListWeeks(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	weeks, err := h.Tracker.ListWeeks(r.Context(), date)
	if err != nil {
		h.writeStoreError(w, "weeks.list", err)
		return
	}

	writeJSON(w, http.StatusOK, weeks)
}

func (h *Handlers) GetWeek(w http.ResponseWriter, r *http.Request) {
	weekID, err := parseIDParam(r, "week_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	week, found, err := h.Tracker.GetWeek(r.Context(), weekID)
	if err != nil {
		h.writeStoreError(w, "weeks.get", err, "week_id", weekID)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "week_not_found", "Week not found")
		return
	}

	writeJSON(w, http.StatusOK, week)
}

func (h *Handlers) GetWeekGrid(w http.ResponseWriter, r *http.Request) {
	weekID, err := parseIDParam(r, "week_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	grid, found, err := h.Tracker.GetWeekGrid(r.Context(), weekID)
	if err != nil {
		h.writeStoreError(w, "weeks.grid", err, "week_id", weekID)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "week_not_found", "Week not found")
		return
	}

	writeJSON(w, http.StatusOK, grid)
}

func (h *Handlers) DeleteWeek(w http.ResponseWriter, r *http.Request) {
	weekID, err := parseIDParam(r, "week_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Tracker.DeleteWeek(r.Context(), weekID); err != nil {
		h.writeStoreError(w, "weeks.delete", err, "week_id", weekID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
