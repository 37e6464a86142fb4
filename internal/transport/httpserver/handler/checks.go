package handler

import (
	"net/http"

	"weekly-tracker/internal/dates"
	trackerdomain "weekly-tracker/internal/domain/tracker"
)

type upsertCheckRequest struct {
	WeeklyItemID int64                     `json:"weekly_item_id"`
	Date         string                    `json:"date"`
	Status       trackerdomain.CheckStatus `json:"status"`
	Minutes      *int                      `json:"minutes"`
	Note         *string                   `json:"note"`
}

func (h *Handlers) UpsertCheck(w http.ResponseWriter, r *http.Request) {
	var req upsertCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	date, err := dates.Parse(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "date: "+err.Error())
		return
	}

	check, err := h.Tracker.UpsertCheck(r.Context(), trackerdomain.UpsertCheckInput{
		WeeklyItemID: req.WeeklyItemID,
		Date:         date,
		Status:       req.Status,
		Minutes:      req.Minutes,
		Note:         req.Note,
	})
	if err != nil {
		h.writeStoreError(w, "checks.upsert", err, "weekly_item_id", req.WeeklyItemID, "date", date.String())
		return
	}

	writeJSON(w, http.StatusOK, check)
}
