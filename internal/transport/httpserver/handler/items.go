package handler

import (
	"net/http"

	trackerdomain "weekly-tracker/internal/domain/tracker"
)

type createItemRequest struct {
	Name       string  `json:"name"`
	Category   *string `json:"category"`
	OrderIndex *int    `json:"order_index"`
}

type updateItemRequest struct {
	Name       *string `json:"name"`
	Category   *string `json:"category"`
	OrderIndex *int    `json:"order_index"`
}

func (h *Handlers) CreateItem(w http.ResponseWriter, r *http.Request) {
	weekID, err := parseIDParam(r, "week_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	item, err := h.Tracker.CreateItem(r.Context(), weekID, trackerdomain.CreateItemInput{
		Name:       req.Name,
		Category:   req.Category,
		OrderIndex: req.OrderIndex,
	})
	if err != nil {
		h.writeStoreError(w, "items.create", err, "week_id", weekID)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *Handlers) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := parseIDParam(r, "item_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	item, err := h.Tracker.UpdateItem(r.Context(), itemID, trackerdomain.UpdateItemInput{
		Name:       req.Name,
		Category:   req.Category,
		OrderIndex: req.OrderIndex,
	})
	if err != nil {
		h.writeStoreError(w, "items.update", err, "item_id", itemID)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *Handlers) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := parseIDParam(r, "item_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Tracker.DeleteItem(r.Context(), itemID); err != nil {
		h.writeStoreError(w, "items.delete", err, "item_id", itemID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
