package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"weekly-tracker/internal/dates"
	"weekly-tracker/internal/domain/tracker"
)

// Store is the tracker.Store backed by the REST API. It does no validation
// or derivation of its own.
type Store struct {
	client *Client
}

func New(baseURL string, opts ...Option) (*Store, error) {
	client, err := NewClient(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &Store{client: client}, nil
}

var _ tracker.Store = (*Store)(nil)

type weekCreateRequest struct {
	WeekStartDate dates.Date `json:"week_start_date"`
}

type itemCreateRequest struct {
	Name       string  `json:"name"`
	Category   *string `json:"category,omitempty"`
	OrderIndex *int    `json:"order_index,omitempty"`
}

type itemUpdateRequest struct {
	Name       *string `json:"name,omitempty"`
	Category   *string `json:"category,omitempty"`
	OrderIndex *int    `json:"order_index,omitempty"`
}

type checkUpsertRequest struct {
	WeeklyItemID int64               `json:"weekly_item_id"`
	Date         dates.Date          `json:"date"`
	Status       tracker.CheckStatus `json:"status"`
	Minutes      *int                `json:"minutes"`
	Note         *string             `json:"note"`
}

func (s *Store) CreateWeek(ctx context.Context, date dates.Date) (*tracker.Week, error) {
	var week tracker.Week
	err := s.client.do(ctx, http.MethodPost, "/weeks", weekCreateRequest{WeekStartDate: date}, &week, tracker.ErrWeekNotFound)
	if err != nil {
		return nil, err
	}
	return &week, nil
}

func (s *Store) ListWeeks(ctx context.Context, date *dates.Date) ([]tracker.Week, error) {
	path := "/weeks"
	if date != nil {
		path += "?" + url.Values{"date": {date.String()}}.Encode()
	}

	weeks := []tracker.Week{}
	if err := s.client.do(ctx, http.MethodGet, path, nil, &weeks, tracker.ErrWeekNotFound); err != nil {
		return nil, err
	}
	return weeks, nil
}

func (s *Store) GetWeek(ctx context.Context, weekID int64) (*tracker.Week, bool, error) {
	var week tracker.Week
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/weeks/%d", weekID), nil, &week, tracker.ErrWeekNotFound)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &week, true, nil
}

func (s *Store) GetWeekGrid(ctx context.Context, weekID int64) (*tracker.WeekGrid, bool, error) {
	var grid tracker.WeekGrid
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/weeks/%d/grid", weekID), nil, &grid, tracker.ErrWeekNotFound)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &grid, true, nil
}

func (s *Store) DeleteWeek(ctx context.Context, weekID int64) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/weeks/%d", weekID), nil, nil, tracker.ErrWeekNotFound)
}

func (s *Store) CreateItem(ctx context.Context, weekID int64, input tracker.CreateItemInput) (*tracker.GridItem, error) {
	body := itemCreateRequest{
		Name:       input.Name,
		Category:   input.Category,
		OrderIndex: input.OrderIndex,
	}

	var item tracker.GridItem
	err := s.client.do(ctx, http.MethodPost, fmt.Sprintf("/weeks/%d/items", weekID), body, &item, tracker.ErrWeekNotFound)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpdateItem(ctx context.Context, itemID int64, input tracker.UpdateItemInput) (*tracker.GridItem, error) {
	body := itemUpdateRequest{
		Name:       input.Name,
		Category:   input.Category,
		OrderIndex: input.OrderIndex,
	}

	var item tracker.GridItem
	err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/weekly-items/%d", itemID), body, &item, tracker.ErrItemNotFound)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) DeleteItem(ctx context.Context, itemID int64) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/weekly-items/%d", itemID), nil, nil, tracker.ErrItemNotFound)
}

func (s *Store) UpsertCheck(ctx context.Context, input tracker.UpsertCheckInput) (*tracker.GridCheck, error) {
	body := checkUpsertRequest{
		WeeklyItemID: input.WeeklyItemID,
		Date:         input.Date,
		Status:       input.Status,
		Minutes:      input.Minutes,
		Note:         input.Note,
	}

	var check tracker.GridCheck
	if err := s.client.do(ctx, http.MethodPut, "/daily-checks", body, &check, tracker.ErrItemNotFound); err != nil {
		return nil, err
	}
	return &check, nil
}

func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
