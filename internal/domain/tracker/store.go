package tracker

import (
	"context"

	"weekly-tracker/internal/dates"
)

// Store is the contract shared by the local document store, the remote
// HTTP client and the server-side Service.
//
// Reads report a missing week as found == false with a nil error. Mutations
// that reference a missing week or item fail with ErrWeekNotFound or
// ErrItemNotFound.
type Store interface {
	CreateWeek(ctx context.Context, date dates.Date) (*Week, error)
	// ListWeeks returns every week, most recent first. With a date it
	// returns the zero or one week containing that date.
	ListWeeks(ctx context.Context, date *dates.Date) ([]Week, error)
	GetWeek(ctx context.Context, weekID int64) (*Week, bool, error)
	GetWeekGrid(ctx context.Context, weekID int64) (*WeekGrid, bool, error)
	DeleteWeek(ctx context.Context, weekID int64) error

	CreateItem(ctx context.Context, weekID int64, input CreateItemInput) (*GridItem, error)
	UpdateItem(ctx context.Context, itemID int64, input UpdateItemInput) (*GridItem, error)
	DeleteItem(ctx context.Context, itemID int64) error

	UpsertCheck(ctx context.Context, input UpsertCheckInput) (*GridCheck, error)
}
