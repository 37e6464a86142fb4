package tracker

import (
	"context"

	"weekly-tracker/internal/dates"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// Week operations
	ListWeeks(ctx context.Context) ([]Week, error)
	GetWeekByID(ctx context.Context, weekID int64) (*Week, error)
	GetWeekByStartDate(ctx context.Context, start dates.Date) (*Week, error)
	CreateWeek(ctx context.Context, week *Week) error
	DeleteWeek(ctx context.Context, weekID int64) (bool, error)

	// WeeklyItem operations
	ListItemsByWeek(ctx context.Context, weekID int64) ([]WeeklyItem, error)
	CountItemsByWeek(ctx context.Context, weekID int64) (int64, error)
	GetItemByID(ctx context.Context, itemID int64) (*WeeklyItem, error)
	CreateItem(ctx context.Context, item *WeeklyItem) error
	UpdateItem(ctx context.Context, item *WeeklyItem) error
	DeleteItem(ctx context.Context, itemID int64) (bool, error)
	DeleteItemsByWeek(ctx context.Context, weekID int64) error

	// DailyCheck operations
	ListChecks(ctx context.Context, itemIDs []int64, from, to dates.Date) ([]DailyCheck, error)
	GetCheck(ctx context.Context, itemID int64, date dates.Date) (*DailyCheck, error)
	CreateCheck(ctx context.Context, check *DailyCheck) error
	UpdateCheck(ctx context.Context, check *DailyCheck) error
	DeleteChecksByItems(ctx context.Context, itemIDs []int64) error
}
