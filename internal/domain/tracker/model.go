package tracker

import (
	"weekly-tracker/internal/dates"
)

// Length limits in runes, matching the column sizes of the SQL schemas.
const (
	MaxNameLength     = 255
	MaxCategoryLength = 100
	MaxNoteLength     = 200
)

type CheckStatus int

const (
	StatusUnset   CheckStatus = 0
	StatusDone    CheckStatus = 1
	StatusPartial CheckStatus = 2
)

func (s CheckStatus) Valid() bool {
	return s >= StatusUnset && s <= StatusPartial
}

// Next cycles unset -> done -> partial -> unset.
func (s CheckStatus) Next() CheckStatus {
	return (s + 1) % 3
}

func (s CheckStatus) Score() float64 {
	switch s {
	case StatusDone:
		return 1
	case StatusPartial:
		return 0.5
	default:
		return 0
	}
}

func (s CheckStatus) String() string {
	switch s {
	case StatusUnset:
		return "unset"
	case StatusDone:
		return "done"
	case StatusPartial:
		return "partial"
	default:
		return "unknown"
	}
}

type Week struct {
	ID            int64      `json:"id" gorm:"primaryKey" db:"id"`
	WeekStartDate dates.Date `json:"week_start_date" gorm:"type:date;uniqueIndex;not null" db:"week_start_date"`
}

func (Week) TableName() string {
	return "weeks"
}

type WeeklyItem struct {
	ID         int64   `json:"id" gorm:"primaryKey" db:"id"`
	WeekID     int64   `json:"week_id" gorm:"index;not null" db:"week_id"`
	Name       string  `json:"name" gorm:"size:255;not null" db:"name"`
	Category   *string `json:"category" gorm:"size:100" db:"category"`
	OrderIndex int     `json:"order_index" gorm:"not null;default:0" db:"order_index"`
}

func (WeeklyItem) TableName() string {
	return "weekly_items"
}

type DailyCheck struct {
	ID           int64       `json:"id" gorm:"primaryKey" db:"id"`
	WeeklyItemID int64       `json:"weekly_item_id" gorm:"not null;uniqueIndex:uq_weekly_item_date" db:"weekly_item_id"`
	Date         dates.Date  `json:"date" gorm:"type:date;not null;uniqueIndex:uq_weekly_item_date" db:"date"`
	Status       CheckStatus `json:"status" gorm:"not null;default:0" db:"status"`
	Minutes      *int        `json:"minutes" db:"minutes"`
	Note         *string     `json:"note" gorm:"size:500" db:"note"`
}

func (DailyCheck) TableName() string {
	return "daily_checks"
}

// GridCheck is one day cell. ID is nil when no DailyCheck backs the cell.
type GridCheck struct {
	ID      *int64      `json:"id"`
	Date    dates.Date  `json:"date"`
	Status  CheckStatus `json:"status"`
	Minutes *int        `json:"minutes"`
	Note    *string     `json:"note"`
}

type GridItem struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Category   *string     `json:"category"`
	OrderIndex int         `json:"order_index"`
	Checks     []GridCheck `json:"checks"`
}

type WeekGrid struct {
	Week  Week       `json:"week"`
	Items []GridItem `json:"items"`
}

type CreateItemInput struct {
	Name       string
	Category   *string
	OrderIndex *int
}

// UpdateItemInput is a partial patch: nil fields keep their stored value.
type UpdateItemInput struct {
	Name       *string
	Category   *string
	OrderIndex *int
}

// UpsertCheckInput fully replaces a check: nil Minutes or Note clear the field.
type UpsertCheckInput struct {
	WeeklyItemID int64
	Date         dates.Date
	Status       CheckStatus
	Minutes      *int
	Note         *string
}

type OrderUpdate struct {
	ItemID     int64
	OrderIndex int
}

func (c DailyCheck) GridCheck() GridCheck {
	id := c.ID
	return GridCheck{
		ID:      &id,
		Date:    c.Date,
		Status:  c.Status,
		Minutes: c.Minutes,
		Note:    c.Note,
	}
}

func EmptyCheck(date dates.Date) GridCheck {
	return GridCheck{Date: date, Status: StatusUnset}
}
