package tracker

import (
	"context"
	"errors"
	"fmt"

	"weekly-tracker/internal/dates"
)

// OpenCurrentWeek returns the week containing today, creating it when it
// does not exist yet. A concurrent creation surfacing as ErrDuplicateWeek is
// resolved by looking the week up again.
func OpenCurrentWeek(ctx context.Context, store Store, today dates.Date) (*Week, error) {
	weeks, err := store.ListWeeks(ctx, &today)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	if len(weeks) > 0 {
		return &weeks[0], nil
	}

	week, err := store.CreateWeek(ctx, dates.MondayOf(today))
	if err == nil {
		return week, nil
	}
	if !errors.Is(err, ErrDuplicateWeek) {
		return nil, fmt.Errorf("create week: %w", err)
	}

	weeks, err = store.ListWeeks(ctx, &today)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	if len(weeks) == 0 {
		return nil, ErrWeekNotFound
	}
	return &weeks[0], nil
}

// Neighbors locates weekID in a most-recent-first list and returns the older
// (prev) and newer (next) weeks around it. Either may be nil.
func Neighbors(weeks []Week, weekID int64) (prev, next *Week) {
	idx := -1
	for i := range weeks {
		if weeks[i].ID == weekID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil
	}
	if idx+1 < len(weeks) {
		older := weeks[idx+1]
		prev = &older
	}
	if idx > 0 {
		newer := weeks[idx-1]
		next = &newer
	}
	return prev, next
}

// Reorder moves the item at position from to position to (clamped) within
// the display order and returns the updates needed to give every item the
// dense ranking 0..n-1. Items already at their rank are skipped.
func Reorder(items []GridItem, from, to int) []OrderUpdate {
	if from < 0 || from >= len(items) {
		return nil
	}
	if to < 0 {
		to = 0
	}
	if to > len(items)-1 {
		to = len(items) - 1
	}
	if from == to {
		return nil
	}

	ordered := make([]GridItem, len(items))
	copy(ordered, items)
	moved := ordered[from]
	ordered = append(ordered[:from], ordered[from+1:]...)
	ordered = append(ordered[:to], append([]GridItem{moved}, ordered[to:]...)...)

	var updates []OrderUpdate
	for i, item := range ordered {
		if item.OrderIndex != i {
			updates = append(updates, OrderUpdate{ItemID: item.ID, OrderIndex: i})
		}
	}
	return updates
}

// ApplyOrder pushes reorder updates through the store one item at a time.
func ApplyOrder(ctx context.Context, store Store, updates []OrderUpdate) error {
	for _, update := range updates {
		order := update.OrderIndex
		if _, err := store.UpdateItem(ctx, update.ItemID, UpdateItemInput{OrderIndex: &order}); err != nil {
			return fmt.Errorf("update item %d order: %w", update.ItemID, err)
		}
	}
	return nil
}
