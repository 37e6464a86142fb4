package tracker

import (
	"sort"

	"weekly-tracker/internal/dates"
)

type checkKey struct {
	itemID int64
	date   string
}

// BuildGrid projects a week, its items and their checks into the seven-day
// grid. Items of other weeks and checks outside the week are ignored; days
// without a check get an empty cell.
func BuildGrid(week Week, items []WeeklyItem, checks []DailyCheck) WeekGrid {
	days := dates.WeekDates(week.WeekStartDate)

	inWeek := make(map[string]struct{}, len(days))
	for _, day := range days {
		inWeek[day.String()] = struct{}{}
	}

	byKey := make(map[checkKey]DailyCheck, len(checks))
	for _, check := range checks {
		if _, ok := inWeek[check.Date.String()]; !ok {
			continue
		}
		byKey[checkKey{itemID: check.WeeklyItemID, date: check.Date.String()}] = check
	}

	owned := make([]WeeklyItem, 0, len(items))
	for _, item := range items {
		if item.WeekID == week.ID {
			owned = append(owned, item)
		}
	}
	SortItems(owned)

	gridItems := make([]GridItem, 0, len(owned))
	for _, item := range owned {
		cells := make([]GridCheck, 0, len(days))
		for _, day := range days {
			if check, ok := byKey[checkKey{itemID: item.ID, date: day.String()}]; ok {
				cells = append(cells, check.GridCheck())
				continue
			}
			cells = append(cells, EmptyCheck(day))
		}
		gridItems = append(gridItems, GridItem{
			ID:         item.ID,
			Name:       item.Name,
			Category:   item.Category,
			OrderIndex: item.OrderIndex,
			Checks:     cells,
		})
	}

	return WeekGrid{Week: week, Items: gridItems}
}

// SortItems orders by order_index, ties broken by id.
func SortItems(items []WeeklyItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].OrderIndex != items[j].OrderIndex {
			return items[i].OrderIndex < items[j].OrderIndex
		}
		return items[i].ID < items[j].ID
	})
}

func (g WeekGrid) Item(itemID int64) (*GridItem, bool) {
	for i := range g.Items {
		if g.Items[i].ID == itemID {
			item := g.Items[i]
			return &item, true
		}
	}
	return nil, false
}

// RowProgress scores a row: done counts 1, partial 0.5, over seven days.
func RowProgress(item GridItem) float64 {
	var score float64
	for _, check := range item.Checks {
		score += check.Status.Score()
	}
	return score / dates.DaysPerWeek
}

func WeekProgress(items []GridItem) float64 {
	if len(items) == 0 {
		return 0
	}
	var total float64
	for _, item := range items {
		total += RowProgress(item)
	}
	return total / float64(len(items))
}
