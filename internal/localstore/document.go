package localstore

import (
	"encoding/json"
	"sort"

	"weekly-tracker/internal/domain/tracker"
)

// DefaultKey is the storage key of the tracker document.
const DefaultKey = "schedule_tracker"

type document struct {
	Weeks       []tracker.Week       `json:"weeks"`
	WeeklyItems []tracker.WeeklyItem `json:"weeklyItems"`
	DailyChecks []tracker.DailyCheck `json:"dailyChecks"`
}

func emptyDocument() *document {
	return &document{
		Weeks:       []tracker.Week{},
		WeeklyItems: []tracker.WeeklyItem{},
		DailyChecks: []tracker.DailyCheck{},
	}
}

// decodeDocument parses raw content. Missing arrays come back empty.
func decodeDocument(raw []byte) (*document, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Weeks == nil {
		doc.Weeks = []tracker.Week{}
	}
	if doc.WeeklyItems == nil {
		doc.WeeklyItems = []tracker.WeeklyItem{}
	}
	if doc.DailyChecks == nil {
		doc.DailyChecks = []tracker.DailyCheck{}
	}
	return &doc, nil
}

func (d *document) encode() ([]byte, error) {
	return json.Marshal(d)
}

func (d *document) clone() *document {
	return &document{
		Weeks:       append([]tracker.Week{}, d.Weeks...),
		WeeklyItems: append([]tracker.WeeklyItem{}, d.WeeklyItems...),
		DailyChecks: append([]tracker.DailyCheck{}, d.DailyChecks...),
	}
}

func (d *document) sortWeeks() {
	sort.SliceStable(d.Weeks, func(i, j int) bool {
		return d.Weeks[i].WeekStartDate.After(d.Weeks[j].WeekStartDate)
	})
}

func (d *document) weekIndex(weekID int64) int {
	for i := range d.Weeks {
		if d.Weeks[i].ID == weekID {
			return i
		}
	}
	return -1
}

func (d *document) itemIndex(itemID int64) int {
	for i := range d.WeeklyItems {
		if d.WeeklyItems[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (d *document) nextWeekID() int64 {
	var max int64
	for _, week := range d.Weeks {
		if week.ID > max {
			max = week.ID
		}
	}
	return max + 1
}

func (d *document) nextItemID() int64 {
	var max int64
	for _, item := range d.WeeklyItems {
		if item.ID > max {
			max = item.ID
		}
	}
	return max + 1
}

func (d *document) nextCheckID() int64 {
	var max int64
	for _, check := range d.DailyChecks {
		if check.ID > max {
			max = check.ID
		}
	}
	return max + 1
}

func (d *document) itemCount(weekID int64) int {
	count := 0
	for _, item := range d.WeeklyItems {
		if item.WeekID == weekID {
			count++
		}
	}
	return count
}

// removeChecks drops every check owned by one of the given items.
func (d *document) removeChecks(itemIDs map[int64]struct{}) {
	kept := d.DailyChecks[:0]
	for _, check := range d.DailyChecks {
		if _, ok := itemIDs[check.WeeklyItemID]; ok {
			continue
		}
		kept = append(kept, check)
	}
	d.DailyChecks = kept
}
