package dates

import (
	"fmt"
	"time"
)

const DaysPerWeek = 7

// MondayOf returns the Monday on or before d. Sunday counts as the seventh
// day of the preceding week.
func MondayOf(d Date) Date {
	offset := (int(d.Weekday()) + 6) % DaysPerWeek
	return d.AddDays(-offset)
}

func IsMonday(d Date) bool {
	return d.Weekday() == time.Monday
}

// WeekDates lists the seven consecutive days starting at start.
func WeekDates(start Date) [DaysPerWeek]Date {
	var out [DaysPerWeek]Date
	for i := range out {
		out[i] = start.AddDays(i)
	}
	return out
}

// ShortDay returns the English weekday abbreviation (Mon, Tue, ...).
func ShortDay(d Date) string {
	return d.Weekday().String()[:3]
}

// RangeLabel formats a week as "3 Feb – 9 Feb". The year is appended only
// when the week straddles two years, and then it is the end date's year.
func RangeLabel(start Date) string {
	end := start.AddDays(DaysPerWeek - 1)
	label := fmt.Sprintf("%d %s – %d %s", start.Day(), shortMonth(start), end.Day(), shortMonth(end))
	if start.Year() != end.Year() {
		label += fmt.Sprintf(" %d", end.Year())
	}
	return label
}

func shortMonth(d Date) string {
	return d.Month().String()[:3]
}
