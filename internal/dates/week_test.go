package dates

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMondayOfSameWeek(t *testing.T) {
	monday := MustParse("2025-02-03")
	for i := 0; i < DaysPerWeek; i++ {
		day := monday.AddDays(i)
		if got := MondayOf(day); !got.Equal(monday) {
			t.Fatalf("MondayOf(%s) = %s, expected %s", day, got, monday)
		}
	}
}

func TestMondayOfSundayBelongsToPreviousWeek(t *testing.T) {
	got := MondayOf(MustParse("2025-02-09"))
	if got.String() != "2025-02-03" {
		t.Fatalf("expected 2025-02-03, got %s", got)
	}
	got = MondayOf(MustParse("2025-02-10"))
	if got.String() != "2025-02-10" {
		t.Fatalf("expected 2025-02-10, got %s", got)
	}
}

func TestMondayOfWednesday(t *testing.T) {
	got := MondayOf(MustParse("2025-02-05"))
	if got.String() != "2025-02-03" {
		t.Fatalf("expected 2025-02-03, got %s", got)
	}
	if !IsMonday(got) {
		t.Fatalf("expected %s to be a Monday", got)
	}
}

func TestMondayOfAcrossYearBoundary(t *testing.T) {
	got := MondayOf(MustParse("2026-01-01"))
	if got.String() != "2025-12-29" {
		t.Fatalf("expected 2025-12-29, got %s", got)
	}
}

func TestWeekDates(t *testing.T) {
	days := WeekDates(MustParse("2025-02-03"))
	expected := []string{
		"2025-02-03", "2025-02-04", "2025-02-05", "2025-02-06",
		"2025-02-07", "2025-02-08", "2025-02-09",
	}
	for i, want := range expected {
		if days[i].String() != want {
			t.Fatalf("day %d: expected %s, got %s", i, want, days[i])
		}
	}
}

func TestWeekDatesCrossMonth(t *testing.T) {
	days := WeekDates(MustParse("2025-03-31"))
	if days[6].String() != "2025-04-06" {
		t.Fatalf("expected 2025-04-06, got %s", days[6])
	}
}

func TestRangeLabel(t *testing.T) {
	cases := map[string]string{
		"2025-02-03": "3 Feb – 9 Feb",
		"2025-03-31": "31 Mar – 6 Apr",
		"2025-12-29": "29 Dec – 4 Jan 2026",
	}
	for start, want := range cases {
		if got := RangeLabel(MustParse(start)); got != want {
			t.Fatalf("RangeLabel(%s) = %q, expected %q", start, got, want)
		}
	}
}

func TestShortDay(t *testing.T) {
	if got := ShortDay(MustParse("2025-02-03")); got != "Mon" {
		t.Fatalf("expected Mon, got %q", got)
	}
	if got := ShortDay(MustParse("2025-02-09")); got != "Sun" {
		t.Fatalf("expected Sun, got %q", got)
	}
}

func TestFromTimeUsesLocalCalendarFields(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	late := time.Date(2025, time.February, 4, 1, 30, 0, 0, loc)
	if got := FromTime(late).String(); got != "2025-02-04" {
		t.Fatalf("expected 2025-02-04, got %s", got)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, value := range []string{"", "2025-2-3", "03/02/2025", "2025-02-30"} {
		if _, err := Parse(value); err == nil {
			t.Fatalf("expected error for %q", value)
		}
	}
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		Date  Date  `json:"date"`
		Maybe *Date `json:"maybe"`
	}

	data, err := json.Marshal(payload{Date: MustParse("2025-02-03")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"date":"2025-02-03","maybe":null}` {
		t.Fatalf("unexpected json %s", data)
	}

	var decoded payload
	if err := json.Unmarshal([]byte(`{"date":"2025-02-05"}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Date.String() != "2025-02-05" {
		t.Fatalf("expected 2025-02-05, got %s", decoded.Date)
	}

	if err := json.Unmarshal([]byte(`{"date":"not-a-date"}`), &decoded); err == nil {
		t.Fatalf("expected error for invalid date")
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan("2025-02-03"); err != nil || d.String() != "2025-02-03" {
		t.Fatalf("scan string: %v %s", err, d)
	}
	if err := d.Scan([]byte("2025-02-04T00:00:00Z")); err != nil || d.String() != "2025-02-04" {
		t.Fatalf("scan bytes: %v %s", err, d)
	}
	if err := d.Scan(time.Date(2025, time.February, 5, 0, 0, 0, 0, time.UTC)); err != nil || d.String() != "2025-02-05" {
		t.Fatalf("scan time: %v %s", err, d)
	}
	if err := d.Scan(42); err == nil {
		t.Fatalf("expected error for int")
	}

	value, err := MustParse("2025-02-03").Value()
	if err != nil || value != "2025-02-03" {
		t.Fatalf("value: %v %v", err, value)
	}
}
