package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"weekly-tracker/internal/dates"
	"weekly-tracker/internal/domain/tracker"
)

var (
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
)

const (
	nameWidth = 28
	cellWidth = 7
)

type palette struct {
	title   lipgloss.Style
	header  lipgloss.Style
	muted   lipgloss.Style
	name    lipgloss.Style
	cell    lipgloss.Style
	done    lipgloss.Style
	partial lipgloss.Style
	unset   lipgloss.Style
}

// newPalette binds the styles to w so colour is only emitted on terminals.
func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		title:   r.NewStyle().Bold(true).Foreground(colorBlue),
		header:  r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(colorGray),
		name:    r.NewStyle().Width(nameWidth),
		cell:    r.NewStyle().Width(cellWidth),
		done:    r.NewStyle().Foreground(colorGreen).Bold(true),
		partial: r.NewStyle().Foreground(colorYellow),
		unset:   r.NewStyle().Foreground(colorGray),
	}
}

func (p palette) status(status tracker.CheckStatus) string {
	switch status {
	case tracker.StatusDone:
		return p.done.Render("✓")
	case tracker.StatusPartial:
		return p.partial.Render("◐")
	default:
		return p.unset.Render("·")
	}
}

func percent(fraction float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(fraction*100)))
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}

func weekTitle(week tracker.Week) string {
	return fmt.Sprintf("Week #%d  %s", week.ID, dates.RangeLabel(week.WeekStartDate))
}

// renderGrid writes the week grid: one row per item, one column per day,
// then the row progress. prev and next are optional navigation hints.
func renderGrid(w io.Writer, grid tracker.WeekGrid, prev, next *tracker.Week) error {
	p := newPalette(w)
	var b strings.Builder

	b.WriteString(p.title.Render(weekTitle(grid.Week)))
	b.WriteString("\n\n")

	if len(grid.Items) == 0 {
		b.WriteString(p.muted.Render(fmt.Sprintf("No items yet. Add one with: tracker item add %d <name>", grid.Week.ID)))
		b.WriteString("\n")
	} else {
		b.WriteString(p.name.Render(""))
		for _, day := range dates.WeekDates(grid.Week.WeekStartDate) {
			b.WriteString(p.cell.Render(p.header.Render(fmt.Sprintf("%s %d", dates.ShortDay(day), day.Day()))))
		}
		b.WriteString(p.header.Render("Done"))
		b.WriteString("\n")

		for _, item := range grid.Items {
			label := truncate(fmt.Sprintf("%d. %s", item.ID, item.Name), nameWidth-2)
			if item.Category != nil && *item.Category != "" {
				label += " " + p.muted.Render("["+*item.Category+"]")
			}
			b.WriteString(p.name.Render(label))
			for _, check := range item.Checks {
				b.WriteString(p.cell.Render(p.status(check.Status)))
			}
			b.WriteString(percent(tracker.RowProgress(item)))
			b.WriteString("\n")
		}

		b.WriteString("\n")
		b.WriteString(p.header.Render("Week progress: " + percent(tracker.WeekProgress(grid.Items))))
		b.WriteString("\n")
	}

	if prev != nil || next != nil {
		var hints []string
		if prev != nil {
			hints = append(hints, fmt.Sprintf("prev: #%d %s", prev.ID, dates.RangeLabel(prev.WeekStartDate)))
		}
		if next != nil {
			hints = append(hints, fmt.Sprintf("next: #%d %s", next.ID, dates.RangeLabel(next.WeekStartDate)))
		}
		b.WriteString(p.muted.Render(strings.Join(hints, "  ")))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// renderWeeks lists weeks most recent first, marking the one containing today.
func renderWeeks(w io.Writer, weeks []tracker.Week, today dates.Date) error {
	p := newPalette(w)
	var b strings.Builder

	if len(weeks) == 0 {
		b.WriteString(p.muted.Render("No weeks yet. Start one with: tracker open"))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	current := dates.MondayOf(today)
	for _, week := range weeks {
		marker := "  "
		if week.WeekStartDate.Equal(current) {
			marker = p.title.Render("*") + " "
		}
		fmt.Fprintf(&b, "%s%-4d %s  %s\n", marker, week.ID, week.WeekStartDate, p.muted.Render(dates.RangeLabel(week.WeekStartDate)))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
