package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"weekly-tracker/internal/dates"
	"weekly-tracker/internal/domain/tracker"
)

func newCheckCommand(rt *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Record daily checks",
	}
	cmd.AddCommand(newCheckSetCommand(rt), newCheckCycleCommand(rt))
	return cmd
}

// parseStatus accepts a status name or its numeric value.
func parseStatus(value string) (tracker.CheckStatus, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "unset", "none", "0":
		return tracker.StatusUnset, nil
	case "done", "1":
		return tracker.StatusDone, nil
	case "partial", "2":
		return tracker.StatusPartial, nil
	}
	return 0, fmt.Errorf("invalid status %q: expected unset, done or partial", value)
}

func parseCheckArgs(args []string) (int64, dates.Date, error) {
	itemID, err := parseID(args[0], "item")
	if err != nil {
		return 0, dates.Date{}, err
	}
	date, err := dates.Parse(args[1])
	if err != nil {
		return 0, dates.Date{}, err
	}
	return itemID, date, nil
}

func newCheckSetCommand(rt *session) *cobra.Command {
	var (
		status  string
		minutes int
		note    string
	)

	cmd := &cobra.Command{
		Use:   "set <item-id> <date>",
		Short: "Set the check of an item on a day, replacing minutes and note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, date, err := parseCheckArgs(args)
			if err != nil {
				return err
			}
			parsed, err := parseStatus(status)
			if err != nil {
				return err
			}

			input := tracker.UpsertCheckInput{WeeklyItemID: itemID, Date: date, Status: parsed}
			if cmd.Flags().Changed("minutes") {
				input.Minutes = &minutes
			}
			if cmd.Flags().Changed("note") {
				input.Note = &note
			}

			check, err := rt.store.UpsertCheck(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("set check: %w", err)
			}
			printCheck(cmd, itemID, *check)
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Status: unset, done or partial")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Minutes spent")
	cmd.Flags().StringVarP(&note, "note", "n", "", "Free-form note")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func newCheckCycleCommand(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "cycle <item-id> <date>",
		Short: "Advance a check: unset, done, partial, unset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			itemID, date, err := parseCheckArgs(args)
			if err != nil {
				return err
			}

			cell, err := rt.currentCell(cmd, itemID, date)
			if err != nil {
				return err
			}

			check, err := rt.store.UpsertCheck(ctx, tracker.UpsertCheckInput{
				WeeklyItemID: itemID,
				Date:         date,
				Status:       cell.Status.Next(),
				Minutes:      cell.Minutes,
				Note:         cell.Note,
			})
			if err != nil {
				return fmt.Errorf("cycle check: %w", err)
			}
			printCheck(cmd, itemID, *check)
			return nil
		},
	}
}

// currentCell finds the grid cell of item on date through the week that
// contains date.
func (rt *session) currentCell(cmd *cobra.Command, itemID int64, date dates.Date) (*tracker.GridCheck, error) {
	ctx := cmd.Context()

	weeks, err := rt.store.ListWeeks(ctx, &date)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	if len(weeks) == 0 {
		return nil, fmt.Errorf("week of %s: %w", date, tracker.ErrWeekNotFound)
	}

	grid, found, err := rt.store.GetWeekGrid(ctx, weeks[0].ID)
	if err != nil {
		return nil, fmt.Errorf("load week %d: %w", weeks[0].ID, err)
	}
	if !found {
		return nil, fmt.Errorf("week %d: %w", weeks[0].ID, tracker.ErrWeekNotFound)
	}

	item, ok := grid.Item(itemID)
	if !ok {
		return nil, fmt.Errorf("item %d in week of %s: %w", itemID, date, tracker.ErrItemNotFound)
	}
	for i := range item.Checks {
		if item.Checks[i].Date.Equal(date) {
			return &item.Checks[i], nil
		}
	}
	return nil, fmt.Errorf("item %d has no cell on %s", itemID, date)
}

func printCheck(cmd *cobra.Command, itemID int64, check tracker.GridCheck) {
	var extra []string
	if check.Minutes != nil {
		extra = append(extra, strconv.Itoa(*check.Minutes)+" min")
	}
	if check.Note != nil && *check.Note != "" {
		extra = append(extra, strconv.Quote(*check.Note))
	}

	line := fmt.Sprintf("Item #%d on %s %s: %s", itemID, dates.ShortDay(check.Date), check.Date, check.Status)
	if len(extra) > 0 {
		line += " (" + strings.Join(extra, ", ") + ")"
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
}
