package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"weekly-tracker/internal/dates"
	"weekly-tracker/internal/domain/tracker"
)

func parseID(value, what string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, value)
	}
	return id, nil
}

func newWeeksCommand(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "weeks",
		Short: "List weeks, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			weeks, err := rt.store.ListWeeks(cmd.Context(), nil)
			if err != nil {
				return fmt.Errorf("list weeks: %w", err)
			}
			return renderWeeks(cmd.OutOrStdout(), weeks, rt.today())
		},
	}
}

func newOpenCommand(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open the current week, creating it if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := tracker.OpenCurrentWeek(cmd.Context(), rt.store, rt.today())
			if err != nil {
				return err
			}
			return rt.showWeek(cmd, week.ID)
		},
	}
}

func newShowCommand(rt *session) *cobra.Command {
	var prev, next bool

	cmd := &cobra.Command{
		Use:   "show [week-id]",
		Short: "Show the grid of a week (default: the current week, see open)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var weekID int64
			if len(args) == 1 {
				id, err := parseID(args[0], "week")
				if err != nil {
					return err
				}
				weekID = id
			} else {
				today := rt.today()
				weeks, err := rt.store.ListWeeks(ctx, &today)
				if err != nil {
					return fmt.Errorf("find current week: %w", err)
				}
				if len(weeks) == 0 {
					return fmt.Errorf("no week starting %s yet, run open to create it: %w", dates.MondayOf(today), tracker.ErrWeekNotFound)
				}
				weekID = weeks[0].ID
			}

			if prev || next {
				weeks, err := rt.store.ListWeeks(ctx, nil)
				if err != nil {
					return fmt.Errorf("list weeks: %w", err)
				}
				older, newer := tracker.Neighbors(weeks, weekID)
				target := newer
				direction := "newer"
				if prev {
					target = older
					direction = "older"
				}
				if target == nil {
					return fmt.Errorf("no %s week than #%d", direction, weekID)
				}
				weekID = target.ID
			}

			return rt.showWeek(cmd, weekID)
		},
	}

	cmd.Flags().BoolVar(&prev, "prev", false, "Show the week before")
	cmd.Flags().BoolVar(&next, "next", false, "Show the week after")
	cmd.MarkFlagsMutuallyExclusive("prev", "next")
	return cmd
}

func (rt *session) showWeek(cmd *cobra.Command, weekID int64) error {
	ctx := cmd.Context()

	grid, found, err := rt.store.GetWeekGrid(ctx, weekID)
	if err != nil {
		return fmt.Errorf("load week %d: %w", weekID, err)
	}
	if !found {
		return fmt.Errorf("week %d: %w", weekID, tracker.ErrWeekNotFound)
	}

	weeks, err := rt.store.ListWeeks(ctx, nil)
	if err != nil {
		return fmt.Errorf("list weeks: %w", err)
	}
	prev, next := tracker.Neighbors(weeks, weekID)
	return renderGrid(cmd.OutOrStdout(), *grid, prev, next)
}

func newWeekCommand(rt *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Create or delete weeks",
	}
	cmd.AddCommand(newWeekCreateCommand(rt), newWeekDeleteCommand(rt))
	return cmd
}

func newWeekCreateCommand(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "create <date>",
		Short: "Create the week containing date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dates.Parse(args[0])
			if err != nil {
				return err
			}

			week, err := rt.store.CreateWeek(cmd.Context(), date)
			if err != nil {
				if errors.Is(err, tracker.ErrDuplicateWeek) {
					return fmt.Errorf("week starting %s: %w", dates.MondayOf(date), err)
				}
				return fmt.Errorf("create week: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created week #%d (%s)\n", week.ID, dates.RangeLabel(week.WeekStartDate))
			return nil
		},
	}
}

func newWeekDeleteCommand(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <week-id>",
		Short: "Delete a week with its items and checks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weekID, err := parseID(args[0], "week")
			if err != nil {
				return err
			}
			if err := rt.store.DeleteWeek(cmd.Context(), weekID); err != nil {
				return fmt.Errorf("delete week %d: %w", weekID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted week #%d\n", weekID)
			return nil
		},
	}
}
