package tracker

import (
	"context"
	"errors"

	"weekly-tracker/internal/dates"
)

// Service implements Store on top of a Repository. It backs the REST API.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var _ Store = (*Service)(nil)

// Week operations

func (s *Service) CreateWeek(ctx context.Context, date dates.Date) (*Week, error) {
	if date.IsZero() {
		return nil, invalid("week_start_date is required")
	}
	monday := dates.MondayOf(date)

	var week Week
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := tx.GetWeekByStartDate(ctx, monday)
		if err == nil {
			return ErrDuplicateWeek
		}
		if !errors.Is(err, ErrWeekNotFound) {
			return err
		}

		week = Week{WeekStartDate: monday}
		return tx.CreateWeek(ctx, &week)
	})
	if err != nil {
		return nil, err
	}
	return &week, nil
}

func (s *Service) ListWeeks(ctx context.Context, date *dates.Date) ([]Week, error) {
	if date == nil {
		return s.repo.ListWeeks(ctx)
	}

	week, err := s.repo.GetWeekByStartDate(ctx, dates.MondayOf(*date))
	if err != nil {
		if errors.Is(err, ErrWeekNotFound) {
			return []Week{}, nil
		}
		return nil, err
	}
	return []Week{*week}, nil
}

func (s *Service) GetWeek(ctx context.Context, weekID int64) (*Week, bool, error) {
	week, err := s.repo.GetWeekByID(ctx, weekID)
	if err != nil {
		if errors.Is(err, ErrWeekNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return week, true, nil
}

func (s *Service) GetWeekGrid(ctx context.Context, weekID int64) (*WeekGrid, bool, error) {
	week, err := s.repo.GetWeekByID(ctx, weekID)
	if err != nil {
		if errors.Is(err, ErrWeekNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	grid, err := s.buildGrid(ctx, s.repo, *week)
	if err != nil {
		return nil, false, err
	}
	return grid, true, nil
}

func (s *Service) DeleteWeek(ctx context.Context, weekID int64) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetWeekByID(ctx, weekID); err != nil {
			return err
		}

		items, err := tx.ListItemsByWeek(ctx, weekID)
		if err != nil {
			return err
		}
		if err := tx.DeleteChecksByItems(ctx, itemIDs(items)); err != nil {
			return err
		}
		if err := tx.DeleteItemsByWeek(ctx, weekID); err != nil {
			return err
		}

		deleted, err := tx.DeleteWeek(ctx, weekID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrWeekNotFound
		}
		return nil
	})
}

// WeeklyItem operations

func (s *Service) CreateItem(ctx context.Context, weekID int64, input CreateItemInput) (*GridItem, error) {
	input, err := input.Normalize()
	if err != nil {
		return nil, err
	}

	var result *GridItem
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		week, err := tx.GetWeekByID(ctx, weekID)
		if err != nil {
			return err
		}

		order := 0
		if input.OrderIndex != nil {
			order = *input.OrderIndex
		} else {
			count, err := tx.CountItemsByWeek(ctx, weekID)
			if err != nil {
				return err
			}
			order = int(count)
		}

		item := WeeklyItem{
			WeekID:     weekID,
			Name:       input.Name,
			Category:   input.Category,
			OrderIndex: order,
		}
		if err := tx.CreateItem(ctx, &item); err != nil {
			return err
		}

		result, err = s.gridItem(ctx, tx, *week, item)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) UpdateItem(ctx context.Context, itemID int64, input UpdateItemInput) (*GridItem, error) {
	input, err := input.Normalize()
	if err != nil {
		return nil, err
	}

	var result *GridItem
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		item, err := tx.GetItemByID(ctx, itemID)
		if err != nil {
			return err
		}

		input.Apply(item)
		if err := tx.UpdateItem(ctx, item); err != nil {
			return err
		}

		week, err := tx.GetWeekByID(ctx, item.WeekID)
		if err != nil {
			return err
		}

		result, err = s.gridItem(ctx, tx, *week, *item)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) DeleteItem(ctx context.Context, itemID int64) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.DeleteChecksByItems(ctx, []int64{itemID}); err != nil {
			return err
		}
		deleted, err := tx.DeleteItem(ctx, itemID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrItemNotFound
		}
		return nil
	})
}

// DailyCheck operations

func (s *Service) UpsertCheck(ctx context.Context, input UpsertCheckInput) (*GridCheck, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var check DailyCheck
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetItemByID(ctx, input.WeeklyItemID); err != nil {
			return err
		}

		existing, err := tx.GetCheck(ctx, input.WeeklyItemID, input.Date)
		if err != nil && !errors.Is(err, ErrCheckNotFound) {
			return err
		}

		if existing != nil {
			existing.Status = input.Status
			existing.Minutes = input.Minutes
			existing.Note = input.Note
			check = *existing
			return tx.UpdateCheck(ctx, &check)
		}

		check = DailyCheck{
			WeeklyItemID: input.WeeklyItemID,
			Date:         input.Date,
			Status:       input.Status,
			Minutes:      input.Minutes,
			Note:         input.Note,
		}
		return tx.CreateCheck(ctx, &check)
	})
	if err != nil {
		return nil, err
	}

	cell := check.GridCheck()
	return &cell, nil
}

func (s *Service) buildGrid(ctx context.Context, repo Repository, week Week) (*WeekGrid, error) {
	items, err := repo.ListItemsByWeek(ctx, week.ID)
	if err != nil {
		return nil, err
	}

	days := dates.WeekDates(week.WeekStartDate)
	checks, err := repo.ListChecks(ctx, itemIDs(items), days[0], days[len(days)-1])
	if err != nil {
		return nil, err
	}

	grid := BuildGrid(week, items, checks)
	return &grid, nil
}

func (s *Service) gridItem(ctx context.Context, repo Repository, week Week, item WeeklyItem) (*GridItem, error) {
	days := dates.WeekDates(week.WeekStartDate)
	checks, err := repo.ListChecks(ctx, []int64{item.ID}, days[0], days[len(days)-1])
	if err != nil {
		return nil, err
	}

	grid := BuildGrid(week, []WeeklyItem{item}, checks)
	result, ok := grid.Item(item.ID)
	if !ok {
		return nil, ErrItemNotFound
	}
	return result, nil
}

func itemIDs(items []WeeklyItem) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
