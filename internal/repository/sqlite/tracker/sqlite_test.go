package tracker

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-tracker/internal/dates"
	"weekly-tracker/internal/db"
	trackerdomain "weekly-tracker/internal/domain/tracker"
	"weekly-tracker/pkg/logger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	sqlDB, err := db.NewSQLite(":memory:", logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewSQLite(sqlDB)
}

func TestWeeksRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	older := trackerdomain.Week{WeekStartDate: dates.MustParse("2025-01-27")}
	newer := trackerdomain.Week{WeekStartDate: dates.MustParse("2025-02-03")}
	require.NoError(t, repo.CreateWeek(ctx, &older))
	require.NoError(t, repo.CreateWeek(ctx, &newer))
	assert.NotZero(t, older.ID)

	weeks, err := repo.ListWeeks(ctx)
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, newer.ID, weeks[0].ID)
	assert.Equal(t, "2025-02-03", weeks[0].WeekStartDate.String())

	found, err := repo.GetWeekByStartDate(ctx, dates.MustParse("2025-01-27"))
	require.NoError(t, err)
	assert.Equal(t, older.ID, found.ID)

	_, err = repo.GetWeekByID(ctx, 999)
	assert.ErrorIs(t, err, trackerdomain.ErrWeekNotFound)
}

func TestCreateWeekUniqueViolation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateWeek(ctx, &trackerdomain.Week{WeekStartDate: dates.MustParse("2025-02-03")}))
	err := repo.CreateWeek(ctx, &trackerdomain.Week{WeekStartDate: dates.MustParse("2025-02-03")})
	assert.ErrorIs(t, err, trackerdomain.ErrDuplicateWeek)
}

func TestForeignKeysCascade(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	week := trackerdomain.Week{WeekStartDate: dates.MustParse("2025-02-03")}
	require.NoError(t, repo.CreateWeek(ctx, &week))
	item := trackerdomain.WeeklyItem{WeekID: week.ID, Name: "Read"}
	require.NoError(t, repo.CreateItem(ctx, &item))
	check := trackerdomain.DailyCheck{WeeklyItemID: item.ID, Date: week.WeekStartDate, Status: trackerdomain.StatusDone}
	require.NoError(t, repo.CreateCheck(ctx, &check))

	deleted, err := repo.DeleteWeek(ctx, week.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.GetItemByID(ctx, item.ID)
	assert.ErrorIs(t, err, trackerdomain.ErrItemNotFound)
	_, err = repo.GetCheck(ctx, item.ID, week.WeekStartDate)
	assert.ErrorIs(t, err, trackerdomain.ErrCheckNotFound)

	deleted, err = repo.DeleteWeek(ctx, week.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestItemRejectsUnknownWeek(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.CreateItem(context.Background(), &trackerdomain.WeeklyItem{WeekID: 42, Name: "Orphan"})
	assert.Error(t, err)
}

func TestChecksInRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	week := trackerdomain.Week{WeekStartDate: dates.MustParse("2025-02-03")}
	require.NoError(t, repo.CreateWeek(ctx, &week))
	item := trackerdomain.WeeklyItem{WeekID: week.ID, Name: "Read", Category: ptr("study")}
	require.NoError(t, repo.CreateItem(ctx, &item))

	minutes := 25
	for _, day := range []string{"2025-02-02", "2025-02-03", "2025-02-09", "2025-02-10"} {
		check := trackerdomain.DailyCheck{WeeklyItemID: item.ID, Date: dates.MustParse(day), Status: trackerdomain.StatusPartial, Minutes: &minutes}
		require.NoError(t, repo.CreateCheck(ctx, &check))
	}

	checks, err := repo.ListChecks(ctx, []int64{item.ID}, dates.MustParse("2025-02-03"), dates.MustParse("2025-02-09"))
	require.NoError(t, err)
	require.Len(t, checks, 2)
	require.NotNil(t, checks[0].Minutes)
	assert.Equal(t, 25, *checks[0].Minutes)
	assert.Equal(t, trackerdomain.StatusPartial, checks[0].Status)

	empty, err := repo.ListChecks(ctx, nil, dates.MustParse("2025-02-03"), dates.MustParse("2025-02-09"))
	require.NoError(t, err)
	assert.Empty(t, empty)

	stored, err := repo.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Category)
	assert.Equal(t, "study", *stored.Category)
}

func TestDuplicateCheckRejected(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	week := trackerdomain.Week{WeekStartDate: dates.MustParse("2025-02-03")}
	require.NoError(t, repo.CreateWeek(ctx, &week))
	item := trackerdomain.WeeklyItem{WeekID: week.ID, Name: "Read"}
	require.NoError(t, repo.CreateItem(ctx, &item))

	require.NoError(t, repo.CreateCheck(ctx, &trackerdomain.DailyCheck{WeeklyItemID: item.ID, Date: week.WeekStartDate}))
	assert.Error(t, repo.CreateCheck(ctx, &trackerdomain.DailyCheck{WeeklyItemID: item.ID, Date: week.WeekStartDate}))
}

func TestTransactionRollsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.Transaction(ctx, func(tx trackerdomain.Repository) error {
		if err := tx.CreateWeek(ctx, &trackerdomain.Week{WeekStartDate: dates.MustParse("2025-02-03")}); err != nil {
			return err
		}
		return trackerdomain.ErrInvalidInput
	})
	assert.ErrorIs(t, err, trackerdomain.ErrInvalidInput)

	weeks, err := repo.ListWeeks(ctx)
	require.NoError(t, err)
	assert.Empty(t, weeks)
}

func TestServiceOverSQLite(t *testing.T) {
	svc := trackerdomain.NewService(newTestRepo(t))
	ctx := context.Background()

	week, err := svc.CreateWeek(ctx, dates.MustParse("2025-02-06"))
	require.NoError(t, err)
	_, err = svc.CreateWeek(ctx, dates.MustParse("2025-02-03"))
	assert.ErrorIs(t, err, trackerdomain.ErrDuplicateWeek)

	item, err := svc.CreateItem(ctx, week.ID, trackerdomain.CreateItemInput{Name: "Read"})
	require.NoError(t, err)
	_, err = svc.UpsertCheck(ctx, trackerdomain.UpsertCheckInput{WeeklyItemID: item.ID, Date: dates.MustParse("2025-02-04"), Status: trackerdomain.StatusDone})
	require.NoError(t, err)

	grid, found, err := svc.GetWeekGrid(ctx, week.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, grid.Items, 1)
	assert.Equal(t, trackerdomain.StatusDone, grid.Items[0].Checks[1].Status)
	assert.Nil(t, grid.Items[0].Checks[0].ID)

	require.NoError(t, svc.DeleteWeek(ctx, week.ID))
	weeks, err := svc.ListWeeks(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, weeks)
}

func TestFileDatabaseReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "tracker.db")
	ctx := context.Background()

	first, err := db.NewSQLite(path, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, NewSQLite(first).CreateWeek(ctx, &trackerdomain.Week{WeekStartDate: dates.MustParse("2025-02-03")}))
	require.NoError(t, first.Close())

	second, err := db.NewSQLite(path, logger.Nop())
	require.NoError(t, err)
	defer second.Close()

	weeks, err := NewSQLite(second).ListWeeks(ctx)
	require.NoError(t, err)
	assert.Len(t, weeks, 1)
}

func ptr(value string) *string {
	return &value
}
