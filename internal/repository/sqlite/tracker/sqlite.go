package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"weekly-tracker/internal/dates"
	trackerdomain "weekly-tracker/internal/domain/tracker"
)

type SQLiteRepository struct {
	db *sqlx.DB
	q  sqlx.ExtContext
}

func NewSQLite(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, q: db}
}

var _ trackerdomain.Repository = (*SQLiteRepository)(nil)

func (r *SQLiteRepository) Transaction(ctx context.Context, fn func(trackerdomain.Repository) error) error {
	if _, inTx := r.q.(*sqlx.Tx); inTx {
		return fn(r)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&SQLiteRepository{db: r.db, q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) ListWeeks(ctx context.Context) ([]trackerdomain.Week, error) {
	weeks := []trackerdomain.Week{}
	if err := sqlx.SelectContext(ctx, r.q, &weeks,
		"SELECT id, week_start_date FROM weeks ORDER BY week_start_date DESC"); err != nil {
		return nil, err
	}
	return weeks, nil
}

func (r *SQLiteRepository) GetWeekByID(ctx context.Context, weekID int64) (*trackerdomain.Week, error) {
	var week trackerdomain.Week
	if err := sqlx.GetContext(ctx, r.q, &week,
		"SELECT id, week_start_date FROM weeks WHERE id = ?", weekID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, trackerdomain.ErrWeekNotFound
		}
		return nil, err
	}
	return &week, nil
}

func (r *SQLiteRepository) GetWeekByStartDate(ctx context.Context, start dates.Date) (*trackerdomain.Week, error) {
	var week trackerdomain.Week
	if err := sqlx.GetContext(ctx, r.q, &week,
		"SELECT id, week_start_date FROM weeks WHERE week_start_date = ?", start); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, trackerdomain.ErrWeekNotFound
		}
		return nil, err
	}
	return &week, nil
}

func (r *SQLiteRepository) CreateWeek(ctx context.Context, week *trackerdomain.Week) error {
	result, err := r.q.ExecContext(ctx, "INSERT INTO weeks (week_start_date) VALUES (?)", week.WeekStartDate)
	if err != nil {
		if isUniqueViolation(err) {
			return trackerdomain.ErrDuplicateWeek
		}
		return err
	}
	week.ID, err = result.LastInsertId()
	return err
}

func (r *SQLiteRepository) DeleteWeek(ctx context.Context, weekID int64) (bool, error) {
	return r.deleteByID(ctx, "DELETE FROM weeks WHERE id = ?", weekID)
}

func (r *SQLiteRepository) ListItemsByWeek(ctx context.Context, weekID int64) ([]trackerdomain.WeeklyItem, error) {
	items := []trackerdomain.WeeklyItem{}
	if err := sqlx.SelectContext(ctx, r.q, &items, `
		SELECT id, week_id, name, category, order_index
		FROM weekly_items
		WHERE week_id = ?
		ORDER BY order_index ASC, id ASC`, weekID); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *SQLiteRepository) CountItemsByWeek(ctx context.Context, weekID int64) (int64, error) {
	var count int64
	if err := sqlx.GetContext(ctx, r.q, &count,
		"SELECT COUNT(*) FROM weekly_items WHERE week_id = ?", weekID); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SQLiteRepository) GetItemByID(ctx context.Context, itemID int64) (*trackerdomain.WeeklyItem, error) {
	var item trackerdomain.WeeklyItem
	if err := sqlx.GetContext(ctx, r.q, &item,
		"SELECT id, week_id, name, category, order_index FROM weekly_items WHERE id = ?", itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, trackerdomain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *SQLiteRepository) CreateItem(ctx context.Context, item *trackerdomain.WeeklyItem) error {
	result, err := r.q.ExecContext(ctx,
		"INSERT INTO weekly_items (week_id, name, category, order_index) VALUES (?, ?, ?, ?)",
		item.WeekID, item.Name, item.Category, item.OrderIndex)
	if err != nil {
		return err
	}
	item.ID, err = result.LastInsertId()
	return err
}

func (r *SQLiteRepository) UpdateItem(ctx context.Context, item *trackerdomain.WeeklyItem) error {
	result, err := r.q.ExecContext(ctx,
		"UPDATE weekly_items SET name = ?, category = ?, order_index = ? WHERE id = ?",
		item.Name, item.Category, item.OrderIndex, item.ID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return trackerdomain.ErrItemNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteItem(ctx context.Context, itemID int64) (bool, error) {
	return r.deleteByID(ctx, "DELETE FROM weekly_items WHERE id = ?", itemID)
}

func (r *SQLiteRepository) DeleteItemsByWeek(ctx context.Context, weekID int64) error {
	_, err := r.q.ExecContext(ctx, "DELETE FROM weekly_items WHERE week_id = ?", weekID)
	return err
}

func (r *SQLiteRepository) ListChecks(ctx context.Context, itemIDs []int64, from, to dates.Date) ([]trackerdomain.DailyCheck, error) {
	checks := []trackerdomain.DailyCheck{}
	if len(itemIDs) == 0 {
		return checks, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, weekly_item_id, date, status, minutes, note
		FROM daily_checks
		WHERE weekly_item_id IN (?) AND date BETWEEN ? AND ?`, itemIDs, from, to)
	if err != nil {
		return nil, err
	}
	if err := sqlx.SelectContext(ctx, r.q, &checks, r.q.Rebind(query), args...); err != nil {
		return nil, err
	}
	return checks, nil
}

func (r *SQLiteRepository) GetCheck(ctx context.Context, itemID int64, date dates.Date) (*trackerdomain.DailyCheck, error) {
	var check trackerdomain.DailyCheck
	if err := sqlx.GetContext(ctx, r.q, &check, `
		SELECT id, weekly_item_id, date, status, minutes, note
		FROM daily_checks
		WHERE weekly_item_id = ? AND date = ?`, itemID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, trackerdomain.ErrCheckNotFound
		}
		return nil, err
	}
	return &check, nil
}

func (r *SQLiteRepository) CreateCheck(ctx context.Context, check *trackerdomain.DailyCheck) error {
	result, err := r.q.ExecContext(ctx,
		"INSERT INTO daily_checks (weekly_item_id, date, status, minutes, note) VALUES (?, ?, ?, ?, ?)",
		check.WeeklyItemID, check.Date, check.Status, check.Minutes, check.Note)
	if err != nil {
		return err
	}
	check.ID, err = result.LastInsertId()
	return err
}

func (r *SQLiteRepository) UpdateCheck(ctx context.Context, check *trackerdomain.DailyCheck) error {
	_, err := r.q.ExecContext(ctx,
		"UPDATE daily_checks SET status = ?, minutes = ?, note = ? WHERE id = ?",
		check.Status, check.Minutes, check.Note, check.ID)
	return err
}

func (r *SQLiteRepository) DeleteChecksByItems(ctx context.Context, itemIDs []int64) error {
	if len(itemIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In("DELETE FROM daily_checks WHERE weekly_item_id IN (?)", itemIDs)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx, r.q.Rebind(query), args...)
	return err
}

func (r *SQLiteRepository) deleteByID(ctx context.Context, query string, id int64) (bool, error) {
	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")
}
