package tracker

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"weekly-tracker/internal/dates"
	trackerdomain "weekly-tracker/internal/domain/tracker"
)

type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgres expects a DB opened with TranslateError so unique violations
// surface as gorm.ErrDuplicatedKey.
func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ trackerdomain.Repository = (*PostgresRepository)(nil)

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(trackerdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListWeeks(ctx context.Context) ([]trackerdomain.Week, error) {
	weeks := []trackerdomain.Week{}
	if err := r.db.WithContext(ctx).
		Order("week_start_date desc").
		Find(&weeks).Error; err != nil {
		return nil, err
	}
	return weeks, nil
}

func (r *PostgresRepository) GetWeekByID(ctx context.Context, weekID int64) (*trackerdomain.Week, error) {
	var week trackerdomain.Week
	if err := r.db.WithContext(ctx).
		Where("id = ?", weekID).
		First(&week).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trackerdomain.ErrWeekNotFound
		}
		return nil, err
	}
	return &week, nil
}

func (r *PostgresRepository) GetWeekByStartDate(ctx context.Context, start dates.Date) (*trackerdomain.Week, error) {
	var week trackerdomain.Week
	if err := r.db.WithContext(ctx).
		Where("week_start_date = ?", start).
		First(&week).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trackerdomain.ErrWeekNotFound
		}
		return nil, err
	}
	return &week, nil
}

func (r *PostgresRepository) CreateWeek(ctx context.Context, week *trackerdomain.Week) error {
	if err := r.db.WithContext(ctx).Create(week).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return trackerdomain.ErrDuplicateWeek
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) DeleteWeek(ctx context.Context, weekID int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&trackerdomain.Week{}, "id = ?", weekID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListItemsByWeek(ctx context.Context, weekID int64) ([]trackerdomain.WeeklyItem, error) {
	items := []trackerdomain.WeeklyItem{}
	if err := r.db.WithContext(ctx).
		Where("week_id = ?", weekID).
		Order("order_index asc, id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) CountItemsByWeek(ctx context.Context, weekID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trackerdomain.WeeklyItem{}).
		Where("week_id = ?", weekID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) GetItemByID(ctx context.Context, itemID int64) (*trackerdomain.WeeklyItem, error) {
	var item trackerdomain.WeeklyItem
	if err := r.db.WithContext(ctx).
		Where("id = ?", itemID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trackerdomain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) CreateItem(ctx context.Context, item *trackerdomain.WeeklyItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresRepository) UpdateItem(ctx context.Context, item *trackerdomain.WeeklyItem) error {
	result := r.db.WithContext(ctx).
		Model(&trackerdomain.WeeklyItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"name":        item.Name,
			"category":    item.Category,
			"order_index": item.OrderIndex,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return trackerdomain.ErrItemNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, itemID int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&trackerdomain.WeeklyItem{}, "id = ?", itemID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeleteItemsByWeek(ctx context.Context, weekID int64) error {
	return r.db.WithContext(ctx).
		Where("week_id = ?", weekID).
		Delete(&trackerdomain.WeeklyItem{}).Error
}

func (r *PostgresRepository) ListChecks(ctx context.Context, itemIDs []int64, from, to dates.Date) ([]trackerdomain.DailyCheck, error) {
	checks := []trackerdomain.DailyCheck{}
	if len(itemIDs) == 0 {
		return checks, nil
	}
	if err := r.db.WithContext(ctx).
		Where("weekly_item_id IN ? AND date BETWEEN ? AND ?", itemIDs, from, to).
		Find(&checks).Error; err != nil {
		return nil, err
	}
	return checks, nil
}

func (r *PostgresRepository) GetCheck(ctx context.Context, itemID int64, date dates.Date) (*trackerdomain.DailyCheck, error) {
	var check trackerdomain.DailyCheck
	if err := r.db.WithContext(ctx).
		Where("weekly_item_id = ? AND date = ?", itemID, date).
		First(&check).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trackerdomain.ErrCheckNotFound
		}
		return nil, err
	}
	return &check, nil
}

func (r *PostgresRepository) CreateCheck(ctx context.Context, check *trackerdomain.DailyCheck) error {
	return r.db.WithContext(ctx).Create(check).Error
}

func (r *PostgresRepository) UpdateCheck(ctx context.Context, check *trackerdomain.DailyCheck) error {
	return r.db.WithContext(ctx).
		Model(&trackerdomain.DailyCheck{}).
		Where("id = ?", check.ID).
		Updates(map[string]interface{}{
			"status":  check.Status,
			"minutes": check.Minutes,
			"note":    check.Note,
		}).Error
}

func (r *PostgresRepository) DeleteChecksByItems(ctx context.Context, itemIDs []int64) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("weekly_item_id IN ?", itemIDs).
		Delete(&trackerdomain.DailyCheck{}).Error
}
