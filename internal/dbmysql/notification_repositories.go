package dbmysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"parallel/internal/common"
)

type reminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) common.ReminderRepository {
	return &reminderRepository{
		db: db,
	}
}

func (r *reminderRepository) Create(ctx context.Context, reminders ...*common.Reminder) error {
	if len(reminders) == 0 {
		return nil
	}

	rows := make([]*Reminder, len(reminders))
	for i, rem := range reminders {
		rows[i] = newReminder(rem)
	}

	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return common.WrapStorage("create reminders", err)
	}
	return nil
}

func (r *reminderRepository) ByHandle(ctx context.Context, handle string) ([]*common.Reminder, error) {
	var rows []*Reminder

	if err := r.db.WithContext(ctx).Where("handle = ?", handle).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, common.WrapStorage("get reminders", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("reminder %s %w", handle, common.ErrNotFound)
	}

	return toCommonReminders(rows), nil
}

func (r *reminderRepository) ByUserID(
	ctx context.Context,
	userID string,
	limit, offset int,
) ([]*common.Reminder, error) {
	var rows []*Reminder

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("scheduled_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&rows).Error; err != nil {
		return nil, common.WrapStorage("get user reminders", err)
	}

	return toCommonReminders(rows), nil
}

// Due returns scheduled reminders whose time has come, oldest first.
func (r *reminderRepository) Due(ctx context.Context, before time.Time) ([]*common.Reminder, error) {
	var rows []*Reminder

	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ?", string(common.StatusScheduled), before).
		Order("scheduled_at ASC").
		Find(&rows).Error

	if err != nil {
		return nil, common.WrapStorage("get due reminders", err)
	}

	return toCommonReminders(rows), nil
}

func (r *reminderRepository) UpdateStatus(ctx context.Context, handle, userID string, status common.NotificationStatus) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	if status == common.StatusSent {
		updates["sent_at"] = time.Now()
	}

	result := r.db.WithContext(ctx).
		Model(&Reminder{}).
		Where("handle = ? AND user_id = ?", handle, userID).
		Updates(updates)

	if result.Error != nil {
		return common.WrapStorage("update reminder status", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("reminder %s for %s %w", handle, userID, common.ErrNotFound)
	}

	return nil
}

// Cancel flips every still scheduled row of handle to cancelled and reports
// how many changed.
func (r *reminderRepository) Cancel(ctx context.Context, handle string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Reminder{}).
		Where("handle = ? AND status = ?", handle, string(common.StatusScheduled)).
		Updates(map[string]interface{}{
			"status":     string(common.StatusCancelled),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return 0, common.WrapStorage("cancel reminder", result.Error)
	}
	return result.RowsAffected, nil
}

func toCommonReminders(rows []*Reminder) []*common.Reminder {
	result := make([]*common.Reminder, len(rows))
	for i, row := range rows {
		result[i] = row.toCommon()
	}
	return result
}
