package repositories

import (
	"context"

	. "lumen/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type ActivityLogRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *ActivityLog) error
	GetRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*ActivityLog, error)
}

type activityLogRepository struct {
	log logger.Logger
}

func NewActivityLogRepository() ActivityLogRepository {
	return &activityLogRepository{
		log: logger.New("activityLogRepository"),
	}
}

func (r *activityLogRepository) Create(ctx context.Context, tx *gorm.DB, entry *ActivityLog) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return log.Err("failed to append activity log", err, "type", entry.Type)
	}

	return nil
}

func (r *activityLogRepository) GetRecent(
	ctx context.Context,
	tx *gorm.DB,
	limit int,
) ([]*ActivityLog, error) {
	log := r.log.TraceFromContext(ctx).Function("GetRecent")

	var entries []*ActivityLog
	if err := tx.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, log.Err("failed to get activity log", err, "limit", limit)
	}

	return entries, nil
}
