package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityTypeBooking  ActivityType = "BOOKING"
	ActivityTypeAlert    ActivityType = "ALERT"
	ActivityTypeService  ActivityType = "SERVICE"
	ActivityTypeSnapshot ActivityType = "SNAPSHOT"
)

// ActivityLog is append-only; it has no update or soft-delete columns.
type ActivityLog struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey"             json:"id"`
	Message   string       `gorm:"type:text;not null"               json:"message"`
	Type      ActivityType `gorm:"type:text;not null;index"         json:"type"`
	Timestamp time.Time    `gorm:"autoCreateTime;index:,sort:desc" json:"timestamp"`
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		a.ID = id
	}

	if a.Message == "" || a.Type == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}
