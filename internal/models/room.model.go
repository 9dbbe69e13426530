package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RoomType string

const (
	RoomTypeSingle RoomType = "SINGLE"
	RoomTypeDouble RoomType = "DOUBLE"
	RoomTypeSuite  RoomType = "SUITE"
)

func (t RoomType) IsValid() bool {
	switch t {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeSuite:
		return true
	}
	return false
}

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "AVAILABLE"
	RoomStatusOccupied    RoomStatus = "OCCUPIED"
	RoomStatusDirty       RoomStatus = "DIRTY"
	RoomStatusMaintenance RoomStatus = "MAINTENANCE"
)

func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusDirty, RoomStatusMaintenance:
		return true
	}
	return false
}

type Room struct {
	BaseUUIDModel
	Number   string          `gorm:"type:text;not null;uniqueIndex:idx_rooms_number,where:deleted_at IS NULL" json:"number"`
	Type     RoomType        `gorm:"type:text;not null;default:'SINGLE'"                                     json:"type"`
	Price    decimal.Decimal `gorm:"type:numeric(10,2);not null"                                              json:"price"`
	Status   RoomStatus      `gorm:"type:text;not null;default:'AVAILABLE'"                                  json:"status"`
	ImageURL *string         `gorm:"type:text"                                                                json:"imageUrl,omitempty"`
	Bookings []*Booking      `gorm:"foreignKey:RoomID"                                                        json:"bookings,omitempty"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if err := r.AssignID(); err != nil {
		return err
	}

	if r.Type == "" {
		r.Type = RoomTypeSingle
	}
	if r.Status == "" {
		r.Status = RoomStatusAvailable
	}
	return r.validate()
}

func (r *Room) BeforeUpdate(tx *gorm.DB) error {
	return r.validate()
}

func (r *Room) validate() error {
	if r.Number == "" {
		return gorm.ErrInvalidValue
	}
	if !r.Type.IsValid() || !r.Status.IsValid() {
		return gorm.ErrInvalidValue
	}
	if r.Price.IsNegative() {
		return gorm.ErrInvalidValue
	}
	return nil
}
