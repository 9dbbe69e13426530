package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MinFraudScore = 0
	MaxFraudScore = 100
)

type BookingStatus string

const (
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusCheckedIn  BookingStatus = "CHECKED_IN"
	BookingStatusCheckedOut BookingStatus = "CHECKED_OUT"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusCheckedIn, BookingStatusCheckedOut, BookingStatusCancelled:
		return true
	}
	return false
}

type Booking struct {
	BaseUUIDModel
	CheckInDate  datatypes.Date    `gorm:"type:date;not null"                     json:"checkInDate"`
	CheckOutDate datatypes.Date    `gorm:"type:date;not null"                     json:"checkOutDate"`
	Status       BookingStatus     `gorm:"type:text;not null;default:'CONFIRMED'" json:"status"`
	FraudScore   *int              `gorm:"type:integer"                           json:"fraudScore"`
	FraudReason  *string           `gorm:"type:text"                              json:"fraudReason"`
	QRCodeSecret string            `gorm:"type:text;uniqueIndex"                  json:"qrCodeSecret"`
	AIReport     datatypes.JSON    `gorm:"type:jsonb"                             json:"aiReport,omitempty"`
	GuestID      uuid.UUID         `gorm:"type:uuid;not null;index"               json:"guestId"`
	Guest        *User             `gorm:"foreignKey:GuestID"                     json:"guest,omitempty"`
	RoomID       uuid.UUID         `gorm:"type:uuid;not null;index"               json:"roomId"`
	Room         *Room             `gorm:"foreignKey:RoomID"                      json:"room,omitempty"`
	Requests     []*ServiceRequest `gorm:"foreignKey:BookingID"                   json:"requests,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	return b.AssignID()
}

// BeforeSave runs ahead of BeforeCreate, so defaults are applied here.
func (b *Booking) BeforeSave(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = BookingStatusConfirmed
	}
	if !b.Status.IsValid() {
		return gorm.ErrInvalidValue
	}
	if b.FraudScore != nil && (*b.FraudScore < MinFraudScore || *b.FraudScore > MaxFraudScore) {
		return gorm.ErrInvalidValue
	}
	if b.GuestID == uuid.Nil || b.RoomID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if time.Time(b.CheckOutDate).Before(time.Time(b.CheckInDate)) {
		return gorm.ErrInvalidValue
	}
	return nil
}
