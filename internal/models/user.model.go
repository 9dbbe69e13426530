package models

import (
	"strings"

	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleGuest UserRole = "GUEST"
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleStaff UserRole = "STAFF"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleGuest, UserRoleAdmin, UserRoleStaff:
		return true
	}
	return false
}

type User struct {
	BaseUUIDModel
	Name     string     `gorm:"type:text;not null"                  json:"name"`
	Email    string     `gorm:"type:text;not null;uniqueIndex"      json:"email"`
	Role     UserRole   `gorm:"type:text;not null;default:'GUEST'" json:"role"`
	Bookings []*Booking `gorm:"foreignKey:GuestID"                  json:"bookings,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if err := u.AssignID(); err != nil {
		return err
	}

	u.Email = NormalizeEmail(u.Email)
	if u.Email == "" {
		return gorm.ErrInvalidValue
	}
	if u.Role == "" {
		u.Role = UserRoleGuest
	}
	if !u.Role.IsValid() {
		return gorm.ErrInvalidValue
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
