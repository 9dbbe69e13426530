package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceType string

const (
	ServiceTypeFood        ServiceType = "FOOD"
	ServiceTypeCleaning    ServiceType = "CLEANING"
	ServiceTypeTowels      ServiceType = "TOWELS"
	ServiceTypeMaintenance ServiceType = "MAINTENANCE"
	ServiceTypeConcierge   ServiceType = "CONCIERGE"
	ServiceTypeOther       ServiceType = "OTHER"
)

func (t ServiceType) IsValid() bool {
	switch t {
	case ServiceTypeFood, ServiceTypeCleaning, ServiceTypeTowels,
		ServiceTypeMaintenance, ServiceTypeConcierge, ServiceTypeOther:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

type ServiceRequestStatus string

const (
	ServiceRequestStatusReceived   ServiceRequestStatus = "RECEIVED"
	ServiceRequestStatusInProgress ServiceRequestStatus = "IN_PROGRESS"
	ServiceRequestStatusOnWay      ServiceRequestStatus = "ON_WAY"
	ServiceRequestStatusCompleted  ServiceRequestStatus = "COMPLETED"
	ServiceRequestStatusCancelled  ServiceRequestStatus = "CANCELLED"
)

func (s ServiceRequestStatus) IsValid() bool {
	_, ok := statusMessages[s]
	return ok
}

var statusMessages = map[ServiceRequestStatus]string{
	ServiceRequestStatusReceived:   "We've received your request.",
	ServiceRequestStatusInProgress: "Our team is working on your request.",
	ServiceRequestStatusOnWay:      "Good news! Your request is on its way.",
	ServiceRequestStatusCompleted:  "Your request has been completed. Enjoy your stay!",
	ServiceRequestStatusCancelled:  "Your request has been cancelled.",
}

// GuestMessage is the text a guest sees when their request moves to this status.
func (s ServiceRequestStatus) GuestMessage() string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	return "Your request has been updated."
}

type ServiceRequest struct {
	BaseUUIDModel
	Type        ServiceType          `gorm:"type:text;not null"                    json:"type"`
	Description string               `gorm:"type:text;not null"                    json:"description"`
	Priority    Priority             `gorm:"type:text;not null;default:'NORMAL'"   json:"priority"`
	Status      ServiceRequestStatus `gorm:"type:text;not null;default:'RECEIVED'" json:"status"`
	Sentiment   *string              `gorm:"type:text"                             json:"sentiment,omitempty"`
	AIAnalysis  *string              `gorm:"type:text"                             json:"aiAnalysis,omitempty"`
	BookingID   uuid.UUID            `gorm:"type:uuid;not null;index"              json:"bookingId"`
	Booking     *Booking             `gorm:"foreignKey:BookingID"                  json:"booking,omitempty"`
}

func (s *ServiceRequest) BeforeCreate(tx *gorm.DB) error {
	if err := s.AssignID(); err != nil {
		return err
	}

	if s.Priority == "" {
		s.Priority = PriorityNormal
	}
	if s.Status == "" {
		s.Status = ServiceRequestStatusReceived
	}
	if !s.Type.IsValid() || !s.Priority.IsValid() || !s.Status.IsValid() {
		return gorm.ErrInvalidValue
	}
	if s.BookingID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return nil
}
