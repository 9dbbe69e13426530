package repositories

import (
	"lumen/internal/database"
)

type Repository struct {
	Room           RoomRepository
	User           UserRepository
	Booking        BookingRepository
	ServiceRequest ServiceRequestRepository
	ActivityLog    ActivityLogRepository
	AnomalyCache   AnomalyCacheRepository
}

func New(db database.DB) Repository {
	return Repository{
		Room:           NewRoomRepository(),
		User:           NewUserRepository(),
		Booking:        NewBookingRepository(),
		ServiceRequest: NewServiceRequestRepository(),
		ActivityLog:    NewActivityLogRepository(),
		AnomalyCache:   NewAnomalyCacheRepository(db.Cache.ClientAPI),
	}
}
