package controllers

import (
	"lumen/config"
	"lumen/internal/database"
	"lumen/internal/events"
	"lumen/internal/repositories"
	"lumen/internal/services"

	adminController "lumen/internal/controllers/admin"
	aiController "lumen/internal/controllers/ai"
	bookingsController "lumen/internal/controllers/bookings"
	roomsController "lumen/internal/controllers/rooms"
	serviceRequestsController "lumen/internal/controllers/serviceRequests"
)

type Controllers struct {
	Rooms           roomsController.RoomsControllerInterface
	Bookings        bookingsController.BookingsControllerInterface
	ServiceRequests serviceRequestsController.ServiceRequestsControllerInterface
	Admin           adminController.AdminControllerInterface
	AI              aiController.AIControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Rooms:           roomsController.New(repos, services, db),
		Bookings:        bookingsController.New(repos, services, eventBus, config, db),
		ServiceRequests: serviceRequestsController.New(repos, services, eventBus, db),
		Admin:           adminController.New(repos, services, db),
		AI:              aiController.New(services),
	}
}
