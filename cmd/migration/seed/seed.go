package seed

import (
	"context"

	"lumen/config"
	bookingsController "lumen/internal/controllers/bookings"
	roomsController "lumen/internal/controllers/rooms"
	"lumen/internal/database"
	"lumen/internal/events"
	. "lumen/internal/models"
	"lumen/internal/repositories"
	"lumen/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
)

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func rooms() []roomsController.CreateRoomRequest {
	return []roomsController.CreateRoomRequest{
		{Number: "101", Type: RoomTypeSingle, Price: decimal.RequireFromString("129.00")},
		{Number: "102", Type: RoomTypeSingle, Price: decimal.RequireFromString("129.00"), Status: RoomStatusDirty},
		{Number: "201", Type: RoomTypeDouble, Price: decimal.RequireFromString("189.00"), Status: RoomStatusOccupied},
		{Number: "202", Type: RoomTypeDouble, Price: decimal.RequireFromString("189.00")},
		{Number: "204", Type: RoomTypeDouble, Price: decimal.RequireFromString("199.00"), Status: RoomStatusOccupied},
		{Number: "301", Type: RoomTypeSuite, Price: decimal.RequireFromString("349.00"), Status: RoomStatusMaintenance},
		{Number: "302", Type: RoomTypeSuite, Price: decimal.RequireFromString("379.00")},
	}
}

func bookings() []bookingsController.SeedBookingItem {
	return []bookingsController.SeedBookingItem{
		{
			RoomNumber:   "201",
			GuestName:    "Ada Lovelace",
			GuestEmail:   "ada.lovelace@example.com",
			CheckInDate:  "2026-10-16",
			CheckOutDate: "2026-10-20",
			Status:       BookingStatusCheckedIn,
			FraudScore:   intPtr(4),
			FraudReason:  stringPtr("Verified by AI"),
		},
		{
			RoomNumber:   "204",
			GuestName:    "Grace Hopper",
			GuestEmail:   "grace.hopper@example.com",
			CheckInDate:  "2026-10-17",
			CheckOutDate: "2026-10-19",
			FraudScore:   intPtr(12),
			FraudReason:  stringPtr("Verified by AI"),
		},
		{
			RoomNumber:   "302",
			GuestName:    "Alan Turing",
			GuestEmail:   "alan.turing@example.com",
			CheckInDate:  "2026-11-02",
			CheckOutDate: "2026-11-06",
		},
	}
}

// Seed loads sample rooms and bookings through the same controllers the API
// uses, so fixture data passes the same validation.
func Seed(db database.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	ctx := context.Background()
	repos := repositories.New(db)
	svc := services.New(db, config)

	seededRooms, err := roomsController.New(repos, svc, db).Seed(ctx, rooms())
	if err != nil {
		return log.Err("failed to seed rooms", err)
	}
	log.Info("Seeded rooms", "count", len(seededRooms))

	eventBus := events.New(nil)
	defer eventBus.Close()

	result, err := bookingsController.New(repos, svc, eventBus, config, db).Seed(ctx, bookings())
	if err != nil {
		return log.Err("failed to seed bookings", err)
	}
	log.Info("Seeded bookings", "count", result.Count)

	return nil
}
