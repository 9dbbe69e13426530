package repositories

import (
	"context"

	. "lumen/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *Booking) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Booking, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*Booking, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, status BookingStatus) (int64, error)
	SumRevenueByStatus(ctx context.Context, tx *gorm.DB, status BookingStatus) (decimal.Decimal, error)
}

type bookingRepository struct {
	log logger.Logger
}

func NewBookingRepository() BookingRepository {
	return &bookingRepository{
		log: logger.New("bookingRepository"),
	}
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *Booking) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(booking).Error; err != nil {
		return log.Err(
			"failed to create booking",
			err,
			"roomID", booking.RoomID,
			"guestID", booking.GuestID,
		)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Booking, error) {
	var booking Booking
	if err := tx.WithContext(ctx).
		Preload("Guest").
		Preload("Room").
		First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *bookingRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*Booking, error) {
	log := r.log.TraceFromContext(ctx).Function("GetAll")

	var bookings []*Booking
	if err := tx.WithContext(ctx).
		Preload("Guest").
		Preload("Room").
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, log.Err("failed to get bookings", err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByStatus(
	ctx context.Context,
	tx *gorm.DB,
	status BookingStatus,
) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("CountByStatus")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&Booking{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count bookings by status", err, "status", status)
	}

	return count, nil
}

// SumRevenueByStatus adds up the nightly price of the room behind every
// booking in the given status.
func (r *bookingRepository) SumRevenueByStatus(
	ctx context.Context,
	tx *gorm.DB,
	status BookingStatus,
) (decimal.Decimal, error) {
	log := r.log.TraceFromContext(ctx).Function("SumRevenueByStatus")

	var result struct {
		Total decimal.Decimal
	}
	if err := tx.WithContext(ctx).
		Model(&Booking{}).
		Select("COALESCE(SUM(rooms.price), 0) AS total").
		Joins("JOIN rooms ON rooms.id = bookings.room_id AND rooms.deleted_at IS NULL").
		Where("bookings.status = ?", status).
		Scan(&result).Error; err != nil {
		return decimal.Zero, log.Err("failed to sum revenue", err, "status", status)
	}

	return result.Total, nil
}
