package repositories

import (
	"context"

	. "lumen/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomRepository interface {
	Create(ctx context.Context, tx *gorm.DB, room *Room) error
	CreateBatch(ctx context.Context, tx *gorm.DB, rooms []*Room) error
	GetAll(ctx context.Context, tx *gorm.DB) ([]*Room, error)
	GetAvailable(ctx context.Context, tx *gorm.DB) ([]*Room, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error)
	GetByNumber(ctx context.Context, tx *gorm.DB, number string) (*Room, error)
	Update(ctx context.Context, tx *gorm.DB, room *Room) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, status RoomStatus) (int64, error)
}

type roomRepository struct {
	log logger.Logger
}

func NewRoomRepository() RoomRepository {
	return &roomRepository{
		log: logger.New("roomRepository"),
	}
}

func (r *roomRepository) Create(ctx context.Context, tx *gorm.DB, room *Room) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Omit("Bookings").Create(room).Error; err != nil {
		return log.Err("failed to create room", err, "number", room.Number)
	}

	return nil
}

func (r *roomRepository) CreateBatch(ctx context.Context, tx *gorm.DB, rooms []*Room) error {
	log := r.log.TraceFromContext(ctx).Function("CreateBatch")

	if len(rooms) == 0 {
		return nil
	}

	if err := tx.WithContext(ctx).Omit("Bookings").Create(&rooms).Error; err != nil {
		return log.Err("failed to create rooms", err, "count", len(rooms))
	}

	return nil
}

func (r *roomRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*Room, error) {
	log := r.log.TraceFromContext(ctx).Function("GetAll")

	var rooms []*Room
	if err := tx.WithContext(ctx).Order("number ASC").Find(&rooms).Error; err != nil {
		return nil, log.Err("failed to get rooms", err)
	}

	return rooms, nil
}

func (r *roomRepository) GetAvailable(ctx context.Context, tx *gorm.DB) ([]*Room, error) {
	log := r.log.TraceFromContext(ctx).Function("GetAvailable")

	var rooms []*Room
	if err := tx.WithContext(ctx).
		Where("status = ?", RoomStatusAvailable).
		Order("number ASC").
		Find(&rooms).Error; err != nil {
		return nil, log.Err("failed to get available rooms", err)
	}

	return rooms, nil
}

func (r *roomRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error) {
	var room Room
	if err := tx.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *roomRepository) GetByNumber(ctx context.Context, tx *gorm.DB, number string) (*Room, error) {
	var room Room
	if err := tx.WithContext(ctx).First(&room, "number = ?", number).Error; err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *roomRepository) Update(ctx context.Context, tx *gorm.DB, room *Room) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := tx.WithContext(ctx).
		Model(room).
		Select("number", "type", "price", "status", "image_url").
		Updates(room).Error; err != nil {
		return log.Err("failed to update room", err, "roomID", room.ID)
	}

	return nil
}

func (r *roomRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.TraceFromContext(ctx).Function("Delete")

	result := tx.WithContext(ctx).Delete(&Room{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete room", result.Error, "roomID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *roomRepository) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("Count")

	var count int64
	if err := tx.WithContext(ctx).Model(&Room{}).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count rooms", err)
	}

	return count, nil
}

func (r *roomRepository) CountByStatus(
	ctx context.Context,
	tx *gorm.DB,
	status RoomStatus,
) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("CountByStatus")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&Room{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count rooms by status", err, "status", status)
	}

	return count, nil
}
