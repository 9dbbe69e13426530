package roomsController

import (
	"context"
	"errors"

	"lumen/internal/database"
	. "lumen/internal/models"
	"lumen/internal/repositories"
	"lumen/internal/services"
	"lumen/internal/types"
	"lumen/internal/validation"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateRoomRequest struct {
	Number   string          `json:"number"   validate:"required,max=20"`
	Type     RoomType        `json:"type"     validate:"omitempty,oneof=SINGLE DOUBLE SUITE"`
	Price    decimal.Decimal `json:"price"    validate:"gte=0"`
	Status   RoomStatus      `json:"status"   validate:"omitempty,oneof=AVAILABLE OCCUPIED DIRTY MAINTENANCE"`
	ImageURL *string         `json:"imageUrl" validate:"omitempty,url"`
}

type UpdateRoomRequest struct {
	Number   *string          `json:"number,omitempty"   validate:"omitempty,min=1,max=20"`
	Type     *RoomType        `json:"type,omitempty"     validate:"omitempty,oneof=SINGLE DOUBLE SUITE"`
	Price    *decimal.Decimal `json:"price,omitempty"    validate:"omitempty,gte=0"`
	Status   *RoomStatus      `json:"status,omitempty"   validate:"omitempty,oneof=AVAILABLE OCCUPIED DIRTY MAINTENANCE"`
	ImageURL *string          `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

type RoomsControllerInterface interface {
	Create(ctx context.Context, request *CreateRoomRequest) (*Room, error)
	Seed(ctx context.Context, requests []CreateRoomRequest) ([]*Room, error)
	List(ctx context.Context) ([]*Room, error)
	ListAvailable(ctx context.Context) ([]*Room, error)
	Get(ctx context.Context, id uuid.UUID) (*Room, error)
	Update(ctx context.Context, id uuid.UUID, request *UpdateRoomRequest) (*Room, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RoomsController struct {
	roomRepo     repositories.RoomRepository
	anomalyCache repositories.AnomalyCacheRepository
	transactor   services.Transactor
	db           database.DB
	log          logger.Logger
}

func New(repos repositories.Repository, services services.Service, db database.DB) RoomsControllerInterface {
	return &RoomsController{
		roomRepo:     repos.Room,
		anomalyCache: repos.AnomalyCache,
		transactor:   services.Transaction,
		db:           db,
		log:          logger.New("roomsController"),
	}
}

func (rc *RoomsController) Create(ctx context.Context, request *CreateRoomRequest) (*Room, error) {
	log := rc.log.TraceFromContext(ctx).Function("Create")

	if err := validation.ValidateStruct(request); err != nil {
		return nil, err
	}

	if err := rc.ensureNumberAvailable(ctx, request.Number, uuid.Nil); err != nil {
		return nil, err
	}

	room := request.toRoom()
	if err := rc.roomRepo.Create(ctx, rc.db.SQL, room); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateNumber(request.Number)
		}
		return nil, log.Err("failed to create room", err, "number", request.Number)
	}

	log.Info("Room created", "roomID", room.ID, "number", room.Number)
	return room, nil
}

func (rc *RoomsController) Seed(ctx context.Context, requests []CreateRoomRequest) ([]*Room, error) {
	log := rc.log.TraceFromContext(ctx).Function("Seed")

	if len(requests) == 0 {
		return nil, types.Validationf("at least one room is required")
	}

	rooms := make([]*Room, 0, len(requests))
	seen := make(map[string]bool, len(requests))
	for i := range requests {
		if err := validation.ValidateStruct(&requests[i]); err != nil {
			return nil, err
		}
		if seen[requests[i].Number] {
			return nil, types.Validationf("room number %s appears more than once", requests[i].Number)
		}
		seen[requests[i].Number] = true
		rooms = append(rooms, requests[i].toRoom())
	}

	err := rc.transactor.Execute(ctx, func(txCtx context.Context, tx *gorm.DB) error {
		return rc.roomRepo.CreateBatch(txCtx, tx, rooms)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.Validationf("one or more room numbers already exist")
		}
		return nil, log.Err("failed to seed rooms", err, "count", len(rooms))
	}

	log.Info("Rooms seeded", "count", len(rooms))
	return rooms, nil
}

func (rc *RoomsController) List(ctx context.Context) ([]*Room, error) {
	return rc.roomRepo.GetAll(ctx, rc.db.SQL)
}

func (rc *RoomsController) ListAvailable(ctx context.Context) ([]*Room, error) {
	return rc.roomRepo.GetAvailable(ctx, rc.db.SQL)
}

func (rc *RoomsController) Get(ctx context.Context, id uuid.UUID) (*Room, error) {
	room, err := rc.roomRepo.GetByID(ctx, rc.db.SQL, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFoundf("Room with ID %s not found", id)
		}
		return nil, rc.log.TraceFromContext(ctx).Function("Get").Err("failed to get room", err, "roomID", id)
	}

	return room, nil
}

func (rc *RoomsController) Update(
	ctx context.Context,
	id uuid.UUID,
	request *UpdateRoomRequest,
) (*Room, error) {
	log := rc.log.TraceFromContext(ctx).Function("Update")

	if err := validation.ValidateStruct(request); err != nil {
		return nil, err
	}

	room, err := rc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if request.Number != nil && *request.Number != room.Number {
		if err := rc.ensureNumberAvailable(ctx, *request.Number, room.ID); err != nil {
			return nil, err
		}
		room.Number = *request.Number
	}
	if request.Type != nil {
		room.Type = *request.Type
	}
	if request.Price != nil {
		room.Price = *request.Price
	}
	if request.Status != nil {
		room.Status = *request.Status
	}
	if request.ImageURL != nil {
		room.ImageURL = request.ImageURL
	}

	if err := rc.roomRepo.Update(ctx, rc.db.SQL, room); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateNumber(room.Number)
		}
		return nil, log.Err("failed to update room", err, "roomID", id)
	}

	rc.invalidateAnomalies(ctx, id)
	return room, nil
}

func (rc *RoomsController) Delete(ctx context.Context, id uuid.UUID) error {
	if err := rc.roomRepo.Delete(ctx, rc.db.SQL, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.NotFoundf("Room with ID %s not found", id)
		}
		return err
	}

	rc.invalidateAnomalies(ctx, id)
	return nil
}

// invalidateAnomalies drops the cached sensor analysis so the dashboard
// re-analyzes the room after it changes.
func (rc *RoomsController) invalidateAnomalies(ctx context.Context, id uuid.UUID) {
	if err := rc.anomalyCache.Invalidate(ctx, id.String()); err != nil {
		rc.log.TraceFromContext(ctx).Function("invalidateAnomalies").
			Debug("anomaly cache not invalidated", "roomID", id, "error", err)
	}
}

func (rc *RoomsController) ensureNumberAvailable(ctx context.Context, number string, ownerID uuid.UUID) error {
	existing, err := rc.roomRepo.GetByNumber(ctx, rc.db.SQL, number)
	switch {
	case err == nil && existing.ID != ownerID:
		return duplicateNumber(number)
	case err == nil, errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return rc.log.TraceFromContext(ctx).Function("ensureNumberAvailable").
			Err("failed to check room number", err, "number", number)
	}
}

func duplicateNumber(number string) error {
	return types.Validationf("Room number %s already exists", number)
}

func (r *CreateRoomRequest) toRoom() *Room {
	room := &Room{
		Number:   r.Number,
		Type:     r.Type,
		Price:    r.Price,
		Status:   r.Status,
		ImageURL: r.ImageURL,
	}
	if room.Type == "" {
		room.Type = RoomTypeSingle
	}
	if room.Status == "" {
		room.Status = RoomStatusAvailable
	}
	return room
}
