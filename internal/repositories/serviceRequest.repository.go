package repositories

import (
	"context"

	. "lumen/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServiceRequestRepository interface {
	Create(ctx context.Context, tx *gorm.DB, request *ServiceRequest) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ServiceRequest, error)
	GetAll(ctx context.Context, tx *gorm.DB, serviceType *ServiceType) ([]*ServiceRequest, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, request *ServiceRequest, status ServiceRequestStatus) error
	DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error)
}

type serviceRequestRepository struct {
	log logger.Logger
}

func NewServiceRequestRepository() ServiceRequestRepository {
	return &serviceRequestRepository{
		log: logger.New("serviceRequestRepository"),
	}
}

func (r *serviceRequestRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	request *ServiceRequest,
) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(request).Error; err != nil {
		return log.Err("failed to create service request", err, "bookingID", request.BookingID)
	}

	return nil
}

func (r *serviceRequestRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*ServiceRequest, error) {
	var request ServiceRequest
	if err := tx.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *serviceRequestRepository) GetAll(
	ctx context.Context,
	tx *gorm.DB,
	serviceType *ServiceType,
) ([]*ServiceRequest, error) {
	log := r.log.TraceFromContext(ctx).Function("GetAll")

	query := tx.WithContext(ctx).
		Preload("Booking.Room").
		Preload("Booking.Guest").
		Order("created_at DESC")
	if serviceType != nil {
		query = query.Where("type = ?", *serviceType)
	}

	var requests []*ServiceRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, log.Err("failed to get service requests", err)
	}

	return requests, nil
}

func (r *serviceRequestRepository) UpdateStatus(
	ctx context.Context,
	tx *gorm.DB,
	request *ServiceRequest,
	status ServiceRequestStatus,
) error {
	log := r.log.TraceFromContext(ctx).Function("UpdateStatus")

	if err := tx.WithContext(ctx).
		Model(request).
		Update("status", status).Error; err != nil {
		return log.Err("failed to update service request status", err, "requestID", request.ID)
	}

	return nil
}

// DeleteAll soft-deletes every service request and reports how many rows changed.
func (r *serviceRequestRepository) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("DeleteAll")

	result := tx.WithContext(ctx).Where("1 = 1").Delete(&ServiceRequest{})
	if result.Error != nil {
		return 0, log.Err("failed to delete service requests", result.Error)
	}

	return result.RowsAffected, nil
}
