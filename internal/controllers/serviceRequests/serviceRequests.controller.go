package serviceRequestsController

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"lumen/internal/database"
	"lumen/internal/events"
	"lumen/internal/metrics"
	. "lumen/internal/models"
	"lumen/internal/repositories"
	"lumen/internal/services"
	"lumen/internal/types"
	"lumen/internal/validation"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// MinSentimentLength is the description length, in characters, above which
	// the sentiment model is consulted.
	MinSentimentLength = 5

	PriorityWait = "5 mins (Priority)"
	StandardWait = "15 mins"
)

type CreateServiceRequestRequest struct {
	BookingID   string      `json:"bookingId"   validate:"required,uuid"`
	Type        ServiceType `json:"type"        validate:"required,oneof=FOOD CLEANING TOWELS MAINTENANCE CONCIERGE OTHER"`
	Description string      `json:"description" validate:"max=1000"`
}

type CreateServiceRequestResponse struct {
	Message       string               `json:"message"`
	RequestID     uuid.UUID            `json:"requestId"`
	Status        ServiceRequestStatus `json:"status"`
	Priority      Priority             `json:"priority"`
	EstimatedWait string               `json:"estimatedWait"`
}

type UpdateStatusRequest struct {
	Status ServiceRequestStatus `json:"status" validate:"required,oneof=RECEIVED IN_PROGRESS ON_WAY COMPLETED CANCELLED"`
}

type SeedServiceRequestItem struct {
	BookingID   string               `json:"bookingId"   validate:"required,uuid"`
	Type        ServiceType          `json:"type"        validate:"required,oneof=FOOD CLEANING TOWELS MAINTENANCE CONCIERGE OTHER"`
	Description string               `json:"description" validate:"max=1000"`
	Priority    Priority             `json:"priority"    validate:"omitempty,oneof=LOW NORMAL HIGH"`
	Status      ServiceRequestStatus `json:"status"      validate:"omitempty,oneof=RECEIVED IN_PROGRESS ON_WAY COMPLETED CANCELLED"`
}

type SeedResult struct {
	Count  int               `json:"count"`
	Seeded []*ServiceRequest `json:"seeded"`
}

type DeleteResult struct {
	Deleted int64 `json:"deleted"`
}

type ServiceRequestsControllerInterface interface {
	Create(ctx context.Context, request *CreateServiceRequestRequest) (*CreateServiceRequestResponse, error)
	List(ctx context.Context, serviceType string) ([]*ServiceRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, request *UpdateStatusRequest) (*ServiceRequest, error)
	Seed(ctx context.Context, items []SeedServiceRequestItem) (*SeedResult, error)
	DeleteAll(ctx context.Context) (*DeleteResult, error)
}

type ServiceRequestsController struct {
	bookingRepo  repositories.BookingRepository
	requestRepo  repositories.ServiceRequestRepository
	activityRepo repositories.ActivityLogRepository
	ai           services.AIGateway
	publisher    events.Publisher
	db           database.DB
	log          logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	db database.DB,
) ServiceRequestsControllerInterface {
	return &ServiceRequestsController{
		bookingRepo:  repos.Booking,
		requestRepo:  repos.ServiceRequest,
		activityRepo: repos.ActivityLog,
		ai:           services.AI,
		publisher:    eventBus,
		db:           db,
		log:          logger.New("serviceRequestsController"),
	}
}

func (sc *ServiceRequestsController) Create(
	ctx context.Context,
	request *CreateServiceRequestRequest,
) (*CreateServiceRequestResponse, error) {
	log := sc.log.TraceFromContext(ctx).Function("Create")

	if err := validation.ValidateStruct(request); err != nil {
		return nil, err
	}

	booking, err := sc.getBooking(ctx, uuid.MustParse(request.BookingID))
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(request.Description)
	serviceRequest := &ServiceRequest{
		Type:        request.Type,
		Description: description,
		Priority:    PriorityNormal,
		Status:      ServiceRequestStatusReceived,
		BookingID:   booking.ID,
	}
	if description == "" {
		serviceRequest.Description = fmt.Sprintf("Request for %s", request.Type)
	}

	if utf8.RuneCountInString(description) > MinSentimentLength {
		analysis := sc.ai.AnalyzeSentiment(ctx, description)
		if analysis.IsHighPriority() {
			serviceRequest.Priority = PriorityHigh
		}
		serviceRequest.Sentiment = &analysis.Sentiment
		serviceRequest.AIAnalysis = &analysis.Analysis
	}

	if err := sc.requestRepo.Create(ctx, sc.db.SQL, serviceRequest); err != nil {
		return nil, log.Err("failed to create service request", err, "bookingID", booking.ID)
	}
	serviceRequest.Booking = booking

	sc.notifyNewRequest(ctx, serviceRequest)
	metrics.ServiceRequestsTotal.WithLabelValues(string(serviceRequest.Priority)).Inc()

	estimatedWait := StandardWait
	if serviceRequest.Priority == PriorityHigh {
		estimatedWait = PriorityWait
	}

	log.Info(
		"Service request received",
		"requestID", serviceRequest.ID,
		"bookingID", booking.ID,
		"priority", serviceRequest.Priority,
	)

	return &CreateServiceRequestResponse{
		Message:       "Request received",
		RequestID:     serviceRequest.ID,
		Status:        serviceRequest.Status,
		Priority:      serviceRequest.Priority,
		EstimatedWait: estimatedWait,
	}, nil
}

func (sc *ServiceRequestsController) List(ctx context.Context, serviceType string) ([]*ServiceRequest, error) {
	var filter *ServiceType
	if serviceType != "" {
		t := ServiceType(strings.ToUpper(strings.TrimSpace(serviceType)))
		if !t.IsValid() {
			return nil, types.Validationf("Invalid service type: %s", serviceType)
		}
		filter = &t
	}

	return sc.requestRepo.GetAll(ctx, sc.db.SQL, filter)
}

// UpdateStatus persists the new status and notifies only the guest's booking channel.
func (sc *ServiceRequestsController) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	request *UpdateStatusRequest,
) (*ServiceRequest, error) {
	log := sc.log.TraceFromContext(ctx).Function("UpdateStatus")

	if err := validation.ValidateStruct(request); err != nil {
		return nil, err
	}

	serviceRequest, err := sc.requestRepo.GetByID(ctx, sc.db.SQL, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFoundf("Service request with ID %s not found", id)
		}
		return nil, log.Err("failed to get service request", err, "requestID", id)
	}

	if err := sc.requestRepo.UpdateStatus(ctx, sc.db.SQL, serviceRequest, request.Status); err != nil {
		return nil, log.Err("failed to update status", err, "requestID", id)
	}
	serviceRequest.Status = request.Status

	target := events.StatusUpdateTarget(serviceRequest.BookingID)
	if err := sc.publisher.SendTo(target, events.STATUS_UPDATE, map[string]any{
		"requestId": serviceRequest.ID,
		"bookingId": serviceRequest.BookingID,
		"type":      serviceRequest.Type,
		"status":    serviceRequest.Status,
		"message":   serviceRequest.Status.GuestMessage(),
		"timestamp": time.Now().UTC(),
	}); err != nil {
		log.Er("failed to send status update", err, "requestID", id, "target", target)
	}

	return serviceRequest, nil
}

// Seed loads fixture requests without AI triage or notifications. Items for
// unknown bookings are skipped.
func (sc *ServiceRequestsController) Seed(
	ctx context.Context,
	items []SeedServiceRequestItem,
) (*SeedResult, error) {
	log := sc.log.TraceFromContext(ctx).Function("Seed")

	for i := range items {
		if err := validation.ValidateStruct(&items[i]); err != nil {
			return nil, err
		}
	}

	result := &SeedResult{Seeded: make([]*ServiceRequest, 0, len(items))}
	for _, item := range items {
		bookingID := uuid.MustParse(item.BookingID)
		if _, err := sc.bookingRepo.GetByID(ctx, sc.db.SQL, bookingID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warn("Skipping seed request for unknown booking", "bookingID", bookingID)
				continue
			}
			return nil, log.Err("failed to load booking", err, "bookingID", bookingID)
		}

		serviceRequest := &ServiceRequest{
			Type:        item.Type,
			Description: strings.TrimSpace(item.Description),
			Priority:    item.Priority,
			Status:      item.Status,
			BookingID:   bookingID,
		}
		if serviceRequest.Description == "" {
			serviceRequest.Description = fmt.Sprintf("Request for %s", item.Type)
		}
		if serviceRequest.Priority == "" {
			serviceRequest.Priority = PriorityNormal
		}
		if serviceRequest.Status == "" {
			serviceRequest.Status = ServiceRequestStatusReceived
		}

		if err := sc.requestRepo.Create(ctx, sc.db.SQL, serviceRequest); err != nil {
			return nil, log.Err("failed to seed service request", err, "bookingID", bookingID)
		}
		result.Seeded = append(result.Seeded, serviceRequest)
	}

	result.Count = len(result.Seeded)
	return result, nil
}

func (sc *ServiceRequestsController) DeleteAll(ctx context.Context) (*DeleteResult, error) {
	deleted, err := sc.requestRepo.DeleteAll(ctx, sc.db.SQL)
	if err != nil {
		return nil, err
	}

	sc.log.TraceFromContext(ctx).Function("DeleteAll").Info("Service requests cleared", "deleted", deleted)
	return &DeleteResult{Deleted: deleted}, nil
}

func (sc *ServiceRequestsController) getBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	booking, err := sc.bookingRepo.GetByID(ctx, sc.db.SQL, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFoundf("Booking with ID %s not found", id)
		}
		return nil, sc.log.TraceFromContext(ctx).Function("getBooking").
			Err("failed to get booking", err, "bookingID", id)
	}

	return booking, nil
}

func (sc *ServiceRequestsController) notifyNewRequest(ctx context.Context, serviceRequest *ServiceRequest) {
	log := sc.log.TraceFromContext(ctx).Function("notifyNewRequest")

	var roomNumber, guestName string
	if serviceRequest.Booking.Room != nil {
		roomNumber = serviceRequest.Booking.Room.Number
	}
	if serviceRequest.Booking.Guest != nil {
		guestName = serviceRequest.Booking.Guest.Name
	}

	if err := sc.publisher.Broadcast(events.SERVICE_REQUEST, map[string]any{
		"requestId":   serviceRequest.ID,
		"roomNumber":  roomNumber,
		"guestName":   guestName,
		"type":        serviceRequest.Type,
		"priority":    serviceRequest.Priority,
		"description": serviceRequest.Description,
		"sentiment":   serviceRequest.Sentiment,
		"timestamp":   time.Now().UTC(),
	}); err != nil {
		log.Er("failed to broadcast service request", err, "requestID", serviceRequest.ID)
	}

	entry := &ActivityLog{
		Type: ActivityTypeService,
		Message: fmt.Sprintf(
			"%s priority %s request from room %s",
			serviceRequest.Priority,
			strings.ToLower(string(serviceRequest.Type)),
			roomNumber,
		),
	}
	if err := sc.activityRepo.Create(ctx, sc.db.SQL, entry); err != nil {
		log.Er("failed to record activity", err, "requestID", serviceRequest.ID)
	}
}
