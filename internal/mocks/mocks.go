// Package mocks holds testify fakes for the repository, AI, event and mail
// interfaces the controllers depend on.
package mocks

import (
	"context"

	"lumen/internal/events"
	"lumen/internal/models"
	"lumen/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type RoomRepository struct{ mock.Mock }

func (m *RoomRepository) Create(ctx context.Context, tx *gorm.DB, room *models.Room) error {
	return m.Called(ctx, tx, room).Error(0)
}

func (m *RoomRepository) CreateBatch(ctx context.Context, tx *gorm.DB, rooms []*models.Room) error {
	return m.Called(ctx, tx, rooms).Error(0)
}

func (m *RoomRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*models.Room, error) {
	args := m.Called(ctx, tx)
	rooms, _ := args.Get(0).([]*models.Room)
	return rooms, args.Error(1)
}

func (m *RoomRepository) GetAvailable(ctx context.Context, tx *gorm.DB) ([]*models.Room, error) {
	args := m.Called(ctx, tx)
	rooms, _ := args.Get(0).([]*models.Room)
	return rooms, args.Error(1)
}

func (m *RoomRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Room, error) {
	args := m.Called(ctx, tx, id)
	room, _ := args.Get(0).(*models.Room)
	return room, args.Error(1)
}

func (m *RoomRepository) GetByNumber(ctx context.Context, tx *gorm.DB, number string) (*models.Room, error) {
	args := m.Called(ctx, tx, number)
	room, _ := args.Get(0).(*models.Room)
	return room, args.Error(1)
}

func (m *RoomRepository) Update(ctx context.Context, tx *gorm.DB, room *models.Room) error {
	return m.Called(ctx, tx, room).Error(0)
}

func (m *RoomRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return m.Called(ctx, tx, id).Error(0)
}

func (m *RoomRepository) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RoomRepository) CountByStatus(ctx context.Context, tx *gorm.DB, status models.RoomStatus) (int64, error) {
	args := m.Called(ctx, tx, status)
	return args.Get(0).(int64), args.Error(1)
}

type UserRepository struct{ mock.Mock }

func (m *UserRepository) FindOrCreateByEmail(
	ctx context.Context,
	tx *gorm.DB,
	name, email string,
	role models.UserRole,
) (*models.User, error) {
	args := m.Called(ctx, tx, name, email, role)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	args := m.Called(ctx, tx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type BookingRepository struct{ mock.Mock }

func (m *BookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return m.Called(ctx, tx, booking).Error(0)
}

func (m *BookingRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, tx, id)
	booking, _ := args.Get(0).(*models.Booking)
	return booking, args.Error(1)
}

func (m *BookingRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*models.Booking, error) {
	args := m.Called(ctx, tx)
	bookings, _ := args.Get(0).([]*models.Booking)
	return bookings, args.Error(1)
}

func (m *BookingRepository) CountByStatus(
	ctx context.Context,
	tx *gorm.DB,
	status models.BookingStatus,
) (int64, error) {
	args := m.Called(ctx, tx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *BookingRepository) SumRevenueByStatus(
	ctx context.Context,
	tx *gorm.DB,
	status models.BookingStatus,
) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, status)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type ServiceRequestRepository struct{ mock.Mock }

func (m *ServiceRequestRepository) Create(ctx context.Context, tx *gorm.DB, request *models.ServiceRequest) error {
	return m.Called(ctx, tx, request).Error(0)
}

func (m *ServiceRequestRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*models.ServiceRequest, error) {
	args := m.Called(ctx, tx, id)
	request, _ := args.Get(0).(*models.ServiceRequest)
	return request, args.Error(1)
}

func (m *ServiceRequestRepository) GetAll(
	ctx context.Context,
	tx *gorm.DB,
	serviceType *models.ServiceType,
) ([]*models.ServiceRequest, error) {
	args := m.Called(ctx, tx, serviceType)
	requests, _ := args.Get(0).([]*models.ServiceRequest)
	return requests, args.Error(1)
}

func (m *ServiceRequestRepository) UpdateStatus(
	ctx context.Context,
	tx *gorm.DB,
	request *models.ServiceRequest,
	status models.ServiceRequestStatus,
) error {
	return m.Called(ctx, tx, request, status).Error(0)
}

func (m *ServiceRequestRepository) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(int64), args.Error(1)
}

type ActivityLogRepository struct{ mock.Mock }

func (m *ActivityLogRepository) Create(ctx context.Context, tx *gorm.DB, entry *models.ActivityLog) error {
	return m.Called(ctx, tx, entry).Error(0)
}

func (m *ActivityLogRepository) GetRecent(
	ctx context.Context,
	tx *gorm.DB,
	limit int,
) ([]*models.ActivityLog, error) {
	args := m.Called(ctx, tx, limit)
	entries, _ := args.Get(0).([]*models.ActivityLog)
	return entries, args.Error(1)
}

type AnomalyCacheRepository struct{ mock.Mock }

func (m *AnomalyCacheRepository) Get(ctx context.Context, roomKey string, result any) (bool, error) {
	args := m.Called(ctx, roomKey, result)
	return args.Bool(0), args.Error(1)
}

func (m *AnomalyCacheRepository) Set(ctx context.Context, roomKey string, value any) error {
	return m.Called(ctx, roomKey, value).Error(0)
}

func (m *AnomalyCacheRepository) Invalidate(ctx context.Context, roomKey string) error {
	return m.Called(ctx, roomKey).Error(0)
}

type AIGateway struct{ mock.Mock }

func (m *AIGateway) AnalyzeID(ctx context.Context, image []byte, mimeType string) services.IDAnalysis {
	return m.Called(ctx, image, mimeType).Get(0).(services.IDAnalysis)
}

func (m *AIGateway) CheckBookingFraud(ctx context.Context, input services.FraudCheckInput) services.FraudAnalysis {
	return m.Called(ctx, input).Get(0).(services.FraudAnalysis)
}

func (m *AIGateway) AnalyzeSentiment(ctx context.Context, text string) services.SentimentAnalysis {
	return m.Called(ctx, text).Get(0).(services.SentimentAnalysis)
}

func (m *AIGateway) AnalyzeIoTData(ctx context.Context, payload services.IoTPayload) services.IoTAnalysis {
	return m.Called(ctx, payload).Get(0).(services.IoTAnalysis)
}

func (m *AIGateway) ChatWithConcierge(ctx context.Context, message, guestContext string) services.ConciergeReply {
	return m.Called(ctx, message, guestContext).Get(0).(services.ConciergeReply)
}

type Publisher struct{ mock.Mock }

func (m *Publisher) Broadcast(eventType events.MessageType, data map[string]any) error {
	return m.Called(eventType, data).Error(0)
}

func (m *Publisher) SendTo(target string, eventType events.MessageType, data map[string]any) error {
	return m.Called(target, eventType, data).Error(0)
}

type Mailer struct{ mock.Mock }

func (m *Mailer) SendBookingConfirmation(ctx context.Context, confirmation services.BookingConfirmation) error {
	return m.Called(ctx, confirmation).Error(0)
}

// Transactor runs the callback directly with a nil transaction handle.
type Transactor struct {
	Calls int
}

func (t *Transactor) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	t.Calls++
	return fn(ctx, nil)
}
