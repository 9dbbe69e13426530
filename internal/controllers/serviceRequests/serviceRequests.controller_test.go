package serviceRequestsController

import (
	"context"
	"testing"

	"lumen/internal/events"
	"lumen/internal/mocks"
	. "lumen/internal/models"
	"lumen/internal/services"
	"lumen/internal/types"
	"lumen/internal/validation"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testDeps struct {
	bookings  *mocks.BookingRepository
	requests  *mocks.ServiceRequestRepository
	activity  *mocks.ActivityLogRepository
	ai        *mocks.AIGateway
	publisher *mocks.Publisher
}

func newTestController() (*ServiceRequestsController, *testDeps) {
	deps := &testDeps{
		bookings:  &mocks.BookingRepository{},
		requests:  &mocks.ServiceRequestRepository{},
		activity:  &mocks.ActivityLogRepository{},
		ai:        &mocks.AIGateway{},
		publisher: &mocks.Publisher{},
	}

	return &ServiceRequestsController{
		bookingRepo:  deps.bookings,
		requestRepo:  deps.requests,
		activityRepo: deps.activity,
		ai:           deps.ai,
		publisher:    deps.publisher,
		log:          logger.New("serviceRequestsController"),
	}, deps
}

func testBooking() *Booking {
	return &Booking{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.MustParse("0190b6a4-6f1e-7c3a-9a55-3c1f2d7e8b90")},
		Room:          &Room{Number: "305"},
		Guest:         &User{Name: "Ada Lovelace"},
	}
}

func TestCreate_Priority(t *testing.T) {
	testCases := []struct {
		name          string
		description   string
		aiPriority    string
		expectAICall  bool
		wantPriority  Priority
		wantWait      string
		wantSentiment bool
	}{
		{"ai says high", "The shower is flooding the room!", "HIGH", true, PriorityHigh, PriorityWait, true},
		{"ai says high lower case", "Please hurry, smoke alarm", " high ", true, PriorityHigh, PriorityWait, true},
		{"ai says normal", "Could I get extra pillows", "NORMAL", true, PriorityNormal, StandardWait, true},
		{"ai says low", "No rush on the towels", "LOW", true, PriorityNormal, StandardWait, true},
		{"five characters skips ai", "help!", "", false, PriorityNormal, StandardWait, false},
		{"five runes skips ai", "ááááá", "", false, PriorityNormal, StandardWait, false},
		{"six characters uses ai", "help!!", "HIGH", true, PriorityHigh, PriorityWait, true},
		{"empty description", "", "", false, PriorityNormal, StandardWait, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sc, deps := newTestController()
			ctx := context.Background()
			booking := testBooking()

			deps.bookings.On("GetByID", ctx, mock.Anything, booking.ID).Return(booking, nil)
			deps.requests.On("Create", ctx, mock.Anything, mock.AnythingOfType("*models.ServiceRequest")).Return(nil)
			deps.activity.On("Create", ctx, mock.Anything, mock.AnythingOfType("*models.ActivityLog")).Return(nil)
			deps.publisher.On("Broadcast", events.SERVICE_REQUEST, mock.Anything).Return(nil)
			if tc.expectAICall {
				deps.ai.On("AnalyzeSentiment", ctx, tc.description).Return(services.SentimentAnalysis{
					Sentiment: "NEGATIVE",
					Priority:  tc.aiPriority,
					Analysis:  "guest needs attention",
				})
			}

			response, err := sc.Create(ctx, &CreateServiceRequestRequest{
				BookingID:   booking.ID.String(),
				Type:        ServiceTypeMaintenance,
				Description: tc.description,
			})

			require.NoError(t, err)
			assert.Equal(t, "Request received", response.Message)
			assert.Equal(t, ServiceRequestStatusReceived, response.Status)
			assert.Equal(t, tc.wantPriority, response.Priority)
			assert.Equal(t, tc.wantWait, response.EstimatedWait)

			if !tc.expectAICall {
				deps.ai.AssertNotCalled(t, "AnalyzeSentiment", mock.Anything, mock.Anything)
			}

			persisted := deps.requests.Calls[0].Arguments.Get(2).(*ServiceRequest)
			assert.Equal(t, tc.wantSentiment, persisted.Sentiment != nil)
			if tc.description == "" {
				assert.Equal(t, "Request for MAINTENANCE", persisted.Description)
			}
			deps.publisher.AssertNumberOfCalls(t, "Broadcast", 1)
		})
	}
}

func TestCreate_BookingNotFound(t *testing.T) {
	sc, deps := newTestController()
	ctx := context.Background()
	id := uuid.New()

	deps.bookings.On("GetByID", ctx, mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := sc.Create(ctx, &CreateServiceRequestRequest{BookingID: id.String(), Type: ServiceTypeFood})

	assert.ErrorIs(t, err, types.ErrNotFound)
	deps.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	deps.publisher.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything)
}

func TestCreate_InvalidType(t *testing.T) {
	sc, deps := newTestController()

	_, err := sc.Create(context.Background(), &CreateServiceRequestRequest{
		BookingID: uuid.NewString(),
		Type:      "SPA",
	})

	var validationErr *validation.RequestValidationError
	assert.ErrorAs(t, err, &validationErr)
	deps.bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_TargetsBookingChannelOnly(t *testing.T) {
	sc, deps := newTestController()
	ctx := context.Background()

	bookingID := uuid.MustParse("0190b6a4-6f1e-7c3a-9a55-3c1f2d7e8b90")
	requestID := uuid.New()
	existing := &ServiceRequest{
		BaseUUIDModel: BaseUUIDModel{ID: requestID},
		Type:          ServiceTypeTowels,
		Status:        ServiceRequestStatusReceived,
		BookingID:     bookingID,
	}

	deps.requests.On("GetByID", ctx, mock.Anything, requestID).Return(existing, nil)
	deps.requests.On("UpdateStatus", ctx, mock.Anything, existing, ServiceRequestStatusOnWay).Return(nil)
	deps.publisher.On("SendTo", mock.Anything, events.STATUS_UPDATE, mock.Anything).Return(nil)

	updated, err := sc.UpdateStatus(ctx, requestID, &UpdateStatusRequest{Status: ServiceRequestStatusOnWay})

	require.NoError(t, err)
	assert.Equal(t, ServiceRequestStatusOnWay, updated.Status)

	deps.publisher.AssertNumberOfCalls(t, "SendTo", 1)
	deps.publisher.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything)

	call := deps.publisher.Calls[0]
	assert.Equal(t, "status-update:0190b6a4-6f1e-7c3a-9a55-3c1f2d7e8b90", call.Arguments.String(0))

	payload := call.Arguments.Get(2).(map[string]any)
	assert.Equal(t, requestID, payload["requestId"])
	assert.Equal(t, bookingID, payload["bookingId"])
	assert.Equal(t, ServiceRequestStatusOnWay, payload["status"])
	assert.Equal(t, "Good news! Your request is on its way.", payload["message"])
}

func TestUpdateStatus_Errors(t *testing.T) {
	t.Run("missing request", func(t *testing.T) {
		sc, deps := newTestController()
		ctx := context.Background()
		id := uuid.New()

		deps.requests.On("GetByID", ctx, mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := sc.UpdateStatus(ctx, id, &UpdateStatusRequest{Status: ServiceRequestStatusCompleted})

		assert.ErrorIs(t, err, types.ErrNotFound)
		deps.publisher.AssertNotCalled(t, "SendTo", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid status", func(t *testing.T) {
		sc, deps := newTestController()

		_, err := sc.UpdateStatus(context.Background(), uuid.New(), &UpdateStatusRequest{Status: "LOST"})

		var validationErr *validation.RequestValidationError
		assert.ErrorAs(t, err, &validationErr)
		deps.requests.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestList_TypeFilter(t *testing.T) {
	testCases := []struct {
		name       string
		query      string
		wantFilter *ServiceType
		wantErr    bool
	}{
		{"no filter", "", nil, false},
		{"food", "FOOD", func() *ServiceType { t := ServiceTypeFood; return &t }(), false},
		{"lower case", "towels", func() *ServiceType { t := ServiceTypeTowels; return &t }(), false},
		{"invalid", "SPA", nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sc, deps := newTestController()
			ctx := context.Background()

			deps.requests.On("GetAll", ctx, mock.Anything, tc.wantFilter).Return([]*ServiceRequest{}, nil)

			_, err := sc.List(ctx, tc.query)

			if tc.wantErr {
				assert.ErrorIs(t, err, types.ErrValidation)
				deps.requests.AssertNotCalled(t, "GetAll", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			deps.requests.AssertExpectations(t)
		})
	}
}

func TestSeed_SkipsUnknownBookings(t *testing.T) {
	sc, deps := newTestController()
	ctx := context.Background()

	known := testBooking()
	unknown := uuid.New()

	deps.bookings.On("GetByID", ctx, mock.Anything, known.ID).Return(known, nil)
	deps.bookings.On("GetByID", ctx, mock.Anything, unknown).Return(nil, gorm.ErrRecordNotFound)
	deps.requests.On("Create", ctx, mock.Anything, mock.AnythingOfType("*models.ServiceRequest")).Return(nil)

	result, err := sc.Seed(ctx, []SeedServiceRequestItem{
		{BookingID: known.ID.String(), Type: ServiceTypeFood, Description: "Club sandwich", Priority: PriorityHigh},
		{BookingID: unknown.String(), Type: ServiceTypeCleaning},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, PriorityHigh, result.Seeded[0].Priority)
	assert.Equal(t, ServiceRequestStatusReceived, result.Seeded[0].Status)
	deps.ai.AssertNotCalled(t, "AnalyzeSentiment", mock.Anything, mock.Anything)
}

func TestDeleteAll(t *testing.T) {
	sc, deps := newTestController()
	ctx := context.Background()

	deps.requests.On("DeleteAll", ctx, mock.Anything).Return(int64(4), nil)

	result, err := sc.DeleteAll(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(4), result.Deleted)
}
