package bookingsController

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lumen/config"
	"lumen/internal/database"
	"lumen/internal/events"
	"lumen/internal/metrics"
	. "lumen/internal/models"
	"lumen/internal/repositories"
	"lumen/internal/services"
	"lumen/internal/types"
	"lumen/internal/validation"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DateLayout         = "2006-01-02"
	DefaultFraudReason = "Verified by AI"
	BookingKeyPrefix   = "KEY"
	SeedKeyPrefix      = "SEED-KEY"
)

type CreateBookingRequest struct {
	GuestName    string `json:"guestName"    form:"guestName"    validate:"required,max=120"`
	GuestEmail   string `json:"guestEmail"   form:"guestEmail"   validate:"required,email"`
	RoomID       string `json:"roomId"       form:"roomId"       validate:"required,uuid"`
	CheckInDate  string `json:"checkInDate"  form:"checkInDate"  validate:"required,datetime=2006-01-02"`
	CheckOutDate string `json:"checkOutDate" form:"checkOutDate" validate:"required,datetime=2006-01-02"`
	IDImage      []byte `json:"-"            form:"-"`
	IDMimeType   string `json:"-"            form:"-"`
}

type SeedBookingItem struct {
	RoomNumber   string        `json:"roomNumber"   validate:"required"`
	GuestName    string        `json:"guestName"    validate:"required,max=120"`
	GuestEmail   string        `json:"guestEmail"   validate:"required,email"`
	CheckInDate  string        `json:"checkInDate"  validate:"required,datetime=2006-01-02"`
	CheckOutDate string        `json:"checkOutDate" validate:"required,datetime=2006-01-02"`
	Status       BookingStatus `json:"status"       validate:"omitempty,oneof=CONFIRMED CHECKED_IN CHECKED_OUT CANCELLED"`
	FraudScore   *int          `json:"fraudScore"   validate:"omitempty,min=0,max=100"`
	FraudReason  *string       `json:"fraudReason"`
}

// AIReport is stored on the booking and echoed back to the caller.
type AIReport struct {
	Vision services.IDAnalysis    `json:"vision"`
	Fraud  services.FraudAnalysis `json:"fraud"`
}

type CreateBookingResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	BookingID uuid.UUID `json:"bookingId"`
	QRCode    string    `json:"qrCode"`
	AIReport  AIReport  `json:"aiReport"`
}

type SeedResult struct {
	Count  int        `json:"count"`
	Seeded []*Booking `json:"seeded"`
}

type BookingsControllerInterface interface {
	Create(ctx context.Context, request *CreateBookingRequest) (*CreateBookingResponse, error)
	List(ctx context.Context) ([]*Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*Booking, error)
	Seed(ctx context.Context, items []SeedBookingItem) (*SeedResult, error)
}

type BookingsController struct {
	roomRepo     repositories.RoomRepository
	userRepo     repositories.UserRepository
	bookingRepo  repositories.BookingRepository
	activityRepo repositories.ActivityLogRepository
	ai           services.AIGateway
	mailer       services.Mailer
	transactor   services.Transactor
	publisher    events.Publisher
	db           database.DB
	Config       config.Config
	log          logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) BookingsControllerInterface {
	return &BookingsController{
		roomRepo:     repos.Room,
		userRepo:     repos.User,
		bookingRepo:  repos.Booking,
		activityRepo: repos.ActivityLog,
		ai:           services.AI,
		mailer:       services.Email,
		transactor:   services.Transaction,
		publisher:    eventBus,
		db:           db,
		Config:       config,
		log:          logger.New("bookingsController"),
	}
}

// Create runs the vision check, the fraud check and the fraud gate in order,
// then persists the guest and booking together.
func (bc *BookingsController) Create(
	ctx context.Context,
	request *CreateBookingRequest,
) (*CreateBookingResponse, error) {
	log := bc.log.TraceFromContext(ctx).Function("Create")

	if err := validation.ValidateStruct(request); err != nil {
		return nil, err
	}
	if len(request.IDImage) == 0 {
		return nil, types.Validationf("ID image is required")
	}

	checkIn, checkOut, err := parseStay(request.CheckInDate, request.CheckOutDate)
	if err != nil {
		return nil, err
	}
	roomID := uuid.MustParse(request.RoomID)

	vision := bc.ai.AnalyzeID(ctx, request.IDImage, request.IDMimeType)
	fraud := bc.ai.CheckBookingFraud(ctx, services.FraudCheckInput{
		FormName:        request.GuestName,
		FormEmail:       request.GuestEmail,
		IDExtractedName: vision.ExtractedName,
		IDIsValid:       vision.IsValid,
		CheckInDate:     request.CheckInDate,
	})

	if fraud.Blocked() {
		return nil, bc.rejectBooking(ctx, request.GuestName, fraud)
	}

	room, err := bc.roomRepo.GetByID(ctx, bc.db.SQL, roomID)
	if err != nil {
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFoundf("Room not found")
		}
		return nil, log.Err("failed to load room", err, "roomID", roomID)
	}

	report := AIReport{Vision: vision, Fraud: fraud}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, log.Err("failed to marshal ai report", err)
	}

	score := fraud.FraudScore.Int()
	reason := strings.TrimSpace(fraud.Reason)
	if reason == "" {
		reason = DefaultFraudReason
	}

	booking := &Booking{
		CheckInDate:  datatypes.Date(checkIn),
		CheckOutDate: datatypes.Date(checkOut),
		Status:       BookingStatusConfirmed,
		FraudScore:   &score,
		FraudReason:  &reason,
		QRCodeSecret: bookingKey(BookingKeyPrefix+"-"+room.Number),
		AIReport:     datatypes.JSON(reportJSON),
		RoomID:       room.ID,
	}
	if err := booking.AssignID(); err != nil {
		return nil, log.Err("failed to assign booking id", err)
	}

	err = bc.transactor.Execute(ctx, func(txCtx context.Context, tx *gorm.DB) error {
		guest, err := bc.userRepo.FindOrCreateByEmail(
			txCtx,
			tx,
			request.GuestName,
			request.GuestEmail,
			UserRoleGuest,
		)
		if err != nil {
			return err
		}

		booking.GuestID = guest.ID
		booking.Guest = guest
		return bc.bookingRepo.Create(txCtx, tx, booking)
	})
	if err != nil {
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, log.Err("failed to persist booking", err, "roomID", room.ID)
	}
	booking.Room = room

	bc.sendConfirmation(ctx, booking, request)
	bc.notifyNewBooking(ctx, booking, request.GuestName)
	metrics.BookingsTotal.WithLabelValues(metrics.OutcomeConfirmed).Inc()

	log.Info(
		"Booking confirmed",
		"bookingID", booking.ID,
		"roomNumber", room.Number,
		"fraudScore", score,
	)

	return &CreateBookingResponse{
		Success:   true,
		Message:   "Booking Confirmed",
		BookingID: booking.ID,
		QRCode:    booking.QRCodeSecret,
		AIReport:  report,
	}, nil
}

func (bc *BookingsController) List(ctx context.Context) ([]*Booking, error) {
	return bc.bookingRepo.GetAll(ctx, bc.db.SQL)
}

func (bc *BookingsController) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	booking, err := bc.bookingRepo.GetByID(ctx, bc.db.SQL, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFoundf("Booking with ID %s not found", id)
		}
		return nil, bc.log.TraceFromContext(ctx).Function("Get").
			Err("failed to get booking", err, "bookingID", id)
	}

	return booking, nil
}

// Seed loads fixture bookings without AI checks or notifications. Items whose
// room number is unknown are skipped.
func (bc *BookingsController) Seed(ctx context.Context, items []SeedBookingItem) (*SeedResult, error) {
	log := bc.log.TraceFromContext(ctx).Function("Seed")

	for i := range items {
		if err := validation.ValidateStruct(&items[i]); err != nil {
			return nil, err
		}
	}

	result := &SeedResult{Seeded: make([]*Booking, 0, len(items))}
	for _, item := range items {
		checkIn, checkOut, err := parseStay(item.CheckInDate, item.CheckOutDate)
		if err != nil {
			return nil, err
		}

		room, err := bc.roomRepo.GetByNumber(ctx, bc.db.SQL, item.RoomNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warn("Skipping seed booking for unknown room", "roomNumber", item.RoomNumber)
				continue
			}
			return nil, log.Err("failed to load room", err, "roomNumber", item.RoomNumber)
		}

		guest, err := bc.userRepo.FindOrCreateByEmail(
			ctx,
			bc.db.SQL,
			item.GuestName,
			item.GuestEmail,
			UserRoleGuest,
		)
		if err != nil {
			return nil, log.Err("failed to resolve guest", err, "email", item.GuestEmail)
		}

		booking := &Booking{
			CheckInDate:  datatypes.Date(checkIn),
			CheckOutDate: datatypes.Date(checkOut),
			Status:       item.Status,
			FraudScore:   item.FraudScore,
			FraudReason:  item.FraudReason,
			QRCodeSecret: bookingKey(SeedKeyPrefix),
			GuestID:      guest.ID,
			Guest:        guest,
			RoomID:       room.ID,
			Room:         room,
		}
		if booking.Status == "" {
			booking.Status = BookingStatusConfirmed
		}

		if err := bc.bookingRepo.Create(ctx, bc.db.SQL, booking); err != nil {
			return nil, log.Err("failed to seed booking", err, "roomNumber", item.RoomNumber)
		}
		result.Seeded = append(result.Seeded, booking)
	}

	result.Count = len(result.Seeded)
	log.Info("Bookings seeded", "count", result.Count, "requested", len(items))
	return result, nil
}

func (bc *BookingsController) rejectBooking(
	ctx context.Context,
	guestName string,
	fraud services.FraudAnalysis,
) error {
	log := bc.log.TraceFromContext(ctx).Function("rejectBooking")
	score := fraud.FraudScore.Int()

	log.Warn("Booking blocked by fraud gate", "guestName", guestName, "score", score, "reason", fraud.Reason)

	if err := bc.publisher.Broadcast(events.FRAUD_ALERT, map[string]any{
		"message": fmt.Sprintf("Blocked Booking Attempt: %s", guestName),
		"reason":  fraud.Reason,
		"score":   score,
	}); err != nil {
		log.Er("failed to broadcast fraud alert", err)
	}

	bc.recordActivity(ctx, ActivityTypeAlert,
		fmt.Sprintf("Blocked booking attempt by %s (score %d): %s", guestName, score, fraud.Reason))
	metrics.BookingsTotal.WithLabelValues(metrics.OutcomeBlocked).Inc()

	return &types.FraudRejectionError{Score: score, Reason: fraud.Reason}
}

func (bc *BookingsController) sendConfirmation(
	ctx context.Context,
	booking *Booking,
	request *CreateBookingRequest,
) {
	confirmation := services.BookingConfirmation{
		To:           request.GuestEmail,
		GuestName:    request.GuestName,
		BookingKey:   booking.QRCodeSecret,
		RoomType:     string(booking.Room.Type),
		CheckInDate:  request.CheckInDate,
		CheckOutDate: request.CheckOutDate,
		CheckInLink:  bc.checkInLink(booking.ID),
	}

	if err := bc.mailer.SendBookingConfirmation(ctx, confirmation); err != nil {
		bc.log.TraceFromContext(ctx).Function("sendConfirmation").
			Er("failed to send confirmation email", err, "bookingID", booking.ID)
	}
}

func (bc *BookingsController) notifyNewBooking(ctx context.Context, booking *Booking, guestName string) {
	log := bc.log.TraceFromContext(ctx).Function("notifyNewBooking")

	if err := bc.publisher.Broadcast(events.NEW_BOOKING, map[string]any{
		"id":         booking.ID,
		"guestName":  guestName,
		"roomNumber": booking.Room.Number,
		"fraudScore": booking.FraudScore,
		"timestamp":  time.Now().UTC(),
	}); err != nil {
		log.Er("failed to broadcast new booking", err, "bookingID", booking.ID)
	}

	bc.recordActivity(ctx, ActivityTypeBooking,
		fmt.Sprintf("New booking: %s in room %s", guestName, booking.Room.Number))
}

func (bc *BookingsController) recordActivity(ctx context.Context, activityType ActivityType, message string) {
	entry := &ActivityLog{Message: message, Type: activityType}
	if err := bc.activityRepo.Create(ctx, bc.db.SQL, entry); err != nil {
		bc.log.TraceFromContext(ctx).Function("recordActivity").
			Er("failed to record activity", err, "type", activityType)
	}
}

func (bc *BookingsController) checkInLink(bookingID uuid.UUID) string {
	return fmt.Sprintf("%s/guest/stay/%s", strings.TrimRight(bc.Config.PublicAppURL, "/"), bookingID)
}

func bookingKey(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(uuid.NewString()[:8]))
}

func parseStay(checkInDate, checkOutDate string) (time.Time, time.Time, error) {
	checkIn, err := time.Parse(DateLayout, checkInDate)
	if err != nil {
		return time.Time{}, time.Time{}, types.Validationf("checkInDate must be YYYY-MM-DD")
	}

	checkOut, err := time.Parse(DateLayout, checkOutDate)
	if err != nil {
		return time.Time{}, time.Time{}, types.Validationf("checkOutDate must be YYYY-MM-DD")
	}

	if checkOut.Before(checkIn) {
		return time.Time{}, time.Time{}, types.Validationf("checkOutDate must not be before checkInDate")
	}

	return checkIn, checkOut, nil
}
