package aiController

import (
	"context"

	"lumen/internal/services"
	"lumen/internal/types"
	"lumen/internal/validation"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	SimulationComplete = "SIMULATION_COMPLETE"
	DecisionBlock      = "BLOCK BOOKING"
	DecisionApprove    = "APPROVE BOOKING"
)

type SimulateBookingRequest struct {
	GuestName   string `json:"guestName"   form:"guestName"   validate:"required,max=120"`
	GuestEmail  string `json:"guestEmail"  form:"guestEmail"  validate:"required,email"`
	CheckInDate string `json:"checkInDate" form:"checkInDate" validate:"required,datetime=2006-01-02"`
	IDImage     []byte `json:"-"           form:"-"`
	IDMimeType  string `json:"-"           form:"-"`
}

type SimulationReport struct {
	Status        string                 `json:"status"`
	Vision        services.IDAnalysis    `json:"step1_vision_analysis"`
	Fraud         services.FraudAnalysis `json:"step2_fraud_analysis"`
	FinalDecision string                 `json:"final_decision"`
}

func (r *SimulationReport) Blocked() bool {
	return r.FinalDecision == DecisionBlock
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
	Context string `json:"context" validate:"max=2000"`
}

type AIControllerInterface interface {
	SimulateBooking(ctx context.Context, request *SimulateBookingRequest) (*SimulationReport, error)
	AnalyzeIDOnly(ctx context.Context, image []byte, mimeType string) (*services.IDAnalysis, error)
	Chat(ctx context.Context, request *ChatRequest) (*services.ConciergeReply, error)
}

type AIController struct {
	ai  services.AIGateway
	log logger.Logger
}

func New(services services.Service) AIControllerInterface {
	return &AIController{
		ai:  services.AI,
		log: logger.New("aiController"),
	}
}

// SimulateBooking runs the vision and fraud checks of a booking without
// persisting or notifying anything.
func (ac *AIController) SimulateBooking(
	ctx context.Context,
	request *SimulateBookingRequest,
) (*SimulationReport, error) {
	if err := validation.ValidateStruct(request); err != nil {
		return nil, err
	}
	if len(request.IDImage) == 0 {
		return nil, types.Validationf("ID image is required")
	}

	vision := ac.ai.AnalyzeID(ctx, request.IDImage, request.IDMimeType)
	fraud := ac.ai.CheckBookingFraud(ctx, services.FraudCheckInput{
		FormName:        request.GuestName,
		FormEmail:       request.GuestEmail,
		IDExtractedName: vision.ExtractedName,
		IDIsValid:       vision.IsValid,
		CheckInDate:     request.CheckInDate,
	})

	report := &SimulationReport{
		Status:        SimulationComplete,
		Vision:        vision,
		Fraud:         fraud,
		FinalDecision: DecisionApprove,
	}
	if fraud.Blocked() {
		report.FinalDecision = DecisionBlock
	}

	ac.log.TraceFromContext(ctx).Function("SimulateBooking").Info(
		"Booking simulation complete",
		"decision", report.FinalDecision,
		"fraudScore", float64(fraud.FraudScore),
	)

	return report, nil
}

func (ac *AIController) AnalyzeIDOnly(
	ctx context.Context,
	image []byte,
	mimeType string,
) (*services.IDAnalysis, error) {
	if len(image) == 0 {
		return nil, types.Validationf("ID image is required")
	}

	analysis := ac.ai.AnalyzeID(ctx, image, mimeType)
	return &analysis, nil
}

func (ac *AIController) Chat(ctx context.Context, request *ChatRequest) (*services.ConciergeReply, error) {
	if err := validation.ValidateStruct(request); err != nil {
		return nil, err
	}

	reply := ac.ai.ChatWithConcierge(ctx, request.Message, request.Context)
	return &reply, nil
}
