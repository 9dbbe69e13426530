package handlers

import (
	"lumen/internal/app"
	aiController "lumen/internal/controllers/ai"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AIHandler struct {
	Handler
	aiController aiController.AIControllerInterface
}

func NewAIHandler(app app.App, router fiber.Router) *AIHandler {
	log := logger.New("handlers").File("ai_handler")
	return &AIHandler{
		aiController: app.Controllers.AI,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AIHandler) Register() {
	ai := h.router.Group("/ai-test")
	ai.Post("/simulate-booking", h.simulateBooking)
	ai.Post("/analyze-id-only", h.analyzeIDOnly)
	ai.Post("/chat", h.chat)
}

func (h *AIHandler) simulateBooking(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("simulateBooking")

	var req aiController.SimulateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	image, mimeType, err := readIDImage(c)
	if err != nil {
		return respondError(c, log, err, "Failed to read ID image")
	}
	req.IDImage = image
	req.IDMimeType = mimeType

	report, err := h.aiController.SimulateBooking(c.UserContext(), &req)
	if err != nil {
		return respondError(c, log, err, "Failed to simulate booking")
	}

	if report.Blocked() {
		return c.Status(fiber.StatusForbidden).JSON(report)
	}
	return c.JSON(report)
}

func (h *AIHandler) analyzeIDOnly(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("analyzeIDOnly")

	image, mimeType, err := readIDImage(c)
	if err != nil {
		return respondError(c, log, err, "Failed to read ID image")
	}

	analysis, err := h.aiController.AnalyzeIDOnly(c.UserContext(), image, mimeType)
	if err != nil {
		return respondError(c, log, err, "Failed to analyze ID")
	}

	return c.JSON(analysis)
}

func (h *AIHandler) chat(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("chat")

	var req aiController.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	reply, err := h.aiController.Chat(c.UserContext(), &req)
	if err != nil {
		return respondError(c, log, err, "Failed to reach concierge")
	}

	return c.JSON(reply)
}
