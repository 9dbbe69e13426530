package handlers

import (
	"errors"
	"io"
	"net/http"

	"lumen/internal/app"
	"lumen/internal/handlers/middleware"
	"lumen/internal/types"
	"lumen/internal/validation"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MaxIDImageSize = 5 * 1024 * 1024
	IDImageField   = "file"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(app.Middleware.TraceID())
	setupWebSocketRoute(router, app)

	api := router.Group("/api")
	HealthHandler(api, app.Config)

	v1 := api.Group("/v1")
	NewRoomHandler(*app, v1).Register()
	NewBookingHandler(*app, v1).Register()
	NewServiceRequestHandler(*app, v1).Register()
	NewAdminHandler(*app, v1).Register()
	NewAIHandler(*app, v1).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}

// respondError maps domain errors onto HTTP statuses. Unexpected errors are
// logged and answered with the generic message only.
func respondError(c *fiber.Ctx, log logger.Logger, err error, message string) error {
	var fraudErr *types.FraudRejectionError
	var validationErr *validation.RequestValidationError

	switch {
	case errors.As(err, &fraudErr):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message":    "Security Verification Failed",
			"reason":     fraudErr.Reason,
			"fraudScore": fraudErr.Score,
		})
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  validationErr.Error(),
			"fields": validationErr.Fields,
		})
	case errors.Is(err, types.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": types.Message(err),
		})
	case errors.Is(err, types.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": types.Message(err),
		})
	case errors.Is(err, types.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": types.Message(err),
		})
	default:
		log.Er(message, err, "path", c.Path())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": message,
		})
	}
}

func parseID(c *fiber.Ctx, param, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, types.Validationf("Invalid %s ID", label)
	}
	return id, nil
}

func badRequestBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}

// readIDImage loads the uploaded ID document and sniffs its content type.
// Only PNG and JPEG up to MaxIDImageSize are accepted.
func readIDImage(c *fiber.Ctx) ([]byte, string, error) {
	fileHeader, err := c.FormFile(IDImageField)
	if err != nil {
		return nil, "", types.Validationf("ID image file is required")
	}
	if fileHeader.Size > MaxIDImageSize {
		return nil, "", types.Validationf("ID image must be 5MB or smaller")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxIDImageSize+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > MaxIDImageSize {
		return nil, "", types.Validationf("ID image must be 5MB or smaller")
	}

	mimeType := http.DetectContentType(data)
	if mimeType != "image/png" && mimeType != "image/jpeg" {
		return nil, "", types.Validationf("ID image must be a PNG or JPEG")
	}

	return data, mimeType, nil
}
