package handlers

import (
	"lumen/internal/app"
	bookingsController "lumen/internal/controllers/bookings"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type BookingHandler struct {
	Handler
	bookingsController bookingsController.BookingsControllerInterface
}

func NewBookingHandler(app app.App, router fiber.Router) *BookingHandler {
	log := logger.New("handlers").File("booking_handler")
	return &BookingHandler{
		bookingsController: app.Controllers.Bookings,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *BookingHandler) Register() {
	bookings := h.router.Group("/bookings")
	bookings.Post("", h.createBooking)
	bookings.Post("/seed", h.seedBookings)
	bookings.Get("", h.listBookings)
	bookings.Get("/:id", h.getBooking)
}

func (h *BookingHandler) createBooking(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createBooking")

	var req bookingsController.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	image, mimeType, err := readIDImage(c)
	if err != nil {
		return respondError(c, log, err, "Failed to read ID image")
	}
	req.IDImage = image
	req.IDMimeType = mimeType

	response, err := h.bookingsController.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, log, err, "Failed to create booking")
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *BookingHandler) seedBookings(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("seedBookings")

	var req []bookingsController.SeedBookingItem
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	result, err := h.bookingsController.Seed(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, err, "Failed to seed bookings")
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *BookingHandler) listBookings(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listBookings")

	bookings, err := h.bookingsController.List(c.UserContext())
	if err != nil {
		return respondError(c, log, err, "Failed to get bookings")
	}

	return c.JSON(bookings)
}

func (h *BookingHandler) getBooking(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getBooking")

	id, err := parseID(c, "id", "booking")
	if err != nil {
		return respondError(c, log, err, "Failed to get booking")
	}

	booking, err := h.bookingsController.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, log, err, "Failed to get booking")
	}

	return c.JSON(booking)
}
