package handlers

import (
	"lumen/internal/app"
	roomsController "lumen/internal/controllers/rooms"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type RoomHandler struct {
	Handler
	roomsController roomsController.RoomsControllerInterface
}

func NewRoomHandler(app app.App, router fiber.Router) *RoomHandler {
	log := logger.New("handlers").File("room_handler")
	return &RoomHandler{
		roomsController: app.Controllers.Rooms,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RoomHandler) Register() {
	rooms := h.router.Group("/rooms")
	rooms.Post("", h.createRoom)
	rooms.Post("/seed", h.seedRooms)
	rooms.Get("", h.listRooms)
	rooms.Get("/available", h.listAvailableRooms)
	rooms.Get("/:id", h.getRoom)
	rooms.Patch("/:id", h.middleware.RequireAdmin(), h.updateRoom)
	rooms.Delete("/:id", h.middleware.RequireAdmin(), h.deleteRoom)
}

func (h *RoomHandler) createRoom(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createRoom")

	var req roomsController.CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	room, err := h.roomsController.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, log, err, "Failed to create room")
	}

	return c.Status(fiber.StatusCreated).JSON(room)
}

func (h *RoomHandler) seedRooms(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("seedRooms")

	var req []roomsController.CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	rooms, err := h.roomsController.Seed(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, err, "Failed to seed rooms")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"count": len(rooms),
		"rooms": rooms,
	})
}

func (h *RoomHandler) listRooms(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listRooms")

	rooms, err := h.roomsController.List(c.UserContext())
	if err != nil {
		return respondError(c, log, err, "Failed to get rooms")
	}

	return c.JSON(rooms)
}

func (h *RoomHandler) listAvailableRooms(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listAvailableRooms")

	rooms, err := h.roomsController.ListAvailable(c.UserContext())
	if err != nil {
		return respondError(c, log, err, "Failed to get available rooms")
	}

	return c.JSON(rooms)
}

func (h *RoomHandler) getRoom(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getRoom")

	id, err := parseID(c, "id", "room")
	if err != nil {
		return respondError(c, log, err, "Failed to get room")
	}

	room, err := h.roomsController.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, log, err, "Failed to get room")
	}

	return c.JSON(room)
}

func (h *RoomHandler) updateRoom(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateRoom")

	id, err := parseID(c, "id", "room")
	if err != nil {
		return respondError(c, log, err, "Failed to update room")
	}

	var req roomsController.UpdateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	room, err := h.roomsController.Update(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to update room")
	}

	return c.JSON(room)
}

func (h *RoomHandler) deleteRoom(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteRoom")

	id, err := parseID(c, "id", "room")
	if err != nil {
		return respondError(c, log, err, "Failed to delete room")
	}

	if err := h.roomsController.Delete(c.UserContext(), id); err != nil {
		return respondError(c, log, err, "Failed to delete room")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
