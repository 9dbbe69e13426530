package handlers

import (
	"lumen/internal/app"
	serviceRequestsController "lumen/internal/controllers/serviceRequests"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type ServiceRequestHandler struct {
	Handler
	serviceRequestsController serviceRequestsController.ServiceRequestsControllerInterface
}

func NewServiceRequestHandler(app app.App, router fiber.Router) *ServiceRequestHandler {
	log := logger.New("handlers").File("service_request_handler")
	return &ServiceRequestHandler{
		serviceRequestsController: app.Controllers.ServiceRequests,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ServiceRequestHandler) Register() {
	requests := h.router.Group("/service-requests")
	requests.Post("", h.createServiceRequest)
	requests.Post("/seed", h.seedServiceRequests)
	requests.Get("", h.listServiceRequests)
	requests.Patch("/:id/status", h.middleware.RequireAdmin(), h.updateStatus)
	requests.Delete("", h.middleware.RequireAdmin(), h.deleteAllServiceRequests)
}

func (h *ServiceRequestHandler) createServiceRequest(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createServiceRequest")

	var req serviceRequestsController.CreateServiceRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	response, err := h.serviceRequestsController.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, log, err, "Failed to create service request")
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *ServiceRequestHandler) seedServiceRequests(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("seedServiceRequests")

	var req []serviceRequestsController.SeedServiceRequestItem
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	result, err := h.serviceRequestsController.Seed(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, err, "Failed to seed service requests")
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *ServiceRequestHandler) listServiceRequests(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listServiceRequests")

	requests, err := h.serviceRequestsController.List(c.UserContext(), c.Query("type"))
	if err != nil {
		return respondError(c, log, err, "Failed to get service requests")
	}

	return c.JSON(requests)
}

func (h *ServiceRequestHandler) updateStatus(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateStatus")

	id, err := parseID(c, "id", "service request")
	if err != nil {
		return respondError(c, log, err, "Failed to update service request")
	}

	var req serviceRequestsController.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	request, err := h.serviceRequestsController.UpdateStatus(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to update service request")
	}

	return c.JSON(request)
}

func (h *ServiceRequestHandler) deleteAllServiceRequests(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteAllServiceRequests")

	result, err := h.serviceRequestsController.DeleteAll(c.UserContext())
	if err != nil {
		return respondError(c, log, err, "Failed to delete service requests")
	}

	return c.JSON(result)
}
