package handlers

import (
	"lumen/internal/app"
	adminController "lumen/internal/controllers/admin"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	adminController adminController.AdminControllerInterface
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		adminController: app.Controllers.Admin,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin", h.middleware.RequireAdmin())
	admin.Get("/stats", h.getStats)
	admin.Get("/anomalies", h.getAnomalies)
	admin.Get("/anomalies/:roomId", h.getAnomalies)
	admin.Get("/activity", h.getActivity)
}

func (h *AdminHandler) getStats(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getStats")

	stats, err := h.adminController.Stats(c.UserContext())
	if err != nil {
		return respondError(c, log, err, "Failed to get dashboard stats")
	}

	return c.JSON(stats)
}

func (h *AdminHandler) getAnomalies(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getAnomalies")

	report, err := h.adminController.Anomalies(c.UserContext(), c.Params("roomId"))
	if err != nil {
		return respondError(c, log, err, "Failed to analyze sensor data")
	}

	return c.JSON(report)
}

func (h *AdminHandler) getActivity(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getActivity")

	entries, err := h.adminController.Activity(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, log, err, "Failed to get activity")
	}

	return c.JSON(entries)
}
