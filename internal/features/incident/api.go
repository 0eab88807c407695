package incident

import (
	"space-comply/internal/config"
	"space-comply/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type IncidentApi struct {
	controller *IncidentController
	config     *config.Config
}

func NewIncidentApi(controller *IncidentController, config *config.Config) *IncidentApi {
	return &IncidentApi{
		controller: controller,
		config:     config,
	}
}

func (h *IncidentApi) Setup(app *fiber.App) {
	incidents := app.Group("/api/incidents", middleware.AuthMiddleware(h.config.SkipAuth))

	incidents.Post("/", h.controller.ReportIncident)
	incidents.Get("/", h.controller.ListIncidents)
	incidents.Get("/:ref", h.controller.GetIncident)
	incidents.Post("/:ref/reports/:kind/file", h.controller.FileReport)
	incidents.Post("/:ref/resolve", h.controller.ResolveIncident)
}
