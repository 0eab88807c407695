package incident

import (
	"time"

	"space-comply/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type IncidentController struct {
	Service IncidentService
}

func NewIncidentController(service IncidentService) *IncidentController {
	return &IncidentController{Service: service}
}

type reportIncidentInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Severity    string     `json:"severity"`
	Category    string     `json:"category"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
	DetectedAt  *time.Time `json:"detected_at,omitempty"`
}

// ReportIncident godoc
// @Summary Report an incident
// @Description Classifies the incident and derives its NCA report deadlines
// @Tags incidents
// @Accept json
// @Produce json
// @Param incident body reportIncidentInput true "Incident details"
// @Success 201 {object} Incident
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /api/incidents [post]
func (c *IncidentController) ReportIncident(ctx *fiber.Ctx) error {
	var input reportIncidentInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	inc := &Incident{
		UserID:      middleware.ActorID(ctx),
		Title:       input.Title,
		Description: input.Description,
		Severity:    Severity(input.Severity),
		Category:    input.Category,
	}
	if input.OccurredAt != nil {
		inc.OccurredAt = *input.OccurredAt
	}
	if input.DetectedAt != nil {
		inc.DetectedAt = *input.DetectedAt
	}

	created, err := c.Service.ReportIncident(ctx.UserContext(), inc)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// ListIncidents godoc
// @Summary List the authenticated user's incidents
// @Tags incidents
// @Produce json
// @Success 200 {array} Incident
// @Router /api/incidents [get]
func (c *IncidentController) ListIncidents(ctx *fiber.Ctx) error {
	incidents, err := c.Service.ListIncidents(ctx.UserContext(), middleware.ActorID(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(incidents)
}

// GetIncident godoc
// @Summary Get one incident by reference
// @Tags incidents
// @Produce json
// @Param ref path string true "Incident reference"
// @Success 200 {object} Incident
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /api/incidents/{ref} [get]
func (c *IncidentController) GetIncident(ctx *fiber.Ctx) error {
	inc, err := c.Service.GetIncident(ctx.UserContext(), middleware.ActorID(ctx), ctx.Params("ref"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if inc == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Incident not found"})
	}
	return ctx.JSON(inc)
}

// FileReport godoc
// @Summary Mark one report obligation as filed
// @Tags incidents
// @Param ref path string true "Incident reference"
// @Param kind path string true "Report kind"
// @Success 200 {object} map[string]string "Report filed"
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /api/incidents/{ref}/reports/{kind}/file [post]
func (c *IncidentController) FileReport(ctx *fiber.Ctx) error {
	err := c.Service.FileReport(ctx.UserContext(), middleware.ActorID(ctx), ctx.Params("ref"), ctx.Params("kind"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Report filed"})
}

// ResolveIncident godoc
// @Summary Resolve an incident
// @Tags incidents
// @Param ref path string true "Incident reference"
// @Success 200 {object} map[string]string "Incident resolved"
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /api/incidents/{ref}/resolve [post]
func (c *IncidentController) ResolveIncident(ctx *fiber.Ctx) error {
	err := c.Service.ResolveIncident(ctx.UserContext(), middleware.ActorID(ctx), ctx.Params("ref"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Incident resolved"})
}
