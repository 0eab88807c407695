package scoring

import (
	"space-comply/internal/config"
	"space-comply/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ScoringApi struct {
	controller *ScoringController
	config     *config.Config
}

func NewScoringApi(controller *ScoringController, config *config.Config) *ScoringApi {
	return &ScoringApi{
		controller: controller,
		config:     config,
	}
}

func (h *ScoringApi) Setup(app *fiber.App) {
	compliance := app.Group("/api/compliance", middleware.AuthMiddleware(h.config.SkipAuth))

	compliance.Get("/score", h.controller.GetComplianceScore)
}
