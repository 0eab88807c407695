package workflow

import (
	"space-comply/internal/config"
	"space-comply/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkflowApi struct {
	controller *WorkflowController
	config     *config.Config
}

func NewWorkflowApi(controller *WorkflowController, config *config.Config) *WorkflowApi {
	return &WorkflowApi{
		controller: controller,
		config:     config,
	}
}

func (h *WorkflowApi) Setup(app *fiber.App) {
	workflows := app.Group("/api/workflows", middleware.AuthMiddleware(h.config.SkipAuth))

	workflows.Post("/", h.controller.StartWorkflow)
	workflows.Get("/", h.controller.ListWorkflows)
	workflows.Get("/:id/summary", h.controller.GetWorkflowSummary)
	workflows.Get("/:id/context", h.controller.GetContext)
	workflows.Post("/:id/transition", h.controller.ExecuteTransition)
}
