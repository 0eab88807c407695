package document

import (
	"space-comply/internal/config"
	"space-comply/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DocumentApi struct {
	controller *DocumentController
	config     *config.Config
}

func NewDocumentApi(controller *DocumentController, config *config.Config) *DocumentApi {
	return &DocumentApi{
		controller: controller,
		config:     config,
	}
}

func (h *DocumentApi) Setup(app *fiber.App) {
	docs := app.Group("/api/documents", middleware.AuthMiddleware(h.config.SkipAuth))

	docs.Get("/templates/:operatorType", h.controller.ListTemplates)
	docs.Put("/:workflowId/:type/status", h.controller.UpdateDocumentStatus)
	docs.Get("/:workflowId/completeness", h.controller.GetCompletenessReport)
}
