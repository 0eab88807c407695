package document

import (
	common_models "space-comply/internal/common/models"
	"space-comply/internal/features/workflow"
	"space-comply/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DocumentController struct {
	Service DocumentService
}

func NewDocumentController(service DocumentService) *DocumentController {
	return &DocumentController{Service: service}
}

type updateStatusInput struct {
	Status string `json:"status"`
}

// ListTemplates godoc
// @Summary List document templates for an operator type
// @Tags documents
// @Produce json
// @Param operatorType path string true "Operator type"
// @Success 200 {array} DocumentTemplate
// @Failure 404 {object} map[string]string "Unknown operator type"
// @Router /api/documents/templates/{operatorType} [get]
func (c *DocumentController) ListTemplates(ctx *fiber.Ctx) error {
	operatorType := common_models.OperatorType(ctx.Params("operatorType"))
	if !operatorType.Valid() {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown operator type"})
	}
	return ctx.JSON(c.Service.ListTemplates(operatorType))
}

// UpdateDocumentStatus godoc
// @Summary Update the status of one workflow document
// @Tags documents
// @Accept json
// @Produce json
// @Param workflowId path string true "Workflow ID"
// @Param type path string true "Document type"
// @Param status body updateStatusInput true "New status"
// @Success 200 {object} map[string]string "Document updated"
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /api/documents/{workflowId}/{type}/status [put]
func (c *DocumentController) UpdateDocumentStatus(ctx *fiber.Ctx) error {
	var input updateStatusInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	err := c.Service.UpdateDocumentStatus(ctx.UserContext(), middleware.ActorID(ctx),
		ctx.Params("workflowId"), ctx.Params("type"), workflow.DocumentStatus(input.Status))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"message": "Document updated"})
}

// GetCompletenessReport godoc
// @Summary Document completeness report for a workflow
// @Tags documents
// @Produce json
// @Param workflowId path string true "Workflow ID"
// @Success 200 {object} CompletenessReport
// @Failure 404 {object} map[string]string "Workflow not found"
// @Router /api/documents/{workflowId}/completeness [get]
func (c *DocumentController) GetCompletenessReport(ctx *fiber.Ctx) error {
	report, err := c.Service.CalculateCompletenessReport(ctx.UserContext(), ctx.Params("workflowId"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if report == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Workflow not found"})
	}
	return ctx.JSON(report)
}
