package audit

import (
	"space-comply/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	Service AuditService
}

func NewAuditController(service AuditService) *AuditController {
	return &AuditController{Service: service}
}

// ListRecords godoc
// @Summary List audit trail entries
// @Description Returns the authenticated user's audit trail, newest first
// @Tags audit
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {array} Record
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/audit [get]
func (c *AuditController) ListRecords(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 20))

	records, err := c.Service.ListRecords(ctx.UserContext(), middleware.ActorID(ctx), page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(records)
}
