package scoring

import (
	"space-comply/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ScoringController struct {
	Service ScoringService
}

func NewScoringController(service ScoringService) *ScoringController {
	return &ScoringController{Service: service}
}

// GetComplianceScore godoc
// @Summary Compute the compliance score for the authenticated user
// @Description Weighted score across the six regulatory modules with a prioritized recommendation list
// @Tags compliance
// @Produce json
// @Success 200 {object} ComplianceScore
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/compliance/score [get]
func (c *ScoringController) GetComplianceScore(ctx *fiber.Ctx) error {
	score, err := c.Service.CalculateComplianceScore(ctx.UserContext(), middleware.ActorID(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(score)
}
