package workflow

import (
	"time"

	common_models "space-comply/internal/common/models"
	"space-comply/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkflowController struct {
	Service WorkflowService
	Builder *ContextBuilder
}

func NewWorkflowController(service WorkflowService, builder *ContextBuilder) *WorkflowController {
	return &WorkflowController{Service: service, Builder: builder}
}

type startWorkflowInput struct {
	OperatorType         string     `json:"operator_type"`
	PrimaryRegulator     string     `json:"primary_regulator"`
	TargetSubmissionDate *time.Time `json:"target_submission_date,omitempty"`
}

type transitionInput struct {
	Event string `json:"event"`
}

// StartWorkflow godoc
// @Summary Start an authorization workflow
// @Description Creates a workflow seeded with the operator type's document set
// @Tags workflows
// @Accept json
// @Produce json
// @Param workflow body startWorkflowInput true "Workflow parameters"
// @Success 201 {object} AuthorizationWorkflow
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/workflows [post]
func (c *WorkflowController) StartWorkflow(ctx *fiber.Ctx) error {
	var input startWorkflowInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	wf, err := c.Service.StartWorkflow(ctx.UserContext(), middleware.ActorID(ctx),
		common_models.OperatorType(input.OperatorType), input.PrimaryRegulator, input.TargetSubmissionDate)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(wf)
}

// ListWorkflows godoc
// @Summary List the authenticated user's workflows
// @Tags workflows
// @Produce json
// @Success 200 {array} AuthorizationWorkflow
// @Router /api/workflows [get]
func (c *WorkflowController) ListWorkflows(ctx *fiber.Ctx) error {
	workflows, err := c.Service.ListWorkflows(ctx.UserContext(), middleware.ActorID(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(workflows)
}

// GetWorkflowSummary godoc
// @Summary Workflow summary view
// @Description Status metadata, progress, fresh context and available transitions
// @Tags workflows
// @Produce json
// @Param id path string true "Workflow ID"
// @Success 200 {object} WorkflowSummary
// @Failure 404 {object} map[string]string "Workflow not found"
// @Router /api/workflows/{id}/summary [get]
func (c *WorkflowController) GetWorkflowSummary(ctx *fiber.Ctx) error {
	summary, err := c.Service.GetWorkflowSummary(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if summary == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Workflow not found"})
	}
	return ctx.JSON(summary)
}

// GetContext godoc
// @Summary Fresh authorization context for a workflow
// @Description Recomputed from source records on every call; never cached
// @Tags workflows
// @Produce json
// @Param id path string true "Workflow ID"
// @Success 200 {object} AuthorizationContext
// @Failure 404 {object} map[string]string "Workflow not found"
// @Router /api/workflows/{id}/context [get]
func (c *WorkflowController) GetContext(ctx *fiber.Ctx) error {
	authCtx, err := c.Builder.Build(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if authCtx == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Workflow not found"})
	}
	return ctx.JSON(authCtx)
}

// ExecuteTransition godoc
// @Summary Execute a manual workflow transition
// @Tags workflows
// @Accept json
// @Produce json
// @Param id path string true "Workflow ID"
// @Param transition body transitionInput true "Transition event"
// @Success 200 {object} TransitionResult
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 409 {object} TransitionResult "Transition not allowed"
// @Router /api/workflows/{id}/transition [post]
func (c *WorkflowController) ExecuteTransition(ctx *fiber.Ctx) error {
	var input transitionInput
	if err := ctx.BodyParser(&input); err != nil || input.Event == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := c.Service.ExecuteManualTransition(ctx.UserContext(), middleware.ActorID(ctx), ctx.Params("id"), input.Event)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !result.Success {
		return ctx.Status(fiber.StatusConflict).JSON(result)
	}
	return ctx.JSON(result)
}
