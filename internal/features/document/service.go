package document

import (
	"context"
	"fmt"
	"time"

	common_models "space-comply/internal/common/models"
	"space-comply/internal/features/audit"
	"space-comply/internal/features/workflow"

	"go.uber.org/zap"
)

type DocumentService interface {
	// UpdateDocumentStatus mutates one document and re-evaluates the owning
	// workflow, since document progress is what drives the auto-transitions.
	UpdateDocumentStatus(ctx context.Context, userID, workflowID, docType string, status workflow.DocumentStatus) error

	// CalculateCompletenessReport returns nil when the workflow does not exist
	CalculateCompletenessReport(ctx context.Context, workflowID string) (*CompletenessReport, error)

	ListTemplates(operatorType common_models.OperatorType) []DocumentTemplate
}

type DocumentServiceImpl struct {
	Catalog         *TemplateCatalog
	Engine          *CompletenessEngine
	WorkflowRepo    workflow.WorkflowRepository
	WorkflowService workflow.WorkflowService
	AuditService    audit.AuditService
	Logger          *zap.Logger
}

func NewDocumentService(
	catalog *TemplateCatalog,
	engine *CompletenessEngine,
	workflowRepo workflow.WorkflowRepository,
	workflowService workflow.WorkflowService,
	auditService audit.AuditService,
	logger *zap.Logger,
) DocumentService {
	return &DocumentServiceImpl{
		Catalog:         catalog,
		Engine:          engine,
		WorkflowRepo:    workflowRepo,
		WorkflowService: workflowService,
		AuditService:    auditService,
		Logger:          logger,
	}
}

func (s *DocumentServiceImpl) UpdateDocumentStatus(ctx context.Context, userID, workflowID, docType string, status workflow.DocumentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown document status %q", status)
	}

	wf, err := s.WorkflowRepo.FindByID(ctx, workflowID)
	if err != nil {
		return err
	}
	if wf == nil {
		return fmt.Errorf("workflow %s not found", workflowID)
	}
	if wf.UserID != userID {
		return fmt.Errorf("workflow %s does not belong to the acting user", workflowID)
	}

	var previous workflow.DocumentStatus
	found := false
	for _, doc := range wf.Documents {
		if doc.Type == docType {
			previous = doc.Status
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("document %q not found on workflow %s", docType, workflowID)
	}

	var completedAt *time.Time
	if status.IsReady() {
		now := time.Now().UTC()
		completedAt = &now
	}

	updated, err := s.WorkflowRepo.UpdateDocumentStatus(ctx, workflowID, docType, status, completedAt)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("document %q not found on workflow %s", docType, workflowID)
	}

	s.AuditService.Record(audit.Record{
		UserID:        userID,
		Action:        audit.ActionDocumentUpdated,
		EntityType:    "document",
		EntityID:      fmt.Sprintf("%s/%s", workflowID, docType),
		PreviousValue: string(previous),
		NewValue:      string(status),
		Description:   "Document status updated",
	})

	// Document progress may have made an auto-transition eligible
	if _, err := s.WorkflowService.EvaluateWorkflow(ctx, workflowID); err != nil {
		return err
	}

	return nil
}

func (s *DocumentServiceImpl) CalculateCompletenessReport(ctx context.Context, workflowID string) (*CompletenessReport, error) {
	return s.Engine.CalculateReport(ctx, workflowID)
}

func (s *DocumentServiceImpl) ListTemplates(operatorType common_models.OperatorType) []DocumentTemplate {
	return s.Catalog.TemplatesFor(operatorType)
}
