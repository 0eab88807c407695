package workflow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	common_models "space-comply/internal/common/models"
	"space-comply/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DocumentSeeder supplies the initial document set for an operator type.
// Implemented by the document template catalog; kept as a local interface so
// this package does not depend on the catalog package.
type DocumentSeeder interface {
	SeedDocuments(operatorType common_models.OperatorType) []Document
}

// StatusInfo is display metadata for the workflow's current state
type StatusInfo struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Phase string `json:"phase"`
}

// WorkflowSummary is the read-model served to clients
type WorkflowSummary struct {
	ID                   string                `json:"id"`
	Status               string                `json:"status"`
	StatusInfo           StatusInfo            `json:"status_info"`
	Progress             int                   `json:"progress"`
	Context              *AuthorizationContext `json:"context"`
	AvailableTransitions []AvailableTransition `json:"available_transitions"`
	IsTerminal           bool                  `json:"is_terminal"`
}

type WorkflowService interface {
	StartWorkflow(ctx context.Context, userID string, operatorType common_models.OperatorType, regulator string, target *time.Time) (*AuthorizationWorkflow, error)
	GetWorkflow(ctx context.Context, id string) (*AuthorizationWorkflow, error)
	ListWorkflows(ctx context.Context, userID string) ([]AuthorizationWorkflow, error)

	// EvaluateWorkflow runs the auto-transition chain for a workflow and
	// persists every hop. Returns nil when the workflow does not exist.
	EvaluateWorkflow(ctx context.Context, workflowID string) (*EvaluationResult, error)

	// ExecuteManualTransition applies one event-triggered transition on
	// behalf of a user. Expected failures (missing workflow, foreign
	// workflow, rejected guard, lost concurrent race) come back in-band.
	ExecuteManualTransition(ctx context.Context, userID, workflowID, event string) (*TransitionResult, error)

	GetWorkflowSummary(ctx context.Context, workflowID string) (*WorkflowSummary, error)
}

type WorkflowServiceImpl struct {
	Repo         WorkflowRepository
	Engine       *Engine
	Seeder       DocumentSeeder
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewWorkflowService(
	repo WorkflowRepository,
	engine *Engine,
	seeder DocumentSeeder,
	auditService audit.AuditService,
	logger *zap.Logger,
) WorkflowService {
	return &WorkflowServiceImpl{
		Repo:         repo,
		Engine:       engine,
		Seeder:       seeder,
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *WorkflowServiceImpl) StartWorkflow(ctx context.Context, userID string, operatorType common_models.OperatorType, regulator string, target *time.Time) (*AuthorizationWorkflow, error) {
	if !operatorType.Valid() {
		return nil, fmt.Errorf("unknown operator type %q", operatorType)
	}
	if regulator == "" {
		return nil, errors.New("primary regulator is required")
	}

	wf := &AuthorizationWorkflow{
		UserID:               userID,
		OperatorType:         operatorType,
		PrimaryRegulator:     regulator,
		Status:               s.Engine.InitialState(),
		TargetSubmissionDate: target,
		Documents:            s.Seeder.SeedDocuments(operatorType),
	}

	if err := s.Repo.Create(ctx, wf); err != nil {
		return nil, err
	}

	s.AuditService.Record(audit.Record{
		UserID:      userID,
		Action:      audit.ActionWorkflowStarted,
		EntityType:  "authorization_workflow",
		EntityID:    wf.ID.Hex(),
		NewValue:    wf.Status,
		Description: fmt.Sprintf("Authorization workflow started for %s with %s", operatorType, regulator),
	})

	// The seeded document set makes the not_started guard pass immediately
	if _, err := s.EvaluateWorkflow(ctx, wf.ID.Hex()); err != nil {
		return nil, err
	}

	return s.Repo.FindByID(ctx, wf.ID.Hex())
}

func (s *WorkflowServiceImpl) GetWorkflow(ctx context.Context, id string) (*AuthorizationWorkflow, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *WorkflowServiceImpl) ListWorkflows(ctx context.Context, userID string) ([]AuthorizationWorkflow, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *WorkflowServiceImpl) EvaluateWorkflow(ctx context.Context, workflowID string) (*EvaluationResult, error) {
	wf, err := s.Repo.FindByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, nil
	}

	authCtx := BuildContextFrom(wf)
	result, err := s.Engine.EvaluateTransitions(wf.Status, authCtx)
	if err != nil {
		return nil, err
	}
	if !result.Transitioned {
		return result, nil
	}

	// Persist each hop in sequence with a CAS on the previous state. A lost
	// swap means a concurrent caller already moved the workflow; the chain
	// simply stops there.
	applied := &EvaluationResult{FinalState: wf.Status}
	for _, tr := range result.Transitions {
		swapped, err := s.Repo.CompareAndSwapStatus(ctx, workflowID, tr.From, tr.To, s.timestampUpdates(wf, tr.To))
		if err != nil {
			return nil, err
		}
		if !swapped {
			break
		}

		applied.Transitioned = true
		applied.Transitions = append(applied.Transitions, tr)
		applied.FinalState = tr.To

		s.AuditService.Record(audit.Record{
			UserID:        wf.UserID,
			Action:        audit.ActionStateTransition,
			EntityType:    "authorization_workflow",
			EntityID:      workflowID,
			PreviousValue: tr.From,
			NewValue:      tr.To,
			Description:   "Automatic transition",
		})
	}

	return applied, nil
}

func (s *WorkflowServiceImpl) ExecuteManualTransition(ctx context.Context, userID, workflowID, event string) (*TransitionResult, error) {
	now := time.Now().UTC()

	wf, err := s.Repo.FindByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return &TransitionResult{Success: false, Event: event, Error: "workflow not found", Timestamp: now}, nil
	}
	if wf.UserID != userID {
		return &TransitionResult{
			Success: false, From: wf.Status, To: wf.Status, Event: event,
			Error: "Unauthorized", Timestamp: now,
		}, nil
	}

	authCtx := BuildContextFrom(wf)
	result := s.Engine.ExecuteTransition(wf.Status, event, authCtx)
	if !result.Success {
		return &result, nil
	}

	swapped, err := s.Repo.CompareAndSwapStatus(ctx, workflowID, result.From, result.To, s.timestampUpdates(wf, result.To))
	if err != nil {
		return nil, err
	}
	if !swapped {
		return &TransitionResult{
			Success: false, From: wf.Status, To: wf.Status, Event: event,
			Error: "workflow was modified concurrently, please retry", Timestamp: now,
		}, nil
	}

	s.AuditService.Record(audit.Record{
		UserID:        userID,
		Action:        audit.ActionStateTransition,
		EntityType:    "authorization_workflow",
		EntityID:      workflowID,
		PreviousValue: result.From,
		NewValue:      result.To,
		Description:   fmt.Sprintf("Manual transition %q", event),
	})
	s.Logger.Info("workflow transition executed",
		zap.String("workflow_id", workflowID),
		zap.String("event", event),
		zap.String("from", result.From),
		zap.String("to", result.To))

	// Follow-up auto-transitions from the new state, if any
	if _, err := s.EvaluateWorkflow(ctx, workflowID); err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *WorkflowServiceImpl) GetWorkflowSummary(ctx context.Context, workflowID string) (*WorkflowSummary, error) {
	wf, err := s.Repo.FindByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, nil
	}

	authCtx := BuildContextFrom(wf)

	info := StatusInfo{}
	if state, ok := s.Engine.State(wf.Status); ok {
		info = StatusInfo{Label: state.Label, Color: state.Color, Icon: state.Icon, Phase: state.Phase}
	}

	return &WorkflowSummary{
		ID:                   wf.ID.Hex(),
		Status:               wf.Status,
		StatusInfo:           info,
		Progress:             happyPathProgress(wf.Status),
		Context:              authCtx,
		AvailableTransitions: s.Engine.AvailableTransitions(wf.Status, authCtx),
		IsTerminal:           s.Engine.IsTerminalState(wf.Status),
	}, nil
}

// timestampUpdates returns the lifecycle timestamps to set on entering a
// state. Each is written only when still unset, so re-entering a state never
// overwrites the original timestamp.
func (s *WorkflowServiceImpl) timestampUpdates(wf *AuthorizationWorkflow, toState string) bson.M {
	now := time.Now().UTC()
	set := bson.M{}

	switch toState {
	case StateInProgress:
		if wf.StartedAt == nil {
			set["started_at"] = now
		}
	case StateSubmitted:
		if wf.SubmittedAt == nil {
			set["submitted_at"] = now
		}
	case StateApproved:
		if wf.ApprovedAt == nil {
			set["approved_at"] = now
		}
	case StateRejected:
		if wf.RejectedAt == nil {
			set["rejected_at"] = now
		}
	}

	return set
}

// happyPathProgress maps a state to its position on the fixed happy path.
// States off the path report 0.
func happyPathProgress(state string) int {
	for i, id := range HappyPath {
		if id == state {
			return int(math.Round(float64(i) / float64(len(HappyPath)-1) * 100))
		}
	}
	return 0
}
