package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	common_models "space-comply/internal/common/models"
	"space-comply/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeWorkflowRepository keeps workflows in memory and applies CAS semantics
// the same way the Mongo implementation does.
type fakeWorkflowRepository struct {
	mu        sync.Mutex
	workflows map[string]*AuthorizationWorkflow
	failSwaps bool
}

func newFakeWorkflowRepository() *fakeWorkflowRepository {
	return &fakeWorkflowRepository{workflows: map[string]*AuthorizationWorkflow{}}
}

func (r *fakeWorkflowRepository) Create(ctx context.Context, wf *AuthorizationWorkflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wf.ID.IsZero() {
		wf.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	wf.CreatedAt = now
	wf.UpdatedAt = now
	cp := *wf
	r.workflows[wf.ID.Hex()] = &cp
	return nil
}

func (r *fakeWorkflowRepository) FindByID(ctx context.Context, id string) (*AuthorizationWorkflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wf, ok := r.workflows[id]
	if !ok {
		return nil, nil
	}
	cp := *wf
	cp.Documents = append([]Document(nil), wf.Documents...)
	return &cp, nil
}

func (r *fakeWorkflowRepository) ListByUser(ctx context.Context, userID string) ([]AuthorizationWorkflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []AuthorizationWorkflow
	for _, wf := range r.workflows {
		if wf.UserID == userID {
			out = append(out, *wf)
		}
	}
	return out, nil
}

func (r *fakeWorkflowRepository) LatestByUser(ctx context.Context, userID string) (*AuthorizationWorkflow, error) {
	workflows, _ := r.ListByUser(ctx, userID)
	var latest *AuthorizationWorkflow
	for i := range workflows {
		if latest == nil || workflows[i].CreatedAt.After(latest.CreatedAt) {
			latest = &workflows[i]
		}
	}
	return latest, nil
}

func (r *fakeWorkflowRepository) CompareAndSwapStatus(ctx context.Context, id, from, to string, set bson.M) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSwaps {
		return false, nil
	}
	wf, ok := r.workflows[id]
	if !ok || wf.Status != from {
		return false, nil
	}
	wf.Status = to
	for k, v := range set {
		ts, ok := v.(time.Time)
		if !ok {
			continue
		}
		switch k {
		case "started_at":
			wf.StartedAt = &ts
		case "submitted_at":
			wf.SubmittedAt = &ts
		case "approved_at":
			wf.ApprovedAt = &ts
		case "rejected_at":
			wf.RejectedAt = &ts
		}
	}
	wf.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *fakeWorkflowRepository) UpdateDocumentStatus(ctx context.Context, id, docType string, status DocumentStatus, completedAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wf, ok := r.workflows[id]
	if !ok {
		return false, nil
	}
	for i := range wf.Documents {
		if wf.Documents[i].Type == docType {
			wf.Documents[i].Status = status
			if completedAt != nil {
				wf.Documents[i].CompletedAt = completedAt
			}
			return true, nil
		}
	}
	return false, nil
}

type fakeAuditService struct {
	mu      sync.Mutex
	records []audit.Record
}

func (s *fakeAuditService) Record(rec audit.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

func (s *fakeAuditService) ListRecords(ctx context.Context, userID string, page, limit int64) ([]audit.Record, error) {
	return s.records, nil
}

func (s *fakeAuditService) countAction(action audit.Action) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, rec := range s.records {
		if rec.Action == action {
			n++
		}
	}
	return n
}

type fakeSeeder struct {
	documents []Document
}

func (s *fakeSeeder) SeedDocuments(operatorType common_models.OperatorType) []Document {
	return append([]Document(nil), s.documents...)
}

func newTestService(repo *fakeWorkflowRepository, auditSvc *fakeAuditService, docs []Document) WorkflowService {
	return NewWorkflowService(
		repo,
		MustNewEngine(AuthorizationDefinition()),
		&fakeSeeder{documents: docs},
		auditSvc,
		zap.NewNop(),
	)
}

func TestStartWorkflowSeedsAndAdvances(t *testing.T) {
	repo := newFakeWorkflowRepository()
	auditSvc := &fakeAuditService{}
	svc := newTestService(repo, auditSvc, []Document{
		doc(true, DocumentNotStarted),
		doc(false, DocumentNotStarted),
	})

	wf, err := svc.StartWorkflow(context.Background(), "op-1", common_models.OperatorSatellite, "BNetzA", nil)
	if err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}

	// Seeded documents trigger the automatic move out of not_started
	if wf.Status != StateInProgress {
		t.Errorf("status = %q, want %q", wf.Status, StateInProgress)
	}
	if len(wf.Documents) != 2 {
		t.Errorf("documents = %d, want 2", len(wf.Documents))
	}
	if wf.StartedAt == nil {
		t.Error("startedAt not set on entering in_progress")
	}
	if auditSvc.countAction(audit.ActionWorkflowStarted) != 1 {
		t.Error("workflow start not audited")
	}
}

func TestStartWorkflowRejectsBadInput(t *testing.T) {
	svc := newTestService(newFakeWorkflowRepository(), &fakeAuditService{}, nil)

	if _, err := svc.StartWorkflow(context.Background(), "op-1", "balloon_operator", "BNetzA", nil); err == nil {
		t.Error("expected error for unknown operator type")
	}
	if _, err := svc.StartWorkflow(context.Background(), "op-1", common_models.OperatorSatellite, "", nil); err == nil {
		t.Error("expected error for missing regulator")
	}
}

func TestEvaluateWorkflowChainsToReady(t *testing.T) {
	repo := newFakeWorkflowRepository()
	auditSvc := &fakeAuditService{}
	svc := newTestService(repo, auditSvc, []Document{
		doc(true, DocumentReady),
		doc(true, DocumentApproved),
	})

	wf, err := svc.StartWorkflow(context.Background(), "op-1", common_models.OperatorSatellite, "AEM", nil)
	if err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}

	// All mandatory documents are already ready, so the chain runs
	// not_started -> in_progress -> ready_for_submission in one evaluation.
	if wf.Status != StateReadyForSubmission {
		t.Errorf("status = %q, want %q", wf.Status, StateReadyForSubmission)
	}
	if auditSvc.countAction(audit.ActionStateTransition) != 2 {
		t.Errorf("audited transitions = %d, want 2", auditSvc.countAction(audit.ActionStateTransition))
	}
}

func TestExecuteManualTransition(t *testing.T) {
	repo := newFakeWorkflowRepository()
	svc := newTestService(repo, &fakeAuditService{}, []Document{doc(true, DocumentReady)})

	wf, err := svc.StartWorkflow(context.Background(), "op-1", common_models.OperatorLaunch, "FAA", nil)
	if err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}
	id := wf.ID.Hex()

	t.Run("unauthorized user", func(t *testing.T) {
		result, err := svc.ExecuteManualTransition(context.Background(), "someone-else", id, EventSubmit)
		if err != nil {
			t.Fatalf("ExecuteManualTransition: %v", err)
		}
		if result.Success {
			t.Error("transition by non-owner must not succeed")
		}
		if result.Error != "Unauthorized" {
			t.Errorf("error = %q, want Unauthorized", result.Error)
		}
	})

	t.Run("not found", func(t *testing.T) {
		result, err := svc.ExecuteManualTransition(context.Background(), "op-1", primitive.NewObjectID().Hex(), EventSubmit)
		if err != nil {
			t.Fatalf("ExecuteManualTransition: %v", err)
		}
		if result.Success {
			t.Error("transition on missing workflow must not succeed")
		}
	})

	t.Run("submit succeeds and records timestamp once", func(t *testing.T) {
		result, err := svc.ExecuteManualTransition(context.Background(), "op-1", id, EventSubmit)
		if err != nil {
			t.Fatalf("ExecuteManualTransition: %v", err)
		}
		if !result.Success {
			t.Fatalf("submit failed: %s", result.Error)
		}
		if result.To != StateSubmitted {
			t.Errorf("to = %q, want %q", result.To, StateSubmitted)
		}

		stored, _ := repo.FindByID(context.Background(), id)
		if stored.SubmittedAt == nil {
			t.Fatal("submittedAt not set")
		}
		firstSubmitted := *stored.SubmittedAt

		// Walk the workflow back through the review loop and submit again;
		// the original submission timestamp must survive.
		if _, err := svc.ExecuteManualTransition(context.Background(), "op-1", id, EventBeginReview); err != nil {
			t.Fatalf("begin_review: %v", err)
		}
		if _, err := svc.ExecuteManualTransition(context.Background(), "op-1", id, EventRequestInfo); err != nil {
			t.Fatalf("request_info: %v", err)
		}
		if _, err := svc.ExecuteManualTransition(context.Background(), "op-1", id, EventResubmit); err != nil {
			t.Fatalf("resubmit: %v", err)
		}

		stored, _ = repo.FindByID(context.Background(), id)
		if stored.Status != StateUnderReview {
			t.Errorf("status = %q, want %q", stored.Status, StateUnderReview)
		}
		if stored.SubmittedAt == nil || !stored.SubmittedAt.Equal(firstSubmitted) {
			t.Error("submittedAt was overwritten on re-entry")
		}
	})

	t.Run("approve is terminal", func(t *testing.T) {
		result, err := svc.ExecuteManualTransition(context.Background(), "op-1", id, EventApprove)
		if err != nil {
			t.Fatalf("approve: %v", err)
		}
		if !result.Success {
			t.Fatalf("approve failed: %s", result.Error)
		}

		stored, _ := repo.FindByID(context.Background(), id)
		if stored.ApprovedAt == nil {
			t.Error("approvedAt not set")
		}

		followUp, err := svc.ExecuteManualTransition(context.Background(), "op-1", id, EventSubmit)
		if err != nil {
			t.Fatalf("post-terminal submit: %v", err)
		}
		if followUp.Success {
			t.Error("transition out of terminal state must not succeed")
		}
	})
}

func TestExecuteManualTransitionLostSwap(t *testing.T) {
	repo := newFakeWorkflowRepository()
	svc := newTestService(repo, &fakeAuditService{}, []Document{doc(true, DocumentReady)})

	wf, err := svc.StartWorkflow(context.Background(), "op-1", common_models.OperatorSpaceport, "CAA", nil)
	if err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}

	repo.failSwaps = true

	result, err := svc.ExecuteManualTransition(context.Background(), "op-1", wf.ID.Hex(), EventSubmit)
	if err != nil {
		t.Fatalf("ExecuteManualTransition: %v", err)
	}
	if result.Success {
		t.Error("lost CAS must surface as an in-band failure")
	}

	repo.failSwaps = false
	stored, _ := repo.FindByID(context.Background(), wf.ID.Hex())
	if stored.Status != StateReadyForSubmission {
		t.Errorf("status = %q, want unchanged %q", stored.Status, StateReadyForSubmission)
	}
}

func TestGetWorkflowSummary(t *testing.T) {
	repo := newFakeWorkflowRepository()
	svc := newTestService(repo, &fakeAuditService{}, []Document{
		doc(true, DocumentReady),
		doc(true, DocumentNotStarted),
	})

	wf, err := svc.StartWorkflow(context.Background(), "op-1", common_models.OperatorSatellite, "AEM", nil)
	if err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}

	summary, err := svc.GetWorkflowSummary(context.Background(), wf.ID.Hex())
	if err != nil {
		t.Fatalf("GetWorkflowSummary: %v", err)
	}

	if summary.Status != StateInProgress {
		t.Errorf("status = %q, want %q", summary.Status, StateInProgress)
	}
	if summary.Progress != 20 {
		t.Errorf("progress = %d, want 20", summary.Progress)
	}
	if summary.Context.CompletenessPercentage != 50 {
		t.Errorf("completeness = %d, want 50", summary.Context.CompletenessPercentage)
	}
	if summary.IsTerminal {
		t.Error("in_progress must not be terminal")
	}
	if len(summary.AvailableTransitions) != 0 {
		t.Errorf("available transitions = %d, want 0", len(summary.AvailableTransitions))
	}

	missing, err := svc.GetWorkflowSummary(context.Background(), primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("GetWorkflowSummary: %v", err)
	}
	if missing != nil {
		t.Error("summary for missing workflow must be nil")
	}
}
