package scoring

import (
	"context"

	"space-comply/internal/features/workflow"
)

// workflowSourceAdapter derives the authorization bundle from the user's
// most recent workflow using the same context computation the engine's
// guards see
type workflowSourceAdapter struct {
	repo workflow.WorkflowRepository
}

func NewWorkflowSource(repo workflow.WorkflowRepository) WorkflowSource {
	return &workflowSourceAdapter{repo: repo}
}

func (a *workflowSourceAdapter) AuthorizationBundle(ctx context.Context, userID string) (AuthorizationBundle, error) {
	wf, err := a.repo.LatestByUser(ctx, userID)
	if err != nil {
		return AuthorizationBundle{}, err
	}
	if wf == nil {
		return AuthorizationBundle{}, nil
	}

	authCtx := workflow.BuildContextFrom(wf)

	return AuthorizationBundle{
		HasWorkflow:  true,
		Started:      wf.StartedAt != nil || wf.Status != workflow.StateNotStarted,
		Completeness: authCtx.CompletenessPercentage,
		Submitted:    wf.SubmittedAt != nil,
		Approved:     wf.Status == workflow.StateApproved,
	}, nil
}
