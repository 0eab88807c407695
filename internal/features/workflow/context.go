package workflow

import (
	"context"
	"math"
)

// ContextBuilder derives a point-in-time AuthorizationContext from the
// persisted workflow aggregate. The context is the sole input to guard
// evaluation; guards never touch storage themselves.
type ContextBuilder struct {
	Repo WorkflowRepository
}

func NewContextBuilder(repo WorkflowRepository) *ContextBuilder {
	return &ContextBuilder{Repo: repo}
}

// Build returns nil (without error) when the workflow does not exist
func (b *ContextBuilder) Build(ctx context.Context, workflowID string) (*AuthorizationContext, error) {
	wf, err := b.Repo.FindByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, nil
	}
	return BuildContextFrom(wf), nil
}

// BuildContextFrom computes the context directly from an already-loaded
// aggregate. Split out so the orchestration layer can rebuild context from
// a document it just fetched without a second read.
func BuildContextFrom(wf *AuthorizationWorkflow) *AuthorizationContext {
	total := len(wf.Documents)
	ready := 0
	mandatory := 0
	mandatoryReady := 0
	hasBlockers := false

	for _, doc := range wf.Documents {
		if doc.Status.IsReady() {
			ready++
		}
		if doc.Status.IsBlocking() {
			hasBlockers = true
		}
		if doc.Required {
			mandatory++
			if doc.Status.IsReady() {
				mandatoryReady++
			}
		}
	}

	completeness := 0
	switch {
	case mandatory > 0:
		completeness = roundPercent(mandatoryReady, mandatory)
	case total > 0:
		completeness = roundPercent(ready, total)
	}

	return &AuthorizationContext{
		WorkflowID:             wf.ID.Hex(),
		UserID:                 wf.UserID,
		OperatorType:           wf.OperatorType,
		PrimaryRegulator:       wf.PrimaryRegulator,
		TotalDocuments:         total,
		ReadyDocuments:         ready,
		MandatoryDocuments:     mandatory,
		MandatoryReady:         mandatoryReady,
		CompletenessPercentage: completeness,
		// Vacuously true with zero mandatory documents: a workflow with no
		// required documents is trivially complete.
		AllMandatoryComplete: mandatory == mandatoryReady,
		HasBlockers:          hasBlockers,
		TargetSubmissionDate: wf.TargetSubmissionDate,
		StartedAt:            wf.StartedAt,
		SubmittedAt:          wf.SubmittedAt,
	}
}

func roundPercent(part, whole int) int {
	return int(math.Round(float64(part) / float64(whole) * 100))
}
