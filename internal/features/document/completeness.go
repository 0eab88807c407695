package document

import (
	"context"
	"fmt"
	"math"
	"sort"

	"space-comply/internal/features/workflow"
)

// effortDays are the fixed per-tier day estimates used for completion-time
// projection
var effortDays = map[string]int{
	EffortLow:    2,
	EffortMedium: 5,
	EffortHigh:   10,
}

// parallelizationFactor discounts the summed estimate for documents that can
// be prepared concurrently
const parallelizationFactor = 0.7

// CompletenessEngine compares a workflow's documents against the operator
// type's template set
type CompletenessEngine struct {
	Catalog      *TemplateCatalog
	WorkflowRepo workflow.WorkflowRepository
}

func NewCompletenessEngine(catalog *TemplateCatalog, workflowRepo workflow.WorkflowRepository) *CompletenessEngine {
	return &CompletenessEngine{Catalog: catalog, WorkflowRepo: workflowRepo}
}

// CalculateReport returns nil (without error) when the workflow does not exist
func (e *CompletenessEngine) CalculateReport(ctx context.Context, workflowID string) (*CompletenessReport, error) {
	wf, err := e.WorkflowRepo.FindByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, nil
	}

	templates := e.Catalog.TemplatesFor(wf.OperatorType)

	docsByType := make(map[string]workflow.Document, len(wf.Documents))
	for _, doc := range wf.Documents {
		docsByType[doc.Type] = doc
	}

	report := &CompletenessReport{
		WorkflowID:   workflowID,
		OperatorType: string(wf.OperatorType),
	}

	for _, tmpl := range templates {
		if tmpl.Required {
			report.MandatoryTotal++
		} else {
			report.OptionalTotal++
		}

		doc, exists := docsByType[tmpl.Type]

		gap, complete, blocking := classify(tmpl, doc, exists)
		if complete {
			if tmpl.Required {
				report.MandatoryComplete++
			} else {
				report.OptionalComplete++
			}
			continue
		}
		if gap != nil {
			report.Gaps = append(report.Gaps, *gap)
		}
		// Optional templates never block submission
		if blocking && tmpl.Required {
			report.Blockers = append(report.Blockers, fmt.Sprintf("%s: %s", tmpl.Name, gap.Reason))
		}
	}

	// Vacuously complete with zero mandatory templates
	report.MandatoryPercentage = 100
	if report.MandatoryTotal > 0 {
		report.MandatoryPercentage = int(math.Round(float64(report.MandatoryComplete) / float64(report.MandatoryTotal) * 100))
	}

	report.ReadyForSubmission = report.MandatoryComplete == report.MandatoryTotal && len(report.Blockers) == 0
	report.Recommendations = buildRecommendations(report)
	report.Estimate = estimateCompletion(report.Gaps)

	return report, nil
}

// classify maps one template and its (possibly absent) document onto the
// gap taxonomy. Returns the gap (nil when complete), whether the template is
// satisfied, and whether it blocks submission.
func classify(tmpl DocumentTemplate, doc workflow.Document, exists bool) (gap *Gap, complete, blocking bool) {
	criticality := CriticalityRecommended
	if tmpl.Required {
		criticality = CriticalityMandatory
	}

	newGap := func(reason string) *Gap {
		return &Gap{
			DocumentType: tmpl.Type,
			Name:         tmpl.Name,
			Category:     tmpl.Category,
			Criticality:  criticality,
			Reason:       reason,
			Effort:       tmpl.Effort,
			ArticleRef:   tmpl.ArticleRef,
		}
	}

	if !exists {
		return newGap(ReasonMissing), false, true
	}

	switch {
	case doc.Status.IsReady():
		return nil, true, false
	case doc.Status == workflow.DocumentRejected:
		return newGap(ReasonRejected), false, true
	case doc.Status == workflow.DocumentBlocked:
		return newGap(ReasonBlocked), false, true
	case doc.Status == workflow.DocumentInProgress || doc.Status == workflow.DocumentUnderReview:
		return newGap(ReasonIncomplete), false, false
	default:
		return newGap(ReasonNotStarted), false, true
	}
}

func buildRecommendations(report *CompletenessReport) []string {
	var recs []string

	switch {
	case len(report.Blockers) == 0 && report.ReadyForSubmission:
		recs = append(recs, "All mandatory documents are ready. The application can be submitted.")
	case len(report.Blockers) == 0:
		recs = append(recs, "No blocking items. Finish the documents still in progress to reach submission readiness.")
	case len(report.Blockers) <= 3:
		recs = append(recs, fmt.Sprintf("Resolve %d blocking item(s) before the application can be submitted.", len(report.Blockers)))
	default:
		recs = append(recs, "A large number of mandatory documents are outstanding. Focus on the mandatory set before optional material.")
	}

	// One message per category that still has incomplete items
	categories := make(map[string]bool)
	for _, gap := range report.Gaps {
		categories[gap.Category] = true
	}
	names := make([]string, 0, len(categories))
	for cat := range categories {
		names = append(names, cat)
	}
	sort.Strings(names)
	for _, cat := range names {
		recs = append(recs, fmt.Sprintf("The %s category has incomplete documents.", cat))
	}

	for _, gap := range report.Gaps {
		if gap.Criticality == CriticalityMandatory && gap.Effort == EffortHigh {
			recs = append(recs, "At least one outstanding mandatory document is high effort. Start it early; these typically need specialist input.")
			break
		}
	}

	return recs
}

// estimateCompletion sums the per-tier day estimates over remaining
// mandatory gaps, discounted for parallel preparation. Confidence degrades
// as the remaining-gap count grows.
func estimateCompletion(gaps []Gap) CompletionEstimate {
	days := 0
	remaining := 0
	for _, gap := range gaps {
		if gap.Criticality != CriticalityMandatory {
			continue
		}
		remaining++
		days += effortDays[gap.Effort]
	}

	estimate := CompletionEstimate{
		Days: int(math.Ceil(float64(days) * parallelizationFactor)),
	}

	switch {
	case remaining <= 2:
		estimate.Confidence = "high"
	case remaining <= 5:
		estimate.Confidence = "medium"
	default:
		estimate.Confidence = "low"
	}

	return estimate
}
