package scoring

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ScoringService interface {
	// CalculateComplianceScore computes the full weighted score for a user.
	// A user with no data in a domain scores zero there; absence of records
	// is never an error.
	CalculateComplianceScore(ctx context.Context, userID string) (*ComplianceScore, error)
}

type ScoringServiceImpl struct {
	Workflows   WorkflowSource
	Incidents   IncidentSource
	Assessments AssessmentSource
	Weights     ModuleWeights
	Logger      *zap.Logger
}

func NewScoringService(
	workflows WorkflowSource,
	incidents IncidentSource,
	assessments AssessmentSource,
	weights ModuleWeights,
	logger *zap.Logger,
) (ScoringService, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &ScoringServiceImpl{
		Workflows:   workflows,
		Incidents:   incidents,
		Assessments: assessments,
		Weights:     weights,
		Logger:      logger,
	}, nil
}

func (s *ScoringServiceImpl) CalculateComplianceScore(ctx context.Context, userID string) (*ComplianceScore, error) {
	now := time.Now().UTC()

	var (
		auth          AuthorizationBundle
		debris        DebrisBundle
		cyber         CyberBundle
		insurance     InsuranceBundle
		environmental EnvironmentalBundle
		reporting     ReportingBundle
	)

	// The six fetches are independent read-only queries; issuing them
	// concurrently is a latency optimization only.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		auth, err = s.Workflows.AuthorizationBundle(gctx, userID)
		return err
	})

	g.Go(func() error {
		a, err := s.Assessments.DebrisByUser(gctx, userID)
		if err != nil || a == nil {
			return err
		}
		debris = DebrisBundle{
			HasAssessment:         true,
			HasMitigationPlan:     a.HasMitigationPlan,
			DisposalStrategy:      a.DisposalStrategy,
			HasCollisionAvoidance: a.HasCollisionAvoidance,
			TrackedObjects:        a.TrackedObjects,
			RegisteredObjects:     a.RegisteredObjects,
		}
		return nil
	})

	g.Go(func() error {
		a, err := s.Assessments.CyberByUser(gctx, userID)
		if err != nil || a == nil {
			return err
		}
		unresolved, err := s.Incidents.CountUnresolved(gctx, userID)
		if err != nil {
			return err
		}
		cyber = CyberBundle{
			HasAssessment:           true,
			FrameworkGenerated:      a.FrameworkGeneratedAt != nil,
			MaturityScore:           a.MaturityScore,
			HasIncidentResponsePlan: a.HasIncidentResponsePlan,
			UnresolvedIncidents:     unresolved,
		}
		return nil
	})

	g.Go(func() error {
		p, err := s.Assessments.InsuranceByUser(gctx, userID)
		if err != nil || p == nil {
			return err
		}
		insurance = InsuranceBundle{
			HasPolicy:        true,
			Active:           p.Active,
			CoverageAmount:   p.CoverageAmount,
			RequiredCoverage: p.RequiredCoverage,
			ExpiresAt:        p.ExpiresAt,
		}
		return nil
	})

	g.Go(func() error {
		a, err := s.Assessments.EnvironmentalByUser(gctx, userID)
		if err != nil || a == nil {
			return err
		}
		environmental = EnvironmentalBundle{
			HasAssessment:             true,
			ImpactAssessmentCompleted: a.ImpactAssessmentCompleted,
			ReportedMetrics:           a.ReportedMetrics,
			ExpectedMetrics:           a.ExpectedMetrics,
			MitigationDocumented:      a.MitigationDocumented,
		}
		return nil
	})

	g.Go(func() error {
		overdue, err := s.Incidents.CountOverdueReports(gctx, userID)
		if err != nil {
			return err
		}
		unresolved, err := s.Incidents.CountUnresolved(gctx, userID)
		if err != nil {
			return err
		}
		filing, err := s.Assessments.LatestComplianceReport(gctx, userID)
		if err != nil {
			return err
		}
		profile, err := s.Assessments.RegistryProfileByUser(gctx, userID)
		if err != nil {
			return err
		}

		reporting = ReportingBundle{
			HasAnyData:     filing != nil || profile != nil || overdue > 0 || unresolved > 0,
			OverdueReports: overdue,
		}
		if filing != nil {
			reporting.LastReportFiledAt = &filing.FiledAt
		}
		if profile != nil {
			reporting.ContactsVerified = profile.ContactsVerifiedAt
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	modules := []ModuleScore{
		scoreAuthorization(auth),
		scoreDebris(debris),
		scoreCybersecurity(cyber),
		scoreInsurance(insurance, now),
		scoreEnvironmental(environmental),
		scoreReporting(reporting, now),
	}

	overall := 0
	for i := range modules {
		modules[i].Weight = s.Weights.For(modules[i].Module)
		modules[i].WeightedScore = int(math.Round(float64(modules[i].Score) * modules[i].Weight))
		overall += modules[i].WeightedScore
	}
	overall = clamp(overall, 0, 100)

	score := &ComplianceScore{
		Overall:         overall,
		Grade:           gradeFor(overall),
		Status:          overallStatus(overall, modules),
		Modules:         modules,
		Recommendations: buildRecommendations(modules),
		ComputedAt:      now,
	}

	s.Logger.Debug("compliance score computed",
		zap.String("user_id", userID),
		zap.Int("overall", overall),
		zap.String("status", score.Status))

	return score, nil
}

// overallStatus applies the hard override first: any non-compliant module
// with a zero-scoring critical factor marks the whole assessment
// non-compliant regardless of the weighted aggregate. Treating any hard
// failure as overriding an otherwise-good average is deliberate.
func overallStatus(overall int, modules []ModuleScore) string {
	for _, m := range modules {
		if m.Status != StatusNonCompliant {
			continue
		}
		for _, f := range m.Factors {
			if f.IsCritical && f.EarnedPoints == 0 {
				return StatusNonCompliant
			}
		}
	}

	switch {
	case overall >= 80:
		return StatusCompliant
	case overall >= 60:
		return StatusMostlyCompliant
	case overall > 0:
		return StatusPartial
	default:
		return StatusNotAssessed
	}
}

var priorityRank = map[string]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

// buildRecommendations derives one remediation item per deficient factor,
// prioritized and capped at the top 10
func buildRecommendations(modules []ModuleScore) []Recommendation {
	var recs []Recommendation

	for _, m := range modules {
		for _, f := range m.Factors {
			missing := f.MaxPoints - f.EarnedPoints
			if missing <= 0 {
				continue
			}

			priority := PriorityLow
			switch {
			case f.IsCritical && f.EarnedPoints == 0:
				priority = PriorityCritical
			case f.IsCritical || missing*2 > f.MaxPoints:
				priority = PriorityHigh
			case missing*4 > f.MaxPoints:
				priority = PriorityMedium
			}

			effort := EffortLow
			switch {
			case missing > 25:
				effort = EffortHigh
			case missing > 10:
				effort = EffortMedium
			}

			recs = append(recs, Recommendation{
				Module:        m.Module,
				Factor:        f.Name,
				Priority:      priority,
				Description:   f.Description,
				Effort:        effort,
				ArticleRef:    f.ArticleRef,
				MissingPoints: missing,
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if priorityRank[recs[i].Priority] != priorityRank[recs[j].Priority] {
			return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
		}
		return recs[i].MissingPoints > recs[j].MissingPoints
	})

	if len(recs) > 10 {
		recs = recs[:10]
	}
	return recs
}
