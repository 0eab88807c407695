package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWorkflowSource struct {
	bundle AuthorizationBundle
}

func (s *fakeWorkflowSource) AuthorizationBundle(ctx context.Context, userID string) (AuthorizationBundle, error) {
	return s.bundle, nil
}

type fakeIncidentSource struct {
	unresolved int
	overdue    int
}

func (s *fakeIncidentSource) CountUnresolved(ctx context.Context, userID string) (int, error) {
	return s.unresolved, nil
}

func (s *fakeIncidentSource) CountOverdueReports(ctx context.Context, userID string) (int, error) {
	return s.overdue, nil
}

type fakeAssessmentSource struct {
	debris        *DebrisAssessment
	cyber         *CyberAssessment
	insurance     *InsurancePolicy
	environmental *EnvironmentalAssessment
	filing        *ComplianceReportFiling
	profile       *RegistryProfile
}

func (s *fakeAssessmentSource) DebrisByUser(ctx context.Context, userID string) (*DebrisAssessment, error) {
	return s.debris, nil
}

func (s *fakeAssessmentSource) CyberByUser(ctx context.Context, userID string) (*CyberAssessment, error) {
	return s.cyber, nil
}

func (s *fakeAssessmentSource) InsuranceByUser(ctx context.Context, userID string) (*InsurancePolicy, error) {
	return s.insurance, nil
}

func (s *fakeAssessmentSource) EnvironmentalByUser(ctx context.Context, userID string) (*EnvironmentalAssessment, error) {
	return s.environmental, nil
}

func (s *fakeAssessmentSource) LatestComplianceReport(ctx context.Context, userID string) (*ComplianceReportFiling, error) {
	return s.filing, nil
}

func (s *fakeAssessmentSource) RegistryProfileByUser(ctx context.Context, userID string) (*RegistryProfile, error) {
	return s.profile, nil
}

func newScoringServiceForTest(t *testing.T, workflows WorkflowSource, incidents IncidentSource, assessments AssessmentSource) ScoringService {
	t.Helper()
	svc, err := NewScoringService(workflows, incidents, assessments, DefaultModuleWeights(), zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestNewScoringServiceRejectsBadWeights(t *testing.T) {
	weights := DefaultModuleWeights()
	weights.Authorization = 0.9

	_, err := NewScoringService(&fakeWorkflowSource{}, &fakeIncidentSource{}, &fakeAssessmentSource{}, weights, zap.NewNop())
	assert.Error(t, err)
}

func TestCalculateComplianceScoreZeroData(t *testing.T) {
	svc := newScoringServiceForTest(t, &fakeWorkflowSource{}, &fakeIncidentSource{}, &fakeAssessmentSource{})

	score, err := svc.CalculateComplianceScore(context.Background(), "nobody")
	require.NoError(t, err)

	assert.Equal(t, 0, score.Overall)
	assert.Equal(t, "F", score.Grade)
	assert.Equal(t, StatusNotAssessed, score.Status)

	require.Len(t, score.Modules, len(ModuleOrder))
	for i, m := range score.Modules {
		assert.Equal(t, ModuleOrder[i], m.Module)
		assert.Equal(t, 0, m.Score)
		assert.Equal(t, StatusNotAssessed, m.Status)
	}

	// Every factor is deficient, so the list is capped and critical items
	// come first, largest point loss first.
	require.Len(t, score.Recommendations, 10)
	assert.Equal(t, PriorityCritical, score.Recommendations[0].Priority)
	assert.Equal(t, 40, score.Recommendations[0].MissingPoints)
	for i := 1; i < len(score.Recommendations); i++ {
		prev := score.Recommendations[i-1]
		cur := score.Recommendations[i]
		if prev.Priority == cur.Priority {
			assert.GreaterOrEqual(t, prev.MissingPoints, cur.MissingPoints)
		}
	}
}

func TestCalculateComplianceScoreFullCompliance(t *testing.T) {
	now := time.Now().UTC()
	recent := now.AddDate(0, -1, 0)

	svc := newScoringServiceForTest(t,
		&fakeWorkflowSource{bundle: AuthorizationBundle{
			HasWorkflow: true, Started: true, Completeness: 100, Submitted: true, Approved: true,
		}},
		&fakeIncidentSource{},
		&fakeAssessmentSource{
			debris: &DebrisAssessment{
				HasMitigationPlan: true, DisposalStrategy: "defined",
				HasCollisionAvoidance: true, TrackedObjects: 3, RegisteredObjects: 3,
			},
			cyber: &CyberAssessment{
				FrameworkGeneratedAt: &recent, MaturityScore: 100, HasIncidentResponsePlan: true,
			},
			insurance: &InsurancePolicy{
				Active: true, CoverageAmount: 500, RequiredCoverage: 500, ExpiresAt: now.AddDate(1, 0, 0),
			},
			environmental: &EnvironmentalAssessment{
				ImpactAssessmentCompleted: true, ReportedMetrics: 3, ExpectedMetrics: 3, MitigationDocumented: true,
			},
			filing:  &ComplianceReportFiling{FiledAt: recent},
			profile: &RegistryProfile{ContactsVerifiedAt: &recent},
		},
	)

	score, err := svc.CalculateComplianceScore(context.Background(), "op-1")
	require.NoError(t, err)

	assert.Equal(t, 100, score.Overall)
	assert.Equal(t, "A", score.Grade)
	assert.Equal(t, StatusCompliant, score.Status)
	assert.Empty(t, score.Recommendations)

	for _, m := range score.Modules {
		assert.Equalf(t, 100, m.Score, "module %s", m.Module)
		assert.Equal(t, StatusCompliant, m.Status)
	}
}

func TestCalculateComplianceScoreWeighting(t *testing.T) {
	// Only the cybersecurity module scores: 90 points weighted at 0.20
	// contributes 18 to the overall.
	recent := time.Now().UTC().AddDate(0, -1, 0)

	svc := newScoringServiceForTest(t,
		&fakeWorkflowSource{},
		&fakeIncidentSource{unresolved: 1},
		&fakeAssessmentSource{
			cyber: &CyberAssessment{
				FrameworkGeneratedAt:    &recent,
				MaturityScore:           80,
				HasIncidentResponsePlan: true,
			},
		},
	)

	score, err := svc.CalculateComplianceScore(context.Background(), "op-1")
	require.NoError(t, err)

	var cyber ModuleScore
	for _, m := range score.Modules {
		if m.Module == ModuleCybersecurity {
			cyber = m
		}
	}
	assert.Equal(t, 90, cyber.Score)
	assert.Equal(t, 0.20, cyber.Weight)
	assert.Equal(t, 18, cyber.WeightedScore)

	// The open incident also feeds the reporting module's data gate
	assert.GreaterOrEqual(t, score.Overall, 18)
}

func TestOverallStatusOverride(t *testing.T) {
	// Every module is healthy except debris, which was assessed but has no
	// mitigation plan. The weighted aggregate lands at a B, yet the zero on
	// a critical factor in a non-compliant module forces non_compliant.
	now := time.Now().UTC()
	recent := now.AddDate(0, -1, 0)

	svc := newScoringServiceForTest(t,
		&fakeWorkflowSource{bundle: AuthorizationBundle{
			HasWorkflow: true, Started: true, Completeness: 100, Submitted: true, Approved: true,
		}},
		&fakeIncidentSource{},
		&fakeAssessmentSource{
			debris: &DebrisAssessment{
				DisposalStrategy: "drafted",
				TrackedObjects:   5,
			},
			cyber: &CyberAssessment{
				FrameworkGeneratedAt: &recent, MaturityScore: 100, HasIncidentResponsePlan: true,
			},
			insurance: &InsurancePolicy{
				Active: true, CoverageAmount: 500, RequiredCoverage: 500, ExpiresAt: now.AddDate(1, 0, 0),
			},
			environmental: &EnvironmentalAssessment{
				ImpactAssessmentCompleted: true, ReportedMetrics: 1, ExpectedMetrics: 1, MitigationDocumented: true,
			},
			filing:  &ComplianceReportFiling{FiledAt: recent},
			profile: &RegistryProfile{ContactsVerifiedAt: &recent},
		},
	)

	score, err := svc.CalculateComplianceScore(context.Background(), "op-1")
	require.NoError(t, err)

	assert.Equal(t, 82, score.Overall)
	assert.Equal(t, "B", score.Grade)
	assert.Equal(t, StatusNonCompliant, score.Status)
}

func TestCalculateComplianceScoreDeterministic(t *testing.T) {
	recent := time.Now().UTC().AddDate(0, -1, 0)
	svc := newScoringServiceForTest(t,
		&fakeWorkflowSource{bundle: AuthorizationBundle{HasWorkflow: true, Started: true, Completeness: 40}},
		&fakeIncidentSource{unresolved: 2, overdue: 1},
		&fakeAssessmentSource{
			cyber:  &CyberAssessment{MaturityScore: 60},
			filing: &ComplianceReportFiling{FiledAt: recent},
		},
	)

	first, err := svc.CalculateComplianceScore(context.Background(), "op-1")
	require.NoError(t, err)
	second, err := svc.CalculateComplianceScore(context.Background(), "op-1")
	require.NoError(t, err)

	assert.Equal(t, first.Overall, second.Overall)
	assert.Equal(t, first.Modules, second.Modules)
	assert.Equal(t, first.Recommendations, second.Recommendations)
}
