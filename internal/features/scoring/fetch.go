package scoring

import (
	"context"
	"time"
)

// The six data bundles are fetched independently and concurrently; each is
// read-only and zero-valued when the user has no data in that domain, so a
// missing record never fails the score.

type AuthorizationBundle struct {
	HasWorkflow  bool
	Started      bool
	Completeness int // 0-100 mandatory document completeness
	Submitted    bool
	Approved     bool
}

type DebrisBundle struct {
	HasAssessment         bool
	HasMitigationPlan     bool
	DisposalStrategy      string // "defined", "drafted" or empty
	HasCollisionAvoidance bool
	TrackedObjects        int
	RegisteredObjects     int
}

type CyberBundle struct {
	HasAssessment           bool
	FrameworkGenerated      bool
	MaturityScore           int // 0-100
	HasIncidentResponsePlan bool
	UnresolvedIncidents     int
}

type InsuranceBundle struct {
	HasPolicy        bool
	Active           bool
	CoverageAmount   float64
	RequiredCoverage float64
	ExpiresAt        time.Time
}

type EnvironmentalBundle struct {
	HasAssessment             bool
	ImpactAssessmentCompleted bool
	ReportedMetrics           int
	ExpectedMetrics           int
	MitigationDocumented      bool
}

type ReportingBundle struct {
	HasAnyData        bool
	OverdueReports    int
	LastReportFiledAt *time.Time
	ContactsVerified  *time.Time
}

// WorkflowSource is the slice of the workflow feature the authorization
// fetcher needs. Satisfied by workflow.WorkflowRepository plus the
// completeness engine via the adapter in cmd/api.
type WorkflowSource interface {
	AuthorizationBundle(ctx context.Context, userID string) (AuthorizationBundle, error)
}

// IncidentSource supplies incident counts for the cybersecurity and
// reporting modules
type IncidentSource interface {
	CountUnresolved(ctx context.Context, userID string) (int, error)
	CountOverdueReports(ctx context.Context, userID string) (int, error)
}

// AssessmentSource supplies the self-assessment and policy records owned by
// this feature's repository
type AssessmentSource interface {
	DebrisByUser(ctx context.Context, userID string) (*DebrisAssessment, error)
	CyberByUser(ctx context.Context, userID string) (*CyberAssessment, error)
	InsuranceByUser(ctx context.Context, userID string) (*InsurancePolicy, error)
	EnvironmentalByUser(ctx context.Context, userID string) (*EnvironmentalAssessment, error)
	LatestComplianceReport(ctx context.Context, userID string) (*ComplianceReportFiling, error)
	RegistryProfileByUser(ctx context.Context, userID string) (*RegistryProfile, error)
}
