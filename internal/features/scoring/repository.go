package scoring

import (
	"context"
	"time"

	"space-comply/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Persisted self-assessment and policy records, one per user per domain.
// Written by the assessment CRUD surface (and the seeder); the scoring
// engine only ever reads them.

type DebrisAssessment struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID                string             `bson:"user_id" json:"user_id"`
	HasMitigationPlan     bool               `bson:"has_mitigation_plan" json:"has_mitigation_plan"`
	DisposalStrategy      string             `bson:"disposal_strategy,omitempty" json:"disposal_strategy,omitempty"`
	HasCollisionAvoidance bool               `bson:"has_collision_avoidance" json:"has_collision_avoidance"`
	TrackedObjects        int                `bson:"tracked_objects" json:"tracked_objects"`
	RegisteredObjects     int                `bson:"registered_objects" json:"registered_objects"`
	GeneratedAt           time.Time          `bson:"generated_at" json:"generated_at"`
}

type CyberAssessment struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID                  string             `bson:"user_id" json:"user_id"`
	FrameworkGeneratedAt    *time.Time         `bson:"framework_generated_at,omitempty" json:"framework_generated_at,omitempty"`
	MaturityScore           int                `bson:"maturity_score" json:"maturity_score"`
	HasIncidentResponsePlan bool               `bson:"has_incident_response_plan" json:"has_incident_response_plan"`
	GeneratedAt             time.Time          `bson:"generated_at" json:"generated_at"`
}

type InsurancePolicy struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           string             `bson:"user_id" json:"user_id"`
	Provider         string             `bson:"provider,omitempty" json:"provider,omitempty"`
	Active           bool               `bson:"active" json:"active"`
	CoverageAmount   float64            `bson:"coverage_amount" json:"coverage_amount"`
	RequiredCoverage float64            `bson:"required_coverage" json:"required_coverage"`
	ExpiresAt        time.Time          `bson:"expires_at" json:"expires_at"`
}

type EnvironmentalAssessment struct {
	ID                        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID                    string             `bson:"user_id" json:"user_id"`
	ImpactAssessmentCompleted bool               `bson:"impact_assessment_completed" json:"impact_assessment_completed"`
	ReportedMetrics           int                `bson:"reported_metrics" json:"reported_metrics"`
	ExpectedMetrics           int                `bson:"expected_metrics" json:"expected_metrics"`
	MitigationDocumented      bool               `bson:"mitigation_documented" json:"mitigation_documented"`
	GeneratedAt               time.Time          `bson:"generated_at" json:"generated_at"`
}

type ComplianceReportFiling struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  string             `bson:"user_id" json:"user_id"`
	Period  string             `bson:"period,omitempty" json:"period,omitempty"`
	FiledAt time.Time          `bson:"filed_at" json:"filed_at"`
}

type RegistryProfile struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID             string             `bson:"user_id" json:"user_id"`
	ContactEmail       string             `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	ContactsVerifiedAt *time.Time         `bson:"contacts_verified_at,omitempty" json:"contacts_verified_at,omitempty"`
}

type ScoringRepository interface {
	AssessmentSource

	UpsertDebris(ctx context.Context, a *DebrisAssessment) error
	UpsertCyber(ctx context.Context, a *CyberAssessment) error
	UpsertInsurance(ctx context.Context, p *InsurancePolicy) error
	UpsertEnvironmental(ctx context.Context, a *EnvironmentalAssessment) error
	RecordComplianceReport(ctx context.Context, f *ComplianceReportFiling) error
	UpsertRegistryProfile(ctx context.Context, p *RegistryProfile) error
}

type ScoringRepositoryImpl struct {
	debris        *mongo.Collection
	cyber         *mongo.Collection
	insurance     *mongo.Collection
	environmental *mongo.Collection
	reports       *mongo.Collection
	profiles      *mongo.Collection
}

func NewScoringRepository(mongodb *database.MongodbDB) ScoringRepository {
	return &ScoringRepositoryImpl{
		debris:        mongodb.DB.Collection("debris_assessments"),
		cyber:         mongodb.DB.Collection("cyber_assessments"),
		insurance:     mongodb.DB.Collection("insurance_policies"),
		environmental: mongodb.DB.Collection("environmental_assessments"),
		reports:       mongodb.DB.Collection("compliance_reports"),
		profiles:      mongodb.DB.Collection("registry_profiles"),
	}
}

func findOneByUser[T any](ctx context.Context, coll *mongo.Collection, userID string, opts ...*options.FindOneOptions) (*T, error) {
	var out T
	err := coll.FindOne(ctx, bson.M{"user_id": userID}, opts...).Decode(&out)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *ScoringRepositoryImpl) DebrisByUser(ctx context.Context, userID string) (*DebrisAssessment, error) {
	return findOneByUser[DebrisAssessment](ctx, r.debris, userID)
}

func (r *ScoringRepositoryImpl) CyberByUser(ctx context.Context, userID string) (*CyberAssessment, error) {
	return findOneByUser[CyberAssessment](ctx, r.cyber, userID)
}

func (r *ScoringRepositoryImpl) InsuranceByUser(ctx context.Context, userID string) (*InsurancePolicy, error) {
	return findOneByUser[InsurancePolicy](ctx, r.insurance, userID)
}

func (r *ScoringRepositoryImpl) EnvironmentalByUser(ctx context.Context, userID string) (*EnvironmentalAssessment, error) {
	return findOneByUser[EnvironmentalAssessment](ctx, r.environmental, userID)
}

func (r *ScoringRepositoryImpl) LatestComplianceReport(ctx context.Context, userID string) (*ComplianceReportFiling, error) {
	return findOneByUser[ComplianceReportFiling](ctx, r.reports, userID,
		options.FindOne().SetSort(bson.M{"filed_at": -1}))
}

func (r *ScoringRepositoryImpl) RegistryProfileByUser(ctx context.Context, userID string) (*RegistryProfile, error) {
	return findOneByUser[RegistryProfile](ctx, r.profiles, userID)
}

func upsertByUser(ctx context.Context, coll *mongo.Collection, userID string, doc interface{}) error {
	_, err := coll.ReplaceOne(ctx, bson.M{"user_id": userID}, doc,
		options.Replace().SetUpsert(true))
	return err
}

func (r *ScoringRepositoryImpl) UpsertDebris(ctx context.Context, a *DebrisAssessment) error {
	a.GeneratedAt = time.Now().UTC()
	return upsertByUser(ctx, r.debris, a.UserID, a)
}

func (r *ScoringRepositoryImpl) UpsertCyber(ctx context.Context, a *CyberAssessment) error {
	a.GeneratedAt = time.Now().UTC()
	return upsertByUser(ctx, r.cyber, a.UserID, a)
}

func (r *ScoringRepositoryImpl) UpsertInsurance(ctx context.Context, p *InsurancePolicy) error {
	return upsertByUser(ctx, r.insurance, p.UserID, p)
}

func (r *ScoringRepositoryImpl) UpsertEnvironmental(ctx context.Context, a *EnvironmentalAssessment) error {
	a.GeneratedAt = time.Now().UTC()
	return upsertByUser(ctx, r.environmental, a.UserID, a)
}

func (r *ScoringRepositoryImpl) RecordComplianceReport(ctx context.Context, f *ComplianceReportFiling) error {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	_, err := r.reports.InsertOne(ctx, f)
	return err
}

func (r *ScoringRepositoryImpl) UpsertRegistryProfile(ctx context.Context, p *RegistryProfile) error {
	return upsertByUser(ctx, r.profiles, p.UserID, p)
}
