package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_models "space-comply/internal/common/models"
	"space-comply/internal/config"
	"space-comply/internal/database"
	"space-comply/internal/features/document"
	"space-comply/internal/features/scoring"
	"space-comply/internal/features/workflow"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds one demo operator with a partially completed authorization workflow
// and self-assessments in every scoring module.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	mongoDB := &database.MongodbDB{DB: client.Database(cfg.DBName)}

	fmt.Println("Seeding demo operator data...")

	const demoUser = "demo-operator-id"

	catalog := document.NewTemplateCatalog()
	workflowRepo := workflow.NewWorkflowRepository(mongoDB)

	wf := &workflow.AuthorizationWorkflow{
		UserID:           demoUser,
		OperatorType:     common_models.OperatorSatellite,
		PrimaryRegulator: "BNetzA",
		Status:           workflow.StateInProgress,
		Documents:        catalog.SeedDocuments(common_models.OperatorSatellite),
	}
	started := time.Now().UTC().Add(-21 * 24 * time.Hour)
	wf.StartedAt = &started

	// Mark a few documents done so the demo shows partial completeness
	done := map[string]bool{
		"corporate_identity": true,
		"financial_standing": true,
	}
	now := time.Now().UTC()
	for i := range wf.Documents {
		if done[wf.Documents[i].Type] {
			wf.Documents[i].Status = workflow.DocumentReady
			wf.Documents[i].CompletedAt = &now
		}
	}
	if err := workflowRepo.Create(ctx, wf); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("  workflow %s (%s)\n", wf.ID.Hex(), wf.Status)

	scoringRepo := scoring.NewScoringRepository(mongoDB)

	frameworkAt := now.Add(-14 * 24 * time.Hour)
	seedErrs := []error{
		scoringRepo.UpsertDebris(ctx, &scoring.DebrisAssessment{
			UserID:                demoUser,
			HasMitigationPlan:     true,
			DisposalStrategy:      "drafted",
			HasCollisionAvoidance: true,
			TrackedObjects:        4,
			RegisteredObjects:     3,
		}),
		scoringRepo.UpsertCyber(ctx, &scoring.CyberAssessment{
			UserID:                  demoUser,
			FrameworkGeneratedAt:    &frameworkAt,
			MaturityScore:           72,
			HasIncidentResponsePlan: true,
		}),
		scoringRepo.UpsertInsurance(ctx, &scoring.InsurancePolicy{
			UserID:           demoUser,
			Provider:         "Orbital Mutual",
			Active:           true,
			CoverageAmount:   60_000_000,
			RequiredCoverage: 60_000_000,
			ExpiresAt:        now.Add(200 * 24 * time.Hour),
		}),
		scoringRepo.UpsertEnvironmental(ctx, &scoring.EnvironmentalAssessment{
			UserID:                    demoUser,
			ImpactAssessmentCompleted: true,
			ReportedMetrics:           3,
			ExpectedMetrics:           5,
			MitigationDocumented:      false,
		}),
		scoringRepo.RecordComplianceReport(ctx, &scoring.ComplianceReportFiling{
			UserID:  demoUser,
			Period:  "2025",
			FiledAt: now.Add(-120 * 24 * time.Hour),
		}),
		scoringRepo.UpsertRegistryProfile(ctx, &scoring.RegistryProfile{
			UserID:             demoUser,
			ContactEmail:       "compliance@demo-operator.example",
			ContactsVerifiedAt: &now,
		}),
	}
	for _, err := range seedErrs {
		if err != nil {
			log.Fatal(err)
		}
	}

	fmt.Println("Done.")
}
