package scoring

import (
	"math"
	"time"
)

// Each module is scored from a fixed set of named factors whose max points
// sum to 100. The threshold values below encode the regulatory urgency
// model and must not be smoothed or re-tuned.

func scoreAuthorization(b AuthorizationBundle) ModuleScore {
	factors := []ScoringFactor{
		{
			Name:        "workflow_started",
			Description: "Start the authorization workflow for your operator type",
			MaxPoints:   20,
			IsCritical:  true,
			ArticleRef:  "Art. 6 EU Space Act",
		},
		{
			Name:        "mandatory_documents",
			Description: "Complete all mandatory application documents",
			MaxPoints:   30,
			ArticleRef:  "Art. 7 EU Space Act",
		},
		{
			Name:        "application_submitted",
			Description: "Submit the application to your national competent authority",
			MaxPoints:   25,
			IsCritical:  true,
			ArticleRef:  "Art. 8 EU Space Act",
		},
		{
			Name:        "authorization_granted",
			Description: "Obtain the authorization decision",
			MaxPoints:   25,
			ArticleRef:  "Art. 11 EU Space Act",
		},
	}

	if b.HasWorkflow {
		if b.Started {
			factors[0].EarnedPoints = 20
		}
		factors[1].EarnedPoints = roundOf(30, float64(b.Completeness)/100)
		if b.Submitted {
			factors[2].EarnedPoints = 25
		}
		if b.Approved {
			factors[3].EarnedPoints = 25
		}
	}

	return buildModuleScore(ModuleAuthorization, factors)
}

func scoreDebris(b DebrisBundle) ModuleScore {
	factors := []ScoringFactor{
		{
			Name:        "mitigation_plan",
			Description: "Produce a space debris mitigation plan",
			MaxPoints:   30,
			IsCritical:  true,
			ArticleRef:  "Art. 33 EU Space Act",
		},
		{
			Name:        "disposal_strategy",
			Description: "Define the end-of-life disposal strategy for every spacecraft",
			MaxPoints:   25,
			ArticleRef:  "Art. 35 EU Space Act",
		},
		{
			Name:        "collision_avoidance",
			Description: "Establish a conjunction assessment and collision avoidance capability",
			MaxPoints:   25,
			ArticleRef:  "Art. 34 EU Space Act",
		},
		{
			Name:        "object_registration",
			Description: "Register all tracked space objects with the national registry",
			MaxPoints:   20,
			ArticleRef:  "Art. 37 EU Space Act",
		},
	}

	if b.HasAssessment {
		if b.HasMitigationPlan {
			factors[0].EarnedPoints = 30
		}
		switch b.DisposalStrategy {
		case "defined":
			factors[1].EarnedPoints = 25
		case "drafted":
			factors[1].EarnedPoints = 10
		}
		if b.HasCollisionAvoidance {
			factors[2].EarnedPoints = 25
		}
		if b.TrackedObjects == 0 {
			// Nothing on orbit yet: no registration debt
			factors[3].EarnedPoints = 20
		} else {
			factors[3].EarnedPoints = roundOf(20, float64(b.RegisteredObjects)/float64(b.TrackedObjects))
		}
	}

	return buildModuleScore(ModuleDebris, factors)
}

func scoreCybersecurity(b CyberBundle) ModuleScore {
	factors := []ScoringFactor{
		{
			Name:        "risk_framework",
			Description: "Generate the cybersecurity risk management framework",
			MaxPoints:   35,
			IsCritical:  true,
			ArticleRef:  "Art. 21 NIS2",
		},
		{
			Name:        "security_maturity",
			Description: "Raise the assessed security maturity level",
			MaxPoints:   25,
			ArticleRef:  "Art. 21 NIS2",
		},
		{
			Name:        "incident_response_plan",
			Description: "Maintain an incident response and reporting plan",
			MaxPoints:   20,
			IsCritical:  true,
			ArticleRef:  "Art. 23 NIS2",
		},
		{
			Name:        "incident_handling",
			Description: "Resolve open security incidents",
			MaxPoints:   20,
			ArticleRef:  "Art. 23 NIS2",
		},
	}

	if b.HasAssessment {
		if b.FrameworkGenerated {
			factors[0].EarnedPoints = 35
		}
		factors[1].EarnedPoints = clamp(int(math.Round(float64(b.MaturityScore)/4)), 0, 25)
		if b.HasIncidentResponsePlan {
			factors[2].EarnedPoints = 20
		}
		// 5 points deducted per unresolved incident, floored at zero
		factors[3].EarnedPoints = max(0, 20-5*b.UnresolvedIncidents)
	}

	return buildModuleScore(ModuleCybersecurity, factors)
}

func scoreInsurance(b InsuranceBundle, now time.Time) ModuleScore {
	factors := []ScoringFactor{
		{
			Name:        "active_policy",
			Description: "Hold an active third-party liability insurance policy",
			MaxPoints:   40,
			IsCritical:  true,
			ArticleRef:  "Art. 48 EU Space Act",
		},
		{
			Name:        "coverage_adequacy",
			Description: "Carry the minimum required coverage amount",
			MaxPoints:   30,
			ArticleRef:  "Art. 48 EU Space Act",
		},
		{
			Name:        "policy_validity",
			Description: "Renew the policy well before expiry",
			MaxPoints:   30,
			ArticleRef:  "Art. 49 EU Space Act",
		},
	}

	if b.HasPolicy && b.Active {
		factors[0].EarnedPoints = 40

		if b.RequiredCoverage > 0 {
			switch {
			case b.CoverageAmount >= b.RequiredCoverage:
				factors[1].EarnedPoints = 30
			case b.CoverageAmount >= b.RequiredCoverage/2:
				factors[1].EarnedPoints = 15
			}
		} else {
			factors[1].EarnedPoints = 30
		}

		// Expiry window encodes renewal urgency: comfortable, due, urgent
		daysLeft := b.ExpiresAt.Sub(now).Hours() / 24
		switch {
		case daysLeft > 90:
			factors[2].EarnedPoints = 30
		case daysLeft > 30:
			factors[2].EarnedPoints = 15
		default:
			factors[2].EarnedPoints = 5
		}
	}

	return buildModuleScore(ModuleInsurance, factors)
}

func scoreEnvironmental(b EnvironmentalBundle) ModuleScore {
	factors := []ScoringFactor{
		{
			Name:        "impact_assessment",
			Description: "Complete the environmental impact assessment",
			MaxPoints:   40,
			IsCritical:  true,
			ArticleRef:  "Art. 55 EU Space Act",
		},
		{
			Name:        "footprint_data",
			Description: "Report the expected lifecycle footprint metrics",
			MaxPoints:   30,
			ArticleRef:  "Art. 56 EU Space Act",
		},
		{
			Name:        "mitigation_measures",
			Description: "Document environmental mitigation measures",
			MaxPoints:   30,
			ArticleRef:  "Art. 56 EU Space Act",
		},
	}

	if b.HasAssessment {
		if b.ImpactAssessmentCompleted {
			factors[0].EarnedPoints = 40
		}
		if b.ExpectedMetrics > 0 {
			factors[1].EarnedPoints = roundOf(30, float64(b.ReportedMetrics)/float64(b.ExpectedMetrics))
		}
		if b.MitigationDocumented {
			factors[2].EarnedPoints = 30
		}
	}

	return buildModuleScore(ModuleEnvironmental, factors)
}

func scoreReporting(b ReportingBundle, now time.Time) ModuleScore {
	factors := []ScoringFactor{
		{
			Name:        "incident_reporting",
			Description: "File incident reports within their regulatory deadlines",
			MaxPoints:   40,
			IsCritical:  true,
			ArticleRef:  "Art. 23 NIS2",
		},
		{
			Name:        "periodic_report",
			Description: "File the periodic compliance report",
			MaxPoints:   35,
			ArticleRef:  "Art. 60 EU Space Act",
		},
		{
			Name:        "registry_contacts",
			Description: "Keep registry contact details verified and current",
			MaxPoints:   25,
			ArticleRef:  "Art. 37 EU Space Act",
		},
	}

	if b.HasAnyData {
		// 10 points deducted per overdue report obligation, floored at zero
		factors[0].EarnedPoints = max(0, 40-10*b.OverdueReports)

		if b.LastReportFiledAt != nil {
			if now.Sub(*b.LastReportFiledAt) <= 365*24*time.Hour {
				factors[1].EarnedPoints = 35
			} else {
				factors[1].EarnedPoints = 15
			}
		}

		if b.ContactsVerified != nil {
			if now.Sub(*b.ContactsVerified) <= 365*24*time.Hour {
				factors[2].EarnedPoints = 25
			} else {
				factors[2].EarnedPoints = 10
			}
		}
	}

	return buildModuleScore(ModuleReporting, factors)
}

// buildModuleScore rolls factors up into the module score:
// round(earned / total * 100)
func buildModuleScore(module string, factors []ScoringFactor) ModuleScore {
	total := 0
	earned := 0
	refs := make([]string, 0, len(factors))
	seen := make(map[string]bool)

	for _, f := range factors {
		total += f.MaxPoints
		earned += f.EarnedPoints
		if f.ArticleRef != "" && !seen[f.ArticleRef] {
			seen[f.ArticleRef] = true
			refs = append(refs, f.ArticleRef)
		}
	}

	score := 0
	if total > 0 {
		score = int(math.Round(float64(earned) / float64(total) * 100))
	}

	return ModuleScore{
		Module:      module,
		Score:       score,
		Status:      moduleStatus(score),
		Factors:     factors,
		ArticleRefs: refs,
	}
}

func roundOf(maxPoints int, fraction float64) int {
	return clamp(int(math.Round(float64(maxPoints)*fraction)), 0, maxPoints)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
