package document

import (
	common_models "space-comply/internal/common/models"
	"space-comply/internal/features/workflow"
)

// TemplateCatalog is the static per-operator-type requirement template set.
// It is read-only lookup data: the compliance logic reads it, nothing writes it.
type TemplateCatalog struct {
	byOperator map[common_models.OperatorType][]DocumentTemplate
}

func NewTemplateCatalog() *TemplateCatalog {
	return &TemplateCatalog{byOperator: templateTable}
}

// TemplatesFor returns the templates for an operator type, or nil for an
// unknown type
func (c *TemplateCatalog) TemplatesFor(operatorType common_models.OperatorType) []DocumentTemplate {
	return c.byOperator[operatorType]
}

// SeedDocuments builds the initial document set for a new workflow,
// one not-started document per template. Satisfies workflow.DocumentSeeder.
func (c *TemplateCatalog) SeedDocuments(operatorType common_models.OperatorType) []workflow.Document {
	templates := c.byOperator[operatorType]
	docs := make([]workflow.Document, 0, len(templates))
	for _, t := range templates {
		docs = append(docs, workflow.Document{
			Type:       t.Type,
			Name:       t.Name,
			Required:   t.Required,
			Status:     workflow.DocumentNotStarted,
			ArticleRef: t.ArticleRef,
		})
	}
	return docs
}

var common = []DocumentTemplate{
	{
		Type:        "corporate_identity",
		Name:        "Corporate Identity and Ownership Disclosure",
		Description: "Legal entity details, ownership structure and ultimate beneficial owners.",
		Category:    "authorization",
		Required:    true,
		Effort:      EffortLow,
		ArticleRef:  "Art. 6 EU Space Act",
		Tips:        []string{"An extract from the commercial register issued within the last 3 months is accepted."},
	},
	{
		Type:        "financial_standing",
		Name:        "Proof of Financial Standing",
		Description: "Audited accounts or equivalent evidence of the financial capacity to conduct the activity.",
		Category:    "authorization",
		Required:    true,
		Effort:      EffortMedium,
		ArticleRef:  "Art. 7 EU Space Act",
	},
	{
		Type:        "cybersecurity_framework",
		Name:        "Cybersecurity Risk Management Framework",
		Description: "Documented measures covering risk analysis, incident handling and supply chain security.",
		Category:    "cybersecurity",
		Required:    true,
		Effort:      EffortHigh,
		ArticleRef:  "Art. 21 NIS2",
		Tips: []string{
			"Map each measure to the NIS2 Article 21(2) list.",
			"Reference an existing ISO 27001 certificate where one exists.",
		},
	},
	{
		Type:        "incident_response_plan",
		Name:        "Incident Response and Reporting Plan",
		Description: "Procedures for detecting, classifying and reporting significant incidents to the NCA.",
		Category:    "cybersecurity",
		Required:    true,
		Effort:      EffortMedium,
		ArticleRef:  "Art. 23 NIS2",
	},
	{
		Type:        "liability_insurance",
		Name:        "Third-Party Liability Insurance Certificate",
		Description: "Evidence of insurance covering damage to third parties on the ground, in airspace and in orbit.",
		Category:    "insurance",
		Required:    true,
		Effort:      EffortMedium,
		ArticleRef:  "Art. 48 EU Space Act",
	},
	{
		Type:        "environmental_impact",
		Name:        "Environmental Impact Assessment",
		Description: "Assessment of the activity's environmental footprint across launch, operations and disposal.",
		Category:    "environmental",
		Required:    false,
		Effort:      EffortHigh,
		ArticleRef:  "Art. 55 EU Space Act",
	},
}

var templateTable = map[common_models.OperatorType][]DocumentTemplate{
	common_models.OperatorSatellite: append(common,
		DocumentTemplate{
			Type:        "mission_description",
			Name:        "Mission Description and Orbital Parameters",
			Description: "Mission objectives, constellation layout, orbital slots and frequencies used.",
			Category:    "authorization",
			Required:    true,
			Effort:      EffortMedium,
			ArticleRef:  "Art. 8 EU Space Act",
		},
		DocumentTemplate{
			Type:        "debris_mitigation_plan",
			Name:        "Space Debris Mitigation Plan",
			Description: "Measures to limit debris release, collision probability and post-mission presence.",
			Category:    "debris",
			Required:    true,
			Effort:      EffortHigh,
			ArticleRef:  "Art. 33 EU Space Act",
			Tips:        []string{"Include the 25-year (or stricter) deorbit analysis for every spacecraft."},
		},
		DocumentTemplate{
			Type:        "end_of_life_plan",
			Name:        "End-of-Life Disposal Plan",
			Description: "Deorbit or graveyard-orbit strategy, passivation measures and disposal reliability.",
			Category:    "debris",
			Required:    true,
			Effort:      EffortMedium,
			ArticleRef:  "Art. 35 EU Space Act",
		},
		DocumentTemplate{
			Type:        "collision_avoidance",
			Name:        "Collision Avoidance Capability Statement",
			Description: "Conjunction assessment process and manoeuvre capability, or justification of its absence.",
			Category:    "debris",
			Required:    false,
			Effort:      EffortLow,
			ArticleRef:  "Art. 34 EU Space Act",
		},
	),
	common_models.OperatorLaunch: append(common,
		DocumentTemplate{
			Type:        "launch_vehicle_dossier",
			Name:        "Launch Vehicle Technical Dossier",
			Description: "Vehicle design, reliability record and qualification status.",
			Category:    "authorization",
			Required:    true,
			Effort:      EffortHigh,
			ArticleRef:  "Art. 9 EU Space Act",
		},
		DocumentTemplate{
			Type:        "flight_safety_analysis",
			Name:        "Flight Safety and Trajectory Analysis",
			Description: "Hazard areas, casualty expectation and flight termination criteria per mission profile.",
			Category:    "authorization",
			Required:    true,
			Effort:      EffortHigh,
			ArticleRef:  "Art. 10 EU Space Act",
		},
		DocumentTemplate{
			Type:        "stage_disposal_plan",
			Name:        "Spent Stage Disposal Plan",
			Description: "Controlled reentry or disposal strategy for upper stages and released hardware.",
			Category:    "debris",
			Required:    true,
			Effort:      EffortMedium,
			ArticleRef:  "Art. 33 EU Space Act",
		},
	),
	common_models.OperatorSpaceport: append(common,
		DocumentTemplate{
			Type:        "site_safety_case",
			Name:        "Spaceport Site Safety Case",
			Description: "Ground safety zones, population exposure analysis and emergency procedures.",
			Category:    "authorization",
			Required:    true,
			Effort:      EffortHigh,
			ArticleRef:  "Art. 12 EU Space Act",
		},
		DocumentTemplate{
			Type:        "ground_infrastructure",
			Name:        "Ground Infrastructure Security Plan",
			Description: "Physical and cyber protection of launch, fuelling and control infrastructure.",
			Category:    "cybersecurity",
			Required:    true,
			Effort:      EffortMedium,
			ArticleRef:  "Art. 21 NIS2",
		},
		DocumentTemplate{
			Type:        "local_environment_permit",
			Name:        "Local Environmental Permit",
			Description: "National or regional environmental operating permit for the site.",
			Category:    "environmental",
			Required:    false,
			Effort:      EffortMedium,
			ArticleRef:  "Art. 55 EU Space Act",
		},
	),
}
