package scoring

import "time"

// Module ids, in canonical display order
const (
	ModuleAuthorization = "authorization"
	ModuleDebris        = "debris"
	ModuleCybersecurity = "cybersecurity"
	ModuleInsurance     = "insurance"
	ModuleEnvironmental = "environmental"
	ModuleReporting     = "reporting"
)

// ModuleOrder fixes the iteration order so score output is deterministic
var ModuleOrder = []string{
	ModuleAuthorization,
	ModuleDebris,
	ModuleCybersecurity,
	ModuleInsurance,
	ModuleEnvironmental,
	ModuleReporting,
}

// Compliance status bands
const (
	StatusCompliant       = "compliant"
	StatusMostlyCompliant = "mostly_compliant"
	StatusPartial         = "partial"
	StatusNonCompliant    = "non_compliant"
	StatusNotAssessed     = "not_assessed"
)

// Recommendation priorities, strongest first
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// Recommendation effort tiers
const (
	EffortHigh   = "high"
	EffortMedium = "medium"
	EffortLow    = "low"
)

// ScoringFactor is one named contribution to a module score
type ScoringFactor struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	MaxPoints    int    `json:"max_points"`
	EarnedPoints int    `json:"earned_points"`
	IsCritical   bool   `json:"is_critical"`
	ArticleRef   string `json:"article_ref,omitempty"`
}

// ModuleScore is the scored result for one regulatory domain. Factor max
// points always sum to 100 within a module.
type ModuleScore struct {
	Module        string          `json:"module"`
	Score         int             `json:"score"`
	Weight        float64         `json:"weight"`
	WeightedScore int             `json:"weighted_score"`
	Status        string          `json:"status"`
	Factors       []ScoringFactor `json:"factors"`
	ArticleRefs   []string        `json:"article_refs,omitempty"`
}

// Recommendation is one prioritized remediation item derived from a factor
// with missing points
type Recommendation struct {
	Module        string `json:"module"`
	Factor        string `json:"factor"`
	Priority      string `json:"priority"`
	Description   string `json:"description"`
	Effort        string `json:"effort"`
	ArticleRef    string `json:"article_ref,omitempty"`
	MissingPoints int    `json:"missing_points"`
}

// ComplianceScore is the full weighted assessment for one user. It is
// recomputed from source records on every request, never stored.
type ComplianceScore struct {
	Overall         int              `json:"overall"`
	Grade           string           `json:"grade"`
	Status          string           `json:"status"`
	Modules         []ModuleScore    `json:"modules"`
	Recommendations []Recommendation `json:"recommendations"`
	ComputedAt      time.Time        `json:"computed_at"`
}

// gradeFor maps an overall score to its letter grade
func gradeFor(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// moduleStatus bands a module score. A zero score means the domain was
// never assessed, which is distinct from assessed-and-failing.
func moduleStatus(score int) string {
	switch {
	case score == 0:
		return StatusNotAssessed
	case score >= 80:
		return StatusCompliant
	case score >= 60:
		return StatusMostlyCompliant
	case score >= 40:
		return StatusPartial
	default:
		return StatusNonCompliant
	}
}
