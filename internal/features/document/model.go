package document

// Effort tiers for completing a document
const (
	EffortLow    = "low"
	EffortMedium = "medium"
	EffortHigh   = "high"
)

// Gap criticality
const (
	CriticalityMandatory   = "mandatory"
	CriticalityRecommended = "recommended"
)

// Gap reasons
const (
	ReasonMissing    = "missing"
	ReasonRejected   = "rejected"
	ReasonBlocked    = "blocked"
	ReasonIncomplete = "incomplete"
	ReasonNotStarted = "not_started"
)

// DocumentTemplate describes one document an operator type must or should
// provide with its authorization application. Read-only lookup data.
type DocumentTemplate struct {
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Required    bool     `json:"required"`
	Effort      string   `json:"effort"`
	ArticleRef  string   `json:"article_ref"`
	Tips        []string `json:"tips,omitempty"`
}

// Gap is one template the workflow has not yet satisfied
type Gap struct {
	DocumentType string `json:"document_type"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Criticality  string `json:"criticality"`
	Reason       string `json:"reason"`
	Effort       string `json:"effort"`
	ArticleRef   string `json:"article_ref,omitempty"`
}

// CompletionEstimate is a rough projection of remaining preparation time
type CompletionEstimate struct {
	Days       int    `json:"days"`
	Confidence string `json:"confidence"` // high, medium, low
}

// CompletenessReport compares a workflow's documents against its operator
// type's template set
type CompletenessReport struct {
	WorkflowID          string             `json:"workflow_id"`
	OperatorType        string             `json:"operator_type"`
	MandatoryTotal      int                `json:"mandatory_total"`
	MandatoryComplete   int                `json:"mandatory_complete"`
	MandatoryPercentage int                `json:"mandatory_percentage"`
	OptionalTotal       int                `json:"optional_total"`
	OptionalComplete    int                `json:"optional_complete"`
	Gaps                []Gap              `json:"gaps"`
	Blockers            []string           `json:"blockers"`
	ReadyForSubmission  bool               `json:"ready_for_submission"`
	Recommendations     []string           `json:"recommendations"`
	Estimate            CompletionEstimate `json:"estimate"`
}
