package workflow

import (
	"time"

	common_models "space-comply/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentStatus is the lifecycle state of one submission document
type DocumentStatus string

const (
	DocumentNotStarted  DocumentStatus = "not_started"
	DocumentInProgress  DocumentStatus = "in_progress"
	DocumentUnderReview DocumentStatus = "under_review"
	DocumentReady       DocumentStatus = "ready"
	DocumentApproved    DocumentStatus = "approved"
	DocumentSubmitted   DocumentStatus = "submitted"
	DocumentRejected    DocumentStatus = "rejected"
	DocumentBlocked     DocumentStatus = "blocked"
)

func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentNotStarted, DocumentInProgress, DocumentUnderReview,
		DocumentReady, DocumentApproved, DocumentSubmitted,
		DocumentRejected, DocumentBlocked:
		return true
	}
	return false
}

// IsReady reports whether the document counts toward submission readiness
func (s DocumentStatus) IsReady() bool {
	return s == DocumentReady || s == DocumentApproved || s == DocumentSubmitted
}

// IsBlocking reports whether the document prevents submission outright
func (s DocumentStatus) IsBlocking() bool {
	return s == DocumentRejected || s == DocumentBlocked
}

// Document is one deliverable owned by an authorization workflow
type Document struct {
	Type        string         `bson:"type" json:"type"`
	Name        string         `bson:"name" json:"name"`
	Required    bool           `bson:"required" json:"required"`
	Status      DocumentStatus `bson:"status" json:"status"`
	CompletedAt *time.Time     `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	ArticleRef  string         `bson:"article_ref,omitempty" json:"article_ref,omitempty"`
}

// AuthorizationWorkflow is the persisted authorization process for one operator.
// Status is only ever mutated through the engine's transition execution; the
// lifecycle timestamps are set exactly once, the first time their state is entered.
type AuthorizationWorkflow struct {
	ID                   primitive.ObjectID        `bson:"_id,omitempty" json:"id"`
	UserID               string                    `bson:"user_id" json:"user_id"`
	OperatorType         common_models.OperatorType `bson:"operator_type" json:"operator_type"`
	PrimaryRegulator     string                    `bson:"primary_regulator" json:"primary_regulator"`
	Status               string                    `bson:"status" json:"status"`
	TargetSubmissionDate *time.Time                `bson:"target_submission_date,omitempty" json:"target_submission_date,omitempty"`
	StartedAt            *time.Time                `bson:"started_at,omitempty" json:"started_at,omitempty"`
	SubmittedAt          *time.Time                `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`
	ApprovedAt           *time.Time                `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	RejectedAt           *time.Time                `bson:"rejected_at,omitempty" json:"rejected_at,omitempty"`
	RejectionReason      string                    `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	Documents            []Document                `bson:"documents" json:"documents"`
	CreatedAt            time.Time                 `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time                 `bson:"updated_at" json:"updated_at"`
}

// AuthorizationContext is the immutable input to guard evaluation. It is
// recomputed from the workflow aggregate on every evaluation and never
// persisted, so guards always see current truth rather than a cached copy.
type AuthorizationContext struct {
	WorkflowID             string
	UserID                 string
	OperatorType           common_models.OperatorType
	PrimaryRegulator       string
	TotalDocuments         int
	ReadyDocuments         int
	MandatoryDocuments     int
	MandatoryReady         int
	CompletenessPercentage int
	AllMandatoryComplete   bool
	HasBlockers            bool
	TargetSubmissionDate   *time.Time
	StartedAt              *time.Time
	SubmittedAt            *time.Time
}
