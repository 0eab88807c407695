package audit

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Action string

const (
	ActionWorkflowStarted    Action = "WORKFLOW_STARTED"
	ActionStateTransition    Action = "STATE_TRANSITION"
	ActionDocumentUpdated    Action = "DOCUMENT_UPDATED"
	ActionIncidentReported   Action = "INCIDENT_REPORTED"
	ActionIncidentResolved   Action = "INCIDENT_RESOLVED"
	ActionReportFiled        Action = "REPORT_FILED"
	ActionAssessmentRecorded Action = "ASSESSMENT_RECORDED"
)

// Record is one immutable audit trail entry. Previous/new values are stored
// as plain strings so the trail survives schema changes in the entities it covers.
type Record struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"user_id" json:"user_id"`
	Action        Action             `bson:"action" json:"action"`
	EntityType    string             `bson:"entity_type" json:"entity_type"`
	EntityID      string             `bson:"entity_id" json:"entity_id"`
	PreviousValue string             `bson:"previous_value,omitempty" json:"previous_value,omitempty"`
	NewValue      string             `bson:"new_value,omitempty" json:"new_value,omitempty"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
}
