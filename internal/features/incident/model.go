package incident

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Severity string

const (
	SeverityMinor       Severity = "minor"
	SeveritySignificant Severity = "significant"
	SeveritySevere      Severity = "severe"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityMinor, SeveritySignificant, SeveritySevere:
		return true
	}
	return false
}

type Status string

const (
	StatusOpen      Status = "open"
	StatusMitigated Status = "mitigated"
	StatusResolved  Status = "resolved"
)

// Report obligation kinds, in filing order
const (
	ReportEarlyWarning = "early_warning"
	ReportNotification = "incident_notification"
	ReportFinal        = "final_report"
)

// ReportObligation is one regulatory filing the incident requires, with its
// deadline computed at classification time
type ReportObligation struct {
	Kind    string     `bson:"kind" json:"kind"`
	DueAt   time.Time  `bson:"due_at" json:"due_at"`
	FiledAt *time.Time `bson:"filed_at,omitempty" json:"filed_at,omitempty"`
	Overdue bool       `bson:"overdue" json:"overdue"`
}

// Incident is one operational incident affecting a space asset or its
// ground segment
type Incident struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Ref         string             `bson:"ref" json:"ref"`
	UserID      string             `bson:"user_id" json:"user_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Severity    Severity           `bson:"severity" json:"severity"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	OccurredAt  time.Time          `bson:"occurred_at" json:"occurred_at"`
	DetectedAt  time.Time          `bson:"detected_at" json:"detected_at"`
	Status      Status             `bson:"status" json:"status"`
	Reports     []ReportObligation `bson:"reports" json:"reports"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Reporting deadlines relative to detection. Severe and significant
// incidents follow the full early-warning / notification / final-report
// ladder; minor incidents require only the final report.
const (
	earlyWarningWindow = 24 * time.Hour
	notificationWindow = 72 * time.Hour
	finalReportWindow  = 30 * 24 * time.Hour
)

// BuildSchedule derives the report obligations for a severity class
func BuildSchedule(severity Severity, detectedAt time.Time) []ReportObligation {
	if severity == SeverityMinor {
		return []ReportObligation{
			{Kind: ReportFinal, DueAt: detectedAt.Add(finalReportWindow)},
		}
	}
	return []ReportObligation{
		{Kind: ReportEarlyWarning, DueAt: detectedAt.Add(earlyWarningWindow)},
		{Kind: ReportNotification, DueAt: detectedAt.Add(notificationWindow)},
		{Kind: ReportFinal, DueAt: detectedAt.Add(finalReportWindow)},
	}
}
