package incident

import (
	"context"
	"errors"
	"fmt"
	"time"

	"space-comply/internal/features/audit"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type IncidentService interface {
	// ReportIncident classifies the incident and computes its report
	// deadline schedule from the severity class
	ReportIncident(ctx context.Context, inc *Incident) (*Incident, error)

	GetIncident(ctx context.Context, userID, ref string) (*Incident, error)
	ListIncidents(ctx context.Context, userID string) ([]Incident, error)
	FileReport(ctx context.Context, userID, ref, kind string) error
	ResolveIncident(ctx context.Context, userID, ref string) error

	// SweepOverdueReports flags unfiled reports past their deadline.
	// Run periodically by the scheduler.
	SweepOverdueReports(ctx context.Context) error
}

type IncidentServiceImpl struct {
	Repo         IncidentRepository
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewIncidentService(repo IncidentRepository, auditService audit.AuditService, logger *zap.Logger) IncidentService {
	return &IncidentServiceImpl{
		Repo:         repo,
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *IncidentServiceImpl) ReportIncident(ctx context.Context, inc *Incident) (*Incident, error) {
	if inc.Title == "" {
		return nil, errors.New("incident title is required")
	}
	if !inc.Severity.Valid() {
		return nil, fmt.Errorf("unknown severity %q", inc.Severity)
	}
	if inc.DetectedAt.IsZero() {
		inc.DetectedAt = time.Now().UTC()
	}
	if inc.OccurredAt.IsZero() {
		inc.OccurredAt = inc.DetectedAt
	}

	inc.Ref = uuid.NewString()
	inc.Status = StatusOpen
	inc.Reports = BuildSchedule(inc.Severity, inc.DetectedAt)

	if err := s.Repo.Create(ctx, inc); err != nil {
		return nil, err
	}

	s.AuditService.Record(audit.Record{
		UserID:      inc.UserID,
		Action:      audit.ActionIncidentReported,
		EntityType:  "incident",
		EntityID:    inc.Ref,
		NewValue:    string(inc.Severity),
		Description: fmt.Sprintf("Incident reported: %s", inc.Title),
	})
	s.Logger.Info("incident reported",
		zap.String("ref", inc.Ref),
		zap.String("severity", string(inc.Severity)),
		zap.Int("report_obligations", len(inc.Reports)))

	return inc, nil
}

func (s *IncidentServiceImpl) GetIncident(ctx context.Context, userID, ref string) (*Incident, error) {
	return s.Repo.FindByRef(ctx, userID, ref)
}

func (s *IncidentServiceImpl) ListIncidents(ctx context.Context, userID string) ([]Incident, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *IncidentServiceImpl) FileReport(ctx context.Context, userID, ref, kind string) error {
	switch kind {
	case ReportEarlyWarning, ReportNotification, ReportFinal:
	default:
		return fmt.Errorf("unknown report kind %q", kind)
	}

	filed, err := s.Repo.MarkReportFiled(ctx, userID, ref, kind, time.Now().UTC())
	if err != nil {
		return err
	}
	if !filed {
		return fmt.Errorf("incident %s has no %s obligation", ref, kind)
	}

	s.AuditService.Record(audit.Record{
		UserID:      userID,
		Action:      audit.ActionReportFiled,
		EntityType:  "incident",
		EntityID:    ref,
		NewValue:    kind,
		Description: "Incident report filed with NCA",
	})

	return nil
}

func (s *IncidentServiceImpl) ResolveIncident(ctx context.Context, userID, ref string) error {
	updated, err := s.Repo.UpdateStatus(ctx, userID, ref, StatusResolved)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("incident %s not found", ref)
	}

	s.AuditService.Record(audit.Record{
		UserID:      userID,
		Action:      audit.ActionIncidentResolved,
		EntityType:  "incident",
		EntityID:    ref,
		NewValue:    string(StatusResolved),
		Description: "Incident resolved",
	})

	return nil
}

func (s *IncidentServiceImpl) SweepOverdueReports(ctx context.Context) error {
	flagged, err := s.Repo.FlagOverdueReports(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if flagged > 0 {
		s.Logger.Warn("incident reports overdue", zap.Int64("flagged", flagged))
	}
	return nil
}
