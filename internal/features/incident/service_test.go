package incident

import (
	"context"
	"testing"
	"time"

	"space-comply/internal/features/audit"

	"go.uber.org/zap"
)

type fakeIncidentRepository struct {
	incidents []*Incident
}

func (r *fakeIncidentRepository) Create(ctx context.Context, inc *Incident) error {
	r.incidents = append(r.incidents, inc)
	return nil
}

func (r *fakeIncidentRepository) FindByRef(ctx context.Context, userID, ref string) (*Incident, error) {
	for _, inc := range r.incidents {
		if inc.UserID == userID && inc.Ref == ref {
			return inc, nil
		}
	}
	return nil, nil
}

func (r *fakeIncidentRepository) ListByUser(ctx context.Context, userID string) ([]Incident, error) {
	var out []Incident
	for _, inc := range r.incidents {
		if inc.UserID == userID {
			out = append(out, *inc)
		}
	}
	return out, nil
}

func (r *fakeIncidentRepository) CountUnresolved(ctx context.Context, userID string) (int, error) {
	n := 0
	for _, inc := range r.incidents {
		if inc.UserID == userID && inc.Status != StatusResolved {
			n++
		}
	}
	return n, nil
}

func (r *fakeIncidentRepository) CountOverdueReports(ctx context.Context, userID string) (int, error) {
	n := 0
	for _, inc := range r.incidents {
		if inc.UserID != userID {
			continue
		}
		for _, rep := range inc.Reports {
			if rep.Overdue {
				n++
			}
		}
	}
	return n, nil
}

func (r *fakeIncidentRepository) MarkReportFiled(ctx context.Context, userID, ref, kind string, filedAt time.Time) (bool, error) {
	inc, _ := r.FindByRef(ctx, userID, ref)
	if inc == nil {
		return false, nil
	}
	for i := range inc.Reports {
		if inc.Reports[i].Kind == kind && inc.Reports[i].FiledAt == nil {
			inc.Reports[i].FiledAt = &filedAt
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeIncidentRepository) UpdateStatus(ctx context.Context, userID, ref string, status Status) (bool, error) {
	inc, _ := r.FindByRef(ctx, userID, ref)
	if inc == nil {
		return false, nil
	}
	inc.Status = status
	return true, nil
}

func (r *fakeIncidentRepository) FlagOverdueReports(ctx context.Context, now time.Time) (int64, error) {
	var flagged int64
	for _, inc := range r.incidents {
		touched := false
		for i := range inc.Reports {
			rep := &inc.Reports[i]
			if rep.FiledAt == nil && !rep.Overdue && rep.DueAt.Before(now) {
				rep.Overdue = true
				touched = true
			}
		}
		if touched {
			flagged++
		}
	}
	return flagged, nil
}

type noopAuditService struct{}

func (noopAuditService) Record(rec audit.Record) {}

func (noopAuditService) ListRecords(ctx context.Context, userID string, page, limit int64) ([]audit.Record, error) {
	return nil, nil
}

func newTestService(repo *fakeIncidentRepository) IncidentService {
	return NewIncidentService(repo, noopAuditService{}, zap.NewNop())
}

func TestBuildSchedule(t *testing.T) {
	detected := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		severity  Severity
		wantKinds []string
	}{
		{SeverityMinor, []string{ReportFinal}},
		{SeveritySignificant, []string{ReportEarlyWarning, ReportNotification, ReportFinal}},
		{SeveritySevere, []string{ReportEarlyWarning, ReportNotification, ReportFinal}},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			schedule := BuildSchedule(tt.severity, detected)

			if len(schedule) != len(tt.wantKinds) {
				t.Fatalf("obligations = %d, want %d", len(schedule), len(tt.wantKinds))
			}
			for i, kind := range tt.wantKinds {
				if schedule[i].Kind != kind {
					t.Errorf("obligation[%d] = %q, want %q", i, schedule[i].Kind, kind)
				}
				if schedule[i].FiledAt != nil || schedule[i].Overdue {
					t.Errorf("obligation[%d] must start unfiled and not overdue", i)
				}
			}
		})
	}
}

func TestBuildScheduleDeadlines(t *testing.T) {
	detected := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	schedule := BuildSchedule(SeveritySevere, detected)

	if got := schedule[0].DueAt; !got.Equal(detected.Add(24 * time.Hour)) {
		t.Errorf("early warning due %v, want detection + 24h", got)
	}
	if got := schedule[1].DueAt; !got.Equal(detected.Add(72 * time.Hour)) {
		t.Errorf("notification due %v, want detection + 72h", got)
	}
	if got := schedule[2].DueAt; !got.Equal(detected.AddDate(0, 0, 30)) {
		t.Errorf("final report due %v, want detection + 30d", got)
	}
}

func TestReportIncident(t *testing.T) {
	repo := &fakeIncidentRepository{}
	svc := newTestService(repo)

	inc, err := svc.ReportIncident(context.Background(), &Incident{
		UserID:   "op-1",
		Title:    "Ground station link loss",
		Severity: SeveritySignificant,
	})
	if err != nil {
		t.Fatalf("ReportIncident: %v", err)
	}

	if inc.Ref == "" {
		t.Error("ref not assigned")
	}
	if inc.Status != StatusOpen {
		t.Errorf("status = %q, want open", inc.Status)
	}
	if len(inc.Reports) != 3 {
		t.Errorf("report obligations = %d, want 3", len(inc.Reports))
	}
	if inc.DetectedAt.IsZero() || inc.OccurredAt.IsZero() {
		t.Error("detection and occurrence times must be defaulted")
	}
}

func TestReportIncidentValidation(t *testing.T) {
	svc := newTestService(&fakeIncidentRepository{})

	if _, err := svc.ReportIncident(context.Background(), &Incident{UserID: "op-1", Severity: SeverityMinor}); err == nil {
		t.Error("expected error for missing title")
	}
	if _, err := svc.ReportIncident(context.Background(), &Incident{UserID: "op-1", Title: "x", Severity: "catastrophic"}); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestFileReport(t *testing.T) {
	repo := &fakeIncidentRepository{}
	svc := newTestService(repo)

	inc, err := svc.ReportIncident(context.Background(), &Incident{
		UserID:   "op-1",
		Title:    "Conjunction alert mishandled",
		Severity: SeveritySevere,
	})
	if err != nil {
		t.Fatalf("ReportIncident: %v", err)
	}

	if err := svc.FileReport(context.Background(), "op-1", inc.Ref, ReportEarlyWarning); err != nil {
		t.Fatalf("FileReport: %v", err)
	}

	stored, _ := repo.FindByRef(context.Background(), "op-1", inc.Ref)
	if stored.Reports[0].FiledAt == nil {
		t.Error("early warning not marked filed")
	}

	if err := svc.FileReport(context.Background(), "op-1", inc.Ref, "weekly_digest"); err == nil {
		t.Error("expected error for unknown report kind")
	}
	if err := svc.FileReport(context.Background(), "op-1", "no-such-ref", ReportFinal); err == nil {
		t.Error("expected error for unknown incident")
	}
}

func TestResolveIncident(t *testing.T) {
	repo := &fakeIncidentRepository{}
	svc := newTestService(repo)

	inc, err := svc.ReportIncident(context.Background(), &Incident{
		UserID:   "op-1",
		Title:    "Telemetry anomaly",
		Severity: SeverityMinor,
	})
	if err != nil {
		t.Fatalf("ReportIncident: %v", err)
	}

	if err := svc.ResolveIncident(context.Background(), "op-1", inc.Ref); err != nil {
		t.Fatalf("ResolveIncident: %v", err)
	}

	unresolved, _ := repo.CountUnresolved(context.Background(), "op-1")
	if unresolved != 0 {
		t.Errorf("unresolved = %d, want 0", unresolved)
	}

	if err := svc.ResolveIncident(context.Background(), "op-1", "no-such-ref"); err == nil {
		t.Error("expected error for unknown incident")
	}
}

func TestSweepOverdueReports(t *testing.T) {
	repo := &fakeIncidentRepository{}
	svc := newTestService(repo)

	// Detected two days ago: the 24h early warning is already past due
	inc, err := svc.ReportIncident(context.Background(), &Incident{
		UserID:     "op-1",
		Title:      "Uncontrolled attitude drift",
		Severity:   SeveritySevere,
		DetectedAt: time.Now().UTC().Add(-48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("ReportIncident: %v", err)
	}

	if err := svc.SweepOverdueReports(context.Background()); err != nil {
		t.Fatalf("SweepOverdueReports: %v", err)
	}

	stored, _ := repo.FindByRef(context.Background(), "op-1", inc.Ref)
	if !stored.Reports[0].Overdue {
		t.Error("early warning must be flagged overdue")
	}
	if stored.Reports[2].Overdue {
		t.Error("final report is not yet due")
	}

	overdue, _ := repo.CountOverdueReports(context.Background(), "op-1")
	if overdue != 1 {
		t.Errorf("overdue = %d, want 1", overdue)
	}
}
