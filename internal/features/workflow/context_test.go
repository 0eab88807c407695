package workflow

import (
	"testing"
)

func doc(required bool, status DocumentStatus) Document {
	return Document{Type: "doc", Name: "Doc", Required: required, Status: status}
}

func TestBuildContextFrom(t *testing.T) {
	tests := []struct {
		name             string
		documents        []Document
		wantCompleteness int
		wantAllMandatory bool
		wantBlockers     bool
	}{
		{
			name: "half of mandatory ready",
			documents: []Document{
				doc(true, DocumentReady),
				doc(true, DocumentApproved),
				doc(true, DocumentInProgress),
				doc(true, DocumentNotStarted),
				doc(false, DocumentNotStarted),
			},
			wantCompleteness: 50,
			wantAllMandatory: false,
		},
		{
			name: "all mandatory ready with optional open",
			documents: []Document{
				doc(true, DocumentReady),
				doc(true, DocumentSubmitted),
				doc(false, DocumentNotStarted),
			},
			wantCompleteness: 100,
			wantAllMandatory: true,
		},
		{
			name: "rejected document blocks",
			documents: []Document{
				doc(true, DocumentReady),
				doc(true, DocumentRejected),
			},
			wantCompleteness: 50,
			wantAllMandatory: false,
			wantBlockers:     true,
		},
		{
			name: "blocked optional still blocks submission",
			documents: []Document{
				doc(true, DocumentReady),
				doc(false, DocumentBlocked),
			},
			wantCompleteness: 100,
			wantAllMandatory: true,
			wantBlockers:     true,
		},
		{
			name: "no mandatory falls back to overall ratio",
			documents: []Document{
				doc(false, DocumentReady),
				doc(false, DocumentNotStarted),
				doc(false, DocumentNotStarted),
			},
			wantCompleteness: 33,
			wantAllMandatory: true,
		},
		{
			name:             "no documents at all",
			documents:        nil,
			wantCompleteness: 0,
			wantAllMandatory: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := &AuthorizationWorkflow{
				UserID:    "op-1",
				Status:    StateInProgress,
				Documents: tt.documents,
			}

			ctx := BuildContextFrom(wf)

			if ctx.CompletenessPercentage != tt.wantCompleteness {
				t.Errorf("completeness = %d, want %d", ctx.CompletenessPercentage, tt.wantCompleteness)
			}
			if ctx.AllMandatoryComplete != tt.wantAllMandatory {
				t.Errorf("allMandatoryComplete = %v, want %v", ctx.AllMandatoryComplete, tt.wantAllMandatory)
			}
			if ctx.HasBlockers != tt.wantBlockers {
				t.Errorf("hasBlockers = %v, want %v", ctx.HasBlockers, tt.wantBlockers)
			}
			if ctx.TotalDocuments != len(tt.documents) {
				t.Errorf("totalDocuments = %d, want %d", ctx.TotalDocuments, len(tt.documents))
			}
		})
	}
}

func TestBuildContextFromCounts(t *testing.T) {
	wf := &AuthorizationWorkflow{
		UserID: "op-1",
		Documents: []Document{
			doc(true, DocumentReady),
			doc(true, DocumentInProgress),
			doc(false, DocumentApproved),
		},
	}

	ctx := BuildContextFrom(wf)

	if ctx.MandatoryDocuments != 2 {
		t.Errorf("mandatoryDocuments = %d, want 2", ctx.MandatoryDocuments)
	}
	if ctx.MandatoryReady != 1 {
		t.Errorf("mandatoryReady = %d, want 1", ctx.MandatoryReady)
	}
	if ctx.ReadyDocuments != 2 {
		t.Errorf("readyDocuments = %d, want 2", ctx.ReadyDocuments)
	}
}
