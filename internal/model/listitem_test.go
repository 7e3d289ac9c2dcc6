package model

import (
	"strings"
	"testing"
)

func TestAuditItemTitle(t *testing.T) {
	tests := []struct {
		name        string
		requirement string
		expected    string
	}{
		{"standard title", "Limit system access to authorized users", "Limit system access to authorized users"},
		{"empty title", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := AuditItem{
				ControlAuditResult: ControlAuditResult{Requirement: tt.requirement},
			}
			if got := item.Title(); got != tt.expected {
				t.Errorf("Title() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAuditItemDescription(t *testing.T) {
	item := AuditItem{
		ControlAuditResult: ControlAuditResult{
			Family:          "AC",
			ClaimedStatus:   StatusImplemented,
			ComplianceScore: 85,
		},
	}

	got := item.Description()
	for _, substr := range []string{"AC", "implemented", "85"} {
		if !strings.Contains(got, substr) {
			t.Errorf("Description() = %q, want to contain %q", got, substr)
		}
	}
}

func TestAuditItemFilterValue(t *testing.T) {
	item := AuditItem{
		ControlAuditResult: ControlAuditResult{
			ControlID:          "3.1.1",
			Family:             "AC",
			Requirement:        "Limit system access",
			ClaimedStatus:      StatusImplemented,
			VerificationStatus: VerificationNeedsReview,
		},
	}

	got := item.FilterValue()

	expected := []string{"3.1.1", "AC", "Limit system access", "implemented", "needs_review"}
	for _, substr := range expected {
		if !strings.Contains(got, substr) {
			t.Errorf("FilterValue() = %q, want to contain %q", got, substr)
		}
	}
}

func TestControlHasReferences(t *testing.T) {
	tests := []struct {
		name      string
		policy    string
		procedure string
		hasPol    bool
		hasProc   bool
	}{
		{"both present", "MAC-POL-210", "MAC-SOP-001", true, true},
		{"sentinel", "-", "-", false, false},
		{"empty", "", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Control{Policy: tt.policy, Procedure: tt.procedure}
			if got := c.HasPolicy(); got != tt.hasPol {
				t.Errorf("HasPolicy() = %v, want %v", got, tt.hasPol)
			}
			if got := c.HasProcedure(); got != tt.hasProc {
				t.Errorf("HasProcedure() = %v, want %v", got, tt.hasProc)
			}
		})
	}
}
