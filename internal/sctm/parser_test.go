package sctm

import (
	"reflect"
	"testing"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
)

const sampleSCTM = `# System Control Traceability Matrix

## 1. Access Control (AC)

| Control ID | Requirement | Status | Policy | Procedure | Evidence | Implementation | SSP Section |
|------------|-------------|--------|--------|-----------|----------|----------------|-------------|
| 3.1.1 | Limit system access | ✅ Implemented | MAC-POL-210 | MAC-SOP-001 | lib/auth.ts | lib/auth.ts | SSP 3.1 |
| 3.1.2 | Limit transaction functions | 🔄 Inherited | MAC-POL-210 | - | Managed by Railway platform | Managed by Railway platform | SSP 3.1 |

## 2. Audit and Accountability (AU)

| Control ID | Requirement | Status | Policy | Procedure | Evidence | Implementation | SSP Section |
|------------|-------------|--------|--------|-----------|----------|----------------|-------------|
| 3.3.1 | Create audit records | 🟡 Partially Satisfied | MAC-POL-240 (to be created) | - | - | lib/audit.ts | SSP 3.3 |
`

func TestParseSample(t *testing.T) {
	controls := Parse(sampleSCTM)

	if len(controls) != 3 {
		t.Fatalf("Parse() returned %d controls, want 3", len(controls))
	}

	first := controls[0]
	if first.ID != "3.1.1" {
		t.Errorf("first control ID = %q, want 3.1.1", first.ID)
	}
	if first.Family != "AC" {
		t.Errorf("first control family = %q, want AC", first.Family)
	}
	if first.Status != model.StatusImplemented {
		t.Errorf("first control status = %q, want implemented", first.Status)
	}
	if first.Policy != "MAC-POL-210" {
		t.Errorf("first control policy = %q, want MAC-POL-210", first.Policy)
	}
	if first.SSPSection != "SSP 3.1" {
		t.Errorf("first control sspSection = %q, want SSP 3.1", first.SSPSection)
	}
}

func TestParseFamilyInheritance(t *testing.T) {
	controls := Parse(sampleSCTM)

	wantFamilies := map[string]string{
		"3.1.1": "AC",
		"3.1.2": "AC",
		"3.3.1": "AU",
	}
	for _, c := range controls {
		if want := wantFamilies[c.ID]; c.Family != want {
			t.Errorf("control %s family = %q, want %q", c.ID, c.Family, want)
		}
	}
}

func TestParseIdempotent(t *testing.T) {
	a := Parse(sampleSCTM)
	b := Parse(sampleSCTM)
	if !reflect.DeepEqual(a, b) {
		t.Error("Parse() is not deterministic for identical input")
	}
}

func TestParseMalformedRowsDropped(t *testing.T) {
	text := `## 1. Access Control (AC)

| Control ID | Requirement | Status | Policy | Procedure | Evidence | Implementation | SSP Section |
|------------|-------------|--------|--------|-----------|----------|----------------|-------------|
| not-an-id | Bad row | ✅ | - | - | - | - | - |
| 3.1.1 | Too few cells | ✅ | - |
| 3.1.5 | Good row | ✅ Implemented | - | - | - | - | SSP 3.1 |
`
	controls := Parse(text)
	if len(controls) != 1 {
		t.Fatalf("Parse() returned %d controls, want 1", len(controls))
	}
	if controls[0].ID != "3.1.5" {
		t.Errorf("surviving control = %q, want 3.1.5", controls[0].ID)
	}
}

func TestParseTenColumnLayout(t *testing.T) {
	text := `## 1. Access Control (AC)

| 3.1.1 | Limit access | Limit system access to authorized users. | Access control policies... | ✅ Implemented | MAC-POL-210 | MAC-SOP-001 | lib/auth.ts | lib/auth.ts | SSP 3.1 |
`
	controls := Parse(text)
	if len(controls) != 1 {
		t.Fatalf("Parse() returned %d controls, want 1", len(controls))
	}
	c := controls[0]
	if c.NISTRequirement == "" || c.NISTDiscussion == "" {
		t.Error("10-column layout should populate NIST requirement and discussion")
	}
	if c.Status != model.StatusImplemented {
		t.Errorf("status = %q, want implemented", c.Status)
	}
	if c.Implementation != "lib/auth.ts" {
		t.Errorf("implementation = %q, want lib/auth.ts", c.Implementation)
	}
}

func TestParseStatusPriority(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want model.ControlStatus
	}{
		{"implemented emoji", "✅ Implemented", model.StatusImplemented},
		{"inherited emoji", "🔄 Inherited", model.StatusInherited},
		{"partial emoji", "🟡 Partially Satisfied", model.StatusPartiallySatisfied},
		{"not implemented emoji", "❌ Not Implemented", model.StatusNotImplemented},
		{"not applicable emoji", "🚫 Not Applicable", model.StatusNotApplicable},
		{"combined inherited and implemented", "🔄 Inherited / ✅ Implemented", model.StatusImplemented},
		{"combined words", "Inherited / Implemented", model.StatusImplemented},
		{"word implemented", "Implemented", model.StatusImplemented},
		{"word not implemented", "Not implemented", model.StatusNotImplemented},
		{"word not applicable", "Not Applicable", model.StatusNotApplicable},
		{"word partial", "Partially satisfied", model.StatusPartiallySatisfied},
		{"unrecognized defaults to not implemented", "TBD", model.StatusNotImplemented},
		{"empty defaults to not implemented", "", model.StatusNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseStatus(tt.cell); got != tt.want {
				t.Errorf("parseStatus(%q) = %q, want %q", tt.cell, got, tt.want)
			}
		})
	}
}

func TestCleanReference(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want string
	}{
		{"plain reference", "MAC-POL-210", "MAC-POL-210"},
		{"to be created stripped", "MAC-POL-240 (to be created)", "MAC-POL-240"},
		{"case insensitive", "MAC-POL-240 (To Be Created)", "MAC-POL-240"},
		{"empty becomes sentinel", "", "-"},
		{"annotation only becomes sentinel", "(to be created)", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanReference(tt.cell); got != tt.want {
				t.Errorf("cleanReference(%q) = %q, want %q", tt.cell, got, tt.want)
			}
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile("/nonexistent/sctm.md"); err == nil {
		t.Error("ParseFile() should fail for a missing matrix")
	}
}
