package audit

import (
	"testing"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
)

func evidenceItems(refs map[string]bool) []model.EvidenceItem {
	var items []model.EvidenceItem
	for ref, exists := range refs {
		items = append(items, model.EvidenceItem{Reference: ref, Exists: exists})
	}
	return items
}

func TestScoreEmptyBundle(t *testing.T) {
	score := Score(model.EvidenceBundle{}, model.StatusImplemented, DefaultWeights())
	if score != 0 {
		t.Errorf("empty bundle score = %d, want 0", score)
	}
}

func TestScoreNotApplicableAlwaysFull(t *testing.T) {
	bundle := model.EvidenceBundle{
		Policies: evidenceItems(map[string]bool{"MAC-POL-999": false}),
	}
	if score := Score(bundle, model.StatusNotApplicable, DefaultWeights()); score != 100 {
		t.Errorf("not applicable score = %d, want 100", score)
	}
}

func TestScorePolicyPartialCredit(t *testing.T) {
	w := DefaultWeights()
	tests := []struct {
		name string
		refs map[string]bool
		want int
	}{
		{"all exist", map[string]bool{"MAC-POL-210": true, "MAC-POL-211": true}, 100},
		{"some exist", map[string]bool{"MAC-POL-210": true, "MAC-POL-211": false}, 50},
		{"none exist", map[string]bool{"MAC-POL-210": false}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := model.EvidenceBundle{Policies: evidenceItems(tt.refs)}
			if got := Score(bundle, model.StatusImplemented, w); got != tt.want {
				t.Errorf("score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreEvidenceProportional(t *testing.T) {
	w := DefaultWeights()
	bundle := model.EvidenceBundle{
		Evidence: []model.EvidenceItem{
			{Reference: "lib/auth.ts", Exists: true},
			{Reference: "lib/mfa.ts", Exists: false},
		},
	}
	// Half of the verifiable refs exist: 15 of 30 points.
	if got := Score(bundle, model.StatusImplemented, w); got != 50 {
		t.Errorf("score = %d, want 50", got)
	}
}

func TestScoreDescriptiveOnlyEvidence(t *testing.T) {
	w := DefaultWeights()
	bundle := model.EvidenceBundle{
		Evidence: []model.EvidenceItem{
			{Reference: "Physical security controls", Exists: true},
		},
	}
	// Descriptive-only evidence earns the flat reduced credit: 20 of 30.
	if got := Score(bundle, model.StatusImplemented, w); got != 67 {
		t.Errorf("score = %d, want 67", got)
	}
}

func TestScoreCodeRequiresRelevance(t *testing.T) {
	w := DefaultWeights()
	bundle := model.EvidenceBundle{
		CodeVerification: []model.CodeVerification{
			{File: "lib/auth.ts", Exists: true, ContainsRelevantCode: false},
		},
	}
	if got := Score(bundle, model.StatusImplemented, w); got != 0 {
		t.Errorf("existing but irrelevant code scored %d, want 0", got)
	}

	bundle.CodeVerification[0].ContainsRelevantCode = true
	if got := Score(bundle, model.StatusImplemented, w); got != 100 {
		t.Errorf("relevant code scored %d, want 100", got)
	}
}

func TestScoreDescriptiveCodeFlatCredit(t *testing.T) {
	w := DefaultWeights()

	// A descriptive implementation phrase is marked existing and relevant by
	// the resolver, but it is not file-shaped, so it earns the flat reduced
	// credit rather than the full proportional score: 20 of 30.
	bundle := model.EvidenceBundle{
		CodeVerification: []model.CodeVerification{
			{File: "NextAuth.js", Exists: true, ContainsRelevantCode: true},
		},
	}
	if got := Score(bundle, model.StatusImplemented, w); got != 67 {
		t.Errorf("descriptive code score = %d, want 67", got)
	}

	// Same partition for a schema-model evidence reference.
	evBundle := model.EvidenceBundle{
		Evidence: []model.EvidenceItem{
			{Reference: "AuditLog model", Exists: true},
		},
	}
	if got := Score(evBundle, model.StatusImplemented, w); got != 67 {
		t.Errorf("descriptive evidence score = %d, want 67", got)
	}
}

func TestScoreInheritedBonusCapped(t *testing.T) {
	w := DefaultWeights()

	full := model.EvidenceBundle{
		Policies: evidenceItems(map[string]bool{"MAC-POL-210": true}),
	}
	if got := Score(full, model.StatusInherited, w); got != 100 {
		t.Errorf("inherited bonus exceeded cap: %d", got)
	}

	empty := model.EvidenceBundle{
		Policies: evidenceItems(map[string]bool{"MAC-POL-210": false}),
	}
	if got := Score(empty, model.StatusInherited, w); got != w.InheritedBonus {
		t.Errorf("inherited floor = %d, want %d", got, w.InheritedBonus)
	}
}

func TestScoreNeverOutOfRange(t *testing.T) {
	w := DefaultWeights()
	bundles := []model.EvidenceBundle{
		{},
		{Policies: evidenceItems(map[string]bool{"a": true, "b": false})},
		{Evidence: evidenceItems(map[string]bool{"x/y.md": false})},
		{
			Policies:   evidenceItems(map[string]bool{"MAC-POL-210": true}),
			Procedures: evidenceItems(map[string]bool{"MAC-SOP-001": true}),
			Evidence:   evidenceItems(map[string]bool{"lib/auth.ts": true}),
			CodeVerification: []model.CodeVerification{
				{File: "lib/auth.ts", Exists: true, ContainsRelevantCode: true},
			},
		},
	}
	statuses := []model.ControlStatus{
		model.StatusImplemented,
		model.StatusInherited,
		model.StatusPartiallySatisfied,
		model.StatusNotImplemented,
		model.StatusNotApplicable,
	}
	for _, b := range bundles {
		for _, s := range statuses {
			if got := Score(b, s, w); got < 0 || got > 100 {
				t.Errorf("Score(%v, %s) = %d, out of range", b, s, got)
			}
		}
	}
}

func TestVerifiableRef(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"lib/auth.ts", true},
		{"MAC-AUD-001", true},
		{"screenshots/mfa.md", true},
		{"/api/admin/users", true},
		{"incident_response.md", true},
		{"AuditLog model", false},
		{"NextAuth.js", false},
		{"Physical security controls", false},
		{"Managed by Railway platform", false},
		{"-", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := verifiableRef(tt.ref); got != tt.want {
			t.Errorf("verifiableRef(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}
