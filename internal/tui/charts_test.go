package tui

import (
	"testing"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
)

func TestGetFamilyScores(t *testing.T) {
	results := sampleResults()
	families := GetFamilyScores(results)

	if len(families) != 2 {
		t.Fatalf("families = %d, want 2", len(families))
	}
	// Sorted by family code
	if families[0].Family != "AC" || families[1].Family != "AU" {
		t.Errorf("family order = %s, %s", families[0].Family, families[1].Family)
	}
	ac := families[0]
	if ac.Count != 2 {
		t.Errorf("AC count = %d, want 2", ac.Count)
	}
	if ac.AverageScore != 62.5 {
		t.Errorf("AC average = %v, want 62.5", ac.AverageScore)
	}
	if ac.IssueCount != 1 {
		t.Errorf("AC issues = %d, want 1", ac.IssueCount)
	}
}

func TestGetFamilyScoresEmpty(t *testing.T) {
	if families := GetFamilyScores(nil); len(families) != 0 {
		t.Errorf("families = %v, want none", families)
	}
}

func TestGetStatusBreakdown(t *testing.T) {
	stats := GetStatusBreakdown(sampleResults())

	if len(stats) != 2 {
		t.Fatalf("statuses = %d, want 2", len(stats))
	}
	// Implemented comes before inherited in severity order
	if stats[0].Status != model.StatusImplemented || stats[0].Count != 2 {
		t.Errorf("first status = %+v", stats[0])
	}
	if stats[1].Status != model.StatusInherited || stats[1].Count != 1 {
		t.Errorf("second status = %+v", stats[1])
	}
}

func TestGetScoreDistribution(t *testing.T) {
	buckets := GetScoreDistribution(sampleResults())

	if len(buckets) != 4 {
		t.Fatalf("buckets = %d, want 4", len(buckets))
	}
	// Scores: 100, 25, 70
	want := []int{0, 1, 1, 1}
	for i, b := range buckets {
		if b.Count != want[i] {
			t.Errorf("bucket %s = %d, want %d", b.Label, b.Count, want[i])
		}
	}
}

func TestRenderChartsHandleEmptyData(t *testing.T) {
	if got := RenderFamilyChart(nil, 80, 24, 0); got == "" {
		t.Error("family chart should render a placeholder")
	}
	if got := RenderStatusChart(nil, 80, 24); got == "" {
		t.Error("status chart should render a placeholder")
	}
	if got := RenderScoreChart(nil, 80, 24); got == "" {
		t.Error("score chart should render a placeholder")
	}
	if got := RenderIssueChart(nil, 80, 24); got == "" {
		t.Error("issue chart should render a placeholder")
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"AC", 10, "AC"},
		{"Configuration Management", 10, "Configura."},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}
