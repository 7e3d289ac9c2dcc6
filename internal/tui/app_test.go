package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

func loadedModel(t *testing.T, results []model.ControlAuditResult) Model {
	t.Helper()
	m := NewModel(func() ([]model.ControlAuditResult, error) { return results, nil })
	m.width = 80
	m.height = 24

	updated, _ := m.Update(ResultsLoadedMsg{Results: results})
	loaded, ok := updated.(Model)
	if !ok {
		t.Fatal("Update() did not return a Model")
	}
	return loaded
}

func TestSortModeString(t *testing.T) {
	tests := []struct {
		mode SortMode
		want string
	}{
		{SortByControlID, "Control ID"},
		{SortByScore, "Compliance Score"},
		{SortByIssues, "Issue Count"},
		{SortByFamily, "Family"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestResultsLoaded(t *testing.T) {
	m := loadedModel(t, sampleResults())

	if m.loading {
		t.Error("loading should be cleared")
	}
	if m.stats.Total != 3 || m.stats.NeedsReview != 1 || m.stats.Critical != 1 {
		t.Errorf("stats = %+v, want 3/1/1", m.stats)
	}
	if len(m.list.Items()) != 3 {
		t.Errorf("list items = %d, want 3", len(m.list.Items()))
	}
}

func TestApplySortByScore(t *testing.T) {
	m := loadedModel(t, sampleResults())
	m.sortMode = SortByScore
	m.applySortAndFilter()

	first, ok := m.filteredResults[0].(model.AuditItem)
	if !ok {
		t.Fatal("list item is not an AuditItem")
	}
	if first.ControlID != "3.1.2" {
		t.Errorf("lowest score first = %s, want 3.1.2", first.ControlID)
	}
}

func TestFilterNeedsReview(t *testing.T) {
	m := loadedModel(t, sampleResults())
	m.filterMode = FilterNeedsReview
	m.applySortAndFilter()

	if len(m.filteredResults) != 1 {
		t.Fatalf("filtered = %d, want 1", len(m.filteredResults))
	}
	item := m.filteredResults[0].(model.AuditItem)
	if item.VerificationStatus != model.VerificationNeedsReview {
		t.Errorf("filtered item = %+v", item)
	}
}

func TestFilterByFamily(t *testing.T) {
	m := loadedModel(t, sampleResults())
	m.filterMode = FilterFamily
	m.selectedFamilyName = "AU"
	m.applySortAndFilter()

	if len(m.filteredResults) != 1 {
		t.Fatalf("filtered = %d, want 1", len(m.filteredResults))
	}
	item := m.filteredResults[0].(model.AuditItem)
	if item.Family != "AU" {
		t.Errorf("family = %s, want AU", item.Family)
	}
}

func TestErrorMsgRendering(t *testing.T) {
	m := NewModel(func() ([]model.ControlAuditResult, error) { return nil, nil })
	updated, _ := m.Update(ErrorMsg{Err: errors.New("sctm missing")})
	errored := updated.(Model)

	view := errored.View()
	if !strings.Contains(view, "sctm missing") {
		t.Errorf("view = %q, want error text", view)
	}
}

func TestQuitKey(t *testing.T) {
	m := loadedModel(t, sampleResults())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should produce a command")
	}
	if msg := cmd(); msg == nil {
		t.Error("q command returned nil msg")
	}
}

func TestDetailContentRendering(t *testing.T) {
	m := loadedModel(t, sampleResults())
	item := model.AuditItem{ControlAuditResult: sampleResults()[1]}
	m.selected = &item

	content := m.renderDetailContent()
	for _, want := range []string{
		"Limit system access to transactions",
		"AC",
		"Policy file not found",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("detail content missing %q", want)
		}
	}
}
