package tui

import (
	"fmt"
	"io"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AuditDelegate is a custom delegate for rendering audited controls
type AuditDelegate struct {
	ShowDescription bool
	Styles          AuditDelegateStyles
}

// AuditDelegateStyles contains the styles for the delegate
type AuditDelegateStyles struct {
	NormalTitle   lipgloss.Style
	NormalDesc    lipgloss.Style
	SelectedTitle lipgloss.Style
	SelectedDesc  lipgloss.Style
	DimmedTitle   lipgloss.Style
	DimmedDesc    lipgloss.Style
	ControlStyle  lipgloss.Style
	ReviewIcon    lipgloss.Style
}

// NewAuditDelegate creates a new delegate with default styles
func NewAuditDelegate() AuditDelegate {
	return AuditDelegate{
		ShowDescription: true,
		Styles: AuditDelegateStyles{
			NormalTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
			NormalDesc:    lipgloss.NewStyle().Foreground(SubtleColor),
			SelectedTitle: lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true),
			SelectedDesc:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
			DimmedTitle:   lipgloss.NewStyle().Foreground(SubtleColor),
			DimmedDesc:    lipgloss.NewStyle().Foreground(SubtleColor),
			ControlStyle:  lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true),
			ReviewIcon:    lipgloss.NewStyle().Foreground(ReviewColor),
		},
	}
}

// Height returns the height of each item
func (d AuditDelegate) Height() int {
	if d.ShowDescription {
		return 2
	}
	return 1
}

// Spacing returns the spacing between items
func (d AuditDelegate) Spacing() int {
	return 1
}

// Update handles item updates
func (d AuditDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render renders a single item
func (d AuditDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	result, ok := item.(model.AuditItem)
	if !ok {
		return
	}

	isSelected := index == m.Index()
	isFiltering := m.FilterState() == list.Filtering

	var titleStyle, descStyle, idStyle lipgloss.Style
	if isFiltering {
		titleStyle = d.Styles.DimmedTitle
		descStyle = d.Styles.DimmedDesc
		idStyle = d.Styles.DimmedTitle
	} else if isSelected {
		titleStyle = d.Styles.SelectedTitle
		descStyle = d.Styles.SelectedDesc
		idStyle = d.Styles.ControlStyle
	} else {
		titleStyle = d.Styles.NormalTitle
		descStyle = d.Styles.NormalDesc
		idStyle = d.Styles.ControlStyle
	}

	idPrefix := idStyle.Render(fmt.Sprintf("[%s]", result.ControlID))
	title := titleStyle.Render(" " + result.Title())

	indicators := " " + ScoreBadge(result.ComplianceScore)
	if result.VerificationStatus == model.VerificationNeedsReview {
		indicators += d.Styles.ReviewIcon.Render(" [R]")
	}
	if len(result.Issues) > 0 {
		indicators += " " + lipgloss.NewStyle().Foreground(ErrorColor).Bold(true).
			Render(fmt.Sprintf("[%d!]", len(result.Issues)))
	}

	line := idPrefix + title + indicators

	if isSelected {
		line = SelectedItemStyle.Render(line)
	} else {
		line = NormalItemStyle.Render(line)
	}

	fmt.Fprint(w, line)

	if d.ShowDescription {
		descText := fmt.Sprintf("%s | %s", result.Description(), ScoreBar(result.ComplianceScore, 10))
		desc := descStyle.Render(descText)
		if isSelected {
			desc = SelectedItemStyle.Render(desc)
		} else {
			desc = NormalItemStyle.Render(desc)
		}
		fmt.Fprint(w, "\n"+desc)
	}
}
