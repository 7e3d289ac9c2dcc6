package tui

import (
	"fmt"
	"strings"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	PrimaryColor   = lipgloss.Color("#7D56F4")
	SecondaryColor = lipgloss.Color("#04B575")
	WarningColor   = lipgloss.Color("#FFCC00")
	ErrorColor     = lipgloss.Color("#FF5F56")
	SubtleColor    = lipgloss.Color("#626262")

	ImplementedColor   = lipgloss.Color("#04B575")
	InheritedColor     = lipgloss.Color("#00BFFF")
	PartialColor       = lipgloss.Color("#FFCC00")
	NotImplColor       = lipgloss.Color("#FF5F56")
	NotApplicableColor = lipgloss.Color("#626262")

	ScoreHighColor = lipgloss.Color("#04B575")
	ScoreMedColor  = lipgloss.Color("#FFCC00")
	ScoreLowColor  = lipgloss.Color("#FF5F56")

	ReviewColor      = lipgloss.Color("#FFCC00")
	DiscrepancyColor = lipgloss.Color("#FF0000")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(PrimaryColor).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// Detail view styles
	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Width(18)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Underline(true)

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#CCCCCC")).
				Width(80)

	ControlBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(PrimaryColor).
			Padding(0, 1)

	IssueStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	SnippetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC")).
			Background(lipgloss.Color("#1C1C1C")).
			Padding(0, 1)

	// List item styles
	SelectedItemStyle = lipgloss.NewStyle().
				BorderLeft(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(PrimaryColor).
				PaddingLeft(1)

	NormalItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

// ReviewBadge style for controls flagged during verification.
var ReviewBadge = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#000000")).
	Background(ReviewColor).
	Padding(0, 1)

// DiscrepancyBadge style for claims contradicted by the artifacts.
var DiscrepancyBadge = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FFFFFF")).
	Background(DiscrepancyColor).
	Padding(0, 1)

// StatsStyle for the statistics header
var StatsStyle = lipgloss.NewStyle().
	Foreground(SubtleColor).
	Padding(0, 1)

// StatHighlight for important stats
var StatHighlight = lipgloss.NewStyle().
	Foreground(PrimaryColor).
	Bold(true)

// StatusColor maps a claimed status to its display color.
func StatusColor(status model.ControlStatus) lipgloss.Color {
	switch status {
	case model.StatusImplemented:
		return ImplementedColor
	case model.StatusInherited:
		return InheritedColor
	case model.StatusPartiallySatisfied:
		return PartialColor
	case model.StatusNotApplicable:
		return NotApplicableColor
	}
	return NotImplColor
}

// StatusBadge returns a colored badge for a claimed status.
func StatusBadge(status model.ControlStatus) string {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(StatusColor(status)).
		Padding(0, 1)
	return style.Render(strings.ToUpper(string(status)))
}

func scoreColor(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return ScoreHighColor
	case score >= 50:
		return ScoreMedColor
	}
	return ScoreLowColor
}

// ScoreBadge returns a colored compliance score badge.
func ScoreBadge(score int) string {
	style := lipgloss.NewStyle().Foreground(scoreColor(score)).Bold(true)
	return style.Render(fmt.Sprintf("%d%%", score))
}

// ScoreBar returns a visual bar representing a compliance score.
func ScoreBar(score, width int) string {
	if width <= 0 {
		return ""
	}
	filled := score * width / 100
	if filled < 1 && score > 0 {
		filled = 1
	}
	if filled > width {
		filled = width
	}
	empty := width - filled

	filledStyle := lipgloss.NewStyle().Foreground(scoreColor(score))
	emptyStyle := lipgloss.NewStyle().Foreground(SubtleColor)

	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", empty))
}

// VerificationBadge returns a badge for the verification outcome, or "" when
// the claim was verified clean.
func VerificationBadge(status model.VerificationStatus) string {
	switch status {
	case model.VerificationNeedsReview:
		return ReviewBadge.Render("NEEDS REVIEW")
	case model.VerificationDiscrepancy:
		return DiscrepancyBadge.Render("DISCREPANCY")
	}
	return ""
}
