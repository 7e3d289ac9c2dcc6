package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

// FamilyScore holds per-family average compliance data
type FamilyScore struct {
	Family       string
	Count        int
	AverageScore float64
	IssueCount   int
}

// StatusBreakdown holds per-status control counts
type StatusBreakdown struct {
	Status model.ControlStatus
	Count  int
}

// ScoreBucket holds score distribution data
type ScoreBucket struct {
	Label string
	Count int
}

// GetFamilyScores returns per-family stats ordered by family code.
func GetFamilyScores(results []model.ControlAuditResult) []FamilyScore {
	totals := make(map[string]*FamilyScore)
	for _, r := range results {
		fs, ok := totals[r.Family]
		if !ok {
			fs = &FamilyScore{Family: r.Family}
			totals[r.Family] = fs
		}
		fs.Count++
		fs.AverageScore += float64(r.ComplianceScore)
		fs.IssueCount += len(r.Issues)
	}

	var stats []FamilyScore
	for _, fs := range totals {
		fs.AverageScore /= float64(fs.Count)
		stats = append(stats, *fs)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Family < stats[j].Family
	})
	return stats
}

// GetStatusBreakdown returns claimed-status counts in severity order.
func GetStatusBreakdown(results []model.ControlAuditResult) []StatusBreakdown {
	order := []model.ControlStatus{
		model.StatusImplemented,
		model.StatusInherited,
		model.StatusPartiallySatisfied,
		model.StatusNotImplemented,
		model.StatusNotApplicable,
	}
	counts := make(map[model.ControlStatus]int)
	for _, r := range results {
		counts[r.ClaimedStatus]++
	}

	var stats []StatusBreakdown
	for _, s := range order {
		if counts[s] > 0 {
			stats = append(stats, StatusBreakdown{Status: s, Count: counts[s]})
		}
	}
	return stats
}

// GetScoreDistribution buckets compliance scores into quartile ranges.
func GetScoreDistribution(results []model.ControlAuditResult) []ScoreBucket {
	buckets := []ScoreBucket{
		{Label: "0-24"},
		{Label: "25-49"},
		{Label: "50-74"},
		{Label: "75-100"},
	}
	for _, r := range results {
		switch {
		case r.ComplianceScore < 25:
			buckets[0].Count++
		case r.ComplianceScore < 50:
			buckets[1].Count++
		case r.ComplianceScore < 75:
			buckets[2].Count++
		default:
			buckets[3].Count++
		}
	}
	return buckets
}

func chartTitle(text string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(PrimaryColor).
		Padding(0, 1).
		Render(text)
}

// RenderFamilyChart renders average compliance score per control family.
func RenderFamilyChart(results []model.ControlAuditResult, width, height, selectedIndex int) string {
	families := GetFamilyScores(results)
	if len(families) == 0 {
		return "No family data available"
	}

	var b strings.Builder
	b.WriteString(chartTitle("Average Compliance Score by Family"))
	b.WriteString("\n\n")

	bc := barchart.New(width-4, height-8,
		barchart.WithNoAutoBarWidth(),
		barchart.WithBarWidth(3),
		barchart.WithBarGap(1),
	)

	var items []barchart.BarData
	for _, f := range families {
		items = append(items, barchart.BarData{
			Label: f.Family,
			Values: []barchart.BarValue{{
				Name:  f.Family,
				Value: f.AverageScore,
				Style: lipgloss.NewStyle().Foreground(scoreColor(int(f.AverageScore))),
			}},
		})
	}
	bc.PushAll(items)
	bc.Draw()

	b.WriteString(bc.View())
	b.WriteString("\n\n")

	// Legend with selection highlight for family filtering
	for i, f := range families {
		marker := lipgloss.NewStyle().Foreground(scoreColor(int(f.AverageScore))).Render("█")
		line := fmt.Sprintf(" %s: %.0f%% avg (%d controls)", f.Family, f.AverageScore, f.Count)
		if i == selectedIndex {
			selectedStyle := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(PrimaryColor)
			b.WriteString(fmt.Sprintf("%s %s\n", marker, selectedStyle.Render(line)))
		} else {
			b.WriteString(fmt.Sprintf("%s%s\n", marker, line))
		}
	}

	b.WriteString("\n")
	footerStyle := lipgloss.NewStyle().Foreground(SubtleColor)
	b.WriteString(footerStyle.Render("j/k navigate • enter filter by family • g/esc back"))

	return b.String()
}

// RenderStatusChart renders the claimed-status breakdown.
func RenderStatusChart(results []model.ControlAuditResult, width, height int) string {
	stats := GetStatusBreakdown(results)
	if len(stats) == 0 {
		return "No data available"
	}

	var b strings.Builder
	b.WriteString(chartTitle("Controls by Claimed Status"))
	b.WriteString("\n\n")

	bc := barchart.New(width-4, height-12,
		barchart.WithNoAutoBarWidth(),
		barchart.WithBarWidth(6),
		barchart.WithBarGap(2),
	)

	var items []barchart.BarData
	for _, s := range stats {
		items = append(items, barchart.BarData{
			Label: truncateString(string(s.Status), 10),
			Values: []barchart.BarValue{{
				Name:  string(s.Status),
				Value: float64(s.Count),
				Style: lipgloss.NewStyle().Foreground(StatusColor(s.Status)),
			}},
		})
	}
	bc.PushAll(items)
	bc.Draw()

	b.WriteString(bc.View())
	b.WriteString("\n\n")

	total := len(results)
	for _, s := range stats {
		style := lipgloss.NewStyle().Foreground(StatusColor(s.Status)).Bold(true)
		pct := float64(s.Count) / float64(total) * 100
		b.WriteString(style.Render(fmt.Sprintf("%s: %d (%.1f%%)", s.Status, s.Count, pct)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	footerStyle := lipgloss.NewStyle().Foreground(SubtleColor)
	b.WriteString(footerStyle.Render("g/esc back to charts menu"))

	return b.String()
}

// RenderScoreChart renders the compliance score distribution.
func RenderScoreChart(results []model.ControlAuditResult, width, height int) string {
	if len(results) == 0 {
		return "No data available"
	}
	buckets := GetScoreDistribution(results)

	var b strings.Builder
	b.WriteString(chartTitle("Compliance Score Distribution"))
	b.WriteString("\n\n")

	bc := barchart.New(width-4, height-12,
		barchart.WithNoAutoBarWidth(),
		barchart.WithBarWidth(8),
		barchart.WithBarGap(2),
	)

	colors := []lipgloss.Color{ScoreLowColor, lipgloss.Color("#FF8C00"), ScoreMedColor, ScoreHighColor}
	var items []barchart.BarData
	for i, bucket := range buckets {
		items = append(items, barchart.BarData{
			Label: bucket.Label,
			Values: []barchart.BarValue{{
				Name:  bucket.Label,
				Value: float64(bucket.Count),
				Style: lipgloss.NewStyle().Foreground(colors[i]),
			}},
		})
	}
	bc.PushAll(items)
	bc.Draw()

	b.WriteString(bc.View())
	b.WriteString("\n\n")

	total := 0
	for _, r := range results {
		total += r.ComplianceScore
	}
	avg := float64(total) / float64(len(results))
	summaryStyle := lipgloss.NewStyle().Foreground(SubtleColor)
	b.WriteString(summaryStyle.Render(fmt.Sprintf("Overall average: %.1f%% across %d controls", avg, len(results))))
	b.WriteString("\n\n")
	b.WriteString(summaryStyle.Render("g/esc back to charts menu"))

	return b.String()
}

// RenderIssueChart renders issue counts per family.
func RenderIssueChart(results []model.ControlAuditResult, width, height int) string {
	families := GetFamilyScores(results)
	if len(families) == 0 {
		return "No data available"
	}

	var b strings.Builder
	b.WriteString(chartTitle("Verification Issues by Family"))
	b.WriteString("\n\n")

	bc := barchart.New(width-4, height-10,
		barchart.WithNoAutoBarWidth(),
		barchart.WithBarWidth(3),
		barchart.WithBarGap(1),
	)

	maxIssues := 0
	for _, f := range families {
		if f.IssueCount > maxIssues {
			maxIssues = f.IssueCount
		}
	}

	var items []barchart.BarData
	totalIssues := 0
	for _, f := range families {
		totalIssues += f.IssueCount
		color := SecondaryColor
		if maxIssues > 0 {
			intensity := float64(f.IssueCount) / float64(maxIssues)
			if intensity > 0.7 {
				color = ErrorColor
			} else if intensity > 0.4 {
				color = WarningColor
			}
		}
		items = append(items, barchart.BarData{
			Label: f.Family,
			Values: []barchart.BarValue{{
				Name:  f.Family,
				Value: float64(f.IssueCount),
				Style: lipgloss.NewStyle().Foreground(color),
			}},
		})
	}
	bc.PushAll(items)
	bc.Draw()

	b.WriteString(bc.View())
	b.WriteString("\n\n")

	summaryStyle := lipgloss.NewStyle().Foreground(SubtleColor)
	b.WriteString(summaryStyle.Render(fmt.Sprintf("Total issues: %d", totalIssues)))
	b.WriteString("\n\n")
	b.WriteString(summaryStyle.Render("g/esc back to charts menu"))

	return b.String()
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "."
}
