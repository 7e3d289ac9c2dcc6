package audit

import "github.com/MacTechSolutionsLLC/sctm-audit/internal/model"

const (
	criticalScoreThreshold = 50
	criticalIssueThreshold = 5
)

// Summarize aggregates per-control results into the roll-up reported to the
// assessor: verification totals, claimed-vs-verified counts per status,
// per-family averages, and the controls that need attention first.
func Summarize(results []model.ControlAuditResult) model.AuditSummary {
	summary := model.AuditSummary{
		Total:    len(results),
		ByStatus: make(map[model.ControlStatus]model.StatusCount),
		ByFamily: make(map[string]model.FamilyStats),
	}

	familyTotals := make(map[string]int)
	totalScore := 0

	for _, r := range results {
		switch r.VerificationStatus {
		case model.VerificationVerified:
			summary.Verified++
		case model.VerificationNeedsReview:
			summary.NeedsReview++
		case model.VerificationDiscrepancy:
			summary.Discrepancies++
		}

		counts := summary.ByStatus[r.ClaimedStatus]
		counts.Claimed++
		if r.VerificationStatus == model.VerificationVerified {
			counts.Verified++
		}
		summary.ByStatus[r.ClaimedStatus] = counts

		stats := summary.ByFamily[r.Family]
		stats.Total++
		summary.ByFamily[r.Family] = stats
		familyTotals[r.Family] += r.ComplianceScore

		totalScore += r.ComplianceScore

		if r.ComplianceScore < criticalScoreThreshold || len(r.Issues) > criticalIssueThreshold {
			summary.CriticalIssues = append(summary.CriticalIssues, model.CriticalIssue{
				ControlID:   r.ControlID,
				Requirement: r.Requirement,
				Score:       r.ComplianceScore,
				IssueCount:  len(r.Issues),
			})
		}
	}

	if summary.Total > 0 {
		summary.AverageComplianceScore = float64(totalScore) / float64(summary.Total)
	}
	for family, stats := range summary.ByFamily {
		stats.AverageScore = float64(familyTotals[family]) / float64(stats.Total)
		summary.ByFamily[family] = stats
	}

	return summary
}
