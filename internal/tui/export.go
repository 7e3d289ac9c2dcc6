package tui

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/audit"
	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
)

// ExportFormat represents the export file format
type ExportFormat int

const (
	ExportJSON ExportFormat = iota
	ExportCSV
	ExportMarkdown
)

func (f ExportFormat) String() string {
	switch f {
	case ExportJSON:
		return "JSON"
	case ExportCSV:
		return "CSV"
	case ExportMarkdown:
		return "Markdown"
	}
	return ""
}

func (f ExportFormat) Extension() string {
	switch f {
	case ExportJSON:
		return ".json"
	case ExportCSV:
		return ".csv"
	case ExportMarkdown:
		return ".md"
	}
	return ""
}

// ExportScope represents what data to export
type ExportScope int

const (
	ExportCurrentView ExportScope = iota
	ExportFullMatrix
)

func (s ExportScope) String() string {
	switch s {
	case ExportCurrentView:
		return "Current View"
	case ExportFullMatrix:
		return "Full Matrix"
	}
	return ""
}

// ExportOption represents a menu option
type ExportOption struct {
	Name   string
	Format ExportFormat
	Scope  ExportScope
}

// ExportResult contains the result of an export operation
type ExportResult struct {
	FilePath string
	Count    int
	Err      error
}

// Export writes audit results to a timestamped report file
func Export(results []model.ControlAuditResult, format ExportFormat, outputDir string) ExportResult {
	timestamp := time.Now().Format("2006-01-02_150405")
	filename := fmt.Sprintf("sctm_audit_%s%s", timestamp, format.Extension())
	path := filepath.Join(outputDir, filename)

	var err error
	switch format {
	case ExportJSON:
		err = exportJSON(results, path)
	case ExportCSV:
		err = exportCSV(results, path)
	case ExportMarkdown:
		err = exportMarkdown(results, path)
	}

	if err != nil {
		return ExportResult{Err: err}
	}

	return ExportResult{FilePath: path, Count: len(results)}
}

func exportJSON(results []model.ControlAuditResult, path string) error {
	export := struct {
		ExportedAt string                     `json:"exported_at"`
		Summary    model.AuditSummary         `json:"summary"`
		Controls   []model.ControlAuditResult `json:"controls"`
	}{
		ExportedAt: time.Now().Format(time.RFC3339),
		Summary:    audit.Summarize(results),
		Controls:   results,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

func exportCSV(results []model.ControlAuditResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Control ID", "Family", "Requirement", "Claimed Status",
		"Verified Status", "Verification", "Score", "Issues",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			r.ControlID,
			r.Family,
			r.Requirement,
			string(r.ClaimedStatus),
			string(r.VerifiedStatus),
			string(r.VerificationStatus),
			fmt.Sprintf("%d", r.ComplianceScore),
			strings.Join(r.Issues, "; "),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportMarkdown(results []model.ControlAuditResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	summary := audit.Summarize(results)

	var b strings.Builder
	b.WriteString("# SCTM Compliance Audit Report\n\n")
	b.WriteString(fmt.Sprintf("**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("**Controls audited:** %d\n\n", summary.Total))

	b.WriteString("## Summary\n\n")
	b.WriteString(fmt.Sprintf("- **Verified:** %d\n", summary.Verified))
	b.WriteString(fmt.Sprintf("- **Needs review:** %d\n", summary.NeedsReview))
	b.WriteString(fmt.Sprintf("- **Discrepancies:** %d\n", summary.Discrepancies))
	b.WriteString(fmt.Sprintf("- **Average compliance score:** %.1f%%\n\n", summary.AverageComplianceScore))

	if len(summary.CriticalIssues) > 0 {
		b.WriteString("## Critical Issues\n\n")
		for _, ci := range summary.CriticalIssues {
			b.WriteString(fmt.Sprintf("- **%s** (%d%%, %d issues): %s\n",
				ci.ControlID, ci.Score, ci.IssueCount, ci.Requirement))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Controls\n\n")
	b.WriteString("| Control | Family | Claimed | Verification | Score | Issues |\n")
	b.WriteString("|---------|--------|---------|--------------|-------|--------|\n")

	for _, r := range results {
		score := fmt.Sprintf("%d%%", r.ComplianceScore)
		if r.ComplianceScore < 50 {
			score = fmt.Sprintf("**%s**", score)
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %d |\n",
			r.ControlID, r.Family, r.ClaimedStatus, r.VerificationStatus, score, len(r.Issues)))
	}

	b.WriteString("\n---\n\n")
	b.WriteString("*Generated by sctm-audit*\n")

	_, err = file.WriteString(b.String())
	return err
}
