// Package cmd implements the sctm-audit subcommands.
package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/audit"
	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
	"github.com/MacTechSolutionsLLC/sctm-audit/internal/sctm"
)

// RunAudit runs the one-shot, non-interactive audit: parse the SCTM, audit
// every control, print a console summary, optionally write a JSON report.
func RunAudit(args []string) error {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	sctmPath := fs.String("sctm", "", "path to the SCTM markdown file (default: <compliance>/cmmc_sctm.md)")
	complianceRoot := fs.String("compliance", "docs/compliance", "compliance document tree root")
	sourceRoot := fs.String("source", ".", "application source tree root")
	jsonOut := fs.String("json", "", "write the full JSON report to this file")
	verbose := fs.Bool("v", false, "list every control, not just findings")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := *sctmPath
	if path == "" {
		path = filepath.Join(*complianceRoot, "cmmc_sctm.md")
	}

	controls, err := sctm.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to parse SCTM: %w", err)
	}
	if len(controls) == 0 {
		return fmt.Errorf("no control rows found in %s", path)
	}

	auditor := audit.New(audit.DefaultConfig(*complianceRoot, *sourceRoot))
	results := auditor.AuditAll(controls)
	summary := audit.Summarize(results)

	printSummary(summary, results, *verbose)

	if *jsonOut != "" {
		if err := writeJSONReport(results, summary, *jsonOut); err != nil {
			return fmt.Errorf("failed to write JSON report: %w", err)
		}
		fmt.Printf("\nReport written to %s\n", *jsonOut)
	}

	return nil
}

func printSummary(summary model.AuditSummary, results []model.ControlAuditResult, verbose bool) {
	fmt.Printf("SCTM Compliance Audit — %d controls\n\n", summary.Total)

	fmt.Printf("  Verified:      %d (%.0f%%)\n", summary.Verified, rate(summary.Verified, summary.Total))
	fmt.Printf("  Needs review:  %d (%.0f%%)\n", summary.NeedsReview, rate(summary.NeedsReview, summary.Total))
	fmt.Printf("  Discrepancies: %d\n", summary.Discrepancies)
	fmt.Printf("  Average score: %.1f%%\n\n", summary.AverageComplianceScore)

	// Per-family table, sorted by family code
	families := make([]string, 0, len(summary.ByFamily))
	for f := range summary.ByFamily {
		families = append(families, f)
	}
	sort.Strings(families)

	fmt.Println("  Family  Controls  Avg Score")
	for _, f := range families {
		stats := summary.ByFamily[f]
		fmt.Printf("  %-6s  %8d  %8.1f%%\n", f, stats.Total, stats.AverageScore)
	}

	if len(summary.CriticalIssues) > 0 {
		fmt.Printf("\nCritical issues (%d):\n", len(summary.CriticalIssues))
		for _, ci := range summary.CriticalIssues {
			fmt.Printf("  %-8s %3d%%  %d issues  %s\n", ci.ControlID, ci.Score, ci.IssueCount, ci.Requirement)
		}
	}

	if verbose {
		fmt.Println("\nControls:")
		for _, r := range results {
			fmt.Printf("  %-8s %-4s %3d%%  %-20s %s\n",
				r.ControlID, r.Family, r.ComplianceScore, r.VerificationStatus, r.Requirement)
			for _, issue := range r.Issues {
				fmt.Printf("           ✗ %s\n", issue)
			}
		}
	}
}

func rate(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

func writeJSONReport(results []model.ControlAuditResult, summary model.AuditSummary, path string) error {
	report := struct {
		ExportedAt string                     `json:"exported_at"`
		Summary    model.AuditSummary         `json:"summary"`
		Controls   []model.ControlAuditResult `json:"controls"`
	}{
		ExportedAt: time.Now().Format(time.RFC3339),
		Summary:    summary,
		Controls:   results,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
