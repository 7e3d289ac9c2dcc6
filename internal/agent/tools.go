package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/audit"
	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
	"github.com/MacTechSolutionsLLC/sctm-audit/internal/sctm"
	"github.com/MacTechSolutionsLLC/sctm-audit/internal/tui"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

// Cached audit run (protected by sync.Once for thread-safe initialization)
var (
	auditResults []model.ControlAuditResult
	auditOnce    sync.Once
	auditErr     error
)

// dataPaths resolves the SCTM and directory roots from the environment.
func dataPaths() (sctmPath, complianceRoot, sourceRoot string) {
	complianceRoot = os.Getenv("COMPLIANCE_ROOT")
	if complianceRoot == "" {
		complianceRoot = "docs/compliance"
	}
	sctmPath = os.Getenv("SCTM_PATH")
	if sctmPath == "" {
		sctmPath = filepath.Join(complianceRoot, "cmmc_sctm.md")
	}
	sourceRoot = os.Getenv("SOURCE_ROOT")
	if sourceRoot == "" {
		sourceRoot = "."
	}
	return sctmPath, complianceRoot, sourceRoot
}

// getExportDir returns the safe export directory for agent-generated files
func getExportDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	exportDir := filepath.Join(homeDir, ".sctm-audit-exports")
	if err := os.MkdirAll(exportDir, 0700); err != nil {
		return "."
	}
	return exportDir
}

// ensureAuditData parses the SCTM and audits every control if not already
// cached. Uses sync.Once for thread-safe initialization in server mode.
func ensureAuditData() error {
	auditOnce.Do(func() {
		sctmPath, complianceRoot, sourceRoot := dataPaths()
		controls, err := sctm.ParseFile(sctmPath)
		if err != nil {
			auditErr = err
			return
		}
		auditor := audit.New(audit.DefaultConfig(complianceRoot, sourceRoot))
		auditResults = auditor.AuditAll(controls)
	})
	return auditErr
}

// --- Tool Input/Output Types ---

// ControlSummary is a condensed view of one audited control
type ControlSummary struct {
	ControlID          string `json:"control_id"`
	Family             string `json:"family"`
	Requirement        string `json:"requirement"`
	ClaimedStatus      string `json:"claimed_status"`
	VerifiedStatus     string `json:"verified_status"`
	VerificationStatus string `json:"verification_status"`
	Score              int    `json:"compliance_score"`
	IssueCount         int    `json:"issue_count"`
}

func summarizeControl(r model.ControlAuditResult) ControlSummary {
	return ControlSummary{
		ControlID:          r.ControlID,
		Family:             r.Family,
		Requirement:        r.Requirement,
		ClaimedStatus:      string(r.ClaimedStatus),
		VerifiedStatus:     string(r.VerifiedStatus),
		VerificationStatus: string(r.VerificationStatus),
		Score:              r.ComplianceScore,
		IssueCount:         len(r.Issues),
	}
}

// AuditControlParams for audit_control tool
type AuditControlParams struct {
	ControlID string `json:"control_id" jsonschema:"The NIST 800-171 control ID to look up (e.g., 3.1.1)"`
}

// AuditControlResult for audit_control tool
type AuditControlResult struct {
	Found              bool     `json:"found"`
	ControlID          string   `json:"control_id,omitempty"`
	Family             string   `json:"family,omitempty"`
	Requirement        string   `json:"requirement,omitempty"`
	ClaimedStatus      string   `json:"claimed_status,omitempty"`
	VerifiedStatus     string   `json:"verified_status,omitempty"`
	VerificationStatus string   `json:"verification_status,omitempty"`
	Score              int      `json:"compliance_score,omitempty"`
	Issues             []string `json:"issues,omitempty"`
	PoliciesResolved   string   `json:"policies_resolved,omitempty"`
	ProceduresResolved string   `json:"procedures_resolved,omitempty"`
	EvidenceResolved   string   `json:"evidence_resolved,omitempty"`
	CodeVerified       string   `json:"code_verified,omitempty"`
}

// SearchParams for search_controls tool
type SearchParams struct {
	Query           string `json:"query,omitempty" jsonschema:"Search term matched against control ID, requirement text, family, and status"`
	Family          string `json:"family,omitempty" jsonschema:"Filter by control family code (e.g., AC, AU, IA)"`
	NeedsReviewOnly bool   `json:"needs_review_only,omitempty" jsonschema:"Only return controls flagged needs_review"`
	Limit           int    `json:"limit,omitempty" jsonschema:"Maximum number of results to return (default 10)"`
}

// SearchResult for search_controls tool
type SearchResult struct {
	Count   int              `json:"count"`
	Results []ControlSummary `json:"results"`
}

// ListParams for list tools
type ListParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of results to return (default 10)"`
}

// StatusListParams for list_by_status tool
type StatusListParams struct {
	Status string `json:"status" jsonschema:"Claimed status: implemented, inherited, partially_satisfied, not_implemented, or not_applicable"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of results to return (default 10)"`
}

// ListResult for list tools
type ListResult struct {
	Count   int              `json:"count"`
	Total   int              `json:"total"`
	Results []ControlSummary `json:"results"`
}

// SummaryParams for get_audit_summary tool
type SummaryParams struct{}

// FamilyBreakdownParams for get_family_breakdown tool
type FamilyBreakdownParams struct{}

// FamilyBreakdown is one family's rollup
type FamilyBreakdown struct {
	Family       string  `json:"family"`
	Controls     int     `json:"controls"`
	AverageScore float64 `json:"average_score"`
	IssueCount   int     `json:"issue_count"`
}

// FamilyBreakdownResult for get_family_breakdown tool
type FamilyBreakdownResult struct {
	Families []FamilyBreakdown `json:"families"`
}

// ExportParams for export_report tool
type ExportParams struct {
	Format          string `json:"format" jsonschema:"Export format: json, csv, or markdown"`
	Family          string `json:"family,omitempty" jsonschema:"Optional family code filter to apply before export"`
	NeedsReviewOnly bool   `json:"needs_review_only,omitempty" jsonschema:"Only export controls flagged needs_review"`
}

// ExportResult for export_report tool
type ExportResult struct {
	Success  bool   `json:"success"`
	FilePath string `json:"file_path,omitempty"`
	Count    int    `json:"count,omitempty"`
	Error    string `json:"error,omitempty"`
}

// --- Tool Implementations ---

func auditControl(ctx tool.Context, params AuditControlParams) (AuditControlResult, error) {
	if err := ensureAuditData(); err != nil {
		return AuditControlResult{}, fmt.Errorf("failed to audit SCTM: %w", err)
	}

	controlID := strings.TrimSpace(params.ControlID)
	for _, r := range auditResults {
		if r.ControlID != controlID {
			continue
		}
		return AuditControlResult{
			Found:              true,
			ControlID:          r.ControlID,
			Family:             r.Family,
			Requirement:        r.Requirement,
			ClaimedStatus:      string(r.ClaimedStatus),
			VerifiedStatus:     string(r.VerifiedStatus),
			VerificationStatus: string(r.VerificationStatus),
			Score:              r.ComplianceScore,
			Issues:             r.Issues,
			PoliciesResolved:   resolvedCount(r.Evidence.Policies),
			ProceduresResolved: resolvedCount(r.Evidence.Procedures),
			EvidenceResolved:   resolvedCount(r.Evidence.Evidence),
			CodeVerified:       verifiedCount(r.Evidence.CodeVerification),
		}, nil
	}

	return AuditControlResult{Found: false}, nil
}

func resolvedCount(items []model.EvidenceItem) string {
	if len(items) == 0 {
		return "none referenced"
	}
	found := 0
	for _, it := range items {
		if it.Exists {
			found++
		}
	}
	return fmt.Sprintf("%d/%d found", found, len(items))
}

func verifiedCount(items []model.CodeVerification) string {
	if len(items) == 0 {
		return "none referenced"
	}
	relevant := 0
	for _, cv := range items {
		if cv.Exists && cv.ContainsRelevantCode {
			relevant++
		}
	}
	return fmt.Sprintf("%d/%d contain relevant code", relevant, len(items))
}

func searchControls(ctx tool.Context, params SearchParams) (SearchResult, error) {
	if err := ensureAuditData(); err != nil {
		return SearchResult{}, fmt.Errorf("failed to audit SCTM: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	var results []ControlSummary
	query := strings.ToLower(params.Query)
	family := strings.ToUpper(strings.TrimSpace(params.Family))

	for _, r := range auditResults {
		if family != "" && r.Family != family {
			continue
		}
		if params.NeedsReviewOnly && r.VerificationStatus != model.VerificationNeedsReview {
			continue
		}
		if query != "" {
			match := strings.Contains(strings.ToLower(r.ControlID), query) ||
				strings.Contains(strings.ToLower(r.Requirement), query) ||
				strings.Contains(strings.ToLower(r.Family), query) ||
				strings.Contains(strings.ToLower(string(r.ClaimedStatus)), query)
			if !match {
				continue
			}
		}

		results = append(results, summarizeControl(r))
		if len(results) >= limit {
			break
		}
	}

	return SearchResult{
		Count:   len(results),
		Results: results,
	}, nil
}

func listCriticalControls(ctx tool.Context, params ListParams) (ListResult, error) {
	if err := ensureAuditData(); err != nil {
		return ListResult{}, fmt.Errorf("failed to audit SCTM: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	// Summarize applies the critical thresholds (low score or many issues)
	critical := audit.Summarize(auditResults).CriticalIssues

	byID := make(map[string]model.ControlAuditResult, len(auditResults))
	for _, r := range auditResults {
		byID[r.ControlID] = r
	}

	var results []ControlSummary
	for _, ci := range critical {
		if len(results) >= limit {
			break
		}
		if r, ok := byID[ci.ControlID]; ok {
			results = append(results, summarizeControl(r))
		}
	}

	return ListResult{
		Count:   len(results),
		Total:   len(critical),
		Results: results,
	}, nil
}

func listByStatus(ctx tool.Context, params StatusListParams) (ListResult, error) {
	if err := ensureAuditData(); err != nil {
		return ListResult{}, fmt.Errorf("failed to audit SCTM: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	status := model.ControlStatus(strings.ToLower(strings.TrimSpace(params.Status)))

	var results []ControlSummary
	total := 0
	for _, r := range auditResults {
		if r.ClaimedStatus != status {
			continue
		}
		total++
		if len(results) < limit {
			results = append(results, summarizeControl(r))
		}
	}

	return ListResult{
		Count:   len(results),
		Total:   total,
		Results: results,
	}, nil
}

func getAuditSummary(ctx tool.Context, params SummaryParams) (model.AuditSummary, error) {
	if err := ensureAuditData(); err != nil {
		return model.AuditSummary{}, fmt.Errorf("failed to audit SCTM: %w", err)
	}
	return audit.Summarize(auditResults), nil
}

func getFamilyBreakdown(ctx tool.Context, params FamilyBreakdownParams) (FamilyBreakdownResult, error) {
	if err := ensureAuditData(); err != nil {
		return FamilyBreakdownResult{}, fmt.Errorf("failed to audit SCTM: %w", err)
	}

	var families []FamilyBreakdown
	for _, fs := range tui.GetFamilyScores(auditResults) {
		families = append(families, FamilyBreakdown{
			Family:       fs.Family,
			Controls:     fs.Count,
			AverageScore: fs.AverageScore,
			IssueCount:   fs.IssueCount,
		})
	}

	return FamilyBreakdownResult{Families: families}, nil
}

func exportReport(ctx tool.Context, params ExportParams) (ExportResult, error) {
	if err := ensureAuditData(); err != nil {
		return ExportResult{Success: false, Error: err.Error()}, nil
	}

	var format tui.ExportFormat
	switch strings.ToLower(params.Format) {
	case "json":
		format = tui.ExportJSON
	case "csv":
		format = tui.ExportCSV
	case "markdown", "md":
		format = tui.ExportMarkdown
	default:
		return ExportResult{Success: false, Error: "invalid format, use json, csv, or markdown"}, nil
	}

	results := auditResults
	family := strings.ToUpper(strings.TrimSpace(params.Family))
	if family != "" || params.NeedsReviewOnly {
		var filtered []model.ControlAuditResult
		for _, r := range auditResults {
			if family != "" && r.Family != family {
				continue
			}
			if params.NeedsReviewOnly && r.VerificationStatus != model.VerificationNeedsReview {
				continue
			}
			filtered = append(filtered, r)
		}
		results = filtered
	}

	// Use safe export directory (not current working directory)
	result := tui.Export(results, format, getExportDir())
	if result.Err != nil {
		return ExportResult{Success: false, Error: result.Err.Error()}, nil
	}

	return ExportResult{
		Success:  true,
		FilePath: result.FilePath,
		Count:    result.Count,
	}, nil
}

// CreateTools creates all audit tools for the agent
func CreateTools() ([]tool.Tool, error) {
	controlTool, err := functiontool.New(
		functiontool.Config{
			Name:        "audit_control",
			Description: "Get the full verification result for one SCTM control: statuses, compliance score, issues, and how many referenced artifacts were found",
		},
		auditControl,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit_control tool: %w", err)
	}

	searchTool, err := functiontool.New(
		functiontool.Config{
			Name:        "search_controls",
			Description: "Search audited controls by keyword, family code, or needs-review flag",
		},
		searchControls,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search_controls tool: %w", err)
	}

	criticalTool, err := functiontool.New(
		functiontool.Config{
			Name:        "list_critical_controls",
			Description: "List controls with low compliance scores or many verification issues",
		},
		listCriticalControls,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create list_critical_controls tool: %w", err)
	}

	statusTool, err := functiontool.New(
		functiontool.Config{
			Name:        "list_by_status",
			Description: "List controls by their claimed implementation status",
		},
		listByStatus,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create list_by_status tool: %w", err)
	}

	summaryTool, err := functiontool.New(
		functiontool.Config{
			Name:        "get_audit_summary",
			Description: "Get the portfolio rollup: totals, verification rates, average compliance score, per-status and per-family counts, critical issues",
		},
		getAuditSummary,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create get_audit_summary tool: %w", err)
	}

	familyTool, err := functiontool.New(
		functiontool.Config{
			Name:        "get_family_breakdown",
			Description: "Get per-family control counts, average compliance scores, and issue counts",
		},
		getFamilyBreakdown,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create get_family_breakdown tool: %w", err)
	}

	exportTool, err := functiontool.New(
		functiontool.Config{
			Name:        "export_report",
			Description: "Export audit results to a file in JSON, CSV, or Markdown format",
		},
		exportReport,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create export_report tool: %w", err)
	}

	return []tool.Tool{
		controlTool,
		searchTool,
		criticalTool,
		statusTool,
		summaryTool,
		familyTool,
		exportTool,
	}, nil
}
