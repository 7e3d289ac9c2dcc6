// Package model defines the control records, resolver results, and audit
// rollups shared by the parser, auditor, TUI, and agent.
package model

import "time"

// ControlStatus is the claimed (or verified) implementation status of a
// control, as authored in the SCTM status column.
type ControlStatus string

const (
	StatusImplemented        ControlStatus = "implemented"
	StatusInherited          ControlStatus = "inherited"
	StatusPartiallySatisfied ControlStatus = "partially_satisfied"
	StatusNotImplemented     ControlStatus = "not_implemented"
	StatusNotApplicable      ControlStatus = "not_applicable"
)

// VerificationStatus is the auditor's judgement of a control after
// cross-checking its references against the file tree.
type VerificationStatus string

const (
	VerificationVerified    VerificationStatus = "verified"
	VerificationDiscrepancy VerificationStatus = "discrepancy"
	VerificationNeedsReview VerificationStatus = "needs_review"
)

// Control is one row of the System Control Traceability Matrix.
type Control struct {
	ID              string        `json:"id"` // dotted NIST 800-171 identifier, e.g. "3.1.1"
	Requirement     string        `json:"requirement"`
	NISTRequirement string        `json:"nist_requirement,omitempty"` // 10-column layout only
	NISTDiscussion  string        `json:"nist_discussion,omitempty"`  // 10-column layout only
	Status          ControlStatus `json:"status"`
	Family          string        `json:"family"` // from the nearest preceding section header, e.g. "AC"
	Policy          string        `json:"policy"`
	Procedure       string        `json:"procedure"`
	Evidence        string        `json:"evidence"`
	Implementation  string        `json:"implementation"`
	SSPSection      string        `json:"ssp_section"`
}

// NoReference is the sentinel used in SCTM reference cells to mean
// "not applicable / none".
const NoReference = "-"

// HasPolicy reports whether the policy cell names at least one reference.
func (c Control) HasPolicy() bool { return c.Policy != "" && c.Policy != NoReference }

// HasProcedure reports whether the procedure cell names at least one reference.
func (c Control) HasProcedure() bool { return c.Procedure != "" && c.Procedure != NoReference }

// EvidenceItem is the resolved state of one reference string.
type EvidenceItem struct {
	Reference string   `json:"reference"`
	Exists    bool     `json:"exists"`
	Path      string   `json:"path,omitempty"`
	Issues    []string `json:"issues,omitempty"`
}

// CodeVerification is the resolved state of one implementation reference.
type CodeVerification struct {
	File                 string   `json:"file"`
	Exists               bool     `json:"exists"`
	ContainsRelevantCode bool     `json:"contains_relevant_code"`
	CodeSnippets         []string `json:"code_snippets,omitempty"`
	Issues               []string `json:"issues,omitempty"`
}

// EvidenceBundle groups the four resolver outputs for one control.
type EvidenceBundle struct {
	Policies         []EvidenceItem     `json:"policies"`
	Procedures       []EvidenceItem     `json:"procedures"`
	Evidence         []EvidenceItem     `json:"evidence"`
	CodeVerification []CodeVerification `json:"code_verification"`
}

// ControlAuditResult is one control's full verification outcome.
type ControlAuditResult struct {
	ControlID          string             `json:"control_id"`
	Requirement        string             `json:"requirement"`
	Family             string             `json:"family"`
	ClaimedStatus      ControlStatus      `json:"claimed_status"`
	VerifiedStatus     ControlStatus      `json:"verified_status"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	Issues             []string           `json:"issues"`
	Evidence           EvidenceBundle     `json:"evidence"`
	ComplianceScore    int                `json:"compliance_score"`
	LastVerified       time.Time          `json:"last_verified"`
}

// StatusCount pairs claimed and verified counts for one claimed status.
type StatusCount struct {
	Claimed  int `json:"claimed"`
	Verified int `json:"verified"`
}

// FamilyStats holds per-family rollup numbers.
type FamilyStats struct {
	Total        int     `json:"total"`
	AverageScore float64 `json:"average_score"`
}

// CriticalIssue flags a control that needs immediate attention.
type CriticalIssue struct {
	ControlID   string `json:"control_id"`
	Requirement string `json:"requirement"`
	Score       int    `json:"score"`
	IssueCount  int    `json:"issue_count"`
}

// AuditSummary is the portfolio rollup over a full audit run.
type AuditSummary struct {
	Total                  int                           `json:"total"`
	Verified               int                           `json:"verified"`
	NeedsReview            int                           `json:"needs_review"`
	Discrepancies          int                           `json:"discrepancies"`
	AverageComplianceScore float64                       `json:"average_compliance_score"`
	ByStatus               map[ControlStatus]StatusCount `json:"by_status"`
	ByFamily               map[string]FamilyStats        `json:"by_family"`
	CriticalIssues         []CriticalIssue               `json:"critical_issues"`
}
