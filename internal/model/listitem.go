package model

import (
	"fmt"
	"strings"
)

// AuditItem wraps ControlAuditResult to implement the list.Item interface
type AuditItem struct {
	ControlAuditResult
}

// Title returns the display title for the list
func (a AuditItem) Title() string {
	return a.Requirement
}

// Description returns the secondary text for the list
func (a AuditItem) Description() string {
	return fmt.Sprintf("%s | %s | Score: %d", a.Family, a.ClaimedStatus, a.ComplianceScore)
}

// FilterValue returns the string used for filtering
func (a AuditItem) FilterValue() string {
	return strings.Join([]string{
		a.ControlID,
		a.Family,
		a.Requirement,
		string(a.ClaimedStatus),
		string(a.VerificationStatus),
	}, " ")
}
