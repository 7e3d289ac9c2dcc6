// Package audit cross-checks SCTM control records against the compliance
// document tree and the application source tree, and scores the results.
package audit

import "path/filepath"

// Weights is the point allocation used by the compliance scorer. The values
// are assessment policy, not derived constants; keep them overridable.
type Weights struct {
	Policy            int // full credit when every referenced policy exists
	Procedure         int
	Evidence          int
	Code              int
	PartialCredit     int // some, but not all, policies/procedures exist
	DescriptiveCredit int // evidence/code cited only as descriptive statements
	InheritedBonus    int // added for inherited controls, capped at 100
}

// DefaultWeights returns the standard 20/20/30/30 allocation.
func DefaultWeights() Weights {
	return Weights{
		Policy:            20,
		Procedure:         20,
		Evidence:          30,
		Code:              30,
		PartialCredit:     10,
		DescriptiveCredit: 20,
		InheritedBonus:    20,
	}
}

// Config carries the directory roots and assessment policy for one audit run.
// Everything the resolvers and scorer consult lives here so tests can point
// an Auditor at temporary directories.
type Config struct {
	PoliciesDir       string // policy and procedure documents
	EvidenceDir       string // evidence artifacts
	SystemScopeDir    string // system scoping documents (MAC-IT-*)
	SelfAssessmentDir string // self-assessment reports (MAC-AUD-*)
	ComplianceRoot    string // base for "../" relative procedure references
	SourceDir         string // application source tree
	SchemaFile        string // database schema checked for "model <Name>" references

	// EvidenceSubdirs are searched, in order, as a last resort for MAC-
	// prefixed evidence references.
	EvidenceSubdirs []string

	Weights Weights

	// ReviewIssueThreshold is the issue count above which an implemented
	// claim with no supporting artifacts is downgraded to partially
	// satisfied. The default of 3 is assessor judgement, not documented
	// policy.
	ReviewIssueThreshold int

	// InheritedKeywords are the hosting-justification words an inherited
	// control's implementation text must mention to pass review.
	InheritedKeywords []string

	// DescriptiveEvidence and DescriptiveImplementation are the accepted
	// non-file reference phrases. They encode organizational facts that
	// have no corresponding artifact and must not count against the score.
	DescriptiveEvidence       []string
	DescriptiveImplementation []string

	// MaxDirFiles caps recursive code-file collection for directory
	// implementation references.
	MaxDirFiles int
}

// DefaultConfig returns the standard layout rooted at complianceRoot for
// documents and sourceRoot for the application tree.
func DefaultConfig(complianceRoot, sourceRoot string) Config {
	return Config{
		PoliciesDir:       filepath.Join(complianceRoot, "policies"),
		EvidenceDir:       filepath.Join(complianceRoot, "evidence"),
		SystemScopeDir:    filepath.Join(complianceRoot, "system-scope"),
		SelfAssessmentDir: filepath.Join(complianceRoot, "evidence", "self-assessment"),
		ComplianceRoot:    complianceRoot,
		SourceDir:         sourceRoot,
		SchemaFile:        filepath.Join(sourceRoot, "prisma", "schema.prisma"),
		EvidenceSubdirs: []string{
			"access-control",
			"audit-logs",
			"configuration",
			"incident-response",
			"screenshots",
			"training",
		},
		Weights:              DefaultWeights(),
		ReviewIssueThreshold: 3,
		InheritedKeywords:    []string{"Railway", "platform"},
		DescriptiveEvidence: []string{
			"physical security",
			"facilities",
			"training program",
			"security awareness",
			"background check",
			"onboarding",
			"offboarding",
			"visitor log",
			"escort",
			"org chart",
			"organizational",
			"screen lock",
			"managed by",
			"inherited",
			"verbal",
			"manual process",
			"quarterly review",
			"annual review",
			"documented in ssp",
			"n/a",
		},
		DescriptiveImplementation: []string{
			"nextauth.js",
			"nextauth",
			"rbac",
			"tls/https",
			"tls",
			"https",
			"railway",
			"platform",
			"prisma",
			"middleware",
			"bcrypt",
			"session management",
			"managed by",
			"inherited",
			"environment variable",
			"database encryption",
			"vercel",
			"manual process",
		},
		MaxDirFiles: 50,
	}
}
