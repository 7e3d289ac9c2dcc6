package audit

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
)

var codeExtensions = []string{".ts", ".tsx", ".js", ".prisma", ".sql"}

func hasCodeExtension(ref string) bool {
	for _, ext := range codeExtensions {
		if strings.Contains(ref, ext) {
			return true
		}
	}
	return false
}

// resolveEvidence maps every evidence reference in the cell to an evidence
// item. Evidence cells are the most heterogeneous field in the matrix: code
// paths, schema models, markdown documents, MAC document IDs, web routes, and
// plain descriptive statements all appear, often mixed in one comma list.
func (a *Auditor) resolveEvidence(field string) []model.EvidenceItem {
	if field == model.NoReference || field == "" {
		return []model.EvidenceItem{{
			Reference: field,
			Issues:    []string{"No evidence reference provided"},
		}}
	}

	items := make([]model.EvidenceItem, 0, 1)
	for _, ref := range splitRefs(field) {
		items = append(items, a.resolveEvidenceRef(ref))
	}
	return items
}

func (a *Auditor) resolveEvidenceRef(ref string) model.EvidenceItem {
	switch {
	case hasCodeExtension(ref) || strings.Contains(ref, "model") || strings.Contains(ref, "Model"):
		return a.resolveCodeEvidence(ref)
	case strings.HasPrefix(ref, "/api/") || strings.HasPrefix(ref, "/admin/"):
		return a.resolveRouteEvidence(ref)
	case strings.Contains(ref, "/") && strings.HasSuffix(ref, ".md"):
		return a.resolveDocEvidence(ref)
	case strings.HasPrefix(ref, "MAC-"):
		return a.resolveMACEvidence(ref)
	}
	return a.resolveDescriptiveEvidence(ref)
}

// resolveCodeEvidence handles source files and schema model references.
// "AuditLog model" is verified by finding "model AuditLog" in the database
// schema rather than on disk.
func (a *Auditor) resolveCodeEvidence(ref string) model.EvidenceItem {
	item := model.EvidenceItem{Reference: ref}

	if name := modelName(ref); name != "" {
		data, err := os.ReadFile(a.cfg.SchemaFile)
		if err != nil {
			item.Issues = append(item.Issues, "Schema file not readable for model reference: "+ref)
			return item
		}
		if strings.Contains(string(data), "model "+name) {
			item.Exists = true
			item.Path = a.cfg.SchemaFile
			return item
		}
		item.Issues = append(item.Issues, "Model not found in schema: "+name)
		return item
	}

	path := filepath.Join(a.cfg.SourceDir, ref)
	if fileExists(path) || dirExists(path) {
		item.Exists = true
		item.Path = path
		return item
	}
	item.Issues = append(item.Issues, "Code evidence file not found: "+ref)
	return item
}

// modelName extracts the schema model name from references like
// "AuditLog model" or "model AuditLog". Path-shaped references return "".
func modelName(ref string) string {
	if strings.Contains(ref, "/") || hasCodeExtension(ref) {
		return ""
	}
	fields := strings.Fields(ref)
	for i, f := range fields {
		if !strings.EqualFold(f, "model") {
			continue
		}
		if i > 0 {
			return fields[i-1]
		}
		if i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return ""
}

// resolveRouteEvidence accepts API-route references as functional evidence.
// The route either maps to a handler file worth recording, or gets a
// synthetic marker path; it never fails the control.
func (a *Auditor) resolveRouteEvidence(ref string) model.EvidenceItem {
	item := model.EvidenceItem{Reference: ref, Exists: true}

	candidates := []string{
		filepath.Join(a.cfg.SourceDir, "app", ref, "route.ts"),
		filepath.Join(a.cfg.SourceDir, "app", ref, "page.tsx"),
	}
	for _, c := range candidates {
		if fileExists(c) {
			item.Path = c
			return item
		}
	}
	item.Path = "[Web Route] " + ref
	return item
}

// resolveDocEvidence handles relative markdown paths. They are rooted at the
// evidence directory; a miss falls back to looking the bare filename up among
// the policies, since rows sometimes cite policies by their evidence-relative
// path.
func (a *Auditor) resolveDocEvidence(ref string) model.EvidenceItem {
	item := model.EvidenceItem{Reference: ref}

	path := filepath.Join(a.cfg.EvidenceDir, ref)
	if fileExists(path) {
		item.Exists = true
		item.Path = path
		return item
	}

	fallback := filepath.Join(a.cfg.PoliciesDir, filepath.Base(ref))
	if fileExists(fallback) {
		item.Exists = true
		item.Path = fallback
		return item
	}

	item.Issues = append(item.Issues, "Could not locate evidence: "+ref)
	return item
}

// resolveMACEvidence searches the document tree for a MAC-series reference.
// The series prefix narrows the first directory tried; the evidence root and
// its well-known subdirectories are the general fallback.
func (a *Auditor) resolveMACEvidence(ref string) model.EvidenceItem {
	item := model.EvidenceItem{Reference: ref}

	var dirs []string
	switch {
	case strings.HasPrefix(ref, "MAC-AUD-"):
		dirs = append(dirs, a.cfg.SelfAssessmentDir)
	case strings.HasPrefix(ref, "MAC-IT-"):
		dirs = append(dirs, a.cfg.SystemScopeDir)
	case strings.HasPrefix(ref, "MAC-SOP-"),
		strings.HasPrefix(ref, "MAC-CMP-"),
		strings.HasPrefix(ref, "MAC-IRP-"),
		strings.HasPrefix(ref, "MAC-POL-"):
		dirs = append(dirs, a.cfg.PoliciesDir)
	}
	dirs = append(dirs, a.cfg.EvidenceDir)
	for _, sub := range a.cfg.EvidenceSubdirs {
		dirs = append(dirs, filepath.Join(a.cfg.EvidenceDir, sub))
	}

	for _, dir := range dirs {
		exact := filepath.Join(dir, ref+".md")
		if fileExists(exact) {
			item.Exists = true
			item.Path = exact
			return item
		}
		if path := matchPrefix(dir, ref); path != "" {
			item.Exists = true
			item.Path = path
			return item
		}
	}

	item.Issues = append(item.Issues, "Could not locate evidence: "+ref)
	return item
}

// resolveDescriptiveEvidence accepts prose references that describe
// organizational facts with no artifact to check. Only phrases on the
// allow-list pass; anything else is an unresolved reference.
func (a *Auditor) resolveDescriptiveEvidence(ref string) model.EvidenceItem {
	item := model.EvidenceItem{Reference: ref}

	if matchesPhrase(ref, a.cfg.DescriptiveEvidence) {
		item.Exists = true
		item.Path = "[Descriptive] " + ref
		return item
	}

	item.Issues = append(item.Issues, "Could not locate evidence: "+ref)
	return item
}

// matchesPhrase reports whether the reference and any allow-list phrase
// contain each other, case-insensitively.
func matchesPhrase(ref string, phrases []string) bool {
	lower := strings.ToLower(ref)
	for _, p := range phrases {
		p = strings.ToLower(p)
		if strings.Contains(lower, p) || strings.Contains(p, lower) {
			return true
		}
	}
	return false
}
