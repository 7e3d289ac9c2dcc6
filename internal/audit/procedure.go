package audit

import (
	"path/filepath"
	"strings"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
)

// resolveProcedures maps procedure references to evidence items. Unlike
// policies, a sentinel procedure cell yields no items at all: many controls
// legitimately have no procedure, and an empty category is excluded from the
// score denominator.
func (a *Auditor) resolveProcedures(field string) []model.EvidenceItem {
	if field == model.NoReference || field == "" {
		return nil
	}

	var items []model.EvidenceItem
	for _, ref := range splitRefs(field) {
		items = append(items, a.resolveProcedure(ref))
	}
	return items
}

// resolveProcedure locates a single procedure document. Procedure cells are
// the messiest in the matrix: they mix bare IDs, filenames with and without
// extensions, doubled ".md.md" suffixes, and "../" paths escaping into the
// wider compliance tree.
func (a *Auditor) resolveProcedure(ref string) model.EvidenceItem {
	item := model.EvidenceItem{Reference: ref}

	name := normalizeProcedureName(ref)

	// "../" references are resolved against the compliance root verbatim.
	if strings.HasPrefix(ref, "../") {
		path := filepath.Join(a.cfg.ComplianceRoot, name)
		if fileExists(path) {
			item.Exists = true
			item.Path = path
			return item
		}
		item.Issues = append(item.Issues, "Procedure file not found: "+ref)
		return item
	}

	dirs := a.procedureDirs(ref)
	for _, dir := range dirs {
		if path := findProcedureIn(dir, name); path != "" {
			item.Exists = true
			item.Path = path
			return item
		}
	}

	labels := make([]string, len(dirs))
	for i, d := range dirs {
		labels[i] = filepath.Base(d)
	}
	item.Issues = append(item.Issues,
		"Procedure file not found: "+ref+" (checked "+strings.Join(labels, ", ")+")")
	return item
}

// normalizeProcedureName repairs the common data-entry mistakes in procedure
// cells before any lookup.
func normalizeProcedureName(ref string) string {
	name := strings.ReplaceAll(ref, ".md.md", ".md")
	if !strings.Contains(name, ".") && !strings.Contains(name, "/") {
		name += ".md"
	}
	return name
}

// procedureDirs picks the directories to search, in order, based on the
// reference's document-series prefix.
func (a *Auditor) procedureDirs(ref string) []string {
	switch {
	case strings.HasPrefix(ref, "MAC-RPT-"):
		return []string{a.cfg.EvidenceDir}
	case strings.HasPrefix(ref, "MAC-IT-"):
		return []string{a.cfg.SystemScopeDir}
	case strings.HasPrefix(ref, "MAC-SOP-"),
		strings.HasPrefix(ref, "MAC-CMP-"),
		strings.HasPrefix(ref, "MAC-IRP-"):
		return []string{a.cfg.PoliciesDir}
	}
	return []string{a.cfg.PoliciesDir, a.cfg.EvidenceDir, a.cfg.SystemScopeDir}
}

// findProcedureIn tries the exact filename, the filename without its ".md"
// suffix, and finally a "<base>_*" prefix match.
func findProcedureIn(dir, name string) string {
	exact := filepath.Join(dir, name)
	if fileExists(exact) {
		return exact
	}

	base := strings.TrimSuffix(name, ".md")
	bare := filepath.Join(dir, base)
	if fileExists(bare) {
		return bare
	}

	return matchPrefix(dir, base)
}
